package query

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidJSON is returned when a JSON document does not describe an expression.
var ErrInvalidJSON = errors.New("invalid query expression")

type customJSON struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// MarshalJSON encodes e as a single-key object, e.g. {"title":"x"} or
// {"and":[{...},{...}]}. The zero Expr encodes as null.
func (e Expr) MarshalJSON() ([]byte, error) {
	var v any
	switch e.kind {
	case KindInvalid:
		return []byte("null"), nil
	case KindTitle, KindArtist, KindAlbum:
		v = e.text
	case KindYear, KindTrackNumber, KindTotalTracks, KindLength:
		v = e.num
	case KindArtists:
		names := e.names
		if names == nil {
			names = []string{}
		}
		v = names
	case KindCustom:
		v = customJSON{Key: e.key, Value: e.text}
	case KindAnd, KindOr:
		v = []Expr{e.Left(), e.Right()}
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidJSON, e.kind)
	}
	return json.Marshal(map[string]any{e.kind.String(): v})
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (e *Expr) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if obj == nil {
		*e = Expr{}
		return nil
	}
	if len(obj) != 1 {
		return fmt.Errorf("%w: expected exactly one key, got %d", ErrInvalidJSON, len(obj))
	}

	for name, raw := range obj {
		kind, ok := kindByName(name)
		if !ok {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidJSON, name)
		}
		decoded, err := decodeKind(kind, raw)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidJSON, name, err)
		}
		*e = decoded
	}
	return nil
}

func kindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name && k != KindInvalid {
			return k, true
		}
	}
	return KindInvalid, false
}

func decodeKind(kind Kind, raw json.RawMessage) (Expr, error) {
	switch kind {
	case KindTitle, KindArtist, KindAlbum:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Expr{}, err
		}
		return Expr{kind: kind, text: s}, nil
	case KindYear, KindTrackNumber, KindTotalTracks, KindLength:
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return Expr{}, err
		}
		return Expr{kind: kind, num: n}, nil
	case KindArtists:
		var names []string
		if err := json.Unmarshal(raw, &names); err != nil {
			return Expr{}, err
		}
		return Artists(names...), nil
	case KindCustom:
		var c customJSON
		if err := json.Unmarshal(raw, &c); err != nil {
			return Expr{}, err
		}
		return Custom(c.Key, c.Value), nil
	case KindAnd, KindOr:
		var operands []Expr
		if err := json.Unmarshal(raw, &operands); err != nil {
			return Expr{}, err
		}
		if len(operands) != 2 {
			return Expr{}, fmt.Errorf("expected 2 operands, got %d", len(operands))
		}
		if operands[0].IsZero() || operands[1].IsZero() {
			return Expr{}, errors.New("operands must not be null")
		}
		if kind == KindAnd {
			return And(operands[0], operands[1]), nil
		}
		return Or(operands[0], operands[1]), nil
	}
	return Expr{}, fmt.Errorf("unsupported kind %s", kind)
}
