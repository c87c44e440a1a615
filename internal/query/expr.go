// Package query provides a provider-independent boolean expression over
// recording metadata fields.
package query

// Kind identifies the variant held by an Expr.
type Kind int

const (
	KindInvalid Kind = iota
	KindTitle
	KindArtist
	KindArtists
	KindAlbum
	KindYear
	KindTrackNumber
	KindTotalTracks
	KindLength
	KindCustom
	KindAnd
	KindOr
)

var kindNames = map[Kind]string{
	KindInvalid:     "invalid",
	KindTitle:       "title",
	KindArtist:      "artist",
	KindArtists:     "artists",
	KindAlbum:       "album",
	KindYear:        "year",
	KindTrackNumber: "track_number",
	KindTotalTracks: "total_tracks",
	KindLength:      "length",
	KindCustom:      "custom",
	KindAnd:         "and",
	KindOr:          "or",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Expr is an immutable search expression. The zero value is an empty
// expression and compiles to an empty string.
//
// Combinators own their operands: And and Or never modify the receiver or
// the argument, they return a new node pointing at copies.
type Expr struct {
	kind  Kind
	text  string
	key   string
	num   int
	names []string
	left  *Expr
	right *Expr
}

func Title(title string) Expr {
	return Expr{kind: KindTitle, text: title}
}

func Artist(name string) Expr {
	return Expr{kind: KindArtist, text: name}
}

// Artists matches recordings credited to every one of names.
func Artists(names ...string) Expr {
	cp := make([]string, len(names))
	copy(cp, names)
	return Expr{kind: KindArtists, names: cp}
}

func Album(album string) Expr {
	return Expr{kind: KindAlbum, text: album}
}

func Year(year int) Expr {
	return Expr{kind: KindYear, num: year}
}

func TrackNumber(n int) Expr {
	return Expr{kind: KindTrackNumber, num: n}
}

func TotalTracks(n int) Expr {
	return Expr{kind: KindTotalTracks, num: n}
}

// Length matches on recording duration in milliseconds.
func Length(ms int) Expr {
	return Expr{kind: KindLength, num: ms}
}

// Custom is a raw key/value predicate. Neither part is escaped by compilers.
func Custom(key, value string) Expr {
	return Expr{kind: KindCustom, key: key, text: value}
}

// And builds the conjunction of left and right.
func And(left, right Expr) Expr {
	return Expr{kind: KindAnd, left: &left, right: &right}
}

// Or builds the disjunction of left and right.
func Or(left, right Expr) Expr {
	return Expr{kind: KindOr, left: &left, right: &right}
}

// And returns e AND other.
func (e Expr) And(other Expr) Expr {
	return And(e, other)
}

// Or returns e OR other.
func (e Expr) Or(other Expr) Expr {
	return Or(e, other)
}

// All folds exprs left to right with And. All(a, b, c) is a.And(b).And(c).
// It returns the zero Expr when exprs is empty.
func All(exprs ...Expr) Expr {
	return fold(exprs, And)
}

// Any folds exprs left to right with Or.
func Any(exprs ...Expr) Expr {
	return fold(exprs, Or)
}

func fold(exprs []Expr, combine func(Expr, Expr) Expr) Expr {
	if len(exprs) == 0 {
		return Expr{}
	}
	acc := exprs[0]
	for _, e := range exprs[1:] {
		acc = combine(acc, e)
	}
	return acc
}

func (e Expr) Kind() Kind { return e.kind }

func (e Expr) IsZero() bool { return e.kind == KindInvalid }

// Text returns the string payload of Title, Artist, Album and the value of Custom.
func (e Expr) Text() string { return e.text }

// Key returns the key of a Custom expression.
func (e Expr) Key() string { return e.key }

// Int returns the numeric payload of Year, TrackNumber, TotalTracks and Length.
func (e Expr) Int() int { return e.num }

// Names returns a copy of the names held by an Artists expression.
func (e Expr) Names() []string {
	if e.names == nil {
		return nil
	}
	cp := make([]string, len(e.names))
	copy(cp, e.names)
	return cp
}

// Left returns the left operand of And/Or, or the zero Expr.
func (e Expr) Left() Expr {
	if e.left == nil {
		return Expr{}
	}
	return *e.left
}

// Right returns the right operand of And/Or, or the zero Expr.
func (e Expr) Right() Expr {
	if e.right == nil {
		return Expr{}
	}
	return *e.right
}

// IsCombinator reports whether e is an And or Or node.
func (e Expr) IsCombinator() bool {
	return e.kind == KindAnd || e.kind == KindOr
}
