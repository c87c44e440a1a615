package dto

import (
	"net/url"
	"strings"

	"github.com/cesargomez89/mdlookup/internal/query"
)

// SearchRequest is the body of POST /api/search and POST /api/compile.
type SearchRequest struct {
	Provider string     `json:"provider,omitempty"`
	Query    query.Expr `json:"query"`
}

func (r *SearchRequest) Validate() []ValidationError {
	if r.Query.IsZero() {
		return []ValidationError{{Field: "query", Message: "is required"}}
	}
	return nil
}

// BatchRequest is the body of POST /api/search/batch.
type BatchRequest struct {
	Provider string       `json:"provider,omitempty"`
	Queries  []query.Expr `json:"queries"`
}

func (r *BatchRequest) Validate(maxQueries int) []ValidationError {
	var errs []ValidationError
	switch {
	case len(r.Queries) == 0:
		errs = append(errs, ValidationError{Field: "queries", Message: "is required"})
	case len(r.Queries) > maxQueries:
		errs = append(errs, ValidationError{Field: "queries", Message: "too many queries"})
	}
	for _, q := range r.Queries {
		if q.IsZero() {
			errs = append(errs, ValidationError{Field: "queries", Message: "must not contain null entries"})
			break
		}
	}
	return errs
}

// BatchItemResponse carries either a result or an error for one query.
type BatchItemResponse struct {
	Query  query.Expr `json:"query"`
	Result any        `json:"result,omitempty"`
	Error  *ErrorBody `json:"error,omitempty"`
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error      string            `json:"error"`
	Origin     string            `json:"origin,omitempty"`
	StatusCode int               `json:"status_code,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

type CompileResponse struct {
	Provider string `json:"provider"`
	Query    string `json:"query"`
}

// ExprFromParams builds the expression for GET /api/search and GET /api/compile.
// Present fields are ANDed in the order title, artist, album, year, tnum,
// tracks, dur. A repeated artist parameter becomes an artists predicate.
func ExprFromParams(v url.Values) (query.Expr, []ValidationError) {
	var (
		parts []query.Expr
		errs  []ValidationError
	)

	if s := strings.TrimSpace(v.Get("title")); s != "" {
		parts = append(parts, query.Title(s))
	}

	var artists []string
	for _, a := range v["artist"] {
		if a = strings.TrimSpace(a); a != "" {
			artists = append(artists, a)
		}
	}
	switch len(artists) {
	case 0:
	case 1:
		parts = append(parts, query.Artist(artists[0]))
	default:
		parts = append(parts, query.Artists(artists...))
	}

	if s := strings.TrimSpace(v.Get("album")); s != "" {
		parts = append(parts, query.Album(s))
	}

	numeric := []struct {
		param    string
		validate func(string) (int, []ValidationError)
		build    func(int) query.Expr
	}{
		{"year", validateYear, query.Year},
		{"tnum", validateTrackNumber, query.TrackNumber},
		{"tracks", validateTotalTracks, query.TotalTracks},
		{"dur", validateLength, query.Length},
	}
	for _, f := range numeric {
		raw := v.Get(f.param)
		if raw == "" {
			continue
		}
		n, fieldErrs := f.validate(raw)
		if len(fieldErrs) > 0 {
			errs = append(errs, fieldErrs...)
			continue
		}
		parts = append(parts, f.build(n))
	}

	if len(errs) > 0 {
		return query.Expr{}, errs
	}
	if len(parts) == 0 {
		return query.Expr{}, []ValidationError{{Field: "query", Message: "at least one search field is required"}}
	}
	return query.All(parts...), nil
}

// ParseLimit reads the limit parameter, falling back to def when absent.
func ParseLimit(v url.Values, def, limitMax int) (int, []ValidationError) {
	raw := v.Get("limit")
	if raw == "" {
		return def, nil
	}
	return validateLimit(raw, limitMax)
}
