package musicbrainz

import (
	"strconv"
	"strings"

	"github.com/cesargomez89/mdlookup/internal/query"
)

// Recording search field names.
const (
	FieldTitle       = "title"
	FieldArtist      = "artist"
	FieldArtistName  = "artistname"
	FieldRelease     = "release"
	FieldDate        = "date"
	FieldTrackNumber = "tnum"
	FieldTotalTracks = "tracks"
	FieldDuration    = "dur"
)

// Compile renders q in MusicBrainz search syntax. Every And/Or node is
// parenthesized. Values are not escaped, so callers must pre-escape values
// containing characters such as ':' or '(' that the search grammar reserves.
func Compile(q query.Expr) string {
	var b strings.Builder
	compileTo(&b, q)
	return b.String()
}

func compileTo(b *strings.Builder, q query.Expr) {
	switch q.Kind() {
	case query.KindTitle:
		field(b, FieldTitle, q.Text())
	case query.KindArtist:
		field(b, FieldArtist, q.Text())
	case query.KindArtists:
		// Joined without outer parentheses, unlike And.
		for i, name := range q.Names() {
			if i > 0 {
				b.WriteString(" AND ")
			}
			field(b, FieldArtistName, name)
		}
	case query.KindAlbum:
		field(b, FieldRelease, q.Text())
	case query.KindYear:
		field(b, FieldDate, strconv.Itoa(q.Int()))
	case query.KindTrackNumber:
		field(b, FieldTrackNumber, strconv.Itoa(q.Int()))
	case query.KindTotalTracks:
		field(b, FieldTotalTracks, strconv.Itoa(q.Int()))
	case query.KindLength:
		field(b, FieldDuration, strconv.Itoa(q.Int()))
	case query.KindCustom:
		field(b, q.Key(), q.Text())
	case query.KindAnd:
		group(b, q, " AND ")
	case query.KindOr:
		group(b, q, " OR ")
	}
}

func field(b *strings.Builder, name, value string) {
	b.WriteString(name)
	b.WriteByte(':')
	b.WriteString(value)
}

func group(b *strings.Builder, q query.Expr, op string) {
	b.WriteByte('(')
	compileTo(b, q.Left())
	b.WriteString(op)
	compileTo(b, q.Right())
	b.WriteByte(')')
}
