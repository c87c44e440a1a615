package tagquery

import (
	"strconv"
	"strings"

	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
)

func readFLAC(path string) (Tags, error) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return Tags{}, err
	}

	var cmts *flacvorbis.MetaDataBlockVorbisComment
	for _, meta := range f.Meta {
		if meta.Type == goflac.VorbisComment {
			cmts, err = flacvorbis.ParseFromMetaDataBlock(*meta)
			if err != nil {
				return Tags{}, err
			}
			break
		}
	}
	if cmts == nil {
		return Tags{}, nil
	}

	fields := commentFields(cmts.Comments)
	first := func(key string) string {
		if vals := fields[key]; len(vals) > 0 {
			return strings.TrimSpace(vals[0])
		}
		return ""
	}

	t := Tags{
		Title: first("TITLE"),
		Album: first("ALBUM"),
		Year:  parseYear(first("DATE")),
	}
	if t.Year == 0 {
		t.Year = parseYear(first("YEAR"))
	}

	t.Artists = cleanArtists(fields["ARTIST"])

	t.TrackNumber, t.TotalTracks = parseTrackNumber(first("TRACKNUMBER"))
	if t.TotalTracks == 0 {
		for _, key := range []string{"TOTALTRACKS", "TRACKTOTAL"} {
			if n, err := strconv.Atoi(first(key)); err == nil && n > 0 {
				t.TotalTracks = n
				break
			}
		}
	}

	return t, nil
}

// commentFields groups "KEY=value" comments by upper-cased key, keeping
// repeated keys in file order.
func commentFields(comments []string) map[string][]string {
	fields := make(map[string][]string)
	for _, c := range comments {
		key, value, ok := strings.Cut(c, "=")
		if !ok || key == "" {
			continue
		}
		key = strings.ToUpper(key)
		fields[key] = append(fields[key], value)
	}
	return fields
}
