package tagquery

import (
	"strings"

	"github.com/bogem/id3v2/v2"
)

func readMP3(path string) (Tags, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return Tags{}, err
	}
	defer tag.Close()

	t := Tags{
		Title: strings.TrimSpace(tag.Title()),
		Album: strings.TrimSpace(tag.Album()),
	}

	// ID3v2.4 separates multiple values with NUL
	t.Artists = cleanArtists(strings.Split(textFrame(tag, "TPE1"), "\x00"))

	t.TrackNumber, t.TotalTracks = parseTrackNumber(textFrame(tag, "TRCK"))

	// TDRC is the v2.4 recording time, TYER the v2.3 year
	if t.Year = parseYear(textFrame(tag, "TDRC")); t.Year == 0 {
		t.Year = parseYear(textFrame(tag, "TYER"))
	}

	return t, nil
}

func textFrame(tag *id3v2.Tag, id string) string {
	f := tag.GetTextFrame(id)
	return strings.TrimRight(f.Text, "\x00")
}
