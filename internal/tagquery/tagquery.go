// Package tagquery builds search expressions from the tags embedded in audio files.
package tagquery

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cesargomez89/mdlookup/internal/query"
)

var (
	ErrNoTags      = errors.New("no usable tags")
	ErrUnsupported = errors.New("unsupported file format")
)

// Tags holds the fields that can narrow a recording search.
type Tags struct {
	Title       string   `json:"title,omitempty"`
	Artists     []string `json:"artists,omitempty"`
	Album       string   `json:"album,omitempty"`
	Year        int      `json:"year,omitempty"`
	TrackNumber int      `json:"track_number,omitempty"`
	TotalTracks int      `json:"total_tracks,omitempty"`
}

// IsEmpty reports whether no field is set.
func (t Tags) IsEmpty() bool {
	return t.Title == "" && len(t.Artists) == 0 && t.Album == "" &&
		t.Year == 0 && t.TrackNumber == 0 && t.TotalTracks == 0
}

// Expr ANDs the present fields in the order title, artist(s), album, year,
// track number, total tracks. A single artist becomes an Artist predicate,
// several become Artists.
func (t Tags) Expr() query.Expr {
	var parts []query.Expr
	if t.Title != "" {
		parts = append(parts, query.Title(t.Title))
	}
	switch len(t.Artists) {
	case 0:
	case 1:
		parts = append(parts, query.Artist(t.Artists[0]))
	default:
		parts = append(parts, query.Artists(t.Artists...))
	}
	if t.Album != "" {
		parts = append(parts, query.Album(t.Album))
	}
	if t.Year > 0 {
		parts = append(parts, query.Year(t.Year))
	}
	if t.TrackNumber > 0 {
		parts = append(parts, query.TrackNumber(t.TrackNumber))
	}
	if t.TotalTracks > 0 {
		parts = append(parts, query.TotalTracks(t.TotalTracks))
	}
	return query.All(parts...)
}

// ReadFile reads the tags of an .mp3 or .flac file.
func ReadFile(path string) (Tags, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var (
		t   Tags
		err error
	)
	switch ext {
	case ".mp3":
		t, err = readMP3(path)
	case ".flac":
		t, err = readFLAC(path)
	default:
		return Tags{}, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
	if err != nil {
		return Tags{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// FromFile reads path and returns the expression built from its tags.
func FromFile(path string) (query.Expr, error) {
	t, err := ReadFile(path)
	if err != nil {
		return query.Expr{}, err
	}
	if t.IsEmpty() {
		return query.Expr{}, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoTags)
	}
	return t.Expr(), nil
}

// parseTrackNumber parses "N" or "N/Total".
func parseTrackNumber(s string) (num, total int) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0
	}
	numStr, totalStr, found := strings.Cut(s, "/")
	num, _ = strconv.Atoi(strings.TrimSpace(numStr))
	if found {
		total, _ = strconv.Atoi(strings.TrimSpace(totalStr))
	}
	return num, total
}

// parseYear takes the leading four digits of a date such as "1999-03-01".
func parseYear(s string) int {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil || y <= 0 {
		return 0
	}
	return y
}

func cleanArtists(names []string) []string {
	var out []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
