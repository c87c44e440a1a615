package musicbrainz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SearchResponse is the body of a recording search.
type SearchResponse struct {
	Created    string      `json:"created"`
	Count      int         `json:"count"`
	Offset     int         `json:"offset"`
	Recordings []Recording `json:"recordings"`
}

// ResultCount is the number of recordings in this page of results.
func (r *SearchResponse) ResultCount() int {
	if r == nil {
		return 0
	}
	return len(r.Recordings)
}

// RecordingIDs lists the ids of the returned recordings, skipping absent ones.
func (r *SearchResponse) RecordingIDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.Recordings))
	for _, rec := range r.Recordings {
		if rec.ID != nil {
			ids = append(ids, *rec.ID)
		}
	}
	return ids
}

// Recording is a single search hit. Pointer fields are nil when the
// service omitted them.
type Recording struct {
	ID           *string        `json:"id"`
	Title        *string        `json:"title"`
	Length       *int           `json:"length"`
	Score        *int           `json:"score"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
	Releases     []Release      `json:"releases"`
}

// ArtistName joins the credited names, preferring the per-credit override.
func (r *Recording) ArtistName() string {
	return joinCredits(r.ArtistCredit)
}

// Duration converts Length to a time.Duration. ok is false when the length is absent.
func (r *Recording) Duration() (d time.Duration, ok bool) {
	if r.Length == nil {
		return 0, false
	}
	return time.Duration(*r.Length) * time.Millisecond, true
}

type ArtistCredit struct {
	Name       *string `json:"name"`
	JoinPhrase string  `json:"joinphrase"`
	Artist     Artist  `json:"artist"`
}

// DisplayName returns the credited name, falling back to the artist name.
func (c ArtistCredit) DisplayName() string {
	if c.Name != nil && *c.Name != "" {
		return *c.Name
	}
	return c.Artist.Name
}

type Artist struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	SortName       string  `json:"sort-name"`
	Disambiguation *string `json:"disambiguation"`
	Aliases        []Alias `json:"aliases"`
}

type Alias struct {
	Name     string  `json:"name"`
	SortName string  `json:"sort-name"`
	Locale   *string `json:"locale"`
	Type     *string `json:"type"`
	TypeID   *string `json:"type-id"`
}

type Release struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	ArtistCredit []ArtistCredit `json:"artist-credit"`
	Date         *string        `json:"date"`
	Country      *string        `json:"country"`
	Status       ReleaseStatus  `json:"status"`
	ReleaseGroup *ReleaseGroup  `json:"release-group"`
	LabelInfo    []LabelInfo    `json:"label-info"`
	Media        []Medium       `json:"media"`
}

// LabelInfo ties a release to a label and its catalog number.
type LabelInfo struct {
	CatalogNumber *string `json:"catalog-number"`
	Label         *Label  `json:"label"`
}

type Label struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	LabelCode *int    `json:"label-code"`
	Type      *string `json:"type"`
	Country   *string `json:"country"`
	Aliases   []Alias `json:"aliases"`
}

type ReleaseGroup struct {
	ID          string      `json:"id"`
	Title       *string     `json:"title"`
	TypeID      *string     `json:"type-id"`
	PrimaryType PrimaryType `json:"primary-type"`
}

type Medium struct {
	Position int     `json:"position"`
	Format   *string `json:"format"`
	Tracks   []Track `json:"track"`
}

type Track struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Title  string `json:"title"`
	Length *int   `json:"length"`
}

// StatusKind enumerates the release statuses this client knows about.
type StatusKind int

const (
	StatusUnknown StatusKind = iota
	StatusOfficial
	StatusPromotional
	StatusBootleg
	StatusPseudoRelease
)

var releaseStatuses = map[string]StatusKind{
	"Official":       StatusOfficial,
	"Promotional":    StatusPromotional,
	"Bootleg":        StatusBootleg,
	"Pseudo-Release": StatusPseudoRelease,
}

// ReleaseStatus is an open enumeration. Values the client does not know
// decode to StatusUnknown with Text holding the literal sent by the service.
type ReleaseStatus struct {
	Kind StatusKind
	Text string

	present bool
}

// ParseReleaseStatus maps a literal to its status, defaulting to StatusUnknown.
func ParseReleaseStatus(s string) ReleaseStatus {
	return ReleaseStatus{Kind: releaseStatuses[s], Text: s, present: true}
}

func (s ReleaseStatus) Known() bool { return s.Kind != StatusUnknown }

func (s ReleaseStatus) String() string { return s.Text }

// UnmarshalJSON requires a string; a null status is left absent so that
// validation rejects it.
func (s *ReleaseStatus) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ReleaseStatus{}
		return nil
	}
	text, err := decodeEnumString(data)
	if err != nil {
		return fmt.Errorf("release status: %w", err)
	}
	*s = ParseReleaseStatus(text)
	return nil
}

func (s ReleaseStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

// PrimaryTypeKind enumerates release-group primary types.
type PrimaryTypeKind int

const (
	PrimaryTypeUnknown PrimaryTypeKind = iota
	PrimaryTypeAlbum
	PrimaryTypeSingle
	PrimaryTypeEP
	PrimaryTypeBroadcast
	PrimaryTypeOther
)

var primaryTypes = map[string]PrimaryTypeKind{
	"Album":     PrimaryTypeAlbum,
	"Single":    PrimaryTypeSingle,
	"EP":        PrimaryTypeEP,
	"Broadcast": PrimaryTypeBroadcast,
	"Other":     PrimaryTypeOther,
}

// PrimaryType follows the same open-enumeration rules as ReleaseStatus.
type PrimaryType struct {
	Kind PrimaryTypeKind
	Text string
}

func ParsePrimaryType(s string) PrimaryType {
	return PrimaryType{Kind: primaryTypes[s], Text: s}
}

func (p PrimaryType) String() string { return p.Text }

func (p *PrimaryType) UnmarshalJSON(data []byte) error {
	text, err := decodeEnumString(data)
	if err != nil {
		return fmt.Errorf("primary type: %w", err)
	}
	*p = ParsePrimaryType(text)
	return nil
}

func (p PrimaryType) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Text)
}

// decodeEnumString accepts a JSON string or null.
func decodeEnumString(data []byte) (string, error) {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	if s == nil {
		return "", nil
	}
	return *s, nil
}

var errSchema = errors.New("schema mismatch")

// validate enforces the fields the service always sends. encoding/json
// cannot express required fields on its own.
func (r *SearchResponse) validate() error {
	for i := range r.Recordings {
		if err := r.Recordings[i].validate(); err != nil {
			return fmt.Errorf("%w: recordings[%d]: %v", errSchema, i, err)
		}
	}
	return nil
}

func (r *Recording) validate() error {
	if len(r.ArtistCredit) == 0 {
		return errors.New("artist-credit is empty")
	}
	if err := validateCredits(r.ArtistCredit); err != nil {
		return err
	}
	for i := range r.Releases {
		if err := r.Releases[i].validate(); err != nil {
			return fmt.Errorf("releases[%d]: %v", i, err)
		}
	}
	return nil
}

func (r *Release) validate() error {
	if r.ID == "" {
		return errors.New("release id is missing")
	}
	if r.Title == "" {
		return errors.New("release title is missing")
	}
	if !r.Status.present {
		return errors.New("release status is missing")
	}
	if r.Media == nil {
		return errors.New("media is missing")
	}
	for i, m := range r.Media {
		for j, t := range m.Tracks {
			if t.ID == "" || t.Number == "" || t.Title == "" {
				return fmt.Errorf("media[%d].track[%d]: id, number and title are required", i, j)
			}
		}
	}
	return validateCredits(r.ArtistCredit)
}

func validateCredits(credits []ArtistCredit) error {
	for i, c := range credits {
		if c.Artist.ID == "" || c.Artist.Name == "" {
			return fmt.Errorf("artist-credit[%d]: artist id and name are required", i)
		}
	}
	return nil
}

func joinCredits(credits []ArtistCredit) string {
	var b strings.Builder
	for _, c := range credits {
		b.WriteString(c.DisplayName())
		b.WriteString(c.JoinPhrase)
	}
	return b.String()
}
