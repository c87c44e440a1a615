package musicbrainz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/mdlookup/internal/httpclient"
	"github.com/cesargomez89/mdlookup/internal/provider"
	"github.com/cesargomez89/mdlookup/internal/query"
)

const searchBody = `{
  "created": "2024-05-01T10:00:00.000Z",
  "count": 1,
  "offset": 0,
  "recordings": [
    {
      "id": "rec-1",
      "score": 100,
      "title": "Great Song",
      "length": 215000,
      "artist-credit": [
        {"name": "Cool", "joinphrase": " & ", "artist": {"id": "art-1", "name": "Cool Artist", "sort-name": "Artist, Cool",
          "aliases": [{"name": "CA", "sort-name": "CA", "locale": null, "type": "Search hint"}]}},
        {"artist": {"id": "art-2", "name": "Friend", "sort-name": "Friend"}}
      ],
      "releases": [
        {
          "id": "rel-1",
          "title": "Debut",
          "status": "Official",
          "date": "1999-03-01",
          "country": "GB",
          "release-group": {"id": "rg-1", "primary-type": "Album"},
          "label-info": [{"catalog-number": "CAT-001", "label": {"id": "lab-1", "name": "Indie Co", "label-code": 1234, "type": "Original Production"}}],
          "media": [
            {"position": 1, "format": "CD", "track": [{"id": "t-1", "number": "4", "title": "Great Song", "length": 215000}]}
          ]
        },
        {
          "id": "rel-2",
          "title": "Debut (Deluxe)",
          "status": "Withdrawn",
          "release-group": {"id": "rg-2", "primary-type": "Mixtape"},
          "media": [{"position": 2, "track": []}]
        }
      ]
    },
    {
      "artist-credit": [{"artist": {"id": "art-3", "name": "Solo", "sort-name": "Solo"}}]
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(httpclient.NewClient(nil, httpclient.Options{UserAgent: "mdlookup-test/0 ( test )"}), server.URL+"/")
}

func TestRun_SendsCompiledQuery(t *testing.T) {
	var gotPath, gotAccept, gotUA string
	var gotParams map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotParams = r.URL.Query()
		gotAccept = r.Header.Get("Accept")
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(searchBody))
	})

	q := query.Title("Great Song").And(query.Artist("Cool Artist"))
	_, err := c.Run(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "/recording", gotPath)
	assert.Equal(t, map[string][]string{"query": {"(title:Great Song AND artist:Cool Artist)"}}, gotParams)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "mdlookup-test/0 ( test )", gotUA)
}

func TestRun_DecodesResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchBody))
	})

	res, err := c.Run(context.Background(), query.Title("Great Song"))
	require.NoError(t, err)

	assert.Equal(t, "2024-05-01T10:00:00.000Z", res.Created)
	assert.Equal(t, 1, res.Count)
	require.Len(t, res.Recordings, 2)

	rec := res.Recordings[0]
	require.NotNil(t, rec.ID)
	assert.Equal(t, "rec-1", *rec.ID)
	require.NotNil(t, rec.Title)
	assert.Equal(t, "Great Song", *rec.Title)
	d, ok := rec.Duration()
	assert.True(t, ok)
	assert.Equal(t, 215*time.Second, d)
	assert.Equal(t, "Cool & Friend", rec.ArtistName())
	require.Len(t, rec.ArtistCredit[0].Artist.Aliases, 1)
	assert.Nil(t, rec.ArtistCredit[0].Artist.Aliases[0].Locale)
	assert.Nil(t, rec.ArtistCredit[1].Artist.Aliases)

	require.Len(t, rec.Releases, 2)
	official := rec.Releases[0]
	assert.Equal(t, StatusOfficial, official.Status.Kind)
	assert.True(t, official.Status.Known())
	require.NotNil(t, official.Country)
	assert.Equal(t, "GB", *official.Country)
	assert.Equal(t, PrimaryTypeAlbum, official.ReleaseGroup.PrimaryType.Kind)
	require.Len(t, official.Media, 1)
	require.NotNil(t, official.Media[0].Format)
	assert.Equal(t, "CD", *official.Media[0].Format)
	assert.Equal(t, "4", official.Media[0].Tracks[0].Number)
	require.Len(t, official.LabelInfo, 1)
	assert.Equal(t, "CAT-001", *official.LabelInfo[0].CatalogNumber)
	require.NotNil(t, official.LabelInfo[0].Label)
	assert.Equal(t, "Indie Co", official.LabelInfo[0].Label.Name)
	assert.Equal(t, 1234, *official.LabelInfo[0].Label.LabelCode)
	assert.Nil(t, rec.Releases[1].LabelInfo)

	bare := res.Recordings[1]
	assert.Nil(t, bare.ID)
	assert.Nil(t, bare.Title)
	assert.Nil(t, bare.Releases)
	_, ok = bare.Duration()
	assert.False(t, ok)
}

func TestRun_UnknownStatusIsPreserved(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchBody))
	})

	res, err := c.Run(context.Background(), query.Title("x"))
	require.NoError(t, err)

	withdrawn := res.Recordings[0].Releases[1]
	assert.Equal(t, StatusUnknown, withdrawn.Status.Kind)
	assert.False(t, withdrawn.Status.Known())
	assert.Equal(t, "Withdrawn", withdrawn.Status.String())
	assert.Equal(t, PrimaryTypeUnknown, withdrawn.ReleaseGroup.PrimaryType.Kind)
	assert.Equal(t, "Mixtape", withdrawn.ReleaseGroup.PrimaryType.Text)
	assert.Nil(t, withdrawn.Date)
}

func TestRun_NonSuccessIsTransportError(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			})

			_, err := c.Run(context.Background(), query.Title("x"))
			require.Error(t, err)
			assert.ErrorIs(t, err, provider.ErrTransport)
			assert.NotErrorIs(t, err, provider.ErrDecode)

			var pe *provider.Error
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, status, pe.StatusCode)
			assert.Equal(t, "musicbrainz", pe.Provider)
		})
	}
}

// page wraps recordings in the top-level fields every response carries.
func page(recordings string) string {
	return `{"created": "2024-05-01T10:00:00.000Z", "count": 1, "offset": 0, "recordings": ` + recordings + `}`
}

func TestRun_MalformedBodyIsDecodeError(t *testing.T) {
	const credit = `"artist-credit": [{"artist": {"id": "a", "name": "n", "sort-name": "n"}}]`
	withRelease := func(release string) string {
		return page(`[{` + credit + `, "releases": [` + release + `]}]`)
	}

	bodies := map[string]string{
		"not json":          `<metadata/>`,
		"truncated":         `{"recordings": [`,
		"null":              `null`,
		"empty object":      `{}`,
		"service error":     `{"error": "Invalid query", "help": "For usage, please see: https://musicbrainz.org/development/mmd"}`,
		"null recordings":   `{"created": "c", "count": 0, "offset": 0, "recordings": null}`,
		"missing offset":    `{"created": "c", "count": 0, "recordings": []}`,
		"wrong type":        `{"created": "c", "count": "many", "offset": 0, "recordings": []}`,
		"missing credits":   page(`[{"id": "r"}]`),
		"empty credits":     page(`[{"id": "r", "artist-credit": []}]`),
		"release w/o media": withRelease(`{"id": "x", "title": "t", "status": "Official"}`),
		"release w/o title": withRelease(`{"id": "x", "status": "Official", "media": []}`),
		"status missing":    withRelease(`{"id": "x", "title": "t", "media": []}`),
		"status null":       withRelease(`{"id": "x", "title": "t", "status": null, "media": []}`),
		"status not string": withRelease(`{"id": "x", "title": "t", "status": 3, "media": []}`),
		"track w/o number":  withRelease(`{"id": "x", "title": "t", "status": "Official", "media": [{"position": 1, "track": [{"id": "t1", "title": "s"}]}]}`),
		"track w/o title":   withRelease(`{"id": "x", "title": "t", "status": "Official", "media": [{"position": 1, "track": [{"id": "t1", "number": "1"}]}]}`),
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			res, err := c.Run(context.Background(), query.Title("x"))
			assert.Nil(t, res)
			assert.ErrorIs(t, err, provider.ErrDecode)
			assert.NotErrorIs(t, err, provider.ErrTransport)
		})
	}
}

func TestRun_EmptyPageIsSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page(`[]`)))
	})

	res, err := c.Run(context.Background(), query.Title("nothing"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.ResultCount())
	assert.Empty(t, res.RecordingIDs())
}

func TestSearchResponse_NilIsEmpty(t *testing.T) {
	var res *SearchResponse
	assert.Equal(t, 0, res.ResultCount())
	assert.Nil(t, res.RecordingIDs())
}

func TestRun_ConnectionFailureIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewClient(httpclient.NewClient(nil, httpclient.Options{}), url)
	_, err := c.Run(context.Background(), query.Title("x"))
	assert.ErrorIs(t, err, provider.ErrTransport)
}

func TestRun_CanceledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchBody))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Run(ctx, query.Title("x"))
	assert.ErrorIs(t, err, provider.ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient(nil, "")
	assert.Equal(t, "https://musicbrainz.org/ws/2", c.baseURL)
	assert.Equal(t, "musicbrainz", c.Name())
}

func TestParseReleaseStatus(t *testing.T) {
	assert.Equal(t, StatusPseudoRelease, ParseReleaseStatus("Pseudo-Release").Kind)
	assert.Equal(t, StatusBootleg, ParseReleaseStatus("Bootleg").Kind)
	assert.Equal(t, StatusPromotional, ParseReleaseStatus("Promotional").Kind)

	unknown := ParseReleaseStatus("official")
	assert.Equal(t, StatusUnknown, unknown.Kind)
	assert.Equal(t, "official", unknown.Text)
}

func TestSearchResponse_Summary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(searchBody))
	})

	res, err := c.Run(context.Background(), query.Title("x"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.ResultCount())
	assert.Equal(t, []string{"rec-1"}, res.RecordingIDs())
}
