package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/mdlookup/internal/config"
	"github.com/cesargomez89/mdlookup/internal/constants"
	"github.com/cesargomez89/mdlookup/internal/logger"
	"github.com/cesargomez89/mdlookup/internal/query"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.DBPath = filepath.Join(t.TempDir(), "runtime.db")
	cfg.MusicBrainz.BaseURL = baseURL
	cfg.MusicBrainz.Contact = "test@example.com"
	cfg.HTTP.MinInterval = 0
	return cfg
}

func TestNewRuntime(t *testing.T) {
	var gotUA string
	mb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"created":"2024-05-01T10:00:00.000Z","count":0,"offset":0,"recordings":[]}`))
	}))
	defer mb.Close()

	rt, err := NewRuntime(testConfig(t, mb.URL), logger.Discard())
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, constants.DefaultJournalMaxEntries, rt.Lookups.MaxEntries)

	names, def := rt.Lookups.Providers()
	assert.Equal(t, []string{"musicbrainz"}, names)
	assert.Equal(t, "musicbrainz", def)

	_, err = rt.Lookups.Search(context.Background(), "", query.Title("x"))
	require.NoError(t, err)
	assert.Contains(t, gotUA, "test@example.com")

	history, err := rt.Lookups.History(5)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestNewRuntime_JournalDisabled(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Journal.Enabled = false

	rt, err := NewRuntime(cfg, logger.Discard())
	require.NoError(t, err)
	assert.Nil(t, rt.Lookups.Journal)
	assert.Nil(t, rt.Lookups.Settings)
	assert.NoError(t, rt.Close())
}

func TestNewRuntime_BadDBPath(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.DBPath = filepath.Join(t.TempDir(), "missing", "dir", "x.db")

	_, err := NewRuntime(cfg, logger.Discard())
	assert.Error(t, err)
}
