package app

import (
	"fmt"
	"net/http"

	"github.com/cesargomez89/mdlookup/internal/config"
	"github.com/cesargomez89/mdlookup/internal/httpclient"
	"github.com/cesargomez89/mdlookup/internal/logger"
	"github.com/cesargomez89/mdlookup/internal/musicbrainz"
	"github.com/cesargomez89/mdlookup/internal/provider"
	"github.com/cesargomez89/mdlookup/internal/store"
)

// Runtime is the lookup service plus the resources it owns.
type Runtime struct {
	Lookups *LookupService
	db      *store.DB
}

// NewRuntime wires the providers, the journal and the lookup service from cfg.
func NewRuntime(cfg *config.Config, log *logger.Logger) (*Runtime, error) {
	transport := httpclient.NewClient(&http.Client{Timeout: cfg.HTTP.Timeout}, httpclient.Options{
		UserAgent:          cfg.UserAgent(),
		MinRequestInterval: cfg.HTTP.MinInterval,
		MaxAttempts:        cfg.HTTP.MaxAttempts,
	})

	reg := provider.NewRegistry()
	reg.Register(provider.Erase[*musicbrainz.SearchResponse](musicbrainz.NewClient(transport, cfg.MusicBrainz.BaseURL)))

	rt := &Runtime{}
	var (
		journal  Journal
		settings Settings
	)
	if cfg.Journal.Enabled {
		db, err := store.NewSQLiteDB(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to init journal: %w", err)
		}
		rt.db = db
		journal = db
		settings = store.NewSettingsRepo(db)
	}

	rt.Lookups = NewLookupService(reg, journal, settings, log)
	rt.Lookups.MaxEntries = cfg.Journal.MaxEntries
	rt.Lookups.RestoreDefaultProvider()
	return rt, nil
}

func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
