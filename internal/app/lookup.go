package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cesargomez89/mdlookup/internal/constants"
	"github.com/cesargomez89/mdlookup/internal/domain"
	"github.com/cesargomez89/mdlookup/internal/logger"
	"github.com/cesargomez89/mdlookup/internal/metrics"
	"github.com/cesargomez89/mdlookup/internal/provider"
	"github.com/cesargomez89/mdlookup/internal/query"
	"github.com/cesargomez89/mdlookup/internal/store"
)

// Journal persists finished lookups. *store.DB implements it.
type Journal interface {
	RecordLookup(l *domain.Lookup) error
	ListLookups(limit int) ([]*domain.Lookup, error)
	LookupStats() (*domain.LookupStats, error)
	PruneLookups(keep int) (int64, error)
}

// Settings is the key/value store used to remember the default provider.
type Settings interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// resultSummary is implemented by provider responses that can report what they found.
type resultSummary interface {
	ResultCount() int
	RecordingIDs() []string
}

// Result is a successful provider call.
type Result struct {
	LookupID   string `json:"lookup_id"`
	Provider   string `json:"provider"`
	Query      string `json:"query"`
	DurationMS int64  `json:"duration_ms"`
	Response   any    `json:"response"`
}

// BatchItem is the outcome of one expression in SearchMany. Exactly one of
// Result and Err is set.
type BatchItem struct {
	Expr   query.Expr
	Result *Result
	Err    error
}

type LookupService struct {
	Registry    *provider.Registry
	Journal     Journal  // nil disables the journal
	Settings    Settings // nil keeps the default provider in memory only
	Logger      *logger.Logger
	Concurrency int
	MaxEntries  int // journal size kept after each write; 0 keeps everything
}

func NewLookupService(registry *provider.Registry, journal Journal, settings Settings, log *logger.Logger) *LookupService {
	return &LookupService{
		Registry:    registry,
		Journal:     journal,
		Settings:    settings,
		Logger:      log.WithComponent("lookup"),
		Concurrency: constants.DefaultBatchConcurrency,
	}
}

// Compile returns q in the search syntax of the named provider.
func (s *LookupService) Compile(providerName string, q query.Expr) (string, error) {
	p, err := s.Registry.Get(providerName)
	if err != nil {
		return "", err
	}
	return p.Compile(q), nil
}

// Search runs q once against the named provider (the default when empty).
func (s *LookupService) Search(ctx context.Context, providerName string, q query.Expr) (*Result, error) {
	p, err := s.Registry.Get(providerName)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, p, q)
}

// SearchMany runs every expression against the same provider concurrently.
// Items are returned in input order and a failed expression does not stop the others.
func (s *LookupService) SearchMany(ctx context.Context, providerName string, exprs []query.Expr) ([]BatchItem, error) {
	p, err := s.Registry.Get(providerName)
	if err != nil {
		return nil, err
	}

	items := make([]BatchItem, len(exprs))
	var g errgroup.Group
	if s.Concurrency > 0 {
		g.SetLimit(s.Concurrency)
	}
	for i, q := range exprs {
		g.Go(func() error {
			res, err := s.run(ctx, p, q)
			items[i] = BatchItem{Expr: q, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return items, nil
}

func (s *LookupService) run(ctx context.Context, p provider.Any, q query.Expr) (*Result, error) {
	id := uuid.New().String()
	compiled := p.Compile(q)
	log := s.Logger.WithProvider(p.Name()).WithLookup(id, compiled)

	metrics.LookupStarted()
	defer metrics.LookupFinished()

	log.Debug("Running lookup")
	start := time.Now()
	resp, err := p.Run(ctx, q)
	elapsed := time.Since(start)

	outcome := classify(err)
	metrics.ObserveLookup(p.Name(), string(outcome), elapsed)

	entry := &domain.Lookup{
		ID:         id,
		Provider:   p.Name(),
		Expression: encodeExpr(q),
		Query:      compiled,
		Outcome:    outcome,
		DurationMS: elapsed.Milliseconds(),
		CreatedAt:  start.UTC(),
	}
	entry.SetError(err)
	var pe *provider.Error
	if errors.As(err, &pe) {
		entry.StatusCode = pe.StatusCode
	}
	if sum, ok := resp.(resultSummary); ok && outcome.Succeeded() {
		entry.ResultCount = sum.ResultCount()
		entry.RecordingIDs = sum.RecordingIDs()
		metrics.ObserveResults(p.Name(), entry.ResultCount)
	}
	s.record(log, entry)

	if err != nil {
		log.Warn("Lookup failed", "outcome", outcome, "duration", elapsed, "error", err)
		return nil, err
	}

	log.Info("Lookup completed", "results", entry.ResultCount, "duration", elapsed)
	return &Result{
		LookupID:   id,
		Provider:   p.Name(),
		Query:      compiled,
		DurationMS: elapsed.Milliseconds(),
		Response:   resp,
	}, nil
}

// record writes entry to the journal. Failures are logged, never returned.
func (s *LookupService) record(log *logger.Logger, entry *domain.Lookup) {
	if s.Journal == nil {
		return
	}
	if err := s.Journal.RecordLookup(entry); err != nil {
		metrics.IncJournalFailure()
		log.Error("Failed to journal lookup", "error", err)
		return
	}
	if s.MaxEntries <= 0 {
		return
	}
	pruned, err := s.Journal.PruneLookups(s.MaxEntries)
	if err != nil {
		metrics.IncJournalFailure()
		log.Error("Failed to prune journal", "error", err)
		return
	}
	if pruned > 0 {
		log.Debug("Pruned journal", "removed", pruned, "kept", s.MaxEntries)
	}
}

func classify(err error) domain.Outcome {
	switch {
	case err == nil:
		return domain.OutcomeOK
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.OutcomeCanceled
	}
	switch provider.KindOf(err) {
	case provider.KindTransport:
		return domain.OutcomeTransport
	case provider.KindDecode:
		return domain.OutcomeDecode
	default:
		return domain.OutcomeFailed
	}
}

func encodeExpr(q query.Expr) string {
	b, err := json.Marshal(q)
	if err != nil {
		return "null"
	}
	return string(b)
}

// History returns up to limit recent lookups, newest first.
func (s *LookupService) History(limit int) ([]*domain.Lookup, error) {
	if s.Journal == nil {
		return []*domain.Lookup{}, nil
	}
	if limit <= 0 {
		limit = constants.DefaultHistoryItems
	}
	if limit > constants.MaxHistoryItems {
		limit = constants.MaxHistoryItems
	}
	return s.Journal.ListLookups(limit)
}

func (s *LookupService) Stats() (*domain.LookupStats, error) {
	if s.Journal == nil {
		return domain.NewLookupStats(), nil
	}
	return s.Journal.LookupStats()
}

// Providers lists the registered provider names and the current default.
func (s *LookupService) Providers() (names []string, defaultName string) {
	return s.Registry.Names(), s.Registry.Default()
}

// SetDefaultProvider switches the default provider and persists the choice.
func (s *LookupService) SetDefaultProvider(name string) error {
	if err := s.Registry.SetDefault(name); err != nil {
		return err
	}
	if s.Settings != nil {
		if err := s.Settings.Set(store.SettingDefaultProvider, name); err != nil {
			return fmt.Errorf("failed to persist default provider: %w", err)
		}
	}
	s.Logger.Info("Default provider changed", "provider", name)
	return nil
}

// RestoreDefaultProvider applies a previously persisted default, ignoring
// names that are no longer registered.
func (s *LookupService) RestoreDefaultProvider() {
	if s.Settings == nil {
		return
	}
	name, err := s.Settings.Get(store.SettingDefaultProvider)
	if err != nil {
		s.Logger.Warn("Failed to read default provider", "error", err)
		return
	}
	if name == "" {
		return
	}
	if err := s.Registry.SetDefault(name); err != nil {
		s.Logger.Warn("Ignoring stored default provider", "provider", name, "error", err)
	}
}
