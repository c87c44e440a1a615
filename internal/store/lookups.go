package store

import (
	"fmt"

	"github.com/cesargomez89/mdlookup/internal/domain"
)

const lookupColumns = `id, provider, expression, query, outcome, recording_ids, result_count, status_code, duration_ms, error, created_at`

func (db *DB) RecordLookup(l *domain.Lookup) error {
	query := `INSERT INTO lookups (` + lookupColumns + `)
		VALUES (:id, :provider, :expression, :query, :outcome, :recording_ids, :result_count, :status_code, :duration_ms, :error, :created_at)`

	if _, err := db.NamedExec(query, l); err != nil {
		return fmt.Errorf("record lookup %s: %w", l.ID, err)
	}
	return nil
}

func (db *DB) GetLookup(id string) (*domain.Lookup, error) {
	query := `SELECT ` + lookupColumns + ` FROM lookups WHERE id = ?`

	l := &domain.Lookup{}
	if err := db.Get(l, query, id); err != nil {
		return nil, err
	}
	return l, nil
}

// ListLookups returns the most recent lookups first.
func (db *DB) ListLookups(limit int) ([]*domain.Lookup, error) {
	query := `SELECT ` + lookupColumns + ` FROM lookups ORDER BY created_at DESC, rowid DESC LIMIT ?`

	var lookups []*domain.Lookup
	err := db.Select(&lookups, query, limit)
	return lookups, err
}

func (db *DB) LookupStats() (*domain.LookupStats, error) {
	var rows []struct {
		Outcome    domain.Outcome `db:"outcome"`
		Count      int            `db:"n"`
		DurationMS int64          `db:"total_ms"`
	}
	query := `SELECT outcome, COUNT(*) AS n, COALESCE(SUM(duration_ms), 0) AS total_ms FROM lookups GROUP BY outcome`
	if err := db.Select(&rows, query); err != nil {
		return nil, err
	}

	stats := domain.NewLookupStats()
	var totalMS int64
	for _, r := range rows {
		stats.ByOutcome[r.Outcome] = r.Count
		stats.Total += r.Count
		totalMS += r.DurationMS
	}
	if stats.Total > 0 {
		stats.AvgDurationMS = float64(totalMS) / float64(stats.Total)
	}
	return stats, nil
}

// PruneLookups keeps only the newest keep rows.
func (db *DB) PruneLookups(keep int) (int64, error) {
	res, err := db.Exec(`DELETE FROM lookups WHERE rowid NOT IN (
		SELECT rowid FROM lookups ORDER BY created_at DESC, rowid DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
