package domain

import (
	"time"

	"github.com/cesargomez89/mdlookup/internal/constants"
)

// Outcome classifies how a lookup ended.
type Outcome string

const (
	OutcomeOK        Outcome = constants.OutcomeOK
	OutcomeTransport Outcome = constants.OutcomeTransport
	OutcomeDecode    Outcome = constants.OutcomeDecode
	OutcomeCanceled  Outcome = constants.OutcomeCanceled
	OutcomeFailed    Outcome = constants.OutcomeFailed
)

// Outcomes lists every outcome in display order.
func Outcomes() []Outcome {
	return []Outcome{OutcomeOK, OutcomeTransport, OutcomeDecode, OutcomeCanceled, OutcomeFailed}
}

// Succeeded reports whether the lookup produced a result.
func (o Outcome) Succeeded() bool {
	return o == OutcomeOK
}

// Lookup is one journaled provider call
type Lookup struct {
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	Error        *string     `json:"error,omitempty" db:"error"`
	ID           string      `json:"id" db:"id"`
	Provider     string      `json:"provider" db:"provider"`
	Expression   string      `json:"expression" db:"expression"` // JSON form of the query expression
	Query        string      `json:"query" db:"query"`           // compiled provider query
	Outcome      Outcome     `json:"outcome" db:"outcome"`
	RecordingIDs StringSlice `json:"recording_ids,omitempty" db:"recording_ids"`
	ResultCount  int         `json:"result_count" db:"result_count"`
	StatusCode   int         `json:"status_code,omitempty" db:"status_code"`
	DurationMS   int64       `json:"duration_ms" db:"duration_ms"`
}

// SetError records err's message, or clears it when err is nil.
func (l *Lookup) SetError(err error) {
	if err == nil {
		l.Error = nil
		return
	}
	msg := err.Error()
	l.Error = &msg
}

// LookupStats aggregates the journal per outcome.
type LookupStats struct {
	ByOutcome     map[Outcome]int `json:"by_outcome"`
	Total         int             `json:"total"`
	AvgDurationMS float64         `json:"avg_duration_ms"`
}

// NewLookupStats returns empty stats with every outcome present at zero.
func NewLookupStats() *LookupStats {
	stats := &LookupStats{ByOutcome: make(map[Outcome]int, len(Outcomes()))}
	for _, o := range Outcomes() {
		stats.ByOutcome[o] = 0
	}
	return stats
}
