package dto

import (
	"encoding/json"
	"time"

	"github.com/cesargomez89/mdlookup/internal/domain"
)

type LookupResponse struct {
	ID           string          `json:"id"`
	Provider     string          `json:"provider"`
	Expression   json.RawMessage `json:"expression"`
	Query        string          `json:"query"`
	Outcome      string          `json:"outcome"`
	RecordingIDs []string        `json:"recording_ids,omitempty"`
	ResultCount  int             `json:"result_count"`
	StatusCode   int             `json:"status_code,omitempty"`
	DurationMS   int64           `json:"duration_ms"`
	Error        string          `json:"error,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

func NewLookupResponse(l *domain.Lookup) LookupResponse {
	resp := LookupResponse{
		ID:           l.ID,
		Provider:     l.Provider,
		Query:        l.Query,
		Outcome:      string(l.Outcome),
		RecordingIDs: l.RecordingIDs,
		ResultCount:  l.ResultCount,
		StatusCode:   l.StatusCode,
		DurationMS:   l.DurationMS,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
	}
	if json.Valid([]byte(l.Expression)) {
		resp.Expression = json.RawMessage(l.Expression)
	} else {
		resp.Expression = json.RawMessage("null")
	}
	if l.Error != nil {
		resp.Error = *l.Error
	}
	return resp
}

type HistoryResponse struct {
	Lookups []LookupResponse    `json:"lookups"`
	Stats   *domain.LookupStats `json:"stats,omitempty"`
}

func NewHistoryResponse(lookups []*domain.Lookup, stats *domain.LookupStats) HistoryResponse {
	resp := HistoryResponse{
		Lookups: make([]LookupResponse, 0, len(lookups)),
		Stats:   stats,
	}
	for _, l := range lookups {
		resp.Lookups = append(resp.Lookups, NewLookupResponse(l))
	}
	return resp
}
