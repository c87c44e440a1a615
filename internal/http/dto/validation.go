package dto

import (
	"fmt"
	"strconv"
	"strings"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ToMap(errs []ValidationError) map[string]string {
	result := make(map[string]string)
	for _, e := range errs {
		result[e.Field] = e.Message
	}
	return result
}

func ToResponse(errs []ValidationError) string {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// parseIntField parses raw as an integer in [lo, hi].
func parseIntField(field, raw string, lo, hi int) (int, []ValidationError) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, []ValidationError{{Field: field, Message: "must be an integer"}}
	}
	if n < lo || n > hi {
		return 0, []ValidationError{{Field: field, Message: fmt.Sprintf("must be between %d and %d", lo, hi)}}
	}
	return n, nil
}

func validateYear(raw string) (int, []ValidationError) {
	return parseIntField("year", raw, 1, 9999)
}

func validateTrackNumber(raw string) (int, []ValidationError) {
	return parseIntField("tnum", raw, 0, 9999)
}

func validateTotalTracks(raw string) (int, []ValidationError) {
	return parseIntField("tracks", raw, 0, 9999)
}

// validateLength accepts milliseconds up to one day.
func validateLength(raw string) (int, []ValidationError) {
	return parseIntField("dur", raw, 0, 24*60*60*1000)
}

func validateLimit(raw string, limitMax int) (int, []ValidationError) {
	return parseIntField("limit", raw, 1, limitMax)
}
