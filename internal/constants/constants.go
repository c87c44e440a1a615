// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import (
	"fmt"
	"time"
)

// Application identity
const (
	AppName        = "mdlookup"
	Version        = "0.3.0"
	DefaultContact = "https://github.com/cesargomez89/mdlookup"
)

// Application defaults
const (
	DefaultPort               = "8080"
	DefaultDBPath             = "mdlookup.db"
	DefaultConfigFile         = "mdlookup.toml"
	DefaultEnvPrefix          = "MDLOOKUP_"
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "text"
	DefaultMusicBrainzURL     = "https://musicbrainz.org/ws/2"
	DefaultHTTPTimeout        = 30 * time.Second
	DefaultMinRequestInterval = time.Duration(0) // pacing is opt-in through http.min_interval
	DefaultMaxAttempts        = 1
	DefaultRetryBase          = 1 * time.Second
	DefaultShutdownTimeout    = 5 * time.Second
	DefaultJournalMaxEntries  = 10000
)

// Provider names
const (
	ProviderMusicBrainz = "musicbrainz"
)

// UI/UX
const (
	DefaultHistoryItems     = 20
	MaxHistoryItems         = 500
	DefaultBatchConcurrency = 4
	MaxBatchQueries         = 25
)

// Lookup outcomes recorded in the journal and metrics.
const (
	OutcomeOK        = "ok"
	OutcomeTransport = "transport_error"
	OutcomeDecode    = "decode_error"
	OutcomeCanceled  = "canceled"
	OutcomeFailed    = "failed"
)

// UserAgent builds the identifying header MusicBrainz requires.
func UserAgent(contact string) string {
	if contact == "" {
		contact = DefaultContact
	}
	return fmt.Sprintf("%s/%s ( %s )", AppName, Version, contact)
}
