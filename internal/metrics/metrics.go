// Package metrics exposes Prometheus instrumentation for provider lookups.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mdlookup"

var (
	registerOnce sync.Once

	lookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lookups_total",
		Help:      "Total number of provider lookups by provider and outcome",
	}, []string{"provider", "outcome"})
	lookupDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "lookup_duration_seconds",
		Help:      "Histogram of provider lookup durations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.05, 1.8, 10), // 50ms up to ~10s
	}, []string{"provider"})
	lookupResults = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "lookup_results",
		Help:      "Number of recordings returned per successful lookup",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	}, []string{"provider"})
	lookupsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "lookups_in_flight",
		Help:      "Number of provider lookups currently running",
	})
	journalFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "journal_write_failures_total",
		Help:      "Total number of lookups that could not be written to the journal",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(lookupsTotal, lookupDuration, lookupResults, lookupsInFlight, journalFailures)
	})
}

// Lookup lifecycle helpers
func LookupStarted()  { lookupsInFlight.Inc() }
func LookupFinished() { lookupsInFlight.Dec() }

func ObserveLookup(provider, outcome string, d time.Duration) {
	lookupsTotal.WithLabelValues(provider, outcome).Inc()
	lookupDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func ObserveResults(provider string, n int) {
	lookupResults.WithLabelValues(provider).Observe(float64(n))
}

func IncJournalFailure() { journalFailures.Inc() }
