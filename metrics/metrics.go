// Package metrics bundles the Prometheus collectors of the scrape pipeline.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for scraping and search. All methods
// are safe on a nil receiver.
type Metrics struct {
	Registry         *prometheus.Registry
	ScrapesTotal     *prometheus.CounterVec
	FallbacksTotal   *prometheus.CounterVec
	FetchErrorsTotal *prometheus.CounterVec
	RecordsTotal     *prometheus.CounterVec
	ScrapeDuration   *prometheus.HistogramVec
	SearchesTotal    *prometheus.CounterVec
	SharedScrapes    *prometheus.CounterVec
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	scrapes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_scrapes_total",
			Help: "Completed scrapes by domain and data source.",
		},
		[]string{"domain", "source"},
	)
	fallbacks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_fallbacks_total",
			Help: "Scrapes answered with generated data, by reason.",
		},
		[]string{"domain", "reason"},
	)
	fetchErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_fetch_errors_total",
			Help: "Upstream fetch failures by error kind.",
		},
		[]string{"domain", "error_type"},
	)
	records := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_reconciled_records_total",
			Help: "Reconciled records by outcome (created, updated, error).",
		},
		[]string{"domain", "result"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "travel_scrape_duration_seconds",
			Help:    "Wall time of a scrape including reconciliation.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"domain"},
	)
	searches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_searches_total",
			Help: "Searches served, split by whether the route needed scraping.",
		},
		[]string{"domain", "needs_scraping"},
	)
	shared := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_shared_scrapes_total",
			Help: "Scrape requests that joined an in-flight scrape of the same route.",
		},
		[]string{"domain"},
	)

	registry.MustRegister(scrapes, fallbacks, fetchErrors, records, duration, searches, shared)

	return &Metrics{
		Registry:         registry,
		ScrapesTotal:     scrapes,
		FallbacksTotal:   fallbacks,
		FetchErrorsTotal: fetchErrors,
		RecordsTotal:     records,
		ScrapeDuration:   duration,
		SearchesTotal:    searches,
		SharedScrapes:    shared,
	}
}

// IncScrape counts a completed scrape.
func (m *Metrics) IncScrape(domain, source string) {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(domain, source).Inc()
}

// IncFallback counts a scrape served by the generator.
func (m *Metrics) IncFallback(domain, reason string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.WithLabelValues(domain, reason).Inc()
}

// IncFetchError counts an upstream failure.
func (m *Metrics) IncFetchError(domain, errorType string) {
	if m == nil {
		return
	}
	m.FetchErrorsTotal.WithLabelValues(domain, errorType).Inc()
}

// AddRecords adds n reconciled records with the given outcome.
func (m *Metrics) AddRecords(domain, result string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.RecordsTotal.WithLabelValues(domain, result).Add(float64(n))
}

// ObserveScrape records the duration of a scrape.
func (m *Metrics) ObserveScrape(domain string, d time.Duration) {
	if m == nil {
		return
	}
	m.ScrapeDuration.WithLabelValues(domain).Observe(d.Seconds())
}

// IncSearch counts a search.
func (m *Metrics) IncSearch(domain string, needsScraping bool) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(domain, strconv.FormatBool(needsScraping)).Inc()
}

// IncShared counts a caller that joined an in-flight scrape.
func (m *Metrics) IncShared(domain string) {
	if m == nil {
		return
	}
	m.SharedScrapes.WithLabelValues(domain).Inc()
}
