package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.IncScrape("trains", "generated")
	m.IncFallback("trains", "no_match")
	m.IncFetchError("classifieds", "timeout")
	m.AddRecords("trains", "created", 3)
	m.ObserveScrape("trains", time.Second)
	m.IncSearch("flights", true)
	m.IncShared("flights")
}

func TestCounters(t *testing.T) {
	m := New()
	m.IncScrape("trains", "confirmtkt")
	m.IncScrape("trains", "confirmtkt")
	m.AddRecords("classifieds", "created", 2)
	m.AddRecords("classifieds", "created", 0)

	if got := testutil.ToFloat64(m.ScrapesTotal.WithLabelValues("trains", "confirmtkt")); got != 2 {
		t.Errorf("scrapes = %v; want 2", got)
	}
	if got := testutil.ToFloat64(m.RecordsTotal.WithLabelValues("classifieds", "created")); got != 2 {
		t.Errorf("records = %v; want 2", got)
	}
}
