package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/callisto/pkg/config"
)

func newTestCollector(t *testing.T) (*Collector, *prometheus.Registry) {
	t.Helper()
	registry := prometheus.NewRegistry()
	collector := NewCollector(&config.MetricsConfig{Enabled: true}, registry)
	return collector, registry
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector

	// Every record method must be a no-op on a nil collector.
	c.RecordReload(ReloadResultSuccess, time.Millisecond)
	c.SetSnapshot(1, 10)
	c.RecordLookup(true)
	c.RecordDecision("deny")
	c.SetWatchedPaths(3)

	if c.Registry() != nil {
		t.Error("nil collector Registry() != nil")
	}
}

func TestRecordReload(t *testing.T) {
	c, _ := newTestCollector(t)

	c.RecordReload(ReloadResultSuccess, 2*time.Millisecond)
	c.RecordReload(ReloadResultSuccess, 3*time.Millisecond)
	c.RecordReload(ReloadResultMalformed, time.Millisecond)

	if got := testutil.ToFloat64(c.reloadsTotal.WithLabelValues(ReloadResultSuccess)); got != 2 {
		t.Errorf("reloads_total{result=success} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.reloadsTotal.WithLabelValues(ReloadResultMalformed)); got != 1 {
		t.Errorf("reloads_total{result=malformed} = %v, want 1", got)
	}
}

func TestSetSnapshot(t *testing.T) {
	c, _ := newTestCollector(t)

	c.SetSnapshot(7, 42)

	if got := testutil.ToFloat64(c.snapshotGeneration); got != 7 {
		t.Errorf("snapshot_generation = %v, want 7", got)
	}
	if got := testutil.ToFloat64(c.monitoredPaths); got != 42 {
		t.Errorf("monitored_paths = %v, want 42", got)
	}
}

func TestRecordLookup(t *testing.T) {
	c, _ := newTestCollector(t)

	c.RecordLookup(true)
	c.RecordLookup(true)
	c.RecordLookup(false)

	if got := testutil.ToFloat64(c.lookupsTotal.WithLabelValues("hit")); got != 2 {
		t.Errorf("lookups_total{result=hit} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.lookupsTotal.WithLabelValues("miss")); got != 1 {
		t.Errorf("lookups_total{result=miss} = %v, want 1", got)
	}
}

func TestRecordDecision(t *testing.T) {
	c, _ := newTestCollector(t)

	c.RecordDecision("deny")
	c.RecordDecision("allow_audit")

	if got := testutil.ToFloat64(c.decisionsTotal.WithLabelValues("deny")); got != 1 {
		t.Errorf("decisions_total{decision=deny} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.decisionsTotal.WithLabelValues("allow_audit")); got != 1 {
		t.Errorf("decisions_total{decision=allow_audit} = %v, want 1", got)
	}
}

func TestDefaultNamespaceAndSubsystem(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(&config.MetricsConfig{Enabled: true}, registry)

	c.SetWatchedPaths(5)

	count, err := testutil.GatherAndCount(registry, "callisto_agent_watched_paths")
	if err != nil {
		t.Fatalf("GatherAndCount() error = %v", err)
	}
	if count != 1 {
		t.Errorf("callisto_agent_watched_paths series count = %d, want 1", count)
	}
}

func TestHandlerServesExposition(t *testing.T) {
	c, _ := newTestCollector(t)
	c.RecordReload(ReloadResultSuccess, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.Len() == 0 {
		t.Error("exposition body is empty")
	}
}
