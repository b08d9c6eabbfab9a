package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/telemetry/metrics"
	"mercator-hq/callisto/pkg/watchitems"
)

func newTestEngine(t *testing.T, doc string) *watchitems.WatchItems {
	t.Helper()

	path := filepath.Join(t.TempDir(), "watchitems.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	items, err := watchitems.New(path, time.Minute, nil, nil)
	if err != nil {
		t.Fatalf("watchitems.New() error = %v", err)
	}
	items.BeginPeriodicTask()
	t.Cleanup(items.Stop)

	select {
	case <-items.Outcomes():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the first reload cycle")
	}
	return items
}

func TestHandleHealth(t *testing.T) {
	items := newTestEngine(t, "")
	srv := NewServer(config.ServerConfig{}, items, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("GET /healthz status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHandleStatus(t *testing.T) {
	items := newTestEngine(t, `
etc:
  Path: /etc
  IsPrefix: true
sudoers:
  Path: /etc/sudoers
`)
	srv := NewServer(config.ServerConfig{}, items, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /status status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp statusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding /status response: %v", err)
	}

	if resp.Generation != 1 {
		t.Errorf("generation = %d, want 1", resp.Generation)
	}
	if resp.PolicyCount != 2 {
		t.Errorf("policy_count = %d, want 2", resp.PolicyCount)
	}
	wantPaths := []string{"/etc", "/etc/sudoers"}
	if len(resp.MonitoredPaths) != len(wantPaths) {
		t.Fatalf("monitored_paths = %v, want %v", resp.MonitoredPaths, wantPaths)
	}
	for i, path := range wantPaths {
		if resp.MonitoredPaths[i] != path {
			t.Errorf("monitored_paths[%d] = %q, want %q", i, resp.MonitoredPaths[i], path)
		}
	}
	if resp.LastReload == nil {
		t.Fatal("last_reload missing from /status response")
	}
	if !resp.LastReload.Changed {
		t.Error("last_reload.changed = false, want true for the first publish")
	}
	if resp.LastReload.Error != "" {
		t.Errorf("last_reload.error = %q, want empty", resp.LastReload.Error)
	}
}

func TestHandleStatus_BeforeFirstSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchitems.yaml")
	items, err := watchitems.New(path, time.Minute, nil, nil)
	if err != nil {
		t.Fatalf("watchitems.New() error = %v", err)
	}

	srv := NewServer(config.ServerConfig{}, items, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	var resp statusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding /status response: %v", err)
	}
	if resp.Generation != 0 {
		t.Errorf("generation = %d, want 0 before the first snapshot", resp.Generation)
	}
	if resp.MonitoredPaths == nil || len(resp.MonitoredPaths) != 0 {
		t.Errorf("monitored_paths = %v, want []", resp.MonitoredPaths)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	items := newTestEngine(t, "")

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true}, registry)
	srv := NewServer(config.ServerConfig{}, items, collector, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("GET /metrics status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestMetricsEndpoint_AbsentWithoutCollector(t *testing.T) {
	items := newTestEngine(t, "")
	srv := NewServer(config.ServerConfig{}, items, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /metrics without collector: status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
