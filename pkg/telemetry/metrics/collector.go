package metrics

import (
	"time"

	"mercator-hq/callisto/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Reload outcome labels recorded by RecordReload.
const (
	ReloadResultSuccess    = "success"
	ReloadResultUnchanged  = "unchanged"
	ReloadResultUnreadable = "unreadable"
	ReloadResultMalformed  = "malformed"
	ReloadResultInvalid    = "invalid"
	ReloadResultDuplicate  = "duplicate_path"
)

// Collector owns all Prometheus metrics recorded by the agent. A nil
// *Collector is valid everywhere one is accepted; every record method is a
// no-op on nil, so callers never need to guard metric calls.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Reload cycle counters and duration
	reloadsTotal   *prometheus.CounterVec
	reloadDuration prometheus.Histogram

	// Active snapshot state
	snapshotGeneration prometheus.Gauge
	monitoredPaths     prometheus.Gauge

	// Hot-path lookup counters
	lookupsTotal *prometheus.CounterVec

	// Authorization decision counters
	decisionsTotal *prometheus.CounterVec

	// Filesystem monitor registrations
	watchedPaths prometheus.Gauge
}

// NewCollector creates a metrics collector and registers its metrics with
// the provided registry. If registry is nil, a fresh registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reloads_total",
				Help:      "Total number of watch-item reload cycles by outcome",
			},
			[]string{"result"},
		),

		reloadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reload_duration_seconds",
				Help:      "Duration of watch-item reload cycles in seconds",
				// Reads and parses of small config files: 10µs to ~1s
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),

		snapshotGeneration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "snapshot_generation",
				Help:      "Generation counter of the active watch-item snapshot",
			},
		),

		monitoredPaths: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "monitored_paths",
				Help:      "Number of distinct paths in the active snapshot",
			},
		),

		lookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "lookups_total",
				Help:      "Total number of policy lookups by result",
			},
			[]string{"result"},
		),

		decisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "decisions_total",
				Help:      "Total number of authorization decisions by outcome",
			},
			[]string{"decision"},
		),

		watchedPaths: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "watched_paths",
				Help:      "Number of paths registered with the filesystem monitor",
			},
		),
	}

	registry.MustRegister(
		c.reloadsTotal,
		c.reloadDuration,
		c.snapshotGeneration,
		c.monitoredPaths,
		c.lookupsTotal,
		c.decisionsTotal,
		c.watchedPaths,
	)

	return c
}

// Registry returns the registry the collector's metrics are registered on.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordReload records one completed reload cycle with its outcome label
// and duration.
func (c *Collector) RecordReload(result string, duration time.Duration) {
	if c == nil {
		return
	}
	c.reloadsTotal.WithLabelValues(result).Inc()
	c.reloadDuration.Observe(duration.Seconds())
}

// SetSnapshot records the state of a newly published snapshot.
func (c *Collector) SetSnapshot(generation uint64, monitoredPaths int) {
	if c == nil {
		return
	}
	c.snapshotGeneration.Set(float64(generation))
	c.monitoredPaths.Set(float64(monitoredPaths))
}

// RecordLookup records one hot-path policy lookup.
func (c *Collector) RecordLookup(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.lookupsTotal.WithLabelValues(result).Inc()
}

// RecordDecision records one authorization decision.
func (c *Collector) RecordDecision(decision string) {
	if c == nil {
		return
	}
	c.decisionsTotal.WithLabelValues(decision).Inc()
}

// SetWatchedPaths records the number of paths the filesystem monitor has
// registered.
func (c *Collector) SetWatchedPaths(n int) {
	if c == nil {
		return
	}
	c.watchedPaths.Set(float64(n))
}
