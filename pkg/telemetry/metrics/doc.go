// Package metrics provides Prometheus metrics for the Callisto agent.
//
// # Overview
//
// A single Collector owns every metric the agent records: watch-item reload
// cycles, hot-path policy lookups, authorization decisions, and the
// filesystem monitor's watch registrations. Metrics are registered against
// an injected prometheus.Registry so tests can use isolated registries.
//
// # Metrics
//
//   - callisto_agent_reloads_total{result}: reload cycles by outcome
//   - callisto_agent_reload_duration_seconds: reload cycle duration
//   - callisto_agent_snapshot_generation: active snapshot generation
//   - callisto_agent_monitored_paths: paths in the active snapshot
//   - callisto_agent_lookups_total{result}: policy lookups by hit/miss
//   - callisto_agent_decisions_total{decision}: authorization decisions
//   - callisto_agent_watched_paths: paths currently registered with the
//     filesystem monitor
//
// The namespace and subsystem prefixes come from config.MetricsConfig.
package metrics
