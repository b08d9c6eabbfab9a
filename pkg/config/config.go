package config

import "time"

// Config is the root configuration structure for the Callisto agent.
type Config struct {
	// WatchItems contains configuration for the watch-item policy engine,
	// including the policy document location and reload cadence.
	WatchItems WatchItemsConfig `yaml:"watch_items"`

	// Monitor contains configuration for the filesystem event monitor that
	// registers interception on the engine's monitored paths.
	Monitor MonitorConfig `yaml:"monitor"`

	// EventLog contains configuration for the SQLite-backed decision log,
	// including retention settings.
	EventLog EventLogConfig `yaml:"event_log"`

	// Telemetry contains observability configuration: logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Server contains configuration for the HTTP status server.
	Server ServerConfig `yaml:"server"`
}

// WatchItemsConfig contains configuration for the watch-item policy engine.
type WatchItemsConfig struct {
	// ConfigPath is the path to the watch-items policy document.
	// Default: "/etc/callisto/watchitems.yaml"
	ConfigPath string `yaml:"config_path"`

	// ReloadInterval is how often the engine re-reads the policy document.
	// The engine also performs one immediate load when started.
	// Default: 30s
	ReloadInterval time.Duration `yaml:"reload_interval"`
}

// MonitorConfig contains configuration for the filesystem event monitor.
type MonitorConfig struct {
	// Enabled controls whether the agent registers filesystem watches on
	// the monitored paths and feeds events through the authorizer.
	// Default: false
	Enabled bool `yaml:"enabled"`
}

// EventLogConfig contains configuration for the decision event log.
type EventLogConfig struct {
	// Enabled controls whether authorization decisions are persisted.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// DatabasePath is the SQLite database file path.
	// Default: "data/eventlog.db"
	DatabasePath string `yaml:"database_path"`

	// MaxOpenConns limits concurrent database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns limits idle pooled connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// BusyTimeout is the SQLite busy timeout.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// RetentionDays is how many days of records to keep. Zero disables
	// age-based pruning.
	// Default: 90
	RetentionDays int `yaml:"retention_days"`

	// MaxRecords caps the number of stored records. Zero disables
	// count-based pruning.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a cron expression for scheduled pruning.
	// An empty schedule disables the pruning scheduler.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// Output is the log destination: "stdout", "stderr", or a file path.
	// Default: "stderr"
	Output string `yaml:"output"`

	// AddSource includes file:line information in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name namespace.
	// Default: "callisto"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric name subsystem.
	// Default: "agent"
	Subsystem string `yaml:"subsystem"`
}

// ServerConfig contains configuration for the HTTP status server.
type ServerConfig struct {
	// Enabled controls whether the status server is started.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:9497"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	// Default: 10s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	// Default: 10s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 60s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown before forcing the server closed.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}
