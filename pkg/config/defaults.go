package config

import "time"

// Default values for configuration fields.
const (
	// Watch-items defaults
	DefaultWatchItemsConfigPath     = "/etc/callisto/watchitems.yaml"
	DefaultWatchItemsReloadInterval = 30 * time.Second

	// Event log defaults
	DefaultEventLogDatabasePath  = "data/eventlog.db"
	DefaultEventLogMaxOpenConns  = 10
	DefaultEventLogMaxIdleConns  = 5
	DefaultEventLogBusyTimeout   = 5 * time.Second
	DefaultEventLogRetentionDays = 90
	DefaultEventLogPruneSchedule = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultLoggingOutput    = "stderr"
	DefaultMetricsNamespace = "callisto"
	DefaultMetricsSubsystem = "agent"

	// Server defaults
	DefaultServerListenAddress   = "127.0.0.1:9497"
	DefaultServerReadTimeout     = 10 * time.Second
	DefaultServerWriteTimeout    = 10 * time.Second
	DefaultServerIdleTimeout     = 60 * time.Second
	DefaultServerShutdownTimeout = 10 * time.Second
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Watch-items defaults
	if cfg.WatchItems.ConfigPath == "" {
		cfg.WatchItems.ConfigPath = DefaultWatchItemsConfigPath
	}
	if cfg.WatchItems.ReloadInterval == 0 {
		cfg.WatchItems.ReloadInterval = DefaultWatchItemsReloadInterval
	}

	// Event log defaults
	if cfg.EventLog.DatabasePath == "" {
		cfg.EventLog.DatabasePath = DefaultEventLogDatabasePath
	}
	if cfg.EventLog.MaxOpenConns == 0 {
		cfg.EventLog.MaxOpenConns = DefaultEventLogMaxOpenConns
	}
	if cfg.EventLog.MaxIdleConns == 0 {
		cfg.EventLog.MaxIdleConns = DefaultEventLogMaxIdleConns
	}
	if cfg.EventLog.BusyTimeout == 0 {
		cfg.EventLog.BusyTimeout = DefaultEventLogBusyTimeout
	}
	if cfg.EventLog.RetentionDays == 0 {
		cfg.EventLog.RetentionDays = DefaultEventLogRetentionDays
	}
	if cfg.EventLog.PruneSchedule == "" {
		cfg.EventLog.PruneSchedule = DefaultEventLogPruneSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Logging.Output == "" {
		cfg.Telemetry.Logging.Output = DefaultLoggingOutput
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultServerListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultServerIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
}

// DefaultConfig returns a fully defaulted configuration, equivalent to
// loading an empty YAML document.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
