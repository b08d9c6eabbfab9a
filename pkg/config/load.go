package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that behavior.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention CALLISTO_SECTION_FIELD (e.g., CALLISTO_LOGGING_LEVEL) and always
// take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies CALLISTO_* environment variables on top of the
// loaded configuration.
func applyEnvOverrides(cfg *Config) {
	setString(&cfg.WatchItems.ConfigPath, "CALLISTO_WATCH_ITEMS_CONFIG_PATH")
	setDuration(&cfg.WatchItems.ReloadInterval, "CALLISTO_WATCH_ITEMS_RELOAD_INTERVAL")

	setBool(&cfg.Monitor.Enabled, "CALLISTO_MONITOR_ENABLED")

	setBool(&cfg.EventLog.Enabled, "CALLISTO_EVENT_LOG_ENABLED")
	setString(&cfg.EventLog.DatabasePath, "CALLISTO_EVENT_LOG_DATABASE_PATH")
	setString(&cfg.EventLog.PruneSchedule, "CALLISTO_EVENT_LOG_PRUNE_SCHEDULE")

	setString(&cfg.Telemetry.Logging.Level, "CALLISTO_LOGGING_LEVEL")
	setString(&cfg.Telemetry.Logging.Format, "CALLISTO_LOGGING_FORMAT")
	setString(&cfg.Telemetry.Logging.Output, "CALLISTO_LOGGING_OUTPUT")
	setBool(&cfg.Telemetry.Metrics.Enabled, "CALLISTO_METRICS_ENABLED")

	setBool(&cfg.Server.Enabled, "CALLISTO_SERVER_ENABLED")
	setString(&cfg.Server.ListenAddress, "CALLISTO_SERVER_LISTEN_ADDRESS")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}
