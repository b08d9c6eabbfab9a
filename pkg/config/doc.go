// Package config provides configuration loading, validation, and defaults
// for the Callisto agent.
//
// # Overview
//
// Configuration is loaded from a YAML file and split into sections: the
// watch-items engine (policy source and reload cadence), the filesystem
// monitor, the decision event log, telemetry (logging and metrics), and the
// status server. Loading applies defaults for unset fields, then validates
// the result; a configuration that fails validation is never returned.
//
// # Loading Sequence
//
//  1. Read and decode the YAML file
//  2. Apply default values for unset fields
//  3. Apply CALLISTO_* environment variable overrides (optional)
//  4. Validate the final configuration
//
// # Environment Overrides
//
// Environment variables take precedence over file values and follow the
// naming convention CALLISTO_SECTION_FIELD, for example:
//
//	CALLISTO_WATCH_ITEMS_CONFIG_PATH=/etc/callisto/watchitems.yaml
//	CALLISTO_LOGGING_LEVEL=debug
//	CALLISTO_SERVER_LISTEN_ADDRESS=127.0.0.1:9497
//
// # Validation
//
// Validation collects every problem rather than stopping at the first one,
// and reports them together as a ValidationError with dotted field paths
// (e.g. "watch_items.reload_interval").
package config
