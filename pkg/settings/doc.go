// Package settings is the agent's generic key/value settings store. Values
// come from a YAML file and can be overridden at runtime, except for
// protected keys: those always answer from the file and reject overrides.
package settings
