// Package logging builds the agent's structured logger from configuration:
// log/slog with a JSON or text handler, configurable level, and a
// stdout/stderr/file destination.
package logging
