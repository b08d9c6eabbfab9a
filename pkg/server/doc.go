// Package server provides the agent's HTTP status server: health and
// status endpoints for operators, plus the Prometheus metrics endpoint.
package server
