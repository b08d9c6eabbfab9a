// Package fsmonitor registers filesystem interception on the watch-item
// engine's monitored paths and feeds the resulting events to a handler.
//
// # Overview
//
// The monitor plays the OS-hook installer role: after every reload that
// changes the active snapshot, it re-synchronizes its fsnotify watch set to
// exactly the snapshot's monitored paths — registering new paths, dropping
// removed ones — so interception always tracks the live policy set.
// Write-class events on watched paths are forwarded to the handler, which
// in the agent is the authorizer pipeline.
//
// # Limitations
//
// fsnotify observes events after the fact and carries no information about
// the writing process, so events reach the handler with empty evidence.
// Prefix rules watch their root path; events in unregistered
// subdirectories created after registration are platform-dependent.
package fsmonitor
