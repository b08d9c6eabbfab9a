// Package watchitems implements the watch-item policy engine: a
// live-reloading, longest-prefix-match index from filesystem paths to
// access rules.
//
// # Overview
//
// Watch items are declared in a YAML document mapping rule names to rule
// fields (see ParsePolicies for the schema). The WatchItems controller
// re-reads that document on a fixed cadence, validates it, builds a fresh
// path tree, and atomically publishes the result as an immutable Snapshot.
// Lookups on the hot path only ever copy the current snapshot reference
// under a short lock and then walk the immutable tree lock-free.
//
// # Core Components
//
// Policy is one immutable watch-item rule: a path, match mode, audit flag,
// and the exception allow-lists checked by the authorizer.
//
// ParsePolicies validates an untyped configuration document into an ordered
// policy set with all-or-nothing semantics: one bad entry rejects the batch.
//
// BuildTree turns a validated policy set into a pathtree index plus the
// distinct set of paths that require filesystem interception.
//
// WatchItems owns the active snapshot, runs the periodic reload task on a
// single goroutine (reload cycles never overlap), and answers lookups.
//
// # Failure Model
//
// Every reload failure — unreadable file, malformed YAML, invalid entry,
// duplicate exact path — is logged and leaves the previously active
// snapshot serving lookups. The engine never substitutes an empty policy
// set on error: whether "no policies" means allow-all or deny-all belongs
// to the authorization layer and must never be decided by a parse failure.
//
// # Basic Usage
//
//	w, err := watchitems.New("/etc/callisto/watchitems.yaml", 30*time.Second, logger, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	w.BeginPeriodicTask()
//	defer w.Stop()
//
//	if p := w.FindPolicyForPath("/usr/bin/sudo"); p != nil {
//	    // Path is covered by policy p.
//	}
package watchitems
