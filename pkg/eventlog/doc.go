// Package eventlog provides durable storage for authorization decisions.
//
// # Overview
//
// Every decision the authorizer makes about an intercepted file event can
// be persisted as a Record in a SQLite database. Records carry the matched
// policy, the decision, and the process evidence that was checked against
// the policy's allow-lists, giving administrators an audit trail of what
// the agent observed and why it decided the way it did.
//
// # Retention
//
// The Pruner deletes records past the configured retention window and, when
// a record cap is set, trims the oldest records beyond the cap. The
// Scheduler runs the pruner on a cron schedule (e.g. daily at 3 AM).
//
// # Storage
//
// SQLite with WAL journaling via the CGO-free modernc.org/sqlite driver.
// Writes are serialized by the driver; the store is safe for concurrent use.
package eventlog
