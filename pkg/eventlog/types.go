package eventlog

import "time"

// Record is one persisted authorization decision.
type Record struct {
	// ID is a UUID assigned when the record is appended.
	ID string

	// Timestamp is when the decision was made.
	Timestamp time.Time

	// Path is the file path the intercepted event targeted.
	Path string

	// Operation is the intercepted operation (e.g. "write", "create",
	// "remove", "rename").
	Operation string

	// PolicyName is the name of the matched watch-item policy, empty when
	// no policy matched.
	PolicyName string

	// Decision is the authorization outcome: "allow", "allow_audit", or
	// "deny".
	Decision string

	// BinaryPath is the writing process's executable path, when known.
	BinaryPath string

	// TeamID is the writing process's signing team identifier, when known.
	TeamID string

	// CDHash is the writing process's code directory hash, when known.
	CDHash string
}
