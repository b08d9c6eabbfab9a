package authorizer

import (
	"context"
	"log/slog"

	"mercator-hq/callisto/pkg/eventlog"
	"mercator-hq/callisto/pkg/telemetry/metrics"
	"mercator-hq/callisto/pkg/watchitems"
)

// Operation classifies an intercepted file event.
type Operation string

// Operations the interception layer reports.
const (
	OpWrite  Operation = "write"
	OpCreate Operation = "create"
	OpRemove Operation = "remove"
	OpRename Operation = "rename"
)

// IsWrite reports whether the operation modifies the target path. All
// currently reported operations are write-class; the distinction matters
// for WriteOnly policies if read interception is ever added.
func (op Operation) IsWrite() bool {
	switch op {
	case OpWrite, OpCreate, OpRemove, OpRename:
		return true
	}
	return false
}

// Decision is the outcome of authorizing one file event.
type Decision int

const (
	// DecisionAllow permits the event without logging a violation.
	DecisionAllow Decision = iota

	// DecisionAllowAudit permits the event but records it: an audit-only
	// policy matched and no exception applied.
	DecisionAllowAudit

	// DecisionDeny blocks the event: an enforcing policy matched and no
	// exception applied.
	DecisionDeny
)

// String returns the decision's wire/storage label.
func (d Decision) String() string {
	switch d {
	case DecisionAllowAudit:
		return "allow_audit"
	case DecisionDeny:
		return "deny"
	default:
		return "allow"
	}
}

// Evidence is what the interception layer learned about the process behind
// an event. Empty fields mean the attribute could not be determined; an
// empty attribute never matches an allow-list.
type Evidence struct {
	// BinaryPath is the process's executable path.
	BinaryPath string

	// CertificateSha256 is the SHA-256 of the process's leaf signing
	// certificate.
	CertificateSha256 string

	// TeamID is the process's signing team identifier.
	TeamID string

	// CDHash is the process's code directory hash.
	CDHash string
}

// Result is the full outcome of one authorization.
type Result struct {
	// Decision is the action to take.
	Decision Decision

	// PolicyName is the matched policy's name, empty when none matched.
	PolicyName string
}

// PolicyLookup answers path-to-policy queries. *watchitems.WatchItems
// implements it; tests may substitute a fixed snapshot.
type PolicyLookup interface {
	FindPolicyForPath(path string) *watchitems.Policy
}

// Authorizer evaluates intercepted file events against watch-item policies.
type Authorizer struct {
	policies PolicyLookup
	logger   *slog.Logger
	metrics  *metrics.Collector
	store    *eventlog.Store
}

// New creates an authorizer. The logger, collector, and store may be nil;
// with a nil store decisions are not persisted.
func New(policies PolicyLookup, logger *slog.Logger, collector *metrics.Collector, store *eventlog.Store) *Authorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authorizer{
		policies: policies,
		logger:   logger.With("component", "authorizer"),
		metrics:  collector,
		store:    store,
	}
}

// Authorize decides what to do with one intercepted file event and records
// the decision. It never returns an error: the event path must always get
// an answer.
func (a *Authorizer) Authorize(ctx context.Context, path string, op Operation, ev Evidence) Result {
	policy := a.policies.FindPolicyForPath(path)
	result := evaluate(policy, op, ev)

	a.metrics.RecordDecision(result.Decision.String())

	if result.Decision != DecisionAllow {
		a.logger.Info("watched path accessed",
			"path", path,
			"operation", string(op),
			"policy", result.PolicyName,
			"decision", result.Decision.String(),
			"binary_path", ev.BinaryPath,
			"team_id", ev.TeamID,
		)
		a.record(ctx, path, op, ev, result)
	}

	return result
}

// evaluate applies one policy to one event. It is the pure core of
// Authorize, split out for testing.
func evaluate(policy *watchitems.Policy, op Operation, ev Evidence) Result {
	if policy == nil {
		return Result{Decision: DecisionAllow}
	}
	if policy.WriteOnly && !op.IsWrite() {
		return Result{Decision: DecisionAllow, PolicyName: policy.Name}
	}
	if exempted(policy, ev) {
		return Result{Decision: DecisionAllow, PolicyName: policy.Name}
	}
	if policy.AuditOnly {
		return Result{Decision: DecisionAllowAudit, PolicyName: policy.Name}
	}
	return Result{Decision: DecisionDeny, PolicyName: policy.Name}
}

// exempted reports whether the evidence matches any of the policy's
// exception allow-lists. Empty evidence attributes never match.
func exempted(policy *watchitems.Policy, ev Evidence) bool {
	if ev.BinaryPath != "" && policy.AllowedBinaryPaths.Contains(ev.BinaryPath) {
		return true
	}
	if ev.CertificateSha256 != "" && policy.AllowedCertificatesSha256.Contains(ev.CertificateSha256) {
		return true
	}
	if ev.TeamID != "" && policy.AllowedTeamIDs.Contains(ev.TeamID) {
		return true
	}
	if ev.CDHash != "" && policy.AllowedCDHashes.Contains(ev.CDHash) {
		return true
	}
	return false
}

// record persists the decision when a store is attached.
func (a *Authorizer) record(ctx context.Context, path string, op Operation, ev Evidence, result Result) {
	if a.store == nil {
		return
	}

	_, err := a.store.Append(ctx, eventlog.Record{
		Path:       path,
		Operation:  string(op),
		PolicyName: result.PolicyName,
		Decision:   result.Decision.String(),
		BinaryPath: ev.BinaryPath,
		TeamID:     ev.TeamID,
		CDHash:     ev.CDHash,
	})
	if err != nil {
		a.logger.Error("failed to persist decision record", "error", err)
	}
}
