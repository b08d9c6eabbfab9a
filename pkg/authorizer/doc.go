// Package authorizer decides what to do with intercepted file events.
//
// # Overview
//
// For each intercepted event the authorizer asks the watch-item engine for
// the most specific policy covering the event's path, then checks evidence
// about the writing process against the policy's exception allow-lists. A
// process whose binary path, signing certificate, team ID, or CDHash
// appears in the matched policy's allow-lists is exempt from the rule.
//
// # Decisions
//
//   - Allow: no policy covers the path, the policy is write-only and the
//     event is not a write, or the process matched an exception list.
//   - AllowAudit: a policy matched and no exception applied, but the policy
//     is audit-only; the event is logged and permitted.
//   - Deny: an enforcing (non-audit) policy matched and no exception
//     applied.
//
// # Scope
//
// The authorizer only performs set-membership checks against evidence it is
// handed. Gathering that evidence — resolving the writing process, reading
// its code signature — is the platform interception layer's job, and no
// hashes or signatures are ever computed here.
package authorizer
