package watchitems

import "sort"

// StringSet is an unordered set of strings used for policy allow-lists.
type StringSet map[string]struct{}

// NewStringSet creates a set containing the given values.
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Contains reports whether v is a member of the set.
func (s StringSet) Contains(v string) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of members.
func (s StringSet) Len() int {
	return len(s)
}

// Values returns the members in sorted order.
func (s StringSet) Values() []string {
	values := make([]string, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Policy is one watch-item rule: a path to match, how to match it, whether
// matches are audited or enforced, and the exception allow-lists checked by
// the authorization layer against evidence about the writing process.
//
// A Policy is immutable once constructed and is shared by reference between
// the snapshot that owns it and any in-flight lookup results, so it must
// never be modified after NewPolicy returns it.
type Policy struct {
	// Name identifies the rule within its policy set.
	Name string

	// Path is the filesystem path the rule applies to.
	Path string

	// WriteOnly restricts the rule to write-class operations. Reads of a
	// matching path are not subject to the rule.
	WriteOnly bool

	// IsPrefix makes Path match itself and every path beginning with it.
	// When false, only the exact path matches.
	IsPrefix bool

	// AuditOnly makes matches observe-and-log without blocking. This is
	// the default; enforcement requires explicitly setting it to false.
	AuditOnly bool

	// AllowedBinaryPaths lists executable paths exempt from the rule.
	AllowedBinaryPaths StringSet

	// AllowedCertificatesSha256 lists leaf signing certificate hashes
	// exempt from the rule.
	AllowedCertificatesSha256 StringSet

	// AllowedTeamIDs lists signing team identifiers exempt from the rule.
	AllowedTeamIDs StringSet

	// AllowedCDHashes lists code directory hashes exempt from the rule.
	AllowedCDHashes StringSet
}

// NewPolicy creates a policy with the documented field defaults: exact
// match, not write-only, audit-only, and empty allow-lists.
func NewPolicy(name, path string) *Policy {
	return &Policy{
		Name:                      name,
		Path:                      path,
		AuditOnly:                 true,
		AllowedBinaryPaths:        NewStringSet(),
		AllowedCertificatesSha256: NewStringSet(),
		AllowedTeamIDs:            NewStringSet(),
		AllowedCDHashes:           NewStringSet(),
	}
}
