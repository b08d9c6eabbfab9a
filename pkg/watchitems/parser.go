package watchitems

import (
	"fmt"
	"sort"
)

// Recognized keys of a watch-item entry. Keys are case-sensitive; unknown
// keys are ignored for forward compatibility.
const (
	KeyPath                      = "Path"
	KeyWriteOnly                 = "WriteOnly"
	KeyIsPrefix                  = "IsPrefix"
	KeyAuditOnly                 = "AuditOnly"
	KeyAllowedBinaryPaths        = "AllowedBinaryPaths"
	KeyAllowedCertificatesSha256 = "AllowedCertificatesSha256"
	KeyAllowedTeamIDs            = "AllowedTeamIDs"
	KeyAllowedCDHashes           = "AllowedCDHashes"
)

// ParsePolicies validates an untyped configuration document into an ordered
// policy set. The document's top level maps rule names to field mappings:
//
//	UserBinaries:
//	  Path: /usr/local/bin/
//	  IsPrefix: true
//	  AuditOnly: false
//	  AllowedTeamIDs:
//	    - EQHXZ8M8AV
//
// Field semantics: Path is required and must be a non-empty string.
// WriteOnly and IsPrefix default to false, AuditOnly defaults to true. The
// four Allowed* fields default to empty and must be lists of strings.
//
// Validation is all-or-nothing: if any entry is invalid, no policies are
// returned and the error reports every invalid entry. A partially valid
// policy set must never be applied, since it would silently narrow or widen
// enforcement.
//
// An empty document is valid and yields an empty policy set. The returned
// policies are ordered by name so repeated parses of the same document
// produce identical builds.
func ParsePolicies(doc map[string]any) ([]*Policy, error) {
	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)

	policies := make([]*Policy, 0, len(names))
	errs := &ErrorList{}

	for _, name := range names {
		policy, err := parseEntry(name, doc[name])
		if err != nil {
			errs.Add(err)
			continue
		}
		policies = append(policies, policy)
	}

	if err := errs.ToError(); err != nil {
		return nil, err
	}
	return policies, nil
}

// parseEntry validates a single watch-item entry.
func parseEntry(name string, raw any) (*Policy, error) {
	entry, ok := raw.(map[string]any)
	if !ok {
		return nil, &PolicyError{
			Policy:  name,
			Message: fmt.Sprintf("entry must be a mapping, got %T", raw),
		}
	}

	pathValue, ok := entry[KeyPath]
	if !ok {
		return nil, &PolicyError{
			Policy:  name,
			Field:   KeyPath,
			Message: "required field is missing",
		}
	}
	path, ok := pathValue.(string)
	if !ok {
		return nil, &PolicyError{
			Policy:  name,
			Field:   KeyPath,
			Message: fmt.Sprintf("must be a string, got %T", pathValue),
		}
	}
	if path == "" {
		return nil, &PolicyError{
			Policy:  name,
			Field:   KeyPath,
			Message: "must not be empty",
		}
	}

	policy := NewPolicy(name, path)

	var err error
	if policy.WriteOnly, err = boolField(name, entry, KeyWriteOnly, false); err != nil {
		return nil, err
	}
	if policy.IsPrefix, err = boolField(name, entry, KeyIsPrefix, false); err != nil {
		return nil, err
	}
	if policy.AuditOnly, err = boolField(name, entry, KeyAuditOnly, true); err != nil {
		return nil, err
	}

	if policy.AllowedBinaryPaths, err = listField(name, entry, KeyAllowedBinaryPaths); err != nil {
		return nil, err
	}
	if policy.AllowedCertificatesSha256, err = listField(name, entry, KeyAllowedCertificatesSha256); err != nil {
		return nil, err
	}
	if policy.AllowedTeamIDs, err = listField(name, entry, KeyAllowedTeamIDs); err != nil {
		return nil, err
	}
	if policy.AllowedCDHashes, err = listField(name, entry, KeyAllowedCDHashes); err != nil {
		return nil, err
	}

	return policy, nil
}

// boolField reads an optional boolean field, returning def when absent.
func boolField(policy string, entry map[string]any, key string, def bool) (bool, error) {
	raw, ok := entry[key]
	if !ok {
		return def, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return def, &PolicyError{
			Policy:  policy,
			Field:   key,
			Message: fmt.Sprintf("must be a boolean, got %T", raw),
		}
	}
	return v, nil
}

// listField reads an optional list-of-strings field, returning an empty set
// when absent.
func listField(policy string, entry map[string]any, key string) (StringSet, error) {
	raw, ok := entry[key]
	if !ok {
		return NewStringSet(), nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &PolicyError{
			Policy:  policy,
			Field:   key,
			Message: fmt.Sprintf("must be a list of strings, got %T", raw),
		}
	}

	set := make(StringSet, len(list))
	for i, element := range list {
		s, ok := element.(string)
		if !ok {
			return nil, &PolicyError{
				Policy:  policy,
				Field:   key,
				Message: fmt.Sprintf("element %d must be a string, got %T", i, element),
			}
		}
		set[s] = struct{}{}
	}
	return set, nil
}
