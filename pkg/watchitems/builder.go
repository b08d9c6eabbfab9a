package watchitems

import (
	"errors"
	"sort"

	"mercator-hq/callisto/pkg/pathtree"
)

// BuildTree inserts every policy into a fresh path tree and returns it
// together with the sorted set of distinct policy paths. The path set is
// what the filesystem monitor must register interception on, and is
// recomputed on every build since policies come and go across reloads.
//
// Two policies registering the same exact (non-prefix) path fail the build
// with a DuplicatePathError; prefix entries may overlap freely, resolution
// happens at lookup time.
func BuildTree(policies []*Policy) (*pathtree.Tree[*Policy], []string, error) {
	tree := pathtree.New[*Policy]()
	pathSet := make(map[string]struct{}, len(policies))

	for _, policy := range policies {
		if policy.IsPrefix {
			tree.InsertPrefix(policy.Path, policy)
		} else {
			if err := tree.InsertLiteral(policy.Path, policy); err != nil {
				var dup *pathtree.DuplicateEntryError
				if errors.As(err, &dup) {
					return nil, nil, &DuplicatePathError{Path: dup.Path}
				}
				return nil, nil, err
			}
		}
		pathSet[policy.Path] = struct{}{}
	}

	paths := make([]string, 0, len(pathSet))
	for path := range pathSet {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	return tree, paths, nil
}
