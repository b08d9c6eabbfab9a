package pathtree

import "fmt"

// DuplicateEntryError is returned when a literal entry is inserted for a
// path that already has a literal entry.
type DuplicateEntryError struct {
	// Path is the path that was inserted twice.
	Path string
}

// Error implements the error interface.
func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("duplicate literal entry for path %q", e.Path)
}

// node is a single byte of registered path. A node can simultaneously
// terminate a literal entry and a prefix entry; the two never collide
// because lookups prefer the literal.
type node[T any] struct {
	children map[byte]*node[T]

	hasLiteral bool
	literal    T

	hasPrefix bool
	prefix    T
}

// Tree maps path strings to values of type T with longest-prefix-match
// resolution. The zero value is not usable; use New.
type Tree[T any] struct {
	root *node[T]
	size int
}

// New creates an empty tree.
func New[T any]() *Tree[T] {
	return &Tree[T]{root: &node[T]{}}
}

// Len returns the number of registered entries.
func (t *Tree[T]) Len() int {
	return t.size
}

// InsertLiteral registers value for exactly path. Inserting a second
// literal for the same path returns a DuplicateEntryError; the tree is
// left unchanged in that case.
func (t *Tree[T]) InsertLiteral(path string, value T) error {
	n := t.walkTo(path)
	if n.hasLiteral {
		return &DuplicateEntryError{Path: path}
	}
	n.hasLiteral = true
	n.literal = value
	t.size++
	return nil
}

// InsertPrefix registers value for path and every path beginning with it.
// Inserting a second prefix entry for the same path replaces the earlier
// value; overlapping prefixes at different depths are allowed and are
// resolved at lookup time.
func (t *Tree[T]) InsertPrefix(path string, value T) {
	n := t.walkTo(path)
	if !n.hasPrefix {
		t.size++
	}
	n.hasPrefix = true
	n.prefix = value
}

// LongestMatch returns the value of the most specific entry matching path.
// A literal entry for path itself beats any prefix entry; among prefix
// entries the one with the longest registered path wins. The second return
// value is false when no entry matches.
func (t *Tree[T]) LongestMatch(path string) (T, bool) {
	var best T
	found := false

	n := t.root
	for i := 0; i < len(path); i++ {
		n = n.children[path[i]]
		if n == nil {
			return best, found
		}
		if n.hasPrefix {
			best = n.prefix
			found = true
		}
	}

	// Entire path consumed: a literal entry here is the exact match and
	// takes precedence over every prefix seen on the way down.
	if n.hasLiteral {
		return n.literal, true
	}
	return best, found
}

// walkTo descends to the node for path, creating nodes as needed.
func (t *Tree[T]) walkTo(path string) *node[T] {
	n := t.root
	for i := 0; i < len(path); i++ {
		if n.children == nil {
			n.children = make(map[byte]*node[T])
		}
		child := n.children[path[i]]
		if child == nil {
			child = &node[T]{}
			n.children[path[i]] = child
		}
		n = child
	}
	return n
}
