// Package pathtree provides an immutable-after-build prefix tree for
// mapping filesystem paths to values.
//
// # Overview
//
// The tree supports two kinds of entries: literal entries that match one
// exact path, and prefix entries that match their own path and every path
// beginning with it. A lookup resolves to the most specific matching entry:
// a literal match wins over any prefix match, and among prefix matches the
// longest registered prefix wins.
//
// # Usage
//
//	tree := pathtree.New[string]()
//	tree.InsertPrefix("/usr/bin/", "bin")
//	tree.InsertLiteral("/usr/bin/sudo", "sudo")
//
//	v, ok := tree.LongestMatch("/usr/bin/sudo") // "sudo" (literal wins)
//	v, ok = tree.LongestMatch("/usr/bin/ls")    // "bin"  (prefix match)
//	v, ok = tree.LongestMatch("/etc/passwd")    // ok == false
//
// # Performance
//
// Lookups walk the tree one byte at a time, so a lookup costs O(len(path))
// regardless of how many entries are registered.
//
// # Thread Safety
//
// The tree is not safe for concurrent mutation. The intended usage is
// build-once, read-many: after the final insert, any number of goroutines
// may call LongestMatch concurrently without synchronization.
package pathtree
