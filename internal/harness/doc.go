// Package harness runs declarative deletion scenarios against a fresh
// in-memory index. A scenario describes a resource tree in YAML, names
// one resource to delete, and states the signals the deletion must
// produce. The harness builds the tree, performs the deletion with a
// recording listener installed, and diffs the observed signals against
// the expectation.
package harness
