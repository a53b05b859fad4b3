// Package index implements the persistent resource index of the
// archive server: the hierarchical Patient/Study/Series/Instance
// entity model, attachment and metadata references, DICOM tag storage
// with identifier routing, cascade-delete signaling toward the blob
// store, the patient recycling queue, and the change/export audit
// logs.
//
// The index is backed by an embedded SQLite database opened in
// exclusive mode with a single connection. It performs no internal
// locking: callers that share one Index across goroutines must
// serialize every call through their own mutual exclusion.
package index
