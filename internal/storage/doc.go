// Package storage defines the page storage interface and its in-memory
// implementation: the insertion-ordered, capacity-bounded record sequence
// that backs a single pagemesh storage node.
//
// # Overview
//
// The storage package is the lowest layer of the page store. It knows nothing
// about nodes, placement or the cluster; it only holds page records for one
// shard and enforces that shard's capacity bound. One Store instance is owned
// exclusively by one node and is never shared.
//
// # Record Model
//
// A Record is a value triple:
//
//	ID          - page identifier, unique cluster-wide once allocated
//	Data        - opaque payload, immutable after allocation
//	AccessCount - lookup counter, starts at zero, only ever incremented
//
// Records are kept in insertion order and are never removed, resized or
// rewritten; the only in-place mutation is the access counter.
//
// # Capacity and Allocation
//
// Each store is constructed with a fixed capacity. Allocate appends a record
// while the record count is below capacity and fails with ErrStoreFull
// otherwise, leaving the store untouched. There is no eviction, spillover or
// compaction: a full store stays full. Callers decide what a failed
// allocation means; the store only reports it.
//
// # Lookup Semantics
//
// Access resolves an id to the first matching record in insertion order
// (first-match-wins), increments that record's access count and returns a
// copy of its data. A miss returns ErrPageNotFound and changes nothing.
// Internally the lookup is accelerated by an id-to-position index, but the
// index only ever points at the first record for an id, so the observable
// behavior is identical to a linear scan.
//
// # Concurrency and Thread Safety
//
// PageStore guards its state with a single sync.RWMutex:
//   - Snapshot, Len and Stats take the read lock
//   - Allocate and Access take the write lock (Access mutates a counter)
//
// Payloads are copied on the way in and on the way out, so no caller ever
// holds a reference into the store's memory.
//
// # Error Handling
//
// The package defines two sentinel errors, both ordinary outcomes rather
// than failures:
//
// ErrStoreFull: allocation rejected at capacity
//   - Returned by Allocate only
//   - The store is unchanged
//
// ErrPageNotFound: no record for the requested id
//   - Returned by Access only
//   - No counter is touched
//
// # Usage
//
//	store := storage.NewPageStore(3)
//
//	if err := store.Allocate("page_0", []byte("data_0")); err != nil {
//	    // errors.Is(err, storage.ErrStoreFull)
//	}
//
//	data, err := store.Access("page_0")
//	if errors.Is(err, storage.ErrPageNotFound) {
//	    // page fault
//	}
//
// # See Also
//
// Related packages:
//   - internal/node: wraps one Store per storage node and counts operations
//   - internal/cluster: routes allocations to nodes and scans them on lookup
package storage
