// Package node implements the storage node, the unit of capacity in the
// pagemesh cluster. A node is a thin shell around one storage.Store: it gives
// the shard an identity, forwards allocate and access operations, and counts
// what happened to them.
//
// # Role in the System
//
//	┌──────────────────────────────────────┐
//	│               Cluster                │
//	│   route(id) ──► node i  (allocate)   │
//	│   scan 0..N-1 nodes     (access)     │
//	└──────────────┬───────────────────────┘
//	               │
//	               ▼
//	┌──────────────────────────────────────┐
//	│           StorageNode                │
//	│   ID, operation counters             │
//	│   storage.Store (bounded records)    │
//	└──────────────────────────────────────┘
//
// The node has no opinion on which pages it should hold; the cluster's
// router decides placement. The node only enforces its capacity bound and
// answers lookups for the records it holds.
//
// # Statistics
//
// Every operation outcome is counted with atomic increments: successful
// allocations, capacity rejections, lookup hits and per-node lookup misses
// (faults). Counters are monotonic and exposed as a copied OpStats value,
// never as live references.
//
// # Concurrency
//
// The wrapped store carries its own lock; counters are atomics. A node is
// therefore safe for concurrent use without any lock of its own, and two
// nodes never contend with each other.
package node
