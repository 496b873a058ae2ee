// Package cluster assembles a fixed set of page storage nodes into one
// logical store, deciding where pages live and finding them again later.
//
// # Overview
//
// The cluster is the top of the storage stack. Callers hand it page
// identifiers and payloads; it owns the nodes, the placement decision,
// and the cluster-wide lookup. Everything above this package (HTTP
// handlers, batch ingestion, reporting) talks to a Cluster; everything
// below it (nodes, record stores) is an implementation detail.
//
// Two properties define the cluster's behavior:
//
//   - Placement is deterministic. A page identifier hashes to exactly
//     one node (hash mod node count), so the same identifier always
//     lands on, and is later expected at, the same node.
//   - Allocation never spills over. When the routed node is full the
//     page is rejected outright, even if every other node has free
//     capacity. Rejected pages are not stored anywhere; a later access
//     for them faults.
//
// # Architecture
//
// The cluster sits between the request surface and the nodes:
//
//	                 ┌─────────────────────┐
//	   Allocate ────▶│       Cluster       │◀──── Access
//	                 │                     │
//	                 │  Route(id) =        │
//	                 │  hash(id) mod N     │
//	                 │                     │
//	                 │  owner cache        │
//	                 │  (id → node index)  │
//	                 └───┬──────┬──────┬───┘
//	                     │      │      │
//	                ┌────▼───┐ ┌▼──────┐ ┌▼──────┐
//	                │ Node 0 │ │ Node 1│ │ Node 2│
//	                │ cap K  │ │ cap K │ │ cap K │
//	                └────────┘ └───────┘ └───────┘
//
// # Placement
//
// Route reduces a 32-bit digest of the page identifier modulo the node
// count. The digest comes from a PageHasher; MurmurHash3 is the default
// and FNV-1a is available by name for deployments that prefer it. The
// hasher is fixed at construction because it participates in every
// routing decision: changing it while pages are stored would strand
// every previously placed page on a node the router no longer selects.
//
// Placement consults no node state. It does not know or care whether
// the target node is full, which is what makes rejection possible: the
// router picks one candidate and the allocation succeeds or fails
// there.
//
// # Lookup
//
// Access deliberately does not trust the router. It scans nodes in
// index order and returns the first record whose identifier matches,
// so lookups remain correct even if the placement hash is ever
// reconfigured between runs of a process. The scan is O(total records)
// in the worst case.
//
// A small LRU cache of confirmed owners (page identifier to node index)
// short-circuits the scan for recently stored or recently found pages.
// Entries are created only when a page is actually stored or found on a
// node, and pages never move between nodes or get deleted, so a cache
// hit cannot point at a stale location. A page absent from the cache is
// simply looked up the slow way; absence is never treated as "does not
// exist".
//
// # Allocation Outcomes
//
// Every allocation attempt produces an AllocationResult naming the page,
// the node the router selected, and the outcome:
//
//	{page_id: "page_7", status: "allocated", node: 2}
//	{page_id: "page_9", status: "rejected",  node: 2, reason: "node_full"}
//
// Results are plain values designed to be aggregated by the ingest and
// report packages and serialized as-is on the HTTP surface.
//
// # Concurrency Model
//
// A Cluster is safe for concurrent use without external locking:
//
//   - The node set and the hasher are immutable after construction.
//   - Each node synchronizes its own record store internally.
//   - The owner cache is internally synchronized.
//
// There is no cluster-wide lock, so operations on pages that route to
// different nodes proceed in parallel.
//
// # Usage Example
//
//	c, err := cluster.New(3, 3)
//	if err != nil {
//	    log.Fatalf("failed to create cluster: %v", err)
//	}
//
//	res := c.Allocate("page_1", []byte("data_1"))
//	if !res.Allocated() {
//	    log.Printf("node %d full, page %q not allocated", res.Node, res.PageID)
//	}
//
//	data, err := c.Access("page_1")
//	if errors.Is(err, cluster.ErrPageFault) {
//	    log.Printf("page fault: %q", "page_1")
//	}
//
// # See Also
//
// Related packages:
//   - internal/node: the capacity-bounded storage nodes managed here
//   - internal/storage: the record store behind each node
//   - internal/ingest: batch allocation built on Cluster.Allocate
//   - internal/report: occupancy and access reporting over Snapshot
package cluster
