package node

import (
	"sync/atomic"

	"pagemesh/internal/storage"
)

// StorageNode is one shard of the page store. Each node owns a bounded,
// insertion-ordered record collection and tracks its own operation counts.
// Nodes never talk to each other; placement and lookup are cluster concerns.
type StorageNode struct {
	ID    int           // Unique node identifier, assigned at cluster construction
	store storage.Store // Bounded record storage for this shard
	stats OpStats       // Operation counters, updated atomically
}

// OpStats tracks operation counts for a node
type OpStats struct {
	Allocations uint64 `json:"allocations"` // Successful page allocations
	Rejections  uint64 `json:"rejections"`  // Allocations rejected at capacity
	Hits        uint64 `json:"hits"`        // Lookups answered by this node
	Faults      uint64 `json:"faults"`      // Lookups that missed on this node
}

// Info contains metadata about a node
type Info struct {
	ID       int `json:"node_id"`  // Node identifier
	Capacity int `json:"capacity"` // Fixed record capacity
	Used     int `json:"used"`     // Current record count
}

// New creates a storage node with an empty page store of the given capacity.
func New(id, capacity int) *StorageNode {
	return &StorageNode{
		ID:    id,
		store: storage.NewPageStore(capacity),
	}
}

// AllocatePage stores a new page on this node.
// Returns storage.ErrStoreFull when the node is at capacity; the page is not
// stored anywhere and the failure is final for this node.
func (n *StorageNode) AllocatePage(id string, data []byte) error {
	if err := n.store.Allocate(id, data); err != nil {
		atomic.AddUint64(&n.stats.Rejections, 1)
		return err
	}
	atomic.AddUint64(&n.stats.Allocations, 1)
	return nil
}

// AccessPage looks up a page on this node, counting the access on a hit.
// Returns storage.ErrPageNotFound when the page does not live here; a miss
// has no side effect on any record.
func (n *StorageNode) AccessPage(id string) ([]byte, error) {
	data, err := n.store.Access(id)
	if err != nil {
		atomic.AddUint64(&n.stats.Faults, 1)
		return nil, err
	}
	atomic.AddUint64(&n.stats.Hits, 1)
	return data, nil
}

// Len returns the number of records currently held.
func (n *StorageNode) Len() int {
	return n.store.Len()
}

// Capacity returns the node's fixed record capacity.
func (n *StorageNode) Capacity() int {
	return n.store.Cap()
}

// Snapshot returns a copy of this node's records in insertion order.
func (n *StorageNode) Snapshot() []storage.Record {
	return n.store.Snapshot()
}

// Info returns metadata about the node
func (n *StorageNode) Info() Info {
	return Info{
		ID:       n.ID,
		Capacity: n.store.Cap(),
		Used:     n.store.Len(),
	}
}

// Stats returns a consistent copy of the node's operation counters.
func (n *StorageNode) Stats() OpStats {
	return OpStats{
		Allocations: atomic.LoadUint64(&n.stats.Allocations),
		Rejections:  atomic.LoadUint64(&n.stats.Rejections),
		Hits:        atomic.LoadUint64(&n.stats.Hits),
		Faults:      atomic.LoadUint64(&n.stats.Faults),
	}
}

// Full reports whether the node has reached its capacity.
func (n *StorageNode) Full() bool {
	return n.store.Len() >= n.store.Cap()
}
