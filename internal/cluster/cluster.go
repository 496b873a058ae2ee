package cluster

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"pagemesh/internal/node"
	"pagemesh/internal/storage"
)

// ErrPageFault is returned by Access when no node in the cluster holds
// the requested page. A faulted page was either never allocated or was
// rejected at allocation time because its node was full.
var ErrPageFault = errors.New("page fault")

// DefaultOwnerCacheSize is the number of page-to-node mappings the
// lookup cache retains when no explicit size is configured.
const DefaultOwnerCacheSize = 1024

// Cluster owns a fixed set of storage nodes and routes every page
// operation to them. It is the only type callers outside this package
// need: allocation, access, and reporting all go through it.
//
// Placement is deterministic (hash of the identifier mod node count)
// and allocation is single-attempt: a full target node rejects the page
// even when other nodes have room.
//
// A Cluster is safe for concurrent use. The node set and hasher are
// immutable after construction, each node guards its own records, and
// the owner cache synchronizes internally.
type Cluster struct {
	nodes  []*node.StorageNode // fixed at construction, index == node ID
	hasher PageHasher          // placement hash, immutable
	owners *lru.Cache          // page ID -> owning node index, confirmed owners only
}

// New creates a cluster of numNodes storage nodes, each bounded at
// capacity records, using the default MurmurHash3 placement hash and
// the default owner cache size.
func New(numNodes, capacity int) (*Cluster, error) {
	return NewWithOptions(numNodes, capacity, nil, 0)
}

// NewWithOptions creates a cluster with an explicit placement hash and
// owner cache size. A nil hasher selects MurmurHash3; an ownerCacheSize
// of zero or less selects DefaultOwnerCacheSize. The hasher cannot
// change for the life of the cluster, since changing placement would
// strand every already-stored page.
func NewWithOptions(numNodes, capacity int, hasher PageHasher, ownerCacheSize int) (*Cluster, error) {
	if numNodes <= 0 {
		return nil, fmt.Errorf("cluster requires at least one node, got %d", numNodes)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("node capacity must be positive, got %d", capacity)
	}
	if hasher == nil {
		hasher = Murmur3Hasher{}
	}
	if ownerCacheSize <= 0 {
		ownerCacheSize = DefaultOwnerCacheSize
	}

	nodes := make([]*node.StorageNode, numNodes)
	for i := range nodes {
		nodes[i] = node.New(i, capacity)
	}

	owners, err := lru.New(ownerCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create owner cache: %w", err)
	}

	return &Cluster{
		nodes:  nodes,
		hasher: hasher,
		owners: owners,
	}, nil
}

// Route returns the index of the node responsible for the given page
// identifier. The mapping is a pure function of the identifier and the
// node count; it consults no node state and is stable across restarts
// as long as the cluster size and hash stay the same.
func (c *Cluster) Route(id string) int {
	return int(c.hasher.Sum32(id) % uint32(len(c.nodes)))
}

// Allocate stores a page on the single node the router selects for it.
//
// There is no spillover: if the routed node is full the allocation is
// rejected outright, even when every other node has free capacity. The
// returned result always identifies the node that was tried.
func (c *Cluster) Allocate(id string, data []byte) AllocationResult {
	target := c.Route(id)

	if err := c.nodes[target].AllocatePage(id, data); err != nil {
		return AllocationResult{
			PageID: id,
			Status: StatusRejected,
			Node:   target,
			Reason: ReasonNodeFull,
		}
	}

	// The owner is known exactly once the node accepts the page.
	c.owners.Add(id, target)

	return AllocationResult{
		PageID: id,
		Status: StatusAllocated,
		Node:   target,
	}
}

// Access retrieves a page's payload from whichever node holds it and
// counts the access on that record.
//
// Lookup does not trust the router. Nodes are scanned in index order
// and the first record with a matching identifier wins, so access stays
// correct even if the placement hash is reconfigured between runs. The
// owner cache short-circuits the scan for pages that were recently
// stored or found; absence from the cache means nothing and only falls
// back to the scan.
//
// Returns ErrPageFault when no node holds the page.
func (c *Cluster) Access(id string) ([]byte, error) {
	if cached, ok := c.owners.Get(id); ok {
		data, err := c.nodes[cached.(int)].AccessPage(id)
		if err == nil {
			return data, nil
		}
		// The cache holds confirmed owners only, so a miss here means
		// the entry is wrong. Drop it and take the scan path.
		c.owners.Remove(id)
	}

	for _, n := range c.nodes {
		data, err := n.AccessPage(id)
		if errors.Is(err, storage.ErrPageNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		c.owners.Add(id, n.ID)
		return data, nil
	}

	return nil, ErrPageFault
}

// NodeSnapshot is a point-in-time copy of one node's state, taken for
// reporting. Mutating a snapshot has no effect on the cluster.
type NodeSnapshot struct {
	Info    node.Info        `json:"info"`
	Records []storage.Record `json:"records"`
	Ops     node.OpStats     `json:"ops"`
}

// Snapshot captures every node in node-index order. Each entry is a
// deep copy, so presentation code can sort and slice freely.
func (c *Cluster) Snapshot() []NodeSnapshot {
	snaps := make([]NodeSnapshot, len(c.nodes))
	for i, n := range c.nodes {
		snaps[i] = NodeSnapshot{
			Info:    n.Info(),
			Records: n.Snapshot(),
			Ops:     n.Stats(),
		}
	}
	return snaps
}

// Nodes returns per-node identity and occupancy, in node-index order.
func (c *Cluster) Nodes() []node.Info {
	infos := make([]node.Info, len(c.nodes))
	for i, n := range c.nodes {
		infos[i] = n.Info()
	}
	return infos
}

// NumNodes returns the fixed number of nodes in the cluster.
func (c *Cluster) NumNodes() int {
	return len(c.nodes)
}

// TotalPages returns the number of records stored across all nodes.
func (c *Cluster) TotalPages() int {
	total := 0
	for _, n := range c.nodes {
		total += n.Len()
	}
	return total
}

// HashName returns the name of the configured placement hash.
func (c *Cluster) HashName() string {
	return c.hasher.Name()
}
