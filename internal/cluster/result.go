package cluster

// AllocationStatus records whether an allocation attempt stored the
// page or turned it away.
type AllocationStatus string

const (
	// StatusAllocated means the routed node accepted and stored the page.
	StatusAllocated AllocationStatus = "allocated"

	// StatusRejected means the routed node turned the page away. The
	// cluster does not retry another node, so a rejected page is not
	// stored anywhere.
	StatusRejected AllocationStatus = "rejected"
)

// RejectReason explains why an allocation was rejected.
type RejectReason string

const (
	// ReasonNodeFull means the routed node was already at capacity.
	ReasonNodeFull RejectReason = "node_full"
)

// AllocationResult describes the outcome of a single page allocation:
// which node the router selected and whether the page was stored there.
// Results serialize directly onto the HTTP surface and feed the ingest
// summaries.
type AllocationResult struct {
	// PageID is the identifier of the page the attempt was for.
	PageID string `json:"page_id"`

	// Status reports whether the page was stored.
	Status AllocationStatus `json:"status"`

	// Node is the index of the node the router selected. It is set on
	// rejections too, identifying the node that was full.
	Node int `json:"node"`

	// Reason is populated only when Status is StatusRejected.
	Reason RejectReason `json:"reason,omitempty"`
}

// Allocated reports whether the attempt stored the page.
func (r AllocationResult) Allocated() bool {
	return r.Status == StatusAllocated
}
