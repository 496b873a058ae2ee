package ingest

import (
	"fmt"
	"log"

	"pagemesh/internal/cluster"
)

// Page is a single page waiting to be placed: an identifier and the
// payload that should live under it.
type Page struct {
	ID   string `json:"id"`
	Data []byte `json:"data"`
}

// Batch is an ordered list of pages to allocate. Order is significant:
// pages are attempted strictly in slice order, which decides who wins
// the remaining capacity on a contended node.
type Batch []Page

// Summary aggregates the outcome of a batch.
type Summary struct {
	Total     int `json:"total"`
	Allocated int `json:"allocated"`
	Rejected  int `json:"rejected"`
}

// Ingester feeds batches of pages into a cluster one page at a time.
type Ingester struct {
	cluster *cluster.Cluster
}

// New returns an Ingester that allocates into c.
func New(c *cluster.Cluster) *Ingester {
	return &Ingester{cluster: c}
}

// Ingest attempts every page in the batch, in order, and returns one
// result per page in the same order. A rejection does not abort the
// batch; later pages still get their attempt, so a full node only
// costs the pages routed to it.
func (in *Ingester) Ingest(batch Batch) []cluster.AllocationResult {
	results := make([]cluster.AllocationResult, 0, len(batch))
	for _, p := range batch {
		res := in.cluster.Allocate(p.ID, p.Data)
		if !res.Allocated() {
			log.Printf("node %d full, page %q not allocated", res.Node, res.PageID)
		}
		results = append(results, res)
	}
	return results
}

// Summarize folds a result list into batch totals.
func Summarize(results []cluster.AllocationResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Allocated() {
			s.Allocated++
		} else {
			s.Rejected++
		}
	}
	return s
}

// SequentialBatch builds the conventional demo batch of n pages,
// page_0 through page_(n-1), each carrying the matching data_i payload.
func SequentialBatch(n int) Batch {
	batch := make(Batch, 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, Page{
			ID:   fmt.Sprintf("page_%d", i),
			Data: []byte(fmt.Sprintf("data_%d", i)),
		})
	}
	return batch
}
