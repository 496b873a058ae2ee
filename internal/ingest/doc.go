// Package ingest turns ordered batches of pages into cluster
// allocations, one attempt per page.
//
// # Overview
//
// Ingestion is deliberately simple: walk the batch front to back, route
// each page, record the outcome. There is no reordering, no retry, and
// no rollback. Because placement is deterministic and nodes fill first
// come first served, the batch order fully determines which pages land
// when a node runs out of room.
//
// Rejections are logged as they happen and reported per page, so a
// caller can always reconstruct exactly what the cluster did:
//
//	results := ingester.Ingest(batch)
//	summary := ingest.Summarize(results)
//	// summary.Allocated + summary.Rejected == summary.Total
//
// SequentialBatch generates the page_N / data_N identifier scheme used
// by the simulate command and the walkthrough examples.
//
// # See Also
//
// Related packages:
//   - internal/cluster: the placement and capacity rules applied here
//   - internal/report: occupancy and access reporting after ingestion
package ingest
