// Package main implements the pagemesh binary, a sharded page store
// that places fixed-size pages across capacity-bounded nodes and
// accounts every access.
//
// The binary is a command tree:
//   - serve     - run the HTTP server with the utilization monitor
//   - simulate  - local allocation round with a printed report
//   - put/get   - single-page operations against a running server
//   - stats     - remote occupancy and access histogram
//   - cipher    - XOR round-trip demo
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│               pagemesh                  │
//	├─────────────────────────────────────────┤
//	│  HTTP API:                              │
//	│    /health       - Liveness + occupancy │
//	│    /nodes        - Topology             │
//	│    /pages/{id}   - Allocate / access    │
//	│    /ingest       - Batch allocation     │
//	│    /stats        - Totals + histogram   │
//	│    /cipher       - XOR transform        │
//	├─────────────────────────────────────────┤
//	│  Components:                            │
//	│    Cluster       - Placement + lookup   │
//	│    StorageNode   - Bounded page store   │
//	│    Monitor       - Utilization sampling │
//	└─────────────────────────────────────────┘
//
// Configuration (defaults, then pagemesh.yaml, then environment):
//   - PAGEMESH_ADDR: Listen address (default: ":8080")
//   - PAGEMESH_NODES: Node count (default: 3)
//   - PAGEMESH_NODE_CAPACITY: Pages per node (default: 3)
//   - PAGEMESH_HASH: Placement hash, murmur3 or fnv (default: murmur3)
//   - PAGEMESH_LOOKUP_CACHE: Owner cache entries, 0 for default (default: 0)
//
// Example usage:
//
//	# Start the server
//	PAGEMESH_NODES=3 PAGEMESH_NODE_CAPACITY=3 ./pagemesh serve
//
//	# Store and read a page
//	curl -X PUT localhost:8080/pages/page_1 -d 'data_1'
//	curl localhost:8080/pages/page_1
//
//	# Headless round: 10 pages over 3 nodes of capacity 3
//	./pagemesh simulate --pages 10
package main

import "pagemesh/internal/cli"

func main() {
	cli.Execute()
}
