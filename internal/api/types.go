// Package api defines the HTTP wire types of the page store and a
// typed client for them. The server encodes these types verbatim, so
// anything a handler returns is documented here.
package api

import (
	"pagemesh/internal/cluster"
	"pagemesh/internal/ingest"
	"pagemesh/internal/node"
	"pagemesh/internal/report"
)

// HealthResponse reports liveness plus coarse occupancy.
type HealthResponse struct {
	Status string `json:"status"`
	Nodes  int    `json:"nodes"`
	Pages  int    `json:"pages"`
}

// NodesResponse describes the cluster topology: the placement hash and
// one entry per node in node-index order.
type NodesResponse struct {
	Hash  string      `json:"hash"`
	Nodes []node.Info `json:"nodes"`
}

// IngestRequest submits an ordered batch of pages for allocation.
// Page payloads travel base64-encoded, the JSON encoding of raw bytes.
type IngestRequest struct {
	Pages ingest.Batch `json:"pages"`
}

// IngestResponse returns one outcome per requested page, in request
// order, plus the batch summary.
type IngestResponse struct {
	Results []cluster.AllocationResult `json:"results"`
	Summary ingest.Summary             `json:"summary"`
}

// StatsResponse carries the full cluster report: aggregate totals,
// per-node occupancy, and the access histogram sorted ascending by
// count.
type StatsResponse struct {
	Totals    report.Totals  `json:"totals"`
	Nodes     []node.Info    `json:"nodes"`
	Histogram []report.Entry `json:"histogram"`
}

// CipherRequest asks the server to run the XOR transform one way or
// the other.
type CipherRequest struct {
	// Op selects the direction, "encrypt" or "decrypt".
	Op string `json:"op"`

	// Text is the plaintext input for encrypt.
	Text string `json:"text,omitempty"`

	// Data is the ciphertext input for decrypt, base64 on the wire.
	Data []byte `json:"data,omitempty"`

	// Key is the single-byte key, 0 through 255. Nil selects the
	// default key.
	Key *int `json:"key,omitempty"`
}

// CipherResponse carries the transformed payload: Data for encrypt
// output, Text for decrypt output.
type CipherResponse struct {
	Op   string `json:"op"`
	Data []byte `json:"data,omitempty"`
	Text string `json:"text,omitempty"`
}
