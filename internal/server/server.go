// Package server exposes a page store cluster over HTTP using the wire
// types defined in the api package.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"pagemesh/internal/api"
	"pagemesh/internal/cluster"
	"pagemesh/internal/ingest"
	"pagemesh/internal/report"
	"pagemesh/internal/xorcipher"
)

// Server routes HTTP requests onto a cluster. Construct with New; the
// zero value has no routes.
type Server struct {
	clust    *cluster.Cluster
	ingester *ingest.Ingester
	mux      *http.ServeMux
}

// New wires a server around the given cluster.
func New(c *cluster.Cluster) *Server {
	s := &Server{
		clust:    c,
		ingester: ingest.New(c),
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/nodes", s.handleNodes)
	s.mux.HandleFunc("/pages/", s.handlePage)
	s.mux.HandleFunc("/ingest", s.handleIngest)
	s.mux.HandleFunc("/stats", s.handleStats)
	s.mux.HandleFunc("/cipher", s.handleCipher)

	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe runs the HTTP server on addr until ctx is canceled,
// then shuts down gracefully, draining in-flight requests for up to
// five seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second, // Prevent slowloris attacks
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("page store listening on %s (%d nodes, hash %s)",
			addr, s.clust.NumNodes(), s.clust.HashName())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Println("page store stopped")
	return nil
}

// handleHealth reports liveness plus coarse occupancy.
//
// Endpoint: GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, api.HealthResponse{
		Status: "ok",
		Nodes:  s.clust.NumNodes(),
		Pages:  s.clust.TotalPages(),
	})
}

// handleNodes reports the topology: placement hash and per-node
// occupancy in node-index order.
//
// Endpoint: GET /nodes
func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, api.NodesResponse{
		Hash:  s.clust.HashName(),
		Nodes: s.clust.Nodes(),
	})
}

// handlePage serves single-page operations.
//
// Endpoints:
//
//	PUT /pages/{id}  - allocate the body under id (201 allocated, 409 node full)
//	GET /pages/{id}  - access the payload (200 raw bytes, 404 page fault)
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/pages/")
	if id == "" {
		http.Error(w, "missing page id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handleAllocate(w, r, id)
	case http.MethodGet:
		s.handleAccess(w, id)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAllocate stores the request body as the page payload. Both
// outcomes serialize the allocation result; the status code tells them
// apart.
func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request, id string) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r.Body); err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	res := s.clust.Allocate(id, buf.Bytes())
	status := http.StatusCreated
	if !res.Allocated() {
		status = http.StatusConflict
		log.Printf("node %d full, page %q not allocated", res.Node, res.PageID)
	}
	writeJSON(w, status, res)
}

// handleAccess returns the raw payload and counts the access on the
// stored record.
func (s *Server) handleAccess(w http.ResponseWriter, id string) {
	data, err := s.clust.Access(id)
	if errors.Is(err, cluster.ErrPageFault) {
		http.Error(w, "page fault", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := w.Write(data); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

// handleIngest allocates an ordered batch and reports one outcome per
// page. Identifiers are validated up front so a malformed batch is
// rejected whole instead of partially applied.
//
// Endpoint: POST /ingest
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req api.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	for i, p := range req.Pages {
		if p.ID == "" {
			http.Error(w, fmt.Sprintf("page %d: missing id", i), http.StatusBadRequest)
			return
		}
	}

	results := s.ingester.Ingest(req.Pages)
	writeJSON(w, http.StatusOK, api.IngestResponse{
		Results: results,
		Summary: ingest.Summarize(results),
	})
}

// handleStats serves the cluster report: totals, per-node occupancy,
// and the access histogram sorted ascending by count.
//
// Endpoint: GET /stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snaps := s.clust.Snapshot()
	writeJSON(w, http.StatusOK, api.StatsResponse{
		Totals:    report.Aggregate(snaps),
		Nodes:     s.clust.Nodes(),
		Histogram: report.AccessHistogram(snaps),
	})
}

// handleCipher runs the XOR transform server-side.
//
// Endpoint: POST /cipher
func (s *Server) handleCipher(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req api.CipherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	key := xorcipher.DefaultKey
	if req.Key != nil {
		if *req.Key < 0 || *req.Key > 255 {
			http.Error(w, "key must be between 0 and 255", http.StatusBadRequest)
			return
		}
		key = byte(*req.Key)
	}

	switch req.Op {
	case "encrypt":
		writeJSON(w, http.StatusOK, api.CipherResponse{
			Op:   req.Op,
			Data: xorcipher.Encrypt(req.Text, key),
		})
	case "decrypt":
		text, err := xorcipher.Decrypt(req.Data, key)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, api.CipherResponse{Op: req.Op, Text: text})
	default:
		http.Error(w, fmt.Sprintf("unknown op %q", req.Op), http.StatusBadRequest)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
