package storage

import (
	"errors"
	"sync"
)

// ErrPageNotFound is returned when no record with the requested id exists
var ErrPageNotFound = errors.New("page not found")

// ErrStoreFull is returned when an allocation would exceed the store's capacity
var ErrStoreFull = errors.New("store full")

// Record is a single page held by a node: a cluster-unique identifier, an
// opaque payload that never changes after allocation, and a counter of how
// many times the page has been looked up.
type Record struct {
	ID          string `json:"id"`
	Data        []byte `json:"data"`
	AccessCount uint64 `json:"access_count"`
}

// Store defines the interface for one node's page storage.
// All implementations must be thread-safe for concurrent access.
type Store interface {
	// Allocate appends a new record with a zero access count.
	// Returns ErrStoreFull without side effects if the store is at capacity.
	// Duplicate ids are not rejected here; placement is the router's job.
	Allocate(id string, data []byte) error

	// Access finds the first record matching id in insertion order,
	// increments that record's access count and returns a copy of its data.
	// Returns ErrPageNotFound, with no side effects, if nothing matches.
	Access(id string) ([]byte, error)

	// Len returns the number of records currently held.
	Len() int

	// Cap returns the fixed capacity set at construction.
	Cap() int

	// Snapshot returns a copy of all records in insertion order.
	Snapshot() []Record

	// Stats returns storage statistics.
	Stats() StoreStats
}

// StoreStats contains statistics about the store
type StoreStats struct {
	Pages    int // Number of records
	Bytes    int // Total size of all payloads in bytes
	Capacity int // Fixed capacity
}

// PageStore implements Store as an insertion-ordered, capacity-bounded
// record sequence. A side index maps each id to the position of its first
// record, so access-by-id is O(1) while behaving exactly like a front-to-back
// scan. Uses sync.RWMutex for thread-safe concurrent access.
type PageStore struct {
	mu      sync.RWMutex
	records []Record
	index   map[string]int // id -> position of the first record with that id
	cap     int
}

// NewPageStore creates an empty store with the given fixed capacity.
func NewPageStore(capacity int) *PageStore {
	return &PageStore{
		records: make([]Record, 0, capacity),
		index:   make(map[string]int, capacity),
		cap:     capacity,
	}
}

// Allocate appends a record with access count zero.
// The payload is copied so callers cannot mutate stored data.
func (p *PageStore) Allocate(id string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.records) >= p.cap {
		return ErrStoreFull
	}

	// Copy to keep the stored payload immutable
	stored := make([]byte, len(data))
	copy(stored, data)

	p.records = append(p.records, Record{ID: id, Data: stored})

	// Only the first record for an id is indexed, so the fast path in
	// Access matches what a front-to-back scan would find.
	if _, exists := p.index[id]; !exists {
		p.index[id] = len(p.records) - 1
	}
	return nil
}

// Access increments the access count of the first record matching id and
// returns a copy of its data, or ErrPageNotFound.
func (p *PageStore) Access(id string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pos, exists := p.index[id]
	if !exists {
		return nil, ErrPageNotFound
	}

	p.records[pos].AccessCount++

	// Return a copy to prevent external modification
	result := make([]byte, len(p.records[pos].Data))
	copy(result, p.records[pos].Data)
	return result, nil
}

// Len returns the number of records currently held.
func (p *PageStore) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.records)
}

// Cap returns the fixed capacity.
func (p *PageStore) Cap() int {
	return p.cap
}

// Snapshot returns a deep copy of all records in insertion order.
func (p *PageStore) Snapshot() []Record {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Record, len(p.records))
	for i, rec := range p.records {
		data := make([]byte, len(rec.Data))
		copy(data, rec.Data)
		out[i] = Record{ID: rec.ID, Data: data, AccessCount: rec.AccessCount}
	}
	return out
}

// Stats returns storage statistics.
func (p *PageStore) Stats() StoreStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	totalBytes := 0
	for _, rec := range p.records {
		totalBytes += len(rec.Data)
	}

	return StoreStats{
		Pages:    len(p.records),
		Bytes:    totalBytes,
		Capacity: p.cap,
	}
}
