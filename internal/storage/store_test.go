package storage

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// TestPageStore tests the in-memory page store implementation
func TestPageStore(t *testing.T) {
	t.Run("new store is empty", func(t *testing.T) {
		store := NewPageStore(3)

		if store.Len() != 0 {
			t.Errorf("Expected empty store, got %d records", store.Len())
		}
		if store.Cap() != 3 {
			t.Errorf("Expected capacity 3, got %d", store.Cap())
		}

		// Access should return ErrPageNotFound
		_, err := store.Access("nonexistent")
		if !errors.Is(err, ErrPageNotFound) {
			t.Errorf("Expected ErrPageNotFound, got %v", err)
		}
	})

	t.Run("allocate and access", func(t *testing.T) {
		store := NewPageStore(3)

		err := store.Allocate("page_0", []byte("data_0"))
		if err != nil {
			t.Fatalf("Failed to allocate page: %v", err)
		}

		data, err := store.Access("page_0")
		if err != nil {
			t.Fatalf("Failed to access page: %v", err)
		}

		if !bytes.Equal(data, []byte("data_0")) {
			t.Errorf("Expected 'data_0', got %s", string(data))
		}
	})

	t.Run("allocation rejected at capacity", func(t *testing.T) {
		store := NewPageStore(2)

		for i := 0; i < 2; i++ {
			id := fmt.Sprintf("page_%d", i)
			if err := store.Allocate(id, []byte("data")); err != nil {
				t.Fatalf("Failed to allocate %s: %v", id, err)
			}
		}

		// Third allocation must fail without side effects
		err := store.Allocate("page_2", []byte("data"))
		if !errors.Is(err, ErrStoreFull) {
			t.Errorf("Expected ErrStoreFull, got %v", err)
		}

		if store.Len() != 2 {
			t.Errorf("Expected 2 records after rejection, got %d", store.Len())
		}

		// The rejected page must not be findable
		_, err = store.Access("page_2")
		if !errors.Is(err, ErrPageNotFound) {
			t.Errorf("Expected ErrPageNotFound for rejected page, got %v", err)
		}
	})

	t.Run("record count never exceeds capacity", func(t *testing.T) {
		store := NewPageStore(3)

		for i := 0; i < 10; i++ {
			store.Allocate(fmt.Sprintf("page_%d", i), []byte("data"))
			if store.Len() > store.Cap() {
				t.Fatalf("Record count %d exceeds capacity %d", store.Len(), store.Cap())
			}
		}

		if store.Len() != 3 {
			t.Errorf("Expected 3 records, got %d", store.Len())
		}
	})

	t.Run("access count starts at zero and increments", func(t *testing.T) {
		store := NewPageStore(3)
		store.Allocate("page_0", []byte("data_0"))

		recs := store.Snapshot()
		if recs[0].AccessCount != 0 {
			t.Errorf("Expected access count 0 after allocation, got %d", recs[0].AccessCount)
		}

		// Two accesses, count must be exactly 2
		for i := 0; i < 2; i++ {
			data, err := store.Access("page_0")
			if err != nil {
				t.Fatalf("Access %d failed: %v", i+1, err)
			}
			if !bytes.Equal(data, []byte("data_0")) {
				t.Errorf("Access %d returned %q, want 'data_0'", i+1, data)
			}
		}

		recs = store.Snapshot()
		if recs[0].AccessCount != 2 {
			t.Errorf("Expected access count 2, got %d", recs[0].AccessCount)
		}
	})

	t.Run("miss leaves counters unchanged", func(t *testing.T) {
		store := NewPageStore(3)
		store.Allocate("page_0", []byte("data_0"))

		_, err := store.Access("missing")
		if !errors.Is(err, ErrPageNotFound) {
			t.Fatalf("Expected ErrPageNotFound, got %v", err)
		}

		recs := store.Snapshot()
		if recs[0].AccessCount != 0 {
			t.Errorf("Miss must not touch counters, got %d", recs[0].AccessCount)
		}
	})

	t.Run("insertion order preserved", func(t *testing.T) {
		store := NewPageStore(5)

		ids := []string{"c", "a", "e", "b", "d"}
		for _, id := range ids {
			if err := store.Allocate(id, []byte(id)); err != nil {
				t.Fatalf("Failed to allocate %s: %v", id, err)
			}
		}

		recs := store.Snapshot()
		if len(recs) != len(ids) {
			t.Fatalf("Expected %d records, got %d", len(ids), len(recs))
		}
		for i, id := range ids {
			if recs[i].ID != id {
				t.Errorf("Position %d: expected %s, got %s", i, id, recs[i].ID)
			}
		}
	})

	t.Run("duplicate id hits first record only", func(t *testing.T) {
		store := NewPageStore(3)

		// The store does not dedup; placement does. Two records with the
		// same id must resolve to the older one.
		store.Allocate("page_0", []byte("first"))
		store.Allocate("page_0", []byte("second"))

		data, err := store.Access("page_0")
		if err != nil {
			t.Fatalf("Failed to access page: %v", err)
		}
		if !bytes.Equal(data, []byte("first")) {
			t.Errorf("Expected first record's data, got %s", string(data))
		}

		recs := store.Snapshot()
		if recs[0].AccessCount != 1 {
			t.Errorf("First record count = %d, want 1", recs[0].AccessCount)
		}
		if recs[1].AccessCount != 0 {
			t.Errorf("Second record count = %d, want 0", recs[1].AccessCount)
		}
	})

	t.Run("stored data is immutable", func(t *testing.T) {
		store := NewPageStore(3)

		payload := []byte("data_0")
		store.Allocate("page_0", payload)

		// Mutating the caller's slice must not affect the store
		payload[0] = 'X'

		data, err := store.Access("page_0")
		if err != nil {
			t.Fatalf("Failed to access page: %v", err)
		}
		if !bytes.Equal(data, []byte("data_0")) {
			t.Errorf("Stored data was mutated: got %s", string(data))
		}

		// Mutating the returned slice must not affect the store either
		data[0] = 'Y'
		again, _ := store.Access("page_0")
		if !bytes.Equal(again, []byte("data_0")) {
			t.Errorf("Returned data aliases store memory: got %s", string(again))
		}
	})

	t.Run("nil payload stored as empty", func(t *testing.T) {
		store := NewPageStore(1)

		if err := store.Allocate("empty", nil); err != nil {
			t.Fatalf("Failed to allocate nil payload: %v", err)
		}

		data, err := store.Access("empty")
		if err != nil {
			t.Fatalf("Failed to access page: %v", err)
		}
		if data == nil || len(data) != 0 {
			t.Errorf("Expected empty byte slice for nil payload, got %v", data)
		}
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		store := NewPageStore(3)
		store.Allocate("page_0", []byte("data_0"))

		recs := store.Snapshot()
		recs[0].ID = "mutated"
		recs[0].Data[0] = 'X'
		recs[0].AccessCount = 99

		fresh := store.Snapshot()
		if fresh[0].ID != "page_0" {
			t.Errorf("Snapshot mutation leaked into store: id %s", fresh[0].ID)
		}
		if !bytes.Equal(fresh[0].Data, []byte("data_0")) {
			t.Errorf("Snapshot mutation leaked into store: data %s", fresh[0].Data)
		}
		if fresh[0].AccessCount != 0 {
			t.Errorf("Snapshot mutation leaked into store: count %d", fresh[0].AccessCount)
		}
	})
}

// TestPageStoreStats tests the statistics functionality
func TestPageStoreStats(t *testing.T) {
	t.Run("stats tracking", func(t *testing.T) {
		store := NewPageStore(4)

		stats := store.Stats()
		if stats.Pages != 0 || stats.Bytes != 0 {
			t.Errorf("Initial stats should be zero, got pages=%d bytes=%d", stats.Pages, stats.Bytes)
		}
		if stats.Capacity != 4 {
			t.Errorf("Expected capacity 4, got %d", stats.Capacity)
		}

		store.Allocate("a", []byte("data_a"))  // 6 bytes
		store.Allocate("b", []byte("data_bb")) // 7 bytes

		stats = store.Stats()
		if stats.Pages != 2 {
			t.Errorf("Expected 2 pages, got %d", stats.Pages)
		}
		if stats.Bytes != 13 {
			t.Errorf("Expected 13 bytes, got %d", stats.Bytes)
		}
	})
}

// TestPageStoreConcurrency tests thread-safe concurrent access
func TestPageStoreConcurrency(t *testing.T) {
	t.Run("concurrent allocations respect capacity", func(t *testing.T) {
		store := NewPageStore(50)

		numGoroutines := 20
		numOps := 10

		var wg sync.WaitGroup
		wg.Add(numGoroutines)

		for i := 0; i < numGoroutines; i++ {
			go func(id int) {
				defer wg.Done()
				for j := 0; j < numOps; j++ {
					store.Allocate(fmt.Sprintf("page-%d-%d", id, j), []byte("data"))
				}
			}(i)
		}

		wg.Wait()

		// 200 attempts against capacity 50: exactly 50 must have landed
		if store.Len() != 50 {
			t.Errorf("Expected exactly 50 records, got %d", store.Len())
		}
	})

	t.Run("concurrent accesses count exactly", func(t *testing.T) {
		store := NewPageStore(1)
		store.Allocate("hot", []byte("data"))

		numReaders := 10
		numReads := 100

		var wg sync.WaitGroup
		wg.Add(numReaders)

		for i := 0; i < numReaders; i++ {
			go func() {
				defer wg.Done()
				for j := 0; j < numReads; j++ {
					if _, err := store.Access("hot"); err != nil {
						t.Errorf("Access failed: %v", err)
					}
				}
			}()
		}

		wg.Wait()

		recs := store.Snapshot()
		want := uint64(numReaders * numReads)
		if recs[0].AccessCount != want {
			t.Errorf("Expected access count %d, got %d", want, recs[0].AccessCount)
		}
	})
}

// TestStoreInterface verifies the Store interface contract
func TestStoreInterface(t *testing.T) {
	// This test ensures PageStore implements Store
	var _ Store = (*PageStore)(nil)

	var store Store = NewPageStore(2)

	if err := store.Allocate("iface", []byte("value")); err != nil {
		t.Fatalf("Interface Allocate failed: %v", err)
	}

	data, err := store.Access("iface")
	if err != nil {
		t.Fatalf("Interface Access failed: %v", err)
	}
	if !bytes.Equal(data, []byte("value")) {
		t.Error("Interface Access returned wrong value")
	}

	if store.Len() != 1 {
		t.Errorf("Interface Len returned %d, want 1", store.Len())
	}
}
