// Package monitor provides periodic utilization monitoring for the
// storage nodes of a running cluster.
package monitor

import (
	"context"
	"log"
	"sync"
	"time"

	"pagemesh/internal/node"
)

// WarnUtilization is the occupancy ratio at which a node is reported
// as "warning" before it actually fills.
const WarnUtilization = 0.8

// NodeUtilization tracks the observed occupancy of a single node.
// Thread-safe: protected by UtilizationMonitor's mutex when accessed.
type NodeUtilization struct {
	LastCheck time.Time // Timestamp of the last utilization sample
	NodeID    int       // Index of the node in the cluster
	Used      int       // Records stored at the last sample
	Capacity  int       // Record capacity of the node
	Status    string    // Current status: "ok", "warning", "full"
}

// Ratio returns used capacity as a fraction between 0 and 1.
func (u *NodeUtilization) Ratio() float64 {
	if u.Capacity <= 0 {
		return 0
	}
	return float64(u.Used) / float64(u.Capacity)
}

// UtilizationMonitor samples node occupancy on a fixed interval and
// reports nodes that cross the warning and full thresholds. Pages are
// never evicted, so a node that fills stays full; the OnFull callback
// fires once per node, on the transition.
// Thread-safe: all methods are safe for concurrent access.
type UtilizationMonitor struct {
	nodes    map[int]*NodeUtilization // Last observed utilization per node
	onFull   func(nodeID int)         // Callback when a node fills
	ctx      context.Context          // Context for cancellation
	cancel   context.CancelFunc       // Cancel function for shutdown
	interval time.Duration            // How often to sample occupancy
	mu       sync.RWMutex             // Protects nodes map
	wg       sync.WaitGroup           // Wait group for graceful shutdown
}

// NewUtilizationMonitor creates a monitor that samples every interval.
//
// Example:
//
//	monitor := NewUtilizationMonitor(10 * time.Second)
//	go monitor.Start(ctx, clust.Nodes)
func NewUtilizationMonitor(interval time.Duration) *UtilizationMonitor {
	ctx, cancel := context.WithCancel(context.Background())

	return &UtilizationMonitor{
		interval: interval,
		nodes:    make(map[int]*NodeUtilization),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetOnFull sets the callback invoked when a node transitions to full.
// The callback runs on its own goroutine and fires at most once per
// node.
func (m *UtilizationMonitor) SetOnFull(callback func(nodeID int)) {
	m.onFull = callback
}

// Start begins sampling in the current goroutine using the node
// information returned by provider. It blocks until the context is
// canceled or Stop is called.
//
// Example:
//
//	go monitor.Start(ctx, func() []node.Info {
//	    return clust.Nodes()
//	})
func (m *UtilizationMonitor) Start(ctx context.Context, provider func() []node.Info) {
	m.wg.Add(1)
	defer m.wg.Done()

	// Use the provided context or fall back to internal
	if ctx == nil {
		ctx = m.ctx
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	log.Printf("Utilization monitor started with interval %v", m.interval)

	// Take an initial sample immediately
	m.sampleAll(provider())

	for {
		select {
		case <-ticker.C:
			m.sampleAll(provider())
		case <-ctx.Done():
			log.Println("Utilization monitor stopping due to context cancellation")
			return
		case <-m.ctx.Done():
			log.Println("Utilization monitor stopping due to internal cancellation")
			return
		}
	}
}

// Stop gracefully shuts down the monitor and waits for the sampling
// goroutine to finish.
func (m *UtilizationMonitor) Stop() {
	m.cancel()
	m.wg.Wait()
	log.Println("Utilization monitor stopped")
}

// sampleAll records a utilization sample for every provided node and
// drops tracking for nodes the provider no longer reports.
func (m *UtilizationMonitor) sampleAll(infos []node.Info) {
	current := make(map[int]bool)

	for _, info := range infos {
		current[info.ID] = true
		m.sampleNode(info)
	}

	m.mu.Lock()
	for id := range m.nodes {
		if !current[id] {
			delete(m.nodes, id)
			log.Printf("Removed node %d from utilization monitoring", id)
		}
	}
	m.mu.Unlock()
}

// sampleNode updates one node's utilization record and fires the full
// callback on the not-full to full transition.
func (m *UtilizationMonitor) sampleNode(info node.Info) {
	m.mu.Lock()
	u, exists := m.nodes[info.ID]
	if !exists {
		u = &NodeUtilization{NodeID: info.ID, Status: "ok"}
		m.nodes[info.ID] = u
	}

	previous := u.Status
	u.LastCheck = time.Now()
	u.Used = info.Used
	u.Capacity = info.Capacity

	switch {
	case info.Capacity > 0 && info.Used >= info.Capacity:
		u.Status = "full"
	case info.Capacity > 0 && float64(info.Used) >= WarnUtilization*float64(info.Capacity):
		u.Status = "warning"
	default:
		u.Status = "ok"
	}

	status := u.Status
	m.mu.Unlock()

	if status != previous {
		log.Printf("Node %d utilization now %s (%d/%d pages)", info.ID, status, info.Used, info.Capacity)
	}
	if status == "full" && previous != "full" && m.onFull != nil {
		// Call the callback without holding the lock
		go m.onFull(info.ID)
	}
}

// GetUtilization returns a copy of the current utilization record for
// a node, or nil if the node is not being monitored.
func (m *UtilizationMonitor) GetUtilization(nodeID int) *NodeUtilization {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, exists := m.nodes[nodeID]
	if !exists {
		return nil
	}

	// Return a copy to prevent external modification
	c := *u
	return &c
}

// GetAllUtilization returns a copy of every monitored node's current
// utilization, keyed by node index.
func (m *UtilizationMonitor) GetAllUtilization() map[int]*NodeUtilization {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[int]*NodeUtilization, len(m.nodes))
	for id, u := range m.nodes {
		c := *u
		result[id] = &c
	}
	return result
}

// IsFull reports whether a node was at capacity on its last sample.
// Returns false for nodes that are not being monitored.
func (m *UtilizationMonitor) IsFull(nodeID int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, exists := m.nodes[nodeID]
	if !exists {
		return false
	}
	return u.Status == "full"
}
