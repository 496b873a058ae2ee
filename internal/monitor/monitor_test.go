package monitor

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagemesh/internal/node"
)

// TestNewUtilizationMonitor verifies that a new monitor is properly
// initialized and ready to start.
func TestNewUtilizationMonitor(t *testing.T) {
	monitor := NewUtilizationMonitor(5 * time.Second)
	defer monitor.Stop()

	assert.NotNil(t, monitor)
	assert.Equal(t, 5*time.Second, monitor.interval)
	assert.NotNil(t, monitor.nodes)
	assert.NotNil(t, monitor.ctx)
	assert.NotNil(t, monitor.cancel)
	assert.Len(t, monitor.nodes, 0)
}

// TestMonitorTracksNodes verifies the monitor samples every node the
// provider reports.
func TestMonitorTracksNodes(t *testing.T) {
	monitor := NewUtilizationMonitor(50 * time.Millisecond)
	defer monitor.Stop()

	provider := func() []node.Info {
		return []node.Info{
			{ID: 0, Capacity: 4, Used: 1},
			{ID: 1, Capacity: 4, Used: 0},
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Start(ctx, provider)

	time.Sleep(100 * time.Millisecond)

	all := monitor.GetAllUtilization()
	assert.Len(t, all, 2)
	assert.Contains(t, all, 0)
	assert.Contains(t, all, 1)
	assert.Equal(t, "ok", all[0].Status)
	assert.Equal(t, "ok", all[1].Status)
	assert.False(t, monitor.IsFull(0))
	assert.False(t, monitor.IsFull(1))
}

// TestMonitorFullTransition verifies a node that fills is reported as
// full and the callback fires exactly once.
func TestMonitorFullTransition(t *testing.T) {
	monitor := NewUtilizationMonitor(50 * time.Millisecond)
	defer monitor.Stop()

	var mu sync.Mutex
	used := 1

	provider := func() []node.Info {
		mu.Lock()
		defer mu.Unlock()
		return []node.Info{{ID: 0, Capacity: 3, Used: used}}
	}

	var callbackMu sync.Mutex
	callbackCount := 0
	fullNode := -1
	monitor.SetOnFull(func(nodeID int) {
		callbackMu.Lock()
		callbackCount++
		fullNode = nodeID
		callbackMu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Start(ctx, provider)

	time.Sleep(100 * time.Millisecond)
	assert.False(t, monitor.IsFull(0))

	// Fill the node.
	mu.Lock()
	used = 3
	mu.Unlock()

	time.Sleep(150 * time.Millisecond)
	assert.True(t, monitor.IsFull(0))

	u := monitor.GetUtilization(0)
	require.NotNil(t, u)
	assert.Equal(t, "full", u.Status)
	assert.Equal(t, 3, u.Used)
	assert.Equal(t, 3, u.Capacity)

	callbackMu.Lock()
	assert.Equal(t, 1, callbackCount)
	assert.Equal(t, 0, fullNode)
	callbackMu.Unlock()

	// Several more samples while full must not re-fire the callback.
	time.Sleep(150 * time.Millisecond)
	callbackMu.Lock()
	assert.Equal(t, 1, callbackCount)
	callbackMu.Unlock()
}

// TestMonitorWarningStatus verifies the warning threshold reports
// without firing the full callback.
func TestMonitorWarningStatus(t *testing.T) {
	monitor := NewUtilizationMonitor(50 * time.Millisecond)
	defer monitor.Stop()

	provider := func() []node.Info {
		return []node.Info{{ID: 0, Capacity: 10, Used: 9}}
	}

	callbackCount := 0
	var callbackMu sync.Mutex
	monitor.SetOnFull(func(nodeID int) {
		callbackMu.Lock()
		callbackCount++
		callbackMu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Start(ctx, provider)

	time.Sleep(100 * time.Millisecond)

	u := monitor.GetUtilization(0)
	require.NotNil(t, u)
	assert.Equal(t, "warning", u.Status)
	assert.False(t, monitor.IsFull(0))

	callbackMu.Lock()
	assert.Equal(t, 0, callbackCount)
	callbackMu.Unlock()
}

// TestMonitorNodeRemoval verifies nodes the provider stops reporting
// are dropped from tracking.
func TestMonitorNodeRemoval(t *testing.T) {
	monitor := NewUtilizationMonitor(50 * time.Millisecond)
	defer monitor.Stop()

	var mu sync.Mutex
	infos := []node.Info{
		{ID: 0, Capacity: 4, Used: 1},
		{ID: 1, Capacity: 4, Used: 1},
	}

	provider := func() []node.Info {
		mu.Lock()
		defer mu.Unlock()
		return infos
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Start(ctx, provider)

	time.Sleep(100 * time.Millisecond)
	assert.Len(t, monitor.GetAllUtilization(), 2)

	mu.Lock()
	infos = infos[:1]
	mu.Unlock()

	time.Sleep(100 * time.Millisecond)

	all := monitor.GetAllUtilization()
	assert.Len(t, all, 1)
	assert.Contains(t, all, 0)
	assert.NotContains(t, all, 1)
}

// TestMonitorStop verifies graceful shutdown: no samples are taken
// after Stop returns.
func TestMonitorStop(t *testing.T) {
	monitor := NewUtilizationMonitor(50 * time.Millisecond)

	var mu sync.Mutex
	samples := 0

	provider := func() []node.Info {
		mu.Lock()
		samples++
		mu.Unlock()
		return []node.Info{{ID: 0, Capacity: 4, Used: 1}}
	}

	go monitor.Start(nil, provider) // use internal context

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	before := samples
	mu.Unlock()

	monitor.Stop()
	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	after := samples
	mu.Unlock()

	assert.Greater(t, before, 0)
	assert.Equal(t, before, after)
}

// TestMonitorConcurrency verifies readers are safe while sampling is
// running.
func TestMonitorConcurrency(t *testing.T) {
	monitor := NewUtilizationMonitor(10 * time.Millisecond)
	defer monitor.Stop()

	nodeCount := 5
	provider := func() []node.Info {
		infos := make([]node.Info, nodeCount)
		for i := 0; i < nodeCount; i++ {
			infos[i] = node.Info{ID: i, Capacity: 10, Used: i}
		}
		return infos
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Start(ctx, provider)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				monitor.IsFull(id % nodeCount)
				monitor.GetUtilization(id % nodeCount)
				monitor.GetAllUtilization()
				time.Sleep(time.Millisecond)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, monitor.GetAllUtilization(), nodeCount)
}

// TestGetUtilizationCopy verifies callers get copies, not references
// into the monitor's state, and that unknown nodes return nil.
func TestGetUtilizationCopy(t *testing.T) {
	monitor := NewUtilizationMonitor(50 * time.Millisecond)
	defer monitor.Stop()

	provider := func() []node.Info {
		return []node.Info{{ID: 0, Capacity: 4, Used: 2}}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Start(ctx, provider)

	time.Sleep(100 * time.Millisecond)

	u := monitor.GetUtilization(0)
	require.NotNil(t, u)
	u.Status = "mangled"
	u.Used = 99

	again := monitor.GetUtilization(0)
	require.NotNil(t, again)
	assert.NotEqual(t, "mangled", again.Status)
	assert.Equal(t, 2, again.Used)

	assert.Nil(t, monitor.GetUtilization(999))
}

// TestNodeUtilizationRatio covers the occupancy fraction helper.
func TestNodeUtilizationRatio(t *testing.T) {
	tests := []struct {
		name string
		used int
		cap  int
		want float64
	}{
		{name: "empty", used: 0, cap: 3, want: 0},
		{name: "half", used: 2, cap: 4, want: 0.5},
		{name: "full", used: 3, cap: 3, want: 1},
		{name: "zero capacity", used: 1, cap: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NodeUtilization{Used: tt.used, Capacity: tt.cap}
			assert.InDelta(t, tt.want, u.Ratio(), 1e-9)
		})
	}
}

// TestMonitorManyNodes verifies sampling scales past a handful of
// nodes without losing any.
func TestMonitorManyNodes(t *testing.T) {
	monitor := NewUtilizationMonitor(20 * time.Millisecond)
	defer monitor.Stop()

	provider := func() []node.Info {
		infos := make([]node.Info, 32)
		for i := range infos {
			infos[i] = node.Info{ID: i, Capacity: 8, Used: i % 9}
		}
		return infos
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Start(ctx, provider)

	time.Sleep(100 * time.Millisecond)

	all := monitor.GetAllUtilization()
	assert.Len(t, all, 32)
	assert.True(t, monitor.IsFull(8), "node 8 sits at 8/8")
	for _, id := range []int{0, 1, 7} {
		assert.False(t, monitor.IsFull(id), fmt.Sprintf("node %d is not full", id))
	}
}
