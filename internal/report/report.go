package report

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"golang.org/x/exp/slices"

	"pagemesh/internal/cluster"
	"pagemesh/internal/node"
)

// Entry is one row of the access histogram: a page identifier and the
// summed access count of every record stored under it.
type Entry struct {
	PageID   string `json:"page_id"`
	Accesses uint64 `json:"access_count"`
}

// Totals aggregates cluster-wide occupancy and operation counters.
type Totals struct {
	Nodes       int    `json:"nodes"`
	Pages       int    `json:"pages"`
	Capacity    int    `json:"capacity"`
	Bytes       int    `json:"bytes"`
	Allocations uint64 `json:"allocations"`
	Rejections  uint64 `json:"rejections"`
	Hits        uint64 `json:"hits"`
	Faults      uint64 `json:"faults"`
}

// AccessHistogram groups every stored record by page identifier and
// sums the access counts, a group-by over the cluster's contents.
// Entries come back sorted by ascending access count, ties broken by
// identifier, so the least touched pages list first and the hottest
// pages land at the bottom of a rendered report.
func AccessHistogram(snaps []cluster.NodeSnapshot) []Entry {
	byID := make(map[string]uint64)
	for _, snap := range snaps {
		for _, rec := range snap.Records {
			byID[rec.ID] += rec.AccessCount
		}
	}

	entries := make([]Entry, 0, len(byID))
	for id, n := range byID {
		entries = append(entries, Entry{PageID: id, Accesses: n})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		switch {
		case a.Accesses < b.Accesses:
			return -1
		case a.Accesses > b.Accesses:
			return 1
		default:
			return strings.Compare(a.PageID, b.PageID)
		}
	})
	return entries
}

// Aggregate sums occupancy and operation counters across all nodes.
func Aggregate(snaps []cluster.NodeSnapshot) Totals {
	t := Totals{Nodes: len(snaps)}
	for _, snap := range snaps {
		t.Pages += snap.Info.Used
		t.Capacity += snap.Info.Capacity
		for _, rec := range snap.Records {
			t.Bytes += len(rec.Data)
		}
		t.Allocations += snap.Ops.Allocations
		t.Rejections += snap.Ops.Rejections
		t.Hits += snap.Ops.Hits
		t.Faults += snap.Ops.Faults
	}
	return t
}

// RenderNodes formats per-node occupancy as an aligned text table, one
// row per node in node-index order.
func RenderNodes(snaps []cluster.NodeSnapshot) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "NODE\tUSED\tCAP\tUTIL\tPAGES")
	for _, snap := range snaps {
		util := 0.0
		if snap.Info.Capacity > 0 {
			util = float64(snap.Info.Used) / float64(snap.Info.Capacity) * 100
		}
		ids := make([]string, len(snap.Records))
		for i, rec := range snap.Records {
			ids[i] = rec.ID
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%.0f%%\t%s\n",
			snap.Info.ID, snap.Info.Used, snap.Info.Capacity, util, strings.Join(ids, " "))
	}
	w.Flush()
	return b.String()
}

// RenderInfos formats occupancy rows without page listings, for
// callers that only hold node infos, such as remote stats output.
func RenderInfos(infos []node.Info) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "NODE\tUSED\tCAP\tUTIL")
	for _, info := range infos {
		util := 0.0
		if info.Capacity > 0 {
			util = float64(info.Used) / float64(info.Capacity) * 100
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%.0f%%\n", info.ID, info.Used, info.Capacity, util)
	}
	w.Flush()
	return b.String()
}

// maxBarWidth bounds histogram bars so a hot page cannot wrap the
// terminal.
const maxBarWidth = 40

// RenderHistogram formats histogram entries with proportional hash
// bars. Entries render in the order given; pass the output of
// AccessHistogram for the ascending layout.
func RenderHistogram(entries []Entry) string {
	if len(entries) == 0 {
		return "no pages stored\n"
	}

	var max uint64
	for _, e := range entries {
		if e.Accesses > max {
			max = e.Accesses
		}
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PAGE\tACCESSES\t")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\t%s\n", e.PageID, e.Accesses, strings.Repeat("#", barLen(e.Accesses, max)))
	}
	w.Flush()
	return b.String()
}

// RenderTotals formats cluster totals as a single line suitable for
// logs and the simulate summary.
func RenderTotals(t Totals) string {
	return fmt.Sprintf("%d nodes, %d/%d pages, %d bytes; allocations=%d rejections=%d hits=%d faults=%d",
		t.Nodes, t.Pages, t.Capacity, t.Bytes, t.Allocations, t.Rejections, t.Hits, t.Faults)
}

// barLen scales a count into a bar of at most maxBarWidth characters.
// Counts render one-to-one while the largest count fits.
func barLen(n, max uint64) int {
	if max == 0 {
		return 0
	}
	if max <= maxBarWidth {
		return int(n)
	}
	return int(n * maxBarWidth / max)
}
