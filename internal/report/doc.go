// Package report derives human-readable and wire-ready views from
// cluster snapshots: per-node occupancy, cluster totals, and the access
// histogram.
//
// # Overview
//
// Everything in this package is a pure function over the node
// snapshots the cluster hands out. Nothing here locks, counts, or
// mutates; the snapshot is already a consistent deep copy, so reports
// can be computed at any time without disturbing the store.
//
// The access histogram is the centerpiece. Records are grouped by page
// identifier, access counts are summed across records, and the result
// is sorted ascending by count with identifier ties broken
// alphabetically:
//
//	PAGE      ACCESSES
//	page_3    0
//	page_7    2    ##
//	page_1    5    #####
//
// # See Also
//
// Related packages:
//   - internal/cluster: produces the snapshots consumed here
//   - internal/server: serializes the same aggregates on /stats
package report
