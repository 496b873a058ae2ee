package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pagemesh/internal/cluster"
	"pagemesh/internal/ingest"
	"pagemesh/internal/report"
)

var (
	simNodes    int
	simCapacity int
	simPages    int
	simAccesses int
	simHash     string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a local allocation round and print the cluster report",
	Long: `simulate builds an in-process cluster, ingests a sequential batch of
pages (page_0, page_1, ...), sweeps the whole batch with accesses, and
prints the occupancy table, the access histogram, and cluster totals.
Pages that bounced off a full node fault during the sweep.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		hasher, err := cluster.HasherByName(simHash)
		if err != nil {
			return err
		}
		c, err := cluster.NewWithOptions(simNodes, simCapacity, hasher, 0)
		if err != nil {
			return err
		}

		batch := ingest.SequentialBatch(simPages)
		results := ingest.New(c).Ingest(batch)
		for _, res := range results {
			if res.Allocated() {
				fmt.Printf("page %s -> node %d\n", res.PageID, res.Node)
			} else {
				fmt.Printf("page %s rejected (%s)\n", res.PageID, res.Reason)
			}
		}

		for i := 0; i < simAccesses; i++ {
			for _, p := range batch {
				if _, err := c.Access(p.ID); err != nil && !errors.Is(err, cluster.ErrPageFault) {
					return err
				}
			}
		}

		snaps := c.Snapshot()
		fmt.Println()
		fmt.Print(report.RenderNodes(snaps))
		fmt.Println()
		fmt.Print(report.RenderHistogram(report.AccessHistogram(snaps)))
		fmt.Println()
		fmt.Println(report.RenderTotals(report.Aggregate(snaps)))
		return nil
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simNodes, "nodes", 3, "number of nodes")
	simulateCmd.Flags().IntVar(&simCapacity, "capacity", 3, "pages per node")
	simulateCmd.Flags().IntVar(&simPages, "pages", 10, "pages to ingest")
	simulateCmd.Flags().IntVar(&simAccesses, "accesses", 1, "access sweeps over the batch")
	simulateCmd.Flags().StringVar(&simHash, "hash", "murmur3", "placement hash (murmur3 or fnv)")
	rootCmd.AddCommand(simulateCmd)
}
