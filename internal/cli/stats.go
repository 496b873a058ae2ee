package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pagemesh/internal/api"
	"pagemesh/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print occupancy and the access histogram of a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := api.NewClient(addr).Stats(context.Background())
		if err != nil {
			return err
		}

		fmt.Print(report.RenderInfos(resp.Nodes))
		fmt.Println()
		fmt.Print(report.RenderHistogram(resp.Histogram))
		fmt.Println()
		fmt.Println(report.RenderTotals(resp.Totals))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
