package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pagemesh/internal/api"
)

var putCmd = &cobra.Command{
	Use:   "put <id> <data>",
	Short: "Allocate a page on a running server",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := api.NewClient(addr).AllocatePage(context.Background(), args[0], []byte(args[1]))
		if err != nil {
			return err
		}
		if !res.Allocated() {
			return fmt.Errorf("page %s not allocated: node %d is full", res.PageID, res.Node)
		}

		fmt.Printf("page %s allocated on node %d\n", res.PageID, res.Node)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
}
