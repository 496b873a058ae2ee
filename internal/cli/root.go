// Package cli implements the pagemesh command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var addr string

var rootCmd = &cobra.Command{
	Use:   "pagemesh",
	Short: "pagemesh - sharded page store",
	Long: `pagemesh runs a cluster of capacity-bounded page nodes with
deterministic hash placement, per-page access accounting, and an
explicit page fault outcome for data that was never stored.`,
}

// Execute runs the root command and exits nonzero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "http://localhost:8080",
		"base URL of a running pagemesh server")
}
