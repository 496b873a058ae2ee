package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pagemesh/internal/api"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Access a page on a running server and print its payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := api.NewClient(addr).AccessPage(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
