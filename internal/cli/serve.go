package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pagemesh/internal/config"
	"pagemesh/internal/monitor"
	"pagemesh/internal/server"
)

var (
	configPath      string
	monitorInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the page store HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		c, err := cfg.NewCluster()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if monitorInterval > 0 {
			mon := monitor.NewUtilizationMonitor(monitorInterval)
			mon.SetOnFull(func(nodeID int) {
				log.Printf("node %d reached capacity, pages routed to it will be rejected", nodeID)
			})
			go mon.Start(ctx, c.Nodes)
			defer mon.Stop()
		}

		return server.New(c).ListenAndServe(ctx, cfg.Addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "",
		"path to YAML config file (default "+config.DefaultPath+" if present)")
	serveCmd.Flags().DurationVar(&monitorInterval, "monitor-interval", 10*time.Second,
		"utilization sampling interval, 0 disables the monitor")
	rootCmd.AddCommand(serveCmd)
}
