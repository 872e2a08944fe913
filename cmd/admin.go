package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nmtun/raune/internal/worker"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print admin dashboard statistics as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, conn, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		stats, err := app.Dashboard.Stats(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	},
}

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Apply pending buffer logs to the summary cache once",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, conn, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer conn.Close()

		w := worker.NewCheckpointWorker(app.Repos.Buffer, app.Restaurants, cfg.Worker.BatchSize, cfg.Worker.Interval, logger)
		n, err := w.ProcessCheckpoint(cmd.Context())
		if err != nil {
			return err
		}
		pending, err := app.Repos.Buffer.PendingCount(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("committed %d logs, %d pending\n", n, pending)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd, checkpointCmd)
}
