// Copyright Redwood Labs, 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/redwoodlabs/convertapi-cli/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the local conversion history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent conversions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		jobs, err := store.List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Println("No conversions recorded.")
			return nil
		}
		for _, j := range jobs {
			line := fmt.Sprintf("%s  %s -> %s  [%s]  %d input(s), %d output(s)",
				j.CreatedAt.Local().Format(time.DateTime), j.From, j.To, j.Status,
				len(j.Inputs), len(j.Outputs))
			if j.Error != "" {
				line += "  " + j.Error
			}
			fmt.Println(line)
		}
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the conversion history to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "yaml":
			return store.ExportYAML(cmd.Context(), os.Stdout)
		case "json":
			return store.ExportJSON(cmd.Context(), os.Stdout)
		}
		return fmt.Errorf("unknown export format %q (want yaml or json)", format)
	},
}

// openHistory opens the per-user history database.
func openHistory() (*history.Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolving user config dir: %w", err)
	}
	return history.NewStore(filepath.Join(dir, "convertapi-cli", "history.db"))
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of entries to list")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
