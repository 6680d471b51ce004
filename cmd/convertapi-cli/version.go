// Copyright Redwood Labs, 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of convertapi-cli",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("convertapi-cli %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
