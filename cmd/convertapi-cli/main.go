// Copyright Redwood Labs, 2026. All rights reserved.

// Package main is the entry point for the convertapi-cli command.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for convertapi-cli.
var rootCmd = &cobra.Command{
	Use:   "convertapi-cli",
	Short: "Convert documents through the ConvertAPI service",
	Long: `convertapi-cli uploads local files and remote URLs to the ConvertAPI
document-conversion service and saves the resulting files to disk.

The request shape (raw upload, single-URL query, or multipart) is picked
automatically from the inputs; see "convert --help" for overrides.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./convertapi-cli.yaml or ~/.config/convertapi-cli/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("convertapi-cli")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "convertapi-cli"))
		}
	}

	viper.SetEnvPrefix("CONVERTAPI")
	viper.AutomaticEnv()

	viper.SetDefault("base_url", "https://v2.convertapi.com")
	viper.SetDefault("timeout", "60s")
	viper.SetDefault("user_agent", "convertapi-cli/"+version)
	viper.SetDefault("output_dir", ".")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
