// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the rps-export CLI.
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

// rootCmd is the base command for the rps-export CLI.
var rootCmd = &cobra.Command{
	Use:   "rps-export",
	Short: "Export rock-paper-scissors experiment logs for analysis",
	Long: `rps-export flattens experiment-log records from the two-player
rock-paper-scissors game into flat CSV tables for offline statistical
analysis. One JSON document per session goes in; two CSV rows per round
(one per player) come out.

Each operation is a subcommand: export writes the CSV table, archive
ingests sessions into a SQLite database for ad-hoc SQL queries, and
schemas lists the supported experiment versions.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./rps-export.yaml or ~/.config/rps-export/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rps-export")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "rps-export"))
		}
	}

	viper.SetEnvPrefix("RPS_EXPORT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// flagOrConfig returns the flag value when set, falling back to the viper
// key from the config file or environment.
func flagOrConfig(cmd *cobra.Command, flag, key string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return viper.GetString(key)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
