package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "callisto",
	Short: "Callisto - watch-item policy agent for sensitive filesystem paths",
	Long: `Callisto is an endpoint agent that watches sensitive filesystem paths
against a reloadable policy document.

It provides:
  - Longest-prefix path matching against literal and prefix policies
  - Atomic policy snapshots reloaded on a fixed cadence, fail-safe on errors
  - Allow-list based authorization of file events with audit-only mode
  - A local SQLite event log of denied and audited decisions
  - Prometheus metrics and an HTTP status endpoint`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
