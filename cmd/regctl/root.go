package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	jsonOut   bool
	storePath string
)

var rootCmd = &cobra.Command{
	Use:   "regctl",
	Short: "Snapshot, edit and replay registry subtrees",
	Long: `regctl flattens a registry subtree into an editable snapshot file,
applies edited snapshots back to the live registry with per-value
confirmation, and records a restore transcript that undoes every change
it commits.

On Windows it talks to the live registry (HKCU:\..., HKLM:\...). On any
platform, --store <file> targets a YAML-backed store instead, which is
useful for staging and testing changes.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogger(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVar(&storePath, "store", "", "Operate on a YAML store file instead of the live registry")
	bindFlagToConfig(rootCmd.PersistentFlags().Lookup("store"), storeFileKey)
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
