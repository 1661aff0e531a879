package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <path> <name>",
		Short: "Read a single registry value",
		Long: `The get command reads one named value at the given key path.

Example:
  regctl get "HKCU:\Software\MyApp" "Description"
  regctl --store dev.yaml get "Software\MyApp" "Description"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
}

func runGet(args []string) error {
	keyPath := args[0]
	name := args[1]

	store, _, err := openStore()
	if err != nil {
		return err
	}

	p, err := store.Value(keyPath, name)
	if err != nil {
		return fmt.Errorf("failed to read value: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"path":  keyPath,
			"name":  name,
			"type":  p.Kind.String(),
			"value": p.String(),
		})
	}

	printInfo("%s (%s)\n", p, p.Kind)
	return nil
}
