package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDeleteValueCmd())
}

func newDeleteValueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-value <path> <name>",
		Short: "Remove a single registry value",
		Long: `The delete-value command removes one named value from the given key.

Example:
  regctl delete-value "HKCU:\Software\MyApp" "OldSetting"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteValue(args)
		},
	}
}

func runDeleteValue(args []string) error {
	keyPath := args[0]
	name := args[1]

	store, save, err := openStore()
	if err != nil {
		return err
	}

	if err := store.DeleteValue(keyPath, name); err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}
	if err := save(); err != nil {
		return fmt.Errorf("failed to persist store: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"path":    keyPath,
			"name":    name,
			"deleted": true,
		})
	}

	printInfo("Deleted %s\\%s\n", keyPath, name)
	return nil
}
