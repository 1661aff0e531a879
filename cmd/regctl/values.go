package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newValuesCmd())
}

func newValuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "values <path>",
		Short: "List the values of a registry key",
		Long: `The values command lists every value attached to the given key.

Example:
  regctl values "HKCU:\Software\MyApp"
  regctl --store dev.yaml values "Software\MyApp"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValues(args)
		},
	}
}

func runValues(args []string) error {
	keyPath := args[0]

	store, _, err := openStore()
	if err != nil {
		return err
	}

	values, err := store.Values(keyPath)
	if err != nil {
		return fmt.Errorf("failed to list values: %w", err)
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	if jsonOut {
		rows := make([]map[string]string, 0, len(names))
		for _, name := range names {
			p := values[name]
			rows = append(rows, map[string]string{
				"name":  name,
				"type":  p.Kind.String(),
				"value": p.String(),
			})
		}
		return printJSON(map[string]interface{}{"path": keyPath, "values": rows})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Type", "Value"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, name := range names {
		p := values[name]
		table.Append([]string{name, p.Kind.String(), p.String()})
	}
	table.Render()
	return nil
}
