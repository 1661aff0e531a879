package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bwright86/RegistryTools/pkg/types"
)

var (
	setType      string
	setCreateKey bool
)

func init() {
	cmd := newSetCmd()
	cmd.Flags().StringVarP(&setType, "type", "t", "string", "Value kind (string, dword, multi_sz)")
	cmd.Flags().BoolVar(&setCreateKey, "create-key", false, "Create the key if it doesn't exist")
	rootCmd.AddCommand(cmd)
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <path> <name> <value>...",
		Short: "Write a single registry value",
		Long: `The set command writes one named value at the given key path. For
multi_sz values, pass one argument per element.

Example:
  regctl set "HKCU:\Software\MyApp" "Description" "A test app"
  regctl set "HKCU:\Software\MyApp" "Retries" 5 --type dword
  regctl set "HKCU:\Software\MyApp" "Sources" a b c --type multi_sz
  regctl set "HKCU:\Software\NewApp" "Name" "Test" --create-key`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args)
		},
	}
}

// parsePayloadArgs builds a payload from the CLI value arguments per the
// requested kind.
func parsePayloadArgs(kindName string, values []string) (types.Payload, error) {
	kind, err := types.ParseValueKind(kindName)
	if err != nil {
		return types.Payload{}, err
	}

	switch kind {
	case types.KindString:
		if len(values) != 1 {
			return types.Payload{}, fmt.Errorf("string values take exactly one argument, got %d", len(values))
		}
		return types.StringValue(values[0]), nil
	case types.KindDWord:
		if len(values) != 1 {
			return types.Payload{}, fmt.Errorf("dword values take exactly one argument, got %d", len(values))
		}
		n, err := strconv.ParseUint(values[0], 0, 32)
		if err != nil {
			return types.Payload{}, fmt.Errorf("invalid dword value %q: %w", values[0], err)
		}
		return types.DWordValue(uint32(n)), nil
	default:
		return types.MultiStringValue(values...), nil
	}
}

func runSet(args []string) error {
	keyPath := args[0]
	name := args[1]

	payload, err := parsePayloadArgs(setType, args[2:])
	if err != nil {
		return fmt.Errorf("failed to parse value: %w", err)
	}

	store, save, err := openStore()
	if err != nil {
		return err
	}

	if setCreateKey {
		if err := store.EnsureKey(keyPath); err != nil {
			return fmt.Errorf("failed to create key: %w", err)
		}
	}
	if err := store.SetValue(keyPath, name, payload); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}
	if err := save(); err != nil {
		return fmt.Errorf("failed to persist store: %w", err)
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"path":    keyPath,
			"name":    name,
			"type":    payload.Kind.String(),
			"success": true,
		})
	}

	printInfo("Set %s\\%s = %s (%s)\n", keyPath, name, payload, payload.Kind)
	return nil
}
