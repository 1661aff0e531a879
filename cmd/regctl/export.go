package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bwright86/RegistryTools/internal/regexport"
)

var (
	exportPrefix   string
	exportEncoding string
	exportBOM      bool
)

func init() {
	cmd := newExportCmd()
	cmd.Flags().StringVar(&exportPrefix, "prefix", "", "Section-header prefix replacing the root path")
	cmd.Flags().StringVar(&exportEncoding, "encoding", "UTF-8", "Output encoding (UTF-8, UTF-16LE)")
	cmd.Flags().BoolVar(&exportBOM, "bom", false, "Prepend a byte-order mark (UTF-16LE only)")
	rootCmd.AddCommand(cmd)
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <root> <out.reg>",
		Short: "Export a subtree as regedit-compatible .reg text",
		Long: `The export command walks the subtree at <root> and writes it in the
"Windows Registry Editor Version 5.00" text format. Use --encoding
UTF-16LE --bom for a file byte-compatible with regedit.exe exports.

Example:
  regctl export "HKCU:\Software\MyApp" myapp.reg
  regctl export "HKCU:\Software\MyApp" myapp.reg --prefix "HKEY_CURRENT_USER\Software\MyApp"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args)
		},
	}
}

func runExport(args []string) error {
	rootPath := args[0]
	outPath := args[1]

	store, _, err := openStore()
	if err != nil {
		return err
	}

	data, err := regexport.Export(store, rootPath, regexport.Options{
		Prefix:   exportPrefix,
		Encoding: exportEncoding,
		WithBOM:  exportBOM,
	})
	if err != nil {
		return fmt.Errorf("failed to export %q: %w", rootPath, err)
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	printInfo("Exported %s to %s (%d bytes)\n", rootPath, outPath, len(data))
	return nil
}
