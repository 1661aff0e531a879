package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bwright86/RegistryTools/internal/prompt"
	"github.com/bwright86/RegistryTools/internal/restore"
	"github.com/bwright86/RegistryTools/pkg/regsnap"
	"github.com/bwright86/RegistryTools/pkg/types"
)

var (
	applyForce  bool
	applyBackup string
)

func init() {
	cmd := newApplyCmd()
	cmd.Flags().BoolVarP(&applyForce, "force", "f", false, "Apply every create and update without prompting")
	cmd.Flags().StringVarP(&applyBackup, "backup", "b", "", "Restore transcript path (default <snapshot>.restore)")
	rootCmd.AddCommand(cmd)
}

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <snapshot.yaml>",
		Short: "Apply an edited snapshot back to the registry",
		Long: `The apply command re-reads the live value behind every entry of the
snapshot and applies the ones that differ. Creates and updates are
confirmed per value (answer "a" to approve all of a kind, "q" to skip
the rest of a kind); every applied change appends its inverse command
to the restore transcript.

Example:
  regctl apply myapp.yaml
  regctl apply myapp.yaml --force --backup myapp.restore`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(args)
		},
	}
}

func deriveBackupPath(snapshotPath string) string {
	base := strings.TrimSuffix(snapshotPath, ".yaml")
	return base + ".restore"
}

func runApply(args []string) error {
	snapshotPath := args[0]
	backupPath := applyBackup
	if backupPath == "" {
		backupPath = deriveBackupPath(snapshotPath)
	}

	store, save, err := openStore()
	if err != nil {
		return err
	}

	flat, err := regsnap.LoadSnapshot(snapshotPath, slog.Default())
	if err != nil {
		return err
	}

	writer, err := restore.NewWriter(backupPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	opts := regsnap.ApplyOptions{
		ForceAll: applyForce,
		Restore:  writer,
		Logger:   slog.Default(),
	}
	if !applyForce {
		opts.Confirm = prompt.New(os.Stdin, os.Stdout)
	}

	result, applyErr := regsnap.Apply(store, flat, opts)

	// Persist whatever was committed, even on an aborted run.
	if result != nil && result.Applied > 0 {
		if err := save(); err != nil {
			return fmt.Errorf("failed to persist store: %w", err)
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, types.ErrAborted) {
			printInfo("Run aborted; %d change(s) already applied are recorded in %s\n",
				result.Applied, backupPath)
		}
		return applyErr
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"snapshot": snapshotPath,
			"applied":  result.Applied,
			"restore":  backupPath,
			"records":  summarize(result),
		})
	}

	printInfo("Applied %d change(s) from %s\n", result.Applied, snapshotPath)
	for status, n := range summarize(result) {
		printInfo("  %-9s %d\n", status, n)
	}
	if result.Applied > 0 {
		printInfo("Restore transcript: %s\n", backupPath)
	}
	return nil
}

func summarize(result *regsnap.ApplyResult) map[string]int {
	counts := make(map[string]int)
	for _, rec := range result.Records {
		counts[rec.Status.String()]++
	}
	return counts
}
