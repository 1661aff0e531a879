package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bwright86/RegistryTools/pkg/regsnap"
)

func init() {
	rootCmd.AddCommand(newRestoreCmd())
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <transcript>",
		Short: "Replay a restore transcript, undoing a previous apply",
		Long: `The restore command executes the transcript written by "regctl apply",
in order: updated values are set back to their prior payloads and created
values are removed. Replaying the same transcript twice is safe.

Example:
  regctl restore myapp.restore`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(args)
		},
	}
}

func runRestore(args []string) error {
	transcriptPath := args[0]

	store, save, err := openStore()
	if err != nil {
		return err
	}

	f, err := os.Open(transcriptPath)
	if err != nil {
		return fmt.Errorf("failed to open restore transcript: %w", err)
	}
	defer f.Close()

	executed, replayErr := regsnap.Replay(store, f, slog.Default())
	if executed > 0 {
		if err := save(); err != nil {
			return fmt.Errorf("failed to persist store: %w", err)
		}
	}
	if replayErr != nil {
		return replayErr
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"transcript": transcriptPath,
			"executed":   executed,
		})
	}

	printInfo("Executed %d restore command(s) from %s\n", executed, transcriptPath)
	return nil
}
