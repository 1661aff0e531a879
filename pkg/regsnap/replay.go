package regsnap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bwright86/RegistryTools/internal/restore"
	"github.com/bwright86/RegistryTools/pkg/types"
)

// Replay executes a restore transcript against the store, in emitted order.
// Later commands may reference keys created by earlier ones, so execution
// stops at the first failure; the number of commands executed so far is
// returned either way.
//
// Deleting a value that is already absent is a no-op: replaying a transcript
// twice converges instead of failing halfway.
func Replay(store types.Store, script io.Reader, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ops, err := restore.ParseScript(script)
	if err != nil {
		return 0, fmt.Errorf("failed to parse restore transcript: %w", err)
	}

	for i, op := range ops {
		switch op := op.(type) {
		case restore.OpSet:
			if err := store.EnsureKey(op.Path); err != nil {
				return i, fmt.Errorf("restore command %d: failed to ensure key %q: %w", i+1, op.Path, err)
			}
			if err := store.SetValue(op.Path, op.Name, op.Value); err != nil {
				return i, fmt.Errorf("restore command %d: failed to set %q\\%q: %w", i+1, op.Path, op.Name, err)
			}
			logger.Info("restored value", "key", op.Path, "name", op.Name)

		case restore.OpDelete:
			err := store.DeleteValue(op.Path, op.Name)
			if errors.Is(err, types.ErrNotFound) {
				logger.Debug("value already absent", "key", op.Path, "name", op.Name)
				continue
			}
			if err != nil {
				return i, fmt.Errorf("restore command %d: failed to delete %q\\%q: %w", i+1, op.Path, op.Name, err)
			}
			logger.Info("removed created value", "key", op.Path, "name", op.Name)

		default:
			return i, fmt.Errorf("restore command %d: unsupported operation %T", i+1, op)
		}
	}
	return len(ops), nil
}
