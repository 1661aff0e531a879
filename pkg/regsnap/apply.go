package regsnap

import (
	"errors"
	"fmt"

	"github.com/bwright86/RegistryTools/internal/restore"
	"github.com/bwright86/RegistryTools/pkg/types"
)

// Apply replays a (possibly caller-mutated) FlatObject into the live store.
//
// Every data FlatKey is processed independently, in sorted order: the live
// value is re-read, and the entry becomes a create (value absent), an update
// (value differs element-wise) or unchanged. Creates and updates each go
// through their own sticky confirmation state; once confirmed, the target key
// is ensured to exist, the value is written, and the inverse command is
// appended to opts.Restore before the next key is processed.
//
// A permission-denied write asks one more question: continue despite the
// failure? Declining aborts the run with ErrAborted; the restore commands
// accumulated so far remain valid. Any other write failure aborts without
// asking. In both cases the partial ApplyResult is returned alongside the
// error.
func Apply(store types.Store, flat *FlatObject, opts ApplyOptions) (*ApplyResult, error) {
	opts = opts.withDefaults()

	var createState, updateState types.StickyChoice
	if opts.ForceAll {
		createState.YesToAll = true
		updateState.YesToAll = true
	}

	result := &ApplyResult{}
	for _, key := range flat.SortedKeys() {
		want := flat.Entries[key]
		rel, name := splitFlatKey(key)
		keyPath := joinPath(flat.Root.Path, rel)

		current, err := store.Value(keyPath, name)
		switch {
		case errors.Is(err, types.ErrNotFound):
			// Case A: value does not exist; propose a create.
			if !confirm(opts, types.PromptCreate, &createState,
				fmt.Sprintf("Create %q = %s?", key, want)) {
				opts.Logger.Debug("create declined", "key", key)
				result.Records = append(result.Records, ChangeRecord{Key: key, Status: StatusSkipped})
				continue
			}
			line := restore.FormatDelete(keyPath, name)
			rec, err := writeValue(store, opts, result, key, keyPath, name, want, line, StatusCreated)
			result.Records = append(result.Records, rec)
			if err != nil {
				return result, err
			}

		case err != nil:
			return result, fmt.Errorf("failed to read live value for %q: %w", key, err)

		case current.Equal(want):
			// Case B: element-wise equal; nothing to do, nothing to restore.
			result.Records = append(result.Records, ChangeRecord{Key: key, Status: StatusUnchanged})

		default:
			// Case C: exists and differs; propose an update. The restore
			// command reinstates the value read before the write.
			if !confirm(opts, types.PromptUpdate, &updateState,
				fmt.Sprintf("Update %q from %s to %s?", key, current, want)) {
				opts.Logger.Debug("update declined", "key", key)
				result.Records = append(result.Records, ChangeRecord{Key: key, Status: StatusSkipped})
				continue
			}
			line := restore.FormatSet(keyPath, name, current)
			rec, err := writeValue(store, opts, result, key, keyPath, name, want, line, StatusUpdated)
			result.Records = append(result.Records, rec)
			if err != nil {
				return result, err
			}
		}
	}
	return result, nil
}

// confirm consults the sticky state before asking. An explicit answer may
// set YesToAll/NoToAll inside the Confirmer, covering later keys.
func confirm(opts ApplyOptions, kind types.PromptKind, sticky *types.StickyChoice, message string) bool {
	if sticky.YesToAll {
		return true
	}
	if sticky.NoToAll {
		return false
	}
	if opts.Confirm == nil {
		return false
	}
	return opts.Confirm.Confirm(kind, message, sticky)
}

// writeValue performs the confirmed change: ensure the key exists, write the
// value, then append the precomputed inverse command. The transcript line is
// appended only after the write succeeds, so the transcript never contains
// an inverse for a change that was not committed.
func writeValue(store types.Store, opts ApplyOptions, result *ApplyResult,
	key, keyPath, name string, want types.Payload, restoreLine string, status ChangeStatus,
) (ChangeRecord, error) {
	err := store.EnsureKey(keyPath)
	if err == nil {
		err = store.SetValue(keyPath, name, want)
	}
	if err != nil {
		if errors.Is(err, types.ErrPermissionDenied) {
			opts.Logger.Warn("write denied", "key", key, "error", err)
			msg := fmt.Sprintf("Permission denied writing %q. Continue with remaining values?", key)
			if opts.Confirm != nil && opts.Confirm.Confirm(types.PromptContinue, msg, nil) {
				return ChangeRecord{Key: key, Status: StatusFailed, Err: err}, nil
			}
			return ChangeRecord{Key: key, Status: StatusFailed, Err: err},
				&types.Error{Kind: types.ErrKindState, Msg: "apply run aborted at " + key, Err: err}
		}
		return ChangeRecord{Key: key, Status: StatusFailed, Err: err},
			fmt.Errorf("failed to write %q: %w", key, err)
	}

	if opts.Restore != nil {
		if err := opts.Restore.Append(restoreLine); err != nil {
			// The change is committed but its inverse could not be recorded;
			// reversibility is broken, stop the run.
			return ChangeRecord{Key: key, Status: status, Restore: restoreLine, Err: err},
				fmt.Errorf("failed to record restore command for %q: %w", key, err)
		}
	}
	result.Restore = append(result.Restore, restoreLine)
	result.Applied++
	opts.Logger.Info("value written", "key", key, "status", status.String())
	return ChangeRecord{Key: key, Status: status, Restore: restoreLine}, nil
}
