package regsnap

import (
	"log/slog"

	"github.com/bwright86/RegistryTools/pkg/types"
)

// Default traversal bounds, overridable per call and via regctl config.
const (
	DefaultMaxDepth    = 5
	DefaultMaxChildren = 25
)

// FlattenOptions bounds the traversal.
type FlattenOptions struct {
	// MaxDepth limits descent below the root. 0 reads only the root's own
	// values. Negative selects DefaultMaxDepth.
	MaxDepth int

	// MaxChildren caps the children visited per key. A key with more
	// children is truncated with a warning, not an error. Zero or negative
	// selects DefaultMaxChildren.
	MaxChildren int

	// Logger receives truncation warnings and traversal diagnostics.
	// Nil selects slog.Default().
	Logger *slog.Logger
}

func (o FlattenOptions) withDefaults() FlattenOptions {
	if o.MaxDepth < 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxChildren < 1 {
		o.MaxChildren = DefaultMaxChildren
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// ApplyOptions configures an apply run.
type ApplyOptions struct {
	// ForceAll seeds both the create and the update confirmation state to
	// yes-to-all, so the whole run proceeds without prompting.
	ForceAll bool

	// Confirm answers the create/update/continue questions. Nil declines
	// everything not already covered by ForceAll, which makes a
	// non-interactive run without --force a dry inspection.
	Confirm types.Confirmer

	// Restore receives one inverse command per applied change, incrementally.
	// Nil discards the transcript (the commands are still returned in the
	// result).
	Restore types.RestoreWriter

	// Logger receives per-key decisions. Nil selects slog.Default().
	Logger *slog.Logger
}

func (o ApplyOptions) withDefaults() ApplyOptions {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
