package types

// -----------------------------------------------------------------------------
// Store (registry backend seam)
// -----------------------------------------------------------------------------

// Store is the narrow view of a hierarchical registry the snapshot engine
// consumes. Paths are backslash-separated and relative to the store root;
// the empty path addresses the root key itself. Lookups are case-insensitive,
// matching registry semantics.
//
// Implementations: internal/winreg (live Windows registry over x/sys),
// internal/yamlstore (file-backed, cross-platform).
type Store interface {
	// Stat resolves a key path. Returns ErrNotFound for a missing key and
	// ErrNotAKey when the locator addresses something that can never be a
	// key on this backend (bad drive prefix, value path, ...).
	Stat(path string) (NodeInfo, error)

	// Values returns all named values attached to the key.
	Values(path string) (map[string]Payload, error)

	// Children returns direct child key names in the backend's enumeration
	// order, which is not necessarily sorted.
	Children(path string) ([]string, error)

	// Value reads one named value. Absence of either the key or the value
	// reports ErrNotFound.
	Value(path, name string) (Payload, error)

	// SetValue writes a named value, replacing any previous payload.
	// The key must already exist; callers run EnsureKey first.
	SetValue(path, name string, p Payload) error

	// DeleteValue removes a named value. Returns ErrNotFound if absent.
	DeleteValue(path, name string) error

	// EnsureKey idempotently creates the key and any missing ancestors.
	EnsureKey(path string) error
}

// -----------------------------------------------------------------------------
// Confirmation (interactive seam)
// -----------------------------------------------------------------------------

// PromptKind distinguishes the three confirmation questions the engine asks.
type PromptKind int

const (
	PromptCreate   PromptKind = iota // value does not exist; create it?
	PromptUpdate                     // value differs; overwrite it?
	PromptContinue                   // a write was denied; continue the run?
)

// String implements the Stringer interface for PromptKind.
func (k PromptKind) String() string {
	switch k {
	case PromptCreate:
		return "create"
	case PromptUpdate:
		return "update"
	case PromptContinue:
		return "continue"
	default:
		return "unknown"
	}
}

// StickyChoice is the batch-approval state for one prompt kind. The engine
// owns one StickyChoice per kind and checks it before prompting; a Confirmer
// sets a flag when the user answers "all" or "none". At most one flag is set.
type StickyChoice struct {
	YesToAll bool
	NoToAll  bool
}

// Confirmer asks the user a yes/no question. When sticky is non-nil the
// implementation may record an "apply to all / none" answer in it; when nil,
// only a plain yes/no is offered. The call blocks until answered.
type Confirmer interface {
	Confirm(kind PromptKind, message string, sticky *StickyChoice) bool
}

// -----------------------------------------------------------------------------
// Restore transcript (append-only sink)
// -----------------------------------------------------------------------------

// RestoreWriter receives inverse commands one line at a time, in the order
// the corresponding changes were applied. Implementations must make each
// appended line durable before returning, so a run aborted partway still
// leaves a valid partial transcript.
type RestoreWriter interface {
	Append(line string) error
}
