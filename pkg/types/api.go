package types

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindNotFound    ErrKind = iota // missing key/value/path
	ErrKindInvalidArg                 // locator resolves, but not to a registry key
	ErrKindPermission                 // write denied by the store (recoverable via prompt)
	ErrKindWrite                      // any other write failure (run-fatal)
	ErrKindState                      // invalid operation for current state (e.g. aborted run)
	ErrKindUnsupported                // valid request the backend can't serve on this platform
)

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so errors.Is(err, ErrNotFound) matches any wrapped
// Error of the same kind, not just the sentinel pointer.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels commonly returned by implementations.
var (
	// ErrNotFound indicates a missing key/value/path.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrNotAKey indicates the locator addresses something other than a registry key.
	ErrNotAKey = &Error{Kind: ErrKindInvalidArg, Msg: "locator is not a registry key"}
	// ErrPermissionDenied indicates the store refused a write.
	ErrPermissionDenied = &Error{Kind: ErrKindPermission, Msg: "permission denied"}
	// ErrWriteFailed indicates a non-permission write failure.
	ErrWriteFailed = &Error{Kind: ErrKindWrite, Msg: "write failed"}
	// ErrAborted indicates the user declined to continue a run after a failed write.
	ErrAborted = &Error{Kind: ErrKindState, Msg: "apply run aborted"}
	// ErrUnsupported indicates the backend is not available on this platform.
	ErrUnsupported = &Error{Kind: ErrKindUnsupported, Msg: "registry backend not supported on this platform"}
)

// NotFoundf builds a wrapped not-found error with context.
func NotFoundf(msg string, cause error) *Error {
	return &Error{Kind: ErrKindNotFound, Msg: msg, Err: cause}
}

// WriteFailedf builds a wrapped write error with context.
func WriteFailedf(msg string, cause error) *Error {
	return &Error{Kind: ErrKindWrite, Msg: msg, Err: cause}
}

// -----------------------------------------------------------------------------
// Node metadata
// -----------------------------------------------------------------------------

// NodeInfo exposes cheap key-level information useful for listings and planning.
type NodeInfo struct {
	Path    string // path relative to the store root ("" for the root itself)
	Name    string // local key name (last path segment)
	SubkeyN int    // number of direct child keys
	ValueN  int    // number of values
}
