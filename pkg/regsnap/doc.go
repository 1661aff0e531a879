// Package regsnap is the flatten/diff/apply engine.
//
// Flatten linearizes a registry subtree into a FlatObject: a flat mapping
// from relative FlatKeys to typed payloads, plus the identity of the root the
// snapshot was taken from. Callers persist the snapshot (SaveSnapshot), edit
// it, and hand it back to Apply, which re-reads each live value, decides
// per key between create/update/unchanged under an interactive or forced
// confirmation policy, and appends one inverse command per applied change to
// a restore transcript. Replay executes such a transcript in order, undoing
// a previous run.
//
// The engine is single-threaded and synchronous. It talks to the registry,
// the user, and the transcript only through the interfaces in pkg/types.
package regsnap
