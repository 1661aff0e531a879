// Package types defines the shared vocabulary of the RegistryTools module:
// the typed error taxonomy, the closed set of value payload kinds, and the
// collaborator interfaces (Store, Confirmer, RestoreWriter) that connect the
// snapshot engine to a concrete registry backend, a confirmation prompt, and
// a restore transcript sink.
//
// Nothing in this package touches a registry. Implementations live under
// internal/ (winreg, yamlstore, prompt, restore) and the engine itself lives
// in pkg/regsnap.
package types
