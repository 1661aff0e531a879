package regsnap

import (
	"sort"
	"strings"

	"github.com/bwright86/RegistryTools/pkg/types"
)

// Separator joins key path segments and FlatKey components.
const Separator = "\\"

// Identity pins a FlatObject to the root key it was flattened from. These
// four fields are bookkeeping, never data: Apply skips any entry whose
// FlatKey collides with one of their reserved names.
type Identity struct {
	Path   string `yaml:"path"`   // root key path within the store
	Drive  string `yaml:"drive"`  // drive/namespace prefix, if the locator had one
	Parent string `yaml:"parent"` // parent key path
	Name   string `yaml:"name"`   // local name of the root key
}

// Reserved FlatKey names mirroring the identity fields. A hand-edited
// snapshot that reintroduces them among the data entries is tolerated; the
// entries are ignored.
const (
	reservedPath   = "RootPath"
	reservedDrive  = "Drive"
	reservedParent = "ParentPath"
	reservedName   = "ChildName"
)

func isReservedKey(key string) bool {
	switch key {
	case reservedPath, reservedDrive, reservedParent, reservedName:
		return true
	}
	return false
}

// FlatObject is the flattened snapshot of one subtree. Entries map FlatKeys
// (value paths relative to Root, separator-joined, bare name for root-level
// values) to payloads. FlatKeys are unique per object; if a traversal would
// produce a collision the last write wins.
type FlatObject struct {
	Root    Identity                 `yaml:"root"`
	Entries map[string]types.Payload `yaml:"values"`
}

// SortedKeys returns the data FlatKeys in lexicographic order, excluding
// reserved identity names. Apply processes keys in this order so restore
// transcripts are deterministic.
func (f *FlatObject) SortedKeys() []string {
	keys := make([]string, 0, len(f.Entries))
	for k := range f.Entries {
		if isReservedKey(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// splitFlatKey splits a FlatKey on its last separator: everything before it
// is the key path relative to the root, everything after is the value name.
// A key with no separator denotes a value on the root key itself.
func splitFlatKey(key string) (relPath, name string) {
	i := strings.LastIndex(key, Separator)
	if i < 0 {
		return "", key
	}
	return key[:i], key[i+len(Separator):]
}

// joinPath joins non-empty path segments with the separator.
func joinPath(segs ...string) string {
	parts := segs[:0:0]
	for _, s := range segs {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, Separator)
}

// splitRootPath derives the identity fields from a root locator.
// "HKCU:\Software\MyApp" -> drive "HKCU:", parent "Software", name "MyApp".
func splitRootPath(rootPath string) Identity {
	id := Identity{Path: rootPath}
	rest := rootPath
	if i := strings.Index(rest, ":"); i >= 0 && !strings.Contains(rest[:i], Separator) {
		id.Drive = rest[:i+1]
		rest = strings.TrimPrefix(rest[i+1:], Separator)
	}
	if j := strings.LastIndex(rest, Separator); j >= 0 {
		id.Parent = rest[:j]
		id.Name = rest[j+len(Separator):]
	} else {
		id.Name = rest
	}
	return id
}

// ChangeStatus is the terminal state of processing one FlatKey.
type ChangeStatus int

const (
	StatusUnchanged ChangeStatus = iota // live value already equal
	StatusCreated                       // value did not exist; written
	StatusUpdated                       // value differed; overwritten
	StatusSkipped                       // user declined
	StatusFailed                        // write failed
)

// String implements the Stringer interface for ChangeStatus.
func (s ChangeStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusCreated:
		return "created"
	case StatusUpdated:
		return "updated"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ChangeRecord is the outcome for one FlatKey. Restore carries the literal
// inverse command for Created/Updated records.
type ChangeRecord struct {
	Key     string
	Status  ChangeStatus
	Restore string
	Err     error
}

// ApplyResult summarizes an apply run.
type ApplyResult struct {
	Applied int            // count of Created + Updated
	Records []ChangeRecord // one per processed FlatKey, in processing order
	Restore []string       // inverse commands, in the order changes were applied
}
