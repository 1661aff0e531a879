//go:build windows

// Package winreg implements types.Store on the live Windows registry via
// golang.org/x/sys/windows/registry.
//
// Paths are drive-qualified locators ("HKCU:\Software\MyApp"); the drive
// prefix selects the root hive handle. Only the three payload kinds of the
// snapshot engine are surfaced: REG_SZ, REG_DWORD and REG_MULTI_SZ. Values
// of any other registry type are skipped with a debug log.
package winreg

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/bwright86/RegistryTools/pkg/types"
)

const separator = "\\"

// Store is a live-registry backend. The zero value is not usable; call New.
type Store struct {
	logger *slog.Logger
}

// New returns a live-registry store.
func New(logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}, nil
}

// hiveForPrefix maps a drive prefix to its root hive handle.
func hiveForPrefix(prefix string) (registry.Key, bool) {
	switch strings.ToUpper(strings.TrimSuffix(prefix, ":")) {
	case "HKLM", "HKEY_LOCAL_MACHINE":
		return registry.LOCAL_MACHINE, true
	case "HKCU", "HKEY_CURRENT_USER":
		return registry.CURRENT_USER, true
	case "HKCR", "HKEY_CLASSES_ROOT":
		return registry.CLASSES_ROOT, true
	case "HKU", "HKEY_USERS":
		return registry.USERS, true
	case "HKCC", "HKEY_CURRENT_CONFIG":
		return registry.CURRENT_CONFIG, true
	}
	return 0, false
}

// parsePath splits a locator into hive handle + subkey path. A locator
// without a known drive prefix can never address a live registry key, so it
// reports an invalid-argument error rather than not-found.
func parsePath(path string) (registry.Key, string, error) {
	prefix, rest, found := strings.Cut(path, separator)
	if !found {
		prefix, rest = path, ""
	}
	hive, ok := hiveForPrefix(prefix)
	if !ok {
		return 0, "", &types.Error{
			Kind: types.ErrKindInvalidArg,
			Msg:  fmt.Sprintf("locator %q has no registry hive prefix", path),
		}
	}
	return hive, rest, nil
}

// mapError converts registry errors into the module's taxonomy.
func mapError(op string, err error) error {
	switch {
	case errors.Is(err, registry.ErrNotExist):
		return types.NotFoundf(op, types.ErrNotFound)
	case errors.Is(err, windows.ERROR_ACCESS_DENIED), errors.Is(err, fs.ErrPermission):
		return &types.Error{Kind: types.ErrKindPermission, Msg: op, Err: err}
	default:
		return types.WriteFailedf(op, err)
	}
}

func openKey(path string, access uint32) (registry.Key, error) {
	hive, sub, err := parsePath(path)
	if err != nil {
		return 0, err
	}
	k, err := registry.OpenKey(hive, sub, access)
	if err != nil {
		return 0, mapError("failed to open key "+path, err)
	}
	return k, nil
}

// Stat implements types.Store.
func (s *Store) Stat(path string) (types.NodeInfo, error) {
	k, err := openKey(path, registry.QUERY_VALUE)
	if err != nil {
		return types.NodeInfo{}, err
	}
	defer k.Close()

	info, err := k.Stat()
	if err != nil {
		return types.NodeInfo{}, mapError("failed to stat key "+path, err)
	}
	name := path
	if i := strings.LastIndex(path, separator); i >= 0 {
		name = path[i+len(separator):]
	}
	return types.NodeInfo{
		Path:    path,
		Name:    name,
		SubkeyN: int(info.SubKeyCount),
		ValueN:  int(info.ValueCount),
	}, nil
}

// Values implements types.Store.
func (s *Store) Values(path string) (map[string]types.Payload, error) {
	k, err := openKey(path, registry.QUERY_VALUE)
	if err != nil {
		return nil, err
	}
	defer k.Close()

	names, err := k.ReadValueNames(0)
	if err != nil {
		return nil, mapError("failed to enumerate values of "+path, err)
	}

	out := make(map[string]types.Payload, len(names))
	for _, name := range names {
		p, ok, err := readValue(k, name)
		if err != nil {
			return nil, mapError(fmt.Sprintf("failed to read value %q of %s", name, path), err)
		}
		if !ok {
			s.logger.Debug("skipping value of unsupported registry type", "key", path, "name", name)
			continue
		}
		out[name] = p
	}
	return out, nil
}

// Children implements types.Store, in registry enumeration order.
func (s *Store) Children(path string) ([]string, error) {
	k, err := openKey(path, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, err
	}
	defer k.Close()

	names, err := k.ReadSubKeyNames(0)
	if err != nil {
		return nil, mapError("failed to enumerate subkeys of "+path, err)
	}
	return names, nil
}

// Value implements types.Store.
func (s *Store) Value(path, name string) (types.Payload, error) {
	k, err := openKey(path, registry.QUERY_VALUE)
	if err != nil {
		return types.Payload{}, err
	}
	defer k.Close()

	p, ok, err := readValue(k, name)
	if err != nil {
		return types.Payload{}, mapError(fmt.Sprintf("failed to read value %q of %s", name, path), err)
	}
	if !ok {
		return types.Payload{}, &types.Error{
			Kind: types.ErrKindInvalidArg,
			Msg:  fmt.Sprintf("value %q of %s has an unsupported registry type", name, path),
		}
	}
	return p, nil
}

// readValue decodes one value into a payload. ok=false flags an unsupported
// registry type; absence surfaces as registry.ErrNotExist from GetValue.
func readValue(k registry.Key, name string) (types.Payload, bool, error) {
	_, valType, err := k.GetValue(name, nil)
	if err != nil {
		return types.Payload{}, false, err
	}

	switch valType {
	case registry.SZ, registry.EXPAND_SZ:
		str, _, err := k.GetStringValue(name)
		if err != nil {
			return types.Payload{}, false, err
		}
		return types.StringValue(str), true, nil
	case registry.DWORD:
		n, _, err := k.GetIntegerValue(name)
		if err != nil {
			return types.Payload{}, false, err
		}
		return types.DWordValue(uint32(n)), true, nil
	case registry.MULTI_SZ:
		elems, _, err := k.GetStringsValue(name)
		if err != nil {
			return types.Payload{}, false, err
		}
		return types.MultiStringValue(elems...), true, nil
	default:
		return types.Payload{}, false, nil
	}
}

// SetValue implements types.Store.
func (s *Store) SetValue(path, name string, p types.Payload) error {
	k, err := openKey(path, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	switch p.Kind {
	case types.KindString:
		err = k.SetStringValue(name, p.Str)
	case types.KindDWord:
		err = k.SetDWordValue(name, p.Num)
	case types.KindMultiString:
		err = k.SetStringsValue(name, p.List)
	default:
		return &types.Error{
			Kind: types.ErrKindInvalidArg,
			Msg:  fmt.Sprintf("cannot write payload of kind %s", p.Kind),
		}
	}
	if err != nil {
		return mapError(fmt.Sprintf("failed to write value %q of %s", name, path), err)
	}
	return nil
}

// DeleteValue implements types.Store.
func (s *Store) DeleteValue(path, name string) error {
	k, err := openKey(path, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	if err := k.DeleteValue(name); err != nil {
		return mapError(fmt.Sprintf("failed to delete value %q of %s", name, path), err)
	}
	return nil
}

// EnsureKey implements types.Store: idempotent, creates missing ancestors
// (CreateKey creates the whole chain).
func (s *Store) EnsureKey(path string) error {
	hive, sub, err := parsePath(path)
	if err != nil {
		return err
	}
	k, _, err := registry.CreateKey(hive, sub, registry.CREATE_SUB_KEY|registry.SET_VALUE|registry.QUERY_VALUE)
	if err != nil {
		return mapError("failed to create key "+path, err)
	}
	return k.Close()
}
