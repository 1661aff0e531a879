//go:build !windows

// Live registry access requires the Windows registry API. On other platforms
// New reports ErrUnsupported; regctl falls back to a file-backed store
// (--store) instead.
package winreg

import (
	"log/slog"

	"github.com/bwright86/RegistryTools/pkg/types"
)

// Store is unavailable on this platform.
type Store struct{}

// New always fails off-Windows.
func New(_ *slog.Logger) (*Store, error) {
	return nil, types.ErrUnsupported
}

func (s *Store) Stat(string) (types.NodeInfo, error)             { return types.NodeInfo{}, types.ErrUnsupported }
func (s *Store) Values(string) (map[string]types.Payload, error) { return nil, types.ErrUnsupported }
func (s *Store) Children(string) ([]string, error)               { return nil, types.ErrUnsupported }
func (s *Store) Value(string, string) (types.Payload, error) {
	return types.Payload{}, types.ErrUnsupported
}
func (s *Store) SetValue(string, string, types.Payload) error { return types.ErrUnsupported }
func (s *Store) DeleteValue(string, string) error             { return types.ErrUnsupported }
func (s *Store) EnsureKey(string) error                       { return types.ErrUnsupported }
