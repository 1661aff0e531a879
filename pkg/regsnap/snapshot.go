package regsnap

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bwright86/RegistryTools/pkg/types"
)

// SaveSnapshot writes a FlatObject to a YAML snapshot file. The format is
// deliberately hand-editable: callers mutate the values section and feed the
// file back through Apply.
//
//	root:
//	  path: Software\MyApp
//	  drive: ""
//	  parent: Software
//	  name: MyApp
//	values:
//	  Description: {type: string, data: "..."}
//	  General\Wallpaper: {type: string, data: "..."}
func SaveSnapshot(flat *FlatObject, path string) error {
	data, err := yaml.Marshal(flat)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot file back into a FlatObject. Entries whose
// names collide with the reserved identity fields are dropped with a warning
// rather than treated as data.
func LoadSnapshot(path string, logger *slog.Logger) (*FlatObject, error) {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file %s: %w", path, err)
	}

	var flat FlatObject
	if err := yaml.Unmarshal(data, &flat); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file %s: %w", path, err)
	}
	if flat.Entries == nil {
		flat.Entries = make(map[string]types.Payload)
	}
	for key := range flat.Entries {
		if isReservedKey(key) {
			logger.Warn("dropping reserved identity name from snapshot values", "key", key)
			delete(flat.Entries, key)
		}
	}
	return &flat, nil
}
