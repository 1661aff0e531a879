package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/bwright86/RegistryTools/internal/winreg"
	"github.com/bwright86/RegistryTools/internal/yamlstore"
	"github.com/bwright86/RegistryTools/pkg/types"
)

// openStore selects the backend: a YAML store file when --store (or the
// config/env equivalent) is set, otherwise the live Windows registry.
// save persists file-backed stores after mutating commands; it is a no-op
// for the live registry, which commits on every write.
func openStore() (store types.Store, save func() error, err error) {
	path := storePath
	if path == "" {
		path = viper.GetString(storeFileKey)
	}

	if path != "" {
		ys, err := yamlstore.Open(path)
		if err != nil {
			return nil, nil, err
		}
		printVerbose("Using store file: %s\n", path)
		return ys, func() error { return ys.Save(path) }, nil
	}

	ws, err := winreg.New(slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("live registry unavailable (use --store <file> on this platform): %w", err)
	}
	return ws, func() error { return nil }, nil
}
