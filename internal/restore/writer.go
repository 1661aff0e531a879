package restore

import (
	"fmt"
	"os"
	"time"
)

// Writer is a file-backed RestoreWriter. Every Append flushes the line to the
// OS before returning, so a crash or aborted run leaves a valid partial
// transcript; Close syncs and releases the handle.
type Writer struct {
	f *os.File
}

// NewWriter opens (or creates) a transcript file for appending and stamps a
// comment header recording when the run started.
func NewWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open restore transcript %s: %w", path, err)
	}
	w := &Writer{f: f}
	header := fmt.Sprintf("# restore transcript started %s", time.Now().Format(time.RFC3339))
	if err := w.Append(header); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// Append writes one command line and flushes it.
func (w *Writer) Append(line string) error {
	if _, err := w.f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to append restore line: %w", err)
	}
	return w.f.Sync()
}

// Close syncs and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.f.Sync(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
