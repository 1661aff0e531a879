// Package regexport emits regedit-compatible .reg text for a store subtree.
// The section/value syntax follows the "Windows Registry Editor Version 5.00"
// format; output can be transcoded to UTF-16LE with a BOM to match what
// regedit.exe itself produces.
package regexport

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/bwright86/RegistryTools/pkg/types"
)

const (
	fileHeader = "Windows Registry Editor Version 5.00"
	crlf       = "\r\n"
	separator  = "\\"

	encodingUTF8    = "UTF-8"
	encodingUTF16LE = "UTF-16LE"
)

// Options controls export output.
type Options struct {
	// Prefix replaces the subtree root in emitted section headers, e.g.
	// "HKEY_CURRENT_USER\Software\MyApp". Empty keeps the root path as-is.
	Prefix string

	// Encoding selects "UTF-8" (default) or "UTF-16LE".
	Encoding string

	// WithBOM prepends a byte-order mark (UTF-16LE output only).
	WithBOM bool
}

// Export walks the subtree at rootPath and renders it as .reg text.
func Export(store types.Store, rootPath string, opts Options) ([]byte, error) {
	if _, err := store.Stat(rootPath); err != nil {
		return nil, fmt.Errorf("failed to resolve export root %q: %w", rootPath, err)
	}

	header := opts.Prefix
	if header == "" {
		header = rootPath
	}

	var buf bytes.Buffer
	buf.WriteString(fileHeader + crlf + crlf)
	if err := exportKey(&buf, store, rootPath, header); err != nil {
		return nil, err
	}

	switch strings.ToUpper(opts.Encoding) {
	case "", encodingUTF8:
		return buf.Bytes(), nil
	case encodingUTF16LE:
		bom := unicode.IgnoreBOM
		if opts.WithBOM {
			bom = unicode.UseBOM
		}
		enc := unicode.UTF16(unicode.LittleEndian, bom).NewEncoder()
		return enc.Bytes(buf.Bytes())
	default:
		return nil, fmt.Errorf("unsupported output encoding %q", opts.Encoding)
	}
}

func exportKey(buf *bytes.Buffer, store types.Store, path, header string) error {
	buf.WriteString("[" + header + "]" + crlf)

	values, err := store.Values(path)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		emitValue(buf, name, values[name])
	}
	buf.WriteString(crlf)

	children, err := store.Children(path)
	if err != nil {
		return err
	}
	sorted := append([]string(nil), children...)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i]) < strings.ToLower(sorted[j])
	})
	for _, child := range sorted {
		childPath := path + separator + child
		if path == "" {
			childPath = child
		}
		if err := exportKey(buf, store, childPath, header+separator+child); err != nil {
			return err
		}
	}
	return nil
}

func emitValue(buf *bytes.Buffer, name string, p types.Payload) {
	if name == "" {
		buf.WriteString("@=")
	} else {
		buf.WriteString(`"` + escapeString(name) + `"=`)
	}

	switch p.Kind {
	case types.KindDWord:
		fmt.Fprintf(buf, "dword:%08x", p.Num)
	case types.KindMultiString:
		buf.WriteString("hex(7):")
		buf.WriteString(formatHex(encodeMultiString(p.List)))
	default:
		buf.WriteString(`"` + escapeString(p.Str) + `"`)
	}
	buf.WriteString(crlf)
}

func escapeString(s string) string {
	s = strings.ReplaceAll(s, separator, separator+separator)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

func formatHex(data []byte) string {
	if len(data) == 0 {
		return "00"
	}
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, ",")
}

// encodeMultiString renders a REG_MULTI_SZ body: each element UTF-16LE with
// its terminator, plus the final double-null.
func encodeMultiString(elems []string) []byte {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	var buf bytes.Buffer
	for _, e := range elems {
		b, err := enc.Bytes([]byte(e))
		if err != nil {
			continue
		}
		buf.Write(b)
		buf.Write([]byte{0x00, 0x00})
	}
	buf.Write([]byte{0x00, 0x00})
	return buf.Bytes()
}
