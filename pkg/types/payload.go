package types

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValueKind enumerates the payload kinds a value can carry. The set is closed:
// scalar string, scalar 32-bit integer, and one-dimensional string array,
// mirroring REG_SZ, REG_DWORD and REG_MULTI_SZ. Each kind has exactly one
// restore-serialization path; there is no runtime type inspection anywhere.
type ValueKind uint32

const (
	KindString ValueKind = iota
	KindDWord
	KindMultiString
)

// String implements the Stringer interface for ValueKind.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindDWord:
		return "dword"
	case KindMultiString:
		return "multi_sz"
	default:
		return fmt.Sprintf("UNKNOWN_KIND_%d", uint32(k))
	}
}

// ParseValueKind maps a textual kind (as used in snapshot files and CLI flags)
// back to a ValueKind.
func ParseValueKind(s string) (ValueKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string", "sz", "reg_sz":
		return KindString, nil
	case "dword", "reg_dword":
		return KindDWord, nil
	case "multi_sz", "multi", "reg_multi_sz":
		return KindMultiString, nil
	default:
		return 0, fmt.Errorf("unsupported value kind: %q", s)
	}
}

// Payload is the tagged-variant data carried by one named registry value.
// Exactly one of Str, Num or List is meaningful, selected by Kind.
type Payload struct {
	Kind ValueKind
	Str  string
	Num  uint32
	List []string
}

// StringValue builds a scalar string payload.
func StringValue(s string) Payload { return Payload{Kind: KindString, Str: s} }

// DWordValue builds a scalar integer payload.
func DWordValue(n uint32) Payload { return Payload{Kind: KindDWord, Num: n} }

// MultiStringValue builds a string-array payload.
func MultiStringValue(elems ...string) Payload {
	return Payload{Kind: KindMultiString, List: elems}
}

// Equal reports element-wise equality: same kind and same data, with arrays
// compared element by element in order.
func (p Payload) Equal(o Payload) bool {
	if p.Kind != o.Kind {
		return false
	}
	switch p.Kind {
	case KindString:
		return p.Str == o.Str
	case KindDWord:
		return p.Num == o.Num
	case KindMultiString:
		if len(p.List) != len(o.List) {
			return false
		}
		for i := range p.List {
			if p.List[i] != o.List[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders the payload for display and prompt messages.
func (p Payload) String() string {
	switch p.Kind {
	case KindString:
		return strconv.Quote(p.Str)
	case KindDWord:
		return strconv.FormatUint(uint64(p.Num), 10)
	case KindMultiString:
		quoted := make([]string, len(p.List))
		for i, e := range p.List {
			quoted[i] = strconv.Quote(e)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprintf("<%s>", p.Kind)
	}
}

// payloadDoc is the on-disk YAML shape: an explicit type tag plus data.
type payloadDoc struct {
	Type string    `yaml:"type"`
	Data yaml.Node `yaml:"data"`
}

// MarshalYAML encodes the payload as {type: <kind>, data: <value>}.
func (p Payload) MarshalYAML() (interface{}, error) {
	out := struct {
		Type string      `yaml:"type"`
		Data interface{} `yaml:"data"`
	}{Type: p.Kind.String()}

	switch p.Kind {
	case KindString:
		out.Data = p.Str
	case KindDWord:
		out.Data = p.Num
	case KindMultiString:
		out.Data = p.List
	default:
		return nil, fmt.Errorf("cannot marshal payload of kind %s", p.Kind)
	}
	return out, nil
}

// UnmarshalYAML decodes the {type, data} shape back into a tagged payload.
func (p *Payload) UnmarshalYAML(node *yaml.Node) error {
	var doc payloadDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}

	kind, err := ParseValueKind(doc.Type)
	if err != nil {
		return err
	}

	switch kind {
	case KindString:
		var s string
		if err := doc.Data.Decode(&s); err != nil {
			return fmt.Errorf("string payload: %w", err)
		}
		*p = StringValue(s)
	case KindDWord:
		var n uint32
		if err := doc.Data.Decode(&n); err != nil {
			return fmt.Errorf("dword payload: %w", err)
		}
		*p = DWordValue(n)
	case KindMultiString:
		var elems []string
		if err := doc.Data.Decode(&elems); err != nil {
			return fmt.Errorf("multi_sz payload: %w", err)
		}
		*p = MultiStringValue(elems...)
	}
	return nil
}
