package yamlstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/bwright86/RegistryTools/pkg/types"
)

// File format:
//
//	keys:
//	  Software:
//	    values:
//	      Description: {type: string, data: "..."}
//	    keys:
//	      MyApp: ...
//
// Key order in the document is the store's enumeration order, so load/save
// round-trips preserve it. Value names are emitted sorted for stable output.

const (
	docKeys   = "keys"
	docValues = "values"
)

// Open loads a store from path, returning an empty store if the file does
// not exist yet.
func Open(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a store from YAML document bytes.
func Parse(data []byte) (*Store, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse store document: %w", err)
	}
	s := New()
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return s, nil
	}
	if err := decodeKey(doc.Content[0], s.root); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes the store to path atomically.
func (s *Store) Save(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary store file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

// Marshal renders the store as a YAML document.
func (s *Store) Marshal() ([]byte, error) {
	root, err := encodeKey(s.root)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(root)
}

func decodeKey(n *yaml.Node, into *node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping, got %v", n.Line, n.Kind)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]
		switch keyNode.Value {
		case docValues:
			if valNode.Kind != yaml.MappingNode {
				return fmt.Errorf("line %d: values must be a mapping", valNode.Line)
			}
			for j := 0; j+1 < len(valNode.Content); j += 2 {
				name := valNode.Content[j].Value
				var p types.Payload
				if err := valNode.Content[j+1].Decode(&p); err != nil {
					return fmt.Errorf("value %q: %w", name, err)
				}
				into.values[name] = p
			}
		case docKeys:
			if valNode.Kind != yaml.MappingNode {
				return fmt.Errorf("line %d: keys must be a mapping", valNode.Line)
			}
			for j := 0; j+1 < len(valNode.Content); j += 2 {
				childNode := into.ensureChild(valNode.Content[j].Value)
				if err := decodeKey(valNode.Content[j+1], childNode); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("line %d: unexpected field %q", keyNode.Line, keyNode.Value)
		}
	}
	return nil
}

func encodeKey(n *node) (*yaml.Node, error) {
	out := &yaml.Node{Kind: yaml.MappingNode}

	if len(n.values) > 0 {
		names := make([]string, 0, len(n.values))
		for name := range n.values {
			names = append(names, name)
		}
		sort.Strings(names)

		valuesNode := &yaml.Node{Kind: yaml.MappingNode}
		for _, name := range names {
			var payloadNode yaml.Node
			if err := payloadNode.Encode(n.values[name]); err != nil {
				return nil, fmt.Errorf("value %q: %w", name, err)
			}
			valuesNode.Content = append(valuesNode.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: name},
				&payloadNode,
			)
		}
		out.Content = append(out.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: docValues},
			valuesNode,
		)
	}

	if len(n.children) > 0 {
		keysNode := &yaml.Node{Kind: yaml.MappingNode}
		for _, c := range n.children {
			childNode, err := encodeKey(c.node)
			if err != nil {
				return nil, err
			}
			keysNode.Content = append(keysNode.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: c.name},
				childNode,
			)
		}
		out.Content = append(out.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: docKeys},
			keysNode,
		)
	}

	return out, nil
}
