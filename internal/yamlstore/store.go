// Package yamlstore implements types.Store on an in-memory key tree with
// optional YAML persistence. It is the cross-platform backend for regctl
// (selected with --store) and the test double for the snapshot engine.
//
// Child keys keep their insertion/document order, matching the registry
// property that enumeration order is not necessarily sorted.
package yamlstore

import (
	"strings"

	"github.com/bwright86/RegistryTools/pkg/types"
)

// Separator is the path separator for key paths.
const Separator = "\\"

type node struct {
	values   map[string]types.Payload
	children []*child // document order
}

type child struct {
	name string
	node *node
}

func newNode() *node {
	return &node{values: make(map[string]types.Payload)}
}

// lookup finds a direct child by name, case-insensitively.
func (n *node) lookup(name string) *node {
	for _, c := range n.children {
		if strings.EqualFold(c.name, name) {
			return c.node
		}
	}
	return nil
}

// ensureChild finds or appends a direct child.
func (n *node) ensureChild(name string) *node {
	if c := n.lookup(name); c != nil {
		return c
	}
	c := &child{name: name, node: newNode()}
	n.children = append(n.children, c)
	return c.node
}

// valueName resolves the stored (case-preserved) name for a value,
// case-insensitively. Returns ("", false) when absent.
func (n *node) valueName(name string) (string, bool) {
	if _, ok := n.values[name]; ok {
		return name, true
	}
	for stored := range n.values {
		if strings.EqualFold(stored, name) {
			return stored, true
		}
	}
	return "", false
}

// Store is an in-memory hierarchical key/value store.
type Store struct {
	root *node
}

// New returns an empty store.
func New() *Store {
	return &Store{root: newNode()}
}

// splitPath normalizes a key path into segments. Empty path = root.
func splitPath(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, Separator) {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// resolve walks to the node at path. A drive-qualified locator (e.g.
// "HKCU:\...") can never address a key in a file-backed store, so it reports
// ErrNotAKey rather than ErrNotFound.
func (s *Store) resolve(path string) (*node, error) {
	segs := splitPath(path)
	if len(segs) > 0 && strings.Contains(segs[0], ":") {
		return nil, &types.Error{
			Kind: types.ErrKindInvalidArg,
			Msg:  "drive-qualified locator " + segs[0] + " is not addressable in a file store",
		}
	}
	cur := s.root
	for _, seg := range segs {
		next := cur.lookup(seg)
		if next == nil {
			return nil, types.NotFoundf("key not found: "+path, types.ErrNotFound)
		}
		cur = next
	}
	return cur, nil
}

// Stat implements types.Store.
func (s *Store) Stat(path string) (types.NodeInfo, error) {
	n, err := s.resolve(path)
	if err != nil {
		return types.NodeInfo{}, err
	}
	segs := splitPath(path)
	name := ""
	if len(segs) > 0 {
		name = segs[len(segs)-1]
	}
	return types.NodeInfo{
		Path:    strings.Join(segs, Separator),
		Name:    name,
		SubkeyN: len(n.children),
		ValueN:  len(n.values),
	}, nil
}

// Values implements types.Store. The returned map is a copy.
func (s *Store) Values(path string) (map[string]types.Payload, error) {
	n, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]types.Payload, len(n.values))
	for name, p := range n.values {
		out[name] = p
	}
	return out, nil
}

// Children implements types.Store, preserving insertion order.
func (s *Store) Children(path string) ([]string, error) {
	n, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(n.children))
	for i, c := range n.children {
		names[i] = c.name
	}
	return names, nil
}

// Value implements types.Store.
func (s *Store) Value(path, name string) (types.Payload, error) {
	n, err := s.resolve(path)
	if err != nil {
		return types.Payload{}, err
	}
	stored, ok := n.valueName(name)
	if !ok {
		return types.Payload{}, types.NotFoundf("value not found: "+name, types.ErrNotFound)
	}
	return n.values[stored], nil
}

// SetValue implements types.Store. The key must already exist. An empty
// name addresses the key's default value, as in the registry.
func (s *Store) SetValue(path, name string, p types.Payload) error {
	n, err := s.resolve(path)
	if err != nil {
		return err
	}
	// Replace under the stored casing so a case-variant write doesn't fork
	// the value.
	if stored, ok := n.valueName(name); ok {
		delete(n.values, stored)
	}
	n.values[name] = p
	return nil
}

// DeleteValue implements types.Store.
func (s *Store) DeleteValue(path, name string) error {
	n, err := s.resolve(path)
	if err != nil {
		return err
	}
	stored, ok := n.valueName(name)
	if !ok {
		return types.NotFoundf("value not found: "+name, types.ErrNotFound)
	}
	delete(n.values, stored)
	return nil
}

// EnsureKey implements types.Store: idempotent, creates missing ancestors.
func (s *Store) EnsureKey(path string) error {
	segs := splitPath(path)
	if len(segs) > 0 && strings.Contains(segs[0], ":") {
		return &types.Error{
			Kind: types.ErrKindInvalidArg,
			Msg:  "drive-qualified locator " + segs[0] + " is not addressable in a file store",
		}
	}
	cur := s.root
	for _, seg := range segs {
		cur = cur.ensureChild(seg)
	}
	return nil
}
