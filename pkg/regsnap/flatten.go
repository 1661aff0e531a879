package regsnap

import (
	"fmt"

	"github.com/bwright86/RegistryTools/pkg/types"
)

// Flatten walks the store from rootPath down to opts.MaxDepth levels,
// visiting at most opts.MaxChildren children per key, and projects every
// value it finds into a FlatObject keyed by relative FlatKeys.
//
// A value attached directly to the root flattens to its bare name; deeper
// values to the separator-joined relative path plus name. Keys that carry no
// values contribute nothing and are not represented in the result.
//
// Fails with a not-found error if rootPath does not resolve, and with an
// invalid-argument error if the locator addresses something that is not a
// registry key. The traversal itself has no side effects.
func Flatten(store types.Store, rootPath string, opts FlattenOptions) (*FlatObject, error) {
	opts = opts.withDefaults()

	if _, err := store.Stat(rootPath); err != nil {
		return nil, fmt.Errorf("failed to resolve root %q: %w", rootPath, err)
	}

	flat := &FlatObject{
		Root:    splitRootPath(rootPath),
		Entries: make(map[string]types.Payload),
	}
	if err := flattenKey(store, rootPath, "", opts.MaxDepth, flat, opts); err != nil {
		return nil, err
	}
	return flat, nil
}

// flattenKey reads the values at path, then recurses per child with one less
// level of depth budget. Child read failures are tolerated: a key that
// vanishes mid-walk is logged and skipped, matching the engine's
// no-isolation stance on concurrent external mutation.
func flattenKey(store types.Store, path, rel string, depth int, flat *FlatObject, opts FlattenOptions) error {
	values, err := store.Values(path)
	if err != nil {
		if rel == "" {
			return fmt.Errorf("failed to read values of root %q: %w", path, err)
		}
		opts.Logger.Warn("skipping unreadable key", "key", path, "error", err)
		return nil
	}

	for name, payload := range values {
		key := name
		if rel != "" {
			key = rel + Separator + name
		}
		// Uniqueness is last-write-wins when separator characters inside
		// names collide with the join rule.
		flat.Entries[key] = payload
	}

	if depth == 0 {
		return nil
	}

	children, err := store.Children(path)
	if err != nil {
		opts.Logger.Warn("skipping unenumerable key", "key", path, "error", err)
		return nil
	}
	if len(children) > opts.MaxChildren {
		opts.Logger.Warn("child limit exceeded, truncating",
			"key", path,
			"children", len(children),
			"limit", opts.MaxChildren,
		)
		children = children[:opts.MaxChildren]
	}

	for _, childName := range children {
		childPath := joinPath(path, childName)
		childRel := joinPath(rel, childName)
		if err := flattenKey(store, childPath, childRel, depth-1, flat, opts); err != nil {
			return err
		}
	}
	return nil
}
