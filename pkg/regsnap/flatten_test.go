package regsnap_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bwright86/RegistryTools/internal/yamlstore"
	"github.com/bwright86/RegistryTools/pkg/regsnap"
	"github.com/bwright86/RegistryTools/pkg/types"
)

// newAppTree builds the fixture used across the engine tests:
//
//	Software\MyApp            Description
//	  General                 WallpaperSource, Retries
//	    Colors                Background
//	  Plugins                 (no values)
//	    Active                Names
func newAppTree(t *testing.T) *yamlstore.Store {
	t.Helper()
	s := yamlstore.New()
	require.NoError(t, s.EnsureKey(`Software\MyApp\General\Colors`))
	require.NoError(t, s.EnsureKey(`Software\MyApp\Plugins\Active`))
	require.NoError(t, s.SetValue(`Software\MyApp`, "Description", types.StringValue("Before test text.")))
	require.NoError(t, s.SetValue(`Software\MyApp\General`, "WallpaperSource", types.StringValue("builtin")))
	require.NoError(t, s.SetValue(`Software\MyApp\General`, "Retries", types.DWordValue(3)))
	require.NoError(t, s.SetValue(`Software\MyApp\General\Colors`, "Background", types.StringValue("black")))
	require.NoError(t, s.SetValue(`Software\MyApp\Plugins\Active`, "Names", types.MultiStringValue("a", "b")))
	return s
}

func flattenOpts(depth, children int) regsnap.FlattenOptions {
	return regsnap.FlattenOptions{MaxDepth: depth, MaxChildren: children, Logger: discardLogger()}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func TestFlattenDepthZeroReadsOnlyRootValues(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(0, 10))
	require.NoError(t, err)

	require.Len(t, flat.Entries, 1)
	p, ok := flat.Entries["Description"]
	require.True(t, ok, "root-level value must flatten to its bare name")
	assert.True(t, types.StringValue("Before test text.").Equal(p))
}

func TestFlattenNestedKeysJoinRelativePath(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(3, 10))
	require.NoError(t, err)

	wantKeys := []string{
		"Description",
		`General\WallpaperSource`,
		`General\Retries`,
		`General\Colors\Background`,
		`Plugins\Active\Names`,
	}
	assert.Len(t, flat.Entries, len(wantKeys))
	for _, k := range wantKeys {
		assert.Contains(t, flat.Entries, k)
	}

	// Plugins itself has no values and must not appear anywhere.
	for k := range flat.Entries {
		assert.NotEqual(t, "Plugins", k)
	}
}

func TestFlattenDepthLimitsDescent(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(1, 10))
	require.NoError(t, err)

	assert.Contains(t, flat.Entries, `General\WallpaperSource`)
	assert.NotContains(t, flat.Entries, `General\Colors\Background`)
	assert.NotContains(t, flat.Entries, `Plugins\Active\Names`)
}

func TestFlattenTruncatesWideFanOut(t *testing.T) {
	s := yamlstore.New()
	require.NoError(t, s.EnsureKey("Root"))
	for i := 0; i < 5; i++ {
		child := fmt.Sprintf(`Root\child%d`, i)
		require.NoError(t, s.EnsureKey(child))
		require.NoError(t, s.SetValue(child, "v", types.DWordValue(uint32(i))))
	}

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	flat, err := regsnap.Flatten(s, "Root", regsnap.FlattenOptions{
		MaxDepth: 2, MaxChildren: 3, Logger: logger,
	})
	require.NoError(t, err)

	// First three children in enumeration order, rest truncated.
	assert.Len(t, flat.Entries, 3)
	assert.Contains(t, flat.Entries, `child0\v`)
	assert.Contains(t, flat.Entries, `child2\v`)
	assert.NotContains(t, flat.Entries, `child3\v`)

	assert.Contains(t, logBuf.String(), "child limit exceeded")
	assert.Contains(t, logBuf.String(), "children=5")
}

func TestFlattenNoWarningWithinFanOutLimit(t *testing.T) {
	s := newAppTree(t)

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	_, err := regsnap.Flatten(s, `Software\MyApp`, regsnap.FlattenOptions{
		MaxDepth: 3, MaxChildren: 10, Logger: logger,
	})
	require.NoError(t, err)
	assert.NotContains(t, logBuf.String(), "child limit exceeded")
}

func TestFlattenRootErrors(t *testing.T) {
	s := newAppTree(t)

	_, err := regsnap.Flatten(s, `Software\Missing`, flattenOpts(1, 10))
	assert.True(t, errors.Is(err, types.ErrNotFound))

	_, err = regsnap.Flatten(s, `HKCU:\Software\MyApp`, flattenOpts(1, 10))
	assert.True(t, errors.Is(err, types.ErrNotAKey))
}

func TestFlattenIdentityFields(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(1, 10))
	require.NoError(t, err)

	assert.Equal(t, `Software\MyApp`, flat.Root.Path)
	assert.Equal(t, "Software", flat.Root.Parent)
	assert.Equal(t, "MyApp", flat.Root.Name)
	assert.Empty(t, flat.Root.Drive)
}
