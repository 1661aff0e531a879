package regsnap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bwright86/RegistryTools/pkg/regsnap"
	"github.com/bwright86/RegistryTools/pkg/types"
)

// memWriter collects restore lines in memory.
type memWriter struct {
	lines []string
}

func (w *memWriter) Append(line string) error {
	w.lines = append(w.lines, line)
	return nil
}

// scriptedConfirmer replays canned answers: "y", "n", "a" (yes to all),
// "q" (no to all). It also records every prompt it was actually asked.
type scriptedConfirmer struct {
	answers []string
	asked   []types.PromptKind
}

func (c *scriptedConfirmer) Confirm(kind types.PromptKind, _ string, sticky *types.StickyChoice) bool {
	c.asked = append(c.asked, kind)
	if len(c.answers) == 0 {
		return false
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	switch answer {
	case "y":
		return true
	case "a":
		if sticky != nil {
			sticky.YesToAll = true
		}
		return true
	case "q":
		if sticky != nil {
			sticky.NoToAll = true
		}
		return false
	default:
		return false
	}
}

// denyStore fails writes to one value name with a permission error.
type denyStore struct {
	types.Store
	denyName string
}

func (d *denyStore) SetValue(path, name string, p types.Payload) error {
	if name == d.denyName {
		return &types.Error{Kind: types.ErrKindPermission, Msg: "write denied: " + name}
	}
	return d.Store.SetValue(path, name, p)
}

// brokenStore fails writes to one value name with a non-permission error.
type brokenStore struct {
	types.Store
	failName string
}

func (b *brokenStore) SetValue(path, name string, p types.Payload) error {
	if name == b.failName {
		return types.WriteFailedf("disk on fire", nil)
	}
	return b.Store.SetValue(path, name, p)
}

func forceApply(t *testing.T, store types.Store, flat *regsnap.FlatObject, w types.RestoreWriter) *regsnap.ApplyResult {
	t.Helper()
	result, err := regsnap.Apply(store, flat, regsnap.ApplyOptions{
		ForceAll: true,
		Restore:  w,
		Logger:   discardLogger(),
	})
	require.NoError(t, err)
	return result
}

func countStatus(result *regsnap.ApplyResult, status regsnap.ChangeStatus) int {
	n := 0
	for _, rec := range result.Records {
		if rec.Status == status {
			n++
		}
	}
	return n
}

func TestApplyUnchangedIsIdempotent(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(3, 10))
	require.NoError(t, err)

	result := forceApply(t, s, flat, nil)
	assert.Equal(t, 0, result.Applied)
	assert.Equal(t, len(flat.Entries), countStatus(result, regsnap.StatusUnchanged))
	assert.Empty(t, result.Restore)

	// Flatten and apply again: still nothing to do.
	flat2, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(3, 10))
	require.NoError(t, err)
	result2 := forceApply(t, s, flat2, nil)
	assert.Equal(t, 0, result2.Applied)
}

func TestApplyCreateEmitsDeleteRestore(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(3, 10))
	require.NoError(t, err)
	flat.Entries[`General\NewSetting`] = types.DWordValue(7)

	w := &memWriter{}
	result := forceApply(t, s, flat, w)

	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 1, countStatus(result, regsnap.StatusCreated))

	p, err := s.Value(`Software\MyApp\General`, "NewSetting")
	require.NoError(t, err)
	assert.True(t, types.DWordValue(7).Equal(p))

	require.Len(t, w.lines, 1)
	assert.Equal(t, `delete "Software\\MyApp\\General" "NewSetting"`, w.lines[0])
}

func TestApplyCreateBuildsIntermediateKeys(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(3, 10))
	require.NoError(t, err)
	flat.Entries[`Brand\New\Deep\Setting`] = types.StringValue("x")

	result := forceApply(t, s, flat, nil)
	assert.Equal(t, 1, result.Applied)

	p, err := s.Value(`Software\MyApp\Brand\New\Deep`, "Setting")
	require.NoError(t, err)
	assert.True(t, types.StringValue("x").Equal(p))
}

func TestApplyUpdateEmitsPriorValueRestore(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(3, 10))
	require.NoError(t, err)
	flat.Entries["Description"] = types.StringValue("This is a description.")

	w := &memWriter{}
	result := forceApply(t, s, flat, w)

	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 1, countStatus(result, regsnap.StatusUpdated))

	p, err := s.Value(`Software\MyApp`, "Description")
	require.NoError(t, err)
	assert.True(t, types.StringValue("This is a description.").Equal(p))

	require.Len(t, w.lines, 1)
	assert.Equal(t, `set "Software\\MyApp" "Description" = "Before test text."`, w.lines[0])
}

func TestApplyArrayRestoreIsListLiteral(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(3, 10))
	require.NoError(t, err)
	flat.Entries[`Plugins\Active\Names`] = types.MultiStringValue("c")

	w := &memWriter{}
	forceApply(t, s, flat, w)

	require.Len(t, w.lines, 1)
	assert.Equal(t, `set "Software\\MyApp\\Plugins\\Active" "Names" = ["a", "b"]`, w.lines[0])
}

func TestApplyRootLevelKeyTargetsRootItself(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(0, 10))
	require.NoError(t, err)
	flat.Entries["Fresh"] = types.StringValue("v")

	forceApply(t, s, flat, nil)

	p, err := s.Value(`Software\MyApp`, "Fresh")
	require.NoError(t, err)
	assert.True(t, types.StringValue("v").Equal(p))
}

func TestApplyNilConfirmerDeclinesEverything(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(3, 10))
	require.NoError(t, err)
	flat.Entries["Description"] = types.StringValue("changed")
	flat.Entries["Added"] = types.DWordValue(1)

	result, err := regsnap.Apply(s, flat, regsnap.ApplyOptions{Logger: discardLogger()})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Applied)
	assert.Equal(t, 2, countStatus(result, regsnap.StatusSkipped))

	// Store untouched.
	p, err := s.Value(`Software\MyApp`, "Description")
	require.NoError(t, err)
	assert.True(t, types.StringValue("Before test text.").Equal(p))
}

func TestApplyStickyYesToAllStopsPrompting(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(3, 10))
	require.NoError(t, err)
	flat.Entries["Add1"] = types.DWordValue(1)
	flat.Entries["Add2"] = types.DWordValue(2)
	flat.Entries["Add3"] = types.DWordValue(3)

	c := &scriptedConfirmer{answers: []string{"a"}}
	result, err := regsnap.Apply(s, flat, regsnap.ApplyOptions{
		Confirm: c, Logger: discardLogger(),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Applied)
	assert.Len(t, c.asked, 1, "yes-to-all must suppress later create prompts")
}

func TestApplyStickyStatesAreIndependent(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(3, 10))
	require.NoError(t, err)
	// Sorted order: "Add1" (create) precedes "Description" (update).
	flat.Entries["Add1"] = types.DWordValue(1)
	flat.Entries["Description"] = types.StringValue("changed")

	// Decline all creates, accept the update.
	c := &scriptedConfirmer{answers: []string{"q", "y"}}
	result, err := regsnap.Apply(s, flat, regsnap.ApplyOptions{
		Confirm: c, Logger: discardLogger(),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 1, countStatus(result, regsnap.StatusSkipped))
	assert.Equal(t, 1, countStatus(result, regsnap.StatusUpdated))
	assert.Equal(t, []types.PromptKind{types.PromptCreate, types.PromptUpdate}, c.asked)

	_, err = s.Value(`Software\MyApp`, "Add1")
	assert.True(t, errors.Is(err, types.ErrNotFound), "no-to-all for creates must skip the create")
}

func TestApplyPermissionDeniedDeclinedAbortsRun(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(3, 10))
	require.NoError(t, err)
	// Sorted order: AAA before Description before zzz.
	flat.Entries["AAA"] = types.DWordValue(1)
	flat.Entries["Description"] = types.StringValue("changed")
	flat.Entries["zzz"] = types.DWordValue(9)

	w := &memWriter{}
	// ForceAll answers creates/updates; the continue prompt has no sticky
	// state, and a nil Confirmer declines it.
	denied := &denyStore{Store: s, denyName: "Description"}
	result, err := regsnap.Apply(denied, flat, regsnap.ApplyOptions{
		ForceAll: true, Restore: w, Logger: discardLogger(),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrAborted))

	// The earlier create's restore line survives; nothing for the failed
	// key or anything after it.
	require.Len(t, w.lines, 1)
	assert.Equal(t, `delete "Software\\MyApp" "AAA"`, w.lines[0])
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 1, countStatus(result, regsnap.StatusFailed))

	_, err = s.Value(`Software\MyApp`, "zzz")
	assert.True(t, errors.Is(err, types.ErrNotFound), "keys after the abort point must not be processed")
}

func TestApplyPermissionDeniedAcceptedContinues(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(3, 10))
	require.NoError(t, err)
	flat.Entries["AAA"] = types.DWordValue(1)
	flat.Entries["zzz"] = types.DWordValue(9)

	denied := &denyStore{Store: s, denyName: "AAA"}
	c := &scriptedConfirmer{answers: []string{"y"}} // answer the continue prompt
	result, err := regsnap.Apply(denied, flat, regsnap.ApplyOptions{
		ForceAll: true, Confirm: c, Logger: discardLogger(),
	})
	require.NoError(t, err)

	assert.Equal(t, []types.PromptKind{types.PromptContinue}, c.asked)
	assert.Equal(t, 1, countStatus(result, regsnap.StatusFailed))
	assert.Equal(t, 1, result.Applied)

	p, err := s.Value(`Software\MyApp`, "zzz")
	require.NoError(t, err)
	assert.True(t, types.DWordValue(9).Equal(p))
}

func TestApplyOtherWriteErrorIsFatal(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(3, 10))
	require.NoError(t, err)
	flat.Entries["AAA"] = types.DWordValue(1)

	broken := &brokenStore{Store: s, failName: "AAA"}
	c := &scriptedConfirmer{}
	_, err = regsnap.Apply(broken, flat, regsnap.ApplyOptions{
		ForceAll: true, Confirm: c, Logger: discardLogger(),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrWriteFailed))
	assert.Empty(t, c.asked, "non-permission write failures must not prompt")
}

func TestApplySkipsReservedIdentityKeys(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(3, 10))
	require.NoError(t, err)
	flat.Entries["RootPath"] = types.StringValue("smuggled")
	flat.Entries["ChildName"] = types.StringValue("smuggled")

	result := forceApply(t, s, flat, nil)
	assert.Equal(t, 0, result.Applied)

	_, err = s.Value(`Software\MyApp`, "RootPath")
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestApplyRestoreOrderMatchesApplyOrder(t *testing.T) {
	s := newAppTree(t)

	flat, err := regsnap.Flatten(s, `Software\MyApp`, flattenOpts(3, 10))
	require.NoError(t, err)
	flat.Entries[`A\First`] = types.DWordValue(1)
	flat.Entries[`B\Second`] = types.DWordValue(2)
	flat.Entries["Description"] = types.StringValue("changed")

	w := &memWriter{}
	result := forceApply(t, s, flat, w)

	assert.Equal(t, 3, result.Applied)
	require.Len(t, w.lines, 3)
	assert.Contains(t, w.lines[0], `"First"`)
	assert.Contains(t, w.lines[1], `"Second"`)
	assert.Contains(t, w.lines[2], `"Description"`)
	assert.Equal(t, w.lines, result.Restore)
}
