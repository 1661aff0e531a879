package types_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bwright86/RegistryTools/pkg/types"
)

func TestPayloadEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b types.Payload
		want bool
	}{
		{"equal strings", types.StringValue("x"), types.StringValue("x"), true},
		{"different strings", types.StringValue("x"), types.StringValue("y"), false},
		{"equal dwords", types.DWordValue(5), types.DWordValue(5), true},
		{"different dwords", types.DWordValue(5), types.DWordValue(6), false},
		{"equal arrays", types.MultiStringValue("a", "b"), types.MultiStringValue("a", "b"), true},
		{"different array order", types.MultiStringValue("a", "b"), types.MultiStringValue("b", "a"), false},
		{"different array length", types.MultiStringValue("a"), types.MultiStringValue("a", "b"), false},
		{"kind mismatch", types.StringValue("5"), types.DWordValue(5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestParseValueKind(t *testing.T) {
	for in, want := range map[string]types.ValueKind{
		"string":   types.KindString,
		"REG_SZ":   types.KindString,
		"dword":    types.KindDWord,
		"multi_sz": types.KindMultiString,
	} {
		got, err := types.ParseValueKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := types.ParseValueKind("binary")
	assert.Error(t, err)
}

func TestPayloadYAMLRoundTrip(t *testing.T) {
	in := map[string]types.Payload{
		"desc":    types.StringValue("A test app"),
		"retries": types.DWordValue(42),
		"sources": types.MultiStringValue("a", "b"),
	}

	data, err := yaml.Marshal(in)
	require.NoError(t, err)

	var out map[string]types.Payload
	require.NoError(t, yaml.Unmarshal(data, &out))

	require.Len(t, out, len(in))
	for name, p := range in {
		assert.True(t, p.Equal(out[name]), "payload %q changed across the round trip", name)
	}
}

func TestErrorKindMatching(t *testing.T) {
	wrapped := types.NotFoundf("key not found: Software", types.ErrNotFound)
	assert.True(t, errors.Is(wrapped, types.ErrNotFound))
	assert.False(t, errors.Is(wrapped, types.ErrPermissionDenied))

	var typed *types.Error
	require.True(t, errors.As(wrapped, &typed))
	assert.Equal(t, types.ErrKindNotFound, typed.Kind)
}
