package qs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRoundTripSimpleMap checks that decode(encode(m)) reproduces m for a
// plain nested structure with no lossy options in play.
func TestRoundTripSimpleMap(t *testing.T) {
	m := NewMap()
	m.Set("a", String("1"))
	inner := NewMap()
	inner.Set("b", String("2"))
	inner.Set("c", String("3"))
	m.Set("nested", MapValue(inner))

	encoded, err := Encode(MapValue(m))
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"a": "1",
		"nested": map[string]any{
			"b": "2",
			"c": "3",
		},
	}, toPlain(decoded))
}

// TestRoundTripList checks lists survive a default-format round trip.
func TestRoundTripList(t *testing.T) {
	s := NewSeq()
	s.Append(String("x"))
	s.Append(String("y"))
	s.Append(String("z"))
	m := NewMap()
	m.Set("list", SeqValue(s))

	encoded, err := Encode(MapValue(m))
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"list": []any{"x", "y", "z"},
	}, toPlain(decoded))
}

// TestDecodePreservesKeyInsertionOrder checks that a decoded top-level map's
// keys come back in the order they first appeared on the wire, per the
// insertion-ordered Map container's contract.
func TestDecodePreservesKeyInsertionOrder(t *testing.T) {
	got, err := Decode("z=1&a=2&m=3")
	require.NoError(t, err)

	want := []string{"z", "a", "m"}
	assert.Equal(t, want, got.MapVal().Keys())
}

// TestMergeOfDisjointTopLevelKeysIsOrderIndependent checks that merging two
// maps whose key sets do not overlap produces the same result regardless of
// which side is the merge target.
func TestMergeOfDisjointTopLevelKeysIsOrderIndependent(t *testing.T) {
	left := NewMap()
	left.Set("a", String("1"))
	right := NewMap()
	right.Set("b", String("2"))

	ab, err := mergeInto(MapValue(left), MapValue(right), DefaultDecodeOptions())
	require.NoError(t, err)

	left2 := NewMap()
	left2.Set("a", String("1"))
	right2 := NewMap()
	right2.Set("b", String("2"))

	ba, err := mergeInto(MapValue(right2), MapValue(left2), DefaultDecodeOptions())
	require.NoError(t, err)

	assert.Equal(t, toPlain(ab), toPlain(ba))
}

// TestCharsetFidelityLatin1RoundTrip checks a Latin-1-range character
// survives an encode with CharsetLatin1 followed by a decode with the same
// charset.
func TestCharsetFidelityLatin1RoundTrip(t *testing.T) {
	m := NewMap()
	m.Set("name", String("café"))

	encoded, err := Encode(MapValue(m), WithEncodeCharset(CharsetLatin1))
	require.NoError(t, err)

	decoded, err := Decode(encoded, WithDecodeCharset(CharsetLatin1))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"name": "café"}, toPlain(decoded))
}

// TestFullDecodeAcceptanceScenarios exercises the concrete end-to-end
// scenarios together through the public Decode entry point rather than
// internal helpers, confirming decode.go's orchestration (segment,
// synthesize, merge, compact, to-string-key) produces the right shape.
func TestFullDecodeAcceptanceScenarios(t *testing.T) {
	t.Run("nested brackets", func(t *testing.T) {
		got, err := Decode("a[b][c]=d")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"a": map[string]any{"b": map[string]any{"c": "d"}},
		}, toPlain(got))
	})

	t.Run("indexed list within limit", func(t *testing.T) {
		got, err := Decode("a[0]=x&a[1]=y")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": []any{"x", "y"}}, toPlain(got))
	})

	t.Run("empty key trailing bracket append", func(t *testing.T) {
		got, err := Decode("a[]=x&a[]=y")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": []any{"x", "y"}}, toPlain(got))
	})

	t.Run("empty input", func(t *testing.T) {
		got, err := Decode("")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{}, toPlain(got))
	})
}
