package qs

import (
	"sort"
	"strconv"
	"strings"
)

// Encode implements spec.md §4.13's encode orchestrator: convert the root
// into a string-keyed map (sequences become index maps keyed "0"..),
// optionally run it through a function filter, optionally reorder/subset
// its keys via an iterable filter, then encode each top-level key with its
// own fresh side-channel (siblings can never be cyclic with each other).
// Fragments are joined with the configured delimiter, a query prefix and
// charset sentinel are prepended as configured.
func Encode(data Value, opts ...EncodeOption) (string, error) {
	o, err := NewEncodeOptions(opts...).normalize()
	if err != nil {
		return "", err
	}

	root := rootAsStringKeyedMap(data)

	if o.Filter != nil {
		root = o.Filter("", root)
	}
	if root.IsUndefined() {
		return "", nil
	}

	keys, m, err := topLevelKeys(root, o)
	if err != nil {
		return "", err
	}

	var fragments []string
	for _, k := range keys {
		val, ok := m.Get(k)
		if !ok {
			continue
		}
		if o.SkipNulls && val.IsNull() {
			continue
		}
		frags, err := encodeTree(k, val, o)
		if err != nil {
			return "", err
		}
		fragments = append(fragments, frags...)
	}

	var b strings.Builder
	if o.AddQueryPrefix {
		b.WriteByte('?')
	}
	if o.CharsetSentinel {
		if o.Charset == CharsetLatin1 {
			b.WriteString(sentinelLatin1)
		} else {
			b.WriteString(sentinelUTF8)
		}
		if len(fragments) > 0 {
			b.WriteString(o.Delimiter)
		}
	}
	b.WriteString(strings.Join(fragments, o.Delimiter))
	return b.String(), nil
}

// rootAsStringKeyedMap converts a top-level sequence into an index map
// keyed "0".."n-1" (spec.md §4.13); maps pass through unchanged, and a
// scalar root is wrapped so the per-root-key loop below still applies.
func rootAsStringKeyedMap(data Value) Value {
	if data.IsMap() {
		return data
	}
	if data.IsSeq() {
		m := NewMap()
		for i, it := range data.SeqVal().items {
			m.Set(strconv.Itoa(i), it)
		}
		return MapValue(m)
	}
	m := NewMap()
	if !data.IsUndefined() {
		m.Set("", data)
	}
	return MapValue(m)
}

func topLevelKeys(root Value, o *EncodeOptions) ([]string, *Map, error) {
	if !root.IsMap() {
		return nil, nil, ErrInvalidInput
	}
	m := root.MapVal()
	keys := append([]string(nil), m.keys...)
	if o.KeyFilter != nil {
		keys = o.KeyFilter("", keys)
	} else if o.Sort != nil {
		sort.SliceStable(keys, func(a, b int) bool { return o.Sort(keys[a], keys[b]) })
	}
	return keys, m, nil
}
