package qs

import (
	"sort"
	"strconv"
	"strings"
)

// encodeFrame is one node in the iterative encoder traversal of spec.md
// §4.10: Start (transform/leaf-emit) -> Iterate <-> AwaitChild -> frame
// completion. Children write their finished fragment list into this
// frame's childSlots at a fixed index (the "deferred-assignment slot"
// spec.md §9 describes), so completion order on the work-stack need not
// match child order.
type encodeFrame struct {
	value Value
	path  *keyPathNode

	containerID     any
	results         []string
	childSlots      [][]string
	pendingChildren int

	parent    *encodeFrame
	slotIndex int
}

// encodeState is the mutable context threaded through one top-level root
// key's traversal: its own side-channel (fresh per root, per spec.md
// §4.13) and the shared options.
type encodeState struct {
	opts    *EncodeOptions
	channel *sideChannel
}

// encodeTree runs the iterative traversal for one root value under key,
// returning its flattened fragment list.
func encodeTree(key string, value Value, opts *EncodeOptions) ([]string, error) {
	st := &encodeState{opts: opts, channel: newSideChannel()}
	root := &encodeFrame{value: value, path: rootKeyPath(key)}

	var finalResult []string
	finalize := func(start *encodeFrame) {
		f := start
		for {
			combined := flatten(f)
			if f.containerID != nil {
				st.channel.exit(f.containerID)
			}
			if f.parent == nil {
				finalResult = combined
				return
			}
			p := f.parent
			p.childSlots[f.slotIndex] = combined
			p.pendingChildren--
			if p.pendingChildren > 0 {
				return
			}
			f = p
		}
	}

	stack := []*encodeFrame{root}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := processStart(f, st)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			finalize(f)
			continue
		}
		f.pendingChildren = len(children)
		f.childSlots = make([][]string, len(children))
		for _, c := range children {
			stack = append(stack, c)
		}
	}

	return finalResult, nil
}

func flatten(f *encodeFrame) []string {
	out := f.results
	for _, slot := range f.childSlots {
		out = append(out, slot...)
	}
	return out
}

// processStart runs spec.md §4.10's Start-phase logic for one frame and,
// for containers, spawns the Iterate-phase's child frames. It returns the
// child frames to push (empty when the frame resolved to a direct leaf
// fragment or dropped entirely).
func processStart(f *encodeFrame, st *encodeState) ([]*encodeFrame, error) {
	opts := st.opts
	value := f.value

	if opts.Filter != nil {
		value = opts.Filter(f.path.materialize(), value)
	}

	if value.Kind() == KindTime {
		value = String(opts.defaultDateSerializer(value.TimeVal()))
	}

	if value.IsUndefined() {
		return nil, nil
	}

	if value.IsSeq() || value.IsMap() {
		id := value.identity()
		if !st.channel.enter(id) {
			return nil, ErrCyclicValue
		}
		f.containerID = id
	}

	nullish := value.IsNull()
	if nullish {
		if opts.StrictNullHandling {
			frag, err := leafFragmentKeyOnly(f.path, opts)
			if err != nil {
				return nil, err
			}
			f.results = []string{frag}
			return nil, nil
		}
		value = String("")
	}

	if value.IsScalar() {
		frag, err := leafFragment(f.path, value, opts)
		if err != nil {
			return nil, err
		}
		f.results = []string{frag}
		return nil, nil
	}

	if value.IsSeq() {
		return iterateSeq(f, value.SeqVal(), opts)
	}
	if value.IsMap() {
		return iterateMap(f, value.MapVal(), opts)
	}
	return nil, nil
}

func iterateSeq(f *encodeFrame, seq *Seq, opts *EncodeOptions) ([]*encodeFrame, error) {
	if seq.Len() == 0 {
		if opts.AllowEmptyLists {
			prefixText := f.path.materialize()
			if opts.EncodeDotInKeys {
				prefixText = f.path.dotEncoded()
			}
			keyText := prefixText + "[]"
			var key string
			var err error
			if !opts.EncodeValuesOnly && opts.Encoder != nil {
				key, err = opts.Encoder(String(keyText), opts.Charset, opts.Format)
				if err != nil {
					return nil, err
				}
			} else {
				key = fmtEncodedKey(keyText, opts)
			}
			f.results = []string{key}
		}
		return nil, nil
	}

	// basePath is the (possibly dot-encoded, possibly comma-round-trip-
	// suffixed) prefix children are chained onto via child(), so a deep
	// traversal never re-materializes the accumulated prefix at every
	// level (spec.md §4.12).
	basePath := f.path
	if opts.EncodeDotInKeys {
		basePath = rootKeyPath(f.path.dotEncoded())
	}
	if opts.CommaRoundTrip && seq.Len() == 1 {
		basePath = basePath.child("[]")
	}

	if opts.ListFormat == ListFormatComma {
		frag, err := commaJoinedFragment(basePath.materialize(), seq, opts)
		if err != nil {
			return nil, err
		}
		f.results = []string{frag}
		return nil, nil
	}

	children := make([]*encodeFrame, 0, seq.Len())
	for i, item := range seq.items {
		if opts.SkipNulls && item.IsNull() {
			continue
		}
		childPath := basePath
		if seg := opts.ListFormat.generator(i); seg != "" {
			childPath = basePath.child(seg)
		}
		child := &encodeFrame{
			value:     item,
			path:      childPath,
			parent:    f,
			slotIndex: len(children),
		}
		children = append(children, child)
	}
	return children, nil
}

func iterateMap(f *encodeFrame, m *Map, opts *EncodeOptions) ([]*encodeFrame, error) {
	keys := append([]string(nil), m.keys...)
	if opts.KeyFilter != nil {
		keys = opts.KeyFilter(f.path.materialize(), keys)
	} else if opts.Sort != nil {
		sort.SliceStable(keys, func(a, b int) bool { return opts.Sort(keys[a], keys[b]) })
	}

	basePath := f.path
	if opts.EncodeDotInKeys {
		basePath = rootKeyPath(f.path.dotEncoded())
	}

	children := make([]*encodeFrame, 0, len(keys))
	for _, key := range keys {
		val, ok := m.Get(key)
		if !ok {
			continue
		}
		if opts.SkipNulls && val.IsNull() {
			continue
		}
		child := &encodeFrame{
			value:     val,
			path:      basePath.child(mapChildSegment(key, opts)),
			parent:    f,
			slotIndex: len(children),
		}
		children = append(children, child)
	}
	return children, nil
}

// mapChildSegment renders the key-path segment a map child appends to its
// parent's (already dot-encoded, if applicable) prefix.
func mapChildSegment(key string, opts *EncodeOptions) string {
	if opts.AllowDots {
		dotted := key
		if opts.EncodeDotInKeys {
			dotted = strings.ReplaceAll(dotted, ".", "%2E")
		}
		return "." + dotted
	}
	return "[" + key + "]"
}

// commaJoinedFragment implements the ListFormatComma branch of spec.md
// §4.10's Iterate-phase: elements are individually stringified (dropping
// Null entries first under comma_compact_nulls), joined with ",", and
// emitted as one fragment. Under encode_values_only each element is
// percent-encoded before joining rather than joining then encoding, since
// a single encode pass over the joined blob would also escape the
// separating commas.
func commaJoinedFragment(prefix string, seq *Seq, opts *EncodeOptions) (string, error) {
	items := seq.items
	if opts.CommaCompactNulls {
		filtered := make([]Value, 0, len(items))
		for _, it := range items {
			if it.IsNull() {
				continue
			}
			filtered = append(filtered, it)
		}
		items = filtered
	}

	parts := make([]string, 0, len(items))
	for _, it := range items {
		if it.IsUndefined() {
			continue
		}
		v := it
		if v.Kind() == KindTime {
			v = String(opts.defaultDateSerializer(v.TimeVal()))
		}
		if v.IsNull() {
			v = String("")
		}
		s, err := stringifyValueForEncode(v, opts)
		if err != nil {
			return "", err
		}
		if opts.EncodeValuesOnly && opts.Encode {
			s = percentEncode(s, opts.Charset, opts.Format)
		}
		parts = append(parts, s)
	}
	joined := strings.Join(parts, ",")

	key := prefix
	if !opts.EncodeValuesOnly && opts.Encode {
		// Elements are only pre-encoded individually (above) under
		// encode_values_only; otherwise encode the joined blob in one pass,
		// same as a plain scalar leaf.
		key = percentEncode(key, opts.Charset, opts.Format)
		joined = percentEncode(joined, opts.Charset, opts.Format)
	}
	return key + "=" + joined, nil
}

func leafFragmentKeyOnly(path *keyPathNode, opts *EncodeOptions) (string, error) {
	keyText := path.materialize()
	if opts.EncodeValuesOnly {
		return keyText, nil
	}
	if opts.Encoder != nil {
		return opts.Encoder(String(keyText), opts.Charset, opts.Format)
	}
	return fmtEncodedKey(keyText, opts), nil
}

func leafFragment(path *keyPathNode, value Value, opts *EncodeOptions) (string, error) {
	keyText := path.materialize()
	var key string
	var err error
	if !opts.EncodeValuesOnly && opts.Encoder != nil {
		key, err = opts.Encoder(String(keyText), opts.Charset, opts.Format)
		if err != nil {
			return "", err
		}
	} else {
		key = fmtEncodedKey(keyText, opts)
	}

	var valText string
	if opts.Encoder != nil {
		valText, err = opts.Encoder(value, opts.Charset, opts.Format)
		if err != nil {
			return "", err
		}
	} else {
		valText, err = stringifyValueForEncode(value, opts)
		if err != nil {
			return "", err
		}
		if opts.Encode {
			valText = percentEncode(valText, opts.Charset, opts.Format)
		}
	}
	return key + "=" + valText, nil
}

// fmtEncodedKey applies key-half encoding: percent-encoded unless
// encode_values_only suppresses it.
func fmtEncodedKey(keyText string, opts *EncodeOptions) string {
	if opts.EncodeValuesOnly {
		return keyText
	}
	if !opts.Encode {
		return keyText
	}
	return percentEncode(keyText, opts.Charset, opts.Format)
}

// stringifyValueForEncode renders a scalar Value to its wire text, before
// any percent-encoding pass.
func stringifyValueForEncode(v Value, opts *EncodeOptions) (string, error) {
	switch v.Kind() {
	case KindString:
		return v.Str(), nil
	case KindBool:
		if v.BoolVal() {
			return "true", nil
		}
		return "false", nil
	case KindInt:
		return strconv.FormatInt(v.IntVal(), 10), nil
	case KindFloat:
		return strconv.FormatFloat(v.FloatVal(), 'g', -1, 64), nil
	case KindBytes:
		return stringifyBytes(v.BytesVal(), opts.Charset), nil
	default:
		return "", nil
	}
}
