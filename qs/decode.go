package qs

// Decode implements spec.md §4.13's decode orchestrator: tokenize into
// pairs, key-path-segment and synthesize each pair into its own small
// object, iteratively merge all of them into one accumulator, and finish
// with compaction and string-key normalization.
//
// input must be a string (the common case: a raw query string), a
// map[string]string (pre-split pairs), or a [][2]string (ordered key/value
// pairs, for callers that already parsed the wire themselves and need
// duplicates-policy handling over it). Anything else is ErrInvalidInput.
func Decode(input any, opts ...DecodeOption) (Value, error) {
	o, err := NewDecodeOptions(opts...).normalize()
	if err != nil {
		return Value{}, err
	}

	raw, err := pairsFromInput(input, o)
	if err != nil {
		return Value{}, err
	}
	if len(raw) == 0 {
		return MapValue(NewMap()), nil
	}

	result, err := decodePairs(raw, o)
	if err != nil {
		return Value{}, err
	}

	if o.ParseLists {
		if m := result.MapVal(); m != nil && m.Len() > o.ListLimit {
			guarded := *o
			guarded.ParseLists = false
			result, err = decodePairs(raw, &guarded)
			if err != nil {
				return Value{}, err
			}
		}
	}

	result = compact(result, o.AllowSparseLists)
	return toStringKeyDeep(result), nil
}

// decodePairs runs the per-pair synthesize-then-merge loop once under the
// given options.
func decodePairs(raw []pair, o *DecodeOptions) (Value, error) {
	acc := MapValue(NewMap())
	for _, p := range raw {
		segments, err := SegmentKey(p.key, o.AllowDots, o.Depth, o.StrictDepth)
		if err != nil {
			return Value{}, err
		}
		obj := synthesizeObject(segments, p.val, o)
		acc, err = mergeInto(acc, obj, o)
		if err != nil {
			return Value{}, err
		}
	}
	return acc, nil
}

// pairsFromInput normalizes any accepted input shape to tokenized pairs.
func pairsFromInput(input any, o *DecodeOptions) ([]pair, error) {
	switch v := input.(type) {
	case string:
		if v == "" {
			return nil, nil
		}
		return tokenizePairs(v, o)

	case map[string]string:
		pairs := make([]pair, 0, len(v))
		for k, val := range v {
			pairs = append(pairs, pair{key: k, val: String(val)})
		}
		return bucketDuplicates(pairs, o)

	case [][2]string:
		pairs := make([]pair, 0, len(v))
		for _, kv := range v {
			pairs = append(pairs, pair{key: kv[0], val: String(kv[1])})
		}
		return bucketDuplicates(pairs, o)

	default:
		return nil, ErrInvalidInput
	}
}

// bucketDuplicates applies the Duplicates policy over pre-split pairs, the
// same way tokenizePairs does for raw wire input (spec.md §4.13: "the
// orchestrator buckets decoded key tokens and applies duplicates policy
// before parsing").
func bucketDuplicates(pairs []pair, o *DecodeOptions) ([]pair, error) {
	order := make([]string, 0, len(pairs))
	data := make(map[string]*pair, len(pairs))
	for _, p := range pairs {
		if existing, ok := data[p.key]; ok {
			switch o.Duplicates {
			case DuplicatesFirst:
			case DuplicatesLast:
				existing.val = p.val
			default:
				combined, err := combineValues(existing.val, p.val, o)
				if err != nil {
					return nil, err
				}
				existing.val = combined
			}
			continue
		}
		order = append(order, p.key)
		cp := p
		data[p.key] = &cp
	}
	out := make([]pair, 0, len(order))
	for _, k := range order {
		out = append(out, *data[k])
	}
	return out, nil
}
