package qs

import "strings"

// pair is one decoded (key, value) unit, in first-occurrence order, ready
// for SegmentKey + the object synthesizer.
type pair struct {
	key string
	val Value
}

// dotMask is a private-use-area placeholder standing in for a masked
// "%2E"/"%2e" escape while the rest of a key is percent-decoded and passed
// through the allow_dots dot-to-bracket rewrite. It can never occur in
// real wire input, so it is safe to round-trip through regexp matching.
const dotMask = ""

// tokenizePairs implements spec.md §4.4 (parse_query_string_values): split
// the input by the configured delimiter, resolve the charset sentinel,
// and decode each key/value pair, applying the Duplicates policy keyed on
// the raw (bracket-normalized, pre-decode) key text.
func tokenizePairs(input string, opts *DecodeOptions) ([]pair, error) {
	if opts.IgnoreQueryPrefix {
		input = strings.TrimPrefix(input, "?")
	}

	raw := opts.Delimiter.Split(input)
	if opts.ParameterLimit > 0 {
		limit := opts.ParameterLimit
		if opts.ThrowOnLimitExceeded {
			if len(raw) > limit {
				return nil, ErrParameterLimitExceeded
			}
		} else if len(raw) > limit {
			raw = raw[:limit]
		}
	}

	charset := opts.Charset
	sentinelIdx := -1
	if opts.CharsetSentinel {
		for i, p := range raw {
			if !strings.HasPrefix(p, "utf8=") {
				continue
			}
			switch p {
			case sentinelUTF8:
				charset = CharsetUTF8
				sentinelIdx = i
			case sentinelLatin1:
				charset = CharsetLatin1
				sentinelIdx = i
			}
			break
		}
	}
	if charset != opts.Charset {
		resolved := *opts
		resolved.Charset = charset
		opts = &resolved
	}

	order := make([]string, 0, len(raw))
	data := make(map[string]*pair, len(raw))

	for i, p := range raw {
		if i == sentinelIdx || p == "" {
			continue
		}

		rawKey, rawVal, hasEquals := splitPair(p)
		rawKey = normalizeBracketEscapes(rawKey)

		if opts.StrictMode {
			if err := validateKeySyntax(rawKey, opts.AllowDots); err != nil {
				return nil, err
			}
			if err := validatePercentEncoding(rawKey); err != nil {
				return nil, err
			}
			if hasEquals {
				if err := validatePercentEncoding(rawVal); err != nil {
					return nil, err
				}
			}
		}

		decodedKey, err := decodeKey(rawKey, charset, opts)
		if err != nil {
			return nil, err
		}

		val, err := decodePairValue(rawVal, hasEquals, charset, opts)
		if err != nil {
			return nil, err
		}

		if strings.HasSuffix(rawKey, "[]") {
			if s := val.SeqVal(); val.IsSeq() && s != nil {
				wrapped := NewSeq()
				wrapped.Append(val)
				val = SeqValue(wrapped)
			}
		}

		if existing, ok := data[rawKey]; ok {
			switch opts.Duplicates {
			case DuplicatesFirst:
				// keep existing
			case DuplicatesLast:
				existing.val = val
			default:
				combined, err := combineValues(existing.val, val, opts)
				if err != nil {
					return nil, err
				}
				existing.val = combined
			}
			continue
		}

		order = append(order, rawKey)
		data[rawKey] = &pair{key: decodedKey, val: val}
	}

	result := make([]pair, 0, len(order))
	for _, k := range order {
		result = append(result, *data[k])
	}
	return result, nil
}

// splitPair splits on the first "]=" (keeping the "]") when present,
// otherwise on the first "=". Absence of "=" means key-only.
func splitPair(s string) (key, val string, hasEquals bool) {
	if i := strings.Index(s, "]="); i >= 0 {
		return s[:i+1], s[i+2:], true
	}
	if i := strings.IndexByte(s, '='); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

// normalizeBracketEscapes replaces %5B/%5D (either case) with literal
// "["/"]" for key-splitting purposes only, per spec.md §4.4 step 2.
func normalizeBracketEscapes(s string) string {
	if !strings.Contains(s, "%5") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '%' && i+2 < len(s) && s[i+1] == '5' {
			switch s[i+2] {
			case 'B', 'b':
				b.WriteByte('[')
				i += 3
				continue
			case 'D', 'd':
				b.WriteByte(']')
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// decodeKey decodes a whole bracket-normalized raw key with the kind-aware
// decoder, masking literal "%2E"/"%2e" escapes first so they survive as a
// placeholder rather than becoming a real "." -- the object synthesizer
// (synthesize.go) later resolves the placeholder per DecodeDotInKeys.
func decodeKey(rawKey string, charset Charset, opts *DecodeOptions) (string, error) {
	if opts.DecodeDotInKeys && !opts.AllowDots {
		return "", ErrKeyDecoderInvariant
	}
	masked := maskDotEscapes(rawKey)
	v, err := opts.decodeScalar(masked, DecodeKindKey)
	if err != nil {
		return "", err
	}
	if v.IsNull() {
		return "", nil
	}
	return v.Str(), nil
}

func maskDotEscapes(s string) string {
	if !strings.Contains(s, "%2") {
		return s
	}
	s = strings.ReplaceAll(s, "%2E", dotMask)
	s = strings.ReplaceAll(s, "%2e", dotMask)
	return s
}

// decodePairValue decodes the value half of a pair: key-only pairs become
// ""/null per StrictNullHandling; comma-bearing values become a Seq of
// decoded parts (enforcing ListLimit); everything else is a single
// decoded scalar. Numeric-entity interpretation runs over the decoded
// result when the charset is Latin-1 and InterpretNumericEntities is set.
func decodePairValue(rawVal string, hasEquals bool, charset Charset, opts *DecodeOptions) (Value, error) {
	if !hasEquals {
		if opts.StrictNullHandling {
			return Null(), nil
		}
		return String(""), nil
	}

	if opts.Comma && strings.Contains(rawVal, ",") {
		parts := strings.Split(rawVal, ",")
		if opts.ListLimit >= 0 && len(parts) > opts.ListLimit {
			if opts.ThrowOnLimitExceeded {
				return Value{}, ErrListLimitExceeded
			}
			parts = parts[:opts.ListLimit]
		}
		seq := NewSeq()
		for _, p := range parts {
			v, err := opts.decodeScalar(p, DecodeKindValue)
			if err != nil {
				return Value{}, err
			}
			if opts.InterpretNumericEntities && charset == CharsetLatin1 && v.Kind() == KindString {
				v = String(interpretNumericEntities(v.Str()))
			}
			seq.Append(v)
		}
		return SeqValue(seq), nil
	}

	v, err := opts.decodeScalar(rawVal, DecodeKindValue)
	if err != nil {
		return Value{}, err
	}
	if opts.InterpretNumericEntities && charset == CharsetLatin1 && v.Kind() == KindString {
		v = String(interpretNumericEntities(v.Str()))
	}
	return v, nil
}

// combineValues implements the Duplicates=Combine policy: concatenate
// into a list. A result longer than ListLimit raises ErrListLimitExceeded
// under ThrowOnLimitExceeded; otherwise it is returned at full length, not
// truncated and not converted to an overflow map.
func combineValues(existing, next Value, opts *DecodeOptions) (Value, error) {
	combined := NewSeq()
	switch {
	case existing.IsSeq():
		combined.items = append(combined.items, existing.SeqVal().items...)
	default:
		combined.Append(existing)
	}
	switch {
	case next.IsSeq():
		combined.items = append(combined.items, next.SeqVal().items...)
	default:
		combined.Append(next)
	}
	if opts.ListLimit >= 0 && combined.Len() > opts.ListLimit && opts.ThrowOnLimitExceeded {
		return Value{}, ErrListLimitExceeded
	}
	return SeqValue(combined), nil
}
