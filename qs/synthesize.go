package qs

import "strings"

// synthesizeObject implements spec.md §4.5 (parse_object): builds a single
// nested Value representing one decoded pair, wrapping the leaf value
// right-to-left over its key segments. Grounded on zaytracom-qs's
// parseObject, generalized to the ordered Value tree (Undefined holes
// instead of nil-padded slices, no plain map[string]any).
func synthesizeObject(segments []string, leaf Value, opts *DecodeOptions) Value {
	cur := leaf
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if seg == "[]" {
			if opts.ParseLists && opts.ListLimit >= 0 {
				cur = wrapEmptyBracket(cur, opts)
				continue
			}
			// parse_lists=false or list_limit<0: "[]" becomes a map
			// keyed "0", per spec.md §4.5's closing rule.
			m := NewMap()
			m.Set("0", cur)
			cur = MapValue(m)
			continue
		}

		inner, isBracket := bracketInner(seg)
		if !isBracket {
			// Bare parent: a plain string key into a map (possibly the
			// empty string, per spec.md §8 scenario 9).
			m := NewMap()
			m.Set(seg, cur)
			cur = MapValue(m)
			continue
		}

		decodedKey := resolveDotMask(inner, opts.DecodeDotInKeys)

		if opts.ParseLists && opts.ListLimit >= 0 && IsIndexKey(decodedKey) {
			idx := parseIndexKey(decodedKey)
			if idx >= 0 && idx <= opts.ListLimit {
				s := NewSeq()
				s.Set(idx, cur)
				cur = SeqValue(s)
				continue
			}
		}

		m := NewMap()
		m.Set(decodedKey, cur)
		cur = MapValue(m)
	}
	return cur
}

// wrapEmptyBracket handles a trailing "[]" segment: an empty list when
// AllowEmptyLists applies to an empty/null leaf, a new list holding the
// elements of a list leaf, otherwise a one-element list wrapping the leaf.
func wrapEmptyBracket(leaf Value, opts *DecodeOptions) Value {
	isEmptyLeaf := (leaf.Kind() == KindString && leaf.Str() == "") ||
		(opts.StrictNullHandling && leaf.IsNull())
	if opts.AllowEmptyLists && isEmptyLeaf {
		return SeqValue(NewSeq())
	}
	s := NewSeq()
	if leaf.IsSeq() {
		s.items = append(s.items, leaf.SeqVal().items...)
		return SeqValue(s)
	}
	s.Append(leaf)
	return SeqValue(s)
}

// bracketInner reports whether seg is a bracketed "[...]" form (excluding
// the bare "[]" case, handled separately) and returns its inner text.
func bracketInner(seg string) (string, bool) {
	if len(seg) < 2 || seg[0] != '[' || seg[len(seg)-1] != ']' {
		return "", false
	}
	return seg[1 : len(seg)-1], true
}

// resolveDotMask turns the dotMask placeholder left by tokenizer.go's key
// decode back into either a literal "." (DecodeDotInKeys) or the literal
// 3-character escape "%2E" it stood in for.
func resolveDotMask(s string, decodeDotInKeys bool) string {
	if !strings.Contains(s, dotMask) {
		return s
	}
	if decodeDotInKeys {
		return strings.ReplaceAll(s, dotMask, ".")
	}
	return strings.ReplaceAll(s, dotMask, "%2E")
}

func parseIndexKey(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
		if n > 1<<30 {
			return -1
		}
	}
	return n
}
