package qs

// stringKeyFrame is one pending container copy on the explicit normalizer
// stack: copy src's children into the already-allocated dst container.
type stringKeyFrame struct {
	src Value
	dst Value
}

// toStringKeyDeep implements spec.md §4.9 (to_string_key_deep): copies the
// internal working tree into a fresh result tree, preserving insertion
// order and identity-sharing for any subtree reachable more than once,
// using a reference-identity map from source container to destination
// container rather than a depth-bounded recursive copy. It also discards
// decode-internal bookkeeping (overflow tagging) that must never reach
// callers. Grounded on compact.go's explicit-stack shape, since
// zaytracom-qs has no direct analog (its working representation is
// already string-keyed throughout).
func toStringKeyDeep(root Value) Value {
	if !root.IsSeq() && !root.IsMap() {
		return root
	}

	seen := make(map[any]Value)

	newDst := func(src Value) Value {
		switch {
		case src.IsMap():
			return MapValue(NewMap())
		case src.IsSeq():
			return SeqValue(NewSeq())
		default:
			return src
		}
	}

	rootDst := newDst(root)
	seen[root.identity()] = rootDst

	stack := []stringKeyFrame{{src: root, dst: rootDst}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case f.src.IsMap():
			srcMap := f.src.MapVal()
			dstMap := f.dst.MapVal()
			for i, key := range srcMap.keys {
				val := srcMap.vals[i]
				dstMap.Set(key, resolveChild(val, seen, newDst, &stack))
			}

		case f.src.IsSeq():
			srcSeq := f.src.SeqVal()
			dstSeq := f.dst.SeqVal()
			for _, it := range srcSeq.items {
				dstSeq.Append(resolveChild(it, seen, newDst, &stack))
			}
		}
	}

	return rootDst
}

// resolveChild returns the destination Value for a child, allocating and
// queuing a fresh container copy the first time its source identity is
// seen, and reusing the prior mapping (preserving shared/self-reference
// identity) on every subsequent occurrence.
func resolveChild(src Value, seen map[any]Value, newDst func(Value) Value, stack *[]stringKeyFrame) Value {
	if !src.IsSeq() && !src.IsMap() {
		return src
	}
	id := src.identity()
	if dst, ok := seen[id]; ok {
		return dst
	}
	dst := newDst(src)
	seen[id] = dst
	*stack = append(*stack, stringKeyFrame{src: src, dst: dst})
	return dst
}
