package qs

// compactJob is one pending container to visit on the explicit compaction
// stack, per spec.md §4.8's iterative mandate.
type compactJob struct {
	v Value
}

// compact implements spec.md §4.8 (compact): walks the tree dropping
// Undefined holes from maps entirely and, in sequences, either dropping
// them (the default) or leaving them as explicit nulls when
// AllowSparseLists is set. A visited set keyed on container identity
// guards against infinite loops on a self-referential tree without ever
// cloning a container. Grounded on zaytracom-qs's recursive Compact /
// compactSlice / compactMap, converted to an explicit work-stack.
func compact(root Value, allowSparseLists bool) Value {
	visited := make(map[any]bool)
	stack := []compactJob{{v: root}}

	for len(stack) > 0 {
		job := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := job.v.identity()
		if id != nil {
			if visited[id] {
				continue
			}
			visited[id] = true
		}

		switch {
		case job.v.IsMap():
			m := job.v.MapVal()
			for _, k := range append([]string(nil), m.keys...) {
				val, _ := m.Get(k)
				if val.IsUndefined() {
					m.Delete(k)
					continue
				}
				if val.IsSeq() || val.IsMap() {
					stack = append(stack, compactJob{v: val})
				}
			}

		case job.v.IsSeq():
			s := job.v.SeqVal()
			if allowSparseLists {
				for i, it := range s.items {
					if it.IsUndefined() {
						s.items[i] = Null()
					} else if it.IsSeq() || it.IsMap() {
						stack = append(stack, compactJob{v: it})
					}
				}
			} else {
				out := s.items[:0:0]
				for _, it := range s.items {
					if it.IsUndefined() {
						continue
					}
					if it.IsSeq() || it.IsMap() {
						stack = append(stack, compactJob{v: it})
					}
					out = append(out, it)
				}
				s.items = out
			}
		}
	}

	return root
}
