package qs

import "strconv"

// mergeJob is one pending unit of work on the explicit merge stack: merge
// source into target and hand the result to set. Using an explicit stack
// (rather than a recursive call) is required by spec.md §4.7 so arbitrarily
// deep decoded trees cannot overflow the Go call stack.
type mergeJob struct {
	target Value
	source Value
	set    func(Value)
}

// mergeInto implements spec.md §4.7's iterative deep merge: the case
// matrix of target/source kind combinations, list<->map promotion, and
// overflow-map numbering. Grounded on zaytracom-qs's recursive Merge, with
// the recursion replaced by an explicit work-stack per the spec mandate,
// and generalized to the ordered Value/Undefined model that library's
// plain map[string]any/[]any cannot express.
func mergeInto(target, source Value, opts *DecodeOptions) (Value, error) {
	var result Value
	var mergeErr error

	stack := []mergeJob{{target: target, source: source, set: func(v Value) { result = v }}}

	for len(stack) > 0 {
		job := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, merged, err := mergeStep(job.target, job.source, opts)
		if err != nil {
			mergeErr = err
			break
		}
		job.set(merged)
		stack = append(stack, children...)
	}

	if mergeErr != nil {
		return Value{}, mergeErr
	}
	return result, nil
}

// mergeStep resolves one (target, source) pair to its immediate merged
// value, plus zero or more child jobs for collisions that still need
// recursive merging. Container targets are mutated in place and returned
// unchanged (by identity) rather than rebuilt, which is also what keeps
// self-referential maps intact without cloning (spec.md §4.5, §4.7).
func mergeStep(target, source Value, opts *DecodeOptions) ([]mergeJob, Value, error) {
	if source.IsUndefined() {
		return nil, target, nil
	}

	if target.IsUndefined() || target.IsNull() {
		return nil, source, nil
	}

	switch {
	case target.IsScalar():
		return mergeFromScalarTarget(target, source)
	case target.IsSeq():
		return mergeFromSeqTarget(target, source, opts)
	case target.IsMap():
		return mergeFromMapTarget(target, source, opts)
	}
	return nil, source, nil
}

func mergeFromScalarTarget(target, source Value) ([]mergeJob, Value, error) {
	switch {
	case source.IsSeq():
		out := NewSeq()
		out.Append(target)
		for _, it := range source.SeqVal().items {
			if !it.IsUndefined() {
				out.Append(it)
			}
		}
		return nil, SeqValue(out), nil
	default:
		out := NewSeq()
		out.Append(target)
		out.Append(source)
		return nil, SeqValue(out), nil
	}
}

func mergeFromSeqTarget(target, source Value, opts *DecodeOptions) ([]mergeJob, Value, error) {
	seq := target.SeqVal()

	switch {
	case source.IsMap():
		promoted := promoteSeqToMap(seq)
		return mergeFromMapTarget(MapValue(promoted), source, opts)

	case source.IsSeq():
		srcSeq := source.SeqVal()
		if allMapsOrUndefined(seq) && allMapsOrUndefined(srcSeq) {
			var jobs []mergeJob
			for i, it := range srcSeq.items {
				if it.IsUndefined() {
					continue
				}
				if i < seq.Len() && !seq.Get(i).IsUndefined() {
					idx := i
					jobs = append(jobs, mergeJob{
						target: seq.Get(i),
						source: it,
						set:    func(v Value) { seq.Set(idx, v) },
					})
				} else {
					seq.Set(i, it)
				}
			}
			return jobs, target, nil
		}
		for _, it := range srcSeq.items {
			if !it.IsUndefined() {
				seq.Append(it)
			}
		}
		return nil, target, nil

	default: // scalar or null source
		if seq.HasUndefined() {
			promoted := promoteSeqToMap(seq)
			return mergeFromMapTarget(MapValue(promoted), source, opts)
		}
		seq.Append(source)
		return nil, target, nil
	}
}

func mergeFromMapTarget(target, source Value, opts *DecodeOptions) ([]mergeJob, Value, error) {
	m := target.MapVal()

	switch {
	case source.IsMap():
		srcMap := source.MapVal()
		var jobs []mergeJob
		for i, key := range srcMap.keys {
			val := srcMap.vals[i]
			if existing, ok := m.Get(key); ok {
				k := key
				jobs = append(jobs, mergeJob{
					target: existing,
					source: val,
					set:    func(v Value) { m.Set(k, v) },
				})
			} else {
				m.Set(key, val)
			}
		}
		return jobs, target, nil

	case source.IsSeq():
		for _, it := range source.SeqVal().items {
			if it.IsUndefined() {
				continue
			}
			if err := appendIndexed(m, it, opts); err != nil {
				return nil, Value{}, err
			}
		}
		return nil, target, nil

	default: // scalar or null source
		if err := appendIndexed(m, source, opts); err != nil {
			return nil, Value{}, err
		}
		return nil, target, nil
	}
}

// appendIndexed appends v to m at the next synthetic integer-string key,
// continuing an overflow map's numbering or computing the next free
// numeric key otherwise, and converting m to an overflow map if the
// result would exceed ListLimit (spec.md §4.7's overflow semantics).
func appendIndexed(m *Map, v Value, opts *DecodeOptions) error {
	if m.IsOverflow() {
		if opts.ListLimit >= 0 && m.MaxIndex()+1 > opts.ListLimit && opts.ThrowOnLimitExceeded {
			return ErrListLimitExceeded
		}
		m.AppendOverflow(v)
		return nil
	}
	next := nextAutoIndex(m)
	if opts.ListLimit >= 0 && next > opts.ListLimit {
		if opts.ThrowOnLimitExceeded {
			return ErrListLimitExceeded
		}
		m.MarkOverflow(next - 1)
		m.AppendOverflow(v)
		return nil
	}
	m.Set(strconv.Itoa(next), v)
	return nil
}

func nextAutoIndex(m *Map) int {
	max := -1
	for _, k := range m.keys {
		if IsIndexKey(k) {
			if n := parseIndexKey(k); n > max {
				max = n
			}
		}
	}
	return max + 1
}

// promoteSeqToMap converts a sequence into a string-indexed map, dropping
// Undefined holes, per spec.md §3's list->map promotion rule.
func promoteSeqToMap(s *Seq) *Map {
	m := NewMap()
	for i, it := range s.items {
		if it.IsUndefined() {
			continue
		}
		m.Set(strconv.Itoa(i), it)
	}
	return m
}

func allMapsOrUndefined(s *Seq) bool {
	for _, it := range s.items {
		if it.IsUndefined() || it.IsMap() {
			continue
		}
		return false
	}
	return true
}
