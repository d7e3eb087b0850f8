package qs

// toPlain converts a Value tree into native Go values (map[string]any,
// []any, string, bool, int64, float64, nil) for comparison against literal
// want values in table-driven tests.
func toPlain(v Value) any {
	switch v.Kind() {
	case KindUndefined:
		return nil
	case KindNull:
		return nil
	case KindString:
		return v.Str()
	case KindBool:
		return v.BoolVal()
	case KindInt:
		return v.IntVal()
	case KindFloat:
		return v.FloatVal()
	case KindBytes:
		return string(v.BytesVal())
	case KindSeq:
		items := v.SeqVal().Items()
		out := make([]any, len(items))
		for i, it := range items {
			out[i] = toPlain(it)
		}
		return out
	case KindMap:
		m := v.MapVal()
		out := make(map[string]any, m.Len())
		for i, k := range m.Keys() {
			out[k] = toPlain(m.Values()[i])
		}
		return out
	default:
		return nil
	}
}

func mustDecode(input string, opts ...DecodeOption) any {
	v, err := Decode(input, opts...)
	if err != nil {
		panic(err)
	}
	return toPlain(v)
}
