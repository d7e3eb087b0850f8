package qs

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecodeNestedBrackets(t *testing.T) {
	got := mustDecode("foo[bar][baz]=qux")
	want := map[string]any{"foo": map[string]any{"bar": map[string]any{"baz": "qux"}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeDepthRemainderLiteralized(t *testing.T) {
	got := mustDecode("a[b][c][d][e][f][g][h][i]=j")
	want := map[string]any{
		"a": map[string]any{
			"b": map[string]any{
				"c": map[string]any{
					"d": map[string]any{
						"e": map[string]any{
							"f": map[string]any{
								"[g][h][i]": "j",
							},
						},
					},
				},
			},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeIndexedListWithinLimit(t *testing.T) {
	got := mustDecode("a[1]=b&a[15]=c")
	want := map[string]any{"a": []any{"b", "c"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeIndexOverListLimitPromotesToMap(t *testing.T) {
	got := mustDecode("a[100]=b")
	want := map[string]any{"a": map[string]any{"100": "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeCharsetSentinelReselectsLatin1(t *testing.T) {
	got := mustDecode("utf8=%26%2310003%3B&a=%F8",
		WithDecodeCharset(CharsetUTF8),
		WithDecodeCharsetSentinel(true))
	want := map[string]any{"a": "ø"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeDuplicatesCombine(t *testing.T) {
	got := mustDecode("foo=bar&foo=baz", WithDecodeDuplicates(DuplicatesCombine))
	want := map[string]any{"foo": []any{"bar", "baz"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeDuplicatesFirst(t *testing.T) {
	got := mustDecode("foo=bar&foo=baz", WithDecodeDuplicates(DuplicatesFirst))
	want := map[string]any{"foo": "bar"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeDuplicatesLast(t *testing.T) {
	got := mustDecode("foo=bar&foo=baz", WithDecodeDuplicates(DuplicatesLast))
	want := map[string]any{"foo": "baz"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeEmptyKeyAndTrailingBracketAppend(t *testing.T) {
	got := mustDecode("=&a[]=b&a[1]=c")
	want := map[string]any{"": "", "a": []any{"b", "c"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeEmptyInputShortCircuits(t *testing.T) {
	got := mustDecode("")
	want := map[string]any{}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeAllowDotsNesting(t *testing.T) {
	got := mustDecode("a.b.c=d", WithDecodeAllowDots(true))
	want := map[string]any{"a": map[string]any{"b": map[string]any{"c": "d"}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeDotInKeysImpliesAllowDots(t *testing.T) {
	got := mustDecode("a[name%2Efirst]=b", WithDecodeDotInKeys(true))
	want := map[string]any{"a": map[string]any{"name.first": "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestKeyDecoderInvariantFromCustomDecoder(t *testing.T) {
	_, err := Decode("a=1", WithKindAwareDecoder(func(s string, charset Charset, kind DecoderKind) (Value, error) {
		if kind == DecodeKindKey {
			return Int(1), nil
		}
		return String(s), nil
	}))
	if !errors.Is(err, ErrKeyDecoderInvariant) {
		t.Fatalf("want ErrKeyDecoderInvariant, got %v", err)
	}
}

func TestDecodeParameterLimitExceededThrows(t *testing.T) {
	_, err := Decode("a=1&b=2&c=3", WithDecodeParameterLimit(2), WithDecodeThrowOnLimitExceeded(true))
	if !errors.Is(err, ErrParameterLimitExceeded) {
		t.Fatalf("want ErrParameterLimitExceeded, got %v", err)
	}
}

func TestDecodeInvalidCharsetRejected(t *testing.T) {
	_, err := Decode("a=b", WithDecodeCharset("bogus"))
	if !errors.Is(err, ErrInvalidCharset) {
		t.Fatalf("want ErrInvalidCharset, got %v", err)
	}
}

func TestDecodeInvalidInputType(t *testing.T) {
	_, err := Decode(42)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestDecodeCommaSplitsIntoList(t *testing.T) {
	got := mustDecode("a=b,c,d", WithDecodeComma(true))
	want := map[string]any{"a": []any{"b", "c", "d"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeStrictNullHandling(t *testing.T) {
	got := mustDecode("flag", WithDecodeStrictNullHandling(true))
	want := map[string]any{"flag": nil}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeListParseDisabledKeepsNumericKeysAsMap(t *testing.T) {
	got := mustDecode("a[0]=b&a[1]=c", WithDecodeParseLists(false))
	want := map[string]any{"a": map[string]any{"0": "b", "1": "c"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeExplicitListLimitZeroIsPreservedNotDefaulted(t *testing.T) {
	got := mustDecode("a[0]=b", WithDecodeListLimit(0))
	want := map[string]any{"a": []any{"b"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}

	got = mustDecode("a[1]=b", WithDecodeListLimit(0))
	want = map[string]any{"a": map[string]any{"1": "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestDecodeExplicitParameterLimitZeroErrors(t *testing.T) {
	_, err := Decode("a=1", WithDecodeParameterLimit(0))
	if !errors.Is(err, ErrInvalidParameterLimit) {
		t.Fatalf("want ErrInvalidParameterLimit, got %v", err)
	}
}
