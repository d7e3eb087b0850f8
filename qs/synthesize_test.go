package qs

import (
	"reflect"
	"testing"
)

func synth(key string, leaf Value, opts *DecodeOptions) any {
	segments, err := SegmentKey(key, opts.AllowDots, opts.Depth, opts.StrictDepth)
	if err != nil {
		panic(err)
	}
	return toPlain(synthesizeObject(segments, leaf, opts))
}

func TestSynthesizeBareKey(t *testing.T) {
	got := synth("foo", String("bar"), DefaultDecodeOptions())
	want := map[string]any{"foo": "bar"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestSynthesizeIndexedBracket(t *testing.T) {
	got := synth("foo[3]", String("bar"), DefaultDecodeOptions())
	want := map[string]any{"foo": []any{nil, nil, nil, "bar"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestSynthesizeTrailingEmptyBracketWraps(t *testing.T) {
	got := synth("foo[]", String("bar"), DefaultDecodeOptions())
	want := map[string]any{"foo": []any{"bar"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestSynthesizeEmptyBracketBecomesMapWhenListsDisabled(t *testing.T) {
	o := NewDecodeOptions(WithDecodeParseLists(false))
	got := synth("foo[]", String("bar"), o)
	want := map[string]any{"foo": map[string]any{"0": "bar"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}
