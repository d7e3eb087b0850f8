package qs

import (
	"strconv"
	"time"
)

// ListFormat selects the sequence-serialization dialect, spec.md §6/§4.10.
type ListFormat int

const (
	ListFormatIndices ListFormat = iota
	ListFormatBrackets
	ListFormatRepeat
	ListFormatComma
)

// generator renders the key-path segment a child at index appends to its
// parent's prefix under this dialect, per spec.md §4.10 step 4. Repeat and
// Comma children reuse the parent's own key text unchanged, hence "".
func (f ListFormat) generator(index int) string {
	switch f {
	case ListFormatBrackets:
		return "[]"
	case ListFormatRepeat, ListFormatComma:
		return ""
	default:
		return "[" + strconv.Itoa(index) + "]"
	}
}

// ValueEncoderFunc is a user-supplied scalar serializer, taking precedence
// over the default stringify+percent-encode pipeline.
type ValueEncoderFunc func(value Value, charset Charset, format Format) (string, error)

// DateSerializerFunc renders a KindTime Value to its wire string, ISO 8601
// by default.
type DateSerializerFunc func(t time.Time) string

// FilterFunc is the function-filter variant: given the current dotted path
// and value, return a replacement, or Undefined to drop it.
type FilterFunc func(path string, value Value) Value

// KeyFilter is the iterable-filter variant: fixes the child key order (and
// subset) at each level. The returned slice replaces the key list as is, so
// returning nil selects no keys at that level.
type KeyFilter func(path string, keys []string) []string

// SortFunc orders sibling keys at a single level; return true if a should
// sort before b.
type SortFunc func(a, b string) bool

// EncodeOptions parametrizes Encode. Construct with DefaultEncodeOptions or
// the With... functional options.
type EncodeOptions struct {
	AddQueryPrefix     bool
	AllowDots          bool
	EncodeDotInKeys    bool
	AllowEmptyLists    bool
	Charset            Charset
	CharsetSentinel    bool
	Delimiter          string
	Encode             bool
	EncodeValuesOnly   bool
	Filter             FilterFunc
	KeyFilter          KeyFilter
	Format             Format
	ListFormat         ListFormat
	SkipNulls          bool
	StrictNullHandling bool
	CommaRoundTrip     bool
	CommaCompactNulls  bool
	Sort               SortFunc
	Encoder            ValueEncoderFunc
	DateSerializer     DateSerializerFunc
}

// DefaultEncodeOptions returns the spec-mandated defaults (spec.md §6).
func DefaultEncodeOptions() *EncodeOptions {
	return &EncodeOptions{
		Charset:    CharsetUTF8,
		Delimiter:  "&",
		Encode:     true,
		Format:     FormatRFC3986,
		ListFormat: ListFormatIndices,
	}
}

// EncodeOption is a functional option for EncodeOptions.
type EncodeOption func(*EncodeOptions)

func WithEncodeAddQueryPrefix(v bool) EncodeOption {
	return func(o *EncodeOptions) { o.AddQueryPrefix = v }
}
func WithEncodeAllowDots(v bool) EncodeOption { return func(o *EncodeOptions) { o.AllowDots = v } }
func WithEncodeDotInKeys(v bool) EncodeOption {
	return func(o *EncodeOptions) {
		o.EncodeDotInKeys = v
		if v {
			o.AllowDots = true
		}
	}
}
func WithEncodeAllowEmptyLists(v bool) EncodeOption {
	return func(o *EncodeOptions) { o.AllowEmptyLists = v }
}
func WithEncodeCharset(v Charset) EncodeOption { return func(o *EncodeOptions) { o.Charset = v } }
func WithEncodeCharsetSentinel(v bool) EncodeOption {
	return func(o *EncodeOptions) { o.CharsetSentinel = v }
}
func WithEncodeDelimiter(v string) EncodeOption { return func(o *EncodeOptions) { o.Delimiter = v } }
func WithEncodeDisablePercentEncoding() EncodeOption {
	return func(o *EncodeOptions) { o.Encode = false }
}
func WithEncodeValuesOnly(v bool) EncodeOption {
	return func(o *EncodeOptions) { o.EncodeValuesOnly = v }
}
func WithEncodeFilter(v FilterFunc) EncodeOption   { return func(o *EncodeOptions) { o.Filter = v } }
func WithEncodeKeyFilter(v KeyFilter) EncodeOption { return func(o *EncodeOptions) { o.KeyFilter = v } }
func WithEncodeFormat(v Format) EncodeOption        { return func(o *EncodeOptions) { o.Format = v } }
func WithEncodeListFormat(v ListFormat) EncodeOption {
	return func(o *EncodeOptions) { o.ListFormat = v }
}
func WithEncodeSkipNulls(v bool) EncodeOption { return func(o *EncodeOptions) { o.SkipNulls = v } }
func WithEncodeStrictNullHandling(v bool) EncodeOption {
	return func(o *EncodeOptions) { o.StrictNullHandling = v }
}
func WithEncodeCommaRoundTrip(v bool) EncodeOption {
	return func(o *EncodeOptions) { o.CommaRoundTrip = v }
}
func WithEncodeCommaCompactNulls(v bool) EncodeOption {
	return func(o *EncodeOptions) { o.CommaCompactNulls = v }
}
func WithEncodeSort(v SortFunc) EncodeOption { return func(o *EncodeOptions) { o.Sort = v } }
func WithEncoderFunc(v ValueEncoderFunc) EncodeOption {
	return func(o *EncodeOptions) { o.Encoder = v }
}
func WithDateSerializer(v DateSerializerFunc) EncodeOption {
	return func(o *EncodeOptions) { o.DateSerializer = v }
}

// NewEncodeOptions builds options starting from the defaults and applying
// opts in order.
func NewEncodeOptions(opts ...EncodeOption) *EncodeOptions {
	o := DefaultEncodeOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// normalize validates o and fills in any zero-valued defaults, returning a
// fresh *EncodeOptions so the caller's value is never mutated.
func (o *EncodeOptions) normalize() (*EncodeOptions, error) {
	n := *o
	if n.Charset == "" {
		n.Charset = CharsetUTF8
	} else if n.Charset != CharsetUTF8 && n.Charset != CharsetLatin1 {
		return nil, ErrInvalidCharset
	}
	if n.Delimiter == "" {
		n.Delimiter = "&"
	}
	if n.Format == "" {
		n.Format = FormatRFC3986
	}
	if n.EncodeDotInKeys {
		n.AllowDots = true
	}
	return &n, nil
}

func (o *EncodeOptions) defaultDateSerializer(t time.Time) string {
	if o.DateSerializer != nil {
		return o.DateSerializer(t)
	}
	return t.UTC().Format(time.RFC3339Nano)
}

