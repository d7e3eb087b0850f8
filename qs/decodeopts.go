package qs

// Duplicates selects how repeated keys are resolved during decode.
type Duplicates int

const (
	DuplicatesCombine Duplicates = iota
	DuplicatesFirst
	DuplicatesLast
)

// DecoderKind tells a kind-aware decoder whether it is decoding a key or a
// value segment, per spec.md §4.4/§6.
type DecoderKind string

const (
	DecodeKindKey   DecoderKind = "key"
	DecodeKindValue DecoderKind = "value"
)

// DecoderFunc is a simple two-argument scalar decoder.
type DecoderFunc func(s string, charset Charset) (Value, error)

// KindAwareDecoderFunc is a three-argument scalar decoder that knows
// whether it is decoding a key or a value; it takes precedence over
// DecoderFunc when both are set. Per spec.md §6, a key decoder must
// return a string or null Value -- anything else is ErrKeyDecoderInvariant.
type KindAwareDecoderFunc func(s string, charset Charset, kind DecoderKind) (Value, error)

// DecodeOptions parametrizes Decode. The zero value is not directly usable;
// construct with DefaultDecodeOptions or the With... functional options.
type DecodeOptions struct {
	AllowDots                bool
	DecodeDotInKeys          bool
	AllowEmptyLists          bool
	AllowSparseLists         bool
	ListLimit                int
	Charset                  Charset
	CharsetSentinel          bool
	Comma                    bool
	Delimiter                Delimiter
	Depth                    int
	ParameterLimit           int
	Duplicates               Duplicates
	IgnoreQueryPrefix        bool
	InterpretNumericEntities bool
	ParseLists               bool
	StrictDepth              bool
	StrictNullHandling       bool
	ThrowOnLimitExceeded     bool
	StrictMode               bool
	Decoder                  DecoderFunc
	KindAwareDecoder         KindAwareDecoderFunc

	// listLimitSet and parameterLimitSet record whether the caller reached
	// for With...Limit explicitly, so normalize can tell a deliberate zero
	// apart from the Go zero value of an options struct nobody configured.
	listLimitSet      bool
	parameterLimitSet bool
}

// DefaultDecodeOptions returns the spec-mandated defaults (spec.md §6).
func DefaultDecodeOptions() *DecodeOptions {
	return &DecodeOptions{
		ListLimit:      20,
		Charset:        CharsetUTF8,
		Delimiter:      DefaultDelimiter,
		Depth:          5,
		ParameterLimit: 1000,
		Duplicates:     DuplicatesCombine,
		ParseLists:     true,
	}
}

// DecodeOption is a functional option for DecodeOptions, mirroring the
// With... family zaytracom-qs exposes over its ParseOptions.
type DecodeOption func(*DecodeOptions)

func WithDecodeAllowDots(v bool) DecodeOption { return func(o *DecodeOptions) { o.AllowDots = v } }
func WithDecodeDotInKeys(v bool) DecodeOption {
	return func(o *DecodeOptions) {
		o.DecodeDotInKeys = v
		if v {
			o.AllowDots = true
		}
	}
}
func WithDecodeAllowEmptyLists(v bool) DecodeOption {
	return func(o *DecodeOptions) { o.AllowEmptyLists = v }
}
func WithDecodeAllowSparseLists(v bool) DecodeOption {
	return func(o *DecodeOptions) { o.AllowSparseLists = v }
}
func WithDecodeListLimit(v int) DecodeOption {
	return func(o *DecodeOptions) {
		o.ListLimit = v
		o.listLimitSet = true
	}
}
func WithDecodeCharset(v Charset) DecodeOption { return func(o *DecodeOptions) { o.Charset = v } }
func WithDecodeCharsetSentinel(v bool) DecodeOption {
	return func(o *DecodeOptions) { o.CharsetSentinel = v }
}
func WithDecodeComma(v bool) DecodeOption { return func(o *DecodeOptions) { o.Comma = v } }
func WithDecodeDelimiter(v Delimiter) DecodeOption {
	return func(o *DecodeOptions) { o.Delimiter = v }
}
func WithDecodeDepth(v int) DecodeOption { return func(o *DecodeOptions) { o.Depth = v } }
func WithDecodeParameterLimit(v int) DecodeOption {
	return func(o *DecodeOptions) {
		o.ParameterLimit = v
		o.parameterLimitSet = true
	}
}
func WithDecodeDuplicates(v Duplicates) DecodeOption {
	return func(o *DecodeOptions) { o.Duplicates = v }
}
func WithDecodeIgnoreQueryPrefix(v bool) DecodeOption {
	return func(o *DecodeOptions) { o.IgnoreQueryPrefix = v }
}
func WithDecodeInterpretNumericEntities(v bool) DecodeOption {
	return func(o *DecodeOptions) { o.InterpretNumericEntities = v }
}
func WithDecodeParseLists(v bool) DecodeOption { return func(o *DecodeOptions) { o.ParseLists = v } }
func WithDecodeStrictDepth(v bool) DecodeOption {
	return func(o *DecodeOptions) { o.StrictDepth = v }
}
func WithDecodeStrictNullHandling(v bool) DecodeOption {
	return func(o *DecodeOptions) { o.StrictNullHandling = v }
}
func WithDecodeThrowOnLimitExceeded(v bool) DecodeOption {
	return func(o *DecodeOptions) { o.ThrowOnLimitExceeded = v }
}
func WithDecodeStrictMode(v bool) DecodeOption { return func(o *DecodeOptions) { o.StrictMode = v } }
func WithDecoder(v DecoderFunc) DecodeOption    { return func(o *DecodeOptions) { o.Decoder = v } }
func WithKindAwareDecoder(v KindAwareDecoderFunc) DecodeOption {
	return func(o *DecodeOptions) { o.KindAwareDecoder = v }
}

// NewDecodeOptions builds options starting from the defaults and applying
// opts in order.
func NewDecodeOptions(opts ...DecodeOption) *DecodeOptions {
	o := DefaultDecodeOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// normalize validates o and fills in any zero-valued defaults that the
// zero value of DecodeOptions would otherwise leave unusable, returning a
// fresh *DecodeOptions so the caller's value is never mutated.
func (o *DecodeOptions) normalize() (*DecodeOptions, error) {
	n := *o
	if n.Charset == "" {
		n.Charset = CharsetUTF8
	} else if n.Charset != CharsetUTF8 && n.Charset != CharsetLatin1 {
		return nil, ErrInvalidCharset
	}
	if n.Delimiter == nil {
		n.Delimiter = DefaultDelimiter
	}
	if n.parameterLimitSet {
		if n.ParameterLimit <= 0 {
			return nil, ErrInvalidParameterLimit
		}
	} else if n.ParameterLimit == 0 {
		n.ParameterLimit = 1000
	} else if n.ParameterLimit < 0 {
		return nil, ErrInvalidParameterLimit
	}
	if !n.listLimitSet && n.ListLimit == 0 {
		n.ListLimit = 20
	}
	if n.DecodeDotInKeys {
		n.AllowDots = true
	}
	return &n, nil
}

func (o *DecodeOptions) decodeScalar(s string, kind DecoderKind) (Value, error) {
	if o.KindAwareDecoder != nil {
		v, err := o.KindAwareDecoder(s, o.Charset, kind)
		if err != nil {
			return Value{}, err
		}
		if kind == DecodeKindKey && !(v.Kind() == KindString || v.IsNull()) {
			return Value{}, ErrKeyDecoderInvariant
		}
		return v, nil
	}
	if o.Decoder != nil {
		return o.Decoder(s, o.Charset)
	}
	return String(percentDecode(s, o.Charset)), nil
}
