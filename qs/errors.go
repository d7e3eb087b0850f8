package qs

import "errors"

// Sentinel errors for every failure kind the decoder and encoder can raise.
// They are returned unwrapped; callers should match against them with
// errors.Is.
var (
	// ErrInvalidInput is returned by Decode when the input is not a string,
	// a map[string]string, or a sequence of key/value pairs.
	ErrInvalidInput = errors.New("qs: invalid input")

	// ErrInvalidCharset is returned by option validation when Charset is
	// neither CharsetUTF8 nor CharsetLatin1.
	ErrInvalidCharset = errors.New("qs: charset must be utf-8 or latin-1")

	// ErrInvalidParameterLimit is returned when ParameterLimit <= 0.
	ErrInvalidParameterLimit = errors.New("qs: parameter limit must be positive")

	// ErrKeyDecoderInvariant is returned when a kind-aware decoder returns a
	// non-string, non-nil result for a key, or when DecodeDotInKeys is set
	// without AllowDots during a key decode.
	ErrKeyDecoderInvariant = errors.New("qs: key decoder must return a string or nil")

	// ErrParameterLimitExceeded is returned when ThrowOnLimitExceeded is set
	// and more than ParameterLimit pairs were present.
	ErrParameterLimitExceeded = errors.New("qs: parameter limit exceeded")

	// ErrListLimitExceeded is returned when ThrowOnLimitExceeded is set and
	// list growth (comma-split or combine) exceeds ListLimit.
	ErrListLimitExceeded = errors.New("qs: list limit exceeded")

	// ErrDepthExceeded is returned when StrictDepth is set and a remainder
	// exists after consuming Depth bracket groups.
	ErrDepthExceeded = errors.New("qs: depth limit exceeded")

	// ErrCyclicValue is returned by Encode when a container already on the
	// active encoding path is re-entered.
	ErrCyclicValue = errors.New("qs: cyclic value")

	// Strict-mode syntax errors (opt-in; see DecodeOptions.StrictMode).
	ErrUnclosedBracket        = errors.New("qs: unclosed bracket")
	ErrUnmatchedCloseBracket  = errors.New("qs: unmatched closing bracket")
	ErrEmptyKey               = errors.New("qs: empty key")
	ErrInvalidPercentEncoding = errors.New("qs: invalid percent-encoding")
	ErrConsecutiveDots        = errors.New("qs: consecutive dots in key")
	ErrLeadingDot             = errors.New("qs: leading dot in key")
	ErrTrailingDot            = errors.New("qs: trailing dot in key")
)
