package qs

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Charset selects the wire encoding used for percent-decoding/encoding.
type Charset string

const (
	CharsetUTF8   Charset = "utf-8"
	CharsetLatin1 Charset = "iso-8859-1"
)

// Format selects the space-encoding rule applied after the unreserved pass.
type Format string

const (
	FormatRFC3986 Format = "RFC3986"
	FormatRFC1738 Format = "RFC1738"
)

// Charset-sentinel literals, spec.md §6.
const (
	sentinelUTF8   = "utf8=%E2%9C%93"
	sentinelLatin1 = "utf8=%26%2310003%3B"
)

var hexDigits = "0123456789ABCDEF"

var percentTable = func() [256]string {
	var t [256]string
	for i := 0; i < 256; i++ {
		t[i] = "%" + string(hexDigits[i>>4]) + string(hexDigits[i&0x0F])
	}
	return t
}()

func isUnreserved(c byte, format Format) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	case format == FormatRFC1738 && (c == '(' || c == ')'):
		return true
	default:
		return false
	}
}

// percentEncode implements spec.md §4.1's Encode rules. Bool/bytes/null/
// container normalization to a string happens at the call site (encoder.go);
// this function only percent-encodes an already-stringified scalar.
func percentEncode(s string, charset Charset, format Format) string {
	if s == "" {
		return s
	}
	var out string
	if charset == CharsetLatin1 {
		out = percentEncodeLatin1(s)
	} else {
		out = percentEncodeUTF8(s, format)
	}
	if format == FormatRFC1738 {
		out = strings.ReplaceAll(out, "%20", "+")
	}
	return out
}

func percentEncodeUTF8(s string, format Format) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); {
		c := s[i]
		if isUnreserved(c, format) {
			b.WriteByte(c)
			i++
			continue
		}
		if c < 0x80 {
			b.WriteString(percentTable[c])
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			// Lone/invalid byte: emit the UTF-8 bytes of U+FFFD rather than drop it.
			for _, rb := range []byte(string(utf8.RuneError)) {
				b.WriteString(percentTable[rb])
			}
			i++
			continue
		}
		for j := 0; j < size; j++ {
			b.WriteString(percentTable[s[i+j]])
		}
		i += size
	}
	return b.String()
}

// percentEncodeLatin1 encodes code points <=0xFF as %HH and escapes anything
// above that range as a percent-encoded HTML numeric entity, per spec.md §4.1.
func percentEncodeLatin1(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for _, r := range s {
		if r <= 0xFF {
			if isUnreserved(byte(r), FormatRFC3986) {
				b.WriteRune(r)
			} else {
				encoded, err := charmap.ISO8859_1.NewEncoder().String(string(r))
				if err != nil || len(encoded) != 1 {
					b.WriteString(percentTable[byte(r)])
				} else {
					b.WriteString(percentTable[encoded[0]])
				}
			}
			continue
		}
		b.WriteString("%26%23")
		b.WriteString(strconv.Itoa(int(r)))
		b.WriteString("%3B")
	}
	return b.String()
}

// percentDecode implements spec.md §4.1's Decode rules: '+' becomes space,
// then charset-specific percent-unescaping. Decode never fails; on
// catastrophic malformation it returns the plus-normalized input verbatim.
func percentDecode(s string, charset Charset) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "+", " ")
	if charset == CharsetLatin1 {
		return percentDecodeLatin1(s)
	}
	return percentDecodeUTF8(s)
}

// percentDecodeUTF8 percent-decodes s, interpreting each %HH run as UTF-8
// bytes. Runs of decoded bytes are buffered so multi-byte sequences survive
// intact; if the decoded result is not valid UTF-8, s is returned
// unchanged (best effort).
func percentDecodeUTF8(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	raw := make([]byte, 0, 8)
	flush := func() {
		if len(raw) == 0 {
			return
		}
		b.Write(raw)
		raw = raw[:0]
	}
	for i := 0; i < len(s); {
		if s[i] == '%' && i+2 < len(s) {
			if v, ok := unhexPair(s[i+1], s[i+2]); ok {
				raw = append(raw, v)
				i += 3
				continue
			}
			if s[i+1] == 'u' && i+5 < len(s) {
				if cp, ok := unhex4(s[i+2 : i+6]); ok {
					var rb [4]byte
					n := utf8.EncodeRune(rb[:], rune(cp))
					raw = append(raw, rb[:n]...)
					i += 6
					continue
				}
			}
		}
		flush()
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			b.WriteByte(s[i])
			i++
			continue
		}
		b.WriteString(s[i : i+size])
		i += size
	}
	flush()
	out := b.String()
	if !utf8.ValidString(out) {
		return s
	}
	return out
}

// percentDecodeLatin1 decodes each %HH as a single Latin-1 byte (code point
// equals byte value), with legacy %uXXXX support; non-escapes pass through.
func percentDecodeLatin1(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '%' && i+2 < len(s) {
			if v, ok := unhexPair(s[i+1], s[i+2]); ok {
				b.WriteRune(rune(v))
				i += 3
				continue
			}
			if s[i+1] == 'u' && i+5 < len(s) {
				if cp, ok := unhex4(s[i+2 : i+6]); ok {
					b.WriteRune(rune(cp))
					i += 6
					continue
				}
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

func unhexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

func unhexPair(hi, lo byte) (byte, bool) {
	h, ok := unhexDigit(hi)
	if !ok {
		return 0, false
	}
	l, ok := unhexDigit(lo)
	if !ok {
		return 0, false
	}
	return h<<4 | l, true
}

// unhex4 decodes a 4-hex-digit legacy %uXXXX payload.
func unhex4(s string) (int, bool) {
	if len(s) != 4 {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// validatePercentEncoding runs the opt-in StrictMode check that every "%" in
// s starts a well-formed escape: either two hex digits or a legacy %uXXXX
// run (the same two forms percentDecode accepts).
func validatePercentEncoding(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if i+2 < len(s) {
			if _, ok := unhexPair(s[i+1], s[i+2]); ok {
				i += 2
				continue
			}
		}
		if i+5 < len(s) && s[i+1] == 'u' {
			if _, ok := unhex4(s[i+2 : i+6]); ok {
				i += 5
				continue
			}
		}
		return ErrInvalidPercentEncoding
	}
	return nil
}

// stringifyBytes renders a raw byte-string scalar for percent-encoding,
// per spec.md §4.1: "bytes -> decoded via charset with UTF-8 fallback on
// decoder failure". Latin-1 decoding goes through the same charmap-backed
// transform pipeline hivekit uses for its own legacy 8-bit name decoding.
func stringifyBytes(b []byte, charset Charset) string {
	if charset != CharsetLatin1 {
		return string(b)
	}
	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), b)
	if err != nil {
		return string(b)
	}
	return string(decoded)
}
