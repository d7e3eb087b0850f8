package qs

import (
	"regexp"
	"strconv"
)

// numericEntityRe matches decimal (&#123;) and hex (&#x7B;) HTML numeric
// character references. Compiled once as a process-wide immutable
// singleton, per spec.md §5, grounded on zaytracom-qs's numericEntityRe
// (extended here to also recognize the hex form spec.md §4.2 requires).
var numericEntityRe = regexp.MustCompile(`&#[xX]?[0-9a-fA-F]+;`)

const maxCodePoint = 0x10FFFF

// interpretNumericEntities replaces &#NNN; / &#xHH; with the corresponding
// code point whenever it parses and is <= 0x10FFFF; anything else (bad
// digits, overflow) passes through verbatim. Only meaningful for the
// Latin-1 + InterpretNumericEntities decode path (spec.md §4.2).
func interpretNumericEntities(s string) string {
	if s == "" {
		return s
	}
	return numericEntityRe.ReplaceAllStringFunc(s, func(match string) string {
		body := match[2 : len(match)-1] // strip "&#" and ";"
		var (
			cp  int64
			err error
		)
		if len(body) > 0 && (body[0] == 'x' || body[0] == 'X') {
			cp, err = strconv.ParseInt(body[1:], 16, 64)
		} else {
			cp, err = strconv.ParseInt(body, 10, 64)
		}
		if err != nil || cp < 0 || cp > maxCodePoint {
			return match
		}
		return string(rune(cp))
	})
}
