package qs

import (
	"regexp"
	"strings"
)

// Delimiter splits a raw query string into pair tokens. Spec.md §9 calls
// for "a small polymorphic Delimiter capability split(&str) ->
// iterator<&str> with string and regex variants" -- grounded on
// zaytracom-qs's Delimiter/DelimiterRegexp pair of ParseOptions fields,
// folded here into one capability instead of two mutually-exclusive
// fields.
type Delimiter interface {
	Split(s string) []string
}

// stringDelimiter splits on a literal separator (the common case: "&").
type stringDelimiter struct{ sep string }

// NewDelimiter returns a Delimiter that splits on the literal string sep.
func NewDelimiter(sep string) Delimiter { return stringDelimiter{sep: sep} }

func (d stringDelimiter) Split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, d.sep)
}

// regexpDelimiter splits using a compiled regular expression.
type regexpDelimiter struct{ re *regexp.Regexp }

// NewRegexpDelimiter returns a Delimiter that splits on matches of re.
func NewRegexpDelimiter(re *regexp.Regexp) Delimiter { return regexpDelimiter{re: re} }

func (d regexpDelimiter) Split(s string) []string {
	if s == "" {
		return nil
	}
	return d.re.Split(s, -1)
}

// DefaultDelimiter is the standard "&" separator.
var DefaultDelimiter = NewDelimiter("&")
