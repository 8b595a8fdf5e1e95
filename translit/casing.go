package translit

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type letterCase int

const (
	lowerCase letterCase = iota
	titleCase
	upperCase
)

// classify reports the case pattern of a matched span. Runes without case
// are ignored; interior mixed case falls back to title or lower depending on
// the first letter.
func classify(span []rune) letterCase {
	var upper, lower int
	first := true
	firstUpper := false

	for _, r := range span {
		switch {
		case unicode.IsUpper(r):
			upper++
		case unicode.IsLower(r):
			lower++
		default:
			continue
		}

		if first {
			firstUpper = unicode.IsUpper(r)
			first = false
		}
	}

	switch {
	case upper > 0 && lower == 0:
		return upperCase
	case firstUpper:
		return titleCase
	}

	return lowerCase
}

// spanCase classifies the cursor's span. A lone capital is ambiguous between
// a capitalized word and an all-caps word, so the neighbours decide.
func spanCase(c *cursor) letterCase {
	lc := classify(c.span)
	if lc != upperCase || len(c.span) != 1 {
		return lc
	}

	if unicode.IsUpper(c.next) {
		return upperCase
	}
	if !unicode.IsLower(c.next) && unicode.IsUpper(c.prevSrc) {
		return upperCase
	}

	return titleCase
}

func (lc letterCase) apply(s string) string {
	switch lc {
	case upperCase:
		return strings.ToUpper(s)
	case titleCase:
		r, n := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError {
			return s
		}

		return string(unicode.ToUpper(r)) + s[n:]
	}

	return s
}
