package translit

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// noRune marks an absent neighbour: the start or the end of the input.
const noRune rune = -1

// maxWindow bounds the runes the scanner inspects at one position: the
// longest pattern plus one rune of look-ahead.
const maxWindow = 3

// cursor is the context a rule sees for one candidate match.
type cursor struct {
	span    []rune
	next    rune
	prevSrc rune
	prevOut rune
}

// Transformer converts text in one direction. It implements
// transform.Transformer; the only state it keeps between calls is the last
// consumed source rune and the last emitted rune.
type Transformer struct {
	t          *table
	apostrophe rune

	prevSrc rune
	prevOut rune
}

var _ transform.Transformer = (*Transformer)(nil)

// NewTransformer returns a Transformer for the given direction. An invalid
// direction yields a Transformer that copies its input.
func NewTransformer(d Direction, opts ...Option) *Transformer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	tr := &Transformer{t: d.table(), apostrophe: o.apostrophe}
	tr.Reset()

	return tr
}

// Reset implements transform.Transformer.
func (tr *Transformer) Reset() {
	tr.prevSrc = noRune
	tr.prevOut = noRune
}

// Transform implements transform.Transformer.
func (tr *Transformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	var (
		look  [maxWindow]rune
		sizes [maxWindow]int
		buf   [4 * maxWindow * 2]byte
	)

	for nSrc < len(src) {
		n, ok := decodeWindow(src[nSrc:], atEOF, &look, &sizes)
		if !ok {
			return nDst, nSrc, transform.ErrShortSrc
		}

		m, out := tr.match(look[:n], buf[:0])
		if m == 0 {
			w := sizes[0]
			if nDst+w > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}

			nDst += copy(dst[nDst:], src[nSrc:nSrc+w])
			nSrc += w
			tr.prevSrc, tr.prevOut = look[0], look[0]

			continue
		}

		if nDst+len(out) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}

		nDst += copy(dst[nDst:], out)
		for _, w := range sizes[:m] {
			nSrc += w
		}

		tr.prevSrc = look[m-1]
		if r, _ := utf8.DecodeLastRune(out); r != utf8.RuneError {
			tr.prevOut = r
		}
	}

	return nDst, nSrc, nil
}

// match tries the rules keyed by look[0], longest first. It returns the
// number of runes consumed (0 when nothing matched) and the replacement
// appended to buf.
func (tr *Transformer) match(look []rune, buf []byte) (int, []byte) {
	if tr.t == nil {
		return 0, nil
	}

	for _, rl := range tr.t.rules[fold(look[0])] {
		n := len(rl.from)
		if n > len(look) || !foldedEqual(look[:n], rl.from) {
			continue
		}

		c := cursor{span: look[:n], next: noRune, prevSrc: tr.prevSrc, prevOut: tr.prevOut}
		if n < len(look) {
			c.next = look[n]
		}

		if rl.when != nil && !rl.when(&c) {
			continue
		}

		cas := spanCase
		if rl.cas != nil {
			cas = rl.cas
		}

		for _, r := range cas(&c).apply(rl.to) {
			if r == apostrophe {
				r = tr.apostrophe
			}
			buf = utf8.AppendRune(buf, r)
		}

		return n, buf
	}

	return 0, nil
}

// fold maps a rune onto the alphabet rules are written in: lowercase, with
// every apostrophe variant collapsed. Runes whose lowercase form does not map
// back to them (İ, the Kelvin sign) are left alone so they never match.
func fold(r rune) rune {
	if isApostrophe(r) {
		return apostrophe
	}

	l := unicode.ToLower(r)
	if l != r && unicode.ToUpper(l) != r {
		return r
	}

	return l
}

func foldedEqual(s, pattern []rune) bool {
	for i, p := range pattern {
		if fold(s[i]) != p {
			return false
		}
	}

	return true
}

// decodeWindow decodes up to maxWindow runes from src. It reports false when
// more input is needed to see the full window.
func decodeWindow(src []byte, atEOF bool, look *[maxWindow]rune, sizes *[maxWindow]int) (int, bool) {
	n, i := 0, 0
	for n < maxWindow && i < len(src) {
		if !atEOF && !utf8.FullRune(src[i:]) {
			break
		}

		r, w := utf8.DecodeRune(src[i:])
		look[n], sizes[n] = r, w
		n++
		i += w
	}

	if n < maxWindow && !atEOF {
		return n, false
	}

	return n, true
}
