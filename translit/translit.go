package translit

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrUnknownDirection is returned by ParseDirection for unrecognized names.
var ErrUnknownDirection = errors.New("unknown conversion direction")

// Direction selects the script converted from and to.
type Direction int

const (
	LatinToCyrillic Direction = iota + 1
	CyrillicToLatin
)

func (d Direction) String() string {
	switch d {
	case LatinToCyrillic:
		return "cyrillic"
	case CyrillicToLatin:
		return "latin"
	}

	return fmt.Sprintf("Direction(%d)", int(d))
}

func (d Direction) table() *table {
	switch d {
	case LatinToCyrillic:
		return latinTable
	case CyrillicToLatin:
		return cyrillicTable
	}

	return nil
}

// ParseDirection accepts the target script name ("cyrillic", "latin") or
// the short forms "lc", "cl", "kirill", "lotin".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cyrillic", "cyr", "kirill", "lc":
		return LatinToCyrillic, nil
	case "latin", "lat", "lotin", "cl":
		return CyrillicToLatin, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

type options struct {
	apostrophe rune
}

func defaultOptions() options {
	return options{apostrophe: '\''}
}

// Option configures a Transformer.
type Option func(*options)

// WithApostrophe sets the apostrophe written for oʻ, gʻ and the tutuq
// belgisi in Latin output. Runes outside the accepted apostrophe variants are
// ignored.
func WithApostrophe(r rune) Option {
	return func(o *options) {
		if isApostrophe(r) {
			o.apostrophe = r
		}
	}
}

// ToCyrillic converts Uzbek Latin text to Uzbek Cyrillic. Everything that is
// not part of the Uzbek Latin alphabet is copied unchanged.
func ToCyrillic(s string) string {
	return convert(NewTransformer(LatinToCyrillic), s)
}

// ToLatin converts Uzbek Cyrillic text to Uzbek Latin with ASCII apostrophes.
func ToLatin(s string) string {
	return convert(NewTransformer(CyrillicToLatin), s)
}

// Convert composes s to NFC and converts it in direction d.
func Convert(d Direction, s string, opts ...Option) string {
	return convert(transform.Chain(norm.NFC, NewTransformer(d, opts...)), s)
}

func convert(t transform.Transformer, s string) string {
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	return result
}
