package translit

import (
	"unicode"

	"golang.org/x/exp/slices"
	"golang.org/x/text/unicode/rangetable"
)

// apostrophe stands for any apostrophe variant in a pattern and for the
// configured output apostrophe in a replacement.
const apostrophe = '\''

// apostrophes is the set of code points accepted as the Uzbek tutuq belgisi
// and as the mark of oʻ and gʻ.
var apostrophes = rangetable.New('\'', '’', 'ʻ', '`', '‘')

func isApostrophe(r rune) bool {
	return unicode.Is(apostrophes, r)
}

// rule rewrites one source unit. from is lowercase; to is lowercase and is
// recased after a match.
type rule struct {
	from string
	to   string
	when func(c *cursor) bool
	cas  func(c *cursor) letterCase
}

var latinRules = []rule{
	{from: "ts", to: "ц"},
	{from: "c", to: "ц"},

	{from: "ye", to: "е"},
	// yo' is y + oʻ (yo'l is йўл), so ёъ does not survive a round trip.
	{from: "yo", to: "ё", when: notBeforeApostrophe},
	{from: "yu", to: "ю"},
	{from: "ya", to: "я"},

	{from: "sh", to: "ш"},
	{from: "ch", to: "ч"},
	{from: "ng", to: "нг", when: notBeforeApostrophe},

	{from: "o'", to: "ў"},
	{from: "g'", to: "ғ"},

	// tutuq belgisi
	{from: "'", to: "ъ", when: betweenLetters, cas: previousCase},

	{from: "e", to: "э", when: func(c *cursor) bool { return vowelOrBoundary(c.prevOut) }},

	{from: "a", to: "а"},
	{from: "b", to: "б"},
	{from: "d", to: "д"},
	{from: "e", to: "е"},
	{from: "f", to: "ф"},
	{from: "g", to: "г"},
	{from: "h", to: "ҳ"},
	{from: "i", to: "и"},
	{from: "j", to: "ж"},
	{from: "k", to: "к"},
	{from: "l", to: "л"},
	{from: "m", to: "м"},
	{from: "n", to: "н"},
	{from: "o", to: "о"},
	{from: "p", to: "п"},
	{from: "q", to: "қ"},
	{from: "r", to: "р"},
	{from: "s", to: "с"},
	{from: "t", to: "т"},
	{from: "u", to: "у"},
	{from: "v", to: "в"},
	{from: "x", to: "х"},
	{from: "y", to: "й"},
	{from: "z", to: "з"},
}

var cyrillicRules = []rule{
	{from: "е", to: "ye", when: func(c *cursor) bool { return vowelOrBoundary(c.prevSrc) }},

	{from: "нг", to: "ng"},

	{from: "ц", to: "ts"},
	{from: "ч", to: "ch"},
	{from: "ш", to: "sh"},
	{from: "ё", to: "yo"},
	{from: "ю", to: "yu"},
	{from: "я", to: "ya"},

	{from: "ў", to: "o'"},
	{from: "ғ", to: "g'"},
	{from: "э", to: "e"},
	{from: "ъ", to: "'"},

	{from: "а", to: "a"},
	{from: "б", to: "b"},
	{from: "д", to: "d"},
	{from: "е", to: "e"},
	{from: "ф", to: "f"},
	{from: "г", to: "g"},
	{from: "ҳ", to: "h"},
	{from: "и", to: "i"},
	{from: "ж", to: "j"},
	{from: "к", to: "k"},
	{from: "л", to: "l"},
	{from: "м", to: "m"},
	{from: "н", to: "n"},
	{from: "о", to: "o"},
	{from: "п", to: "p"},
	{from: "қ", to: "q"},
	{from: "р", to: "r"},
	{from: "с", to: "s"},
	{from: "т", to: "t"},
	{from: "у", to: "u"},
	{from: "в", to: "v"},
	{from: "х", to: "x"},
	{from: "й", to: "y"},
	{from: "з", to: "z"},
}

// vowels holds the lowercase vowels of both scripts.
var vowels = rangetable.New([]rune("aeiouаеёиоуўэюя")...)

// vowelOrBoundary reports whether r starts a word context for e/е: no rune
// at all, something that is neither letter nor digit, or a vowel.
func vowelOrBoundary(r rune) bool {
	if r == noRune {
		return true
	}
	if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
		return true
	}

	return unicode.Is(vowels, unicode.ToLower(r))
}

// notBeforeApostrophe keeps yo and ng from swallowing the o or g of oʻ and gʻ.
func notBeforeApostrophe(c *cursor) bool {
	return !isApostrophe(c.next)
}

// betweenLetters accepts an apostrophe that follows a Latin letter and
// precedes any letter.
func betweenLetters(c *cursor) bool {
	return unicode.IsLetter(c.prevSrc) && unicode.In(c.prevSrc, unicode.Latin) && unicode.IsLetter(c.next)
}

func previousCase(c *cursor) letterCase {
	if unicode.IsLower(c.prevOut) {
		return lowerCase
	}

	return upperCase
}

type compiledRule struct {
	from []rune
	to   string
	when func(c *cursor) bool
	cas  func(c *cursor) letterCase
}

// table indexes rules by their first folded rune, longest pattern first.
// It is built once and only read afterwards.
type table struct {
	rules map[rune][]compiledRule
}

func newTable(rules []rule) *table {
	t := &table{rules: make(map[rune][]compiledRule, len(rules))}

	for _, r := range rules {
		from := []rune(r.from)
		if len(from) >= maxWindow {
			panic("translit: pattern " + r.from + " does not fit the scan window")
		}

		t.rules[from[0]] = append(t.rules[from[0]], compiledRule{from: from, to: r.to, when: r.when, cas: r.cas})
	}

	for k := range t.rules {
		slices.SortStableFunc(t.rules[k], func(a, b compiledRule) int {
			return len(b.from) - len(a.from)
		})
	}

	return t
}

var (
	latinTable    = newTable(latinRules)
	cyrillicTable = newTable(cyrillicRules)
)
