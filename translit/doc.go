// Package translit converts text between the Uzbek Latin and Uzbek Cyrillic
// orthographies.
//
// Both directions run one left-to-right scan over the input. At every
// position the rules that start with the current letter are tried longest
// first, so digraphs such as sh, ch, ng and the y-vowels bind before their
// single letters. A few rules look at one rune of context on either side:
//
//	e   -> э   at the start of a word or after a vowel, е otherwise
//	'   -> ъ   only between a Latin letter and another letter
//	Е   -> Ye  at the start of a word or after a vowel
//	Ш   -> SH  inside an all-caps word, Sh otherwise
//
// The case of every replacement follows the case of the matched text: all
// upper, title or lower. The rule tables are built once and shared, so the
// package level functions are safe for concurrent use. A Transformer carries
// per-scan state and must not be shared.
package translit
