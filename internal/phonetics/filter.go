package phonetics

import (
	"strings"
	"unicode"
)

// Filter flags glosses whose pronunciation mirrors the source word closely
// enough to give the answer away. A gloss like "ブック" next to the word
// "book" is a free hint regardless of semantic knowledge, so such glosses
// must not be surfaced as options.
type Filter struct {
	table map[rune][]string
}

// NewFilter builds a Filter from a letter-to-kana-prefix table. The table
// maps a lowercase Latin letter to the katakana openings conventionally used
// when transliterating words that start with that letter.
func NewFilter(table map[rune][]string) *Filter {
	return &Filter{table: table}
}

// Default returns a Filter over the built-in transliteration table.
func Default() *Filter {
	return NewFilter(DefaultTable())
}

// Leaky reports whether the gloss's leading katakana run starts with a kana
// sequence used to transliterate the word's first letter. Glosses that do
// not begin with katakana are never leaky.
func (f *Filter) Leaky(word, gloss string) bool {
	if word == "" {
		return false
	}
	first := unicode.ToLower([]rune(word)[0])
	prefixes := f.table[first]
	if len(prefixes) == 0 {
		return false
	}

	kana := leadingKatakana(gloss)
	if kana == "" {
		return false
	}
	for _, p := range prefixes {
		if strings.HasPrefix(kana, p) {
			return true
		}
	}
	return false
}

// ContainsLatin reports whether s contains any Latin-script rune. Glosses
// quoting the source language leak the answer the same way loanwords do.
func ContainsLatin(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Latin, r) {
			return true
		}
	}
	return false
}

func leadingKatakana(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if !unicode.In(r, unicode.Katakana) && r != 'ー' {
			break
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
