package phonetics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeaky_TransliteratedGloss(t *testing.T) {
	f := Default()

	tests := []struct {
		word  string
		gloss string
		leaky bool
	}{
		{"book", "ブック", true},
		{"book", "本", false},
		{"ace", "エース", true},
		{"ace", "達人", false},
		{"knife", "ナイフ", true},
		{"phone", "フォン", true},
		{"whale", "ホエール", true},
		{"table", "テーブル", true},
		// Leading non-katakana means the gloss never leaks, even if
		// katakana appears later.
		{"book", "帳簿のブック", false},
		{"", "ブック", false},
	}
	for _, tt := range tests {
		t.Run(tt.word+"/"+tt.gloss, func(t *testing.T) {
			assert.Equal(t, tt.leaky, f.Leaky(tt.word, tt.gloss))
		})
	}
}

func TestLeaky_CaseInsensitiveWord(t *testing.T) {
	f := Default()
	assert.True(t, f.Leaky("Book", "ブック"))
}

func TestLeaky_UnknownFirstLetter(t *testing.T) {
	// A word starting with a character outside the table can never leak.
	f := Default()
	assert.False(t, f.Leaky("1st", "ファースト"))
}

func TestLeaky_LongVowelMark(t *testing.T) {
	// The long vowel mark counts as part of the leading katakana run.
	f := Default()
	assert.True(t, f.Leaky("ace", "エースの札"))
}

func TestContainsLatin(t *testing.T) {
	assert.True(t, ContainsLatin("いわゆるbook"))
	assert.True(t, ContainsLatin("x"))
	assert.False(t, ContainsLatin("本"))
	assert.False(t, ContainsLatin("ブック"))
	assert.False(t, ContainsLatin(""))
	// Digits and punctuation are not Latin script.
	assert.False(t, ContainsLatin("第1章、序"))
}
