package quiz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miyabe/wordage/internal/models"
	"github.com/miyabe/wordage/internal/phonetics"
	"github.com/miyabe/wordage/internal/testutil"
)

func newTestSampler() *Sampler {
	return NewSampler(phonetics.Default(), 4, 40)
}

func TestSample_FillsCandidateSet(t *testing.T) {
	s := newTestSampler()
	window := testutil.TestItems(101)

	cands, themePOS := s.Sample(RoundRNG(1, 0), window, nil, 5)
	require.Len(t, cands, 5)
	assert.Equal(t, "noun", themePOS)

	// The first draw probes the window median, so the accepted theme is the
	// median item when nothing rejects it.
	assert.Equal(t, window[50].Word, cands[0].Word)

	seenWords := map[string]bool{}
	seenGlosses := map[string]bool{}
	for _, c := range cands {
		assert.False(t, seenWords[c.Word], "duplicate word %q", c.Word)
		seenWords[c.Word] = true
		for _, g := range c.Glosses {
			assert.False(t, seenGlosses[g], "gloss %q shared between candidates", g)
			seenGlosses[g] = true
		}
	}
}

func TestSample_SkipsUsedWords(t *testing.T) {
	s := newTestSampler()
	window := testutil.TestItems(101)
	used := map[string]bool{window[50].Word: true}

	cands, _ := s.Sample(RoundRNG(1, 0), window, used, 5)
	require.NotEmpty(t, cands)
	for _, c := range cands {
		assert.False(t, used[c.Word])
	}
}

func TestSample_RejectsShortAndNumericWords(t *testing.T) {
	s := newTestSampler()
	window := []models.LexicalItem{
		{Rank: 0, Word: "a", AcquisitionAge: 3, Glosses: []string{"一"}},
		{Rank: 1, Word: "x2", AcquisitionAge: 3, Glosses: []string{"二"}},
		{Rank: 2, Word: "word", AcquisitionAge: 3, Glosses: []string{"三"}},
	}

	cands, _ := s.Sample(RoundRNG(1, 0), window, nil, 3)
	require.Len(t, cands, 1)
	assert.Equal(t, "word", cands[0].Word)
}

func TestSample_DropsLeakyGlosses(t *testing.T) {
	s := newTestSampler()
	window := []models.LexicalItem{
		{Rank: 0, Word: "book", AcquisitionAge: 5, Glosses: []string{"ブック", "本"}},
	}

	cands, _ := s.Sample(RoundRNG(1, 0), window, nil, 1)
	require.Len(t, cands, 1)
	assert.Equal(t, []string{"本"}, cands[0].Glosses)
}

func TestSample_RejectsFullyLeakyItems(t *testing.T) {
	s := newTestSampler()
	var window []models.LexicalItem
	for i := 0; i < 20; i++ {
		window = append(window, models.LexicalItem{
			Rank: i, Word: "book", AcquisitionAge: 5,
			Glosses: []string{"ブック"},
		})
	}

	cands, themePOS := s.Sample(RoundRNG(1, 0), window, nil, 5)
	assert.Empty(t, cands)
	assert.Equal(t, "", themePOS)
}

func TestSample_DropsLatinGlosses(t *testing.T) {
	s := newTestSampler()
	window := []models.LexicalItem{
		{Rank: 0, Word: "cover", AcquisitionAge: 5, Glosses: []string{"いわゆるcoverのこと", "覆う"}},
	}

	cands, _ := s.Sample(RoundRNG(1, 0), window, nil, 1)
	require.Len(t, cands, 1)
	assert.Equal(t, []string{"覆う"}, cands[0].Glosses)
}

func TestSample_CapsGlosses(t *testing.T) {
	s := newTestSampler()
	var glosses []string
	for i := 0; i < 8; i++ {
		glosses = append(glosses, fmt.Sprintf("語義%d", i))
	}
	window := []models.LexicalItem{
		{Rank: 0, Word: "word", AcquisitionAge: 5, Glosses: glosses},
	}

	cands, _ := s.Sample(RoundRNG(1, 0), window, nil, 1)
	require.Len(t, cands, 1)
	assert.Len(t, cands[0].Glosses, 4)
}

func TestSample_SharedGlossExcluded(t *testing.T) {
	s := newTestSampler()
	var window []models.LexicalItem
	for i := 0; i < 30; i++ {
		window = append(window, models.LexicalItem{
			Rank: i, Word: testutil.TestWord(i), AcquisitionAge: 5,
			Glosses: []string{"同じ語義"},
		})
	}

	// Every item shares one gloss, so only a single candidate can survive.
	cands, _ := s.Sample(RoundRNG(1, 0), window, nil, 5)
	assert.Len(t, cands, 1)
}

func TestSample_POSAffinityFollowsTheme(t *testing.T) {
	s := newTestSampler()
	var window []models.LexicalItem
	for i := 0; i < 200; i++ {
		pos := "noun"
		if i%2 == 1 {
			pos = "verb"
		}
		window = append(window, models.LexicalItem{
			Rank: i, Word: testutil.TestWord(i), AcquisitionAge: 5,
			PartsOfSpeech: []string{pos},
			Glosses:       []string{fmt.Sprintf("語義%d", i)},
		})
	}

	// The affinity rule is probabilistic, so measure over many seeds: the
	// theme's tag must dominate the accepted candidates.
	matching, total := 0, 0
	for seed := int64(0); seed < 50; seed++ {
		cands, themePOS := s.Sample(RoundRNG(seed, 0), window, nil, 5)
		require.NotEmpty(t, cands)
		require.NotEmpty(t, themePOS)
		for _, c := range cands {
			total++
			for _, it := range window {
				if it.Word == c.Word && it.HasPOS(themePOS) {
					matching++
					break
				}
			}
		}
	}
	assert.Greater(t, float64(matching)/float64(total), 0.6,
		"candidates sharing the theme tag should dominate")
}

func TestSample_EmptyWindow(t *testing.T) {
	s := newTestSampler()
	cands, themePOS := s.Sample(RoundRNG(1, 0), nil, nil, 5)
	assert.Nil(t, cands)
	assert.Equal(t, "", themePOS)
}
