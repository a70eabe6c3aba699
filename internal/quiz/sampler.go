package quiz

import (
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/miyabe/wordage/internal/models"
	"github.com/miyabe/wordage/internal/phonetics"
)

// Sampler assembles one question's multiple-choice set from a window of bank
// items. Every rejection rule below shapes either difficulty or leakage; the
// rules run in a fixed order because later checks assume earlier ones passed.
type Sampler struct {
	filter     *phonetics.Filter
	glossLimit int
	retries    int
}

// NewSampler creates a Sampler with the given leakage filter, per-candidate
// gloss cap and draw budget.
func NewSampler(filter *phonetics.Filter, glossLimit, retries int) *Sampler {
	return &Sampler{filter: filter, glossLimit: glossLimit, retries: retries}
}

// Sample draws up to k candidates from the window. The first draw probes the
// window median so the first accepted item sits at the calibrated difficulty;
// that item becomes the theme and fixes the question's part-of-speech
// affinity. Returns the accepted candidates (theme first) and the affinity
// tag. Fewer than k candidates, including zero, is a valid outcome the
// caller must handle.
func (s *Sampler) Sample(rng *rand.Rand, window []models.LexicalItem, used map[string]bool, k int) ([]models.Candidate, string) {
	if len(window) == 0 || k <= 0 {
		return nil, ""
	}

	var cands []models.Candidate
	themePOS := ""
	picked := map[string]bool{}
	usedGlosses := map[string]bool{}

	for attempt := 0; attempt < s.retries && len(cands) < k; attempt++ {
		var it models.LexicalItem
		if attempt == 0 {
			it = window[len(window)/2]
		} else {
			it = window[rng.IntN(len(window))]
		}

		if used[it.Word] || picked[it.Word] {
			continue
		}
		if utf8.RuneCountInString(it.Word) <= 1 {
			continue
		}
		if containsDigit(it.Word) {
			continue
		}
		// Multi-word phrases and proper-noun-like forms survive half the
		// time; keeping some variety without letting them dominate.
		if strings.Contains(it.Word, " ") && rng.IntN(2) == 0 {
			continue
		}
		if containsUpper(it.Word) && rng.IntN(2) == 0 {
			continue
		}
		// Part-of-speech stickiness: distractors sharing the theme's
		// dominant tag keep the question grammatically homogeneous, but the
		// rule is probabilistic, not absolute.
		if themePOS != "" && !it.HasPOS(themePOS) && rng.IntN(3) != 0 {
			continue
		}

		glosses := s.usableGlosses(it)
		if len(glosses) == 0 {
			continue
		}
		if sharesGloss(glosses, usedGlosses) {
			continue
		}

		for _, g := range glosses {
			usedGlosses[g] = true
		}
		picked[it.Word] = true
		if len(cands) == 0 {
			themePOS = it.DominantPOS()
		}
		cands = append(cands, models.Candidate{
			Rank:           it.Rank,
			Word:           it.Word,
			AcquisitionAge: it.AcquisitionAge,
			Glosses:        glosses,
		})
	}

	return cands, themePOS
}

// usableGlosses filters an item's glosses: phonetic leakage and Latin-script
// quotations are dropped, and at most glossLimit survivors are kept.
func (s *Sampler) usableGlosses(it models.LexicalItem) []string {
	var kept []string
	for _, gloss := range it.Glosses {
		if len(kept) >= s.glossLimit {
			break
		}
		if s.filter.Leaky(it.Word, gloss) {
			continue
		}
		if phonetics.ContainsLatin(gloss) {
			continue
		}
		kept = append(kept, gloss)
	}
	return kept
}

// sharesGloss reports whether any gloss was already claimed by an earlier
// candidate of the same question. Two options with the same gloss would give
// the match away.
func sharesGloss(glosses []string, usedGlosses map[string]bool) bool {
	for _, g := range glosses {
		if usedGlosses[g] {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func containsUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
