package models

// LexicalItem is one entry of the ranked item bank. Rank 0 is the most
// frequent (earliest acquired) word; ranks grow with difficulty.
type LexicalItem struct {
	Rank           int      `json:"rank"`
	Word           string   `json:"word"`
	AcquisitionAge float64  `json:"acquisition_age"`
	PartsOfSpeech  []string `json:"parts_of_speech"`
	Glosses        []string `json:"glosses"`
}

// DominantPOS returns the item's leading part-of-speech tag, or "" when the
// record carried none.
func (it LexicalItem) DominantPOS() string {
	if len(it.PartsOfSpeech) == 0 {
		return ""
	}
	return it.PartsOfSpeech[0]
}

// HasPOS reports whether the item carries the given part-of-speech tag.
func (it LexicalItem) HasPOS(tag string) bool {
	for _, p := range it.PartsOfSpeech {
		if p == tag {
			return true
		}
	}
	return false
}
