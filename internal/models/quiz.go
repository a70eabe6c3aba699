package models

// Candidate is one multiple-choice option: a bank item plus the gloss subset
// that survived the leakage filters.
type Candidate struct {
	Rank           int      `json:"rank"`
	Word           string   `json:"word"`
	AcquisitionAge float64  `json:"acquisition_age"`
	Glosses        []string `json:"glosses"`
}

// Question is one quiz round as presented: the theme item (the correct
// answer) and the shuffled candidate set containing it.
type Question struct {
	Theme      Candidate   `json:"theme"`
	ThemePOS   string      `json:"theme_pos"`
	Candidates []Candidate `json:"candidates"`
}

// Answer is one (rank, correctness) entry of a session history, in the
// order answered.
type Answer struct {
	Rank    int  `json:"rank"`
	Correct bool `json:"correct"`
}

// History is the append-only record of answered rounds.
type History []Answer

// CountCorrect returns the number of correctly answered rounds.
func (h History) CountCorrect() int {
	n := 0
	for _, a := range h {
		if a.Correct {
			n++
		}
	}
	return n
}

// Result is a finished, persisted session.
type Result struct {
	ID       string  `json:"id"`
	UserName string  `json:"user_name"`
	History  History `json:"history"`
}

// Estimate is the final diagnostic output: an integer vocabulary-age and its
// qualitative band.
type Estimate struct {
	Age  int    `json:"age"`
	Band string `json:"band"`
}
