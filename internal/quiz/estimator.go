package quiz

import (
	"math"
	"sort"
)

// AgedAnswer is one answered round with its rank resolved to an acquisition
// age, the estimator's working unit.
type AgedAnswer struct {
	Age     float64
	Correct bool
}

// Estimator turns a complete session history into the final age estimate.
// The combination rule is deliberately asymmetric: correct answers anchor
// near the top of what was answered correctly, wrong answers near the bottom
// of what was missed, and both sides carry penalties for thin evidence.
type Estimator struct {
	numRounds int
	minAge    int
	maxAge    int
}

// NewEstimator creates an Estimator for sessions of numRounds rounds,
// clamping results to [minAge, maxAge].
func NewEstimator(numRounds, minAge, maxAge int) *Estimator {
	return &Estimator{numRounds: numRounds, minAge: minAge, maxAge: maxAge}
}

// Estimate computes the integer vocabulary-age for a finished history.
func (e *Estimator) Estimate(answers []AgedAnswer) int {
	var correctAges, wrongAges []float64
	for _, a := range answers {
		if a.Correct {
			correctAges = append(correctAges, a.Age)
		} else {
			wrongAges = append(wrongAges, a.Age)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(correctAges)))
	sort.Float64s(wrongAges)

	// Roughly the 3rd-highest age answered correctly, with a penalty per
	// missing answer when fewer than 3 were correct.
	var correctEstimate float64
	if len(correctAges) > 0 {
		idx := 2
		if idx > len(correctAges)-1 {
			idx = len(correctAges) - 1
		}
		correctEstimate = correctAges[idx]
		if len(correctAges) < 3 {
			correctEstimate -= float64(3 - len(correctAges))
		}
	}

	// A percentile near the bottom of what was missed: the more wrong
	// answers, the closer to the easiest missed word.
	var wrongEstimate float64
	if len(wrongAges) > 0 {
		idx := e.numRounds/3 - len(wrongAges)
		if idx < 0 {
			idx = 0
		}
		if idx > len(wrongAges)-1 {
			idx = len(wrongAges) - 1
		}
		wrongEstimate = wrongAges[idx]
		if len(wrongAges) >= 3 {
			wrongEstimate -= 0.5
		}
	}

	nc, nw := len(correctAges), len(wrongAges)
	var age float64
	if nc+nw > 0 {
		age = (correctEstimate*float64(nc) + wrongEstimate*float64(nw)) / float64(nc+nw)
	}

	if age < float64(e.minAge) {
		age = float64(e.minAge)
	}
	if age > float64(e.maxAge) {
		age = float64(e.maxAge)
	}
	return int(math.Round(age))
}

// band is one step of the qualitative scale.
type band struct {
	maxAge int
	label  string
}

// Ordered from youngest to oldest; the last entry catches everything above.
var bands = []band{
	{6, "early childhood"},
	{9, "elementary"},
	{12, "preteen"},
	{15, "teenager"},
	{17, "young adult"},
	{19, "adult"},
	{math.MaxInt, "native or beyond"},
}

// Band maps an integer age estimate to its qualitative label.
func Band(age int) string {
	for _, b := range bands {
		if age <= b.maxAge {
			return b.label
		}
	}
	return bands[len(bands)-1].label
}
