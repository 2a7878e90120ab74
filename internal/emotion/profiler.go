// Package emotion computes the normalized emotional profile of a narrative.
package emotion

import (
	"math"
	"sort"

	"github.com/dreamnft/dreamnft-server/internal/pattern"
)

// Score is one emotion's share of the profile, in percent.
type Score struct {
	Emotion pattern.Emotion `json:"emotion"`
	Score   int             `json:"score"`
}

// Profiler scores the emotion view of a pattern library.
type Profiler struct {
	entries []pattern.Entry
}

// New creates a profiler. Emotions absent from the library still appear in
// every profile with a zero score.
func New(lib *pattern.Library) *Profiler {
	return &Profiler{entries: lib.Emotions()}
}

// Profile returns exactly one Score per member of the fixed emotion set.
//
// Raw scores are occurrence counts times the entry weight. Percentages are
// apportioned by largest remainder so they sum to exactly 100, or are all
// zero when nothing matched. The result is sorted by score descending with
// catalog order breaking ties.
func (p *Profiler) Profile(text string) []Score {
	emotions := pattern.Emotions()
	raw := make([]float64, len(emotions))
	total := 0.0
	for _, entry := range p.entries {
		i := indexOf(emotions, entry.Emotion)
		if i < 0 {
			continue
		}
		hits := entry.Matcher.Count(text)
		raw[i] += float64(hits) * entry.Weight
		total += float64(hits) * entry.Weight
	}

	percents := apportion(raw, total)
	scores := make([]Score, len(emotions))
	for i, e := range emotions {
		scores[i] = Score{Emotion: e, Score: percents[i]}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores
}

// Top returns the highest scoring emotion, or false when the profile is all zero.
func Top(scores []Score) (Score, bool) {
	if len(scores) == 0 || scores[0].Score == 0 {
		return Score{}, false
	}
	return scores[0], true
}

// Percentages converts raw non-negative weights into integer percentages that
// sum to exactly 100, or are all zero when every weight is zero.
func Percentages(raw []float64) []int {
	total := 0.0
	for _, r := range raw {
		total += r
	}
	return apportion(raw, total)
}

// apportion converts raw weights into integer percentages summing to 100.
func apportion(raw []float64, total float64) []int {
	out := make([]int, len(raw))
	if total <= 0 {
		return out
	}

	type remainder struct {
		index int
		frac  float64
	}
	rems := make([]remainder, len(raw))
	assigned := 0
	for i, r := range raw {
		q := r / total * 100
		whole := math.Floor(q + 1e-9)
		out[i] = int(whole)
		assigned += out[i]
		rems[i] = remainder{index: i, frac: q - whole}
	}

	sort.SliceStable(rems, func(i, j int) bool {
		return rems[i].frac > rems[j].frac
	})
	for k := 0; assigned < 100; k++ {
		out[rems[k%len(rems)].index]++
		assigned++
	}
	return out
}

func indexOf(emotions []pattern.Emotion, e pattern.Emotion) int {
	for i, candidate := range emotions {
		if candidate == e {
			return i
		}
	}
	return -1
}
