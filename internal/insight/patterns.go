package insight

import (
	"sort"
	"time"

	"github.com/dreamnft/dreamnft-server/internal/emotion"
	"github.com/dreamnft/dreamnft-server/internal/pattern"
)

// NotEnoughDataMessage accompanies a pattern report without any dreams.
const NotEnoughDataMessage = "Not enough dreams to analyze patterns"

// patternKeywords are the recurring elements counted across a dreamer's
// narratives, in report tiebreak order.
var patternKeywords = []string{"flying", "falling", "chase", "water", "death", "family", "school", "work"}

// Sample is one narrative fed to pattern analysis.
type Sample struct {
	Text       string
	RecordedAt time.Time
}

// KeywordCount is the number of whole-word occurrences of a keyword.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// EmotionShare is one emotion's share of all emotion cues across the dreams.
type EmotionShare struct {
	Emotion    pattern.Emotion `json:"emotion"`
	Percentage int             `json:"percentage"`
	Count      int             `json:"count"`
}

// DayCount is the number of dreams recorded on a weekday.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// PatternReport summarizes recurring elements across one dreamer's dreams.
type PatternReport struct {
	HasEnoughData bool           `json:"has_enough_data"`
	Message       string         `json:"message,omitempty"`
	DreamCount    int            `json:"dream_count"`
	Themes        []KeywordCount `json:"themes,omitempty"`
	Emotions      []EmotionShare `json:"emotions,omitempty"`
	Frequency     []DayCount     `json:"frequency,omitempty"`
}

// PatternAnalyzer aggregates keyword, emotion and weekday patterns over many
// narratives. It is safe for concurrent use.
type PatternAnalyzer struct {
	keywords []pattern.Matcher
	emotions []pattern.Entry
}

// NewPatternAnalyzer creates an analyzer using the emotion cues of lib.
func NewPatternAnalyzer(lib *pattern.Library) *PatternAnalyzer {
	keywords := make([]pattern.Matcher, len(patternKeywords))
	for i, k := range patternKeywords {
		keywords[i] = pattern.Keywords(k)
	}
	return &PatternAnalyzer{keywords: keywords, emotions: lib.Emotions()}
}

// Analyze builds the pattern report. Keyword counts are sorted by count
// descending and omit keywords that never occur. Emotions are in catalog
// order. Weekdays run Sunday to Saturday in UTC; samples without a recording
// time are not counted.
func (a *PatternAnalyzer) Analyze(samples []Sample) PatternReport {
	if len(samples) == 0 {
		return PatternReport{Message: NotEnoughDataMessage}
	}

	keywordCounts := make([]int, len(a.keywords))
	emotions := pattern.Emotions()
	emotionCounts := make([]int, len(emotions))
	var days [7]int

	for _, sample := range samples {
		for i, m := range a.keywords {
			keywordCounts[i] += m.Count(sample.Text)
		}
		for _, entry := range a.emotions {
			for i, e := range emotions {
				if e == entry.Emotion {
					emotionCounts[i] += entry.Matcher.Count(sample.Text)
				}
			}
		}
		if !sample.RecordedAt.IsZero() {
			days[sample.RecordedAt.UTC().Weekday()]++
		}
	}

	report := PatternReport{HasEnoughData: true, DreamCount: len(samples)}

	for i, n := range keywordCounts {
		if n > 0 {
			report.Themes = append(report.Themes, KeywordCount{Keyword: patternKeywords[i], Count: n})
		}
	}
	sort.SliceStable(report.Themes, func(i, j int) bool {
		return report.Themes[i].Count > report.Themes[j].Count
	})

	raw := make([]float64, len(emotionCounts))
	for i, n := range emotionCounts {
		raw[i] = float64(n)
	}
	for i, pct := range emotion.Percentages(raw) {
		report.Emotions = append(report.Emotions, EmotionShare{
			Emotion:    emotions[i],
			Percentage: pct,
			Count:      emotionCounts[i],
		})
	}

	for d, n := range days {
		report.Frequency = append(report.Frequency, DayCount{Day: time.Weekday(d).String(), Count: n})
	}
	return report
}
