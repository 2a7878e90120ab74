package insight

import (
	"fmt"
	"strings"

	"github.com/dreamnft/dreamnft-server/internal/emotion"
	"github.com/dreamnft/dreamnft-server/internal/theme"
)

const (
	interpretationLead    = "Based on your dream, "
	interpretationClosing = "Remember that dreams often reflect our subconscious processing of daily experiences and emotions."
	strongEmotionScore    = 50
)

// Interpret writes a short interpretation from an emotion profile and the
// detected themes.
func Interpret(emotions []emotion.Score, themes []theme.Theme) string {
	var b strings.Builder
	b.WriteString(interpretationLead)

	if len(emotions) > 0 && emotions[0].Score > strongEmotionScore {
		fmt.Fprintf(&b, "you seem to be experiencing strong feelings of %s. ", emotions[0].Emotion)
	} else {
		b.WriteString("your emotions appear to be mixed. ")
	}

	if primary, ok := theme.Primary(themes); ok {
		fmt.Fprintf(&b, "The theme of %q suggests you might be processing feelings related to %s. ",
			primary.Name, strings.ToLower(primary.Description))
	}

	b.WriteString(interpretationClosing)
	return b.String()
}

// Report bundles every insight for one narrative.
type Report struct {
	Interpretation string    `json:"interpretation"`
	Keywords       []string  `json:"keywords"`
	Sentiment      Sentiment `json:"sentiment"`
	ReadingMinutes int       `json:"reading_minutes"`
	Summary        string    `json:"summary"`
	ImagePrompt    string    `json:"image_prompt"`
}

// Build computes the full insight report.
func Build(text string, emotions []emotion.Score, themes []theme.Theme) Report {
	return Report{
		Interpretation: Interpret(emotions, themes),
		Keywords:       Keywords(text, DefaultKeywordLimit),
		Sentiment:      SentimentOf(text),
		ReadingMinutes: ReadingTime(text, DefaultWordsPerMin),
		Summary:        Summarize(text, DefaultSummaryLength),
		ImagePrompt:    ImagePrompt(text),
	}
}
