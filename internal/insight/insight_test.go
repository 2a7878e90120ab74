package insight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dreamnft/dreamnft-server/internal/emotion"
	"github.com/dreamnft/dreamnft-server/internal/pattern"
	"github.com/dreamnft/dreamnft-server/internal/theme"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"i", "couldnt", "move", "cafe"}, Tokenize("I couldn't move! Café?"))
	assert.Empty(t, Tokenize("  ...  "))
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{"empty", "", 5, []string{}},
		{"zero limit", "ocean ocean", 0, []string{}},
		{"frequency then first appearance", "The ocean was dark. The ocean glowed, dark and wide.", 5,
			[]string{"ocean", "dark", "glowed", "wide"}},
		{"limit", "alpha beta gamma delta", 2, []string{"alpha", "beta"}},
		{"stop words and short words dropped", "I was in my dream at an ox farm", 5, []string{"farm"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Keywords(tt.text, tt.limit))
		})
	}
}

func TestSentimentOf(t *testing.T) {
	assert.Equal(t, SentimentPositive, SentimentOf("A beautiful bright light, I could fly"))
	assert.Equal(t, SentimentNegative, SentimentOf("Trapped and alone in the dark"))
	assert.Equal(t, SentimentNeutral, SentimentOf("happy but sad"))
	assert.Equal(t, SentimentNeutral, SentimentOf(""))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 0, ReadingTime("", 200))
	assert.Equal(t, 0, ReadingTime("words here", 0))
	assert.Equal(t, 1, ReadingTime("one two three", 200))
	assert.Equal(t, 2, ReadingTime(strings.Repeat("word ", 201), 200))
}

func TestSummarize(t *testing.T) {
	text := "First sentence. Second one! Third? Fourth."

	assert.Equal(t, "First sentence. Second one!", Summarize(text, 2))
	assert.Equal(t, text, Summarize(text, 10))
	assert.Equal(t, "no punctuation", Summarize("no punctuation", 2))
}

func TestImagePrompt(t *testing.T) {
	assert.Equal(t, "Dream visualization: a red door", ImagePrompt("a red door"))

	long := strings.Repeat("é", 250)
	assert.Equal(t, "Dream visualization: "+strings.Repeat("é", 200), ImagePrompt(long))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", "anything"))
	assert.Equal(t, 1.0, Similarity("Red door", "red DOOR"))
	assert.InDelta(t, 1.0/3.0, Similarity("red door", "red window"), 1e-9)
}

func TestInterpret(t *testing.T) {
	themes := []theme.Theme{{Name: "Falling", Description: "Dreams where you are falling from heights"}}

	strong := []emotion.Score{{Emotion: pattern.EmotionFear, Score: 75}}
	assert.Equal(t,
		"Based on your dream, you seem to be experiencing strong feelings of fear. "+
			`The theme of "Falling" suggests you might be processing feelings related to dreams where you are falling from heights. `+
			interpretationClosing,
		Interpret(strong, themes))

	mixed := []emotion.Score{{Emotion: pattern.EmotionFear, Score: 50}}
	assert.Contains(t, Interpret(mixed, nil), "your emotions appear to be mixed. ")
	assert.NotContains(t, Interpret(mixed, nil), "The theme of")
}

func TestBuild(t *testing.T) {
	lib := pattern.NewDefault()
	text := "I was falling toward the sea. I felt scared."

	r := Build(text, emotion.New(lib).Profile(text), theme.New(lib).Detect(text))

	assert.Contains(t, r.Interpretation, "strong feelings of fear")
	assert.Contains(t, r.Interpretation, `"Falling"`)
	assert.Equal(t, 1, r.ReadingMinutes)
	assert.Equal(t, text, r.Summary)
	assert.Equal(t, "Dream visualization: "+text, r.ImagePrompt)
}
