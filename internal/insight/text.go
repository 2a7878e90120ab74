// Package insight derives reader-facing text insights from a narrative:
// interpretation, keywords, sentiment, reading time, summary and an image
// prompt. Everything here is deterministic and offline.
package insight

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/dreamnft/dreamnft-server/internal/util"
)

// Sentiment of a narrative.
type Sentiment string

// Sentiments.
const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Defaults.
const (
	DefaultKeywordLimit  = 5
	DefaultWordsPerMin   = 200
	DefaultSummaryLength = 2
	imagePromptRunes     = 200
	imagePromptPrefix    = "Dream visualization: "
	minKeywordRunes      = 3
)

var stopWords = wordSet(`a an the i me my myself we our ours ourselves you your yours yourself
	yourselves he him his himself she her hers herself it its itself they them their theirs
	themselves what which who whom this that these those am is are was were be been being have
	has had having do does did doing and but if or because as until while of at by for with
	about against between into through during before after above below to from up down in out
	on off over under again further then once here there when where why how all any both each
	few more most other some such no nor not only own same so than too very s t can will just
	don should now d ll m o re ve y ain aren couldn didn doesn hadn hasn haven isn ma mightn
	mustn needn shan shouldn wasn weren won wouldn like get go see dream dreamed dreaming`)

var positiveWords = wordSet(`happy joy beautiful amazing wonderful love like great good success
	achieve peace fly soar bright light win friend hug laugh`)

var negativeWords = wordSet(`sad fear angry lost dark fall chase monster nightmare bad terrible
	awful pain cry scream alone trapped failure anxiety stress`)

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+(\s|$)`)

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

// Tokenize lowercases text, folds accents and splits it into words.
// Apostrophes inside words are dropped, so "couldn't" becomes "couldnt".
func Tokenize(text string) []string {
	text = strings.ReplaceAll(strings.ToLower(util.FoldAccents(text)), "'", "")
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Keywords returns up to limit of the most frequent non-stop words longer
// than two characters. Ties keep first-appearance order.
func Keywords(text string, limit int) []string {
	if limit <= 0 {
		return []string{}
	}

	counts := make(map[string]int)
	var order []string
	for _, w := range Tokenize(text) {
		if _, stop := stopWords[w]; stop || len([]rune(w)) < minKeywordRunes {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	if order == nil {
		return []string{}
	}
	return order
}

// SentimentOf classifies text by counting positive and negative words.
func SentimentOf(text string) Sentiment {
	pos, neg := 0, 0
	for _, w := range Tokenize(text) {
		if _, ok := positiveWords[w]; ok {
			pos++
		} else if _, ok := negativeWords[w]; ok {
			neg++
		}
	}
	switch {
	case pos > neg:
		return SentimentPositive
	case neg > pos:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// ReadingTime estimates whole minutes to read text at wpm words per minute.
func ReadingTime(text string, wpm int) int {
	words := len(Tokenize(text))
	if words == 0 || wpm <= 0 {
		return 0
	}
	return (words + wpm - 1) / wpm
}

// Summarize returns the first n sentences of text. Text without sentence
// punctuation is returned whole.
func Summarize(text string, n int) string {
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 || n <= 0 {
		return strings.TrimSpace(text)
	}
	if len(sentences) > n {
		sentences = sentences[:n]
	}
	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}
	return strings.Join(sentences, " ")
}

// ImagePrompt builds the visualization prompt from the first 200 characters.
func ImagePrompt(text string) string {
	r := []rune(strings.TrimSpace(text))
	if len(r) > imagePromptRunes {
		r = r[:imagePromptRunes]
	}
	return imagePromptPrefix + string(r)
}

// Similarity is the Jaccard index of the word sets of a and b, in [0,1].
func Similarity(a, b string) float64 {
	wa, wb := tokenSet(a), tokenSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	shared := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(wa)+len(wb)-shared)
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range Tokenize(text) {
		set[w] = struct{}{}
	}
	return set
}
