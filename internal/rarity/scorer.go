// Package rarity computes the bounded rarity of a dream.
//
// Two models are provided as pure functions. Weighted is the continuous 0-100
// score persisted on a dream and used for display and sorting; its tier comes
// from TierForScore. Discrete is the coarse point model used to classify a
// dream for minting.
package rarity

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dreamnft/dreamnft-server/internal/pattern"
)

// Weighted model constants.
const (
	MaxScore = 100

	authenticityWeight = 10.0
	audioBonus         = 20.0
	imageBonus         = 15.0
	tagBonusPerTag     = 2.0
	tagBonusCap        = 20.0
	likesPerPoint      = 10.0
	likesCap           = 20.0
	commentsPerPoint   = 5.0
	commentsCap        = 10.0
)

// WeightedInput holds every field the weighted model reads.
type WeightedInput struct {
	AuthenticityScore float64
	HasAudio          bool
	HasImage          bool
	TextLength        int
	TagCount          int
	Likes             int
	CommentCount      int
}

// Weighted computes the weighted-additive rarity, rounded then clamped to [0,100].
func Weighted(in WeightedInput) int {
	raw := in.AuthenticityScore * authenticityWeight
	if in.HasAudio {
		raw += audioBonus
	}
	if in.HasImage {
		raw += imageBonus
	}
	raw += float64(LengthBonus(in.TextLength))
	raw += math.Min(float64(in.TagCount)*tagBonusPerTag, tagBonusCap)
	raw += math.Min(float64(in.Likes)/likesPerPoint, likesCap)
	raw += math.Min(float64(in.CommentCount)/commentsPerPoint, commentsCap)

	score := int(math.Round(raw))
	return max(0, min(score, MaxScore))
}

// LengthBonus is the description-length term of the weighted model.
func LengthBonus(length int) int {
	switch {
	case length > 500:
		return 25
	case length > 300:
		return 15
	case length > 100:
		return 5
	default:
		return 0
	}
}

// DiscreteInput holds every field the discrete model reads.
type DiscreteInput struct {
	Text string
	Tags []string
}

// DiscreteScorer evaluates the discrete model using the rarity cues of a
// pattern library.
type DiscreteScorer struct {
	cues []pattern.Entry
}

// NewDiscrete creates a discrete scorer.
func NewDiscrete(lib *pattern.Library) *DiscreteScorer {
	return &DiscreteScorer{cues: lib.RarityCues()}
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// longSentenceWords is the average sentence length above which a narrative
// earns a point.
const longSentenceWords = 15

// Score returns the discrete points and tier.
//
// +2 for length over 500 characters, else +1 over 300; each firing cue adds
// its weight (lucid +2, vivid +1, recurring -1); +1 when sentences average
// more than fifteen words. A lucid tag on the dream fires the lucid cue even
// when the text does not.
func (d *DiscreteScorer) Score(in DiscreteInput) (int, Tier) {
	points := 0

	length := utf8.RuneCountInString(in.Text)
	switch {
	case length > 500:
		points += 2
	case length > 300:
		points++
	}

	tagged := hasTag(in.Tags, pattern.TagLucid)
	for _, cue := range d.cues {
		if cue.Matcher.Matches(in.Text) || (cue.Cue == pattern.CueLucid && tagged) {
			points += int(cue.Weight)
		}
	}

	if AverageSentenceWords(in.Text) > longSentenceWords {
		points++
	}

	return points, TierForPoints(points)
}

func hasTag(tags []string, name string) bool {
	for _, tag := range tags {
		if strings.EqualFold(tag, name) {
			return true
		}
	}
	return false
}

// AverageSentenceWords returns the mean word count of the non-empty sentences
// in text, or 0 when there are none.
func AverageSentenceWords(text string) float64 {
	sentences, words := 0, 0
	for _, part := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		sentences++
		words += len(strings.Fields(part))
	}
	if sentences == 0 {
		return 0
	}
	return float64(words) / float64(sentences)
}
