// Package authenticity scores how likely a narrative is a genuine dream
// account rather than fabricated or filler text.
package authenticity

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/dreamnft/dreamnft-server/internal/pattern"
)

// ReasonCode explains the verdict.
type ReasonCode string

// Reason codes.
const (
	ReasonAuthentic  ReasonCode = "DREAM_AUTHENTIC"
	ReasonFabricated ReasonCode = "LIKELY_FABRICATED"
)

// Impact is the sign of a matched signal.
type Impact string

// Signal impacts.
const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
)

const (
	// Threshold is the minimum score for a narrative to be considered authentic.
	Threshold = 0.6

	// MaxSignals caps the matched signals reported in a Result.
	MaxSignals = 5

	maxFeatureScore = 0.7
	lengthWeight    = 0.2
	lengthNorm      = 1000.0
	signalNameLen   = 30
)

// Signal is a matched authenticity cue.
type Signal struct {
	Type   string `json:"type"`
	Impact Impact `json:"impact"`
}

// Result is the outcome of an authenticity evaluation.
//
// Score is in [0,1] with two decimal places, Confidence in [0,100], and
// IsAuthentic is exactly Score >= Threshold.
type Result struct {
	IsAuthentic    bool       `json:"is_authentic"`
	Score          float64    `json:"score"`
	Confidence     int        `json:"confidence"`
	ReasonCode     ReasonCode `json:"reason_code"`
	MatchedSignals []Signal   `json:"matched_signals"`
}

// Evaluator scores narratives against the authenticity view of a pattern library.
// It holds no per-call state and is safe for concurrent use if its noise source is.
type Evaluator struct {
	signals []pattern.Entry
	noise   NoiseSource
}

// New creates an evaluator. A nil noise source means ZeroNoise.
func New(lib *pattern.Library, noise NoiseSource) *Evaluator {
	if noise == nil {
		noise = ZeroNoise{}
	}
	return &Evaluator{
		signals: lib.Authenticity(),
		noise:   noise,
	}
}

// Evaluate scores text. It never fails: empty text yields a low, valid score.
func (e *Evaluator) Evaluate(text string) Result {
	length := float64(utf8.RuneCountInString(text))
	lengthScore := math.Min(length/lengthNorm, 1) * lengthWeight

	featureScore := 0.0
	signals := make([]Signal, 0, MaxSignals)
	for _, entry := range e.signals {
		if !entry.Matcher.Matches(text) {
			continue
		}
		featureScore += entry.Weight
		if len(signals) < MaxSignals {
			signals = append(signals, newSignal(entry))
		}
	}
	featureScore = math.Max(0, math.Min(featureScore, maxFeatureScore))

	final := math.Min(featureScore+lengthScore+clampNoise(e.noise.Noise()), 1)
	score := math.Round(final*100) / 100

	result := Result{
		Score:          score,
		MatchedSignals: signals,
	}
	if score >= Threshold {
		result.IsAuthentic = true
		result.ReasonCode = ReasonAuthentic
		result.Confidence = int(math.Round(score * 100))
	} else {
		result.ReasonCode = ReasonFabricated
		result.Confidence = int(math.Round((1 - score) * 100))
	}
	return result
}

func newSignal(entry pattern.Entry) Signal {
	impact := ImpactPositive
	if entry.Weight < 0 {
		impact = ImpactNegative
	}
	return Signal{
		Type:   signalName(entry.ID()),
		Impact: impact,
	}
}

// signalName strips regex escapes and anchors and truncates the identifier.
func signalName(id string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '\\', '^', '/':
			return -1
		}
		return r
	}, id)
	if utf8.RuneCountInString(name) > signalNameLen {
		name = string([]rune(name)[:signalNameLen])
	}
	return name + "..."
}
