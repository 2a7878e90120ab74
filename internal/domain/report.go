package domain

import (
	"time"
	"unicode/utf8"

	"github.com/dreamnft/dreamnft-server/internal/authenticity"
)

// Validation report statuses.
const (
	StatusHighlyAuthentic  = "Highly Authentic"
	StatusAuthentic        = "Authentic"
	StatusLikelyAuthentic  = "Likely Authentic"
	StatusUncertain        = "Uncertain"
	StatusLikelyFabricated = "Likely Fabricated"
)

// Report highlights.
const (
	HighlightStrongMarkers = "Strong authenticity markers detected"
	HighlightDetailed      = "Exceptionally detailed dream narrative"
	HighlightCoherent      = "Highly coherent dream structure"
	HighlightMinimum       = "Dream meets minimum authenticity criteria"
)

// ValidationReport is the archived account of a dream's authenticity check.
type ValidationReport struct {
	CreatedAt      time.Time               `json:"created_at"`
	DreamID        string                  `json:"dream_id"`
	Status         string                  `json:"status"`
	ReasonCode     authenticity.ReasonCode `json:"reason_code"`
	PatternVersion string                  `json:"pattern_version"`
	Highlights     []string                `json:"highlights"`
	Signals        []authenticity.Signal   `json:"signals"`
	Score          float64                 `json:"score"`
	Confidence     int                     `json:"confidence"`
}

// NewValidationReport builds the report for a dream from its authenticity result.
func NewValidationReport(d *Dream, at time.Time) *ValidationReport {
	result := d.Authenticity
	signals := result.MatchedSignals
	if signals == nil {
		signals = []authenticity.Signal{}
	}
	return &ValidationReport{
		CreatedAt:      at,
		DreamID:        d.ID,
		Status:         ReportStatus(result.Score),
		ReasonCode:     result.ReasonCode,
		PatternVersion: d.PatternVersion,
		Highlights:     reportHighlights(d),
		Signals:        signals,
		Score:          result.Score,
		Confidence:     result.Confidence,
	}
}

// ReportStatus maps an authenticity score to its report status.
func ReportStatus(score float64) string {
	total := int(score*100 + 0.5)
	switch {
	case total >= 90:
		return StatusHighlyAuthentic
	case total >= 80:
		return StatusAuthentic
	case total >= 70:
		return StatusLikelyAuthentic
	case total >= 50:
		return StatusUncertain
	default:
		return StatusLikelyFabricated
	}
}

func reportHighlights(d *Dream) []string {
	var highlights []string
	if d.Authenticity.IsAuthentic && d.Authenticity.Confidence > 80 {
		highlights = append(highlights, HighlightStrongMarkers)
	}
	if utf8.RuneCountInString(d.Text) > 500 {
		highlights = append(highlights, HighlightDetailed)
	}
	positive := 0
	for _, s := range d.Authenticity.MatchedSignals {
		if s.Impact == authenticity.ImpactPositive {
			positive++
		}
	}
	if positive >= 3 {
		highlights = append(highlights, HighlightCoherent)
	}
	if len(highlights) == 0 {
		highlights = append(highlights, HighlightMinimum)
	}
	return highlights
}
