package service

import (
	"context"
	"strings"

	"github.com/dreamnft/dreamnft-server/internal/collectible"
	"github.com/dreamnft/dreamnft-server/internal/errors"
	"github.com/dreamnft/dreamnft-server/internal/insight"
	"github.com/dreamnft/dreamnft-server/internal/scoring"
	"github.com/dreamnft/dreamnft-server/internal/store"
)

// maxPatternDreams bounds how many of a user's most recent dreams feed
// pattern analysis.
const maxPatternDreams = 1000

// Evaluate scores a narrative without storing anything. When validation is
// requested and the text is too short, the evaluation is returned alongside
// the InputTooShort error.
func (s *DreamService) Evaluate(ctx context.Context, req EvaluateRequest) (*scoring.DreamEvaluation, error) {
	return s.engine.Evaluate(ctx, scoring.Request{
		Text:                 req.Text,
		Metadata:             req.Metadata,
		ValidateAuthenticity: req.ValidateAuthenticity,
	})
}

// InsightResult is an evaluation together with its text insights.
type InsightResult struct {
	Evaluation *scoring.DreamEvaluation `json:"evaluation"`
	Insights   insight.Report           `json:"insights"`
}

// Insights evaluates text and derives the interpretation, keywords,
// sentiment, reading time, summary and image prompt.
func (s *DreamService) Insights(ctx context.Context, text string) (*InsightResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.ValidationWithDetails("text is required", map[string]string{"text": "is required"})
	}
	eval, err := s.engine.Evaluate(ctx, scoring.Request{Text: text})
	if err != nil {
		return nil, err
	}
	return &InsightResult{
		Evaluation: eval,
		Insights:   insight.Build(s.engine.Snapshot(text), eval.Emotions, eval.Themes),
	}, nil
}

// Collectible returns the collectible metadata of a stored dream. The dream
// ID doubles as the token ID.
func (s *DreamService) Collectible(ctx context.Context, dreamID string) (*collectible.Metadata, error) {
	d, err := s.Get(ctx, dreamID)
	if err != nil {
		return nil, err
	}
	m := collectible.Build(d, d.ID)
	return &m, nil
}

// Patterns aggregates recurring keywords, emotions and recording weekdays
// across a user's most recent dreams. A user without dreams gets a report
// with HasEnoughData false.
func (s *DreamService) Patterns(ctx context.Context, userID string) (*insight.PatternReport, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.ValidationWithDetails("user id is required", map[string]string{"user_id": "is required"})
	}

	var samples []insight.Sample
	params := store.ListDreamsParams{
		UserID:           userID,
		Sort:             store.SortRecent,
		PaginationParams: store.PaginationParams{Limit: store.MaxPageSize},
	}
	for len(samples) < maxPatternDreams {
		page, err := s.store.ListDreams(ctx, params)
		if err != nil {
			return nil, mapStoreError(err)
		}
		for _, d := range page.Items {
			samples = append(samples, insight.Sample{Text: d.Text, RecordedAt: d.CreatedAt})
		}
		if !page.HasMore {
			break
		}
		params.Cursor = page.NextCursor
	}
	if len(samples) > maxPatternDreams {
		samples = samples[:maxPatternDreams]
	}

	report := s.patterns.Analyze(samples)
	return &report, nil
}
