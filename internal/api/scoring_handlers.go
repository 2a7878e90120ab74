package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/dreamnft/dreamnft-server/internal/errors"
	"github.com/dreamnft/dreamnft-server/internal/insight"
	"github.com/dreamnft/dreamnft-server/internal/scoring"
	"github.com/dreamnft/dreamnft-server/internal/service"
)

func (s *Server) registerScoringRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "evaluateDream",
		Method:      http.MethodPost,
		Path:        "/api/v1/evaluate",
		Summary:     "Evaluate a dream",
		Description: "Scores a narrative without storing it: authenticity, tags, emotions, themes and rarity",
		Tags:        []string{"Scoring"},
		Middlewares: s.rateLimited(),
	}, s.handleEvaluate)

	huma.Register(s.api, huma.Operation{
		OperationID: "dreamInsights",
		Method:      http.MethodPost,
		Path:        "/api/v1/insights",
		Summary:     "Dream insights",
		Description: "Evaluates a narrative and adds interpretation, keywords, sentiment, reading time, summary and image prompt",
		Tags:        []string{"Scoring"},
		Middlewares: s.rateLimited(),
	}, s.handleInsights)

	huma.Register(s.api, huma.Operation{
		OperationID: "userDreamPatterns",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/patterns",
		Summary:     "Dream patterns",
		Description: "Aggregates recurring keywords, emotion shares and recording weekdays across a user's dreams",
		Tags:        []string{"Scoring"},
	}, s.handlePatterns)
}

// MetadataRequest is the structural input accompanying a narrative.
type MetadataRequest struct {
	HasAudio     bool     `json:"has_audio,omitempty" doc:"Dream has an audio recording"`
	HasImage     bool     `json:"has_image,omitempty" doc:"Dream has an image"`
	UserTags     []string `json:"user_tags,omitempty" maxItems:"50" doc:"Tags supplied by the dreamer"`
	Likes        int      `json:"likes,omitempty" doc:"Like count"`
	CommentCount int      `json:"comment_count,omitempty" doc:"Comment count"`
}

func (m *MetadataRequest) toScoring() scoring.Metadata {
	if m == nil {
		return scoring.Metadata{}
	}
	return scoring.Metadata{
		HasAudio:     m.HasAudio,
		HasImage:     m.HasImage,
		UserTags:     m.UserTags,
		Likes:        m.Likes,
		CommentCount: m.CommentCount,
	}
}

// EvaluateRequest is the body of an evaluation.
type EvaluateRequest struct {
	Text                 string           `json:"text" maxLength:"50000" doc:"Dream narrative"`
	Metadata             *MetadataRequest `json:"metadata,omitempty" doc:"Structural metadata"`
	ValidateAuthenticity bool             `json:"validate_authenticity,omitempty" doc:"Reject narratives shorter than the validation minimum"`
}

// EvaluateInput wraps the evaluation request for Huma.
type EvaluateInput struct {
	Body EvaluateRequest
}

// EvaluateOutput wraps the evaluation for Huma.
type EvaluateOutput struct {
	Body *scoring.DreamEvaluation
}

func (s *Server) handleEvaluate(ctx context.Context, input *EvaluateInput) (*EvaluateOutput, error) {
	eval, err := s.dreams.Evaluate(ctx, service.EvaluateRequest{
		Text:                 input.Body.Text,
		Metadata:             input.Body.Metadata.toScoring(),
		ValidateAuthenticity: input.Body.ValidateAuthenticity,
	})
	if err != nil {
		// A too-short narrative still carries its full evaluation.
		var domainErr *domainerrors.Error
		if eval != nil && domainerrors.As(err, &domainErr) {
			return nil, domainErr.WithDetails(map[string]any{"evaluation": eval})
		}
		return nil, err
	}
	return &EvaluateOutput{Body: eval}, nil
}

// InsightsRequest is the body of an insights request.
type InsightsRequest struct {
	Text string `json:"text" maxLength:"50000" doc:"Dream narrative"`
}

// InsightsInput wraps the insights request for Huma.
type InsightsInput struct {
	Body InsightsRequest
}

// InsightsOutput wraps the insights for Huma.
type InsightsOutput struct {
	Body *service.InsightResult
}

func (s *Server) handleInsights(ctx context.Context, input *InsightsInput) (*InsightsOutput, error) {
	result, err := s.dreams.Insights(ctx, input.Body.Text)
	if err != nil {
		return nil, err
	}
	return &InsightsOutput{Body: result}, nil
}

// UserIDInput identifies a user by path.
type UserIDInput struct {
	ID string `path:"id" maxLength:"64" doc:"User ID"`
}

// PatternsOutput wraps the pattern report for Huma.
type PatternsOutput struct {
	Body *insight.PatternReport
}

func (s *Server) handlePatterns(ctx context.Context, input *UserIDInput) (*PatternsOutput, error) {
	report, err := s.dreams.Patterns(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PatternsOutput{Body: report}, nil
}
