// Package scoring is the single evaluation entry point for dream narratives.
//
// An Engine runs the authenticity, tag, emotion and theme evaluators over an
// immutable text snapshot, then derives rarity from their outputs. The engine
// performs no I/O and never logs; errors are returned to the caller, which
// decides whether to block or continue with the partial evaluation.
package scoring

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/dreamnft/dreamnft-server/internal/authenticity"
	"github.com/dreamnft/dreamnft-server/internal/emotion"
	"github.com/dreamnft/dreamnft-server/internal/errors"
	"github.com/dreamnft/dreamnft-server/internal/id"
	"github.com/dreamnft/dreamnft-server/internal/pattern"
	"github.com/dreamnft/dreamnft-server/internal/rarity"
	"github.com/dreamnft/dreamnft-server/internal/tagging"
	"github.com/dreamnft/dreamnft-server/internal/theme"
)

// Options configures an Engine.
type Options struct {
	// MaxTagCount caps the AI tags kept on an evaluation.
	MaxTagCount int
	// MinTextLengthForValidation is the shortest text, in characters, accepted
	// when authenticity validation is requested.
	MinTextLengthForValidation int
	// MaxTextLength bounds matching cost. Longer text is truncated.
	MaxTextLength int
	// Noise is the authenticity uncertainty source. Nil means zero noise.
	Noise authenticity.NoiseSource
	// Parallel runs the four text evaluators concurrently.
	Parallel bool
	// FallbackThemeIndex selects the theme reported when none match.
	FallbackThemeIndex int
}

// DefaultOptions returns the standard engine configuration.
func DefaultOptions() Options {
	return Options{
		MaxTagCount:                10,
		MinTextLengthForValidation: 20,
		MaxTextLength:              10000,
		Noise:                      authenticity.ZeroNoise{},
		Parallel:                   true,
		FallbackThemeIndex:         theme.FallbackIndex,
	}
}

// Metadata is the structural input accompanying a narrative.
type Metadata struct {
	HasAudio     bool     `json:"has_audio"`
	HasImage     bool     `json:"has_image"`
	UserTags     []string `json:"user_tags,omitempty"`
	Likes        int      `json:"likes"`
	CommentCount int      `json:"comment_count"`
}

// Validate rejects negative counters and blank tags.
func (m Metadata) Validate() error {
	details := map[string]string{}
	if m.Likes < 0 {
		details["likes"] = "must be non-negative"
	}
	if m.CommentCount < 0 {
		details["comment_count"] = "must be non-negative"
	}
	for _, t := range m.UserTags {
		if strings.TrimSpace(t) == "" {
			details["user_tags"] = "must not contain blank tags"
			break
		}
	}
	if len(details) > 0 {
		return errors.InvalidMetadataWithDetails("invalid dream metadata", details)
	}
	return nil
}

// Request is a single evaluation request.
type Request struct {
	Text                 string
	Metadata             Metadata
	ValidateAuthenticity bool
}

// DreamEvaluation is the full result of evaluating a narrative.
type DreamEvaluation struct {
	Authenticity   authenticity.Result `json:"authenticity"`
	AITags         []string            `json:"ai_tags"`
	Emotions       []emotion.Score     `json:"emotions"`
	Themes         []theme.Theme       `json:"themes"`
	Rarity         int                 `json:"rarity"`
	RarityTier     rarity.Tier         `json:"rarity_tier"`
	MintPoints     int                 `json:"mint_points"`
	MintTier       rarity.Tier         `json:"mint_tier"`
	Fingerprint    string              `json:"fingerprint"`
	PatternVersion string              `json:"pattern_version"`
}

// Engine evaluates dream narratives. It is safe for concurrent use when its
// noise source is.
type Engine struct {
	lib      *pattern.Library
	opts     Options
	auth     *authenticity.Evaluator
	tags     *tagging.Extractor
	emotions *emotion.Profiler
	themes   *theme.Detector
	discrete *rarity.DiscreteScorer
}

// New creates an engine over lib. Zero-valued limits in opts fall back to
// DefaultOptions.
func New(lib *pattern.Library, opts Options) *Engine {
	def := DefaultOptions()
	if opts.MaxTagCount <= 0 {
		opts.MaxTagCount = def.MaxTagCount
	}
	if opts.MinTextLengthForValidation <= 0 {
		opts.MinTextLengthForValidation = def.MinTextLengthForValidation
	}
	if opts.MaxTextLength <= 0 {
		opts.MaxTextLength = def.MaxTextLength
	}
	if opts.Noise == nil {
		opts.Noise = def.Noise
	}

	return &Engine{
		lib:      lib,
		opts:     opts,
		auth:     authenticity.New(lib, opts.Noise),
		tags:     tagging.New(lib),
		emotions: emotion.New(lib),
		themes:   theme.New(lib, theme.WithFallbackIndex(opts.FallbackThemeIndex)),
		discrete: rarity.NewDiscrete(lib),
	}
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// Library returns the pattern library the engine matches against.
func (e *Engine) Library() *pattern.Library { return e.lib }

// PatternVersion returns the version of the catalog the engine matches against.
func (e *Engine) PatternVersion() string { return e.lib.Version() }

// Snapshot returns the NFC-normalized text truncated to the configured maximum.
func (e *Engine) Snapshot(text string) string {
	return Snapshot(text, e.opts.MaxTextLength)
}

// Snapshot returns text in NFC form, truncated to at most maxRunes runes.
func Snapshot(text string, maxRunes int) string {
	s := norm.NFC.String(text)
	if maxRunes > 0 && utf8.RuneCountInString(s) > maxRunes {
		s = string([]rune(s)[:maxRunes])
	}
	return s
}

// Evaluate scores a narrative.
//
// Invalid metadata fails with an InvalidMetadata error and no evaluation.
// When req.ValidateAuthenticity is set and the text is shorter than the
// configured minimum, the complete evaluation is returned together with an
// InputTooShort error.
func (e *Engine) Evaluate(ctx context.Context, req Request) (*DreamEvaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Metadata.Validate(); err != nil {
		return nil, err
	}

	text := e.Snapshot(req.Text)
	eval := &DreamEvaluation{
		Fingerprint:    id.Fingerprint(text),
		PatternVersion: e.lib.Version(),
	}

	tasks := []func(){
		func() { eval.Authenticity = e.auth.Evaluate(text) },
		func() { eval.AITags = capTags(e.tags.Extract(text), e.opts.MaxTagCount) },
		func() { eval.Emotions = e.emotions.Profile(text) },
		func() { eval.Themes = e.themes.Detect(text) },
	}
	if err := e.run(ctx, tasks); err != nil {
		return nil, err
	}

	allTags := mergeTags(req.Metadata.UserTags, eval.AITags)
	eval.Rarity = rarity.Weighted(rarity.WeightedInput{
		AuthenticityScore: eval.Authenticity.Score,
		HasAudio:          req.Metadata.HasAudio,
		HasImage:          req.Metadata.HasImage,
		TextLength:        utf8.RuneCountInString(text),
		TagCount:          len(allTags),
		Likes:             req.Metadata.Likes,
		CommentCount:      req.Metadata.CommentCount,
	})
	eval.RarityTier = rarity.TierForScore(eval.Rarity)
	eval.MintPoints, eval.MintTier = e.discrete.Score(rarity.DiscreteInput{Text: text, Tags: allTags})

	if req.ValidateAuthenticity {
		if n := utf8.RuneCountInString(strings.TrimSpace(text)); n < e.opts.MinTextLengthForValidation {
			return eval, errors.InputTooShortf(
				"dream text must be at least %d characters for validation, got %d",
				e.opts.MinTextLengthForValidation, n,
			)
		}
	}
	return eval, nil
}

// Mint returns the discrete points and tier for text carrying tags.
func (e *Engine) Mint(text string, tags []string) (int, rarity.Tier) {
	return e.discrete.Score(rarity.DiscreteInput{Text: e.Snapshot(text), Tags: tags})
}

// run executes the independent evaluators. Each task writes a distinct field,
// so no synchronization beyond the group wait is needed.
func (e *Engine) run(ctx context.Context, tasks []func()) error {
	if !e.opts.Parallel {
		for _, task := range tasks {
			task()
		}
		return ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			task()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("evaluate dream: %w", err)
	}
	return nil
}

func capTags(tags []string, limit int) []string {
	if limit > 0 && len(tags) > limit {
		return tags[:limit]
	}
	return tags
}

// mergeTags is the case-insensitive union of user and AI tags, user tags first.
func mergeTags(user, ai []string) []string {
	seen := make(map[string]struct{}, len(user)+len(ai))
	out := make([]string, 0, len(user)+len(ai))
	for _, list := range [][]string{user, ai} {
		for _, t := range list {
			t = strings.TrimSpace(t)
			key := strings.ToLower(t)
			if _, ok := seen[key]; ok || t == "" {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
