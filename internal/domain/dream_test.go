package domain

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamnft/dreamnft-server/internal/authenticity"
	"github.com/dreamnft/dreamnft-server/internal/errors"
	"github.com/dreamnft/dreamnft-server/internal/pattern"
	"github.com/dreamnft/dreamnft-server/internal/rarity"
	"github.com/dreamnft/dreamnft-server/internal/scoring"
)

const narrative = "I was running through a strange house when suddenly the scene changed and I couldn't move."

func scoredDream(t *testing.T) (*Dream, *scoring.Engine) {
	t.Helper()
	engine := scoring.New(pattern.NewDefault(), scoring.DefaultOptions())
	d := NewDream("dream-1", "user-1", "House", narrative, true, false, DefaultUserTagCap)

	eval, err := engine.Evaluate(context.Background(), scoring.Request{Text: d.Text, Metadata: d.Metadata()})
	require.NoError(t, err)
	d.ApplyEvaluation(eval)
	return d, engine
}

// expectedRarity is the weighted score of d's current fields.
func expectedRarity(d *Dream) int {
	return rarity.Weighted(rarity.WeightedInput{
		AuthenticityScore: d.Authenticity.Score,
		HasAudio:          d.HasAudio,
		HasImage:          d.HasImage,
		TextLength:        len([]rune(d.Text)),
		TagCount:          len(d.AllTags()),
		Likes:             d.Likes,
		CommentCount:      d.CommentCount,
	})
}

func TestDream_ApplyEvaluationMatchesEngine(t *testing.T) {
	engine := scoring.New(pattern.NewDefault(), scoring.DefaultOptions())
	d := NewDream("dream-1", "user-1", "House", narrative, true, false, DefaultUserTagCap)
	d.AddUserTag("nightmare")

	eval, err := engine.Evaluate(context.Background(), scoring.Request{Text: d.Text, Metadata: d.Metadata()})
	require.NoError(t, err)
	d.ApplyEvaluation(eval)

	assert.Equal(t, eval.Rarity, d.Rarity)
	assert.Equal(t, eval.RarityTier, d.RarityTier)
	assert.Equal(t, eval.AITags, d.AITags.Values())
	assert.Equal(t, eval.Fingerprint, d.Fingerprint)
	assert.NoError(t, d.Validate())
}

func TestDream_MutatorsRecomputeRarity(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Dream)
	}{
		{"like", func(d *Dream) {
			for range 30 {
				d.AddLike()
			}
		}},
		{"unlike", func(d *Dream) {
			d.AddLike()
			d.RemoveLike()
		}},
		{"comment", func(d *Dream) {
			for range 12 {
				d.AddComment()
			}
		}},
		{"user tag", func(d *Dream) { d.AddUserTag("night-terror") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := scoredDream(t)
			before := d.Rarity

			tt.mutate(d)

			assert.Equal(t, expectedRarity(d), d.Rarity)
			assert.Equal(t, rarity.TierForScore(d.Rarity), d.RarityTier)
			assert.GreaterOrEqual(t, d.Rarity, before)
		})
	}
}

func TestDream_ReplaceTextRescores(t *testing.T) {
	d, engine := scoredDream(t)
	oldRarity := d.Rarity

	text := "A calm afternoon."
	eval, err := engine.Evaluate(context.Background(), scoring.Request{Text: text, Metadata: d.Metadata()})
	require.NoError(t, err)
	d.ReplaceText(text, eval)

	assert.Equal(t, text, d.Text)
	assert.False(t, d.Authenticity.IsAuthentic)
	assert.Empty(t, d.AITags.Values())
	assert.Equal(t, expectedRarity(d), d.Rarity)
	assert.Less(t, d.Rarity, oldRarity)
}

func TestDream_RemoveLikeNeverNegative(t *testing.T) {
	d, _ := scoredDream(t)

	assert.False(t, d.RemoveLike())
	assert.Equal(t, 0, d.Likes)
}

func TestDream_UserTagCap(t *testing.T) {
	d, _ := scoredDream(t)

	for _, tag := range []string{"a", "b", "c", "d", "e"} {
		assert.True(t, d.AddUserTag(tag))
	}
	rarityAtCap := d.Rarity

	assert.False(t, d.AddUserTag("f"), "adding beyond the cap is a no-op")
	assert.False(t, d.AddUserTag("A"), "duplicates ignore case")
	assert.Equal(t, 5, d.UserTags.Len())
	assert.Equal(t, rarityAtCap, d.Rarity)
}

func TestDream_AllTagsCaseInsensitiveUnion(t *testing.T) {
	d := NewDream("dream-1", "user-1", "", "x", false, false, 5)
	d.UserTags = NewTagSet(5, "Flying", "calm")
	d.AITags = NewTagSet(10, "flying", "water")

	assert.Equal(t, []string{"Flying", "calm", "water"}, d.AllTags())
}

func TestDream_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Dream)
		field  string
	}{
		{"empty text", func(d *Dream) { d.Text = " " }, "text"},
		{"score out of range", func(d *Dream) { d.Authenticity.Score = 1.5 }, "authenticity.score"},
		{"confidence out of range", func(d *Dream) { d.Authenticity.Confidence = 101 }, "authenticity.confidence"},
		{"emotions incomplete", func(d *Dream) { d.Emotions = d.Emotions[:3] }, "emotions"},
		{"no themes", func(d *Dream) { d.Themes = nil }, "themes"},
		{"negative likes", func(d *Dream) { d.Likes = -1 }, "likes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := scoredDream(t)
			tt.mutate(d)

			err := d.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrValidation))

			var domainErr *errors.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Contains(t, domainErr.Details, tt.field)
		})
	}
}

func TestTagSet(t *testing.T) {
	s := NewTagSet(3, "one", " two ", "", "ONE", "three", "four")

	assert.Equal(t, []string{"one", "two", "three"}, s.Values())
	assert.True(t, s.Contains("TWO"))
	assert.Equal(t, 3, s.Limit())

	unbounded := NewTagSet(0, "a", "b", "c", "d")
	assert.Equal(t, 4, unbounded.Len())
	assert.Equal(t, []string{}, NewTagSet(2).Values())
}

func TestTagSet_JSON(t *testing.T) {
	s := NewTagSet(2, "a", "b")
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(b))

	capped := NewTagSet(2)
	require.NoError(t, json.Unmarshal([]byte(`["x","y","z"]`), &capped))
	assert.Equal(t, []string{"x", "y"}, capped.Values())
}

func TestReportStatus(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.95, StatusHighlyAuthentic},
		{0.9, StatusHighlyAuthentic},
		{0.85, StatusAuthentic},
		{0.7, StatusLikelyAuthentic},
		{0.5, StatusUncertain},
		{0.49, StatusLikelyFabricated},
		{0, StatusLikelyFabricated},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReportStatus(tt.score), "score %v", tt.score)
	}
}

func TestNewValidationReport(t *testing.T) {
	d, _ := scoredDream(t)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	report := NewValidationReport(d, at)

	assert.Equal(t, d.ID, report.DreamID)
	assert.Equal(t, at, report.CreatedAt)
	assert.Equal(t, d.Authenticity.Score, report.Score)
	assert.Equal(t, ReportStatus(d.Authenticity.Score), report.Status)
	assert.Contains(t, report.Highlights, HighlightCoherent)
	assert.Equal(t, pattern.DefaultVersion, report.PatternVersion)

	empty := &Dream{Authenticity: authenticity.Result{ReasonCode: authenticity.ReasonFabricated}}
	r := NewValidationReport(empty, at)
	assert.Equal(t, []string{HighlightMinimum}, r.Highlights)
	assert.Equal(t, StatusLikelyFabricated, r.Status)
	assert.NotNil(t, r.Signals)
}
