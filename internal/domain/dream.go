// Package domain contains the persisted entities of the dream scoring server.
package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/dreamnft/dreamnft-server/internal/authenticity"
	"github.com/dreamnft/dreamnft-server/internal/emotion"
	"github.com/dreamnft/dreamnft-server/internal/errors"
	"github.com/dreamnft/dreamnft-server/internal/rarity"
	"github.com/dreamnft/dreamnft-server/internal/scoring"
	"github.com/dreamnft/dreamnft-server/internal/theme"
)

// Dream is one dream submission and its derived scores.
//
// Rarity and RarityTier are never assigned directly: every mutator ends by
// calling Recompute, which derives them from the current fields.
type Dream struct {
	Syncable
	UserID         string              `json:"user_id"`
	Title          string              `json:"title"`
	Text           string              `json:"text"`
	Interpretation string              `json:"interpretation,omitempty"`
	Fingerprint    string              `json:"fingerprint"`
	PatternVersion string              `json:"pattern_version"`
	UserTags       TagSet              `json:"user_tags"`
	AITags         TagSet              `json:"ai_tags"`
	Authenticity   authenticity.Result `json:"authenticity"`
	Emotions       []emotion.Score     `json:"emotions"`
	Themes         []theme.Theme       `json:"themes"`
	Rarity         int                 `json:"rarity"`
	RarityTier     rarity.Tier         `json:"rarity_tier"`
	MintPoints     int                 `json:"mint_points"`
	MintTier       rarity.Tier         `json:"mint_tier"`
	Likes          int                 `json:"likes"`
	CommentCount   int                 `json:"comment_count"`
	HasAudio       bool                `json:"has_audio"`
	HasImage       bool                `json:"has_image"`
	IsPublic       bool                `json:"is_public"`
}

// NewDream creates an unscored dream. Call ApplyEvaluation before persisting.
func NewDream(id, userID, title, text string, hasAudio, hasImage bool, userTagCap int) *Dream {
	d := &Dream{
		UserID:   userID,
		Title:    title,
		Text:     text,
		HasAudio: hasAudio,
		HasImage: hasImage,
		UserTags: NewTagSet(userTagCap),
		AITags:   NewTagSet(DefaultAITagCap),
	}
	d.ID = id
	d.InitTimestamps()
	return d
}

// Metadata returns the structural input the scoring engine reads.
func (d *Dream) Metadata() scoring.Metadata {
	return scoring.Metadata{
		HasAudio:     d.HasAudio,
		HasImage:     d.HasImage,
		UserTags:     d.UserTags.Values(),
		Likes:        d.Likes,
		CommentCount: d.CommentCount,
	}
}

// AllTags is the case-insensitive union of user and AI tags, user tags first.
func (d *Dream) AllTags() []string {
	return UnionTags(d.UserTags.Values(), d.AITags.Values())
}

// Recompute derives Rarity and RarityTier from the current fields.
func (d *Dream) Recompute() {
	d.Rarity = rarity.Weighted(rarity.WeightedInput{
		AuthenticityScore: d.Authenticity.Score,
		HasAudio:          d.HasAudio,
		HasImage:          d.HasImage,
		TextLength:        utf8.RuneCountInString(d.Text),
		TagCount:          len(d.AllTags()),
		Likes:             d.Likes,
		CommentCount:      d.CommentCount,
	})
	d.RarityTier = rarity.TierForScore(d.Rarity)
}

// ApplyEvaluation stores the text-derived fields of eval and recomputes rarity.
func (d *Dream) ApplyEvaluation(eval *scoring.DreamEvaluation) {
	limit := d.AITags.Limit()
	if limit == 0 {
		limit = DefaultAITagCap
	}
	d.Authenticity = eval.Authenticity
	d.AITags = NewTagSet(limit, eval.AITags...)
	d.Emotions = eval.Emotions
	d.Themes = eval.Themes
	d.MintPoints = eval.MintPoints
	d.MintTier = eval.MintTier
	d.Fingerprint = eval.Fingerprint
	d.PatternVersion = eval.PatternVersion
	d.Recompute()
	d.Touch()
}

// ReplaceText swaps the narrative and applies its fresh evaluation.
func (d *Dream) ReplaceText(text string, eval *scoring.DreamEvaluation) {
	d.Text = text
	d.ApplyEvaluation(eval)
}

// SetMint records the discrete mint classification.
func (d *Dream) SetMint(points int, tier rarity.Tier) {
	d.MintPoints = points
	d.MintTier = tier
}

// AddUserTag adds a tag and reports whether it was added. Adding a duplicate
// or adding beyond the cap is a no-op.
func (d *Dream) AddUserTag(tag string) bool {
	if !d.UserTags.Add(tag) {
		return false
	}
	d.Recompute()
	d.Touch()
	return true
}

// AddLike increments the like counter.
func (d *Dream) AddLike() {
	d.Likes++
	d.Recompute()
	d.Touch()
}

// RemoveLike decrements the like counter, never below zero.
func (d *Dream) RemoveLike() bool {
	if d.Likes == 0 {
		return false
	}
	d.Likes--
	d.Recompute()
	d.Touch()
	return true
}

// AddComment increments the comment counter.
func (d *Dream) AddComment() {
	d.CommentCount++
	d.Recompute()
	d.Touch()
}

// Validate checks the record invariants.
func (d *Dream) Validate() error {
	details := map[string]string{}

	if strings.TrimSpace(d.Text) == "" {
		details["text"] = "is required"
	}
	if s := d.Authenticity.Score; s < 0 || s > 1 {
		details["authenticity.score"] = "must be within [0,1]"
	}
	if c := d.Authenticity.Confidence; c < 0 || c > 100 {
		details["authenticity.confidence"] = "must be within [0,100]"
	}
	if n := len(d.Emotions); n != 0 && n != 6 {
		details["emotions"] = "must cover the six emotions"
	}
	if len(d.Themes) == 0 {
		details["themes"] = "must not be empty"
	}
	if d.Likes < 0 {
		details["likes"] = "must be non-negative"
	}
	if d.CommentCount < 0 {
		details["comment_count"] = "must be non-negative"
	}
	if l := d.UserTags.Limit(); l > 0 && d.UserTags.Len() > l {
		details["user_tags"] = "exceeds cap"
	}
	if l := d.AITags.Limit(); l > 0 && d.AITags.Len() > l {
		details["ai_tags"] = "exceeds cap"
	}
	if d.Rarity < 0 || d.Rarity > rarity.MaxScore {
		details["rarity"] = "must be within [0,100]"
	}

	if len(details) > 0 {
		return errors.ValidationWithDetails("invalid dream", details)
	}
	return nil
}
