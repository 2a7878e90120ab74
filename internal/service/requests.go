package service

import (
	"github.com/dreamnft/dreamnft-server/internal/scoring"
	"github.com/dreamnft/dreamnft-server/internal/search"
	"github.com/dreamnft/dreamnft-server/internal/store"
)

// SubmitRequest is a new dream submission.
type SubmitRequest struct {
	UserID   string   `json:"user_id" validate:"required,max=64"`
	Title    string   `json:"title,omitempty" validate:"max=200"`
	Text     string   `json:"text" validate:"required,max=50000"`
	UserTags []string `json:"user_tags,omitempty" validate:"max=50,dive,dreamtag,max=64"`
	HasAudio bool     `json:"has_audio,omitempty"`
	HasImage bool     `json:"has_image,omitempty"`
	IsPublic bool     `json:"is_public,omitempty"`
}

// UpdateTextRequest replaces a dream's narrative.
type UpdateTextRequest struct {
	Text string `json:"text" validate:"required,max=50000"`
}

// CommentRequest adds a comment to a dream.
type CommentRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
	Text   string `json:"text" validate:"required,max=2000"`
}

// EvaluateRequest scores a narrative without storing it.
type EvaluateRequest struct {
	Text                 string           `json:"text"`
	Metadata             scoring.Metadata `json:"metadata"`
	ValidateAuthenticity bool             `json:"validate_authenticity,omitempty"`
}

// ListRequest pages through dreams.
type ListRequest struct {
	UserID     string `json:"user_id,omitempty" validate:"max=64"`
	PublicOnly bool   `json:"public_only,omitempty"`
	MinRarity  int    `json:"min_rarity,omitempty" validate:"gte=0,lte=100"`
	Sort       string `json:"sort,omitempty" validate:"omitempty,oneof=recent rarity"`
	Limit      int    `json:"limit,omitempty" validate:"gte=0,lte=100"`
	Cursor     string `json:"cursor,omitempty"`
}

func (r ListRequest) params() store.ListDreamsParams {
	return store.ListDreamsParams{
		UserID:     r.UserID,
		PublicOnly: r.PublicOnly,
		MinRarity:  r.MinRarity,
		Sort:       r.Sort,
		PaginationParams: store.PaginationParams{
			Limit:  r.Limit,
			Cursor: r.Cursor,
		},
	}
}

// SearchRequest is a dream search.
type SearchRequest struct {
	Query      string   `json:"query,omitempty" validate:"max=500"`
	Tags       []string `json:"tags,omitempty" validate:"max=20"`
	Themes     []string `json:"themes,omitempty" validate:"max=20"`
	Tiers      []string `json:"tiers,omitempty" validate:"max=5,dive,oneof=Common Uncommon Rare Epic Legendary"`
	UserID     string   `json:"user_id,omitempty" validate:"max=64"`
	MinRarity  int      `json:"min_rarity,omitempty" validate:"gte=0,lte=100"`
	PublicOnly bool     `json:"public_only,omitempty"`
	Sort       string   `json:"sort,omitempty" validate:"omitempty,oneof=relevance rarity recent likes"`
	Limit      int      `json:"limit,omitempty" validate:"gte=0,lte=100"`
	Offset     int      `json:"offset,omitempty" validate:"gte=0"`
}

func (r SearchRequest) params() search.SearchParams {
	p := search.DefaultSearchParams()
	p.Query = r.Query
	p.Tags = r.Tags
	p.Themes = r.Themes
	p.Tiers = r.Tiers
	p.UserID = r.UserID
	p.MinRarity = r.MinRarity
	p.PublicOnly = r.PublicOnly
	if r.Sort != "" {
		p.SortBy = r.Sort
	}
	if r.Limit > 0 {
		p.Limit = r.Limit
	}
	p.Offset = r.Offset
	return p
}
