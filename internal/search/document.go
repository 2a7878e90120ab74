// Package search provides full-text dream search using Bleve, with tag,
// theme, tier and emotion facets and a minimum-rarity filter.
package search

import (
	"slices"

	"github.com/dreamnft/dreamnft-server/internal/domain"
	"github.com/dreamnft/dreamnft-server/internal/emotion"
	"github.com/dreamnft/dreamnft-server/internal/util"
)

// DreamDocument is the indexed projection of a dream.
type DreamDocument struct {
	ID       string   `json:"id"`
	UserID   string   `json:"user_id"`
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Tags     []string `json:"tags,omitempty"`   // slugs of user and AI tags
	Themes   []string `json:"themes,omitempty"` // theme names
	Emotion  string   `json:"emotion,omitempty"`
	Tier     string   `json:"tier"`
	Rarity   int      `json:"rarity"`
	Likes    int      `json:"likes"`
	IsPublic bool     `json:"is_public"`

	CreatedAt int64 `json:"created_at"` // Unix milliseconds
}

// NewDreamDocument projects a dream into a search document.
func NewDreamDocument(d *domain.Dream) *DreamDocument {
	doc := &DreamDocument{
		ID:        d.ID,
		UserID:    d.UserID,
		Title:     d.Title,
		Text:      d.Text,
		Tier:      d.RarityTier.String(),
		Rarity:    d.Rarity,
		Likes:     d.Likes,
		IsPublic:  d.IsPublic,
		CreatedAt: d.CreatedAt.UnixMilli(),
	}
	for _, tag := range d.AllTags() {
		if slug := util.NormalizeTagSlug(tag); slug != "" && !slices.Contains(doc.Tags, slug) {
			doc.Tags = append(doc.Tags, slug)
		}
	}
	for _, t := range d.Themes {
		doc.Themes = append(doc.Themes, t.Name)
	}
	if top, ok := emotion.Top(d.Emotions); ok && top.Score > 0 {
		doc.Emotion = string(top.Emotion)
	}
	return doc
}

// ToMap converts the document to the field map indexed by Bleve. Keys match
// the index mapping.
func (d *DreamDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"user_id":    d.UserID,
		"title":      d.Title,
		"text":       d.Text,
		"tier":       d.Tier,
		"rarity":     float64(d.Rarity),
		"likes":      float64(d.Likes),
		"is_public":  d.IsPublic,
		"created_at": float64(d.CreatedAt),
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if len(d.Themes) > 0 {
		m["themes"] = d.Themes
	}
	if d.Emotion != "" {
		m["emotion"] = d.Emotion
	}
	return m
}
