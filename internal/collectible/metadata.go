// Package collectible labels a scored dream as ERC-721 style token metadata.
// It never talks to a chain; callers publish the document themselves.
package collectible

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dreamnft/dreamnft-server/internal/domain"
	"github.com/dreamnft/dreamnft-server/internal/emotion"
	"github.com/dreamnft/dreamnft-server/internal/insight"
	"github.com/dreamnft/dreamnft-server/internal/theme"
)

// Trait names.
const (
	TraitRarity      = "Rarity"
	TraitRarityScore = "Rarity Score"
	TraitValidation  = "AI Validation Score"
	TraitCategory    = "Category"
	TraitEmotion     = "Emotion"
	TraitClarity     = "Clarity"
	TraitHasAudio    = "Has Audio"
	TraitHasImage    = "Has Image"
	TraitCreator     = "Creator"
	TraitTag         = "Tag"
)

// Clarity levels derived from authenticity confidence.
const (
	ClarityHigh   = "High"
	ClarityMedium = "Medium"
	ClarityLow    = "Low"
)

// ExternalURLBase prefixes the public dream page link.
const ExternalURLBase = "https://dreamnft.com/dreams/"

const descriptionSentences = 2

// Attribute is one trait of the token.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

// Metadata is the token metadata document.
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ExternalURL string      `json:"external_url"`
	ImagePrompt string      `json:"image_prompt"`
	Tier        string      `json:"tier"`
	TierColor   string      `json:"tier_color"`
	Attributes  []Attribute `json:"attributes"`
}

var titleCase = cases.Title(language.English)

// Build labels d for token tokenID.
func Build(d *domain.Dream, tokenID string) Metadata {
	attrs := []Attribute{
		{TraitType: TraitRarity, Value: d.MintTier.String()},
		{TraitType: TraitRarityScore, Value: d.Rarity},
		{TraitType: TraitValidation, Value: d.Authenticity.Confidence},
		{TraitType: TraitCategory, Value: Category(d.Themes)},
		{TraitType: TraitEmotion, Value: EmotionLabel(d.Emotions)},
		{TraitType: TraitClarity, Value: Clarity(d.Authenticity.Confidence)},
		{TraitType: TraitHasAudio, Value: d.HasAudio},
		{TraitType: TraitHasImage, Value: d.HasImage},
		{TraitType: TraitCreator, Value: d.UserID},
	}
	for _, tag := range d.AllTags() {
		attrs = append(attrs, Attribute{TraitType: TraitTag, Value: tag})
	}

	return Metadata{
		Name:        fmt.Sprintf("Dream NFT #%s", tokenID),
		Description: insight.Summarize(d.Text, descriptionSentences),
		ExternalURL: ExternalURLBase + d.ID,
		ImagePrompt: insight.ImagePrompt(d.Text),
		Tier:        d.MintTier.String(),
		TierColor:   d.MintTier.Color(),
		Attributes:  attrs,
	}
}

// Category is the primary theme name, or "Uncategorized" without themes.
func Category(themes []theme.Theme) string {
	if primary, ok := theme.Primary(themes); ok {
		return primary.Name
	}
	return "Uncategorized"
}

// EmotionLabel is the title-cased top emotion, or "Neutral" when the profile
// carries no signal.
func EmotionLabel(scores []emotion.Score) string {
	top, ok := emotion.Top(scores)
	if !ok {
		return "Neutral"
	}
	return titleCase.String(string(top.Emotion))
}

// Clarity grades authenticity confidence.
func Clarity(confidence int) string {
	switch {
	case confidence >= 80:
		return ClarityHigh
	case confidence >= 50:
		return ClarityMedium
	default:
		return ClarityLow
	}
}
