package rarity

import (
	"fmt"
	"strings"
)

// Tier is a discretization of rarity.
type Tier int

// Tiers in ascending order.
const (
	Common Tier = iota
	Uncommon
	Rare
	Epic
	Legendary
)

var tierNames = [...]string{"Common", "Uncommon", "Rare", "Epic", "Legendary"}

// Display colours used for tier badges.
var tierColors = [...]string{"#A0A0A0", "#4CAF50", "#2196F3", "#9C27B0", "#FFC107"}

// String returns the tier name.
func (t Tier) String() string {
	if t < Common || t > Legendary {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// Color returns the tier's display colour as a hex string.
func (t Tier) Color() string {
	if t < Common || t > Legendary {
		return tierColors[Common]
	}
	return tierColors[t]
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	return t >= Common && t <= Legendary
}

// ParseTier parses a tier name case-insensitively.
func ParseTier(s string) (Tier, error) {
	for i, name := range tierNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Tier(i), nil
		}
	}
	return Common, fmt.Errorf("unknown rarity tier %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid rarity tier %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TierForScore maps a weighted rarity score to a tier:
//
//	0-50   Common
//	51-70  Uncommon
//	71-85  Rare
//	86-95  Epic
//	96-100 Legendary
func TierForScore(score int) Tier {
	switch {
	case score >= 96:
		return Legendary
	case score >= 86:
		return Epic
	case score >= 71:
		return Rare
	case score >= 51:
		return Uncommon
	default:
		return Common
	}
}

// TierForPoints maps discrete-model points to a tier.
func TierForPoints(points int) Tier {
	switch {
	case points >= 4:
		return Legendary
	case points == 3:
		return Epic
	case points == 2:
		return Rare
	case points == 1:
		return Uncommon
	default:
		return Common
	}
}
