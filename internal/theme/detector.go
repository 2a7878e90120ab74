// Package theme detects recurring narrative themes.
package theme

import "github.com/dreamnft/dreamnft-server/internal/pattern"

// FallbackIndex is the catalog position returned when no theme matches.
const FallbackIndex = 0

// Theme is a catalog theme with its human-readable description.
type Theme struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Detector matches the theme view of a pattern library.
type Detector struct {
	entries  []pattern.Entry
	fallback int
}

// Option configures a Detector.
type Option func(*Detector)

// WithFallbackIndex selects which catalog entry stands in when nothing matches.
// Out-of-range indexes are ignored.
func WithFallbackIndex(i int) Option {
	return func(d *Detector) {
		if i >= 0 && i < len(d.entries) {
			d.fallback = i
		}
	}
}

// New creates a detector.
func New(lib *pattern.Library, opts ...Option) *Detector {
	d := &Detector{
		entries:  lib.Themes(),
		fallback: FallbackIndex,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns every matching theme in catalog order. When nothing matches
// it returns exactly the fallback theme, so the result is non-empty for any
// non-empty catalog.
func (d *Detector) Detect(text string) []Theme {
	themes := make([]Theme, 0, len(d.entries))
	seen := make(map[string]struct{}, len(d.entries))
	for _, entry := range d.entries {
		if _, ok := seen[entry.Theme]; ok {
			continue
		}
		if entry.Matcher.Matches(text) {
			seen[entry.Theme] = struct{}{}
			themes = append(themes, fromEntry(entry))
		}
	}
	if len(themes) == 0 && len(d.entries) > 0 {
		themes = append(themes, fromEntry(d.entries[d.fallback]))
	}
	return themes
}

// Primary returns the representative theme: the first in catalog order.
func Primary(themes []Theme) (Theme, bool) {
	if len(themes) == 0 {
		return Theme{}, false
	}
	return themes[0], true
}

func fromEntry(e pattern.Entry) Theme {
	return Theme{Name: e.Theme, Description: e.Description}
}
