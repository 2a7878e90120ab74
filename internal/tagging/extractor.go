// Package tagging derives descriptive tags from dream narratives.
package tagging

import "github.com/dreamnft/dreamnft-server/internal/pattern"

// Extractor matches the tag view of a pattern library.
type Extractor struct {
	entries []pattern.Entry
}

// New creates an extractor over the library's tag catalog.
func New(lib *pattern.Library) *Extractor {
	return &Extractor{entries: lib.Tags()}
}

// Extract returns the tags whose matchers fire, in catalog order and without
// duplicates. The result is never nil and is not capped; callers enforce
// their own limits.
func (e *Extractor) Extract(text string) []string {
	tags := make([]string, 0, len(e.entries))
	seen := make(map[string]struct{}, len(e.entries))
	for _, entry := range e.entries {
		if _, ok := seen[entry.Tag]; ok {
			continue
		}
		if entry.Matcher.Matches(text) {
			seen[entry.Tag] = struct{}{}
			tags = append(tags, entry.Tag)
		}
	}
	return tags
}
