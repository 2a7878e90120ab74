package domain

import (
	"encoding/json"
	"slices"
	"strings"
)

// Default tag caps.
const (
	DefaultUserTagCap = 5
	DefaultAITagCap   = 10
)

// TagSet is an insertion-ordered set of tags with a fixed capacity.
// Tags are compared case-insensitively; the first spelling wins.
// Adding beyond capacity or adding a duplicate is a no-op.
type TagSet struct {
	tags  []string
	limit int
}

// NewTagSet creates a set with the given capacity and initial tags. Tags past
// the capacity are dropped. A non-positive limit means unbounded.
func NewTagSet(limit int, tags ...string) TagSet {
	s := TagSet{limit: limit}
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

// Add inserts tag and reports whether the set changed.
func (s *TagSet) Add(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || s.Contains(tag) {
		return false
	}
	if s.limit > 0 && len(s.tags) >= s.limit {
		return false
	}
	s.tags = append(s.tags, tag)
	return true
}

// Contains reports whether tag is in the set, ignoring case.
func (s TagSet) Contains(tag string) bool {
	return slices.ContainsFunc(s.tags, func(t string) bool {
		return strings.EqualFold(t, tag)
	})
}

// Values returns a copy of the tags in insertion order.
func (s TagSet) Values() []string {
	if s.tags == nil {
		return []string{}
	}
	return slices.Clone(s.tags)
}

// Len returns the number of tags.
func (s TagSet) Len() int { return len(s.tags) }

// Limit returns the capacity; 0 means unbounded.
func (s TagSet) Limit() int { return s.limit }

// MarshalJSON encodes the set as a JSON array.
func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON decodes a JSON array, honouring any capacity already set on s.
func (s *TagSet) UnmarshalJSON(b []byte) error {
	var tags []string
	if err := json.Unmarshal(b, &tags); err != nil {
		return err
	}
	*s = NewTagSet(s.limit, tags...)
	return nil
}

// UnionTags merges tag lists in order, dropping case-insensitive duplicates.
func UnionTags(lists ...[]string) []string {
	out := []string{}
	for _, list := range lists {
		for _, t := range list {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if slices.ContainsFunc(out, func(o string) bool { return strings.EqualFold(o, t) }) {
				continue
			}
			out = append(out, t)
		}
	}
	return out
}
