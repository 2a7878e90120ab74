package pattern

import (
	"regexp"
	"strings"
	"unicode"
)

// Matcher tests a narrative for a linguistic cue.
// Implementations must be safe for concurrent use.
type Matcher interface {
	// Matches reports whether the cue is present at least once.
	Matches(text string) bool
	// Count returns the number of non-overlapping occurrences of the cue.
	Count(text string) int
	// String returns a stable, human-readable identifier for the cue.
	String() string
}

// RegexMatcher is a case-insensitive regular expression matcher.
type RegexMatcher struct {
	expr string
	re   *regexp.Regexp
}

// Regex compiles expr as a case-insensitive matcher.
// It panics if expr is invalid; catalogs are static and compiled at construction.
func Regex(expr string) *RegexMatcher {
	return &RegexMatcher{
		expr: expr,
		re:   regexp.MustCompile(`(?i)` + expr),
	}
}

// Matches implements Matcher.
func (m *RegexMatcher) Matches(text string) bool {
	return m.re.MatchString(text)
}

// Count implements Matcher.
func (m *RegexMatcher) Count(text string) int {
	return len(m.re.FindAllStringIndex(text, -1))
}

// String returns the expression without the case-insensitivity flag.
func (m *RegexMatcher) String() string {
	return m.expr
}

// KeywordMatcher matches whole words from a fixed list, ignoring case.
// It is a cheaper alternative to RegexMatcher for plain vocabulary cues.
type KeywordMatcher struct {
	words map[string]struct{}
	label string
}

// Keywords creates a matcher for the given words.
func Keywords(words ...string) *KeywordMatcher {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &KeywordMatcher{
		words: set,
		label: strings.Join(words, "|"),
	}
}

// Matches implements Matcher.
func (m *KeywordMatcher) Matches(text string) bool {
	found := false
	m.scan(text, func() bool {
		found = true
		return false
	})
	return found
}

// Count implements Matcher.
func (m *KeywordMatcher) Count(text string) int {
	n := 0
	m.scan(text, func() bool {
		n++
		return true
	})
	return n
}

// String implements Matcher.
func (m *KeywordMatcher) String() string {
	return m.label
}

// scan calls hit for every word in text that is in the keyword set.
// Scanning stops when hit returns false.
func (m *KeywordMatcher) scan(text string, hit func() bool) {
	isWordRune := func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\''
	}
	for _, word := range strings.FieldsFunc(text, func(r rune) bool { return !isWordRune(r) }) {
		if _, ok := m.words[strings.ToLower(word)]; ok {
			if !hit() {
				return
			}
		}
	}
}
