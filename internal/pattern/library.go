// Package pattern provides the weighted textual signal catalog shared by the
// dream evaluators.
//
// A Library is immutable once built. Evaluators receive it at construction
// time and read one of its views; views are returned as copies so no caller
// can mutate the catalog.
package pattern

import "slices"

// Kind identifies which evaluator an entry belongs to.
type Kind int

// Entry kinds.
const (
	KindAuthenticity Kind = iota + 1
	KindTag
	KindEmotion
	KindTheme
	KindRarityCue
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindAuthenticity:
		return "authenticity"
	case KindTag:
		return "tag"
	case KindEmotion:
		return "emotion"
	case KindTheme:
		return "theme"
	case KindRarityCue:
		return "rarity_cue"
	default:
		return "unknown"
	}
}

// Emotion is a member of the fixed emotion set.
type Emotion string

// The fixed emotion set, in catalog order.
const (
	EmotionFear       Emotion = "fear"
	EmotionJoy        Emotion = "joy"
	EmotionSadness    Emotion = "sadness"
	EmotionConfusion  Emotion = "confusion"
	EmotionAnxiety    Emotion = "anxiety"
	EmotionExcitement Emotion = "excitement"
)

// Emotions returns the fixed emotion set in catalog order.
func Emotions() []Emotion {
	return []Emotion{
		EmotionFear,
		EmotionJoy,
		EmotionSadness,
		EmotionConfusion,
		EmotionAnxiety,
		EmotionExcitement,
	}
}

// Entry is one weighted signal in the catalog.
type Entry struct {
	Kind    Kind
	Matcher Matcher
	Weight  float64

	// Exactly one of the following is set, depending on Kind.
	Tag     string  // KindTag
	Emotion Emotion // KindEmotion
	Theme   string  // KindTheme
	Cue     string  // KindRarityCue

	// Description is the human-readable text for theme entries.
	Description string
}

// ID returns the matcher identifier.
func (e Entry) ID() string {
	if e.Matcher == nil {
		return ""
	}
	return e.Matcher.String()
}

// Library is a versioned, read-only catalog of entries partitioned by kind.
type Library struct {
	version string
	views   map[Kind][]Entry
}

// New builds a library from entries. Entries keep their relative order
// within each view; that order is the catalog order evaluators rely on.
func New(version string, entries ...Entry) *Library {
	views := make(map[Kind][]Entry)
	for _, e := range entries {
		if e.Matcher == nil {
			continue
		}
		views[e.Kind] = append(views[e.Kind], e)
	}
	return &Library{
		version: version,
		views:   views,
	}
}

// Version returns the catalog version.
func (l *Library) Version() string {
	return l.version
}

// Authenticity returns the authenticity-weighted signals.
func (l *Library) Authenticity() []Entry {
	return l.view(KindAuthenticity)
}

// Tags returns the tag catalog.
func (l *Library) Tags() []Entry {
	return l.view(KindTag)
}

// Emotions returns the emotion catalog.
func (l *Library) Emotions() []Entry {
	return l.view(KindEmotion)
}

// Themes returns the theme catalog.
func (l *Library) Themes() []Entry {
	return l.view(KindTheme)
}

// RarityCues returns the cues used by the discrete rarity model.
func (l *Library) RarityCues() []Entry {
	return l.view(KindRarityCue)
}

// Len returns the total number of entries.
func (l *Library) Len() int {
	n := 0
	for _, v := range l.views {
		n += len(v)
	}
	return n
}

func (l *Library) view(k Kind) []Entry {
	return slices.Clone(l.views[k])
}
