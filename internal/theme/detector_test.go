package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamnft/dreamnft-server/internal/pattern"
)

func names(themes []Theme) []string {
	out := make([]string, len(themes))
	for i, th := range themes {
		out[i] = th.Name
	}
	return out
}

func TestDetect(t *testing.T) {
	d := New(pattern.NewDefault())

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"fallback on empty", "", []string{pattern.ThemeLossOfControl}},
		{"fallback on no match", "a quiet afternoon", []string{pattern.ThemeLossOfControl}},
		{"single", "I was floating above the town", []string{pattern.ThemeFlying}},
		{"catalog order", "I was flying, then I fell and was chased", []string{
			pattern.ThemeBeingChased, pattern.ThemeFalling, pattern.ThemeFlying,
		}},
		{"unprepared", "I forgot about the exam", []string{pattern.ThemeBeingUnprepared}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(d.Detect(tt.text)))
		})
	}
}

func TestDetect_CarriesDescription(t *testing.T) {
	themes := New(pattern.NewDefault()).Detect("I found a room behind a hidden door")

	require.Len(t, themes, 1)
	assert.Equal(t, pattern.ThemeFindingNewRooms, themes[0].Name)
	assert.Equal(t, "Dreams where you discover new spaces in familiar places", themes[0].Description)
}

func TestDetect_FallbackIndex(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  string
	}{
		{"default", FallbackIndex, pattern.ThemeLossOfControl},
		{"custom", 5, pattern.ThemeFlying},
		{"out of range ignored", 42, pattern.ThemeLossOfControl},
		{"negative ignored", -1, pattern.ThemeLossOfControl},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			themes := New(pattern.NewDefault(), WithFallbackIndex(tt.index)).Detect("")
			require.Len(t, themes, 1)
			assert.Equal(t, tt.want, themes[0].Name)
		})
	}
}

func TestDetect_EmptyCatalog(t *testing.T) {
	assert.Empty(t, New(pattern.New("empty")).Detect("anything"))
}

func TestPrimary(t *testing.T) {
	_, ok := Primary(nil)
	assert.False(t, ok)

	th, ok := Primary([]Theme{{Name: "a"}, {Name: "b"}})
	assert.True(t, ok)
	assert.Equal(t, "a", th.Name)
}
