// Package util provides common text helpers.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	wordSeparatorRe   = regexp.MustCompile(`[\s_/]+`)
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9-]`)
	multipleDashRe    = regexp.MustCompile(`-+`)
)

// FoldAccents decomposes text and drops combining marks, so "Café" becomes
// "Cafe". Input that fails to transform is returned unchanged.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeTagSlug converts a user supplied tag to its canonical slug.
//
//	"Lucid Dream"   → "lucid-dream"
//	"night_terrors" → "night-terrors"
//	"Déjà Vu"       → "deja-vu"
//	"🐉 Dragons!"   → "dragons"
//	"--leading--"   → "leading"
func NormalizeTagSlug(input string) string {
	s := strings.ToLower(strings.TrimSpace(FoldAccents(input)))
	s = wordSeparatorRe.ReplaceAllString(s, "-")
	s = nonAlphanumericRe.ReplaceAllString(s, "")
	s = multipleDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
