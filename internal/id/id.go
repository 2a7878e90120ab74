// Package id generates record identifiers and content fingerprints.
package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Record ID prefixes.
const (
	PrefixDream   = "dream"
	PrefixComment = "cmt"
)

// fingerprintSpace namespaces narrative fingerprints.
var fingerprintSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://dreamnft.app/narrative"))

// Generate creates a prefixed NanoID, e.g. "dream-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Fingerprint returns a stable name-based UUID for a narrative. Texts that
// differ only in surrounding whitespace share a fingerprint.
func Fingerprint(text string) string {
	return uuid.NewSHA1(fingerprintSpace, []byte(strings.TrimSpace(text))).String()
}
