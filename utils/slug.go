package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSlug is used when a group name has no slug-able characters
const DefaultSlug = "group"

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a display name into a URL-safe token: diacritics stripped,
// lowercased, runs of other characters collapsed to one hyphen, hyphens trimmed.
// It returns "" when nothing usable remains.
func Slugify(input string) string {
	stripMarks := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(stripMarks, input)
	if err != nil {
		folded = input
	}

	slug := strings.ToLower(folded)
	slug = nonAlphanumeric.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// SlugCandidates yields base, base-2, base-3, ... to the callback until it
// returns true, and returns the accepted candidate.
func SlugCandidates(name string, taken func(candidate string) (bool, error)) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = DefaultSlug
	}

	candidate := base
	for i := 2; ; i++ {
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
