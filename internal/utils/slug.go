package utils

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrEmptySlug = errors.New("slug cannot be empty")
	nonSlugChars = regexp.MustCompile(`[^a-z0-9_-]+`)
	dashRuns     = regexp.MustCompile(`[-\s]+`)
)

// Slugify folds s to ASCII, lowercases it, drops every character that is not
// a letter, digit, underscore or hyphen, and collapses whitespace and hyphen
// runs into one hyphen.
func Slugify(s string) string {
	folded := norm.NFKD.String(s)
	lower := strings.ToLower(strings.TrimSpace(folded))
	lower = dashRuns.ReplaceAllString(lower, "-")
	slug := nonSlugChars.ReplaceAllString(lower, "")
	slug = dashRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-_")
}

// SlugOrFallback slugifies input, falling back to fallback when the result is empty.
func SlugOrFallback(input, fallback string) (string, error) {
	slug := Slugify(input)
	if slug == "" {
		slug = Slugify(fallback)
	}
	if slug == "" {
		return "", ErrEmptySlug
	}
	return slug, nil
}
