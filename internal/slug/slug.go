// Package slug derives and validates the URL-safe names published sites are
// served under.
package slug

import (
	"crypto/rand"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrEmpty is returned when a slug is empty.
	ErrEmpty = errors.New("slug must not be empty")

	// ErrFormat is returned when a slug does not match the required pattern.
	ErrFormat = errors.New("slug must contain only lowercase alphanumeric characters and hyphens, and must not start or end with a hyphen")

	// ErrReserved is returned when a slug collides with an application route.
	ErrReserved = errors.New("slug is reserved")

	pattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9\-]*[a-z0-9])?$`)

	reserved = map[string]bool{
		"api":     true,
		"metrics": true,
		"healthz": true,
		"preview": true,
		"sites":   true,
		"static":  true,
	}

	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
)

// MaxLength bounds slugs so they fit the projects.slug column.
const MaxLength = 255

// Validate checks that s conforms to the slug format and is not reserved.
// Uniqueness is enforced by the store.
func Validate(s string) error {
	if s == "" {
		return ErrEmpty
	}
	if len(s) > MaxLength || !pattern.MatchString(s) {
		return ErrFormat
	}
	if reserved[s] {
		return fmt.Errorf("%w: %q", ErrReserved, s)
	}
	return nil
}

// Slugify lowercases the first limit characters of text, strips accents and
// joins the remaining alphanumeric runs with hyphens. It may return "".
func Slugify(text string, limit int) string {
	if limit > 0 {
		if r := []rune(text); len(r) > limit {
			text = string(r[:limit])
		}
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, text); err == nil {
		text = folded
	}
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(text), "-"), "-")
}

// New builds a unique-looking slug from text: up to 40 characters of it
// followed by a random 6 character suffix. Text without usable characters
// yields "site-" plus the suffix.
func New(text string) string {
	base := Slugify(text, 40)
	if base == "" {
		base = "site"
	}
	return base + "-" + randomSuffix(6)
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("slug: read random bytes: %v", err))
	}
	for i := range b {
		b[i] = suffixAlphabet[int(b[i])%len(suffixAlphabet)]
	}
	return string(b)
}
