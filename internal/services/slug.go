// internal/services/slug.go
package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// maxSlugAttempts bounds the collision retry loop so a pathological scope
// cannot livelock a create.
const maxSlugAttempts = 100

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)
	slugEdgeHyphens  = regexp.MustCompile(`^-+|-+$`)
)

// Slugify normalizes a title into a URL-safe slug: lowercase, alphanumeric,
// hyphen-separated. An empty result falls back to "untitled" so every entity
// gets an addressable slug.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = slugEdgeHyphens.ReplaceAllString(slug, "")
	if slug == "" {
		return "untitled"
	}
	return slug
}

// resolveSlug finds a free slug by attempting the write itself: attemptInsert
// must run a complete transaction that persists the entity under the candidate
// slug. A unique-constraint violation is the authoritative conflict signal
// (a prior existence check would lose the race to a concurrent insert); the
// attempt is retried with "-2", "-3", ... suffixes. Any other failure from
// attemptInsert propagates unchanged.
//
// Each attempt gets its own transaction because Postgres aborts the enclosing
// transaction after a constraint violation.
func resolveSlug(base string, attemptInsert func(slug string) error) (string, error) {
	slug := base
	for attempt := 2; ; attempt++ {
		err := attemptInsert(slug)
		if err == nil {
			return slug, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", err
		}
		if attempt > maxSlugAttempts {
			return "", fmt.Errorf("%w: base %q", ErrSlugSpaceExhausted, base)
		}
		slug = fmt.Sprintf("%s-%d", base, attempt)
	}
}
