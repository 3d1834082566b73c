// internal/services/slug_test.go
package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Getting Started":        "getting-started",
		"  Hello,   World!  ":    "hello-world",
		"API & SDK (v2)":         "api-sdk-v2",
		"already-a-slug":         "already-a-slug",
		"ÜBER":                   "ber",
		"---":                    "untitled",
		"":                       "untitled",
		"Trailing punctuation!!": "trailing-punctuation",
	}

	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "input %q", input)
	}
}

func TestResolveSlugFirstAttemptFree(t *testing.T) {
	var attempts []string
	slug, err := resolveSlug("getting-started", func(s string) error {
		attempts = append(attempts, s)
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "getting-started", slug)
	assert.Equal(t, []string{"getting-started"}, attempts)
}

func TestResolveSlugSuffixesOnConflict(t *testing.T) {
	taken := map[string]bool{
		"getting-started":   true,
		"getting-started-2": true,
	}

	var attempts []string
	slug, err := resolveSlug("getting-started", func(s string) error {
		attempts = append(attempts, s)
		if taken[s] {
			return gorm.ErrDuplicatedKey
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "getting-started-3", slug)
	assert.Equal(t, []string{"getting-started", "getting-started-2", "getting-started-3"}, attempts)
}

func TestResolveSlugPropagatesOtherErrors(t *testing.T) {
	dbErr := errors.New("connection lost")
	_, err := resolveSlug("anything", func(s string) error {
		return dbErr
	})
	assert.ErrorIs(t, err, dbErr)
}

func TestResolveSlugGivesUpEventually(t *testing.T) {
	calls := 0
	_, err := resolveSlug("crowded", func(s string) error {
		calls++
		return gorm.ErrDuplicatedKey
	})

	assert.ErrorIs(t, err, ErrSlugSpaceExhausted)
	assert.Equal(t, maxSlugAttempts, calls)
}
