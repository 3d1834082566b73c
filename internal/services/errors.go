// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors shared across services. Handlers map these to HTTP statuses
// with errors.Is/errors.As; persistence failures are wrapped with %w and fall
// through to a generic 500.
var (
	ErrNotFound           = errors.New("record not found")
	ErrSlugSpaceExhausted = errors.New("could not find a free slug after maximum attempts")
)

// FieldError carries a field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors aggregates field errors for one request.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// SlugConflictError is returned when an explicitly supplied slug collides
// inside its uniqueness scope. Creates never return it (the resolver suffixes
// instead); only updates with a caller-chosen slug do.
type SlugConflictError struct {
	Slug string
}

func (e *SlugConflictError) Error() string {
	return fmt.Sprintf("slug %q already exists in this scope", e.Slug)
}

// InvalidReorderError rejects a reorder whose id list is not exactly the
// current sibling set under the target parent.
type InvalidReorderError struct {
	Reason     string
	ForeignIDs []uuid.UUID
}

func (e *InvalidReorderError) Error() string {
	if len(e.ForeignIDs) > 0 {
		return fmt.Sprintf("invalid reorder: %s (%d foreign ids)", e.Reason, len(e.ForeignIDs))
	}
	return "invalid reorder: " + e.Reason
}
