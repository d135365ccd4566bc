package application

import (
	"errors"
	"fmt"

	"pictag/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNotFound      = domain.ErrNotFound
	ErrAlreadyExists = domain.ErrAlreadyExists
	ErrInvalidEdge   = domain.ErrInvalidEdge
	ErrNoHistory     = errors.New("nothing to undo")
	ErrNoCatalog     = errors.New("picture store does not hold a catalog")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Re-export structured ontology errors for adapters
type (
	TagError  = domain.TagError
	MoveError = domain.MoveError
)
