package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for ontology operations
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidEdge   = errors.New("invalid edge")
)

// TagError describes a failed ontology operation on a tag
type TagError struct {
	Op     string
	Tag    string
	Parent string // empty when the operation has no parent operand
	Err    error
}

func (e *TagError) Error() string {
	if e.Parent != "" {
		return fmt.Sprintf("%s %s under %s: %v", e.Op, e.Tag, e.Parent, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Tag, e.Err)
}

func (e *TagError) Unwrap() error {
	return e.Err
}

// MoveError reports a failed MoveTag. When Partial is set the new parent
// edge was added but the old one could not be removed, so the tag now has
// both parents.
type MoveError struct {
	Tag     string
	From    string
	To      string
	Partial bool
	Err     error
}

func (e *MoveError) Error() string {
	if e.Partial {
		return fmt.Sprintf("move %s from %s to %s: linked under %s but not detached: %v",
			e.Tag, e.From, e.To, e.To, e.Err)
	}
	return fmt.Sprintf("move %s from %s to %s: %v", e.Tag, e.From, e.To, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}
