package views

import (
	"errors"
	"fmt"

	"pictag/internal/application"
	"pictag/internal/domain"
)

// ViewState is embedded by the view models for their size and status line
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets the status line
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// SetError shows err on the status line as DescribeError words it
func (s *ViewState) SetError(err error) {
	s.SetMessage(DescribeError(err), true)
}

// ClearMessage clears the status line
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// DescribeError words a catalog error for the status line. Command
// wrappers are dropped in favour of the ontology error underneath.
func DescribeError(err error) string {
	var verr *application.ValidationError
	var moveErr *domain.MoveError
	var tagErr *domain.TagError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &moveErr) && moveErr.Partial:
		return fmt.Sprintf("%s is under both %s and %s now; remove it from %s to finish the move",
			moveErr.Tag, moveErr.From, moveErr.To, moveErr.From)
	case errors.As(err, &tagErr):
		return tagErr.Error()
	}
	return err.Error()
}
