package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pictag/internal/application"
	"pictag/internal/domain"
)

// TagPictureResult contains the result of tagging a picture
type TagPictureResult struct {
	PID     int64
	Tags    domain.ItemTags
	Message string
}

// TagPictureCommand attaches explicit tags to a picture, then completes
// and reindexes that picture so searches see it right away. The optional
// metadata fields update the picture's catalog row.
type TagPictureCommand struct {
	catalog   *application.Catalog
	PID       int64
	Tags      []string
	Title     string
	User      string
	UserID    int64
	Date      string
	XRestrict int
}

// NewTagPictureCommand creates a new TagPictureCommand
func NewTagPictureCommand(catalog *application.Catalog, pid int64, tags []string) *TagPictureCommand {
	return &TagPictureCommand{catalog: catalog, PID: pid, Tags: tags}
}

// Validate checks the command arguments
func (c *TagPictureCommand) Validate() error {
	if c.PID <= 0 {
		return &application.ValidationError{
			Field:   "pid",
			Message: fmt.Sprintf("expected a positive picture id, got: %d", c.PID),
		}
	}
	if len(c.Tags) == 0 {
		return &application.ValidationError{
			Field:   "tags",
			Message: "at least one tag is required",
		}
	}
	for _, t := range c.Tags {
		if err := application.ValidateTagName("tag", t); err != nil {
			return err
		}
	}
	if c.XRestrict < 0 || c.XRestrict > 2 {
		return &application.ValidationError{
			Field:   "xRestrict",
			Message: fmt.Sprintf("expected x_restrict 0, 1 or 2, got: %d", c.XRestrict),
		}
	}
	return nil
}

// Execute stores the tags and reindexes the picture
func (c *TagPictureCommand) Execute(ctx context.Context) (*TagPictureResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	tags := make(domain.ItemTags, len(c.Tags))
	for _, t := range c.Tags {
		tags[t] = domain.ProvenanceExplicit
	}
	picture := application.Picture{
		PID:       c.PID,
		Title:     c.Title,
		User:      c.User,
		UserID:    c.UserID,
		Date:      c.Date,
		XRestrict: c.XRestrict,
		Tags:      tags,
	}
	if err := c.catalog.TagPicture(picture); err != nil {
		return nil, fmt.Errorf("failed to tag picture %d: %w", c.PID, err)
	}
	if _, _, err := c.catalog.Reindex([]int64{c.PID}); err != nil {
		return nil, err
	}

	stored, err := c.catalog.Pictures().Tags(c.PID)
	if err != nil {
		return nil, err
	}
	return &TagPictureResult{
		PID:     c.PID,
		Tags:    stored,
		Message: fmt.Sprintf("Tagged %d with %s", c.PID, strings.Join(c.Tags, " ")),
	}, nil
}

// PictureTagsResult lists the tags stored for a picture
type PictureTagsResult struct {
	PID      int64
	Title    string
	User     string
	Explicit []string
	Derived  []string
}

// PictureTagsCommand reads the stored tags of a picture split by provenance
type PictureTagsCommand struct {
	catalog *application.Catalog
	PID     int64
}

// NewPictureTagsCommand creates a new PictureTagsCommand
func NewPictureTagsCommand(catalog *application.Catalog, pid int64) *PictureTagsCommand {
	return &PictureTagsCommand{catalog: catalog, PID: pid}
}

// Execute runs the lookup
func (c *PictureTagsCommand) Execute(ctx context.Context) (*PictureTagsResult, error) {
	tags, err := c.catalog.Pictures().Tags(c.PID)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		return nil, fmt.Errorf("picture %d: %w", c.PID, domain.ErrNotFound)
	}

	result := &PictureTagsResult{PID: c.PID, Explicit: tags.Explicit()}
	picture, err := c.catalog.Picture(c.PID)
	switch {
	case err == nil:
		result.Title, result.User = picture.Title, picture.User
	case !errors.Is(err, application.ErrNoCatalog):
		return nil, err
	}
	for _, name := range tags.Names() {
		if tags[name] == domain.ProvenanceDerived {
			result.Derived = append(result.Derived, name)
		}
	}
	return result, nil
}
