package commands

import (
	"context"
	"errors"
	"fmt"

	"pictag/internal/application"
)

// AddTagResult contains the result of creating a tag
type AddTagResult struct {
	Tag     string
	Parent  string
	Message string
}

// AddTagCommand creates a tag or category under an existing parent
type AddTagCommand struct {
	catalog *application.Catalog
	Tag     string
	Parent  string
}

// NewAddTagCommand creates a new AddTagCommand
func NewAddTagCommand(catalog *application.Catalog, tag, parent string) *AddTagCommand {
	return &AddTagCommand{
		catalog: catalog,
		Tag:     tag,
		Parent:  parent,
	}
}

// Validate checks the command arguments
func (c *AddTagCommand) Validate() error {
	if err := application.ValidateName("tag", c.Tag); err != nil {
		return err
	}
	return application.ValidateRequired("parent", c.Parent)
}

// Execute creates the tag and saves the tree
func (c *AddTagCommand) Execute(ctx context.Context) (*AddTagResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.catalog.AddNewTag(c.Tag, c.Parent); err != nil {
		return nil, fmt.Errorf("failed to add tag: %w", err)
	}
	if err := c.catalog.Save(); err != nil {
		return nil, err
	}

	kind := "category"
	if application.IsTag(c.Tag) {
		kind = "tag"
	}
	return &AddTagResult{
		Tag:     c.Tag,
		Parent:  c.Parent,
		Message: fmt.Sprintf("Added %s %s under %s", kind, c.Tag, c.Parent),
	}, nil
}

// AddParentResult contains the result of linking a tag under another parent
type AddParentResult struct {
	Tag     string
	Parents []string
	Message string
}

// AddParentCommand links an existing tag under an additional parent
type AddParentCommand struct {
	catalog *application.Catalog
	Tag     string
	Parent  string
}

// NewAddParentCommand creates a new AddParentCommand
func NewAddParentCommand(catalog *application.Catalog, tag, parent string) *AddParentCommand {
	return &AddParentCommand{
		catalog: catalog,
		Tag:     tag,
		Parent:  parent,
	}
}

// Validate checks the command arguments
func (c *AddParentCommand) Validate() error {
	if err := application.ValidateRequired("tag", c.Tag); err != nil {
		return err
	}
	return application.ValidateRequired("parent", c.Parent)
}

// Execute links the tag and saves the tree
func (c *AddParentCommand) Execute(ctx context.Context) (*AddParentResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.catalog.AddParentTag(c.Tag, c.Parent); err != nil {
		return nil, fmt.Errorf("failed to link tag: %w", err)
	}
	if err := c.catalog.Save(); err != nil {
		return nil, err
	}

	rec, err := c.catalog.Tag(c.Tag)
	if err != nil {
		return nil, err
	}
	return &AddParentResult{
		Tag:     c.Tag,
		Parents: rec.Parents,
		Message: fmt.Sprintf("Linked %s under %s", c.Tag, c.Parent),
	}, nil
}

// DeleteTagResult contains the result of removing a parent edge
type DeleteTagResult struct {
	Tag     string
	Parent  string
	Removed bool // the tag had no parent left and was dropped
	Message string
}

// DeleteTagCommand removes a tag from one of its parents
type DeleteTagCommand struct {
	catalog *application.Catalog
	Tag     string
	Parent  string
}

// NewDeleteTagCommand creates a new DeleteTagCommand
func NewDeleteTagCommand(catalog *application.Catalog, tag, parent string) *DeleteTagCommand {
	return &DeleteTagCommand{
		catalog: catalog,
		Tag:     tag,
		Parent:  parent,
	}
}

// Validate checks the command arguments
func (c *DeleteTagCommand) Validate() error {
	if err := application.ValidateRequired("tag", c.Tag); err != nil {
		return err
	}
	return application.ValidateRequired("parent", c.Parent)
}

// Execute removes the edge and saves the tree
func (c *DeleteTagCommand) Execute(ctx context.Context) (*DeleteTagResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.catalog.DeleteTag(c.Tag, c.Parent); err != nil {
		return nil, fmt.Errorf("failed to delete tag: %w", err)
	}
	if err := c.catalog.Save(); err != nil {
		return nil, err
	}

	result := &DeleteTagResult{Tag: c.Tag, Parent: c.Parent}
	if c.catalog.Ontology().Has(c.Tag) {
		result.Message = fmt.Sprintf("Removed %s from %s", c.Tag, c.Parent)
	} else {
		result.Removed = true
		result.Message = fmt.Sprintf("Deleted %s", c.Tag)
	}
	return result, nil
}

// MoveTagResult contains the result of moving a tag
type MoveTagResult struct {
	Tag     string
	From    string
	To      string
	Partial bool
	Message string
}

// MoveTagCommand moves a tag from one parent to another
type MoveTagCommand struct {
	catalog *application.Catalog
	Tag     string
	From    string
	To      string
}

// NewMoveTagCommand creates a new MoveTagCommand
func NewMoveTagCommand(catalog *application.Catalog, tag, from, to string) *MoveTagCommand {
	return &MoveTagCommand{
		catalog: catalog,
		Tag:     tag,
		From:    from,
		To:      to,
	}
}

// Validate checks the command arguments
func (c *MoveTagCommand) Validate() error {
	if err := application.ValidateRequired("tag", c.Tag); err != nil {
		return err
	}
	if err := application.ValidateRequired("from", c.From); err != nil {
		return err
	}
	return application.ValidateRequired("to", c.To)
}

// Execute moves the tag and saves the tree. A partial move is saved as
// well and reported through both the result and the error.
func (c *MoveTagCommand) Execute(ctx context.Context) (*MoveTagResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	result := &MoveTagResult{Tag: c.Tag, From: c.From, To: c.To}
	err := c.catalog.MoveTag(c.Tag, c.From, c.To)
	if err != nil {
		var moveErr *application.MoveError
		if !errors.As(err, &moveErr) || !moveErr.Partial {
			return nil, fmt.Errorf("failed to move tag: %w", err)
		}
		result.Partial = true
	}
	if saveErr := c.catalog.Save(); saveErr != nil {
		return nil, saveErr
	}

	if result.Partial {
		result.Message = fmt.Sprintf("Linked %s under %s but could not detach it from %s", c.Tag, c.To, c.From)
		return result, err
	}
	result.Message = fmt.Sprintf("Moved %s from %s to %s", c.Tag, c.From, c.To)
	return result, nil
}

// SynonymAction selects whether a synonym is added or removed
type SynonymAction int

const (
	SynonymAdd SynonymAction = iota
	SynonymRemove
)

// SynonymResult contains the result of a synonym edit
type SynonymResult struct {
	Tag      string
	Synonyms []string
	Message  string
}

// SynonymCommand adds or removes a synonym of a tag
type SynonymCommand struct {
	catalog *application.Catalog
	Action  SynonymAction
	Tag     string
	Synonym string
}

// NewSynonymCommand creates a new SynonymCommand
func NewSynonymCommand(catalog *application.Catalog, action SynonymAction, tag, synonym string) *SynonymCommand {
	return &SynonymCommand{
		catalog: catalog,
		Action:  action,
		Tag:     tag,
		Synonym: synonym,
	}
}

// Validate checks the command arguments
func (c *SynonymCommand) Validate() error {
	if err := application.ValidateRequired("tag", c.Tag); err != nil {
		return err
	}
	return application.ValidateName("synonym", c.Synonym)
}

// Execute applies the edit and saves the tree
func (c *SynonymCommand) Execute(ctx context.Context) (*SynonymResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var err error
	var verb string
	switch c.Action {
	case SynonymRemove:
		err = c.catalog.RemoveSynonym(c.Tag, c.Synonym)
		verb = "Removed synonym %s from %s"
	default:
		err = c.catalog.AddSynonym(c.Tag, c.Synonym)
		verb = "Added synonym %s to %s"
	}
	if err != nil {
		return nil, fmt.Errorf("failed to edit synonyms: %w", err)
	}
	if err := c.catalog.Save(); err != nil {
		return nil, err
	}

	rec, err := c.catalog.Tag(c.Tag)
	if err != nil {
		return nil, err
	}
	return &SynonymResult{
		Tag:      c.Tag,
		Synonyms: rec.Synonyms,
		Message:  fmt.Sprintf(verb, c.Synonym, c.Tag),
	}, nil
}

// EditTagResult contains the result of editing tag details
type EditTagResult struct {
	Tag     application.TagRecord
	Message string
}

// EditTagCommand sets the English name and type of a tag
type EditTagCommand struct {
	catalog     *application.Catalog
	Tag         string
	EnglishName string
	Type        string
}

// NewEditTagCommand creates a new EditTagCommand
func NewEditTagCommand(catalog *application.Catalog, tag, englishName, tagType string) *EditTagCommand {
	return &EditTagCommand{
		catalog:     catalog,
		Tag:         tag,
		EnglishName: englishName,
		Type:        tagType,
	}
}

// Validate checks the command arguments
func (c *EditTagCommand) Validate() error {
	if err := application.ValidateRequired("tag", c.Tag); err != nil {
		return err
	}
	return application.ValidateEnglishName(c.EnglishName)
}

// Execute edits the tag and saves the tree
func (c *EditTagCommand) Execute(ctx context.Context) (*EditTagResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.catalog.EditTag(c.Tag, c.EnglishName, c.Type); err != nil {
		return nil, fmt.Errorf("failed to edit tag: %w", err)
	}
	if err := c.catalog.Save(); err != nil {
		return nil, err
	}

	rec, err := c.catalog.Tag(c.Tag)
	if err != nil {
		return nil, err
	}
	return &EditTagResult{
		Tag:     rec,
		Message: fmt.Sprintf("Updated %s", c.Tag),
	}, nil
}

// ShowTagResult describes a single tag
type ShowTagResult struct {
	Tag         application.TagRecord
	Ancestors   []string
	Descendants []string
}

// ShowTagCommand looks up a tag with its ancestors and descendants
type ShowTagCommand struct {
	catalog *application.Catalog
	Tag     string
}

// NewShowTagCommand creates a new ShowTagCommand
func NewShowTagCommand(catalog *application.Catalog, tag string) *ShowTagCommand {
	return &ShowTagCommand{catalog: catalog, Tag: tag}
}

// Execute runs the lookup
func (c *ShowTagCommand) Execute(ctx context.Context) (*ShowTagResult, error) {
	if err := application.ValidateRequired("tag", c.Tag); err != nil {
		return nil, err
	}
	rec, err := c.catalog.Tag(c.Tag)
	if err != nil {
		return nil, err
	}
	anc, err := c.catalog.Ancestors(c.Tag)
	if err != nil {
		return nil, err
	}
	desc, err := c.catalog.Descendants(c.Tag, false)
	if err != nil {
		return nil, err
	}
	return &ShowTagResult{Tag: rec, Ancestors: anc, Descendants: desc}, nil
}
