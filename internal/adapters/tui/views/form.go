package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"pictag/internal/application"
	"pictag/internal/application/commands"
	"pictag/internal/domain"
)

// FormKind selects what a TagFormModel edits
type FormKind int

const (
	FormAddTag     FormKind = iota // new child under the selected node
	FormAddSynonym                 // synonym of the selected tag
	FormEdit                       // English name and type
)

// TagFormModel is the input form for tag edits started from the browser
type TagFormModel struct {
	ViewState
	catalog *application.Guarded
	kind    FormKind
	target  *domain.TreeNode
	form    *InputForm
}

// NewTagFormModel creates a new form view
func NewTagFormModel(catalog *application.Guarded) *TagFormModel {
	return &TagFormModel{catalog: catalog}
}

// Open prepares the form for kind on the target node
func (m *TagFormModel) Open(kind FormKind, target *domain.TreeNode) tea.Cmd {
	m.kind = kind
	m.target = target
	m.ClearMessage()

	switch kind {
	case FormAddSynonym:
		m.form = NewInputForm(SynonymField())
	case FormEdit:
		m.form = NewInputForm(EnglishNameField(), TypeField())
		if rec, ok := m.record(); ok {
			m.form.SetValue(0, rec.EnglishName)
			m.form.SetValue(1, rec.Type)
		}
	default:
		m.form = NewInputForm(NodeNameField())
	}
	return m.form.Init()
}

func (m *TagFormModel) record() (domain.TagRecord, bool) {
	var rec domain.TagRecord
	err := m.catalog.Do(func(c *application.Catalog) error {
		var err error
		rec, err = c.Tag(m.target.Name)
		return err
	})
	return rec, err == nil
}

// Init initializes the form
func (m *TagFormModel) Init() tea.Cmd {
	if m.form == nil {
		return nil
	}
	return m.form.Init()
}

// Update handles messages for the form
func (m *TagFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.submit
		}
	}

	return m, m.form.Update(msg)
}

func (m *TagFormModel) submit() tea.Msg {
	if m.target == nil {
		return ActionErrMsg{Err: fmt.Errorf("no target selected")}
	}
	if err := m.form.Validate(); err != nil {
		return ActionErrMsg{Err: err}
	}
	ctx := context.Background()
	name := m.target.Name

	var message string
	err := m.catalog.Do(func(c *application.Catalog) error {
		switch m.kind {
		case FormAddSynonym:
			res, err := commands.NewSynonymCommand(c, commands.SynonymAdd, name, m.form.Value(0)).Execute(ctx)
			if err != nil {
				return err
			}
			message = res.Message
		case FormEdit:
			res, err := commands.NewEditTagCommand(c, name, m.form.Value(0), m.form.Value(1)).Execute(ctx)
			if err != nil {
				return err
			}
			message = res.Message
		default:
			res, err := commands.NewAddTagCommand(c, m.form.Value(0), name).Execute(ctx)
			if err != nil {
				return err
			}
			message = res.Message
		}
		return nil
	})
	if err != nil {
		return ActionErrMsg{Err: err}
	}
	return ActionDoneMsg{Message: message}
}

func (m *TagFormModel) title() string {
	if m.target == nil {
		return ""
	}
	switch m.kind {
	case FormAddSynonym:
		return "Add synonym to " + m.target.Name
	case FormEdit:
		return "Edit " + m.target.Name
	default:
		return "New tag under " + m.target.Name
	}
}

// View renders the form
func (m *TagFormModel) View() string {
	if m.form == nil {
		return ""
	}
	v := NewViewBuilder().Title(m.title())
	for i := range m.form.Fields {
		v.Line(m.form.RenderField(i)).BlankLine()
	}
	submit := "save"
	if m.kind == FormAddTag {
		submit = "create"
	}
	return v.Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp(submit)).
		String()
}

// ActionDoneMsg reports a successful edit; the browser reloads the tree
type ActionDoneMsg struct {
	Message string
}

// ActionErrMsg reports a failed edit
type ActionErrMsg struct {
	Err error
}
