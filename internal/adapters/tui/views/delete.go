package views

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"pictag/internal/adapters/tui/styles"
	"pictag/internal/application"
	"pictag/internal/application/commands"
	"pictag/internal/domain"
)

// DeleteKeyMap defines key bindings for the remove confirmation
type DeleteKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

var DeleteKeys = DeleteKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// DeleteModel confirms detaching a node from the parent it is shown under
type DeleteModel struct {
	ViewState
	catalog *application.Guarded
	target  *domain.TreeNode

	// kept are the parents the node keeps after the detach
	kept     []string
	children int
}

// NewDeleteModel creates a new delete view model
func NewDeleteModel(catalog *application.Guarded) *DeleteModel {
	return &DeleteModel{catalog: catalog}
}

// SetTarget selects the node to detach and looks up what it keeps
func (m *DeleteModel) SetTarget(node *domain.TreeNode) {
	m.target = node
	m.kept = nil
	m.children = 0
	m.ClearMessage()
	if node == nil || node.Parent == nil {
		return
	}

	_ = m.catalog.Do(func(c *application.Catalog) error {
		rec, err := c.Tag(node.Name)
		if err != nil {
			return err
		}
		m.kept = slices.DeleteFunc(slices.Clone(rec.Parents), func(p string) bool {
			return p == node.Parent.Name
		})
		m.children = len(rec.Children)
		return nil
	})
}

// Init initializes the delete view
func (m *DeleteModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the delete view
func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DeleteKeys.Cancel):
			return m, func() tea.Msg { return SwitchToBrowserMsg{} }
		case key.Matches(msg, DeleteKeys.Confirm):
			return m, m.doDelete
		}
	}

	return m, nil
}

func (m *DeleteModel) doDelete() tea.Msg {
	node := m.target
	if node == nil || node.Parent == nil {
		return ActionErrMsg{Err: fmt.Errorf("no target selected")}
	}

	var result *commands.DeleteTagResult
	err := m.catalog.Do(func(c *application.Catalog) error {
		var err error
		result, err = commands.NewDeleteTagCommand(c, node.Name, node.Parent.Name).Execute(context.Background())
		return err
	})
	if err != nil {
		return ActionErrMsg{Err: err}
	}
	return ActionDoneMsg{Message: result.Message}
}

// View renders the delete confirmation view
func (m *DeleteModel) View() string {
	v := NewViewBuilder().Title("Remove " + strings.ToLower(m.kindName()))

	if node := m.target; node != nil && node.Parent != nil {
		v.Line("  " + node.Name).
			Muted("  " + strings.Join(node.Path(), " / ")).
			BlankLine().
			Line(fmt.Sprintf("  %s is detached from %s.", node.Name, node.Parent.Name))
		switch {
		case len(m.kept) > 0:
			v.Line(fmt.Sprintf("  It stays under %s.", strings.Join(m.kept, ", ")))
		case m.children > 0:
			v.Line("  It has no other parent and is deleted.").
				Muted(fmt.Sprintf("  Its %d children stay under their other parents; those without one drop out of the tree.", m.children))
		default:
			v.Line("  It has no other parent and is deleted.")
		}
		v.BlankLine()
	}

	return v.Message(m.Message, m.MessageErr).
		Raw(styles.HelpDesc.Render("Undo with u. ")).
		Help(DeleteKeys.Confirm, DeleteKeys.Cancel).
		String()
}

func (m *DeleteModel) kindName() string {
	if m.target == nil {
		return "tag"
	}
	return m.target.Kind.String()
}
