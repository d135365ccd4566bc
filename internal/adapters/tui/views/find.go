package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pictag/internal/adapters/tui/styles"
	"pictag/internal/application"
	"pictag/internal/application/commands"
)

// FindKeyMap defines key bindings for the tag finder
type FindKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

var FindKeys = FindKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "show in tree"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

const maxFindResults = 10

// FindModel fuzzy-finds tags by name, English name or synonym
type FindModel struct {
	ViewState
	catalog *application.Guarded
	input   textinput.Model
	results []commands.TagMatch
	cursor  int
}

// NewFindModel creates a new tag finder
func NewFindModel(catalog *application.Guarded) *FindModel {
	input := textinput.New()
	input.Placeholder = "Tag, English name or synonym..."
	input.Focus()

	return &FindModel{
		catalog: catalog,
		input:   input,
	}
}

// Init initializes the finder
func (m *FindModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the query and results
func (m *FindModel) Reset() {
	m.input.SetValue("")
	m.results = nil
	m.cursor = 0
	m.input.Focus()
}

type findResultsMsg struct {
	query   string
	results []commands.TagMatch
}

// FindSelectMsg is sent when a tag is picked
type FindSelectMsg struct {
	Match commands.TagMatch
}

// Update handles messages for the finder
func (m *FindModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case findResultsMsg:
		// Drop results for a query the user has already typed past
		if msg.query != m.input.Value() {
			return m, nil
		}
		m.results = msg.results
		m.cursor = 0
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, FindKeys.Cancel):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}

		case key.Matches(msg, FindKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, FindKeys.Down):
			if m.cursor < min(len(m.results), maxFindResults)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, FindKeys.Select):
			if m.cursor >= 0 && m.cursor < len(m.results) {
				match := m.results[m.cursor]
				return m, func() tea.Msg {
					return FindSelectMsg{Match: match}
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	query := m.input.Value()
	if strings.TrimPrefix(query, "#") == "" {
		m.results = nil
		return m, cmd
	}
	return m, tea.Batch(cmd, m.find(query))
}

func (m *FindModel) find(query string) tea.Cmd {
	return func() tea.Msg {
		var results []commands.TagMatch
		_ = m.catalog.Do(func(c *application.Catalog) error {
			var err error
			results, err = commands.NewFindTagsCommand(c, query, 50).Execute(context.Background())
			return err
		})
		return findResultsMsg{query: query, results: results}
	}
}

// View renders the finder
func (m *FindModel) View() string {
	v := NewViewBuilder().
		Title("Find tag").
		Line(styles.InputFocused.Render(m.input.View())).
		BlankLine()

	switch {
	case len(m.results) == 0 && strings.TrimPrefix(m.input.Value(), "#") != "":
		v.Muted("No matching tags")
	case len(m.results) == 0:
		v.Muted("Type to search tag names, English names and synonyms")
	default:
		v.Line(styles.Subtitle.Render(fmt.Sprintf("%d matches", len(m.results)))).BlankLine()
		for i, r := range m.results[:min(len(m.results), maxFindResults)] {
			v.Line(m.renderMatch(r, i == m.cursor))
		}
		if len(m.results) > maxFindResults {
			v.Muted(fmt.Sprintf("... and %d more", len(m.results)-maxFindResults))
		}
	}

	return v.BlankLine().
		Help(FindKeys.Up, FindKeys.Down, FindKeys.Select, FindKeys.Cancel).
		String()
}

func (m *FindModel) renderMatch(r commands.TagMatch, selected bool) string {
	label := TagLabel{Name: r.Name, EnglishName: r.EnglishName}
	if r.MatchedText != "" && r.MatchedText != r.Name && r.MatchedText != r.EnglishName {
		label.Aliases = []string{r.MatchedText}
	}
	style := styles.NodeTag
	if selected {
		style = styles.NodeSelected
	}
	return RenderTagLabel(label, style)
}
