package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"pictag/internal/adapters/tui/styles"
	"pictag/internal/domain"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}
		}
	}

	return m, nil
}

type helpSection struct {
	title    string
	bindings []key.Binding
}

// helpSections lists every browser binding, grouped
var helpSections = []helpSection{
	{"Navigation", []key.Binding{
		BrowserKeys.Up, BrowserKeys.Down, BrowserKeys.Left, BrowserKeys.Right,
		BrowserKeys.PageUp, BrowserKeys.PageDown, BrowserKeys.Find,
	}},
	{"Query", []key.Binding{
		BrowserKeys.Include, BrowserKeys.Exclude, BrowserKeys.Clear,
		BrowserKeys.Copy, BrowserKeys.OpenWeb,
	}},
	{"Editing", []key.Binding{
		BrowserKeys.New, BrowserKeys.Synonym, BrowserKeys.Edit, BrowserKeys.Delete,
		BrowserKeys.Undo, BrowserKeys.Reload, BrowserKeys.EditTree,
	}},
	{"General", []key.Binding{BrowserKeys.Help, BrowserKeys.Quit}},
}

// View renders the help view
func (m *HelpModel) View() string {
	v := NewViewBuilder().Title("pictag Help")

	for _, section := range helpSections {
		v.Line(styles.InputLabel.Render(section.title))
		for _, b := range section.bindings {
			v.Raw(helpLine(b))
		}
		v.BlankLine()
	}

	v.Line(styles.InputLabel.Render("Tags")).
		Muted("  Names starting with " + domain.TagMarker + " are tags; other nodes are categories.").
		Muted("  Searching a tag matches everything below it and all their synonyms.").
		Muted("  A tag with several parents is listed under each of them.").
		BlankLine()

	return v.Help(HelpKeys.Close).String()
}

func helpLine(b key.Binding) string {
	h := b.Help()
	return "  " + styles.HelpKey.Render(fmt.Sprintf("%-12s", h.Key)) + styles.HelpDesc.Render(h.Desc) + "\n"
}
