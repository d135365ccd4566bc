package views

import (
	"fmt"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pictag/internal/adapters/tui/styles"
	"pictag/internal/application"
	"pictag/internal/domain"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Include  key.Binding
	Exclude  key.Binding
	Clear    key.Binding
	Copy     key.Binding
	New      key.Binding
	Synonym  key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Undo     key.Binding
	Reload   key.Binding
	OpenWeb  key.Binding
	EditTree key.Binding
	Find     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Include: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "include"),
	),
	Exclude: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "exclude"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear query"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy name"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new child"),
	),
	Synonym: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "add synonym"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "remove"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	OpenWeb: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open on pixiv"),
	),
	EditTree: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "edit tree file"),
	),
	Find: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "find tag"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// headerLines is the space taken by everything but the tree rows
const headerLines = 12

// BrowserModel is the model for the tag tree browser. It builds an
// include/exclude query from the selected tags and shows the match count.
type BrowserModel struct {
	ViewState
	catalog   *application.Guarded
	root      *domain.TreeNode
	flatNodes []*domain.TreeNode
	window    *Window

	include  []string
	exclude  []string
	results  []int64
	searched bool

	// expanded remembers open nodes by path across reloads
	expanded map[string]bool
	copy     func(string) error
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(catalog *application.Guarded) *BrowserModel {
	return &BrowserModel{
		catalog:  catalog,
		window:   NewWindow(20),
		expanded: make(map[string]bool),
		copy:     clipboard.WriteAll,
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadTree
}

func (m *BrowserModel) loadTree() tea.Msg {
	var root *domain.TreeNode
	_ = m.catalog.Do(func(c *application.Catalog) error {
		root = c.Tree()
		return nil
	})
	return treeLoadedMsg{root}
}

type treeLoadedMsg struct {
	root *domain.TreeNode
}

type errMsg struct {
	err error
}

type successMsg struct {
	message string
}

type searchDoneMsg struct {
	pids []int64
	err  error
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case treeLoadedMsg:
		m.root = msg.root
		m.restoreExpanded(m.root)
		m.refreshFlatNodes()
		return m, nil

	case searchDoneMsg:
		if msg.err != nil {
			m.SetError(msg.err)
			m.results = nil
			m.searched = false
			return m, nil
		}
		m.results = msg.pids
		m.searched = true
		return m, nil

	case errMsg:
		m.SetError(msg.err)
		return m, nil

	case successMsg:
		m.SetMessage(msg.message, false)
		return m, tea.Batch(m.loadTree, m.search())

	case ActionDoneMsg:
		return m.Update(successMsg{msg.Message})

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Up):
			m.window.Move(-1)
			return m, nil

		case key.Matches(msg, BrowserKeys.Down):
			m.window.Move(1)
			return m, nil

		case key.Matches(msg, BrowserKeys.PageUp):
			m.window.Move(-m.window.Height())
			return m, nil

		case key.Matches(msg, BrowserKeys.PageDown):
			m.window.Move(m.window.Height())
			return m, nil

		case key.Matches(msg, BrowserKeys.Left):
			if node := m.selectedNode(); node != nil {
				if node.IsExpanded {
					m.setExpanded(node, false)
					m.refreshFlatNodes()
				} else if node.Parent != nil && node.Parent != m.root {
					m.selectNode(node.Parent)
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Right), key.Matches(msg, BrowserKeys.Enter):
			if node := m.selectedNode(); node != nil && len(node.Children) > 0 {
				if !node.IsExpanded {
					m.setExpanded(node, true)
				} else if key.Matches(msg, BrowserKeys.Enter) {
					m.setExpanded(node, false)
				}
				m.refreshFlatNodes()
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Include):
			if node := m.selectedNode(); node != nil {
				m.exclude = remove(m.exclude, node.Name)
				m.include = toggle(m.include, node.Name)
				return m, m.search()
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Exclude):
			if node := m.selectedNode(); node != nil {
				m.include = remove(m.include, node.Name)
				m.exclude = toggle(m.exclude, node.Name)
				return m, m.search()
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Clear):
			m.include, m.exclude = nil, nil
			m.results = nil
			m.searched = false
			return m, nil

		case key.Matches(msg, BrowserKeys.Copy):
			if node := m.selectedNode(); node != nil {
				if err := m.copy(node.Name); err != nil {
					m.SetMessage(fmt.Sprintf("copy failed: %v", err), true)
				} else {
					m.SetMessage(fmt.Sprintf("Copied %s", node.Name), false)
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.New):
			return m, m.switchToForm(FormAddTag)

		case key.Matches(msg, BrowserKeys.Synonym):
			return m, m.switchToForm(FormAddSynonym)

		case key.Matches(msg, BrowserKeys.Edit):
			return m, m.switchToForm(FormEdit)

		case key.Matches(msg, BrowserKeys.Delete):
			if node := m.selectedNode(); node != nil {
				return m, func() tea.Msg {
					return SwitchToDeleteMsg{Node: node}
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.Undo):
			return m, m.undo

		case key.Matches(msg, BrowserKeys.Reload):
			return m, m.reload

		case key.Matches(msg, BrowserKeys.OpenWeb):
			if node := m.selectedNode(); node != nil {
				return m, func() tea.Msg {
					return OpenTagMsg{Name: node.Name}
				}
			}
			return m, nil

		case key.Matches(msg, BrowserKeys.EditTree):
			return m, func() tea.Msg {
				return EditTreeMsg{}
			}

		case key.Matches(msg, BrowserKeys.Find):
			return m, func() tea.Msg {
				return SwitchToFindMsg{}
			}

		case key.Matches(msg, BrowserKeys.Help):
			return m, func() tea.Msg {
				return SwitchToHelpMsg{}
			}
		}
	}

	return m, nil
}

func (m *BrowserModel) switchToForm(kind FormKind) tea.Cmd {
	node := m.selectedNode()
	if node == nil {
		return nil
	}
	return func() tea.Msg {
		return SwitchToFormMsg{Kind: kind, Node: node}
	}
}

// search runs the current query. Without include tags there is nothing to run.
func (m *BrowserModel) search() tea.Cmd {
	if len(m.include) == 0 {
		m.results = nil
		m.searched = false
		return nil
	}
	include, exclude := slices.Clone(m.include), slices.Clone(m.exclude)
	return func() tea.Msg {
		var pids []int64
		err := m.catalog.Do(func(c *application.Catalog) error {
			var err error
			pids, err = c.Search(include, exclude)
			return err
		})
		return searchDoneMsg{pids: pids, err: err}
	}
}

func (m *BrowserModel) undo() tea.Msg {
	var desc string
	err := m.catalog.Do(func(c *application.Catalog) error {
		var err error
		if desc, err = c.Undo(); err != nil {
			return err
		}
		return c.Save()
	})
	if err != nil {
		return errMsg{err}
	}
	return successMsg{fmt.Sprintf("Undid %s", desc)}
}

func (m *BrowserModel) reload() tea.Msg {
	if err := m.catalog.Reload(); err != nil {
		return errMsg{err}
	}
	return successMsg{"Reloaded tag tree"}
}

func (m *BrowserModel) selectedNode() *domain.TreeNode {
	cursor := m.window.Cursor()
	if cursor >= 0 && cursor < len(m.flatNodes) {
		return m.flatNodes[cursor]
	}
	return nil
}

func (m *BrowserModel) selectNode(node *domain.TreeNode) {
	for i, n := range m.flatNodes {
		if n == node {
			m.window.SetCursor(i)
			return
		}
	}
}

// Reveal expands the path to the first occurrence of name and moves the
// cursor onto it
func (m *BrowserModel) Reveal(name string) bool {
	if m.root == nil {
		return false
	}
	node := m.root.Find(name)
	if node == nil {
		return false
	}
	for p := node.Parent; p != nil; p = p.Parent {
		m.setExpanded(p, true)
	}
	m.refreshFlatNodes()
	m.selectNode(node)
	return true
}

func (m *BrowserModel) setExpanded(node *domain.TreeNode, open bool) {
	if open {
		node.Expand()
	} else {
		node.Collapse()
	}
	m.expanded[pathKey(node)] = open
}

func (m *BrowserModel) restoreExpanded(node *domain.TreeNode) {
	if node == nil {
		return
	}
	if m.expanded[pathKey(node)] {
		node.Expand()
	}
	for _, child := range node.Children {
		m.restoreExpanded(child)
	}
}

func pathKey(node *domain.TreeNode) string {
	return strings.Join(node.Path(), "\x00")
}

func (m *BrowserModel) refreshFlatNodes() {
	if m.root == nil {
		return
	}
	m.flatNodes = m.root.Flatten()
	// Skip root node in display
	if len(m.flatNodes) > 0 {
		m.flatNodes = m.flatNodes[1:]
	}
	m.window.SetTotal(len(m.flatNodes))
}

// View renders the browser
func (m *BrowserModel) View() string {
	if m.root == nil {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render("pictag"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Tag ontology browser"))
	b.WriteString("\n\n")

	b.WriteString(RenderQuery(m.include, m.exclude, len(m.results), m.searched))
	b.WriteString("\n\n")

	start, end := m.window.Visible()
	for i := start; i < end; i++ {
		b.WriteString(m.renderNode(m.flatNodes[i], i == m.window.Cursor()))
		b.WriteString("\n")
	}
	if m.window.Scrolls() {
		b.WriteString(RenderMuted(fmt.Sprintf("%d-%d of %d", start+1, end, len(m.flatNodes))))
		b.WriteString("\n")
	}

	if m.Message != "" {
		b.WriteString("\n")
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
	}

	b.WriteString("\n")
	b.WriteString(RenderHelpLine(
		BrowserKeys.Include,
		BrowserKeys.Exclude,
		BrowserKeys.Clear,
		BrowserKeys.Copy,
		BrowserKeys.Find,
		BrowserKeys.Help,
		BrowserKeys.Quit,
	))

	return styles.App.Render(b.String())
}

func (m *BrowserModel) renderNode(node *domain.TreeNode, selected bool) string {
	indent := strings.Repeat("  ", max(node.Depth()-1, 0))

	var prefix string
	switch {
	case len(node.Children) == 0:
		prefix = styles.TreeLeaf
	case node.IsExpanded:
		prefix = styles.TreeExpanded
	default:
		prefix = styles.TreeCollapsed
	}

	var style lipgloss.Style
	switch {
	case selected:
		style = styles.NodeSelected
	case slices.Contains(m.include, node.Name):
		style = styles.Included
	case slices.Contains(m.exclude, node.Name):
		style = styles.Excluded
	case node.Kind == domain.KindCategory:
		style = styles.NodeCategory
	case node.Type != "":
		style = styles.NodeTag.Foreground(styles.TypeColor(node.Type))
	default:
		style = styles.NodeTag
	}

	styled := RenderTagLabel(TagLabel{
		Name:        node.Name,
		EnglishName: node.EnglishName,
		Type:        node.Type,
		Aliases:     node.Synonyms,
	}, style)

	return fmt.Sprintf("%s%s%s", indent, styles.TreeBranch.Render(prefix), styled)
}

// SetSize updates the view dimensions
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.window.SetHeight(max(height-headerLines, 5))
}

// Reload redraws the tree from the catalog and reruns the query, keeping
// open nodes open
func (m *BrowserModel) Reload() tea.Cmd {
	return tea.Batch(m.loadTree, m.search())
}

// ReloadFromDisk re-reads the tree file into the catalog, then redraws
func (m *BrowserModel) ReloadFromDisk() tea.Cmd {
	return m.reload
}

// Query returns the current include and exclude tags
func (m *BrowserModel) Query() (include, exclude []string) {
	return slices.Clone(m.include), slices.Clone(m.exclude)
}

// Results returns the ids matched by the last search
func (m *BrowserModel) Results() []int64 {
	return m.results
}

func toggle(names []string, name string) []string {
	if slices.Contains(names, name) {
		return remove(names, name)
	}
	return append(names, name)
}

func remove(names []string, name string) []string {
	return slices.DeleteFunc(names, func(n string) bool { return n == name })
}

// Messages for view switching
type SwitchToFindMsg struct{}

type SwitchToFormMsg struct {
	Kind FormKind
	Node *domain.TreeNode
}

type SwitchToDeleteMsg struct {
	Node *domain.TreeNode
}

type SwitchToHelpMsg struct{}

// OpenTagMsg asks for the Pixiv search page of a tag
type OpenTagMsg struct {
	Name string
}

// EditTreeMsg asks for the tree file to be opened in an editor
type EditTreeMsg struct{}

type SwitchToBrowserMsg struct{}
