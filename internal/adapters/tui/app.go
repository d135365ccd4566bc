package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"pictag/internal/adapters/editor"
	"pictag/internal/adapters/pixiv"
	"pictag/internal/adapters/tui/views"
	"pictag/internal/application"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewFind
	ViewForm
	ViewDelete
	ViewHelp
)

// App is the main TUI application model
type App struct {
	catalog  *application.Guarded
	editor   *editor.Opener
	web      *pixiv.Opener
	treePath string

	state   ViewState
	browser *views.BrowserModel
	find    *views.FindModel
	form    *views.TagFormModel
	remove  *views.DeleteModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application. A nil editor disables tree file
// editing, a nil web opener disables opening tags on Pixiv.
func NewApp(catalog *application.Guarded, ed *editor.Opener, web *pixiv.Opener, treePath string) *App {
	return &App{
		catalog:  catalog,
		editor:   ed,
		web:      web,
		treePath: treePath,
		state:    ViewBrowser,
		browser:  views.NewBrowserModel(catalog),
		find:     views.NewFindModel(catalog),
		form:     views.NewTagFormModel(catalog),
		remove:   views.NewDeleteModel(catalog),
		help:     views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.browser.Init()
}

// TreeChangedMsg tells the app the tree file was reloaded from outside
type TreeChangedMsg struct{}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.find.SetSize(msg.Width, msg.Height)
		a.form.SetSize(msg.Width, msg.Height)
		a.remove.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToFindMsg:
		a.state = ViewFind
		a.find.Reset()
		return a, a.find.Init()

	case views.SwitchToFormMsg:
		a.state = ViewForm
		return a, a.form.Open(msg.Kind, msg.Node)

	case views.SwitchToDeleteMsg:
		a.state = ViewDelete
		a.remove.SetTarget(msg.Node)
		return a, nil

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil

	case views.FindSelectMsg:
		a.state = ViewBrowser
		a.browser.Reveal(msg.Match.Name)
		return a, nil

	// Edit results go back to the browser, which reloads the tree
	case views.ActionDoneMsg:
		a.state = ViewBrowser
		_, cmd := a.browser.Update(msg)
		return a, cmd

	case views.ActionErrMsg:
		switch a.state {
		case ViewForm:
			a.form.SetError(msg.Err)
		case ViewDelete:
			a.remove.SetError(msg.Err)
		default:
			a.browser.SetError(msg.Err)
		}
		return a, nil

	case TreeChangedMsg:
		return a, a.browser.Reload()

	case views.OpenTagMsg:
		return a, a.openTag(msg.Name)

	case views.EditTreeMsg:
		return a, a.openEditor()

	case editorFinishedMsg:
		if msg.err != nil {
			a.browser.SetError(msg.err)
			return a, nil
		}
		return a, a.browser.ReloadFromDisk()
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewFind:
		_, cmd = a.find.Update(msg)
	case ViewForm:
		_, cmd = a.form.Update(msg)
	case ViewDelete:
		_, cmd = a.remove.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor() tea.Cmd {
	if a.editor == nil || a.treePath == "" {
		return nil
	}

	cmd, err := a.editor.Command(a.treePath)
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

func (a *App) openTag(name string) tea.Cmd {
	if a.web == nil {
		return nil
	}
	return func() tea.Msg {
		if err := a.web.OpenTag(name); err != nil {
			return views.ActionErrMsg{Err: err}
		}
		return nil
	}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewFind:
		return a.find.View()
	case ViewForm:
		return a.form.View()
	case ViewDelete:
		return a.remove.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
