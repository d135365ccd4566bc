package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"pictag/internal/adapters/tui/views"
	"pictag/internal/application"
	"pictag/internal/application/commands"
	"pictag/internal/domain"
)

type memTree struct{ snap domain.Snapshot }

func (m *memTree) Load() (domain.Snapshot, error) { return m.snap, nil }

func (m *memTree) Save(snap domain.Snapshot) error {
	m.snap = snap
	return nil
}

type noPictures struct{}

func (noPictures) PIDs() ([]int64, error)                                   { return nil, nil }
func (noPictures) Tags(int64) (domain.ItemTags, error)                      { return nil, nil }
func (noPictures) RawTags(int64) ([]string, error)                          { return nil, nil }
func (noPictures) AddTags(int64, domain.ItemTags) error                     { return nil }
func (noPictures) OverwriteTags(int64, domain.ItemTags) error               { return nil }
func (noPictures) PIDsByTag(string) (domain.PIDSet, error)                  { return domain.PIDSet{}, nil }
func (noPictures) UpdateIndex(domain.InvertedIndex, domain.IndexMode) error { return nil }
func (noPictures) RemoveFromIndex([]int64) error                            { return nil }

func newTestApp(t *testing.T) *App {
	t.Helper()
	o := domain.NewOntology()
	if err := o.AddNewTag("#東方", domain.RootName); err != nil {
		t.Fatal(err)
	}
	c := application.NewCatalog(&memTree{snap: o.Snapshot()}, noPictures{}, nil)
	if err := c.Open(); err != nil {
		t.Fatal(err)
	}
	a := NewApp(application.NewGuarded(c), nil, nil, "")
	a.Update(a.Init()())
	return a
}

func TestApp_ViewSwitching(t *testing.T) {
	a := newTestApp(t)

	tests := []struct {
		msg  tea.Msg
		want ViewState
	}{
		{views.SwitchToHelpMsg{}, ViewHelp},
		{views.SwitchToBrowserMsg{}, ViewBrowser},
		{views.SwitchToFindMsg{}, ViewFind},
		{views.FindSelectMsg{Match: commands.TagMatch{Name: "#東方"}}, ViewBrowser},
		{views.SwitchToDeleteMsg{Node: &domain.TreeNode{Name: "#東方"}}, ViewDelete},
		{views.ActionDoneMsg{Message: "done"}, ViewBrowser},
		{views.SwitchToFormMsg{Kind: views.FormAddTag, Node: &domain.TreeNode{Name: "#東方"}}, ViewForm},
	}
	for _, tt := range tests {
		a.Update(tt.msg)
		if a.state != tt.want {
			t.Errorf("after %T: state = %d, want %d", tt.msg, a.state, tt.want)
		}
	}
}

func TestApp_ErrorsStayOnForm(t *testing.T) {
	a := newTestApp(t)
	a.Update(views.SwitchToFormMsg{Kind: views.FormAddTag, Node: &domain.TreeNode{Name: "#東方"}})

	a.Update(views.ActionErrMsg{Err: domain.ErrNotFound})
	if a.state != ViewForm {
		t.Errorf("expected to stay on the form, got %d", a.state)
	}
	if !contains(a.View(), "not found") {
		t.Errorf("expected error in form view:\n%s", a.View())
	}
}

func TestApp_OpenersDisabled(t *testing.T) {
	a := newTestApp(t)

	if _, cmd := a.Update(views.OpenTagMsg{Name: "#東方"}); cmd != nil {
		t.Error("expected no command without a web opener")
	}
	if _, cmd := a.Update(views.EditTreeMsg{}); cmd != nil {
		t.Error("expected no command without an editor")
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
