package views

import (
	"errors"
	"slices"
	"testing"

	"pictag/internal/domain"
)

func newTestBrowser(t *testing.T) *BrowserModel {
	t.Helper()
	catalog, _ := newTestCatalog(t)
	m := NewBrowserModel(catalog)
	m.copy = func(string) error { return nil }
	m.SetSize(80, 40)
	drain(m, m.Init())
	return m
}

func TestBrowser_LoadHidesRoot(t *testing.T) {
	m := newTestBrowser(t)

	got := names(m.flatNodes)
	want := []string{"Works", "Character", "#Girl"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBrowser_ExpandCollapse(t *testing.T) {
	m := newTestBrowser(t)

	press(m, "l")
	if got := names(m.flatNodes); !slices.Equal(got, []string{"Works", "#東方", "Character", "#Girl"}) {
		t.Fatalf("expand Works: got %v", got)
	}

	press(m, "j", "l", "j")
	if node := m.selectedNode(); node == nil || node.Name != "#霊夢" {
		t.Fatalf("expected cursor on #霊夢, got %v", node)
	}

	// h on a leaf goes to its parent, h again collapses
	press(m, "h")
	if node := m.selectedNode(); node.Name != "#東方" {
		t.Errorf("expected cursor on #東方, got %s", node.Name)
	}
	press(m, "h")
	if got := names(m.flatNodes); !slices.Equal(got, []string{"Works", "#東方", "Character", "#Girl"}) {
		t.Errorf("collapse #東方: got %v", got)
	}
}

func TestBrowser_MultiParentShownUnderEachParent(t *testing.T) {
	m := newTestBrowser(t)
	m.root.ExpandAll()
	m.refreshFlatNodes()

	count := 0
	for _, n := range m.flatNodes {
		if n.Name == "#霊夢" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("expected #霊夢 twice, got %d", count)
	}
}

func TestBrowser_IncludeExcludeQuery(t *testing.T) {
	m := newTestBrowser(t)

	// Works covers #東方 and #霊夢
	press(m, "i")
	if !slices.Equal(m.Results(), []int64{1, 3}) {
		t.Fatalf("include Works: got %v", m.Results())
	}

	// #Girl expands to its synonym #少女
	press(m, "j", "j", "x")
	include, exclude := m.Query()
	if !slices.Equal(include, []string{"Works"}) || !slices.Equal(exclude, []string{"#Girl"}) {
		t.Fatalf("unexpected query %v -%v", include, exclude)
	}
	if !slices.Equal(m.Results(), []int64{1}) {
		t.Errorf("exclude #Girl: got %v", m.Results())
	}
	if !contains(m.View(), "1 pictures") {
		t.Error("expected result count in view")
	}

	// include moves the tag out of the exclude list
	press(m, "i")
	include, exclude = m.Query()
	if !slices.Equal(include, []string{"Works", "#Girl"}) || len(exclude) != 0 {
		t.Fatalf("unexpected query %v -%v", include, exclude)
	}
	if !slices.Equal(m.Results(), []int64{3}) {
		t.Errorf("Works and #Girl: got %v", m.Results())
	}

	press(m, "c")
	include, exclude = m.Query()
	if len(include) != 0 || len(exclude) != 0 || m.Results() != nil {
		t.Errorf("expected cleared query, got %v -%v %v", include, exclude, m.Results())
	}
}

func TestBrowser_Copy(t *testing.T) {
	m := newTestBrowser(t)
	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}

	press(m, "j", "y")
	if copied != "Character" {
		t.Errorf("expected Character copied, got %q", copied)
	}
	if !contains(m.Message, "Copied Character") {
		t.Errorf("unexpected message %q", m.Message)
	}

	m.copy = func(string) error { return errors.New("no clipboard") }
	press(m, "y")
	if !m.MessageErr {
		t.Error("expected copy failure to be reported")
	}
}

func TestBrowser_Reveal(t *testing.T) {
	m := newTestBrowser(t)

	if !m.Reveal("#霊夢") {
		t.Fatal("expected #霊夢 to be found")
	}
	node := m.selectedNode()
	if node.Name != "#霊夢" || !slices.Equal(node.Path(), []string{domain.RootName, "Works", "#東方", "#霊夢"}) {
		t.Errorf("unexpected selection %v", node.Path())
	}
	if m.Reveal("#nope") {
		t.Error("expected unknown tag not to be revealed")
	}
}

func TestBrowser_ReloadKeepsExpanded(t *testing.T) {
	m := newTestBrowser(t)
	press(m, "l")

	drain(m, m.Reload())
	if got := names(m.flatNodes); !slices.Equal(got, []string{"Works", "#東方", "Character", "#Girl"}) {
		t.Errorf("expected Works to stay open, got %v", got)
	}
}

func TestBrowser_Undo(t *testing.T) {
	catalog, tree := newTestCatalog(t)
	m := NewBrowserModel(catalog)
	drain(m, m.Init())

	press(m, "u")
	if !m.MessageErr {
		t.Error("expected an error with empty history")
	}

	press(m, "n")
	// the browser only asks to switch; perform the edit through a form
	form := NewTagFormModel(catalog)
	form.Open(FormAddTag, m.selectedNode())
	form.form.SetValue(0, "#新")
	msg := form.submit()
	if done, ok := msg.(ActionDoneMsg); !ok {
		t.Fatalf("expected ActionDoneMsg, got %#v", msg)
	} else {
		_, cmd := m.Update(done)
		drain(m, cmd)
	}
	if _, ok := tree.snap.Tags["#新"]; !ok {
		t.Fatal("expected new tag saved")
	}

	press(m, "u")
	if m.MessageErr || !contains(m.Message, "Undid add #新 under Works") {
		t.Errorf("unexpected message %q", m.Message)
	}
	if _, ok := tree.snap.Tags["#新"]; ok {
		t.Error("expected undo to be saved")
	}
}
