package views

import (
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"pictag/internal/application"
	"pictag/internal/domain"
)

type memTree struct {
	snap  domain.Snapshot
	saves int
}

func (m *memTree) Load() (domain.Snapshot, error) { return m.snap, nil }

func (m *memTree) Save(snap domain.Snapshot) error {
	m.snap = snap
	m.saves++
	return nil
}

type memPictures struct {
	tags  map[int64]domain.ItemTags
	index domain.InvertedIndex
}

func (m *memPictures) PIDs() ([]int64, error) {
	var pids []int64
	for pid := range m.tags {
		pids = append(pids, pid)
	}
	slices.Sort(pids)
	return pids, nil
}

func (m *memPictures) Tags(pid int64) (domain.ItemTags, error) { return m.tags[pid], nil }

func (m *memPictures) RawTags(pid int64) ([]string, error) { return m.tags[pid].Explicit(), nil }

func (m *memPictures) AddTags(pid int64, tags domain.ItemTags) error {
	for t, p := range tags {
		m.tags[pid][t] = p
	}
	return nil
}

func (m *memPictures) OverwriteTags(pid int64, tags domain.ItemTags) error {
	m.tags[pid] = tags
	return nil
}

func (m *memPictures) PIDsByTag(tag string) (domain.PIDSet, error) { return m.index[tag].Clone(), nil }

func (m *memPictures) UpdateIndex(idx domain.InvertedIndex, mode domain.IndexMode) error {
	if mode == domain.IndexReplace {
		m.index = domain.InvertedIndex{}
	}
	m.index.Merge(idx)
	return nil
}

func (m *memPictures) RemoveFromIndex(pids []int64) error {
	for _, set := range m.index {
		for _, p := range pids {
			delete(set, p)
		}
	}
	return nil
}

// newTestCatalog builds Works/#東方/#霊夢, Character/#霊夢 and #Girl
// (synonym #少女) with pictures 1 (#霊夢), 2 (#Girl), 3 (#霊夢 #少女)
func newTestCatalog(t *testing.T) (*application.Guarded, *memTree) {
	t.Helper()
	o := domain.NewOntology()
	for _, e := range [][2]string{
		{"Works", domain.RootName},
		{"#東方", "Works"},
		{"#霊夢", "#東方"},
		{"Character", domain.RootName},
		{"#Girl", domain.RootName},
	} {
		if err := o.AddNewTag(e[0], e[1]); err != nil {
			t.Fatalf("AddNewTag(%s, %s): %v", e[0], e[1], err)
		}
	}
	if err := o.AddParentTag("#霊夢", "Character"); err != nil {
		t.Fatalf("AddParentTag: %v", err)
	}
	if err := o.AddSynonym("#Girl", "#少女"); err != nil {
		t.Fatalf("AddSynonym: %v", err)
	}

	tree := &memTree{snap: o.Snapshot()}
	pics := &memPictures{
		tags: map[int64]domain.ItemTags{
			1: {"#霊夢": domain.ProvenanceExplicit},
			2: {"#Girl": domain.ProvenanceExplicit},
			3: {"#霊夢": domain.ProvenanceExplicit, "#少女": domain.ProvenanceExplicit},
		},
		index: domain.InvertedIndex{},
	}
	c := application.NewCatalog(tree, pics, nil)
	if err := c.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, _, err := c.Reindex(nil); err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	return application.NewGuarded(c), tree
}

// drain runs cmd and feeds every resulting message back into model
func drain(model tea.Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			drain(model, c)
		}
	default:
		_, next := model.Update(msg)
		drain(model, next)
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key to model and drains the resulting commands
func press(model tea.Model, keys ...string) {
	for _, k := range keys {
		_, cmd := model.Update(keyPress(k))
		drain(model, cmd)
	}
}

func names(nodes []*domain.TreeNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
