package commands

import (
	"slices"
	"strings"
	"testing"
	"time"

	"pictag/internal/application"
	"pictag/internal/domain"
	"pictag/internal/ports"
)

type stubTree struct {
	snap  *domain.Snapshot
	saves int
}

func (s *stubTree) Load() (domain.Snapshot, error) {
	if s.snap == nil {
		return domain.NewOntology().Snapshot(), nil
	}
	return *s.snap, nil
}

func (s *stubTree) Save(snap domain.Snapshot) error {
	s.snap = &snap
	s.saves++
	return nil
}

// stubPictures keeps item tags, picture metadata and the index in maps
type stubPictures struct {
	tags     map[int64]domain.ItemTags
	pictures map[int64]ports.Picture
	index    domain.InvertedIndex
	built    bool
}

func (s *stubPictures) PIDs() ([]int64, error) {
	var pids []int64
	for pid := range s.tags {
		pids = append(pids, pid)
	}
	slices.Sort(pids)
	return pids, nil
}

func (s *stubPictures) Tags(pid int64) (domain.ItemTags, error) { return s.tags[pid], nil }

func (s *stubPictures) RawTags(pid int64) ([]string, error) { return s.tags[pid].Explicit(), nil }

func (s *stubPictures) AddTags(pid int64, tags domain.ItemTags) error {
	for t, p := range tags {
		s.tags[pid][t] = p
	}
	return nil
}

func (s *stubPictures) OverwriteTags(pid int64, tags domain.ItemTags) error {
	s.tags[pid] = tags
	return nil
}

func (s *stubPictures) PIDsByTag(tag string) (domain.PIDSet, error) {
	return s.index[tag].Clone(), nil
}

func (s *stubPictures) UpdateIndex(idx domain.InvertedIndex, mode domain.IndexMode) error {
	if mode == domain.IndexReplace {
		s.index = domain.InvertedIndex{}
		s.built = true
	}
	s.index.Merge(idx)
	return nil
}

func (s *stubPictures) RemoveFromIndex(pids []int64) error {
	for _, set := range s.index {
		for _, p := range pids {
			delete(set, p)
		}
	}
	return nil
}

func (s *stubPictures) Picture(pid int64) (ports.Picture, error) {
	tags, ok := s.tags[pid]
	if !ok {
		return ports.Picture{}, domain.ErrNotFound
	}
	p := s.pictures[pid]
	p.PID, p.Tags = pid, tags
	return p, nil
}

func (s *stubPictures) UpsertPicture(p ports.Picture) error {
	if s.pictures == nil {
		s.pictures = map[int64]ports.Picture{}
	}
	s.pictures[p.PID] = p
	return s.OverwriteTags(p.PID, p.Tags)
}

func (s *stubPictures) NeedsFullRebuild() bool { return !s.built }

func (s *stubPictures) IndexInfo() (ports.IndexInfo, error) {
	info := ports.IndexInfo{Tags: len(s.index)}
	if s.built {
		info.LastBuilt = indexBuiltAt
	}
	return info, nil
}

var indexBuiltAt = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func (s *stubPictures) TagCounts() ([]ports.TagCount, error) {
	counts := map[string]int{}
	for _, it := range s.tags {
		for t := range it {
			counts[t]++
		}
	}
	var out []ports.TagCount
	for t, n := range counts {
		out = append(out, ports.TagCount{Tag: t, Count: n})
	}
	slices.SortFunc(out, func(a, b ports.TagCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Tag, b.Tag)
	})
	return out, nil
}

func (s *stubPictures) Close() error { return nil }

// newTestCatalog opens a catalog over a tree with Works/#東方/#霊夢 and
// #Girl, and pictures 1 (#霊夢) and 2 (#Girl, #unknown)
func newTestCatalog(t *testing.T) (*application.Catalog, *stubTree, *stubPictures) {
	t.Helper()
	o := domain.NewOntology()
	for _, e := range [][2]string{
		{"Works", domain.RootName},
		{"#東方", "Works"},
		{"#霊夢", "#東方"},
		{"#Girl", domain.RootName},
	} {
		if err := o.AddNewTag(e[0], e[1]); err != nil {
			t.Fatalf("AddNewTag(%s, %s): %v", e[0], e[1], err)
		}
	}
	snap := o.Snapshot()
	tree := &stubTree{snap: &snap}
	pics := &stubPictures{
		tags: map[int64]domain.ItemTags{
			1: {"#霊夢": domain.ProvenanceExplicit},
			2: {"#Girl": domain.ProvenanceExplicit, "#unknown": domain.ProvenanceExplicit},
		},
		index: domain.InvertedIndex{},
	}
	c := application.NewCatalog(tree, pics, nil)
	if err := c.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}
	return c, tree, pics
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
