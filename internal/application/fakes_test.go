package application

import (
	"maps"
	"slices"

	"pictag/internal/domain"
	"pictag/internal/ports"
)

// memPictures is an in-memory PictureStore
type memPictures struct {
	tags    map[int64]domain.ItemTags
	meta    map[int64]ports.Picture
	index   domain.InvertedIndex
	lookups int
	builds  int
}

func newMemPictures() *memPictures {
	return &memPictures{
		tags:  make(map[int64]domain.ItemTags),
		meta:  make(map[int64]ports.Picture),
		index: make(domain.InvertedIndex),
	}
}

// withRaw stores explicit tags for pid
func (m *memPictures) withRaw(pid int64, tags ...string) *memPictures {
	it := make(domain.ItemTags, len(tags))
	for _, t := range tags {
		it[t] = domain.ProvenanceExplicit
	}
	m.tags[pid] = it
	return m
}

func (m *memPictures) PIDs() ([]int64, error) {
	return slices.Sorted(maps.Keys(m.tags)), nil
}

func (m *memPictures) Tags(pid int64) (domain.ItemTags, error) {
	it, ok := m.tags[pid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return maps.Clone(it), nil
}

func (m *memPictures) RawTags(pid int64) ([]string, error) {
	it, ok := m.tags[pid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return it.Explicit(), nil
}

func (m *memPictures) AddTags(pid int64, tags domain.ItemTags) error {
	it, ok := m.tags[pid]
	if !ok {
		it = make(domain.ItemTags)
		m.tags[pid] = it
	}
	maps.Copy(it, tags)
	return nil
}

func (m *memPictures) OverwriteTags(pid int64, tags domain.ItemTags) error {
	m.tags[pid] = maps.Clone(tags)
	return nil
}

func (m *memPictures) PIDsByTag(tag string) (domain.PIDSet, error) {
	m.lookups++
	return m.index[tag].Clone(), nil
}

func (m *memPictures) UpdateIndex(idx domain.InvertedIndex, mode domain.IndexMode) error {
	if mode == domain.IndexReplace {
		m.index = make(domain.InvertedIndex)
		m.builds++
	}
	m.index.Merge(idx)
	return nil
}

func (m *memPictures) RemoveFromIndex(pids []int64) error {
	for tag, set := range m.index {
		for _, p := range pids {
			delete(set, p)
		}
		if len(set) == 0 {
			delete(m.index, tag)
		}
	}
	return nil
}

// memCatalog adds the catalog extension to memPictures
type memCatalog struct {
	*memPictures
}

func (m memCatalog) Picture(pid int64) (ports.Picture, error) {
	tags, ok := m.tags[pid]
	if !ok {
		return ports.Picture{}, domain.ErrNotFound
	}
	p := m.meta[pid]
	p.PID, p.Tags = pid, maps.Clone(tags)
	return p, nil
}

func (m memCatalog) UpsertPicture(p ports.Picture) error {
	m.meta[p.PID] = p
	return m.OverwriteTags(p.PID, p.Tags)
}

func (m memCatalog) NeedsFullRebuild() bool { return m.builds == 0 }

func (m memCatalog) IndexInfo() (ports.IndexInfo, error) {
	return ports.IndexInfo{Tags: len(m.index)}, nil
}

func (m memCatalog) TagCounts() ([]ports.TagCount, error) {
	counts := make(map[string]int)
	for _, it := range m.tags {
		for t := range it {
			counts[t]++
		}
	}
	out := make([]ports.TagCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, ports.TagCount{Tag: t, Count: n})
	}
	slices.SortFunc(out, func(a, b ports.TagCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		if a.Tag < b.Tag {
			return -1
		}
		if a.Tag > b.Tag {
			return 1
		}
		return 0
	})
	return out, nil
}

func (m memCatalog) Close() error { return nil }

// memTree is an in-memory TreeStore
type memTree struct {
	snap  *domain.Snapshot
	saves int
}

func (m *memTree) Load() (domain.Snapshot, error) {
	if m.snap == nil {
		return domain.NewOntology().Snapshot(), nil
	}
	return *m.snap, nil
}

func (m *memTree) Save(s domain.Snapshot) error {
	m.snap = &s
	m.saves++
	return nil
}

// treeOf builds a stored tree from (child, parent) edges in order
func treeOf(edges ...[2]string) *memTree {
	o := domain.NewOntology()
	for _, e := range edges {
		if o.Has(e[0]) {
			if err := o.AddParentTag(e[0], e[1]); err != nil {
				panic(err)
			}
			continue
		}
		if err := o.AddNewTag(e[0], e[1]); err != nil {
			panic(err)
		}
	}
	s := o.Snapshot()
	return &memTree{snap: &s}
}
