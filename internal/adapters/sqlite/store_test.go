package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pictag/internal/domain"
	"pictag/internal/ports"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "pixiv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_PictureTags(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.UpsertPicture(ports.Picture{
		PID:   42,
		Title: "桜",
		User:  "someone",
		Tags:  domain.ItemTags{"#Alice": domain.ProvenanceExplicit},
	}))
	require.NoError(t, s.AddTags(42, domain.ItemTags{
		"#Alice":  domain.ProvenanceDerived,
		"#Person": domain.ProvenanceDerived,
	}))

	tags, err := s.Tags(42)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemTags{
		"#Alice":  domain.ProvenanceExplicit,
		"#Person": domain.ProvenanceDerived,
	}, tags, "explicit provenance is never downgraded")

	raw, err := s.RawTags(42)
	require.NoError(t, err)
	assert.Equal(t, []string{"#Alice"}, raw)

	require.NoError(t, s.OverwriteTags(42, domain.ItemTags{"#Bob": domain.ProvenanceExplicit}))
	tags, err = s.Tags(42)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemTags{"#Bob": domain.ProvenanceExplicit}, tags)

	p, err := s.Picture(42)
	require.NoError(t, err)
	assert.Equal(t, "桜", p.Title, "overwriting tags keeps metadata")

	_, err = s.Tags(7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.Picture(7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ProvenanceEncoding(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.OverwriteTags(1, domain.ItemTags{
		"#a": domain.ProvenanceExplicit,
		"#b": domain.ProvenanceDerived,
	}))

	var raw string
	require.NoError(t, s.db.QueryRow(`SELECT tags FROM metadata WHERE pid = 1`).Scan(&raw))
	assert.JSONEq(t, `{"#a": "metadata", "#b": "tree"}`, raw)
}

func TestStore_PIDs(t *testing.T) {
	s := openTestStore(t)
	for _, pid := range []int64{30, 10, 20} {
		require.NoError(t, s.AddTags(pid, domain.ItemTags{"#x": domain.ProvenanceExplicit}))
	}

	pids, err := s.PIDs()
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20, 30}, pids)
}

func TestStore_UpdateIndex(t *testing.T) {
	s := openTestStore(t)
	assert.True(t, s.NeedsFullRebuild())

	full := domain.InvertedIndex{}
	full.Add("#a", 1)
	full.Add("#a", 2)
	full.Add("#b", 3)
	require.NoError(t, s.UpdateIndex(full, domain.IndexReplace))
	assert.False(t, s.NeedsFullRebuild())
	_, ok := s.LastIndexed()
	assert.True(t, ok)

	merge := domain.InvertedIndex{}
	merge.Add("#a", 4)
	merge.Add("#c", 5)
	require.NoError(t, s.UpdateIndex(merge, domain.IndexMerge))

	got, err := s.PIDsByTag("#a")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 4}, got.Sorted())
	got, err = s.PIDsByTag("#b")
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, got.Sorted(), "merge keeps unaffected tags")

	replace := domain.InvertedIndex{}
	replace.Add("#z", 9)
	require.NoError(t, s.UpdateIndex(replace, domain.IndexReplace))
	got, err = s.PIDsByTag("#a")
	require.NoError(t, err)
	assert.Empty(t, got)
	n, err := s.IndexSize()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_IndexInfo(t *testing.T) {
	s := openTestStore(t)

	info, err := s.IndexInfo()
	require.NoError(t, err)
	assert.Zero(t, info.Tags)
	assert.True(t, info.LastBuilt.IsZero())

	idx := domain.InvertedIndex{}
	idx.Add("#a", 1)
	idx.Add("#b", 2)
	require.NoError(t, s.UpdateIndex(idx, domain.IndexMerge))
	info, err = s.IndexInfo()
	require.NoError(t, err)
	assert.Equal(t, 2, info.Tags)
	assert.True(t, info.LastBuilt.IsZero(), "merges are not full builds")

	before := time.Now().Add(-time.Second)
	require.NoError(t, s.UpdateIndex(idx, domain.IndexReplace))
	info, err = s.IndexInfo()
	require.NoError(t, err)
	assert.True(t, info.LastBuilt.After(before))
}

func TestStore_RemoveFromIndex(t *testing.T) {
	s := openTestStore(t)
	idx := domain.InvertedIndex{}
	idx.Add("#a", 1)
	idx.Add("#a", 2)
	idx.Add("#b", 2)
	idx.Add("#c", 3)
	require.NoError(t, s.UpdateIndex(idx, domain.IndexReplace))

	require.NoError(t, s.RemoveFromIndex([]int64{2}))

	got, err := s.PIDsByTag("#a")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, got.Sorted())
	n, err := s.IndexSize()
	require.NoError(t, err)
	assert.Equal(t, 2, n, "emptied entries are deleted")

	require.NoError(t, s.RemoveFromIndex(nil))
}

func TestStore_TagCounts(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.OverwriteTags(1, domain.ItemTags{"#a": domain.ProvenanceExplicit, "#b": domain.ProvenanceDerived}))
	require.NoError(t, s.OverwriteTags(2, domain.ItemTags{"#a": domain.ProvenanceExplicit}))
	require.NoError(t, s.OverwriteTags(3, domain.ItemTags{"#c": domain.ProvenanceExplicit}))

	counts, err := s.TagCounts()
	require.NoError(t, err)
	assert.Equal(t, []ports.TagCount{
		{Tag: "#a", Count: 2},
		{Tag: "#b", Count: 1},
		{Tag: "#c", Count: 1},
	}, counts)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixiv.db")
	s, err := Open(path)
	require.NoError(t, err)
	idx := domain.InvertedIndex{}
	idx.Add("#a", 1)
	require.NoError(t, s.UpdateIndex(idx, domain.IndexReplace))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.False(t, s.NeedsFullRebuild())
	got, err := s.PIDsByTag("#a")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, got.Sorted())
}
