package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pictag/internal/domain"
)

func indexedSample(t *testing.T) (*domain.Ontology, *memPictures) {
	t.Helper()
	o := sampleOntology(t)
	pics := newMemPictures().
		withRaw(1, "#霊夢").
		withRaw(2, "#魔理沙").
		withRaw(3, "#Touhou").
		withRaw(4, "#Girl")
	ix := NewIndexer(pics, nil)
	_, err := ix.Complete(o, nil)
	require.NoError(t, err)
	_, err = ix.BuildIndex(o, nil)
	require.NoError(t, err)
	return o, pics
}

func TestQueryEngine_Search(t *testing.T) {
	o, pics := indexedSample(t)
	q := NewQueryEngine(pics)

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []int64
	}{
		{"subtree", []string{"#東方"}, nil, []int64{1, 2, 3}},
		{"synonym of parent", []string{"#Touhou"}, nil, []int64{3}},
		{"leaf", []string{"#霊夢"}, nil, []int64{1}},
		{"and", []string{"#東方", "#Girl"}, nil, []int64{2}},
		{"exclude", []string{"#東方"}, []string{"#Girl"}, []int64{1, 3}},
		{"empty include", nil, []string{"#Girl"}, []int64{}},
		{"no match", []string{"#霊夢", "#魔理沙"}, nil, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := q.Search(o, tt.include, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Sorted())
		})
	}
}

func TestQueryEngine_BooleanAlgebra(t *testing.T) {
	o, pics := indexedSample(t)
	q := NewQueryEngine(pics)
	search := func(include, exclude []string) domain.PIDSet {
		got, err := q.Search(o, include, exclude)
		require.NoError(t, err)
		return got
	}

	names := append(o.TagNames(), "#Touhou")
	for _, a := range names {
		for _, b := range names {
			both := search([]string{a, b}, nil)
			assert.Equal(t, search([]string{a}, nil).Intersect(search([]string{b}, nil)).Sorted(), both.Sorted(),
				"search([%s %s])", a, b)

			diff := search([]string{a}, []string{b})
			assert.Equal(t, search([]string{a}, nil).Difference(search([]string{b}, nil)).Sorted(), diff.Sorted(),
				"search([%s], [%s])", a, b)
		}
	}
}

func TestQueryEngine_UnknownTag(t *testing.T) {
	o, pics := indexedSample(t)
	q := NewQueryEngine(pics)

	_, err := q.Search(o, []string{"#東方", "#nope"}, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	var tagErr *TagError
	require.ErrorAs(t, err, &tagErr)
	assert.Equal(t, "#nope", tagErr.Tag)

	_, err = q.Search(o, nil, []string{"#nope"})
	assert.ErrorIs(t, err, ErrNotFound, "exclusions are checked even with empty include")

	assert.Zero(t, pics.lookups, "no lookup before validation")
}

func TestQueryEngine_Cache(t *testing.T) {
	o, pics := indexedSample(t)
	q := NewQueryEngine(pics)

	_, err := q.Search(o, []string{"#霊夢"}, nil)
	require.NoError(t, err)
	assert.Equal(t, CacheStats{Hits: 0, Misses: 1, Size: 1}, q.CacheStats())

	_, err = q.Search(o, []string{"#霊夢"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, q.CacheStats().Hits)
	assert.Equal(t, 1, pics.lookups)

	q.Invalidate()
	assert.Zero(t, q.CacheStats().Size)
	_, err = q.Search(o, []string{"#霊夢"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, pics.lookups)
}

func TestExpand(t *testing.T) {
	o := sampleOntology(t)

	got, err := Expand(o, "#東方")
	require.NoError(t, err)
	assert.Equal(t, []string{"#東方", "#Touhou", "#霊夢", "#魔理沙"}, got)

	got, err = Expand(o, "#Touhou")
	require.NoError(t, err)
	assert.Equal(t, []string{"#Touhou"}, got)

	_, err = Expand(o, "#nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
