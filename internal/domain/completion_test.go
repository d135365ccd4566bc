package domain

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pathUnion enumerates every root-to-name path and unions the tag names on
// it, the reference definition the memoized closure must agree with.
func pathUnion(o *Ontology, name string) []string {
	set := make(map[string]struct{})
	var walk func(cur string, path []string)
	walk = func(cur string, path []string) {
		if cur == name {
			for _, p := range path {
				if IsTag(p) {
					set[p] = struct{}{}
				}
			}
			return
		}
		for _, child := range o.tags[cur].Children {
			walk(child, append(slices.Clone(path), cur))
		}
	}
	walk(o.root, nil)

	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

func diamondOntology(t *testing.T) *Ontology {
	t.Helper()
	o := buildOntology(t, [][2]string{
		{"Works", RootName},
		{"#A", "Works"},
		{"#B", RootName},
		{"#P1", "#A"},
		{"#P2", "#B"},
		{"Group", "#P2"},
		{"#X", "#P1"},
		{"#X", "Group"},
		{"#Y", "#X"},
	})
	require.NoError(t, o.AddSynonym("#X", "#Ex"))
	return o
}

func TestAncestorMap_ClosureMatchesPaths(t *testing.T) {
	o := diamondOntology(t)
	anc := o.AncestorMap(false)

	for _, name := range o.TagNames() {
		assert.Equal(t, pathUnion(o, name), anc.Of(name), "ancestors of %s", name)
	}
	assert.False(t, anc.Has("Works"), "categories are not keys")
	assert.False(t, anc.Has("#Ex"), "synonyms only with includeSynonyms")
}

func TestAncestorMap_MultiParentUnion(t *testing.T) {
	o := diamondOntology(t)
	anc := o.AncestorMap(false)

	assert.Equal(t, []string{"#A", "#B", "#P1", "#P2"}, anc.Of("#X"))
	assert.Equal(t, []string{"#A", "#B", "#P1", "#P2", "#X"}, anc.Of("#Y"))
}

func TestAncestorMap_Synonyms(t *testing.T) {
	o := diamondOntology(t)
	anc := o.AncestorMap(true)

	assert.Equal(t, []string{"#A", "#B", "#P1", "#P2", "#X"}, anc.Of("#Ex"))
	assert.Equal(t, []string{"#A", "#B", "#P1", "#P2"}, anc.Of("#X"))
}

func TestAncestorMap_IgnoresUnreachable(t *testing.T) {
	o := buildOntology(t, [][2]string{{"#A", RootName}, {"#B", "#A"}, {"#C", "#B"}})
	require.NoError(t, o.DeleteTag("#B", "#A"))

	anc := o.AncestorMap(false)
	assert.True(t, anc.Has("#A"))
	assert.False(t, anc.Has("#C"), "only reachable from a dropped node")
}

func TestCompleteTags(t *testing.T) {
	o := diamondOntology(t)
	anc := o.AncestorMap(true)

	res := CompleteTags([]string{"#Y", "#unknown", "#Y"}, anc)

	assert.Equal(t, []string{"#A", "#B", "#P1", "#P2", "#X", "#Y", "#unknown"}, res.Tags)
	assert.Equal(t, []string{"#unknown"}, res.Unrecognized)
	assert.Equal(t, []string{"#A", "#B", "#P1", "#P2", "#X"}, res.Derived([]string{"#Y", "#unknown"}))
}

func TestCompleteTags_Idempotent(t *testing.T) {
	o := diamondOntology(t)
	anc := o.AncestorMap(true)

	inputs := [][]string{
		nil,
		{"#Y"},
		{"#Ex"},
		{"#P1", "#B"},
		{"#Y", "#nope"},
	}
	for _, raw := range inputs {
		once := CompleteTags(raw, anc)
		twice := CompleteTags(once.Tags, anc)
		assert.Equal(t, once.Tags, twice.Tags, "raw %v", raw)
	}
}

func TestEndToEndAncestors(t *testing.T) {
	o := buildOntology(t, [][2]string{
		{"Character", RootName},
		{"#Alice", "Character"},
		{"#Person", RootName},
	})

	anc := o.AncestorMap(true)
	assert.True(t, anc.Has("#Alice"))
	assert.Empty(t, anc.Of("#Alice"))
	assert.Equal(t, []string{"#Alice"}, CompleteTags([]string{"#Alice"}, anc).Tags)

	require.NoError(t, o.AddParentTag("#Alice", "#Person"))
	anc = o.AncestorMap(true)
	assert.Equal(t, []string{"#Person"}, anc.Of("#Alice"))
}
