package domain

import (
	"slices"
	"strings"
)

// RootName is the fixed name of the ontology's root category
const RootName = "标签"

// TagMarker prefixes every searchable tag; names without it are categories
const TagMarker = "#"

// NodeKind distinguishes searchable tags from organizational categories
type NodeKind int

const (
	KindCategory NodeKind = iota // organizational only, never attached to pictures
	KindTag                      // attachable to pictures, searchable
)

func (k NodeKind) String() string {
	switch k {
	case KindTag:
		return "Tag"
	default:
		return "Category"
	}
}

// IsTag reports whether name follows the tag naming convention
func IsTag(name string) bool {
	return strings.HasPrefix(name, TagMarker)
}

// KindOf returns the node kind implied by a name
func KindOf(name string) NodeKind {
	if IsTag(name) {
		return KindTag
	}
	return KindCategory
}

// Tag is a node of the ontology. Relations are stored by name; the
// Ontology registry owns every Tag.
type Tag struct {
	Name        string
	EnglishName string
	Type        string   // free-form label, e.g. "IP", "Character", "R-18"
	Parents     []string // ordered, a tag may have several
	Synonyms    []string // kept sorted and unique
	Children    []string // insertion order
}

// Kind returns whether the node is a tag or a category
func (t *Tag) Kind() NodeKind {
	return KindOf(t.Name)
}

// HasParent reports whether name is one of the tag's parents
func (t *Tag) HasParent(name string) bool {
	return slices.Contains(t.Parents, name)
}

// HasChild reports whether name is one of the tag's children
func (t *Tag) HasChild(name string) bool {
	return slices.Contains(t.Children, name)
}

// HasSynonym reports whether name is one of the tag's synonyms
func (t *Tag) HasSynonym(name string) bool {
	_, found := slices.BinarySearch(t.Synonyms, name)
	return found
}

func (t *Tag) addParent(name string) {
	if !t.HasParent(name) {
		t.Parents = append(t.Parents, name)
	}
}

func (t *Tag) addChild(name string) {
	if !t.HasChild(name) {
		t.Children = append(t.Children, name)
	}
}

func (t *Tag) removeParent(name string) {
	t.Parents = slices.DeleteFunc(t.Parents, func(p string) bool { return p == name })
}

func (t *Tag) removeChild(name string) {
	t.Children = slices.DeleteFunc(t.Children, func(c string) bool { return c == name })
}

func (t *Tag) addSynonym(name string) {
	i, found := slices.BinarySearch(t.Synonyms, name)
	if !found {
		t.Synonyms = slices.Insert(t.Synonyms, i, name)
	}
}

func (t *Tag) removeSynonym(name string) {
	if i, found := slices.BinarySearch(t.Synonyms, name); found {
		t.Synonyms = slices.Delete(t.Synonyms, i, i+1)
	}
}

// Record returns a detached, serializable copy of the tag
func (t *Tag) Record() TagRecord {
	return TagRecord{
		Name:        t.Name,
		EnglishName: t.EnglishName,
		Type:        t.Type,
		Parents:     cloneNames(t.Parents),
		Synonyms:    cloneNames(t.Synonyms),
		Children:    cloneNames(t.Children),
	}
}

func cloneNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	return slices.Clone(names)
}

// TagRecord is the storage form of a Tag
type TagRecord struct {
	Name        string
	EnglishName string
	Type        string
	Parents     []string
	Synonyms    []string
	Children    []string
}

// Equal reports whether r and other describe the same node. Nil and
// empty name lists are equal.
func (r TagRecord) Equal(other TagRecord) bool {
	return r.Name == other.Name &&
		r.EnglishName == other.EnglishName &&
		r.Type == other.Type &&
		slices.Equal(r.Parents, other.Parents) &&
		slices.Equal(r.Synonyms, other.Synonyms) &&
		slices.Equal(r.Children, other.Children)
}

// Snapshot is the serializable form of a whole ontology
type Snapshot struct {
	Root string
	Tags map[string]TagRecord
}

// Equal reports whether s and other hold the same tree
func (s Snapshot) Equal(other Snapshot) bool {
	if s.Root != other.Root || len(s.Tags) != len(other.Tags) {
		return false
	}
	for name, rec := range s.Tags {
		o, ok := other.Tags[name]
		if !ok || !rec.Equal(o) {
			return false
		}
	}
	return true
}

// Provenance records how a tag came to be attached to a picture
type Provenance int

const (
	ProvenanceExplicit Provenance = iota // applied by the user or the picture's metadata
	ProvenanceDerived                    // added by completion from the ontology
)

func (p Provenance) String() string {
	switch p {
	case ProvenanceDerived:
		return "tree"
	default:
		return "metadata"
	}
}

// ParseProvenance parses the stored form of a Provenance. Unknown values
// are treated as explicit so no user tag is ever discarded as derived.
func ParseProvenance(s string) Provenance {
	if s == "tree" {
		return ProvenanceDerived
	}
	return ProvenanceExplicit
}

// ItemTags maps each tag attached to a picture to its provenance
type ItemTags map[string]Provenance

// Names returns all tag names, sorted
func (it ItemTags) Names() []string {
	names := make([]string, 0, len(it))
	for name := range it {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Explicit returns the names with explicit provenance, sorted
func (it ItemTags) Explicit() []string {
	var names []string
	for name, p := range it {
		if p == ProvenanceExplicit {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
