package domain

import (
	"fmt"
	"slices"
)

// Ontology is the tag DAG. The name-keyed registry is the only owner of
// Tag values; edges are stored as names on both endpoints and every
// mutation updates both sides.
//
// Ontology is not safe for concurrent use.
type Ontology struct {
	root string
	tags map[string]*Tag
}

// NewOntology creates an ontology holding only the root category
func NewOntology() *Ontology {
	return &Ontology{
		root: RootName,
		tags: map[string]*Tag{RootName: {Name: RootName}},
	}
}

// FromSnapshot rebuilds an ontology by walking child names from the
// snapshot's root. Records not reachable from the root are dropped.
func FromSnapshot(s Snapshot) (*Ontology, error) {
	root := s.Root
	if root == "" {
		root = RootName
	}
	if _, ok := s.Tags[root]; !ok {
		return nil, fmt.Errorf("snapshot root %q: %w", root, ErrNotFound)
	}

	o := &Ontology{root: root, tags: make(map[string]*Tag, len(s.Tags))}

	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, len(s.Tags))

	var build func(name string) error
	build = func(name string) error {
		switch state[name] {
		case visiting:
			return fmt.Errorf("snapshot cycle through %q: %w", name, ErrInvalidEdge)
		case done:
			return nil
		}
		rec, ok := s.Tags[name]
		if !ok {
			return fmt.Errorf("snapshot child %q: %w", name, ErrNotFound)
		}
		state[name] = visiting

		t := &Tag{
			Name:        rec.Name,
			EnglishName: rec.EnglishName,
			Type:        rec.Type,
		}
		if t.Name == "" {
			t.Name = name
		}
		for _, syn := range rec.Synonyms {
			if syn != "" && syn != t.Name {
				t.addSynonym(syn)
			}
		}
		o.tags[name] = t

		for _, child := range rec.Children {
			if err := build(child); err != nil {
				return err
			}
			t.addChild(child)
		}
		state[name] = done
		return nil
	}
	if err := build(root); err != nil {
		return nil, err
	}

	// Parent lists follow the stored order, restricted to edges that the
	// walk actually found, then any edge the stored list was missing.
	found := make(map[string][]string, len(o.tags))
	for _, t := range o.tags {
		for _, child := range t.Children {
			found[child] = append(found[child], t.Name)
		}
	}
	for name, t := range o.tags {
		for _, p := range s.Tags[name].Parents {
			if slices.Contains(found[name], p) {
				t.addParent(p)
			}
		}
		parents := found[name]
		slices.Sort(parents)
		for _, p := range parents {
			t.addParent(p)
		}
	}

	return o, nil
}

// Snapshot returns a detached serializable copy of every registered tag
func (o *Ontology) Snapshot() Snapshot {
	s := Snapshot{Root: o.root, Tags: make(map[string]TagRecord, len(o.tags))}
	for name, t := range o.tags {
		s.Tags[name] = t.Record()
	}
	return s
}

// RootName returns the name of the root category
func (o *Ontology) RootName() string {
	return o.root
}

// Len returns the number of registered nodes, root included
func (o *Ontology) Len() int {
	return len(o.tags)
}

// Has reports whether name is a registered node
func (o *Ontology) Has(name string) bool {
	_, ok := o.tags[name]
	return ok
}

// Contains reports whether name is a registered node or a synonym of one
func (o *Ontology) Contains(name string) bool {
	if o.Has(name) {
		return true
	}
	return len(o.SynonymOwners(name)) > 0
}

// SynonymOwners returns the sorted names of tags listing name as a synonym
func (o *Ontology) SynonymOwners(name string) []string {
	var owners []string
	for _, t := range o.tags {
		if t.HasSynonym(name) {
			owners = append(owners, t.Name)
		}
	}
	slices.Sort(owners)
	return owners
}

// Get returns a copy of the named node
func (o *Ontology) Get(name string) (TagRecord, error) {
	t, ok := o.tags[name]
	if !ok {
		return TagRecord{}, &TagError{Op: "get", Tag: name, Err: ErrNotFound}
	}
	return t.Record(), nil
}

// Children returns the direct children of name in insertion order
func (o *Ontology) Children(name string) []string {
	if t, ok := o.tags[name]; ok {
		return slices.Clone(t.Children)
	}
	return nil
}

// TagNames returns every registered tag (categories excluded), sorted
func (o *Ontology) TagNames() []string {
	var names []string
	for name := range o.tags {
		if IsTag(name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// AddNewTag creates newName as a child of parentName
func (o *Ontology) AddNewTag(newName, parentName string) error {
	parent, ok := o.tags[parentName]
	if !ok {
		return &TagError{Op: "add", Tag: newName, Parent: parentName, Err: fmt.Errorf("parent %w", ErrNotFound)}
	}
	if o.Has(newName) {
		return &TagError{Op: "add", Tag: newName, Parent: parentName, Err: ErrAlreadyExists}
	}

	t := &Tag{Name: newName, Parents: []string{parentName}}
	o.tags[newName] = t
	parent.addChild(newName)
	return nil
}

// AddParentTag links an existing tag under an additional existing parent.
// Linking that would make a tag its own ancestor is rejected.
func (o *Ontology) AddParentTag(tagName, parentName string) error {
	t, ok := o.tags[tagName]
	if !ok {
		return &TagError{Op: "link", Tag: tagName, Parent: parentName, Err: ErrNotFound}
	}
	parent, ok := o.tags[parentName]
	if !ok {
		return &TagError{Op: "link", Tag: tagName, Parent: parentName, Err: fmt.Errorf("parent %w", ErrNotFound)}
	}
	if t.HasParent(parentName) {
		return nil
	}
	if tagName == o.root {
		return &TagError{Op: "link", Tag: tagName, Parent: parentName, Err: fmt.Errorf("root cannot have parents: %w", ErrInvalidEdge)}
	}
	if tagName == parentName || o.isAncestor(tagName, parentName) {
		return &TagError{Op: "link", Tag: tagName, Parent: parentName, Err: fmt.Errorf("would create a cycle: %w", ErrInvalidEdge)}
	}

	t.addParent(parentName)
	parent.addChild(tagName)
	return nil
}

// DeleteTag removes the edge parentName -> tagName. A tag left without
// parents is dropped from the registry; its children lose that parent but
// are not deleted.
func (o *Ontology) DeleteTag(tagName, parentName string) error {
	t, ok := o.tags[tagName]
	if !ok {
		return &TagError{Op: "delete", Tag: tagName, Parent: parentName, Err: ErrNotFound}
	}
	parent, ok := o.tags[parentName]
	if !ok {
		return &TagError{Op: "delete", Tag: tagName, Parent: parentName, Err: fmt.Errorf("parent %w", ErrNotFound)}
	}
	if !parent.HasChild(tagName) || !t.HasParent(parentName) {
		return &TagError{Op: "delete", Tag: tagName, Parent: parentName, Err: fmt.Errorf("no such edge: %w", ErrInvalidEdge)}
	}

	parent.removeChild(tagName)
	t.removeParent(parentName)

	if len(t.Parents) == 0 {
		for _, child := range t.Children {
			if c, ok := o.tags[child]; ok {
				c.removeParent(tagName)
			}
		}
		delete(o.tags, tagName)
	}
	return nil
}

// MoveTag re-parents tagName from one parent to another. It is the
// sequence AddParentTag(to) then DeleteTag(from) with no rollback: if the
// second step fails the returned MoveError has Partial set and the tag
// keeps both parents.
func (o *Ontology) MoveTag(tagName, from, to string) error {
	if from == to {
		return nil
	}
	if err := o.AddParentTag(tagName, to); err != nil {
		return &MoveError{Tag: tagName, From: from, To: to, Err: err}
	}
	if err := o.DeleteTag(tagName, from); err != nil {
		return &MoveError{Tag: tagName, From: from, To: to, Partial: true, Err: err}
	}
	return nil
}

// AddSynonym registers synonym as an alternate name of tagName
func (o *Ontology) AddSynonym(tagName, synonym string) error {
	t, ok := o.tags[tagName]
	if !ok {
		return &TagError{Op: "add synonym", Tag: tagName, Err: ErrNotFound}
	}
	if synonym == tagName {
		return &TagError{Op: "add synonym", Tag: tagName, Err: fmt.Errorf("tag cannot be its own synonym: %w", ErrInvalidEdge)}
	}
	t.addSynonym(synonym)
	return nil
}

// RemoveSynonym drops synonym from tagName; removing an absent synonym is a no-op
func (o *Ontology) RemoveSynonym(tagName, synonym string) error {
	t, ok := o.tags[tagName]
	if !ok {
		return &TagError{Op: "remove synonym", Tag: tagName, Err: ErrNotFound}
	}
	t.removeSynonym(synonym)
	return nil
}

// SetEnglishName sets the display alias of a node
func (o *Ontology) SetEnglishName(tagName, englishName string) error {
	t, ok := o.tags[tagName]
	if !ok {
		return &TagError{Op: "edit", Tag: tagName, Err: ErrNotFound}
	}
	t.EnglishName = englishName
	return nil
}

// SetType sets the free-form classification label of a node
func (o *Ontology) SetType(tagName, tagType string) error {
	t, ok := o.tags[tagName]
	if !ok {
		return &TagError{Op: "edit", Tag: tagName, Err: ErrNotFound}
	}
	t.Type = tagType
	return nil
}

// Descendants returns every node below name, depth first, each once.
// With includeSynonyms the synonyms of name and of every visited
// descendant are included as well.
func (o *Ontology) Descendants(name string, includeSynonyms bool) ([]string, error) {
	start, ok := o.tags[name]
	if !ok {
		return nil, &TagError{Op: "descendants", Tag: name, Err: ErrNotFound}
	}

	var out []string
	emitted := map[string]bool{name: true}
	visited := map[string]bool{name: true}
	emit := func(n string) {
		if !emitted[n] {
			emitted[n] = true
			out = append(out, n)
		}
	}

	if includeSynonyms {
		for _, syn := range start.Synonyms {
			emit(syn)
		}
	}

	var walk func(t *Tag)
	walk = func(t *Tag) {
		for _, childName := range t.Children {
			if visited[childName] {
				continue
			}
			visited[childName] = true
			child, ok := o.tags[childName]
			if !ok {
				continue
			}
			emit(childName)
			if includeSynonyms {
				for _, syn := range child.Synonyms {
					emit(syn)
				}
			}
			walk(child)
		}
	}
	walk(start)

	return out, nil
}

// IsDescendant reports whether name lies strictly below ancestor
func (o *Ontology) IsDescendant(ancestor, name string) bool {
	if ancestor == name || !o.Has(ancestor) || !o.Has(name) {
		return false
	}
	return o.isAncestor(ancestor, name)
}

// isAncestor walks upward from name and reports whether candidate is met
func (o *Ontology) isAncestor(candidate, name string) bool {
	seen := make(map[string]bool)
	stack := []string{name}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		t, ok := o.tags[cur]
		if !ok {
			continue
		}
		for _, p := range t.Parents {
			if p == candidate {
				return true
			}
			if !seen[p] {
				seen[p] = true
				stack = append(stack, p)
			}
		}
	}
	return false
}
