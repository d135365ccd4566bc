package domain

import "slices"

// AncestorMap maps each tag (and, optionally, each synonym) to the names
// of every tag above it on any path from the root. Categories never appear
// as keys or values.
type AncestorMap map[string]map[string]struct{}

// Of returns the sorted ancestors recorded for name
func (m AncestorMap) Of(name string) []string {
	set := m[name]
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// Has reports whether name is a key of the map
func (m AncestorMap) Has(name string) bool {
	_, ok := m[name]
	return ok
}

func (m AncestorMap) merge(name string, set map[string]struct{}) {
	dst, ok := m[name]
	if !ok {
		dst = make(map[string]struct{}, len(set))
		m[name] = dst
	}
	for a := range set {
		dst[a] = struct{}{}
	}
}

// AncestorMap derives the ancestor closure of every tag reachable from the
// root. A tag reachable through several parents gets the union of all its
// paths. With includeSynonyms each synonym of a tag is recorded with the
// tag's ancestors plus the tag itself.
func (o *Ontology) AncestorMap(includeSynonyms bool) AncestorMap {
	reachable := o.reachable()

	memo := make(map[string]map[string]struct{}, len(reachable))
	var closure func(name string) map[string]struct{}
	closure = func(name string) map[string]struct{} {
		if set, ok := memo[name]; ok {
			return set
		}
		set := make(map[string]struct{})
		memo[name] = set // guards against cycles in hand-edited data
		for _, p := range o.tags[name].Parents {
			if !reachable[p] {
				continue
			}
			for a := range closure(p) {
				set[a] = struct{}{}
			}
			if IsTag(p) {
				set[p] = struct{}{}
			}
		}
		return set
	}

	m := make(AncestorMap)
	for name := range reachable {
		if IsTag(name) {
			m.merge(name, closure(name))
		}
	}

	if includeSynonyms {
		for name := range reachable {
			if !IsTag(name) {
				continue
			}
			withOwner := map[string]struct{}{name: {}}
			for a := range closure(name) {
				withOwner[a] = struct{}{}
			}
			for _, syn := range o.tags[name].Synonyms {
				m.merge(syn, withOwner)
			}
		}
	}

	return m
}

func (o *Ontology) reachable() map[string]bool {
	seen := map[string]bool{o.root: true}
	stack := []string{o.root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range o.tags[cur].Children {
			if _, ok := o.tags[child]; ok && !seen[child] {
				seen[child] = true
				stack = append(stack, child)
			}
		}
	}
	return seen
}

// CompletionResult is the outcome of completing one picture's tags
type CompletionResult struct {
	Tags         []string // raw tags plus every ancestor, sorted
	Unrecognized []string // raw tags absent from the ancestor map, sorted
}

// Derived returns the completed tags that were not in raw
func (r CompletionResult) Derived(raw []string) []string {
	var out []string
	for _, t := range r.Tags {
		if !slices.Contains(raw, t) {
			out = append(out, t)
		}
	}
	return out
}

// CompleteTags expands raw with the ancestors of each recognized tag.
// Unrecognized tags are kept as given but contribute no ancestors.
func CompleteTags(raw []string, anc AncestorMap) CompletionResult {
	all := make(map[string]struct{}, len(raw))
	unknown := make(map[string]struct{})
	for _, t := range raw {
		all[t] = struct{}{}
		set, ok := anc[t]
		if !ok {
			unknown[t] = struct{}{}
			continue
		}
		for a := range set {
			all[a] = struct{}{}
		}
	}

	res := CompletionResult{Tags: make([]string, 0, len(all))}
	for t := range all {
		res.Tags = append(res.Tags, t)
	}
	slices.Sort(res.Tags)
	for t := range unknown {
		res.Unrecognized = append(res.Unrecognized, t)
	}
	slices.Sort(res.Unrecognized)
	return res
}
