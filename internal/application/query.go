package application

import (
	"fmt"

	"pictag/internal/domain"
	"pictag/internal/ports"
)

// CacheStats reports query cache usage
type CacheStats struct {
	Hits   int
	Misses int
	Size   int
}

// QueryEngine answers include/exclude tag queries against the inverted
// index. Index lookups are cached per tag name until Invalidate is called.
// It is not safe for concurrent use.
type QueryEngine struct {
	store  ports.PictureStore
	cache  map[string]domain.PIDSet
	hits   int
	misses int
}

// NewQueryEngine creates a query engine reading from store
func NewQueryEngine(store ports.PictureStore) *QueryEngine {
	return &QueryEngine{
		store: store,
		cache: make(map[string]domain.PIDSet),
	}
}

// Search returns the pictures carrying every include tag and none of the
// exclude tags, where a picture carries a tag if it is indexed under the
// tag, one of its descendants or one of their synonyms. An empty include
// list yields an empty result. Every name must be known to the ontology,
// either as a node or as a synonym.
func (q *QueryEngine) Search(o *domain.Ontology, include, exclude []string) (domain.PIDSet, error) {
	for _, names := range [][]string{include, exclude} {
		for _, name := range names {
			if !o.Contains(name) {
				return nil, &domain.TagError{Op: "search", Tag: name, Err: domain.ErrNotFound}
			}
		}
	}
	if len(include) == 0 {
		return domain.NewPIDSet(), nil
	}

	var result domain.PIDSet
	for _, name := range include {
		items, err := q.findItems(o, name)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = items
		} else {
			result = result.Intersect(items)
		}
		if len(result) == 0 {
			return result, nil
		}
	}

	for _, name := range exclude {
		items, err := q.findItems(o, name)
		if err != nil {
			return nil, err
		}
		result = result.Difference(items)
	}
	return result, nil
}

// Expand returns name followed by its descendants and every synonym met
// on the way. A name known only as a synonym expands to itself.
func Expand(o *domain.Ontology, name string) ([]string, error) {
	if !o.Has(name) {
		if o.Contains(name) {
			return []string{name}, nil
		}
		return nil, &domain.TagError{Op: "expand", Tag: name, Err: domain.ErrNotFound}
	}
	desc, err := o.Descendants(name, true)
	if err != nil {
		return nil, err
	}
	return append([]string{name}, desc...), nil
}

func (q *QueryEngine) findItems(o *domain.Ontology, name string) (domain.PIDSet, error) {
	names, err := Expand(o, name)
	if err != nil {
		return nil, err
	}
	out := domain.NewPIDSet()
	for _, n := range names {
		pids, err := q.lookup(n)
		if err != nil {
			return nil, err
		}
		out.Union(pids)
	}
	return out, nil
}

func (q *QueryEngine) lookup(name string) (domain.PIDSet, error) {
	if pids, ok := q.cache[name]; ok {
		q.hits++
		return pids, nil
	}
	q.misses++
	pids, err := q.store.PIDsByTag(name)
	if err != nil {
		return nil, fmt.Errorf("index lookup %s: %w", name, err)
	}
	if pids == nil {
		pids = domain.NewPIDSet()
	}
	q.cache[name] = pids
	return pids, nil
}

// Invalidate drops every cached lookup
func (q *QueryEngine) Invalidate() {
	clear(q.cache)
}

// CacheStats returns cache counters since creation
func (q *QueryEngine) CacheStats() CacheStats {
	return CacheStats{Hits: q.hits, Misses: q.misses, Size: len(q.cache)}
}
