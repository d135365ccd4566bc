package domain

import (
	"slices"
	"time"
)

// PIDSet is a set of Pixiv picture ids
type PIDSet map[int64]struct{}

// NewPIDSet builds a set from ids
func NewPIDSet(pids ...int64) PIDSet {
	s := make(PIDSet, len(pids))
	for _, p := range pids {
		s[p] = struct{}{}
	}
	return s
}

// Has reports membership
func (s PIDSet) Has(pid int64) bool {
	_, ok := s[pid]
	return ok
}

// Add inserts pid
func (s PIDSet) Add(pid int64) {
	s[pid] = struct{}{}
}

// Clone returns an independent copy
func (s PIDSet) Clone() PIDSet {
	out := make(PIDSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// Union adds every element of other to s
func (s PIDSet) Union(other PIDSet) {
	for p := range other {
		s[p] = struct{}{}
	}
}

// Intersect returns the elements present in both sets
func (s PIDSet) Intersect(other PIDSet) PIDSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(PIDSet)
	for p := range small {
		if large.Has(p) {
			out[p] = struct{}{}
		}
	}
	return out
}

// Difference returns the elements of s absent from other
func (s PIDSet) Difference(other PIDSet) PIDSet {
	out := make(PIDSet, len(s))
	for p := range s {
		if !other.Has(p) {
			out[p] = struct{}{}
		}
	}
	return out
}

// Sorted returns the ids in ascending order
func (s PIDSet) Sorted() []int64 {
	out := make([]int64, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// InvertedIndex maps a tag name to the pictures recorded under it
type InvertedIndex map[string]PIDSet

// Add records pid under tag
func (idx InvertedIndex) Add(tag string, pid int64) {
	set, ok := idx[tag]
	if !ok {
		set = make(PIDSet)
		idx[tag] = set
	}
	set.Add(pid)
}

// Merge unions other into idx
func (idx InvertedIndex) Merge(other InvertedIndex) {
	for tag, pids := range other {
		set, ok := idx[tag]
		if !ok {
			idx[tag] = pids.Clone()
			continue
		}
		set.Union(pids)
	}
}

// Tags returns the index keys, sorted
func (idx InvertedIndex) Tags() []string {
	out := make([]string, 0, len(idx))
	for t := range idx {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Entries returns the total number of (tag, pid) pairs
func (idx InvertedIndex) Entries() int {
	n := 0
	for _, pids := range idx {
		n += len(pids)
	}
	return n
}

// IndexMode selects how an index is written to a picture store
type IndexMode int

const (
	IndexReplace IndexMode = iota // drop every existing entry first
	IndexMerge                    // union with existing entries per tag
)

// MinimalTags keeps the recognized tags of a completed set that are not
// implied by a more specific co-present tag. Subtree expansion at query
// time recovers the dropped ancestors.
func MinimalTags(completed []string, anc AncestorMap) []string {
	keep := make(map[string]struct{}, len(completed))
	for _, t := range completed {
		if anc.Has(t) {
			keep[t] = struct{}{}
		}
	}
	for _, t := range completed {
		for a := range anc[t] {
			delete(keep, a)
		}
	}

	out := make([]string, 0, len(keep))
	for t := range keep {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// IndexStats holds statistics from an index build
type IndexStats struct {
	Items        int
	Tags         int
	Entries      int
	Unrecognized int
	Incremental  bool
	Duration     time.Duration
}
