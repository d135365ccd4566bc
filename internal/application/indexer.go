package application

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"pictag/internal/domain"
	"pictag/internal/logging"
	"pictag/internal/ports"
)

// CompletionReport summarizes a completion pass over the picture store
type CompletionReport struct {
	Items        int
	Updated      int      // items whose stored tags changed
	Unrecognized []string // distinct raw tags missing from the ontology, sorted
	Occurrences  int      // total unrecognized (item, tag) pairs
	Duration     time.Duration
}

// Indexer drives tag completion and inverted index builds against a
// picture store. The ontology is passed to each call so a reloaded
// ontology is always the one used.
type Indexer struct {
	store  ports.PictureStore
	logger *slog.Logger
}

// NewIndexer creates an indexer over store. A nil logger discards output.
func NewIndexer(store ports.PictureStore, logger *slog.Logger) *Indexer {
	return &Indexer{store: store, logger: logging.OrDiscard(logger)}
}

func (ix *Indexer) pids(pids []int64) ([]int64, error) {
	if pids != nil {
		return pids, nil
	}
	all, err := ix.store.PIDs()
	if err != nil {
		return nil, fmt.Errorf("list pictures: %w", err)
	}
	return all, nil
}

// Complete rewrites the stored tags of each picture as its explicit tags
// plus every ancestor the ontology derives from them. Derived tags left
// over from an older ontology are dropped. A nil pids completes every
// picture in the store.
func (ix *Indexer) Complete(o *domain.Ontology, pids []int64) (*CompletionReport, error) {
	start := time.Now()
	pids, err := ix.pids(pids)
	if err != nil {
		return nil, err
	}
	ix.logger.Info("completing tags", "items", len(pids))

	anc := o.AncestorMap(true)
	report := &CompletionReport{Items: len(pids)}
	unknown := make(map[string]struct{})

	for _, pid := range pids {
		raw, err := ix.store.RawTags(pid)
		if err != nil {
			return nil, fmt.Errorf("raw tags of %d: %w", pid, err)
		}
		res := domain.CompleteTags(raw, anc)
		report.Occurrences += len(res.Unrecognized)
		for _, t := range res.Unrecognized {
			unknown[t] = struct{}{}
		}

		next := make(domain.ItemTags, len(res.Tags))
		for _, t := range raw {
			next[t] = domain.ProvenanceExplicit
		}
		for _, t := range res.Derived(raw) {
			next[t] = domain.ProvenanceDerived
		}

		current, err := ix.store.Tags(pid)
		if err != nil {
			return nil, fmt.Errorf("tags of %d: %w", pid, err)
		}
		if sameItemTags(current, next) {
			continue
		}
		if err := ix.store.OverwriteTags(pid, next); err != nil {
			return nil, fmt.Errorf("overwrite tags of %d: %w", pid, err)
		}
		report.Updated++
	}

	for t := range unknown {
		report.Unrecognized = append(report.Unrecognized, t)
	}
	slices.Sort(report.Unrecognized)
	report.Duration = time.Since(start)

	if len(report.Unrecognized) > 0 {
		ix.logger.Warn("unrecognized tags",
			"distinct", len(report.Unrecognized),
			"occurrences", report.Occurrences)
	}
	ix.logger.Info("completion finished",
		"items", report.Items,
		"updated", report.Updated,
		"duration", report.Duration)
	return report, nil
}

func sameItemTags(a, b domain.ItemTags) bool {
	if len(a) != len(b) {
		return false
	}
	for t, p := range a {
		if q, ok := b[t]; !ok || p != q {
			return false
		}
	}
	return true
}

// BuildIndex builds the minimal inverted index from the stored tags. A nil
// pids rebuilds the whole index; otherwise only the entries of the given
// pictures are replaced and every other entry is kept.
func (ix *Indexer) BuildIndex(o *domain.Ontology, pids []int64) (domain.IndexStats, error) {
	start := time.Now()
	incremental := pids != nil
	pids, err := ix.pids(pids)
	if err != nil {
		return domain.IndexStats{}, err
	}
	ix.logger.Info("building index", "items", len(pids), "incremental", incremental)

	anc := o.AncestorMap(true)
	idx := make(domain.InvertedIndex)
	stats := domain.IndexStats{Items: len(pids), Incremental: incremental}

	for _, pid := range pids {
		tags, err := ix.store.Tags(pid)
		if err != nil {
			return domain.IndexStats{}, fmt.Errorf("tags of %d: %w", pid, err)
		}
		names := tags.Names()
		for _, t := range names {
			if !anc.Has(t) {
				stats.Unrecognized++
			}
		}
		for _, t := range domain.MinimalTags(names, anc) {
			idx.Add(t, pid)
		}
	}

	mode := domain.IndexReplace
	if incremental {
		mode = domain.IndexMerge
		if err := ix.store.RemoveFromIndex(pids); err != nil {
			return domain.IndexStats{}, fmt.Errorf("remove stale entries: %w", err)
		}
	}
	if err := ix.store.UpdateIndex(idx, mode); err != nil {
		return domain.IndexStats{}, fmt.Errorf("write index: %w", err)
	}

	stats.Tags = len(idx)
	stats.Entries = idx.Entries()
	stats.Duration = time.Since(start)
	if stats.Unrecognized > 0 {
		ix.logger.Warn("unindexed unrecognized tags", "occurrences", stats.Unrecognized)
	}
	ix.logger.Info("index built",
		"items", stats.Items,
		"tags", stats.Tags,
		"entries", stats.Entries,
		"duration", stats.Duration)
	return stats, nil
}
