package application

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"pictag/internal/domain"
	"pictag/internal/logging"
	"pictag/internal/ports"
)

// DefaultHistoryLimit bounds the undo history
const DefaultHistoryLimit = 50

type historyEntry struct {
	description string
	snapshot    domain.Snapshot
}

// Catalog ties the tag ontology to its tree store and to the picture store.
// Every ontology mutation goes through it so the undo history and the query
// cache stay consistent. A Catalog is not safe for concurrent use; see
// Guarded.
type Catalog struct {
	tree     ports.TreeStore
	pictures ports.PictureStore
	ontology *domain.Ontology
	query    *QueryEngine
	indexer  *Indexer
	logger   *slog.Logger

	history      []historyEntry
	historyLimit int
	dirty        bool
	// saved is the tree as last read from or written to the tree store
	saved domain.Snapshot
}

// NewCatalog creates a catalog holding an empty ontology. Call Open to load
// the stored one.
func NewCatalog(tree ports.TreeStore, pictures ports.PictureStore, logger *slog.Logger) *Catalog {
	logger = logging.OrDiscard(logger)
	return &Catalog{
		tree:         tree,
		pictures:     pictures,
		ontology:     domain.NewOntology(),
		query:        NewQueryEngine(pictures),
		indexer:      NewIndexer(pictures, logger),
		logger:       logger,
		historyLimit: DefaultHistoryLimit,
	}
}

// Open loads the ontology from the tree store
func (c *Catalog) Open() error {
	return c.Reload()
}

// Reload replaces the in-memory ontology with the stored one, discarding
// unsaved changes and the undo history
func (c *Catalog) Reload() error {
	o, err := c.load()
	if err != nil {
		return err
	}
	c.replace(o)
	return nil
}

// Refresh reloads the stored tree only when it differs from what this
// catalog last loaded or saved, so the catalog's own writes keep the undo
// history. It reports whether a reload happened.
func (c *Catalog) Refresh() (bool, error) {
	o, err := c.load()
	if err != nil {
		return false, err
	}
	if o.Snapshot().Equal(c.saved) {
		c.logger.Debug("tag tree unchanged on disk")
		return false, nil
	}
	c.replace(o)
	return true, nil
}

func (c *Catalog) load() (*domain.Ontology, error) {
	snap, err := c.tree.Load()
	if err != nil {
		return nil, fmt.Errorf("load tag tree: %w", err)
	}
	o, err := domain.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("build tag tree: %w", err)
	}
	return o, nil
}

func (c *Catalog) replace(o *domain.Ontology) {
	c.ontology = o
	c.saved = o.Snapshot()
	c.history = nil
	c.dirty = false
	c.query.Invalidate()
	c.logger.Info("tag tree loaded", "nodes", o.Len())
}

// Save writes the ontology to the tree store
func (c *Catalog) Save() error {
	snap := c.ontology.Snapshot()
	if err := c.tree.Save(snap); err != nil {
		return fmt.Errorf("save tag tree: %w", err)
	}
	c.saved = reachable(snap)
	c.dirty = false
	c.logger.Info("tag tree saved", "nodes", c.ontology.Len())
	return nil
}

// reachable drops records a reload would not find from the root, such
// as the orphaned children of a deleted tag
func reachable(snap domain.Snapshot) domain.Snapshot {
	o, err := domain.FromSnapshot(snap)
	if err != nil {
		return snap
	}
	return o.Snapshot()
}

// Dirty reports whether the ontology has changes not yet saved
func (c *Catalog) Dirty() bool {
	return c.dirty
}

// Ontology returns the live ontology. Callers must not mutate it directly.
func (c *Catalog) Ontology() *domain.Ontology {
	return c.ontology
}

// Pictures returns the picture store
func (c *Catalog) Pictures() ports.PictureStore {
	return c.pictures
}

// SetHistoryLimit changes how many undo steps are kept
func (c *Catalog) SetHistoryLimit(n int) {
	c.historyLimit = max(n, 1)
	c.trimHistory()
}

// History returns the descriptions of undoable changes, oldest first
func (c *Catalog) History() []string {
	out := make([]string, len(c.history))
	for i, h := range c.history {
		out[i] = h.description
	}
	return out
}

// Undo restores the ontology to its state before the latest change and
// returns that change's description
func (c *Catalog) Undo() (string, error) {
	if len(c.history) == 0 {
		return "", ErrNoHistory
	}
	last := c.history[len(c.history)-1]
	o, err := domain.FromSnapshot(last.snapshot)
	if err != nil {
		return "", fmt.Errorf("restore %q: %w", last.description, err)
	}
	c.history = c.history[:len(c.history)-1]
	c.ontology = o
	c.dirty = true
	c.query.Invalidate()
	c.logger.Debug("undo", "change", last.description)
	return last.description, nil
}

func (c *Catalog) trimHistory() {
	if over := len(c.history) - c.historyLimit; over > 0 {
		c.history = slices.Delete(c.history, 0, over)
	}
}

// mutate applies fn to the ontology, recording an undo step when the
// ontology changed
func (c *Catalog) mutate(description string, fn func(o *domain.Ontology) error) error {
	before := c.ontology.Snapshot()
	err := fn(c.ontology)
	if err != nil {
		var moveErr *domain.MoveError
		if !errors.As(err, &moveErr) || !moveErr.Partial {
			return err
		}
	} else if c.ontology.Snapshot().Equal(before) {
		return nil
	}

	c.history = append(c.history, historyEntry{description: description, snapshot: before})
	c.trimHistory()
	c.dirty = true
	c.query.Invalidate()
	c.logger.Debug("tag tree changed", "change", description)
	return err
}

// AddNewTag creates name under parent
func (c *Catalog) AddNewTag(name, parent string) error {
	if err := ValidateName("tag", name); err != nil {
		return err
	}
	if err := ValidateRequired("parent", parent); err != nil {
		return err
	}
	return c.mutate(fmt.Sprintf("add %s under %s", name, parent), func(o *domain.Ontology) error {
		return o.AddNewTag(name, parent)
	})
}

// AddParentTag links name under an additional parent
func (c *Catalog) AddParentTag(name, parent string) error {
	if err := ValidateRequired("tag", name); err != nil {
		return err
	}
	if err := ValidateRequired("parent", parent); err != nil {
		return err
	}
	return c.mutate(fmt.Sprintf("link %s under %s", name, parent), func(o *domain.Ontology) error {
		return o.AddParentTag(name, parent)
	})
}

// DeleteTag removes the edge between name and parent, dropping name when
// it has no parent left
func (c *Catalog) DeleteTag(name, parent string) error {
	if err := ValidateRequired("tag", name); err != nil {
		return err
	}
	if err := ValidateRequired("parent", parent); err != nil {
		return err
	}
	return c.mutate(fmt.Sprintf("delete %s from %s", name, parent), func(o *domain.Ontology) error {
		return o.DeleteTag(name, parent)
	})
}

// MoveTag moves name from one parent to another. A *domain.MoveError with
// Partial set means the tag is now linked under both parents.
func (c *Catalog) MoveTag(name, from, to string) error {
	for _, f := range [][2]string{{"tag", name}, {"from", from}, {"to", to}} {
		if err := ValidateRequired(f[0], f[1]); err != nil {
			return err
		}
	}
	return c.mutate(fmt.Sprintf("move %s from %s to %s", name, from, to), func(o *domain.Ontology) error {
		return o.MoveTag(name, from, to)
	})
}

// AddSynonym records synonym as another name for tag
func (c *Catalog) AddSynonym(name, synonym string) error {
	if err := ValidateRequired("tag", name); err != nil {
		return err
	}
	if err := ValidateName("synonym", synonym); err != nil {
		return err
	}
	return c.mutate(fmt.Sprintf("add synonym %s to %s", synonym, name), func(o *domain.Ontology) error {
		return o.AddSynonym(name, synonym)
	})
}

// RemoveSynonym removes synonym from tag
func (c *Catalog) RemoveSynonym(name, synonym string) error {
	if err := ValidateRequired("tag", name); err != nil {
		return err
	}
	return c.mutate(fmt.Sprintf("remove synonym %s from %s", synonym, name), func(o *domain.Ontology) error {
		return o.RemoveSynonym(name, synonym)
	})
}

// EditTag sets the English name and type of a tag in one undoable step
func (c *Catalog) EditTag(name, englishName, tagType string) error {
	if err := ValidateRequired("tag", name); err != nil {
		return err
	}
	if err := ValidateEnglishName(englishName); err != nil {
		return err
	}
	tagType = strings.TrimSpace(tagType)
	return c.mutate(fmt.Sprintf("edit %s", name), func(o *domain.Ontology) error {
		if err := o.SetEnglishName(name, englishName); err != nil {
			return err
		}
		return o.SetType(name, tagType)
	})
}

// Tag returns the stored form of a single node
func (c *Catalog) Tag(name string) (TagRecord, error) {
	return c.ontology.Get(name)
}

// Descendants lists everything below name
func (c *Catalog) Descendants(name string, includeSynonyms bool) ([]string, error) {
	return c.ontology.Descendants(name, includeSynonyms)
}

// Ancestors returns every tag above name on any path from the root. A
// synonym reports its owners' ancestors plus the owners.
func (c *Catalog) Ancestors(name string) ([]string, error) {
	if !c.ontology.Contains(name) {
		return nil, &domain.TagError{Op: "ancestors", Tag: name, Err: domain.ErrNotFound}
	}
	return c.ontology.AncestorMap(true).Of(name), nil
}

// Tree returns a fresh display tree
func (c *Catalog) Tree() *TreeNode {
	return c.ontology.BuildTree()
}

// Search runs an include/exclude query and returns matching ids, ascending
func (c *Catalog) Search(include, exclude []string) ([]int64, error) {
	pids, err := c.query.Search(c.ontology, include, exclude)
	if err != nil {
		return nil, err
	}
	return pids.Sorted(), nil
}

// CacheStats reports query cache usage
func (c *Catalog) CacheStats() CacheStats {
	return c.query.CacheStats()
}

// Complete runs tag completion over pids, or every picture when pids is nil
func (c *Catalog) Complete(pids []int64) (*CompletionReport, error) {
	report, err := c.indexer.Complete(c.ontology, pids)
	c.query.Invalidate()
	return report, err
}

// BuildIndex rebuilds the inverted index for pids, or entirely when pids
// is nil
func (c *Catalog) BuildIndex(pids []int64) (IndexStats, error) {
	stats, err := c.indexer.BuildIndex(c.ontology, pids)
	c.query.Invalidate()
	return stats, err
}

// Reindex completes and then indexes pids, or every picture when nil
func (c *Catalog) Reindex(pids []int64) (*CompletionReport, IndexStats, error) {
	report, err := c.Complete(pids)
	if err != nil {
		return nil, IndexStats{}, err
	}
	stats, err := c.BuildIndex(pids)
	if err != nil {
		return report, IndexStats{}, err
	}
	return report, stats, nil
}

func (c *Catalog) pictureCatalog() (ports.PictureCatalog, error) {
	pc, ok := c.pictures.(ports.PictureCatalog)
	if !ok {
		return nil, ErrNoCatalog
	}
	return pc, nil
}

// EnsureIndex runs a full reindex when the picture store has never had
// one. It reports whether it did.
func (c *Catalog) EnsureIndex() (bool, error) {
	pc, err := c.pictureCatalog()
	if err != nil || !pc.NeedsFullRebuild() {
		return false, nil
	}
	c.logger.Info("no full index build recorded, reindexing")
	if _, _, err := c.Reindex(nil); err != nil {
		return false, err
	}
	return true, nil
}

// IndexInfo describes the stored inverted index
func (c *Catalog) IndexInfo() (IndexInfo, error) {
	pc, err := c.pictureCatalog()
	if err != nil {
		return IndexInfo{}, err
	}
	return pc.IndexInfo()
}

// Picture returns the stored metadata and tags of pid
func (c *Catalog) Picture(pid int64) (Picture, error) {
	pc, err := c.pictureCatalog()
	if err != nil {
		return Picture{}, err
	}
	return pc.Picture(pid)
}

// TagPicture attaches p.Tags to the picture as explicit tags. Metadata
// fields left empty in p keep their stored values. Stores without picture
// metadata only receive the tags.
func (c *Catalog) TagPicture(p Picture) error {
	pc, err := c.pictureCatalog()
	if err != nil {
		return c.pictures.AddTags(p.PID, p.Tags)
	}

	stored, err := pc.Picture(p.PID)
	switch {
	case errors.Is(err, ErrNotFound):
		stored = Picture{PID: p.PID}
	case err != nil:
		return err
	}
	if p.Title == "" {
		p.Title = stored.Title
	}
	if p.User == "" {
		p.User, p.UserID = stored.User, stored.UserID
	}
	if p.Date == "" {
		p.Date = stored.Date
	}
	if p.XRestrict == 0 {
		p.XRestrict = stored.XRestrict
	}

	tags := make(ItemTags, len(stored.Tags)+len(p.Tags))
	maps.Copy(tags, stored.Tags)
	for name := range p.Tags {
		tags[name] = domain.ProvenanceExplicit
	}
	p.Tags = tags
	return pc.UpsertPicture(p)
}

// TagCounts returns how many pictures carry each stored tag, most used first
func (c *Catalog) TagCounts() ([]TagCount, error) {
	pc, err := c.pictureCatalog()
	if err != nil {
		return nil, err
	}
	return pc.TagCounts()
}

// Unrecognized returns the stored tags the ontology does not know, with
// their usage counts, most used first
func (c *Catalog) Unrecognized() ([]TagCount, error) {
	counts, err := c.TagCounts()
	if err != nil {
		return nil, err
	}
	var out []TagCount
	for _, tc := range counts {
		if !c.ontology.Contains(tc.Tag) {
			out = append(out, tc)
		}
	}
	return out, nil
}
