package ports

import (
	"time"

	"pictag/internal/domain"
)

// PictureStore provides tag storage for catalogued pictures and the
// persisted inverted index built from them.
type PictureStore interface {
	// Item tags
	PIDs() ([]int64, error)
	Tags(pid int64) (domain.ItemTags, error)
	RawTags(pid int64) ([]string, error) // explicit tags only
	AddTags(pid int64, tags domain.ItemTags) error
	OverwriteTags(pid int64, tags domain.ItemTags) error

	// Inverted index
	PIDsByTag(tag string) (domain.PIDSet, error)
	UpdateIndex(idx domain.InvertedIndex, mode domain.IndexMode) error
	RemoveFromIndex(pids []int64) error
}

// Picture is the catalog row for one Pixiv work
type Picture struct {
	PID       int64
	Title     string
	User      string
	UserID    int64
	Date      string
	XRestrict int
	Tags      domain.ItemTags
}

// TagCount is the number of pictures carrying a tag
type TagCount struct {
	Tag   string
	Count int
}

// IndexInfo describes the persisted inverted index
type IndexInfo struct {
	Tags      int
	LastBuilt time.Time // zero until the first full build
}

// PictureCatalog is implemented by stores that also hold picture metadata
type PictureCatalog interface {
	PictureStore

	Picture(pid int64) (Picture, error)
	UpsertPicture(p Picture) error
	TagCounts() ([]TagCount, error)

	// NeedsFullRebuild reports that no full index build has been recorded
	NeedsFullRebuild() bool
	IndexInfo() (IndexInfo, error)
	Close() error
}
