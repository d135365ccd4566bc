package application

import (
	"pictag/internal/domain"
	"pictag/internal/ports"
)

// Re-export domain types for use by adapters
type (
	TagRecord   = domain.TagRecord
	TreeNode    = domain.TreeNode
	PIDSet      = domain.PIDSet
	IndexStats  = domain.IndexStats
	NodeKind    = domain.NodeKind
	TagCount    = ports.TagCount
	Picture     = ports.Picture
	IndexInfo   = ports.IndexInfo
	ItemTags    = domain.ItemTags
	AncestorMap = domain.AncestorMap
)

const (
	KindCategory = domain.KindCategory
	KindTag      = domain.KindTag
	RootName     = domain.RootName
)

// IsTag reports whether name follows the tag naming convention
func IsTag(name string) bool {
	return domain.IsTag(name)
}
