package ports

import "pictag/internal/domain"

// TreeStore persists the tag ontology
type TreeStore interface {
	// Load returns the stored snapshot. A store with nothing saved yet
	// returns a snapshot holding only the root category.
	Load() (domain.Snapshot, error)

	// Save replaces the stored ontology with s
	Save(s domain.Snapshot) error
}
