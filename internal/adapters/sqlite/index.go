package sqlite

import (
	"fmt"
	"strconv"
	"time"

	"pictag/internal/domain"
	"pictag/internal/ports"
)

// PIDsByTag returns the pictures indexed directly under tag
func (s *Store) PIDsByTag(tag string) (domain.PIDSet, error) {
	var pids domain.PIDSet
	err := s.withTx(func(t *storeTx) error {
		var err error
		pids, err = t.readEntry(tag)
		return err
	})
	if err != nil {
		return nil, err
	}
	if pids == nil {
		pids = domain.NewPIDSet()
	}
	return pids, nil
}

// UpdateIndex writes idx in one transaction. IndexReplace drops every
// existing entry first; IndexMerge unions with existing entries per tag.
func (s *Store) UpdateIndex(idx domain.InvertedIndex, mode domain.IndexMode) error {
	err := s.withTx(func(t *storeTx) error {
		if mode == domain.IndexReplace {
			if _, err := t.tx.Exec(`DELETE FROM tag_index`); err != nil {
				return err
			}
		}
		for _, tag := range sortedKeys(idx) {
			pids := idx[tag]
			if mode == domain.IndexMerge {
				existing, err := t.readEntry(tag)
				if err != nil {
					return err
				}
				if existing != nil {
					existing.Union(pids)
					pids = existing
				}
			}
			if err := t.writeEntry(tag, pids); err != nil {
				return err
			}
		}
		if mode == domain.IndexReplace {
			_, err := t.tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('last_index_time', ?)`,
				strconv.FormatInt(time.Now().Unix(), 10))
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update index: %w", err)
	}
	return nil
}

// RemoveFromIndex drops pids from every index entry, deleting entries
// left empty
func (s *Store) RemoveFromIndex(pids []int64) error {
	if len(pids) == 0 {
		return nil
	}
	drop := domain.NewPIDSet(pids...)

	err := s.withTx(func(t *storeTx) error {
		rows, err := t.tx.Query(`SELECT tag, pids FROM tag_index`)
		if err != nil {
			return err
		}
		changed := make(map[string]domain.PIDSet)
		for rows.Next() {
			var tag, raw string
			if err := rows.Scan(&tag, &raw); err != nil {
				rows.Close()
				return err
			}
			set, err := decodePIDs(raw)
			if err != nil {
				rows.Close()
				return err
			}
			if kept := set.Difference(drop); len(kept) != len(set) {
				changed[tag] = kept
			}
		}
		if err := rows.Close(); err != nil {
			return err
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, tag := range sortedKeys(changed) {
			if err := t.writeEntry(tag, changed[tag]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove from index: %w", err)
	}
	return nil
}

// IndexSize returns the number of tags in the index
func (s *Store) IndexSize() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM tag_index`).Scan(&n)
	return n, err
}

// IndexInfo reports the index size and when it was last fully rebuilt
func (s *Store) IndexInfo() (ports.IndexInfo, error) {
	n, err := s.IndexSize()
	if err != nil {
		return ports.IndexInfo{}, fmt.Errorf("failed to count index entries: %w", err)
	}
	info := ports.IndexInfo{Tags: n}
	if at, ok := s.LastIndexed(); ok {
		info.LastBuilt = at
	}
	return info, nil
}
