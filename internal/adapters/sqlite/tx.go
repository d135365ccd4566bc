package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"

	"pictag/internal/domain"
)

// storeTx wraps a transaction with the row codecs shared by the store
type storeTx struct {
	tx *sql.Tx
}

// withTx runs fn in a transaction, committing on success
func (s *Store) withTx(fn func(t *storeTx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(&storeTx{tx: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// readTags returns the stored tags of pid and whether the row exists
func (t *storeTx) readTags(pid int64) (domain.ItemTags, bool, error) {
	var raw string
	err := t.tx.QueryRow(`SELECT tags FROM metadata WHERE pid = ?`, pid).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	tags, err := decodeTags(raw)
	return tags, true, err
}

// writeTags stores tags for pid, creating the row when missing
func (t *storeTx) writeTags(pid int64, tags domain.ItemTags) error {
	raw, err := encodeTags(tags)
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(`
		INSERT INTO metadata (pid, tags) VALUES (?, ?)
		ON CONFLICT(pid) DO UPDATE SET tags = excluded.tags
	`, pid, raw)
	return err
}

// readEntry returns the index entry for tag, nil when absent
func (t *storeTx) readEntry(tag string) (domain.PIDSet, error) {
	var raw string
	err := t.tx.QueryRow(`SELECT pids FROM tag_index WHERE tag = ?`, tag).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodePIDs(raw)
}

// writeEntry replaces the entry for tag; an empty set deletes it
func (t *storeTx) writeEntry(tag string, pids domain.PIDSet) error {
	if len(pids) == 0 {
		_, err := t.tx.Exec(`DELETE FROM tag_index WHERE tag = ?`, tag)
		return err
	}
	raw, err := json.Marshal(pids.Sorted())
	if err != nil {
		return err
	}
	_, err = t.tx.Exec(`INSERT OR REPLACE INTO tag_index (tag, pids) VALUES (?, ?)`, tag, string(raw))
	return err
}

// encodeTags stores provenance as "metadata" or "tree" per tag
func encodeTags(tags domain.ItemTags) (string, error) {
	m := make(map[string]string, len(tags))
	for name, p := range tags {
		m[name] = p.String()
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(raw), nil
}

func decodeTags(raw string) (domain.ItemTags, error) {
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	tags := make(domain.ItemTags, len(m))
	for name, p := range m {
		tags[name] = domain.ParseProvenance(p)
	}
	return tags, nil
}

func decodePIDs(raw string) (domain.PIDSet, error) {
	var pids []int64
	if err := json.Unmarshal([]byte(raw), &pids); err != nil {
		return nil, fmt.Errorf("failed to decode index entry: %w", err)
	}
	return domain.NewPIDSet(pids...), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
