package sqlite

import (
	"database/sql"
	"fmt"

	"pictag/internal/domain"
	"pictag/internal/ports"
)

// PIDs returns every catalogued picture id, ascending
func (s *Store) PIDs() ([]int64, error) {
	rows, err := s.db.Query(`SELECT pid FROM metadata ORDER BY pid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pids []int64
	for rows.Next() {
		var pid int64
		if err := rows.Scan(&pid); err != nil {
			return nil, err
		}
		pids = append(pids, pid)
	}
	return pids, rows.Err()
}

// Tags returns the stored tags of pid with their provenance
func (s *Store) Tags(pid int64) (domain.ItemTags, error) {
	var tags domain.ItemTags
	err := s.withTx(func(t *storeTx) error {
		var ok bool
		var err error
		tags, ok, err = t.readTags(pid)
		if err == nil && !ok {
			err = fmt.Errorf("picture %d: %w", pid, domain.ErrNotFound)
		}
		return err
	})
	return tags, err
}

// RawTags returns the explicit tags of pid
func (s *Store) RawTags(pid int64) ([]string, error) {
	tags, err := s.Tags(pid)
	if err != nil {
		return nil, err
	}
	return tags.Explicit(), nil
}

// AddTags merges tags into the stored tags of pid, creating the picture
// row if needed. A tag already stored as explicit stays explicit.
func (s *Store) AddTags(pid int64, tags domain.ItemTags) error {
	return s.withTx(func(t *storeTx) error {
		current, _, err := t.readTags(pid)
		if err != nil {
			return err
		}
		if current == nil {
			current = make(domain.ItemTags, len(tags))
		}
		for name, p := range tags {
			if old, ok := current[name]; ok && old == domain.ProvenanceExplicit {
				continue
			}
			current[name] = p
		}
		return t.writeTags(pid, current)
	})
}

// OverwriteTags replaces the stored tags of pid
func (s *Store) OverwriteTags(pid int64, tags domain.ItemTags) error {
	return s.withTx(func(t *storeTx) error {
		return t.writeTags(pid, tags)
	})
}

// UpsertPicture inserts or updates a catalog row, tags included
func (s *Store) UpsertPicture(p ports.Picture) error {
	tags := p.Tags
	if tags == nil {
		tags = domain.ItemTags{}
	}
	raw, err := encodeTags(tags)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO metadata (pid, title, tags, user, user_id, date, x_restrict)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(pid) DO UPDATE SET
			title = excluded.title,
			tags = excluded.tags,
			user = excluded.user,
			user_id = excluded.user_id,
			date = excluded.date,
			x_restrict = excluded.x_restrict
	`, p.PID, p.Title, raw, p.User, p.UserID, p.Date, p.XRestrict)
	if err != nil {
		return fmt.Errorf("failed to upsert picture %d: %w", p.PID, err)
	}
	return nil
}

// Picture returns the catalog row of pid
func (s *Store) Picture(pid int64) (ports.Picture, error) {
	p := ports.Picture{PID: pid}
	var raw string
	err := s.db.QueryRow(`
		SELECT title, tags, user, user_id, date, x_restrict
		FROM metadata WHERE pid = ?
	`, pid).Scan(&p.Title, &raw, &p.User, &p.UserID, &p.Date, &p.XRestrict)
	if err == sql.ErrNoRows {
		return ports.Picture{}, fmt.Errorf("picture %d: %w", pid, domain.ErrNotFound)
	}
	if err != nil {
		return ports.Picture{}, err
	}
	p.Tags, err = decodeTags(raw)
	return p, err
}

// TagCounts returns how many pictures carry each stored tag, most used
// first, ties by name
func (s *Store) TagCounts() ([]ports.TagCount, error) {
	rows, err := s.db.Query(`
		SELECT j.key, COUNT(*)
		FROM metadata, json_each(metadata.tags) AS j
		GROUP BY j.key
		ORDER BY COUNT(*) DESC, j.key
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count tags: %w", err)
	}
	defer rows.Close()

	var counts []ports.TagCount
	for rows.Next() {
		var tc ports.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, tc)
	}
	return counts, rows.Err()
}
