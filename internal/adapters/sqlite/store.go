package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"pictag/internal/ports"
)

const schemaVersion = "1"

// Store implements ports.PictureCatalog using SQLite
type Store struct {
	db     *sql.DB
	dbPath string
}

// Ensure Store implements PictureCatalog
var _ ports.PictureCatalog = (*Store)(nil)

// Open opens or creates the database at dbPath
func Open(dbPath string) (*Store, error) {
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL mode lets readers proceed during an index rebuild
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS metadata (
			pid INTEGER PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '{}',
			user TEXT NOT NULL DEFAULT '',
			user_id INTEGER NOT NULL DEFAULT 0,
			date TEXT NOT NULL DEFAULT '',
			x_restrict INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS tag_index (
			tag TEXT PRIMARY KEY,
			pids TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.checkSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.dbPath
}

// checkSchema records the schema version, dropping the derived index when
// the stored version differs
func (s *Store) checkSchema() error {
	version, err := s.getMeta("schema_version")
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version == schemaVersion {
		return nil
	}
	if version != "" {
		if _, err := s.db.Exec(`DELETE FROM tag_index`); err != nil {
			return fmt.Errorf("failed to reset index: %w", err)
		}
		if _, err := s.db.Exec(`DELETE FROM meta WHERE key = 'last_index_time'`); err != nil {
			return fmt.Errorf("failed to reset index: %w", err)
		}
	}
	return s.setMeta("schema_version", schemaVersion)
}

// NeedsFullRebuild returns true if no full index build has been recorded
func (s *Store) NeedsFullRebuild() bool {
	v, err := s.getMeta("last_index_time")
	return err != nil || v == ""
}

// LastIndexed returns when the index was last fully rebuilt
func (s *Store) LastIndexed() (time.Time, bool) {
	v, err := s.getMeta("last_index_time")
	if err != nil || v == "" {
		return time.Time{}, false
	}
	unix, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}

func (s *Store) getMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *Store) setMeta(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}
