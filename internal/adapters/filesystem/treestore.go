package filesystem

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"pictag/internal/domain"
)

// tagJSON is one entry of the tag tree file
type tagJSON struct {
	Name     string   `json:"name"`
	EnName   string   `json:"enName"`
	Parent   []string `json:"parent"`
	Synonyms []string `json:"synonyms"`
	SubTags  []string `json:"subTags"`
	Type     string   `json:"type"`
}

// TreeStore implements ports.TreeStore with a JSON file keyed by node name
type TreeStore struct {
	path string
	root string
}

// NewTreeStore creates a tree store for the file at path
func NewTreeStore(path string) *TreeStore {
	return &TreeStore{path: ExpandHome(path), root: domain.RootName}
}

// Path returns the tree file location
func (s *TreeStore) Path() string {
	return s.path
}

// Load reads the tree file. A missing file yields an ontology holding
// only the root.
func (s *TreeStore) Load() (domain.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewOntology().Snapshot(), nil
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to read tag tree: %w", err)
	}

	var raw map[string]tagJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}

	snap := domain.Snapshot{Root: s.root, Tags: make(map[string]domain.TagRecord, len(raw))}
	for key, t := range raw {
		name := t.Name
		if name == "" {
			name = key
		}
		snap.Tags[name] = domain.TagRecord{
			Name:        name,
			EnglishName: t.EnName,
			Type:        t.Type,
			Parents:     t.Parent,
			Synonyms:    t.Synonyms,
			Children:    t.SubTags,
		}
	}
	return snap, nil
}

// Save writes the snapshot with four-space indentation and unescaped
// non-ASCII text, replacing the file atomically
func (s *TreeStore) Save(snap domain.Snapshot) error {
	raw := make(map[string]tagJSON, len(snap.Tags))
	for name, rec := range snap.Tags {
		raw[name] = tagJSON{
			Name:     rec.Name,
			EnName:   rec.EnglishName,
			Parent:   orEmpty(rec.Parents),
			Synonyms: orEmpty(rec.Synonyms),
			SubTags:  orEmpty(rec.Children),
			Type:     rec.Type,
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(raw); err != nil {
		return fmt.Errorf("failed to encode tag tree: %w", err)
	}

	return writeFileAtomic(s.path, buf.Bytes())
}

func orEmpty(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write tag tree: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync tag tree: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close tag tree: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace tag tree: %w", err)
	}
	return nil
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
