// Package bootstrap opens the stores and catalog shared by the pictag
// binaries from a resolved configuration.
package bootstrap

import (
	"context"
	"fmt"
	"io"

	"pictag/internal/adapters/filesystem"
	"pictag/internal/adapters/sqlite"
	"pictag/internal/application"
	"pictag/internal/config"
	"pictag/internal/logging"
)

// Env holds everything a binary needs to drive the catalog
type Env struct {
	Config   config.Config
	Log      *logging.Logger
	Tree     *filesystem.TreeStore
	Pictures *sqlite.Store
	Catalog  *application.Catalog
}

// Open builds the logger, opens both stores and loads the ontology. A nil
// stderr logs to os.Stderr.
func Open(cfg config.Config, service string, stderr io.Writer) (*Env, error) {
	log := logging.New(logging.Config{
		Level:   cfg.LogLevel,
		Dir:     cfg.LogDir,
		Service: service,
		Stderr:  stderr,
	})

	pictures, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to open picture database: %w", err)
	}

	tree := filesystem.NewTreeStore(cfg.TreePath)
	catalog := application.NewCatalog(tree, pictures, log.Logger)
	if err := catalog.Open(); err != nil {
		pictures.Close()
		log.Close()
		return nil, fmt.Errorf("failed to load tag tree: %w", err)
	}

	log.Debug("catalog opened", "tree", cfg.TreePath, "database", cfg.DatabasePath)

	return &Env{
		Config:   cfg,
		Log:      log,
		Tree:     tree,
		Pictures: pictures,
		Catalog:  catalog,
	}, nil
}

// Close releases the picture database and the log file
func (e *Env) Close() error {
	err := e.Pictures.Close()
	if cerr := e.Log.Close(); err == nil {
		err = cerr
	}
	return err
}

// EnsureIndex builds the search index when the picture database has never
// had a full build. A failure is logged; searches then see an empty index
// until the next reindex.
func (e *Env) EnsureIndex() bool {
	built, err := e.Catalog.EnsureIndex()
	if err != nil {
		e.Log.Warn("initial index build failed", "error", err)
		return false
	}
	return built
}

// Watch reloads g whenever the tree file changes on disk. Writes that
// match the catalog's own last save are ignored. notify, when non-nil,
// runs after each reload.
func (e *Env) Watch(ctx context.Context, g *application.Guarded, notify func()) (*filesystem.Watcher, error) {
	w, err := filesystem.NewWatcher(e.Tree.Path(), func() error {
		changed, err := g.Refresh()
		if err != nil {
			return err
		}
		if changed && notify != nil {
			notify()
		}
		return nil
	}, e.Log.Logger)
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}
