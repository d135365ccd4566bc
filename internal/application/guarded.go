package application

import "sync"

// Guarded serializes access to a Catalog shared by several goroutines,
// such as request handlers and a file watcher
type Guarded struct {
	mu      sync.Mutex
	catalog *Catalog
}

// NewGuarded wraps c
func NewGuarded(c *Catalog) *Guarded {
	return &Guarded{catalog: c}
}

// Do runs fn with exclusive access to the catalog
func (g *Guarded) Do(fn func(c *Catalog) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.catalog)
}

// Reload reloads the catalog's ontology under the lock
func (g *Guarded) Reload() error {
	return g.Do(func(c *Catalog) error { return c.Reload() })
}

// Refresh reloads the catalog under the lock when the stored tree changed
func (g *Guarded) Refresh() (bool, error) {
	var changed bool
	err := g.Do(func(c *Catalog) error {
		var err error
		changed, err = c.Refresh()
		return err
	})
	return changed, err
}
