// Package cache holds the per-server state that outlives a single request:
// the configured search roots (updated by workspace/didChangeConfiguration)
// and the lazily-loaded OpenVAS built-in function table. Everything else —
// a file's own Definitions and its include graph — is re-derived fresh per
// request rather than cached here (see DESIGN.md: the file-level caching
// described in an earlier, superseded snapshot of the original Rust cache
// is intentionally not carried forward).
package cache

import (
	"context"
	"sync"

	"github.com/nichtsfrei/nasl-analyzer/internal/openvas"
)

// Cache is safe for concurrent use: every accessor takes the mutex. The stdio
// loop in cmd/nasl-analyzer handles one message at a time, so there the lock
// is never contended.
type Cache struct {
	mu       sync.RWMutex
	roots    []string
	builtins *openvas.Builtins
}

// New builds an empty Cache seeded with the given workspace roots.
func New(roots []string) *Cache {
	c := &Cache{}
	c.AddRoots(roots)
	return c
}

// AddRoots appends to the set of search roots used to resolve include(...)
// targets. Called once at startup with the initialize workspace folders,
// and again on every workspace/didChangeConfiguration notification.
func (c *Cache) AddRoots(roots []string) {
	if len(roots) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roots = append(c.roots, roots...)
}

// Roots returns a snapshot of the current search roots.
func (c *Cache) Roots() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.roots))
	copy(out, c.roots)
	return out
}

// SetBuiltins loads the OpenVAS built-in function table from dirOrFile and
// stores it, transitioning the Cache from its Empty state to Loaded. A
// failure leaves any previously loaded table in place.
func (c *Cache) SetBuiltins(ctx context.Context, dirOrFile string) error {
	b, err := openvas.Load(ctx, dirOrFile)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.builtins = b
	return nil
}

// Builtins returns the loaded built-in table, or nil if none has been
// loaded yet (the Empty state).
func (c *Cache) Builtins() *openvas.Builtins {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.builtins
}
