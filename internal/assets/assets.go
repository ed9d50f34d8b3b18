// Package assets resolves model-relative resource paths against a list of
// search directories and caches the loaded bytes.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned when no search root holds the requested file.
var ErrNotFound = errors.New("asset not found")

// Manager loads files from a prioritized list of directories.
type Manager struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a new asset manager with the given search roots.
func NewManager(roots ...string) *Manager {
	m := &Manager{cache: NewCache()}
	for _, r := range roots {
		m.AddRoot(r)
	}
	return m
}

// AddRoot appends a search directory. Roots are searched in insertion order
// after the caller-supplied base directory. Empty roots are ignored.
func (m *Manager) AddRoot(dir string) {
	if dir == "" {
		return
	}
	m.mu.Lock()
	m.roots = append(m.roots, filepath.Clean(dir))
	m.mu.Unlock()
}

// Roots returns a copy of the search roots.
func (m *Manager) Roots() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.roots...)
}

// NormalizePath converts an MMD texture reference ("tex\\body.png") to a
// slash-separated relative path.
func NormalizePath(ref string) string {
	return strings.TrimPrefix(strings.ReplaceAll(ref, "\\", "/"), "./")
}

// Resolve finds the on-disk location of ref. Absolute paths are used as-is;
// relative ones are tried against base and then every root.
func (m *Manager) Resolve(base, ref string) (string, error) {
	rel := filepath.FromSlash(NormalizePath(ref))
	if filepath.IsAbs(rel) {
		if _, err := os.Stat(rel); err != nil {
			return "", fmt.Errorf("%s: %w", ref, ErrNotFound)
		}
		return rel, nil
	}

	candidates := make([]string, 0, 1+len(m.roots))
	if base != "" {
		candidates = append(candidates, base)
	}
	candidates = append(candidates, m.Roots()...)

	for _, dir := range candidates {
		path := filepath.Join(dir, rel)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s: %w", ref, ErrNotFound)
}

// Load reads a file found via Resolve, serving repeats from the cache.
func (m *Manager) Load(base, ref string) ([]byte, string, error) {
	path, err := m.Resolve(base, ref)
	if err != nil {
		return nil, "", err
	}
	if data, ok := m.cache.Get(path); ok {
		return data, path, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	m.cache.Set(path, data)
	return data, path, nil
}

// Close drops cached data.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
