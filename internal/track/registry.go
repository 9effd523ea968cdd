package track

import (
	"sort"
	"strings"
	"sync"
)

// Registry maps extractor keys to extractor implementations. It is populated
// at startup from an explicit table, never by reflective discovery, and is
// safe for concurrent lookup.
type Registry struct {
	mu         sync.RWMutex
	extractors map[string]Extractor
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[string]Extractor)}
}

// Register binds an extractor to its dispatch key. Keys are matched
// case-insensitively; a later Register for the same key replaces the earlier
// one.
func (r *Registry) Register(key string, ext Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[normalizeKey(key)] = ext
}

// Lookup resolves the extractor for a dispatch key.
func (r *Registry) Lookup(key string) (Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ext, ok := r.extractors[normalizeKey(key)]
	return ext, ok
}

// Keys returns the registered dispatch keys, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.extractors))
	for k := range r.extractors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
