package listfetch

import (
	"strings"
	"sync"
)

// Registry keeps one Loader per session and screen so that repeated
// requests from the same table share debounce and fetch state.
type Registry struct {
	mu      sync.Mutex
	loaders map[string]*Loader
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]*Loader)}
}

// Get returns the loader for a session and screen, creating it with the
// factory on first use.
func (r *Registry) Get(sessionID, screen string, factory func() *Loader) *Loader {
	key := sessionID + "|" + screen
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.loaders[key]; ok {
		return l
	}
	l := factory()
	r.loaders[key] = l
	return l
}

// Drop closes and forgets every loader belonging to the session. Called on
// logout so a fresh login starts with clean list state.
func (r *Registry) Drop(sessionID string) {
	prefix := sessionID + "|"
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, l := range r.loaders {
		if strings.HasPrefix(key, prefix) {
			l.Close()
			delete(r.loaders, key)
		}
	}
}

// Len reports the number of live loaders.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.loaders)
}
