package backend

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Backend registry. It is only a name index for the CLI and the server;
// parse and format always take a backend explicitly.
var (
	backendsMu sync.RWMutex
	backends   = make(map[string]*Backend)
)

// ErrUnknownBackend is returned when a backend name is not registered.
var ErrUnknownBackend = errors.New("unknown backend")

// ErrBackendRequired is returned when a backend is required but not provided.
var ErrBackendRequired = errors.New("backend is required")

// Get returns a backend by name (case-insensitive).
func Get(name string) (*Backend, bool) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	b, ok := backends[strings.ToLower(name)]
	return b, ok
}

// Lookup is like Get but returns an error wrapping ErrUnknownBackend.
func Lookup(name string) (*Backend, error) {
	if b, ok := Get(name); ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownBackend, name, strings.Join(List(), ", "))
}

// Register registers a backend in the global registry, replacing any
// backend with the same name. Built-in backends call it from init().
func Register(b *Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[strings.ToLower(b.Name())] = b
}

// List returns all registered backend names (sorted).
func List() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
