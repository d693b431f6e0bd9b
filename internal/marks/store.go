package marks

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrMarkerNotFound is returned by Store.Resolve for a marker that does not
// exist.
var ErrMarkerNotFound = errors.New("marker not found")

// Store is the key-value abstraction over the backend's tag namespace. All
// marker reads and writes go through it so the resolvers and the lifecycle
// manager never shell out directly, and tests can substitute MemStore.
type Store interface {
	// List returns every marker whose name matches the glob pattern,
	// mapped to the commit it points at.
	List(ctx context.Context, glob string) (map[string]string, error)

	// Create creates a marker pointing at target. Creating a marker that
	// already exists is an error.
	Create(ctx context.Context, name, target string) error

	// Delete removes a marker. Deleting a missing marker is an error.
	Delete(ctx context.Context, name string) error

	// Resolve returns the commit a marker points at, or ErrMarkerNotFound.
	Resolve(ctx context.Context, name string) (string, error)
}

// MemStore is an in-memory Store used by tests and dry runs.
type MemStore struct {
	mu      sync.Mutex
	markers map[string]string
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{markers: make(map[string]string)}
}

// List returns markers matching the glob pattern.
func (s *MemStore) List(_ context.Context, glob string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string]string)
	for name, target := range s.markers {
		if matchName(glob, name) {
			result[name] = target
		}
	}
	return result, nil
}

// matchName mirrors the backend's ref glob semantics: * matches any run of
// characters, path separators included, so markers for slash-named branches
// stay visible.
func matchName(glob, name string) bool {
	i := strings.IndexByte(glob, '*')
	if i < 0 {
		return glob == name
	}
	prefix, suffix := glob[:i], glob[i+1:]
	return len(name) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(name, prefix) &&
		strings.HasSuffix(name, suffix)
}

// Create creates a marker.
func (s *MemStore) Create(_ context.Context, name, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.markers[name]; exists {
		return errors.New("marker already exists: " + name)
	}
	s.markers[name] = target
	return nil
}

// Delete removes a marker.
func (s *MemStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.markers[name]; !exists {
		return ErrMarkerNotFound
	}
	delete(s.markers, name)
	return nil
}

// Resolve returns the commit a marker points at.
func (s *MemStore) Resolve(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, exists := s.markers[name]
	if !exists {
		return "", ErrMarkerNotFound
	}
	return target, nil
}

// Names returns all marker names in sorted order. Test helper.
func (s *MemStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.markers))
	for name := range s.markers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
