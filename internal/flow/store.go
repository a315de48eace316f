// Package flow persists named command macros (flows) and resolves them for
// execution.
package flow

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/omni-stack/omni/internal/types"
)

// ErrNotFound is reported when a named flow does not exist.
type ErrNotFound struct {
	Name string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("flow %q not found", e.Name)
}

// Store is the lookup capability injected into the command layer. A store
// owns flow persistence; the engine itself never touches disk.
type Store interface {
	// Get returns the named flow.
	Get(name string) (*types.Flow, error)

	// Save creates or replaces a flow.
	Save(flow *types.Flow) error

	// Delete removes a flow entirely.
	Delete(name string) error

	// List returns all flows sorted by name.
	List() ([]*types.Flow, error)
}

// MemoryStore is an in-memory Store for tests and ephemeral use.
type MemoryStore struct {
	mu    sync.RWMutex
	flows map[string]*types.Flow
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flows: make(map[string]*types.Flow)}
}

// Get implements Store.
func (s *MemoryStore) Get(name string) (*types.Flow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.flows[name]
	if !ok {
		return nil, &ErrNotFound{Name: name}
	}
	copied := *f
	copied.Commands = append([]types.CommandTemplate(nil), f.Commands...)
	return &copied, nil
}

// Save implements Store.
func (s *MemoryStore) Save(f *types.Flow) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *f
	copied.Commands = append([]types.CommandTemplate(nil), f.Commands...)
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now().UTC()
	}
	copied.UpdatedAt = time.Now().UTC()
	s.flows[f.Name] = &copied
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.flows[name]; !ok {
		return &ErrNotFound{Name: name}
	}
	delete(s.flows, name)
	return nil
}

// List implements Store.
func (s *MemoryStore) List() ([]*types.Flow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	flows := make([]*types.Flow, 0, len(s.flows))
	for _, f := range s.flows {
		copied := *f
		flows = append(flows, &copied)
	}
	sort.Slice(flows, func(i, j int) bool { return flows[i].Name < flows[j].Name })
	return flows, nil
}
