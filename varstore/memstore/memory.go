// Package memstore provides an in-memory, process-local variable store. It
// suits single-process plugins and tests; nothing survives a restart.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/plugrpc/plugrpc-go/plugservice"
	"github.com/plugrpc/plugrpc-go/varstore"
)

// Store is an in-memory varstore.Store.
type Store struct {
	mu        sync.RWMutex
	instances map[string]map[string]any
}

// New constructs an empty Store.
func New() *Store {
	return &Store{instances: make(map[string]map[string]any)}
}

func (s *Store) List(ctx context.Context, instance string) ([]plugservice.Variable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vars := make([]plugservice.Variable, 0, len(s.instances[instance]))
	for name, value := range s.instances[instance] {
		vars = append(vars, plugservice.Variable{Name: name, Value: value})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars, nil
}

func (s *Store) Get(ctx context.Context, instance string, name string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.instances[instance][name]
	return value, ok, nil
}

func (s *Store) Set(ctx context.Context, instance string, name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vars, ok := s.instances[instance]
	if !ok {
		vars = make(map[string]any)
		s.instances[instance] = vars
	}
	vars[name] = value
	return nil
}

func (s *Store) Remove(ctx context.Context, instance string, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.instances[instance], name)
	return nil
}

func (s *Store) Clear(ctx context.Context, instance string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.instances, instance)
	return nil
}

func (s *Store) Close() error { return nil }

var _ varstore.Store = (*Store)(nil)
