package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/portnet/pkg/domain"
)

// Store implements ports.NetworkStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Network
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Network),
	}
}

// Save persists the network in memory.
func (s *Store) Save(ctx context.Context, dataset string, network *domain.Network) error {
	// Copy to ensure isolation, similar to serialization
	copied := network.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[dataset] = copied
	return nil
}

// Load retrieves the network from memory.
func (s *Store) Load(ctx context.Context, dataset string) (*domain.Network, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	network, ok := s.data[dataset]
	if !ok {
		return nil, domain.ErrDatasetNotFound
	}

	// Copy on read so callers can't mutate store state through the pointer
	return network.Clone(), nil
}

// Delete removes the dataset.
func (s *Store) Delete(ctx context.Context, dataset string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, dataset)
	return nil
}

// List returns the stored datasets.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	datasets := make([]string, 0, len(s.data))
	for id := range s.data {
		datasets = append(datasets, id)
	}
	sort.Strings(datasets)
	return datasets, nil
}
