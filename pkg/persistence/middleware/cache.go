package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/portnet/pkg/domain"
	"github.com/aretw0/portnet/pkg/ports"
)

type cacheEntry struct {
	network *domain.Network
	expires time.Time
}

type cacheMiddleware struct {
	next ports.NetworkStore
	ttl  time.Duration
	now  func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
	// gen is bumped on every invalidation; a Load only caches its result if no
	// invalidation happened while it was reading the backing store.
	gen uint64
}

// NewCacheMiddleware keeps loaded networks in memory for ttl so repeated reads of a
// dataset skip the backing store. Save and Delete through the middleware invalidate
// the entry; writes made by other processes become visible once it expires.
func NewCacheMiddleware(ttl time.Duration) Middleware {
	return newCache(ttl, time.Now)
}

func newCache(ttl time.Duration, now func() time.Time) Middleware {
	return func(next ports.NetworkStore) ports.NetworkStore {
		return &cacheMiddleware{
			next:    next,
			ttl:     ttl,
			now:     now,
			entries: make(map[string]cacheEntry),
		}
	}
}

// Save drops the entry on both sides of the write so a Load racing with it cannot
// keep the previous network cached.
func (m *cacheMiddleware) Save(ctx context.Context, dataset string, network *domain.Network) error {
	m.invalidate(dataset)
	defer m.invalidate(dataset)
	return m.next.Save(ctx, dataset, network)
}

func (m *cacheMiddleware) Load(ctx context.Context, dataset string) (*domain.Network, error) {
	m.mu.RLock()
	e, ok := m.entries[dataset]
	gen := m.gen
	m.mu.RUnlock()
	if ok && m.now().Before(e.expires) {
		return e.network.Clone(), nil
	}

	network, err := m.next.Load(ctx, dataset)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.gen == gen {
		m.entries[dataset] = cacheEntry{network: network.Clone(), expires: m.now().Add(m.ttl)}
	}
	m.mu.Unlock()
	return network, nil
}

func (m *cacheMiddleware) Delete(ctx context.Context, dataset string) error {
	m.invalidate(dataset)
	defer m.invalidate(dataset)
	return m.next.Delete(ctx, dataset)
}

func (m *cacheMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *cacheMiddleware) invalidate(dataset string) {
	m.mu.Lock()
	delete(m.entries, dataset)
	m.gen++
	m.mu.Unlock()
}
