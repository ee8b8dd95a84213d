package middleware

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/portnet/pkg/adapters/memory"
	"github.com/aretw0/portnet/pkg/domain"
	"github.com/aretw0/portnet/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore counts loads that reach the backing store.
type countingStore struct {
	ports.NetworkStore
	loads atomic.Int32
}

func (s *countingStore) Load(ctx context.Context, dataset string) (*domain.Network, error) {
	s.loads.Add(1)
	return s.NetworkStore.Load(ctx, dataset)
}

func TestCacheMiddleware(t *testing.T) {
	ctx := context.Background()
	backing := &countingStore{NetworkStore: memory.NewStore()}
	require.NoError(t, backing.Save(ctx, "med", &domain.Network{Ports: []domain.PortMetrics{{PortID: "A"}}}))

	clock := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	store := newCache(time.Minute, func() time.Time { return clock })(backing)

	t.Run("Hit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			n, err := store.Load(ctx, "med")
			require.NoError(t, err)
			assert.Len(t, n.Ports, 1)
		}
		assert.Equal(t, int32(1), backing.loads.Load())
	})

	t.Run("Returned Copies Are Isolated", func(t *testing.T) {
		n, err := store.Load(ctx, "med")
		require.NoError(t, err)
		n.Ports[0].PortID = "mutated"

		again, err := store.Load(ctx, "med")
		require.NoError(t, err)
		assert.Equal(t, "A", again.Ports[0].PortID)
	})

	t.Run("Expiry", func(t *testing.T) {
		before := backing.loads.Load()
		clock = clock.Add(2 * time.Minute)
		_, err := store.Load(ctx, "med")
		require.NoError(t, err)
		assert.Equal(t, before+1, backing.loads.Load())
	})

	t.Run("Save Invalidates", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "med", &domain.Network{Ports: []domain.PortMetrics{{PortID: "A"}, {PortID: "B"}}}))
		n, err := store.Load(ctx, "med")
		require.NoError(t, err)
		assert.Len(t, n.Ports, 2)
	})

	t.Run("Delete Invalidates", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "med"))
		_, err := store.Load(ctx, "med")
		assert.ErrorIs(t, err, domain.ErrDatasetNotFound)
	})
}

// hookStore runs a callback inside Save or Load to interleave a second call
// through the cache while the backing write or read is in flight.
type hookStore struct {
	ports.NetworkStore
	onSave func()
	onLoad func()
}

func (s *hookStore) Save(ctx context.Context, dataset string, network *domain.Network) error {
	if s.onSave != nil {
		hook := s.onSave
		s.onSave = nil
		hook()
	}
	return s.NetworkStore.Save(ctx, dataset, network)
}

func (s *hookStore) Load(ctx context.Context, dataset string) (*domain.Network, error) {
	network, err := s.NetworkStore.Load(ctx, dataset)
	if s.onLoad != nil {
		hook := s.onLoad
		s.onLoad = nil
		hook()
	}
	return network, err
}

func TestCacheMiddleware_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	oldNet := &domain.Network{Ports: []domain.PortMetrics{{PortID: "OLD"}}}
	newNet := &domain.Network{Ports: []domain.PortMetrics{{PortID: "NEW"}}}

	t.Run("Load During Save", func(t *testing.T) {
		backing := &hookStore{NetworkStore: memory.NewStore()}
		require.NoError(t, backing.Save(ctx, "med", oldNet))
		store := newCache(time.Minute, time.Now)(backing)

		backing.onSave = func() {
			n, err := store.Load(ctx, "med")
			require.NoError(t, err)
			assert.Equal(t, "OLD", n.Ports[0].PortID)
		}
		require.NoError(t, store.Save(ctx, "med", newNet))

		n, err := store.Load(ctx, "med")
		require.NoError(t, err)
		assert.Equal(t, "NEW", n.Ports[0].PortID)
	})

	t.Run("Save During Load", func(t *testing.T) {
		backing := &hookStore{NetworkStore: memory.NewStore()}
		require.NoError(t, backing.Save(ctx, "med", oldNet))
		store := newCache(time.Minute, time.Now)(backing)

		backing.onLoad = func() {
			require.NoError(t, store.Save(ctx, "med", newNet))
		}
		n, err := store.Load(ctx, "med")
		require.NoError(t, err)
		assert.Equal(t, "OLD", n.Ports[0].PortID)

		n, err = store.Load(ctx, "med")
		require.NoError(t, err)
		assert.Equal(t, "NEW", n.Ports[0].PortID)
	})
}

func TestCacheMiddleware_Contract(t *testing.T) {
	ports.RunNetworkStoreContract(t, Chain(memory.NewStore(), NewCacheMiddleware(time.Minute)))
}
