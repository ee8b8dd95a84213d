package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/portnet/pkg/adapters/memory"
	"github.com/aretw0/portnet/pkg/domain"
	"github.com/aretw0/portnet/pkg/ports"
	"github.com/aretw0/portnet/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunNetworkStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	network := &domain.Network{Ports: []domain.PortMetrics{{PortID: "A", Visits: 1}}}
	require.NoError(t, store.Save(ctx, "ds", network))
	network.Ports[0].Visits = 99

	loaded, err := store.Load(ctx, "ds")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Ports[0].Visits)

	loaded.Ports[0].Visits = 42
	again, err := store.Load(ctx, "ds")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Ports[0].Visits)
}

func TestMemoryRecordStore_Contract(t *testing.T) {
	store := memory.NewRecordStore()
	tests.RecordStoreContractTest(t, store, store)
}
