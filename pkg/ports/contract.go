package ports

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/portnet/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunNetworkStoreContract runs a suite of tests to verify that a NetworkStore
// implementation adheres to the defined interface contract.
func RunNetworkStoreContract(t *testing.T, store NetworkStore) {
	ctx := context.Background()
	dataset := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		network := sampleNetwork()

		err := store.Save(ctx, dataset, network)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, dataset)
		require.NoError(t, err, "Load should not return error")

		// Tables must round-trip exactly, including column values and row order.
		want, _ := json.Marshal(network.Ports)
		got, _ := json.Marshal(loaded.Ports)
		assert.JSONEq(t, string(want), string(got))

		want, _ = json.Marshal(network.Edges)
		got, _ = json.Marshal(loaded.Edges)
		assert.JSONEq(t, string(want), string(got))

		assert.Equal(t, network.Stats.EventsKept, loaded.Stats.EventsKept)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		network := sampleNetwork()
		network.Edges = nil
		require.NoError(t, store.Save(ctx, dataset, network))

		loaded, err := store.Load(ctx, dataset)
		require.NoError(t, err)
		assert.Empty(t, loaded.Edges)
		assert.Len(t, loaded.Ports, 2)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+dataset)
		assert.ErrorIs(t, err, domain.ErrDatasetNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, dataset, sampleNetwork()))

		err := store.Delete(ctx, dataset)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, dataset)
		assert.ErrorIs(t, err, domain.ErrDatasetNotFound, "Load after Delete should return ErrDatasetNotFound")

		assert.NoError(t, store.Delete(ctx, dataset), "Deleting twice should be a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := dataset + "-1"
		id2 := dataset + "-2"
		require.NoError(t, store.Save(ctx, id1, sampleNetwork()))
		require.NoError(t, store.Save(ctx, id2, sampleNetwork()))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		datasets, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, datasets, id1)
		assert.Contains(t, datasets, id2)
		assert.IsNonDecreasing(t, datasets)
	})
}

func sampleNetwork() *domain.Network {
	return &domain.Network{
		Ports: []domain.PortMetrics{
			{
				PortID: "esp-valencia", PortName: "VALENCIA", PortFlag: "ESP",
				PortLat: 39.44, PortLon: -0.32, Visits: 3, VesselsUnique: 2,
				TotalDurationHrs: 12.5, AvgDistanceShoreKm: 0.75,
				InStrength: 1, OutStrength: 2, TotalStrength: 3,
			},
			{
				PortID: "ita-genova", PortName: "GENOVA", PortFlag: "ITA",
				PortLat: 44.4, PortLon: 8.93, Visits: 1, VesselsUnique: 1,
				InStrength: 2, OutStrength: 1, TotalStrength: 3,
			},
		},
		Edges: []domain.Edge{
			{
				PortIDFrom: "esp-valencia", PortIDTo: "ita-genova", Trips: 2, VesselsUnique: 2,
				FromName: "VALENCIA", FromLat: 39.44, FromLon: -0.32,
				ToName: "GENOVA", ToLat: 44.4, ToLon: 8.93, MedianDeltaHours: 36,
			},
			{
				PortIDFrom: "ita-genova", PortIDTo: "esp-valencia", Trips: 1, VesselsUnique: 1,
				FromName: "GENOVA", FromLat: 44.4, FromLon: 8.93,
				ToName: "VALENCIA", ToLat: 39.44, ToLon: -0.32, MedianDeltaHours: 40.5,
			},
		},
		Stats: domain.BuildStats{RecordsRead: 5, EventsKept: 4, RecordsDropped: 1, Transitions: 3, Ports: 2, Edges: 2},
	}
}
