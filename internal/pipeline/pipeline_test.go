package pipeline_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/portnet/internal/pipeline"
	"github.com/aretw0/portnet/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mixedTraffic() []domain.PortVisitEvent {
	return []domain.PortVisitEvent{
		visit("v1", "A", 0), visit("v1", "A", 1), visit("v1", "B", 2), visit("v1", "C", 5),
		visit("v2", "C", 3), visit("v2", "B", 1), visit("v2", "A", 9),
		visit("v3", "A", 4), visit("v3", "B", 4), visit("v3", "B", 6),
		visit("v4", "D", 0),
	}
}

func TestBuild_TransitionsAreOrderedAndNeverSelfLoops(t *testing.T) {
	events := mixedTraffic()
	transitions, err := pipeline.ExtractTransitions(context.Background(), events, 1)
	require.NoError(t, err)

	for _, tr := range transitions {
		assert.NotEqual(t, tr.FromPortID, tr.ToPortID)
		assert.False(t, tr.FromEvent.Start.After(tr.ToEvent.Start), "%s: %s -> %s goes back in time", tr.VesselID, tr.FromPortID, tr.ToPortID)
	}

	network, err := pipeline.Build(context.Background(), events)
	require.NoError(t, err)

	var trips int
	for _, e := range network.Edges {
		trips += e.Trips
	}
	assert.Equal(t, len(transitions), trips, "every transition counts as exactly one trip")
	assert.Equal(t, len(transitions), network.Stats.Transitions)
}

func TestBuild_StrengthMatchesEdges(t *testing.T) {
	network, err := pipeline.Build(context.Background(), mixedTraffic())
	require.NoError(t, err)

	for _, p := range network.Ports {
		var in, out int
		for _, e := range network.Edges {
			if e.PortIDTo == p.PortID {
				in += e.Trips
			}
			if e.PortIDFrom == p.PortID {
				out += e.Trips
			}
		}
		assert.Equal(t, float64(in), p.InStrength, p.PortID)
		assert.Equal(t, float64(out), p.OutStrength, p.PortID)
		assert.Equal(t, p.InStrength+p.OutStrength, p.TotalStrength, p.PortID)
	}

	d, ok := network.Port("D")
	require.True(t, ok, "isolated ports are kept")
	assert.Zero(t, d.TotalStrength)
}

func TestBuild_Scenarios(t *testing.T) {
	t.Run("Repeat visit collapses", func(t *testing.T) {
		network, err := pipeline.Build(context.Background(), []domain.PortVisitEvent{
			visit("v", "A", 0), visit("v", "A", 1), visit("v", "B", 2),
		})
		require.NoError(t, err)
		require.Len(t, network.Edges, 1)
		assert.Equal(t, "A", network.Edges[0].PortIDFrom)
		assert.Equal(t, "B", network.Edges[0].PortIDTo)
		assert.Equal(t, 1, network.Edges[0].Trips)
	})

	t.Run("Two vessels on one route", func(t *testing.T) {
		network, err := pipeline.Build(context.Background(), []domain.PortVisitEvent{
			visit("v1", "A", 0), visit("v1", "B", 2),
			visit("v2", "A", 1), visit("v2", "B", 3),
		})
		require.NoError(t, err)
		require.Len(t, network.Edges, 1)
		assert.Equal(t, 2, network.Edges[0].Trips)
		assert.Equal(t, 2, network.Edges[0].VesselsUnique)
	})

	t.Run("Malformed numerics keep rows", func(t *testing.T) {
		records := []domain.RawRecord{
			record("e1", "v1", "A", "2024-07-01T00:00:00Z"),
			record("e2", "v1", "B", "2024-07-02T00:00:00Z"),
		}
		records[0][domain.KeyDurationHrs] = "n/a"
		records[1][domain.KeyDurationHrs] = 4.0

		network, err := pipeline.New().BuildRecords(context.Background(), records)
		require.NoError(t, err)
		require.Len(t, network.Ports, 2)
		assert.Zero(t, network.Ports[0].TotalDurationHrs)
		assert.Equal(t, 4.0, network.Ports[1].TotalDurationHrs)
		assert.Zero(t, network.Stats.RecordsDropped)
	})

	t.Run("Missing shore distance is left out of the mean", func(t *testing.T) {
		records := []domain.RawRecord{
			record("e1", "v1", "A", "2024-07-01T00:00:00Z"),
			record("e2", "v2", "A", "2024-07-02T00:00:00Z"),
		}
		records[0][domain.KeyDistanceFromShoreKm] = "n/a"
		records[0][domain.KeyDurationHrs] = 1.0
		records[1][domain.KeyDistanceFromShoreKm] = 3.0
		records[1][domain.KeyDurationHrs] = 1.5

		network, err := pipeline.New().BuildRecords(context.Background(), records)
		require.NoError(t, err)
		require.Len(t, network.Ports, 1)
		a := network.Ports[0]
		assert.Equal(t, 2, a.Visits)
		assert.InDelta(t, 3.0, a.AvgDistanceShoreKm, 1e-9)
		assert.InDelta(t, 2.5, a.TotalDurationHrs, 1e-9)
		assert.Empty(t, network.Edges)
		assert.Zero(t, network.Stats.RecordsDropped)
	})
}

func TestBuild_Idempotent(t *testing.T) {
	clock := pipeline.WithClock(func() time.Time { return t0 })

	encode := func(n *domain.Network) string {
		b, err := json.Marshal(struct {
			Ports []domain.PortMetrics
			Edges []domain.Edge
		}{n.Ports, n.Edges})
		require.NoError(t, err)
		return string(b)
	}

	first, err := pipeline.New(clock).Build(context.Background(), mixedTraffic())
	require.NoError(t, err)
	want := encode(first)

	for _, workers := range []int{1, 3, 8} {
		again, err := pipeline.New(clock, pipeline.WithWorkers(workers)).Build(context.Background(), mixedTraffic())
		require.NoError(t, err)
		assert.Equal(t, want, encode(again), "workers=%d", workers)
	}
}

func TestBuild_NoEvents(t *testing.T) {
	_, err := pipeline.Build(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNoEvents)

	_, err = pipeline.New().BuildRecords(context.Background(), []domain.RawRecord{
		record("e1", "", "A", "2024-07-01T00:00:00Z"),
	})
	assert.ErrorIs(t, err, domain.ErrNoEvents, "dropping every record is the same as having none")
}

func TestBuild_CancelledBetweenStages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.Build(ctx, mixedTraffic())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_LifecycleHooks(t *testing.T) {
	var mu sync.Mutex
	var started, ended []domain.Stage
	var dropped []string

	hooks := domain.LifecycleHooks{
		OnStageStart: func(_ context.Context, e *domain.StageEvent) {
			mu.Lock()
			defer mu.Unlock()
			started = append(started, e.Stage)
		},
		OnStageEnd: func(_ context.Context, e *domain.StageEvent) {
			mu.Lock()
			defer mu.Unlock()
			ended = append(ended, e.Stage)
		},
		OnRecordDropped: func(_ context.Context, e *domain.DropEvent) {
			dropped = append(dropped, e.Reason)
		},
	}

	records := []domain.RawRecord{
		record("e1", "v1", "A", "2024-07-01T00:00:00Z"),
		record("e2", "v1", "B", "2024-07-02T00:00:00Z"),
		record("e3", "v1", "", "2024-07-03T00:00:00Z"),
	}

	network, err := pipeline.New(pipeline.WithLifecycleHooks(hooks)).BuildRecords(context.Background(), records)
	require.NoError(t, err)

	all := []domain.Stage{domain.StageClean, domain.StagePortMetrics, domain.StageSequence, domain.StageEdges, domain.StageStrength}
	assert.Equal(t, all, started)
	assert.Equal(t, all, ended)
	assert.Equal(t, []string{pipeline.ReasonMissingPortID}, dropped)

	assert.Equal(t, 3, network.Stats.RecordsRead)
	assert.Equal(t, 2, network.Stats.EventsKept)
	assert.Equal(t, 1, network.Stats.RecordsDropped)
	assert.Equal(t, map[string]int{pipeline.ReasonMissingPortID: 1}, network.Stats.DropReasons)
}
