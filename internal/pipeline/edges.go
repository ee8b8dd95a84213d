package pipeline

import (
	"fmt"
	"sort"

	"github.com/aretw0/portnet/pkg/domain"
)

type edgeKey struct {
	from, to string
}

type edgeAccumulator struct {
	trips   int
	vessels map[string]struct{}
	deltas  []float64
}

// AggregateEdges groups transitions into directed weighted edges ordered by
// (from, to). Endpoint names and coordinates are joined from ports.
//
// An edge whose endpoint has no port row means the upstream stages broke their own
// invariant; it is reported as domain.ErrInconsistentJoin instead of being skipped.
func AggregateEdges(transitions []domain.PortCallTransition, ports []domain.PortMetrics) ([]domain.Edge, error) {
	acc := make(map[edgeKey]*edgeAccumulator)
	for _, tr := range transitions {
		k := edgeKey{tr.FromPortID, tr.ToPortID}
		a, ok := acc[k]
		if !ok {
			a = &edgeAccumulator{vessels: make(map[string]struct{})}
			acc[k] = a
		}
		a.trips++
		a.vessels[tr.VesselID] = struct{}{}
		a.deltas = append(a.deltas, tr.DeltaHours())
	}

	byID := make(map[string]domain.PortMetrics, len(ports))
	for _, p := range ports {
		byID[p.PortID] = p
	}

	keys := make([]edgeKey, 0, len(acc))
	for k := range acc {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].from != keys[j].from {
			return keys[i].from < keys[j].from
		}
		return keys[i].to < keys[j].to
	})

	edges := make([]domain.Edge, 0, len(keys))
	for _, k := range keys {
		from, ok := byID[k.from]
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: origin %q: %w", k.from, k.to, k.from, domain.ErrInconsistentJoin)
		}
		to, ok := byID[k.to]
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: destination %q: %w", k.from, k.to, k.to, domain.ErrInconsistentJoin)
		}

		a := acc[k]
		edges = append(edges, domain.Edge{
			PortIDFrom:       k.from,
			PortIDTo:         k.to,
			Trips:            a.trips,
			VesselsUnique:    len(a.vessels),
			FromName:         from.PortName,
			FromLat:          from.PortLat,
			FromLon:          from.PortLon,
			ToName:           to.PortName,
			ToLat:            to.PortLat,
			ToLon:            to.PortLon,
			MedianDeltaHours: median(a.deltas),
		})
	}
	return edges, nil
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}
