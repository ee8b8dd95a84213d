package pipeline

import (
	"sort"

	"github.com/aretw0/portnet/pkg/domain"
)

type portAccumulator struct {
	row         domain.PortMetrics
	vessels     map[string]struct{}
	distanceSum float64
	distanceN   int
}

// AggregatePorts computes one metrics row per distinct port, ordered by port id.
//
// Name, flag and coordinates are copied from the first event of each port in the order
// of events. Missing durations contribute zero to the total; the shore distance average
// only counts events that carry a value.
func AggregatePorts(events []domain.PortVisitEvent) []domain.PortMetrics {
	acc := make(map[string]*portAccumulator)

	for _, ev := range events {
		a, ok := acc[ev.PortID]
		if !ok {
			a = &portAccumulator{
				row: domain.PortMetrics{
					PortID:   ev.PortID,
					PortName: ev.PortName,
					PortFlag: ev.PortFlag,
					PortLat:  ev.PortLat,
					PortLon:  ev.PortLon,
				},
				vessels: make(map[string]struct{}),
			}
			acc[ev.PortID] = a
		}

		a.row.Visits++
		a.vessels[ev.VesselID] = struct{}{}
		if ev.DurationHours != nil {
			a.row.TotalDurationHrs += *ev.DurationHours
		}
		if ev.DistanceFromShoreKm != nil {
			a.distanceSum += *ev.DistanceFromShoreKm
			a.distanceN++
		}
	}

	rows := make([]domain.PortMetrics, 0, len(acc))
	for _, a := range acc {
		a.row.VesselsUnique = len(a.vessels)
		if a.distanceN > 0 {
			a.row.AvgDistanceShoreKm = a.distanceSum / float64(a.distanceN)
		}
		rows = append(rows, a.row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].PortID < rows[j].PortID })
	return rows
}
