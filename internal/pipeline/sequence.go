package pipeline

import (
	"context"
	"sort"

	"github.com/aretw0/portnet/pkg/domain"
	"golang.org/x/sync/errgroup"
)

// GroupByVessel splits events per vessel, keeping input order inside each group.
// It returns the groups together with the vessel ids in ascending order.
func GroupByVessel(events []domain.PortVisitEvent) (map[string][]domain.PortVisitEvent, []string) {
	groups := make(map[string][]domain.PortVisitEvent)
	for _, ev := range events {
		groups[ev.VesselID] = append(groups[ev.VesselID], ev)
	}
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return groups, ids
}

// VesselTransitions derives the port call transitions of a single vessel.
// Visits are stable-sorted by start, so visits with equal start keep their given order.
// Consecutive visits to the same port collapse into one call.
func VesselTransitions(vesselID string, visits []domain.PortVisitEvent) []domain.PortCallTransition {
	if len(visits) < 2 {
		return nil
	}

	ordered := make([]domain.PortVisitEvent, len(visits))
	copy(ordered, visits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start.Before(ordered[j].Start)
	})

	var out []domain.PortCallTransition
	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		if prev.PortID == cur.PortID {
			continue
		}
		out = append(out, domain.PortCallTransition{
			VesselID:   vesselID,
			FromPortID: prev.PortID,
			ToPortID:   cur.PortID,
			FromEvent:  prev,
			ToEvent:    cur,
		})
	}
	return out
}

// ExtractTransitions computes the transitions of every vessel, ordered by vessel id and
// then by itinerary. With workers > 1 vessels are processed concurrently; each worker
// writes to its own slot so the merged result does not depend on scheduling.
func ExtractTransitions(ctx context.Context, events []domain.PortVisitEvent, workers int) ([]domain.PortCallTransition, error) {
	groups, ids := GroupByVessel(events)
	perVessel := make([][]domain.PortCallTransition, len(ids))

	if workers <= 1 {
		for i, id := range ids {
			perVessel[i] = VesselTransitions(id, groups[id])
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i, id := range ids {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				perVessel[i] = VesselTransitions(id, groups[id])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	var total int
	for _, ts := range perVessel {
		total += len(ts)
	}
	out := make([]domain.PortCallTransition, 0, total)
	for _, ts := range perVessel {
		out = append(out, ts...)
	}
	return out, nil
}
