package views

import (
	"fmt"
	"math"
	"sort"

	"github.com/aretw0/portnet/pkg/domain"
)

// RouteRank selects the edge column routes are ranked by.
type RouteRank string

const (
	RankTrips         RouteRank = "trips"
	RankVesselsUnique RouteRank = "vessels_unique"
)

// Bounds of the route count a caller may ask for.
const (
	DefaultTopRoutes = 200
	MinTopRoutes     = 50
	MaxTopRoutes     = 500
)

// ParseRouteRank validates a ranking name. Empty means trips.
func ParseRouteRank(s string) (RouteRank, error) {
	switch RouteRank(s) {
	case "", RankTrips:
		return RankTrips, nil
	case RankVesselsUnique:
		return RankVesselsUnique, nil
	default:
		return "", fmt.Errorf("unknown route ranking %q", s)
	}
}

// ClampTopRoutes maps a requested route count into [MinTopRoutes, MaxTopRoutes].
// Zero means DefaultTopRoutes.
func ClampTopRoutes(n int) int {
	switch {
	case n == 0:
		return DefaultTopRoutes
	case n < MinTopRoutes:
		return MinTopRoutes
	case n > MaxTopRoutes:
		return MaxTopRoutes
	}
	return n
}

// Route is an edge ranked for the route map.
type Route struct {
	domain.Edge
	Value float64 `json:"value"`
	// Width is the line width: sqrt(Value)/3, clamped to [1, 6].
	Width float64 `json:"width"`
}

// TopRoutes ranks edges by rank, highest first, ties by (from, to).
// n <= 0 returns every edge.
func TopRoutes(edges []domain.Edge, rank RouteRank, n int) []Route {
	routes := make([]Route, 0, len(edges))
	for _, e := range edges {
		v := float64(e.Trips)
		if rank == RankVesselsUnique {
			v = float64(e.VesselsUnique)
		}
		routes = append(routes, Route{Edge: e, Value: v, Width: math.Max(1, math.Min(6, math.Sqrt(v)/3))})
	}
	sort.SliceStable(routes, func(i, j int) bool {
		a, b := routes[i], routes[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		if a.PortIDFrom != b.PortIDFrom {
			return a.PortIDFrom < b.PortIDFrom
		}
		return a.PortIDTo < b.PortIDTo
	})
	if n > 0 && n < len(routes) {
		routes = routes[:n]
	}
	return routes
}

// RoutePorts returns the ports touched by routes, in port table order.
func RoutePorts(routes []Route, ports []domain.PortMetrics) []domain.PortMetrics {
	used := make(map[string]bool, len(routes)*2)
	for _, r := range routes {
		used[r.PortIDFrom] = true
		used[r.PortIDTo] = true
	}
	var out []domain.PortMetrics
	for _, p := range ports {
		if used[p.PortID] {
			out = append(out, p)
		}
	}
	return out
}
