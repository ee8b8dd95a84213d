package pipeline

import "github.com/aretw0/portnet/pkg/domain"

// ComputeStrength returns a copy of ports with weighted in, out and total degree
// strength filled from edges, each edge weighted by its trip count.
// Ports without edges keep zero strengths.
func ComputeStrength(ports []domain.PortMetrics, edges []domain.Edge) []domain.PortMetrics {
	in := make(map[string]float64)
	out := make(map[string]float64)
	for _, e := range edges {
		out[e.PortIDFrom] += float64(e.Trips)
		in[e.PortIDTo] += float64(e.Trips)
	}

	rows := make([]domain.PortMetrics, len(ports))
	for i, p := range ports {
		p.InStrength = in[p.PortID]
		p.OutStrength = out[p.PortID]
		p.TotalStrength = p.InStrength + p.OutStrength
		rows[i] = p
	}
	return rows
}
