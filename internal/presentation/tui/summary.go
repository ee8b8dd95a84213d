package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/portnet/internal/presentation/views"
	"github.com/aretw0/portnet/pkg/domain"
)

// Summary renders a Markdown report of a built network: build stats, the top hubs by
// total strength and the top routes by trips.
func Summary(dataset string, network *domain.Network, top int) string {
	var sb strings.Builder
	s := network.Stats

	fmt.Fprintf(&sb, "# Port network: %s\n\n", dataset)
	fmt.Fprintf(&sb, "| Records read | Events kept | Dropped | Transitions | Ports | Edges |\n")
	fmt.Fprintf(&sb, "|---:|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&sb, "| %d | %d | %d | %d | %d | %d |\n\n",
		s.RecordsRead, s.EventsKept, s.RecordsDropped, s.Transitions, len(network.Ports), len(network.Edges))

	if len(s.DropReasons) > 0 {
		reasons := make([]string, 0, len(s.DropReasons))
		for r := range s.DropReasons {
			reasons = append(reasons, r)
		}
		sort.Strings(reasons)
		sb.WriteString("Dropped records by reason:\n\n")
		for _, r := range reasons {
			fmt.Fprintf(&sb, "- `%s`: %d\n", r, s.DropReasons[r])
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "## Top %d hubs\n\n", top)
	sb.WriteString("| Port | Flag | Visits | Vessels | In | Out | Total |\n")
	sb.WriteString("|---|---|---:|---:|---:|---:|---:|\n")
	for _, h := range views.TopHubs(network.Ports, views.MetricTotalStrength, top) {
		fmt.Fprintf(&sb, "| %s | %s | %d | %d | %g | %g | %g |\n",
			cell(h.PortName, h.PortID), h.PortFlag, h.Visits, h.VesselsUnique, h.InStrength, h.OutStrength, h.TotalStrength)
	}

	fmt.Fprintf(&sb, "\n## Top %d routes\n\n", top)
	sb.WriteString("| From | To | Trips | Vessels | Median Δ hours |\n")
	sb.WriteString("|---|---|---:|---:|---:|\n")
	for _, r := range views.TopRoutes(network.Edges, views.RankTrips, top) {
		fmt.Fprintf(&sb, "| %s | %s | %d | %d | %.1f |\n",
			cell(r.FromName, r.PortIDFrom), cell(r.ToName, r.PortIDTo), r.Trips, r.VesselsUnique, r.MedianDeltaHours)
	}
	return sb.String()
}

func cell(name, id string) string {
	if name == "" {
		name = id
	}
	return strings.ReplaceAll(name, "|", "\\|")
}
