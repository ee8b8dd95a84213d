package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/portnet/internal/presentation/views"
	"github.com/aretw0/portnet/pkg/domain"
)

// GraphOverlay marks ports to highlight on the diagram.
type GraphOverlay struct {
	Hubs     []string
	Selected string
}

// GenerateMermaid produces a Mermaid flowchart of routes.
// Only ports touched by a route are drawn. It applies semantic styling:
// - Hub (listed in overlay.Hubs): ((Circle))
// - Default: [Rectangle]
// Routes with a line width of 3 or more are drawn as thick links (==>), and every
// link is labelled with its trip count.
func GenerateMermaid(routes []views.Route, ports []domain.PortMetrics, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	hubs := make(map[string]bool)
	if overlay != nil {
		for _, id := range overlay.Hubs {
			hubs[id] = true
		}
	}

	for _, p := range views.RoutePorts(routes, ports) {
		safeID := sanitizeMermaidID(p.PortID)

		opener, closer := "[", "]"
		if hubs[p.PortID] {
			opener, closer = "((", "))" // Circle
		}

		name := p.PortName
		if name == "" {
			name = p.PortID
		}
		// Escape double quotes for the Mermaid label
		name = strings.ReplaceAll(name, "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, name, closer))
	}

	for _, r := range routes {
		arrow := "-->"
		if r.Width >= 3 {
			arrow = "==>"
		}
		sb.WriteString(fmt.Sprintf("    %s %s|%d| %s\n",
			sanitizeMermaidID(r.PortIDFrom), arrow, r.Trips, sanitizeMermaidID(r.PortIDTo)))
	}

	if overlay != nil && (len(overlay.Hubs) > 0 || overlay.Selected != "") {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on light and dark themes
		sb.WriteString("    classDef hub fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Hubs {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s hub;\n", safeID))
			}
		}
		if overlay.Selected != "" {
			sb.WriteString(fmt.Sprintf("    class %s selected;\n", sanitizeMermaidID(overlay.Selected)))
		}
	}

	return sb.String()
}

// sanitizeMermaidID keeps letters, digits and underscores; everything else becomes "_".
// Ids starting with a digit get a "p_" prefix.
func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	s := sb.String()
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "p_" + s
	}
	return s
}
