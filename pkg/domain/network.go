package domain

import "time"

// Network holds the two output tables of a build.
type Network struct {
	Ports []PortMetrics `json:"ports"`
	Edges []Edge        `json:"edges"`
	Stats BuildStats    `json:"stats"`
}

// BuildStats summarizes one build. It is metadata and is not part of the tables.
type BuildStats struct {
	RecordsRead    int            `json:"records_read"`
	EventsKept     int            `json:"events_kept"`
	RecordsDropped int            `json:"records_dropped"`
	DropReasons    map[string]int `json:"drop_reasons,omitempty"`
	Transitions    int            `json:"transitions"`
	Ports          int            `json:"ports"`
	Edges          int            `json:"edges"`
	BuiltAt        time.Time      `json:"built_at"`
}

// Port returns the metrics row for portID.
func (n *Network) Port(portID string) (PortMetrics, bool) {
	for _, p := range n.Ports {
		if p.PortID == portID {
			return p, true
		}
	}
	return PortMetrics{}, false
}

// Clone returns a deep copy of the network.
func (n *Network) Clone() *Network {
	c := &Network{
		Ports: append([]PortMetrics(nil), n.Ports...),
		Edges: append([]Edge(nil), n.Edges...),
		Stats: n.Stats,
	}
	if n.Stats.DropReasons != nil {
		c.Stats.DropReasons = make(map[string]int, len(n.Stats.DropReasons))
		for k, v := range n.Stats.DropReasons {
			c.Stats.DropReasons[k] = v
		}
	}
	return c
}
