package domain

// PortMetrics is one row of the port table.
// Name, flag and coordinates come from the first event seen for the port in input order.
type PortMetrics struct {
	PortID             string  `json:"port_id"`
	PortName           string  `json:"port_name"`
	PortFlag           string  `json:"port_flag"`
	PortLat            float64 `json:"port_lat"`
	PortLon            float64 `json:"port_lon"`
	Visits             int     `json:"visits"`
	VesselsUnique      int     `json:"vessels_unique"`
	TotalDurationHrs   float64 `json:"total_duration_hrs"`
	AvgDistanceShoreKm float64 `json:"avg_distance_shore_km"`
	InStrength         float64 `json:"in_strength"`
	OutStrength        float64 `json:"out_strength"`
	TotalStrength      float64 `json:"total_strength"`
}
