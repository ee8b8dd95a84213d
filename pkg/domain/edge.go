package domain

// Edge is one row of the edge table: a directed port pair with at least one trip.
// (A,B) and (B,A) are distinct edges with independent counts.
type Edge struct {
	PortIDFrom       string  `json:"port_id_from"`
	PortIDTo         string  `json:"port_id_to"`
	Trips            int     `json:"trips"`
	VesselsUnique    int     `json:"vessels_unique"`
	FromName         string  `json:"from_name"`
	FromLat          float64 `json:"from_lat"`
	FromLon          float64 `json:"from_lon"`
	ToName           string  `json:"to_name"`
	ToLat            float64 `json:"to_lat"`
	ToLon            float64 `json:"to_lon"`
	MedianDeltaHours float64 `json:"median_delta_hours"`
}
