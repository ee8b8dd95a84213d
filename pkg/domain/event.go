package domain

import "time"

// PortVisitEvent is one vessel's recorded stay at a port anchorage.
// Every event produced by the cleaner has a non-zero Start and non-empty VesselID and
// PortID, plus finite port coordinates. Events are values and are never mutated after
// cleaning.
type PortVisitEvent struct {
	EventID    string     `json:"event_id"`
	Type       string     `json:"type,omitempty"`
	Start      time.Time  `json:"start"`
	End        *time.Time `json:"end,omitempty"`
	Lat        *float64   `json:"lat,omitempty"`
	Lon        *float64   `json:"lon,omitempty"`
	VesselID   string     `json:"vessel_id"`
	SSVID      string     `json:"ssvid,omitempty"`
	VesselName string     `json:"vessel_name,omitempty"`
	Confidence string     `json:"confidence,omitempty"`

	PortID   string  `json:"port_id"`
	PortName string  `json:"port_name"`
	PortFlag string  `json:"port_flag"`
	PortLat  float64 `json:"port_lat"`
	PortLon  float64 `json:"port_lon"`
	AtDock   *bool   `json:"atDock,omitempty"`

	// DurationHours and DistanceFromShoreKm are nil when the source value was absent
	// or could not be read as a number.
	DurationHours       *float64 `json:"durationHrs,omitempty"`
	DistanceFromShoreKm *float64 `json:"distanceFromShoreKm,omitempty"`
}
