package domain

// Column names of the flat input record schema.
// They double as mapstructure/JSON keys for raw records.
const (
	KeyEventID             = "event_id"
	KeyType                = "type"
	KeyStart               = "start"
	KeyEnd                 = "end"
	KeyLat                 = "lat"
	KeyLon                 = "lon"
	KeyVesselID            = "vessel_id"
	KeySSVID               = "ssvid"
	KeyVesselName          = "vessel_name"
	KeyConfidence          = "confidence"
	KeyDurationHrs         = "durationHrs"
	KeyPortID              = "port_id"
	KeyPortName            = "port_name"
	KeyPortFlag            = "port_flag"
	KeyPortLat             = "port_lat"
	KeyPortLon             = "port_lon"
	KeyAtDock              = "atDock"
	KeyDistanceFromShoreKm = "distanceFromShoreKm"
)

// RecordColumns lists the input columns in their canonical order.
var RecordColumns = []string{
	KeyEventID, KeyType, KeyStart, KeyEnd, KeyLat, KeyLon,
	KeyVesselID, KeySSVID, KeyVesselName, KeyConfidence, KeyDurationHrs,
	KeyPortID, KeyPortName, KeyPortFlag, KeyPortLat, KeyPortLon,
	KeyAtDock, KeyDistanceFromShoreKm,
}

// PortColumns lists the columns of the port metrics table in output order.
var PortColumns = []string{
	"port_id", "port_name", "port_flag", "port_lat", "port_lon",
	"visits", "vessels_unique", "total_duration_hrs", "avg_distance_shore_km",
	"in_strength", "out_strength", "total_strength",
}

// EdgeColumns lists the columns of the edge table in output order.
var EdgeColumns = []string{
	"port_id_from", "port_id_to", "trips", "vessels_unique",
	"from_name", "from_lat", "from_lon", "to_name", "to_lat", "to_lon",
	"median_delta_hours",
}

// EventTypePortVisit is the only event type the network is built from.
const EventTypePortVisit = "port_visit"
