package domain

// PortCallTransition is one leg of a vessel itinerary: two temporally adjacent visits
// by the same vessel at different ports.
// FromEvent.Start is never after ToEvent.Start and FromPortID never equals ToPortID.
type PortCallTransition struct {
	VesselID   string
	FromPortID string
	ToPortID   string
	FromEvent  PortVisitEvent
	ToEvent    PortVisitEvent
}

// DeltaHours is the elapsed time between the two port call starts, in hours.
func (t PortCallTransition) DeltaHours() float64 {
	return t.ToEvent.Start.Sub(t.FromEvent.Start).Hours()
}
