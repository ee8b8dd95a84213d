package pipeline_test

import (
	"fmt"
	"time"

	"github.com/aretw0/portnet/pkg/domain"
)

var t0 = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func visit(vessel, port string, hours int) domain.PortVisitEvent {
	return domain.PortVisitEvent{
		EventID:  fmt.Sprintf("%s-%s-%d", vessel, port, hours),
		VesselID: vessel,
		PortID:   port,
		PortName: "PORT " + port,
		PortFlag: "ESP",
		PortLat:  float64(len(port)),
		PortLon:  -float64(len(port)),
		Start:    t0.Add(time.Duration(hours) * time.Hour),
	}
}

func record(id, vessel, port, start string) domain.RawRecord {
	return domain.RawRecord{
		domain.KeyEventID:  id,
		domain.KeyType:     domain.EventTypePortVisit,
		domain.KeyStart:    start,
		domain.KeyVesselID: vessel,
		domain.KeyPortID:   port,
		domain.KeyPortName: "PORT " + port,
		domain.KeyPortLat:  41.0,
		domain.KeyPortLon:  2.0,
	}
}

func f64(v float64) *float64 { return &v }
