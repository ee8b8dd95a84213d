package gfw

import (
	"fmt"

	"github.com/aretw0/portnet/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Fields are kept as `any` so values reach the record untouched and missing ones stay nil.
type entry struct {
	ID        any        `mapstructure:"id"`
	Type      any        `mapstructure:"type"`
	Start     any        `mapstructure:"start"`
	End       any        `mapstructure:"end"`
	Position  *position  `mapstructure:"position"`
	Vessel    *vessel    `mapstructure:"vessel"`
	PortVisit *portVisit `mapstructure:"port_visit"`
}

type position struct {
	Lat any `mapstructure:"lat"`
	Lon any `mapstructure:"lon"`
}

type vessel struct {
	ID    any `mapstructure:"id"`
	SSVID any `mapstructure:"ssvid"`
	Name  any `mapstructure:"name"`
}

type portVisit struct {
	Confidence            any        `mapstructure:"confidence"`
	DurationHrs           any        `mapstructure:"durationHrs"`
	StartAnchorage        *anchorage `mapstructure:"startAnchorage"`
	IntermediateAnchorage *anchorage `mapstructure:"intermediateAnchorage"`
}

type anchorage struct {
	ID                  any `mapstructure:"id"`
	Name                any `mapstructure:"name"`
	Flag                any `mapstructure:"flag"`
	Lat                 any `mapstructure:"lat"`
	Lon                 any `mapstructure:"lon"`
	AtDock              any `mapstructure:"atDock"`
	DistanceFromShoreKm any `mapstructure:"distanceFromShoreKm"`
}

// Flatten converts API entries into flat raw records, one per entry, in order.
func Flatten(entries []map[string]any) ([]domain.RawRecord, error) {
	records := make([]domain.RawRecord, 0, len(entries))
	for i, raw := range entries {
		var e entry
		if err := mapstructure.Decode(raw, &e); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		records = append(records, e.record())
	}
	return records, nil
}

func (e entry) record() domain.RawRecord {
	pos := e.Position
	if pos == nil {
		pos = &position{}
	}
	v := e.Vessel
	if v == nil {
		v = &vessel{}
	}
	pv := e.PortVisit
	if pv == nil {
		pv = &portVisit{}
	}
	anch := pv.IntermediateAnchorage
	if anch == nil {
		anch = pv.StartAnchorage
	}
	if anch == nil {
		anch = &anchorage{}
	}

	return domain.RawRecord{
		domain.KeyEventID:             e.ID,
		domain.KeyType:                e.Type,
		domain.KeyStart:               e.Start,
		domain.KeyEnd:                 e.End,
		domain.KeyLat:                 pos.Lat,
		domain.KeyLon:                 pos.Lon,
		domain.KeyVesselID:            v.ID,
		domain.KeySSVID:               v.SSVID,
		domain.KeyVesselName:          v.Name,
		domain.KeyConfidence:          pv.Confidence,
		domain.KeyDurationHrs:         pv.DurationHrs,
		domain.KeyPortID:              anch.ID,
		domain.KeyPortName:            anch.Name,
		domain.KeyPortFlag:            anch.Flag,
		domain.KeyPortLat:             anch.Lat,
		domain.KeyPortLon:             anch.Lon,
		domain.KeyAtDock:              anch.AtDock,
		domain.KeyDistanceFromShoreKm: anch.DistanceFromShoreKm,
	}
}
