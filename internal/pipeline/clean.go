package pipeline

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/portnet/pkg/domain"
	"github.com/spf13/cast"
)

// Drop reasons reported for records that fail the cleaning predicate.
const (
	ReasonMissingStart    = "missing_start"
	ReasonInvalidStart    = "invalid_start"
	ReasonMissingVesselID = "missing_vessel_id"
	ReasonMissingPortID   = "missing_port_id"
	ReasonMissingPortLat  = "missing_port_lat"
	ReasonMissingPortLon  = "missing_port_lon"
)

// CleanReport summarizes a cleaning pass.
type CleanReport struct {
	Read    int
	Kept    int
	Dropped int
	Reasons map[string]int
}

// Clean converts raw records into port visit events, preserving input order.
// A record without a usable start, vessel_id, port_id, port_lat or port_lon is dropped
// and reported in the returned drop list. Unreadable optional fields become nil.
//
// The predicate applies to every record regardless of its type column.
func Clean(records []domain.RawRecord) ([]domain.PortVisitEvent, []domain.DropEvent) {
	events := make([]domain.PortVisitEvent, 0, len(records))
	var drops []domain.DropEvent

	for i, rec := range records {
		ev, reason := cleanRecord(rec)
		if reason != "" {
			id, _ := toText(rec.Get(domain.KeyEventID))
			drops = append(drops, domain.DropEvent{Index: i, EventID: id, Reason: reason})
			continue
		}
		events = append(events, ev)
	}
	return events, drops
}

// Summarize builds a CleanReport from the outcome of Clean.
func Summarize(read int, drops []domain.DropEvent) CleanReport {
	r := CleanReport{Read: read, Dropped: len(drops), Kept: read - len(drops), Reasons: map[string]int{}}
	for _, d := range drops {
		r.Reasons[d.Reason]++
	}
	return r
}

func cleanRecord(rec domain.RawRecord) (domain.PortVisitEvent, string) {
	var ev domain.PortVisitEvent

	rawStart := rec.Get(domain.KeyStart)
	if isBlank(rawStart) {
		return ev, ReasonMissingStart
	}
	start, ok := toTime(rawStart)
	if !ok {
		return ev, ReasonInvalidStart
	}
	ev.Start = start

	if ev.VesselID, ok = toText(rec.Get(domain.KeyVesselID)); !ok {
		return ev, ReasonMissingVesselID
	}
	if ev.PortID, ok = toText(rec.Get(domain.KeyPortID)); !ok {
		return ev, ReasonMissingPortID
	}

	lat := toNumber(rec.Get(domain.KeyPortLat))
	if lat == nil {
		return ev, ReasonMissingPortLat
	}
	lon := toNumber(rec.Get(domain.KeyPortLon))
	if lon == nil {
		return ev, ReasonMissingPortLon
	}
	ev.PortLat, ev.PortLon = *lat, *lon

	ev.EventID, _ = toText(rec.Get(domain.KeyEventID))
	ev.Type, _ = toText(rec.Get(domain.KeyType))
	ev.SSVID, _ = toText(rec.Get(domain.KeySSVID))
	ev.VesselName, _ = toText(rec.Get(domain.KeyVesselName))
	ev.Confidence, _ = toText(rec.Get(domain.KeyConfidence))
	ev.PortName, _ = toText(rec.Get(domain.KeyPortName))
	ev.PortFlag, _ = toText(rec.Get(domain.KeyPortFlag))

	if end, ok := toTime(rec.Get(domain.KeyEnd)); ok {
		ev.End = &end
	}
	ev.Lat = toNumber(rec.Get(domain.KeyLat))
	ev.Lon = toNumber(rec.Get(domain.KeyLon))
	ev.DurationHours = toNumber(rec.Get(domain.KeyDurationHrs))
	ev.DistanceFromShoreKm = toNumber(rec.Get(domain.KeyDistanceFromShoreKm))

	if v := rec.Get(domain.KeyAtDock); !isBlank(v) {
		if b, err := cast.ToBoolE(v); err == nil {
			ev.AtDock = &b
		}
	}

	return ev, ""
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// toText renders identifiers as strings. Floats are written without exponent so a
// numeric id read back from CSV or JSON keeps its original digits.
func toText(v any) (string, bool) {
	if isBlank(v) {
		return "", false
	}
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case json.Number:
		return x.String(), true
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// toNumber returns nil for absent, unparseable and non-finite values.
func toNumber(v any) *float64 {
	if isBlank(v) {
		return nil
	}
	switch x := v.(type) {
	case bool:
		return nil
	case string:
		v = strings.TrimSpace(x)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func toTime(v any) (time.Time, bool) {
	if isBlank(v) {
		return time.Time{}, false
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	t, err := cast.ToTimeE(v)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t.UTC(), true
}
