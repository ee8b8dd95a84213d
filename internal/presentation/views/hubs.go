// Package views computes the data behind the hub, route and daily visit views.
// Nothing here renders pixels; callers get ranked rows ready for a map or chart.
package views

import (
	"fmt"
	"math"
	"sort"

	"github.com/aretw0/portnet/pkg/domain"
)

// HubMetric selects the port column hubs are ranked by.
type HubMetric string

const (
	MetricVisits        HubMetric = "visits"
	MetricVesselsUnique HubMetric = "vessels_unique"
	MetricTotalStrength HubMetric = "total_strength"
	MetricInStrength    HubMetric = "in_strength"
	MetricOutStrength   HubMetric = "out_strength"
)

// HubMetrics lists the accepted metrics with their display titles.
var HubMetrics = map[HubMetric]string{
	MetricVisits:        "Port visits",
	MetricVesselsUnique: "Unique vessels",
	MetricTotalStrength: "Centrality (weighted degree)",
	MetricInStrength:    "Weighted arrivals",
	MetricOutStrength:   "Weighted departures",
}

// ParseHubMetric validates a metric name. Empty means total_strength.
func ParseHubMetric(s string) (HubMetric, error) {
	if s == "" {
		return MetricTotalStrength, nil
	}
	m := HubMetric(s)
	if _, ok := HubMetrics[m]; !ok {
		return "", fmt.Errorf("unknown hub metric %q", s)
	}
	return m, nil
}

// Value reads the metric from a port row.
func (m HubMetric) Value(p domain.PortMetrics) float64 {
	switch m {
	case MetricVisits:
		return float64(p.Visits)
	case MetricVesselsUnique:
		return float64(p.VesselsUnique)
	case MetricInStrength:
		return p.InStrength
	case MetricOutStrength:
		return p.OutStrength
	default:
		return p.TotalStrength
	}
}

// Hub is a port ranked by a metric.
type Hub struct {
	domain.PortMetrics
	Value float64 `json:"value"`
	// Size is the marker size: the square root of Value, at least 1.
	Size float64 `json:"size"`
}

// TopHubs ranks ports by metric, highest first, ties by port id.
// n <= 0 returns every port.
func TopHubs(ports []domain.PortMetrics, metric HubMetric, n int) []Hub {
	hubs := make([]Hub, 0, len(ports))
	for _, p := range ports {
		v := metric.Value(p)
		hubs = append(hubs, Hub{PortMetrics: p, Value: v, Size: math.Max(1, math.Sqrt(math.Max(v, 0)))})
	}
	sort.SliceStable(hubs, func(i, j int) bool {
		if hubs[i].Value != hubs[j].Value {
			return hubs[i].Value > hubs[j].Value
		}
		return hubs[i].PortID < hubs[j].PortID
	})
	if n > 0 && n < len(hubs) {
		hubs = hubs[:n]
	}
	return hubs
}

// PortOption is an entry of the port picker.
type PortOption struct {
	PortID string `json:"port_id"`
	Label  string `json:"label"`
}

// PortOptions lists the n most visited ports as "NAME (id)" labels.
func PortOptions(ports []domain.PortMetrics, n int) []PortOption {
	top := TopHubs(ports, MetricVisits, n)
	opts := make([]PortOption, len(top))
	for i, h := range top {
		opts[i] = PortOption{PortID: h.PortID, Label: fmt.Sprintf("%s (%s)", h.PortName, h.PortID)}
	}
	return opts
}
