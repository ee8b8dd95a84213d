package views_test

import (
	"testing"
	"time"

	"github.com/aretw0/portnet/internal/presentation/views"
	"github.com/aretw0/portnet/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ports = []domain.PortMetrics{
	{PortID: "A", PortName: "ALPHA", Visits: 10, VesselsUnique: 2, TotalStrength: 4, InStrength: 1, OutStrength: 3},
	{PortID: "B", PortName: "BRAVO", Visits: 10, VesselsUnique: 5, TotalStrength: 9, InStrength: 6, OutStrength: 3},
	{PortID: "C", PortName: "CHARLIE", Visits: 1, VesselsUnique: 1},
}

func TestTopHubs(t *testing.T) {
	hubs := views.TopHubs(ports, views.MetricTotalStrength, 2)
	require.Len(t, hubs, 2)
	assert.Equal(t, "B", hubs[0].PortID)
	assert.Equal(t, 9.0, hubs[0].Value)
	assert.Equal(t, 3.0, hubs[0].Size)

	byVisits := views.TopHubs(ports, views.MetricVisits, 0)
	require.Len(t, byVisits, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{byVisits[0].PortID, byVisits[1].PortID, byVisits[2].PortID}, "ties break on port id")

	assert.Equal(t, 1.0, views.TopHubs(ports, views.MetricInStrength, 0)[2].Size, "size never drops below 1")
}

func TestParseHubMetric(t *testing.T) {
	m, err := views.ParseHubMetric("")
	require.NoError(t, err)
	assert.Equal(t, views.MetricTotalStrength, m)

	_, err = views.ParseHubMetric("betweenness")
	assert.Error(t, err)
}

func TestPortOptions(t *testing.T) {
	opts := views.PortOptions(ports, 2)
	require.Len(t, opts, 2)
	assert.Equal(t, "ALPHA (A)", opts[0].Label)
}

func TestTopRoutes(t *testing.T) {
	edges := []domain.Edge{
		{PortIDFrom: "A", PortIDTo: "B", Trips: 9, VesselsUnique: 1},
		{PortIDFrom: "B", PortIDTo: "A", Trips: 4, VesselsUnique: 4},
		{PortIDFrom: "A", PortIDTo: "C", Trips: 400, VesselsUnique: 4},
	}

	byTrips := views.TopRoutes(edges, views.RankTrips, 0)
	require.Len(t, byTrips, 3)
	assert.Equal(t, "C", byTrips[0].PortIDTo)
	assert.Equal(t, 6.0, byTrips[0].Width, "width is capped")
	assert.Equal(t, 1.0, byTrips[1].Width)

	byVessels := views.TopRoutes(edges, views.RankVesselsUnique, 2)
	require.Len(t, byVessels, 2)
	assert.Equal(t, "C", byVessels[0].PortIDTo, "ties break on (from, to)")
	assert.Equal(t, "B", byVessels[1].PortIDFrom)

	used := views.RoutePorts(byVessels, ports)
	assert.Len(t, used, 3)
}

func TestClampTopRoutes(t *testing.T) {
	assert.Equal(t, 200, views.ClampTopRoutes(0))
	assert.Equal(t, 50, views.ClampTopRoutes(3))
	assert.Equal(t, 500, views.ClampTopRoutes(9000))
	assert.Equal(t, 150, views.ClampTopRoutes(150))

	_, err := views.ParseRouteRank("tonnage")
	assert.Error(t, err)
}

func TestDailyVisits(t *testing.T) {
	records := []domain.RawRecord{
		{domain.KeyPortID: "A", domain.KeyStart: "2024-07-01T23:59:00Z"},
		{domain.KeyPortID: "A", domain.KeyStart: "2024-07-01T00:00:00Z"},
		{domain.KeyPortID: "B", domain.KeyStart: "2024-07-03T10:00:00+02:00"},
		{domain.KeyPortID: "B", domain.KeyStart: "garbage"},
		{domain.KeyStart: "2024-07-01T10:00:00Z"},
	}

	all := views.DailyVisits(records, "")
	require.Len(t, all, 2)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), all[0].Day)
	assert.Equal(t, 2, all[0].PortVisits)
	assert.Equal(t, time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC), all[1].Day)

	onlyB := views.DailyVisits(records, "B")
	require.Len(t, onlyB, 1)
	assert.Equal(t, 1, onlyB[0].PortVisits)

	assert.Empty(t, views.DailyVisits(records, "Z"))
}
