package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/portnet/internal/presentation/tui"
	"github.com/aretw0/portnet/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	network := &domain.Network{
		Ports: []domain.PortMetrics{
			{PortID: "A", PortName: "ALPHA", PortFlag: "ESP", Visits: 3, TotalStrength: 2, InStrength: 1, OutStrength: 1},
			{PortID: "B", PortName: "BRAVO|X", Visits: 1, TotalStrength: 5},
		},
		Edges: []domain.Edge{{PortIDFrom: "A", PortIDTo: "B", FromName: "ALPHA", ToName: "", Trips: 2, VesselsUnique: 1, MedianDeltaHours: 12.5}},
		Stats: domain.BuildStats{RecordsRead: 5, EventsKept: 4, RecordsDropped: 1, DropReasons: map[string]int{"missing_port_id": 1}},
	}

	md := tui.Summary("med", network, 10)

	assert.Contains(t, md, "# Port network: med")
	assert.Contains(t, md, "| 5 | 4 | 1 | 0 | 2 | 1 |")
	assert.Contains(t, md, "`missing_port_id`: 1")
	assert.Contains(t, md, `BRAVO\|X`)
	assert.Contains(t, md, "| ALPHA | B | 2 | 1 | 12.5 |")
	assert.Less(t, bytes.Index([]byte(md), []byte("BRAVO")), bytes.Index([]byte(md), []byte("| ALPHA | ESP")), "hubs are ranked by total strength")
}

func TestWrite_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tui.Write(&buf, "# Title\n", false))
	assert.Equal(t, "# Title\n", buf.String())
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "0.3.0")
	assert.Contains(t, buf.String(), "0.3.0")
}
