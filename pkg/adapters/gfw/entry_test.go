package gfw_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/portnet/pkg/adapters/gfw"
	"github.com/aretw0/portnet/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntries(t *testing.T, s string) []map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var entries []map[string]any
	require.NoError(t, dec.Decode(&entries))
	return entries
}

func TestFlatten_PrefersIntermediateAnchorage(t *testing.T) {
	entries := decodeEntries(t, `[{
		"id": "e1", "type": "port_visit", "start": "2024-07-01T00:00:00Z",
		"vessel": {"id": "v1", "ssvid": "247000000", "name": "AURORA"},
		"port_visit": {
			"confidence": "3", "durationHrs": 12.5,
			"startAnchorage": {"id": "start-anch", "lat": 1, "lon": 1},
			"intermediateAnchorage": {"id": "ita-genova", "name": "GENOVA", "flag": "ITA", "lat": 44.4, "lon": 8.93, "atDock": false, "distanceFromShoreKm": 1.2}
		}
	}]`)

	records, err := gfw.Flatten(entries)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "ita-genova", r.Get(domain.KeyPortID))
	assert.Equal(t, "GENOVA", r.Get(domain.KeyPortName))
	assert.Equal(t, json.Number("44.4"), r.Get(domain.KeyPortLat))
	assert.Equal(t, false, r.Get(domain.KeyAtDock))
	assert.Equal(t, json.Number("12.5"), r.Get(domain.KeyDurationHrs))
	assert.Equal(t, "AURORA", r.Get(domain.KeyVesselName))
	assert.Nil(t, r.Get(domain.KeyLat), "missing position stays nil")
}

func TestFlatten_MissingSections(t *testing.T) {
	entries := decodeEntries(t, `[{"id": "e2", "port_visit": null}]`)

	records, err := gfw.Flatten(entries)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "e2", records[0].Get(domain.KeyEventID))
	assert.Nil(t, records[0].Get(domain.KeyPortID))
	assert.Nil(t, records[0].Get(domain.KeyVesselID))

	for _, col := range domain.RecordColumns {
		_, ok := records[0][col]
		assert.True(t, ok, "column %s present", col)
	}
}
