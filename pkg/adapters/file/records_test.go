package file_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/portnet/pkg/adapters/file"
	"github.com/aretw0/portnet/pkg/domain"
	"github.com/aretw0/portnet/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStore_Contract(t *testing.T) {
	for _, name := range []string{"visits.json", "visits.ndjson", "visits.csv"} {
		t.Run(name, func(t *testing.T) {
			store := file.NewRecordStore(filepath.Join(t.TempDir(), name))
			tests.RecordStoreContractTest(t, store, store)
		})
	}
}

func TestRecordStore_NDJSONKeepsLargeIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visits.ndjson")
	content := `{"event_id":"e1","vessel_id":123456789012345678,"port_lat":39.44}

{"event_id":"e2","vessel_id":"abc"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	records, err := file.NewRecordStore(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2, "blank lines are skipped")
	assert.Equal(t, json.Number("123456789012345678"), records[0].Get(domain.KeyVesselID))
	assert.Equal(t, json.Number("39.44"), records[0].Get(domain.KeyPortLat))
}

func TestRecordStore_CSVEmptyCellsAreAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visits.csv")
	content := "event_id,vessel_id,durationHrs\ne1,v1,\ne2,,3.5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	records, err := file.NewRecordStore(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	_, ok := records[0][domain.KeyDurationHrs]
	assert.False(t, ok)
	_, ok = records[1][domain.KeyVesselID]
	assert.False(t, ok)
	assert.Equal(t, "3.5", records[1].Get(domain.KeyDurationHrs))
}

func TestRecordStore_MissingFile(t *testing.T) {
	_, err := file.NewRecordStore(filepath.Join(t.TempDir(), "missing.csv")).Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseFormat(t *testing.T) {
	f, err := file.ParseFormat("JSONL")
	require.NoError(t, err)
	assert.Equal(t, file.FormatNDJSON, f)

	_, err = file.ParseFormat("parquet")
	assert.Error(t, err)
}
