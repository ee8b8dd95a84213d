package tests

import (
	"context"
	"testing"

	"github.com/aretw0/portnet/pkg/domain"
	"github.com/aretw0/portnet/pkg/ports"
)

// RecordStoreContractTest is a reusable test suite that verifies an adapter acting as
// both ports.EventSink and ports.EventSource keeps records and their order intact.
// Only the identifying columns are compared as strings, because stores may change the
// dynamic type of numeric values.
func RecordStoreContractTest(t *testing.T, sink ports.EventSink, source ports.EventSource) {
	t.Helper()
	ctx := context.Background()

	records := []domain.RawRecord{
		{domain.KeyEventID: "e1", domain.KeyVesselID: "v1", domain.KeyPortID: "p1", domain.KeyStart: "2024-07-01T00:00:00Z", domain.KeyPortLat: 1.5, domain.KeyPortLon: 2.5},
		{domain.KeyEventID: "e2", domain.KeyVesselID: "v1", domain.KeyPortID: "p2", domain.KeyStart: "2024-07-02T00:00:00Z", domain.KeyPortLat: 3.5, domain.KeyPortLon: 4.5},
		{domain.KeyEventID: "e3", domain.KeyVesselID: "v2", domain.KeyPortID: "p1", domain.KeyStart: "2024-07-03T00:00:00Z", domain.KeyPortLat: 1.5, domain.KeyPortLon: 2.5, domain.KeyDurationHrs: "n/a"},
	}

	t.Run("Write_Load_RoundTrip", func(t *testing.T) {
		if err := sink.Write(ctx, records); err != nil {
			t.Fatalf("unexpected error writing records: %v", err)
		}

		loaded, err := source.Load(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading records: %v", err)
		}
		if len(loaded) != len(records) {
			t.Fatalf("expected %d records, got %d", len(records), len(loaded))
		}

		for i, want := range records {
			for _, key := range []string{domain.KeyEventID, domain.KeyVesselID, domain.KeyPortID} {
				if got := loaded[i].Get(key); got != want[key] {
					t.Errorf("record %d: %s mismatch. got %v, want %v", i, key, got, want[key])
				}
			}
		}
	})

	t.Run("Write_Replaces", func(t *testing.T) {
		if err := sink.Write(ctx, records[:1]); err != nil {
			t.Fatalf("unexpected error writing records: %v", err)
		}
		loaded, err := source.Load(ctx)
		if err != nil {
			t.Fatalf("unexpected error loading records: %v", err)
		}
		if len(loaded) != 1 {
			t.Errorf("expected write to replace previous records, got %d records", len(loaded))
		}
	})
}
