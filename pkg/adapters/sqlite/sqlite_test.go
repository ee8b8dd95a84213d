package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/portnet/pkg/adapters/sqlite"
	"github.com/aretw0/portnet/pkg/domain"
	"github.com/aretw0/portnet/pkg/ports"
	"github.com/aretw0/portnet/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.NetworkStore = (*sqlite.Store)(nil)
	_ ports.EventSource  = (*sqlite.RecordStore)(nil)
	_ ports.EventSink    = (*sqlite.RecordStore)(nil)
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "portnet.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLiteStore_Contract(t *testing.T) {
	ports.RunNetworkStoreContract(t, sqlite.NewStore(newTestDB(t)))
}

func TestSQLiteRecordStore_Contract(t *testing.T) {
	store := sqlite.NewRecordStore(newTestDB(t))
	tests.RecordStoreContractTest(t, store, store)
}

func TestSQLiteStore_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	store := sqlite.NewStore(db)
	ctx := context.Background()

	network := &domain.Network{
		Ports: []domain.PortMetrics{{PortID: "A"}, {PortID: "B"}},
		Edges: []domain.Edge{{PortIDFrom: "A", PortIDTo: "B", Trips: 1}},
	}
	require.NoError(t, store.Save(ctx, "med", network))
	require.NoError(t, store.Delete(ctx, "med"))

	// Saving again must not collide with orphaned rows
	require.NoError(t, store.Save(ctx, "med", network))
	loaded, err := store.Load(ctx, "med")
	require.NoError(t, err)
	assert.Len(t, loaded.Ports, 2)
	assert.Len(t, loaded.Edges, 1)
}

func TestSQLite_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portnet.db")
	ctx := context.Background()

	db, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, sqlite.NewRecordStore(db).Write(ctx, []domain.RawRecord{{domain.KeyEventID: "e1"}}))
	require.NoError(t, db.Close())

	db, err = sqlite.Open(path)
	require.NoError(t, err)
	defer db.Close()

	records, err := sqlite.NewRecordStore(db).Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "e1", records[0].Get(domain.KeyEventID))
}
