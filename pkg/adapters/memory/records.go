package memory

import (
	"context"
	"sync"

	"github.com/aretw0/portnet/pkg/domain"
)

// RecordStore implements ports.EventSource and ports.EventSink over a slice.
// Mostly useful for tests and for piping fetched records straight into a build.
type RecordStore struct {
	records []domain.RawRecord
	mu      sync.RWMutex
}

// NewRecordStore creates a record store seeded with records.
func NewRecordStore(records ...domain.RawRecord) *RecordStore {
	return &RecordStore{records: copyRecords(records)}
}

// Load returns a copy of the stored records.
func (s *RecordStore) Load(ctx context.Context) ([]domain.RawRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyRecords(s.records), nil
}

// Write replaces the stored records.
func (s *RecordStore) Write(ctx context.Context, records []domain.RawRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = copyRecords(records)
	return nil
}

func copyRecords(in []domain.RawRecord) []domain.RawRecord {
	out := make([]domain.RawRecord, len(in))
	for i, r := range in {
		c := make(domain.RawRecord, len(r))
		for k, v := range r {
			c[k] = v
		}
		out[i] = c
	}
	return out
}
