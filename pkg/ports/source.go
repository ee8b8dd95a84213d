package ports

import (
	"context"

	"github.com/aretw0/portnet/pkg/domain"
)

// EventSource defines how a build retrieves its raw visit records.
type EventSource interface {
	// Load returns every raw record of the source in its stored order.
	// The order matters: it drives the representative-port tie-break.
	Load(ctx context.Context) ([]domain.RawRecord, error)
}

// EventSink defines how fetched raw records are persisted.
type EventSink interface {
	// Write replaces the contents of the sink with records, preserving their order.
	Write(ctx context.Context, records []domain.RawRecord) error
}
