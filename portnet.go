package portnet

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/portnet/internal/pipeline"
	"github.com/aretw0/portnet/pkg/domain"
	"github.com/aretw0/portnet/pkg/ports"
)

// CleanReport summarizes a cleaning pass.
type CleanReport = pipeline.CleanReport

// Builder is the high-level entry point for building networks.
// It wraps the internal pipeline and provides a simplified API for consumers.
type Builder struct {
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	workers  int
}

// Option defines a functional option for configuring the Builder.
type Option func(*Builder)

// WithLogger sets a custom structured logger for the builder.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Builder) {
		b.hooks = hooks
	}
}

// WithWorkers sets how many vessels are sequenced concurrently (default 1).
// The output does not depend on this value.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		b.workers = n
	}
}

// New initializes a Builder.
func New(opts ...Option) *Builder {
	b := &Builder{workers: 1}
	for _, opt := range opts {
		opt(b)
	}

	// Ensure logger is initialized so the pipeline default is not overwritten with nil
	if b.logger == nil {
		b.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	b.pipeline = pipeline.New(
		pipeline.WithLogger(b.logger),
		pipeline.WithLifecycleHooks(b.hooks),
		pipeline.WithWorkers(b.workers),
	)
	return b
}

// Build derives the network from already cleaned events.
// Returns domain.ErrNoEvents when events is empty.
func (b *Builder) Build(ctx context.Context, events []domain.PortVisitEvent) (*domain.Network, error) {
	return b.pipeline.Build(ctx, events)
}

// BuildRecords cleans raw records and builds the network from the events that survive.
func (b *Builder) BuildRecords(ctx context.Context, records []domain.RawRecord) (*domain.Network, error) {
	return b.pipeline.BuildRecords(ctx, records)
}

// BuildFromSource loads every record of src and builds the network from it.
func (b *Builder) BuildFromSource(ctx context.Context, src ports.EventSource) (*domain.Network, error) {
	records, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	b.logger.Info("records loaded", "records", len(records))

	network, err := b.BuildRecords(ctx, records)
	if err != nil {
		return nil, err
	}
	b.logger.Info("network built",
		"events", network.Stats.EventsKept,
		"dropped", network.Stats.RecordsDropped,
		"ports", network.Stats.Ports,
		"edges", network.Stats.Edges,
	)
	return network, nil
}

// Clean exposes the cleaning stage on its own, for callers that want the events.
func (b *Builder) Clean(ctx context.Context, records []domain.RawRecord) ([]domain.PortVisitEvent, CleanReport) {
	return b.pipeline.Clean(ctx, records)
}
