package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/portnet/pkg/domain"
)

// Pipeline runs the build stages in order and reports each one through hooks.
type Pipeline struct {
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	workers int
	now     func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for stage and drop diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithLifecycleHooks registers stage and drop callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Pipeline) {
		p.hooks = hooks
	}
}

// WithWorkers sets how many vessels are sequenced concurrently.
// Values below 1 mean sequential extraction.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		p.workers = n
	}
}

// WithClock overrides the clock used for stage timestamps and BuildStats.BuiltAt.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a Pipeline. Without options it logs nothing and runs sequentially.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		workers: 1,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Build runs the pipeline with default options.
func Build(ctx context.Context, events []domain.PortVisitEvent) (*domain.Network, error) {
	return New().Build(ctx, events)
}

// Clean runs the cleaning stage, reporting every dropped record.
func (p *Pipeline) Clean(ctx context.Context, records []domain.RawRecord) ([]domain.PortVisitEvent, CleanReport) {
	started := p.stageStart(ctx, domain.StageClean, len(records))

	events, drops := Clean(records)
	for i := range drops {
		d := drops[i]
		p.logger.Debug("record dropped", "index", d.Index, "event_id", d.EventID, "reason", d.Reason)
		if p.hooks.OnRecordDropped != nil {
			p.hooks.OnRecordDropped(ctx, &d)
		}
	}

	p.stageEnd(ctx, domain.StageClean, len(records), len(events), started, nil)
	report := Summarize(len(records), drops)
	if report.Dropped > 0 {
		p.logger.Info("records dropped during cleaning", "read", report.Read, "dropped", report.Dropped)
	}
	return events, report
}

// Build derives the network from cleaned events. It fails with domain.ErrNoEvents on
// an empty collection, since an empty network would look like a zero-traffic dataset.
// The context is checked between stages.
func (p *Pipeline) Build(ctx context.Context, events []domain.PortVisitEvent) (*domain.Network, error) {
	if len(events) == 0 {
		return nil, domain.ErrNoEvents
	}

	started := p.stageStart(ctx, domain.StagePortMetrics, len(events))
	ports := AggregatePorts(events)
	p.stageEnd(ctx, domain.StagePortMetrics, len(events), len(ports), started, nil)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started = p.stageStart(ctx, domain.StageSequence, len(events))
	transitions, err := ExtractTransitions(ctx, events, p.workers)
	p.stageEnd(ctx, domain.StageSequence, len(events), len(transitions), started, err)
	if err != nil {
		return nil, fmt.Errorf("extract transitions: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started = p.stageStart(ctx, domain.StageEdges, len(transitions))
	edges, err := AggregateEdges(transitions, ports)
	p.stageEnd(ctx, domain.StageEdges, len(transitions), len(edges), started, err)
	if err != nil {
		return nil, fmt.Errorf("aggregate edges: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started = p.stageStart(ctx, domain.StageStrength, len(ports))
	ports = ComputeStrength(ports, edges)
	p.stageEnd(ctx, domain.StageStrength, len(edges), len(ports), started, nil)

	p.logger.Debug("network built", "events", len(events), "ports", len(ports), "edges", len(edges))

	return &domain.Network{
		Ports: ports,
		Edges: edges,
		Stats: domain.BuildStats{
			RecordsRead: len(events),
			EventsKept:  len(events),
			Transitions: len(transitions),
			Ports:       len(ports),
			Edges:       len(edges),
			BuiltAt:     p.now().UTC(),
		},
	}, nil
}

// BuildRecords cleans records and builds the network from the survivors.
// A batch where every record was dropped fails with domain.ErrNoEvents.
func (p *Pipeline) BuildRecords(ctx context.Context, records []domain.RawRecord) (*domain.Network, error) {
	events, report := p.Clean(ctx, records)
	if len(events) == 0 {
		return nil, fmt.Errorf("%d records read, %d dropped: %w", report.Read, report.Dropped, domain.ErrNoEvents)
	}

	network, err := p.Build(ctx, events)
	if err != nil {
		return nil, err
	}
	network.Stats.RecordsRead = report.Read
	network.Stats.RecordsDropped = report.Dropped
	if report.Dropped > 0 {
		network.Stats.DropReasons = report.Reasons
	}
	return network, nil
}

func (p *Pipeline) stageStart(ctx context.Context, stage domain.Stage, input int) time.Time {
	now := p.now()
	if p.hooks.OnStageStart != nil {
		p.hooks.OnStageStart(ctx, &domain.StageEvent{Timestamp: now, Stage: stage, Input: input})
	}
	return now
}

func (p *Pipeline) stageEnd(ctx context.Context, stage domain.Stage, input, output int, started time.Time, err error) {
	now := p.now()
	d := now.Sub(started)
	p.logger.Debug("stage finished", "stage", stage, "input", input, "output", output, "duration", d)
	if p.hooks.OnStageEnd != nil {
		p.hooks.OnStageEnd(ctx, &domain.StageEvent{
			Timestamp: now, Stage: stage, Input: input, Output: output, Duration: d, Err: err,
		})
	}
}
