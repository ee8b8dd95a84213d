package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/portnet"
	"github.com/aretw0/portnet/internal/config"
	"github.com/aretw0/portnet/pkg/adapters/file"
	"github.com/aretw0/portnet/pkg/domain"
	"github.com/aretw0/portnet/pkg/observability"
	"github.com/aretw0/portnet/pkg/ports"
)

// BuildOptions are the per-invocation knobs of RunBuild.
type BuildOptions struct {
	Source  ports.EventSource
	Stores  *Stores
	Metrics *observability.Metrics
	// CSVDir, when set, also receives ports.csv and edges.csv.
	CSVDir string
}

// RunBuild builds the configured dataset from opts.Source and saves it under the
// dataset lock.
func RunBuild(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts BuildOptions) (*domain.Network, error) {
	builder := portnet.New(
		portnet.WithLogger(logger),
		portnet.WithWorkers(cfg.Build.Workers),
		portnet.WithLifecycleHooks(observability.Hooks(logger, opts.Metrics)),
	)

	unlock, err := opts.Stores.Locker.Lock(ctx, cfg.Dataset, cfg.Build.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to lock dataset %s: %w", cfg.Dataset, err)
	}
	defer func() {
		if err := unlock(context.Background()); err != nil {
			logger.Warn("failed to release dataset lock", "dataset", cfg.Dataset, "err", err)
		}
	}()

	network, err := builder.BuildFromSource(ctx, opts.Source)
	if opts.Metrics != nil {
		opts.Metrics.ObserveBuild(network, err)
	}
	if err != nil {
		return nil, err
	}

	if err := opts.Stores.Network.Save(ctx, cfg.Dataset, network); err != nil {
		return nil, fmt.Errorf("failed to save dataset %s: %w", cfg.Dataset, err)
	}
	logger.Info("dataset saved", "dataset", cfg.Dataset, "store", cfg.Store.Kind)

	if opts.CSVDir != "" {
		if err := file.ExportCSV(opts.CSVDir, network); err != nil {
			return nil, err
		}
		logger.Info("csv exported", "dir", opts.CSVDir)
	}
	return network, nil
}

// Fetcher pulls raw records from the remote event API.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.RawRecord, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) ([]domain.RawRecord, error)

func (f FetcherFunc) Fetch(ctx context.Context) ([]domain.RawRecord, error) { return f(ctx) }

// RunFetch downloads records with f and replaces the contents of sink with them.
func RunFetch(ctx context.Context, f Fetcher, sink ports.EventSink, logger *slog.Logger) (int, error) {
	records, err := f.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch failed: %w", err)
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("fetch returned no records: %w", domain.ErrNoEvents)
	}
	if err := sink.Write(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to store records: %w", err)
	}
	logger.Info("records stored", "records", len(records))
	return len(records), nil
}

// ConfiguredFetcher wires the acquisition client from cfg.
func ConfiguredFetcher(cfg *config.Config, logger *slog.Logger) Fetcher {
	client, q := NewFetcher(cfg, logger)
	return FetcherFunc(func(ctx context.Context) ([]domain.RawRecord, error) {
		return client.Fetch(ctx, q)
	})
}
