// Package cli wires configuration into stores, clients and builders for the portnet commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/portnet/internal/config"
	"github.com/aretw0/portnet/pkg/adapters/file"
	"github.com/aretw0/portnet/pkg/adapters/gfw"
	"github.com/aretw0/portnet/pkg/adapters/memory"
	"github.com/aretw0/portnet/pkg/adapters/redis"
	"github.com/aretw0/portnet/pkg/adapters/sqlite"
	"github.com/aretw0/portnet/pkg/persistence/middleware"
	"github.com/aretw0/portnet/pkg/ports"
)

// RecordStore is a raw record store that can be both read and replaced.
type RecordStore interface {
	ports.EventSource
	ports.EventSink
}

// CloseFunc releases the resources behind a store.
type CloseFunc func() error

func noClose() error { return nil }

// OpenRecords opens the raw record store named by cfg.Records.
func OpenRecords(cfg *config.Config) (RecordStore, CloseFunc, error) {
	switch cfg.Records.Kind {
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.Records.Path)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewRecordStore(db), db.Close, nil
	default:
		if cfg.Records.Format == "" {
			return file.NewRecordStore(cfg.Records.Path), noClose, nil
		}
		format, err := file.ParseFormat(cfg.Records.Format)
		if err != nil {
			return nil, nil, err
		}
		return file.NewRecordStoreWithFormat(cfg.Records.Path, format), noClose, nil
	}
}

// Stores bundles the network store with the lock guarding its datasets.
type Stores struct {
	Network ports.NetworkStore
	Locker  ports.DistributedLocker
	Close   CloseFunc
}

// OpenStores opens the network store named by cfg.Store.
// Only Redis provides a cross-process lock; the other stores get an in-process one.
func OpenStores(cfg *config.Config) (*Stores, error) {
	switch cfg.Store.Kind {
	case config.StoreMemory:
		return &Stores{Network: memory.NewStore(), Locker: newLocalLocker(), Close: noClose}, nil
	case config.StoreRedis:
		rc := cfg.Store.Redis
		store := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithTTL(rc.TTL), redis.WithPrefix(rc.Prefix))
		return &Stores{
			Network: store,
			Locker:  redis.NewLocker(store.Client(), store.Prefix()),
			Close:   store.Close,
		}, nil
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		return &Stores{Network: sqlite.NewStore(db), Locker: newLocalLocker(), Close: db.Close}, nil
	case config.StoreFile:
		return &Stores{Network: file.NewStore(cfg.Store.Path), Locker: newLocalLocker(), Close: noClose}, nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store.Kind)
	}
}

// Serving returns the network store wrapped for read-heavy use.
func (s *Stores) Serving(cacheTTL time.Duration) ports.NetworkStore {
	if cacheTTL <= 0 {
		return s.Network
	}
	return middleware.Chain(s.Network, middleware.NewCacheMiddleware(cacheTTL))
}

// NewFetcher builds the acquisition client and query from cfg.Fetch.
func NewFetcher(cfg *config.Config, logger *slog.Logger) (*gfw.Client, gfw.Query) {
	f := cfg.Fetch
	client := gfw.New(cfg.Token,
		gfw.WithBaseURL(f.BaseURL),
		gfw.WithPageSize(f.PageSize),
		gfw.WithMaxEvents(f.MaxEvents),
		gfw.WithPause(f.Pause),
		gfw.WithRetries(f.Retries),
		gfw.WithTimeout(f.Timeout),
		gfw.WithLogger(logger),
	)
	q := gfw.Query{
		Datasets:    []string{f.Dataset},
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
		Confidences: f.Confidences,
		BBox:        f.BBox,
	}
	return client, q
}

// localLocker serializes builds within one process.
type localLocker struct {
	sem chan struct{}
}

func newLocalLocker() *localLocker {
	return &localLocker{sem: make(chan struct{}, 1)}
}

func (l *localLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	var released bool
	return func(context.Context) error {
		if !released {
			released = true
			<-l.sem
		}
		return nil
	}, nil
}
