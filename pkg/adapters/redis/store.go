package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aretw0/portnet/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.NetworkStore using Redis.
// Each dataset is stored as three JSON values (ports, edges, stats) written in one
// MULTI/EXEC transaction and indexed in a sorted set scored by expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// DefaultPrefix namespaces dataset keys when no prefix is configured.
const DefaultPrefix = "portnet:dataset:"

type Option func(*Store)

// WithTTL sets the expiration for datasets.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for datasets.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(dataset, table string) string {
	return s.prefix + dataset + ":" + table
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Prefix returns the key prefix of the store.
func (s *Store) Prefix() string {
	return s.prefix
}

// Client exposes the underlying client so a Locker can share the connection.
func (s *Store) Client() *backend.Client {
	return s.client
}

// Save persists the network tables to Redis.
func (s *Store) Save(ctx context.Context, dataset string, network *domain.Network) error {
	ports, err := json.Marshal(network.Ports)
	if err != nil {
		return fmt.Errorf("failed to marshal ports: %w", err)
	}
	edges, err := json.Marshal(network.Edges)
	if err != nil {
		return fmt.Errorf("failed to marshal edges: %w", err)
	}
	stats, err := json.Marshal(network.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	// Score = Now + TTL. Without TTL the dataset never leaves the index.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}

	// Readers must never see ports from one build and edges from another
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(dataset, "ports"), ports, s.ttl)
	pipe.Set(ctx, s.key(dataset, "edges"), edges, s.ttl)
	pipe.Set(ctx, s.key(dataset, "stats"), stats, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: dataset})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the network tables from Redis.
func (s *Store) Load(ctx context.Context, dataset string) (*domain.Network, error) {
	vals, err := s.client.MGet(ctx,
		s.key(dataset, "ports"),
		s.key(dataset, "edges"),
		s.key(dataset, "stats"),
	).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var network domain.Network
	targets := []any{&network.Ports, &network.Edges, &network.Stats}
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// MGET returns nil for missing keys
			return nil, domain.ErrDatasetNotFound
		}
		if err := json.Unmarshal([]byte(raw), targets[i]); err != nil {
			return nil, fmt.Errorf("failed to unmarshal dataset %s: %w", dataset, err)
		}
	}
	return &network, nil
}

// Delete removes the dataset.
func (s *Store) Delete(ctx context.Context, dataset string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(dataset, "ports"), s.key(dataset, "edges"), s.key(dataset, "stats"))
	pipe.ZRem(ctx, s.indexKey(), dataset)

	_, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, backend.Nil) {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// List returns the stored datasets, pruning expired entries from the index first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired datasets: %w", err)
	}

	datasets, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	sort.Strings(datasets)
	return datasets, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
