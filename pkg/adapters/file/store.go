package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/portnet/pkg/domain"
)

// Store implements ports.NetworkStore using the local filesystem.
// Each dataset is one JSON document holding both tables and the build stats.
type Store struct {
	BasePath string
}

// NewStore creates a new Store with the given base path.
// If basePath is empty, it defaults to ".portnet/datasets".
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".portnet", "datasets")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(dataset string) (string, error) {
	if dataset == "" {
		return "", fmt.Errorf("dataset cannot be empty")
	}
	if strings.ContainsAny(dataset, `/\`) || dataset == "." || dataset == ".." {
		return "", fmt.Errorf("invalid dataset name %q", dataset)
	}
	return filepath.Join(s.BasePath, dataset+".json"), nil
}

// Save persists the network to a JSON file atomically.
func (s *Store) Save(ctx context.Context, dataset string, network *domain.Network) error {
	path, err := s.path(dataset)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(network, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal network: %w", err)
	}
	return writeAtomic(path, data)
}

// Load retrieves the network from its JSON file.
func (s *Store) Load(ctx context.Context, dataset string) (*domain.Network, error) {
	path, err := s.path(dataset)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrDatasetNotFound
		}
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	var network domain.Network
	if err := json.Unmarshal(data, &network); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dataset %s: %w", dataset, err)
	}
	return &network, nil
}

// Delete removes the dataset file.
func (s *Store) Delete(ctx context.Context, dataset string) error {
	path, err := s.path(dataset)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete dataset file: %w", err)
	}
	return nil
}

// List returns all stored dataset names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}

	datasets := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		datasets = append(datasets, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(datasets)
	return datasets, nil
}
