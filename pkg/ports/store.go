package ports

import (
	"context"

	"github.com/aretw0/portnet/pkg/domain"
)

// NetworkStore defines the interface for persisting built networks.
// A dataset name identifies one (ports, edges) pair.
type NetworkStore interface {
	// Save persists the network under dataset, replacing any previous version.
	Save(ctx context.Context, dataset string, network *domain.Network) error

	// Load retrieves the network stored under dataset.
	// Returns domain.ErrDatasetNotFound if the dataset does not exist.
	Load(ctx context.Context, dataset string) (*domain.Network, error)

	// Delete removes the dataset. Deleting a missing dataset is not an error.
	Delete(ctx context.Context, dataset string) error

	// List returns the names of all stored datasets, sorted.
	List(ctx context.Context) ([]string, error)
}
