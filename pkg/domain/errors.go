package domain

import "errors"

// ErrNoEvents is returned when the pipeline is asked to build a network from an empty
// event collection. An empty result would be indistinguishable from a zero-traffic
// dataset, so the build fails instead.
var ErrNoEvents = errors.New("no port visit events to build from")

// ErrInconsistentJoin is returned when an edge references a port that has no row in
// the port metrics table. The cleaner guarantees this cannot happen, so seeing it
// means an internal invariant was broken.
var ErrInconsistentJoin = errors.New("edge endpoint missing from port metrics")

// ErrDatasetNotFound is returned when a dataset cannot be found in a network store.
var ErrDatasetNotFound = errors.New("dataset not found")
