// Package pipeline implements the port-visit network build: cleaning raw records,
// per-port aggregation, per-vessel sequencing, edge aggregation and degree strength.
//
// Every stage is a pure function that returns a new collection. Pipeline wires them
// together and reports progress through domain.LifecycleHooks.
package pipeline
