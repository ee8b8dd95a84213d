// Package middleware decorates network stores with cross-cutting behavior.
package middleware

import "github.com/aretw0/portnet/pkg/ports"

// Middleware allows wrapping a NetworkStore to add behavior.
type Middleware func(ports.NetworkStore) ports.NetworkStore

// Chain applies mws to store so that the first middleware is the outermost.
func Chain(store ports.NetworkStore, mws ...Middleware) ports.NetworkStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
