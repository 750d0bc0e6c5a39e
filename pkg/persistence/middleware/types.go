package middleware

import "github.com/aretw0/charter/pkg/ports"

// Middleware allows wrapping a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore

// JournalMiddleware allows wrapping a Journal to add behavior.
type JournalMiddleware func(ports.Journal) ports.Journal

// Chain applies store middlewares so the first one is the outermost.
func Chain(store ports.SessionStore, mws ...Middleware) ports.SessionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
