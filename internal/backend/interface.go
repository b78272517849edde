package backend

import (
	"context"

	"spendwise/internal/amqp"
	"spendwise/internal/analytics"
	"spendwise/internal/cache"
	"spendwise/internal/repository"
	"spendwise/internal/services"
	"spendwise/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult bundles everything a command needs to serve requests
// against one opened store.
type BackendResult struct {
	Store     *storage.Store
	Repo      *repository.Repository
	Sessions  *repository.Sessions
	Service   *services.TransactionService
	Analytics *analytics.Engine

	// Cache is nil when caching is disabled.
	Cache *cache.LRUCache[any]
	// AMQP is nil when no broker is configured or reachable.
	AMQP *amqp.Client

	Cleanup CleanupFunc
}

// Close releases the broker connection and the store.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend opens the store, seeds it if needed and wires the
	// repository, service and analytics engine on top.
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}
