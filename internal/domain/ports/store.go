// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// EntityStore defines the interface for entity record persistence. The core
// treats the collection as a single-writer resource; no transactional
// guarantees are provided across multiple record updates.
type EntityStore interface {
	// List returns all entity records, optionally scoped to a spoke
	// (sub-collection). An empty spoke means the whole graph.
	List(ctx context.Context, spoke string) ([]*entities.Entity, error)

	// Get retrieves a single entity by ID. A missing entity returns
	// (nil, nil) rather than an error.
	Get(ctx context.Context, entityID string) (*entities.Entity, error)

	// Save writes an entity record, creating or overwriting it.
	Save(ctx context.Context, entity *entities.Entity) error

	// Close releases any underlying resources.
	Close() error
}
