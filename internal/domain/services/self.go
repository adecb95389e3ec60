package services

import (
	"context"
	"sync"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/ports"
)

// selfCache holds resolved self entities process-wide, keyed by collection
// identity. The caller must invalidate after any mutation that could change
// which entity is "self".
var selfCache = struct {
	mu      sync.Mutex
	entries map[string]*entities.Entity
}{entries: make(map[string]*entities.Entity)}

// SelfResolver looks up the entity record designated as the graph's owner:
// the explicitly configured entity if set, otherwise the entity with the
// most relationships.
type SelfResolver struct {
	store         ports.EntityStore
	collectionKey string
	configuredID  string
}

// NewSelfResolver creates a resolver for one collection. collectionKey
// identifies the collection in the process-wide cache (e.g. the graph
// directory path); configuredID may be empty.
func NewSelfResolver(store ports.EntityStore, collectionKey, configuredID string) *SelfResolver {
	return &SelfResolver{store: store, collectionKey: collectionKey, configuredID: configuredID}
}

// Resolve returns the self entity, or nil when the collection has none.
func (r *SelfResolver) Resolve(ctx context.Context) (*entities.Entity, error) {
	selfCache.mu.Lock()
	cached, ok := selfCache.entries[r.collectionKey]
	selfCache.mu.Unlock()
	if ok {
		return cached, nil
	}

	self, err := r.lookup(ctx)
	if err != nil {
		return nil, err
	}

	selfCache.mu.Lock()
	selfCache.entries[r.collectionKey] = self
	selfCache.mu.Unlock()
	return self, nil
}

// Invalidate drops the cached self entity for this collection.
func (r *SelfResolver) Invalidate() {
	selfCache.mu.Lock()
	delete(selfCache.entries, r.collectionKey)
	selfCache.mu.Unlock()
}

func (r *SelfResolver) lookup(ctx context.Context) (*entities.Entity, error) {
	if r.configuredID != "" {
		return r.store.Get(ctx, r.configuredID)
	}

	all, err := r.store.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var best *entities.Entity
	for _, e := range all {
		if best == nil || len(e.Relationships) > len(best.Relationships) {
			best = e
		}
	}
	return best, nil
}
