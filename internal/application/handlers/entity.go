package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/ports"
	"github.com/ersonp/kin-core/internal/domain/services"
)

// EntityHandler serves entity lookup, search, filter and graph traversal
// operations for the CLI.
type EntityHandler struct {
	store ports.EntityStore
}

// NewEntityHandler creates a new entity handler.
func NewEntityHandler(store ports.EntityStore) *EntityHandler {
	return &EntityHandler{store: store}
}

// List returns all entities, optionally scoped to a spoke.
func (h *EntityHandler) List(ctx context.Context, spoke string) ([]*entities.Entity, error) {
	return h.store.List(ctx, spoke)
}

// Get returns one entity by ID, or nil when not found.
func (h *EntityHandler) Get(ctx context.Context, id string) (*entities.Entity, error) {
	return h.store.Get(ctx, id)
}

// Search runs the fuzzy scoring cascade over the collection.
func (h *EntityHandler) Search(ctx context.Context, query string, opts services.SearchOptions) ([]entities.ScoredEntity, error) {
	all, err := h.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	return services.SearchEntities(query, all, opts), nil
}

// Filter returns the entities matching every given filter.
func (h *EntityHandler) Filter(ctx context.Context, filters map[string]string) ([]*entities.Entity, error) {
	all, err := h.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}
	return services.FilterEntities(filters, all), nil
}

// Paths finds connection paths between two entities, resolving each end
// through entity search when it is not a known entity ID.
func (h *EntityHandler) Paths(ctx context.Context, source, target string, maxDepth int) ([]entities.Path, *services.RelationshipIndex, error) {
	all, err := h.store.List(ctx, "")
	if err != nil {
		return nil, nil, fmt.Errorf("listing entities: %w", err)
	}

	idx := services.BuildIndex(all)
	sourceID, err := h.resolveRef(source, all, idx)
	if err != nil {
		return nil, nil, err
	}
	targetID, err := h.resolveRef(target, all, idx)
	if err != nil {
		return nil, nil, err
	}

	if maxDepth <= 0 {
		maxDepth = services.DefaultMaxDepth
	}
	return services.FindPaths(sourceID, targetID, idx, maxDepth), idx, nil
}

// Neighborhood collects the rings of entities around a center entity.
func (h *EntityHandler) Neighborhood(ctx context.Context, ref string, depth int) (entities.Neighborhood, *services.RelationshipIndex, error) {
	all, err := h.store.List(ctx, "")
	if err != nil {
		return entities.Neighborhood{}, nil, fmt.Errorf("listing entities: %w", err)
	}

	idx := services.BuildIndex(all)
	id, err := h.resolveRef(ref, all, idx)
	if err != nil {
		return entities.Neighborhood{}, nil, err
	}

	if depth <= 0 {
		depth = services.DefaultNeighborhoodDepth
	}
	return services.GetNeighborhood(id, idx, depth), idx, nil
}

// resolveRef turns a user-supplied entity reference (ID, exact name or fuzzy
// name) into an entity ID.
func (h *EntityHandler) resolveRef(ref string, all []*entities.Entity, idx *services.RelationshipIndex) (string, error) {
	for _, e := range all {
		if e.ID == ref {
			return e.ID, nil
		}
	}
	if id := idx.ResolveName(ref); id != "" {
		return id, nil
	}
	if hits := services.SearchEntities(ref, all, services.SearchOptions{Limit: 1, MinConfidence: 0.6}); len(hits) > 0 {
		return hits[0].Entity.ID, nil
	}
	return "", fmt.Errorf("no entity found matching %q", ref)
}
