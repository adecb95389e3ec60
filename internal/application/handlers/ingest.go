package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/ports"
	"github.com/ersonp/kin-core/internal/domain/services"
)

// IngestHandler folds a draft entity record into the graph: find a matching
// existing entity via identity resolution, merge into it, or create a new
// record.
type IngestHandler struct {
	store  ports.EntityStore
	merger *services.Merger
	self   *services.SelfResolver
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(store ports.EntityStore, merger *services.Merger, self *services.SelfResolver) *IngestHandler {
	return &IngestHandler{store: store, merger: merger, self: self}
}

// IngestResult describes what happened to an ingested record.
type IngestResult struct {
	Created     bool
	Entity      *entities.Entity
	ChangeCount int
}

// Handle ingests one draft record. The collection is scanned for a match;
// the first entity identity resolution accepts wins.
func (h *IngestHandler) Handle(ctx context.Context, incoming *entities.Entity, sourceName string) (*IngestResult, error) {
	all, err := h.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}

	var self *entities.Entity
	if h.self != nil {
		self, err = h.self.Resolve(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving self entity: %w", err)
		}
	}

	for _, existing := range all {
		if !services.EntitiesMatch(existing, incoming) {
			continue
		}

		opts := services.MergeOptions{
			IsSelfEntity: self != nil && existing.ID == self.ID,
			SourceName:   sourceName,
		}
		merged, changes, err := h.merger.Merge(existing, incoming, opts)
		if err != nil {
			return nil, fmt.Errorf("merging into %s: %w", existing.ID, err)
		}
		if err := h.store.Save(ctx, merged); err != nil {
			return nil, fmt.Errorf("saving merged entity: %w", err)
		}
		if h.self != nil {
			h.self.Invalidate()
		}
		return &IngestResult{Entity: merged, ChangeCount: len(changes)}, nil
	}

	if incoming.ID == "" {
		incoming.ID = uuid.New().String()
	}
	if incoming.Provenance.CreatedAt.IsZero() {
		incoming.Provenance.CreatedAt = time.Now().UTC()
	}
	if err := h.store.Save(ctx, incoming); err != nil {
		return nil, fmt.Errorf("saving new entity: %w", err)
	}
	if h.self != nil {
		h.self.Invalidate()
	}
	return &IngestResult{Created: true, Entity: incoming}, nil
}
