// Package handlers contains application-level orchestration between the CLI
// and the domain services.
package handlers

import (
	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/services"
)

// MergeHandler reconciles two matched entity records.
type MergeHandler struct {
	merger *services.Merger
}

// NewMergeHandler creates a new merge handler.
func NewMergeHandler(merger *services.Merger) *MergeHandler {
	return &MergeHandler{merger: merger}
}

// MergeSummary describes a completed merge for CLI reporting.
type MergeSummary struct {
	Name              string
	EntityID          string
	AttributeCount    int
	RelationshipCount int
	FactCount         int
	SourceCount       int
	ChangeCount       int
}

// Handle merges incoming into base. Returns services.ErrEntitiesDoNotMatch
// when identity resolution rejects the pair; callers report that as a domain
// failure, not a crash.
func (h *MergeHandler) Handle(base, incoming *entities.Entity, opts services.MergeOptions) (*entities.Entity, *MergeSummary, error) {
	merged, changes, err := h.merger.Merge(base, incoming, opts)
	if err != nil {
		return nil, nil, err
	}

	return merged, &MergeSummary{
		Name:              merged.DisplayName(),
		EntityID:          merged.ID,
		AttributeCount:    len(merged.Attributes),
		RelationshipCount: len(merged.Relationships),
		FactCount:         len(merged.KeyFacts),
		SourceCount:       len(merged.Provenance.SourceDocuments),
		ChangeCount:       len(changes),
	}, nil
}
