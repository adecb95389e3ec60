package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/services"
)

func TestMergeHandlerSummary(t *testing.T) {
	base := &entities.Entity{
		ID:   "steve-1",
		Type: entities.TypePerson,
		Name: entities.Name{Full: "Steve Hughes"},
		Attributes: []entities.Attribute{
			{ID: "ATTR-001", Key: "location", Value: "Seattle", Confidence: 0.8},
		},
		Provenance: entities.Provenance{
			SourceDocuments: []entities.SourceDocument{{Name: "notes.md", Hash: "aaa"}},
		},
	}
	incoming := &entities.Entity{
		Type: entities.TypePerson,
		Name: entities.Name{Full: "Steven Hughes"},
		Attributes: []entities.Attribute{
			{Key: "company", Value: "Amazon", Confidence: 0.9},
		},
		Relationships: []entities.Relationship{
			{Name: "Maya Chen", Type: "friend_of", Confidence: 0.9},
		},
		KeyFacts: []entities.KeyFact{
			{Fact: "Climbed Mount Rainier in 2022", Confidence: 0.8},
		},
		Provenance: entities.Provenance{
			SourceDocuments: []entities.SourceDocument{{Name: "linkedin.html", Hash: "bbb"}},
		},
	}

	h := NewMergeHandler(services.NewMerger(nil))

	merged, summary, err := h.Handle(base, incoming, services.MergeOptions{SourceName: "linkedin import"})
	require.NoError(t, err)

	assert.Equal(t, "Steve Hughes", summary.Name)
	assert.Equal(t, "steve-1", summary.EntityID)
	assert.Equal(t, 2, summary.AttributeCount)
	assert.Equal(t, 1, summary.RelationshipCount)
	assert.Equal(t, 1, summary.FactCount)
	assert.Equal(t, 2, summary.SourceCount)
	assert.Greater(t, summary.ChangeCount, 0)
	assert.Equal(t, merged.ID, summary.EntityID)
}

func TestMergeHandlerRejectsMismatch(t *testing.T) {
	a := &entities.Entity{Type: entities.TypePerson, Name: entities.Name{Full: "Steve Hughes"}}
	b := &entities.Entity{Type: entities.TypePerson, Name: entities.Name{Full: "Maya Chen"}}

	h := NewMergeHandler(services.NewMerger(nil))

	_, _, err := h.Handle(a, b, services.MergeOptions{})
	assert.ErrorIs(t, err, services.ErrEntitiesDoNotMatch)
}
