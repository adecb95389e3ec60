package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/mocks"
	"github.com/ersonp/kin-core/internal/domain/services"
)

func newIngestHandler(store *mocks.EntityStore) *IngestHandler {
	return NewIngestHandler(store, services.NewMerger(nil), nil)
}

func TestIngestCreatesNewEntity(t *testing.T) {
	store := graphStore()
	h := newIngestHandler(store)

	draft := &entities.Entity{
		Type: entities.TypePerson,
		Name: entities.Name{Full: "Dana Ortiz"},
	}

	result, err := h.Handle(context.Background(), draft, "notes.md")
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.NotEmpty(t, result.Entity.ID, "new records get a generated ID")
	assert.False(t, result.Entity.Provenance.CreatedAt.IsZero())
	assert.Len(t, store.Entities, 4)
}

func TestIngestMergesIntoMatch(t *testing.T) {
	store := graphStore()
	h := newIngestHandler(store)

	draft := &entities.Entity{
		Type: entities.TypePerson,
		Name: entities.Name{Full: "Steven Hughes"},
		Attributes: []entities.Attribute{
			{Key: "company", Value: "Amazon", Confidence: 0.9},
		},
	}

	result, err := h.Handle(context.Background(), draft, "linkedin import")
	require.NoError(t, err)

	assert.False(t, result.Created)
	assert.Equal(t, "steve-1", result.Entity.ID)
	assert.Greater(t, result.ChangeCount, 0)
	assert.Len(t, store.Entities, 3, "no new record when identity resolution matches")

	saved := store.Entities["steve-1"]
	assert.Equal(t, "Amazon", saved.Attr("company"))
	require.Len(t, saved.Provenance.MergeHistory, 1)
	assert.Equal(t, "linkedin import", saved.Provenance.MergeHistory[0].SourceName)
}

func TestIngestKeepsExplicitID(t *testing.T) {
	store := graphStore()
	h := newIngestHandler(store)

	draft := &entities.Entity{
		ID:   "dana-1",
		Type: entities.TypePerson,
		Name: entities.Name{Full: "Dana Ortiz"},
	}

	result, err := h.Handle(context.Background(), draft, "")
	require.NoError(t, err)

	assert.True(t, result.Created)
	assert.Equal(t, "dana-1", result.Entity.ID)
}

func TestIngestProtectsSelfEntity(t *testing.T) {
	store := graphStore()
	self := services.NewSelfResolver(store, t.TempDir(), "steve-1")
	defer self.Invalidate()
	h := NewIngestHandler(store, services.NewMerger(nil), self)

	draft := &entities.Entity{
		Type:    entities.TypePerson,
		Name:    entities.Name{Full: "Steven Hughes"},
		Summary: &entities.Summary{Text: "Extracted text.", Confidence: 0.99},
	}

	_, err := h.Handle(context.Background(), draft, "")
	require.NoError(t, err)

	saved := store.Entities["steve-1"]
	assert.Equal(t, "Steve Hughes", saved.Name.Full, "the self entity's name survives ingestion")
	assert.Nil(t, saved.Summary)
	assert.Contains(t, saved.Name.Aliases, "Steven Hughes")
}

func TestIngestStoreError(t *testing.T) {
	store := graphStore()
	store.Err = errors.New("disk gone")
	h := newIngestHandler(store)

	_, err := h.Handle(context.Background(), &entities.Entity{Name: entities.Name{Full: "Dana Ortiz"}}, "")
	assert.Error(t, err)
}
