package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/mocks"
)

func TestSelfResolverConfiguredID(t *testing.T) {
	steve := person("Steve Hughes")
	steve.ID = "steve-1"
	maya := person("Maya Chen")
	maya.ID = "maya-1"
	maya.Relationships = []entities.Relationship{
		{ID: "REL-001", Name: "Steve Hughes", Type: "friend_of", Confidence: 0.9},
	}
	store := mocks.NewEntityStore(steve, maya)

	r := NewSelfResolver(store, t.TempDir(), "steve-1")
	defer r.Invalidate()

	self, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, self)
	assert.Equal(t, "steve-1", self.ID, "the configured ID wins over relationship count")
}

func TestSelfResolverMostRelationshipsHeuristic(t *testing.T) {
	steve := person("Steve Hughes")
	steve.ID = "steve-1"
	maya := person("Maya Chen")
	maya.ID = "maya-1"
	maya.Relationships = []entities.Relationship{
		{ID: "REL-001", Name: "Steve Hughes", Type: "friend_of", Confidence: 0.9},
		{ID: "REL-002", Name: "Amazon", Type: "works_at", Confidence: 0.9},
	}
	store := mocks.NewEntityStore(steve, maya)

	r := NewSelfResolver(store, t.TempDir(), "")
	defer r.Invalidate()

	self, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, self)
	assert.Equal(t, "maya-1", self.ID)
}

func TestSelfResolverEmptyCollection(t *testing.T) {
	r := NewSelfResolver(mocks.NewEntityStore(), t.TempDir(), "")
	defer r.Invalidate()

	self, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Nil(t, self)
}

func TestSelfResolverCachesAndInvalidates(t *testing.T) {
	steve := person("Steve Hughes")
	steve.ID = "steve-1"
	store := mocks.NewEntityStore(steve)

	r := NewSelfResolver(store, t.TempDir(), "")
	defer r.Invalidate()

	first, err := r.Resolve(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first)

	// A new, better-connected entity appears; the cached answer holds until
	// invalidation.
	maya := person("Maya Chen")
	maya.ID = "maya-1"
	maya.Relationships = []entities.Relationship{
		{ID: "REL-001", Name: "Steve Hughes", Type: "friend_of", Confidence: 0.9},
	}
	require.NoError(t, store.Save(context.Background(), maya))

	cached, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "steve-1", cached.ID)

	r.Invalidate()

	fresh, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "maya-1", fresh.ID)
}

func TestSelfResolverCacheIsPerCollection(t *testing.T) {
	steve := person("Steve Hughes")
	steve.ID = "steve-1"
	maya := person("Maya Chen")
	maya.ID = "maya-1"

	ra := NewSelfResolver(mocks.NewEntityStore(steve), t.TempDir(), "steve-1")
	rb := NewSelfResolver(mocks.NewEntityStore(maya), t.TempDir(), "maya-1")
	defer ra.Invalidate()
	defer rb.Invalidate()

	a, err := ra.Resolve(context.Background())
	require.NoError(t, err)
	b, err := rb.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "steve-1", a.ID)
	assert.Equal(t, "maya-1", b.ID)
}
