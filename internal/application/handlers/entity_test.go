package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kin-core/internal/domain/services"
)

func TestEntityHandlerGet(t *testing.T) {
	h := NewEntityHandler(graphStore())

	e, err := h.Get(context.Background(), "steve-1")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "Steve Hughes", e.Name.Full)

	missing, err := h.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing, "missing entities are not an error")
}

func TestEntityHandlerSearch(t *testing.T) {
	h := NewEntityHandler(graphStore())

	hits, err := h.Search(context.Background(), "steven", services.SearchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "steve-1", hits[0].Entity.ID)
}

func TestEntityHandlerFilter(t *testing.T) {
	h := NewEntityHandler(graphStore())

	matched, err := h.Filter(context.Background(), map[string]string{"type": "business"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "amazon-1", matched[0].ID)
}

func TestEntityHandlerPathsByName(t *testing.T) {
	h := NewEntityHandler(graphStore())

	paths, idx, err := h.Paths(context.Background(), "Steve Hughes", "Amazon", 0)
	require.NoError(t, err)
	require.NotNil(t, idx)

	require.Len(t, paths, 1)
	assert.Len(t, paths[0], 3)
}

func TestEntityHandlerPathsFuzzyRef(t *testing.T) {
	h := NewEntityHandler(graphStore())

	// "steven" is neither an ID nor a registered name; search resolves it.
	paths, _, err := h.Paths(context.Background(), "steven", "amazon-1", 4)
	require.NoError(t, err)
	require.Len(t, paths, 1)
}

func TestEntityHandlerPathsUnresolvableRef(t *testing.T) {
	h := NewEntityHandler(graphStore())

	_, _, err := h.Paths(context.Background(), "bigfoot", "Amazon", 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bigfoot")
}

func TestEntityHandlerNeighborhood(t *testing.T) {
	h := NewEntityHandler(graphStore())

	hood, idx, err := h.Neighborhood(context.Background(), "Steve Hughes", 0)
	require.NoError(t, err)

	assert.Equal(t, "steve-1", hood.Center)
	require.Len(t, hood.Rings, 2)
	assert.Equal(t, "Clarence James Mitchell", idx.DisplayName(hood.Rings[0][0].EntityID))
}
