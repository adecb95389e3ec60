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

func graphStore() *mocks.EntityStore {
	steve := &entities.Entity{
		ID:   "steve-1",
		Type: entities.TypePerson,
		Name: entities.Name{Full: "Steve Hughes"},
		Relationships: []entities.Relationship{
			{ID: "REL-001", Name: "CJ Mitchell", Type: "friend_of", Confidence: 0.9},
		},
	}
	cj := &entities.Entity{
		ID:   "cj-1",
		Type: entities.TypePerson,
		Name: entities.Name{Full: "Clarence James Mitchell", Aliases: []string{"CJ Mitchell"}},
		Relationships: []entities.Relationship{
			{ID: "REL-001", Name: "Amazon", Type: "works_at", Confidence: 0.8},
		},
	}
	amazon := &entities.Entity{
		ID:   "amazon-1",
		Type: entities.TypeBusiness,
		Name: entities.Name{Common: "Amazon"},
	}
	return mocks.NewEntityStore(steve, cj, amazon)
}

func TestAskRelationshipTwoHop(t *testing.T) {
	h := NewQueryHandler(graphStore(), nil, nil, nil, nil)

	result, err := h.Ask(context.Background(), "How does Steve connect to Amazon?")
	require.NoError(t, err)

	assert.Equal(t, entities.QueryRelationship, result.Query.Type)
	assert.Equal(t, "rules", result.Query.ClassifiedBy)
	require.Len(t, result.Query.EntitiesResolved, 2)
	assert.Equal(t, "steve-1", result.Query.EntitiesResolved[0].EntityID)
	assert.Equal(t, "amazon-1", result.Query.EntitiesResolved[1].EntityID)

	require.Len(t, result.Paths, 1)
	assert.Len(t, result.Paths[0], 3)
	assert.Contains(t, result.Answer, "Steve Hughes")
	assert.Contains(t, result.Answer, "Amazon")
	assert.Contains(t, result.Answer, "2 hops")
	assert.InDelta(t, 0.8, result.Confidence, 1e-9)
}

func TestAskRelationshipNoConnection(t *testing.T) {
	store := graphStore()
	dana := &entities.Entity{
		ID:   "dana-1",
		Type: entities.TypePerson,
		Name: entities.Name{Full: "Dana Ortiz"},
	}
	require.NoError(t, store.Save(context.Background(), dana))

	h := NewQueryHandler(store, nil, nil, nil, nil)

	result, err := h.Ask(context.Background(), "How does Dana Ortiz connect to Amazon?")
	require.NoError(t, err)

	assert.Contains(t, result.Answer, "No connection found")
	assert.Equal(t, 0.0, result.Confidence)
	assert.Empty(t, result.Paths)
}

func TestAskEntityLookup(t *testing.T) {
	h := NewQueryHandler(graphStore(), nil, nil, nil, nil)

	result, err := h.Ask(context.Background(), "Who is Steve?")
	require.NoError(t, err)

	assert.Equal(t, entities.QueryEntityLookup, result.Query.Type)
	assert.Contains(t, result.Answer, "Steve Hughes is a person.")
	require.NotEmpty(t, result.Entities)
	assert.Equal(t, "steve-1", result.Entities[0].ID)
}

func TestAskAggregationWithTypeFilter(t *testing.T) {
	h := NewQueryHandler(graphStore(), nil, nil, nil, nil)

	result, err := h.Ask(context.Background(), "How many people are in the graph?")
	require.NoError(t, err)

	assert.Equal(t, entities.QueryAggregation, result.Query.Type)
	assert.Contains(t, result.Answer, "Found 2 entities")
	assert.Len(t, result.Entities, 2)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestAskCompletenessPrefersNonSelfSubject(t *testing.T) {
	store := graphStore()
	maya := &entities.Entity{
		ID:   "maya-1",
		Type: entities.TypePerson,
		Name: entities.Name{Full: "Maya Chen"},
		Relationships: []entities.Relationship{
			{ID: "REL-001", Name: "Steve Hughes", Type: "friend_of", Confidence: 0.9},
			{ID: "REL-002", Name: "Clarence James Mitchell", Type: "colleague_of", Confidence: 0.8},
			{ID: "REL-003", Name: "Amazon", Type: "works_at", Confidence: 0.8},
		},
	}
	require.NoError(t, store.Save(context.Background(), maya))
	self := services.NewSelfResolver(store, t.TempDir(), "maya-1")
	defer self.Invalidate()

	h := NewQueryHandler(store, nil, self, nil, nil)

	result, err := h.Ask(context.Background(), "What am I missing about Steve?")
	require.NoError(t, err)

	assert.Equal(t, entities.QueryCompleteness, result.Query.Type)
	require.NotEmpty(t, result.Entities)
	assert.Equal(t, "steve-1", result.Entities[0].ID,
		"the pronoun resolves to self but the analysis subject is the named entity")
	assert.NotEmpty(t, result.Gaps)
}

func TestAskContradiction(t *testing.T) {
	store := graphStore()
	store.Entities["steve-1"].Attributes = []entities.Attribute{
		{ID: "ATTR-001", Key: "location", Value: "Seattle", Confidence: 0.7},
		{ID: "ATTR-002", Key: "location", Value: "Portland", Confidence: 0.7},
	}

	h := NewQueryHandler(store, nil, nil, nil, nil)

	result, err := h.Ask(context.Background(), "Is there conflicting information about Steve?")
	require.NoError(t, err)

	assert.Equal(t, entities.QueryContradiction, result.Query.Type)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "location", result.Conflicts[0].Field)
}

func TestAskUnknownFallsBackToClassifier(t *testing.T) {
	classifier := &mocks.Classifier{Result: entities.QueryEntityLookup}
	h := NewQueryHandler(graphStore(), classifier, nil, nil, nil)

	result, err := h.Ask(context.Background(), "steve")
	require.NoError(t, err)

	assert.Equal(t, 1, classifier.Calls)
	assert.Equal(t, "llm", result.Query.ClassifiedBy)
	assert.Equal(t, entities.QueryEntityLookup, result.Query.Type)
	assert.Contains(t, result.Answer, "Steve Hughes")
}

func TestAskClassifierFailureIsNotFatal(t *testing.T) {
	classifier := &mocks.Classifier{Err: errors.New("api down")}
	h := NewQueryHandler(graphStore(), classifier, nil, nil, nil)

	result, err := h.Ask(context.Background(), "steve")
	require.NoError(t, err)

	assert.Equal(t, entities.QueryUnknown, result.Query.Type)
	assert.Equal(t, "rules", result.Query.ClassifiedBy)
	assert.Contains(t, result.Answer, "couldn't understand")
	assert.Equal(t, 0.0, result.Confidence)
}

func TestAskNoClassifierStaysUnknown(t *testing.T) {
	h := NewQueryHandler(graphStore(), nil, nil, nil, nil)

	result, err := h.Ask(context.Background(), "blue bicycle weather")
	require.NoError(t, err)

	assert.Equal(t, entities.QueryUnknown, result.Query.Type)
	assert.Contains(t, result.Answer, "couldn't understand")
}

func TestAskStoreError(t *testing.T) {
	store := graphStore()
	store.Err = errors.New("disk gone")
	h := NewQueryHandler(store, nil, nil, nil, nil)

	_, err := h.Ask(context.Background(), "Who is Steve?")
	assert.Error(t, err)
}

func TestTypeFromQuestion(t *testing.T) {
	assert.Equal(t, entities.TypePerson, typeFromQuestion("How many people do I know?"))
	assert.Equal(t, entities.TypeBusiness, typeFromQuestion("List all companies."))
	assert.Equal(t, entities.TypeInstitution, typeFromQuestion("Count the schools"))
	assert.Empty(t, string(typeFromQuestion("How many entities are there?")))
}
