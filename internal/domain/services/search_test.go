package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

func searchFixture() []*entities.Entity {
	steve := person("Steve Hughes")
	steve.ID = "steve-1"
	steve.Name.Aliases = []string{"Stevie"}
	steve.Attributes = []entities.Attribute{
		{ID: "ATTR-001", Key: "company", Value: "Amazon", Confidence: 0.9},
	}

	maya := person("Maya Chen")
	maya.ID = "maya-1"

	amazon := business("Amazon")
	amazon.ID = "amazon-1"

	return []*entities.Entity{steve, maya, amazon}
}

func TestSearchExactNameScoresFull(t *testing.T) {
	results := SearchEntities("steve hughes", searchFixture(), SearchOptions{})

	require.NotEmpty(t, results)
	assert.Equal(t, "steve-1", results[0].Entity.ID)
	assert.Equal(t, 1.0, results[0].Score)
}

func TestSearchExactAlias(t *testing.T) {
	results := SearchEntities("stevie", searchFixture(), SearchOptions{})

	require.NotEmpty(t, results)
	assert.Equal(t, "steve-1", results[0].Entity.ID)
	assert.Equal(t, 0.85, results[0].Score)
}

func TestSearchFuzzyFullName(t *testing.T) {
	results := SearchEntities("steven hughes", searchFixture(), SearchOptions{})

	require.NotEmpty(t, results)
	assert.Equal(t, "steve-1", results[0].Entity.ID)
	assert.Greater(t, results[0].Score, 0.6)
	assert.Less(t, results[0].Score, 1.0)
}

func TestSearchPartialToken(t *testing.T) {
	// "steven" misses the fuzzy full-name rule against "Steve Hughes" but
	// matches the first name token.
	results := SearchEntities("steven", searchFixture(), SearchOptions{})

	require.NotEmpty(t, results)
	assert.Equal(t, "steve-1", results[0].Entity.ID)
	assert.Equal(t, 0.7, results[0].Score)
}

func TestSearchAttributeValue(t *testing.T) {
	results := SearchEntities("amazon", searchFixture(), SearchOptions{})

	require.Len(t, results, 2)
	assert.Equal(t, "amazon-1", results[0].Entity.ID, "exact name outranks attribute containment")
	assert.Equal(t, 1.0, results[0].Score)
	assert.Equal(t, "steve-1", results[1].Entity.ID)
	assert.Equal(t, 0.5, results[1].Score)
}

func TestSearchTypeFilter(t *testing.T) {
	results := SearchEntities("amazon", searchFixture(), SearchOptions{Type: entities.TypeBusiness})

	require.Len(t, results, 1)
	assert.Equal(t, "amazon-1", results[0].Entity.ID)
}

func TestSearchMinConfidence(t *testing.T) {
	results := SearchEntities("amazon", searchFixture(), SearchOptions{MinConfidence: 0.6})

	require.Len(t, results, 1)
	assert.Equal(t, "amazon-1", results[0].Entity.ID)
}

func TestSearchEmptyQuery(t *testing.T) {
	assert.Nil(t, SearchEntities("", searchFixture(), SearchOptions{}))
	assert.Nil(t, SearchEntities("   ", searchFixture(), SearchOptions{}))
}

func TestSearchLimit(t *testing.T) {
	var all []*entities.Entity
	for i := 0; i < 15; i++ {
		e := person("Alex Kim")
		e.ID = fmt.Sprintf("alex-%02d", i)
		all = append(all, e)
	}

	assert.Len(t, SearchEntities("Alex Kim", all, SearchOptions{}), DefaultSearchLimit)
	assert.Len(t, SearchEntities("Alex Kim", all, SearchOptions{Limit: 3}), 3)
}

func TestSearchNoMatch(t *testing.T) {
	assert.Empty(t, SearchEntities("zzyzx", searchFixture(), SearchOptions{}))
}
