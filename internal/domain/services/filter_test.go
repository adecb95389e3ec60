package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

func filterFixture() []*entities.Entity {
	steve := person("Steve Hughes")
	steve.ID = "steve-1"
	steve.Attributes = []entities.Attribute{
		{ID: "ATTR-001", Key: "company", Value: "Amazon", Confidence: 0.9},
		{ID: "ATTR-002", Key: "location", Value: "Seattle", Confidence: 0.8},
	}

	maya := person("Maya Chen")
	maya.ID = "maya-1"
	maya.Attributes = []entities.Attribute{
		{ID: "ATTR-001", Key: "company", Value: "Initech", Confidence: 0.9},
		{ID: "ATTR-002", Key: "contact", Value: map[string]any{
			"email": "maya@initech.example",
			"phone": "555-0100",
		}, Confidence: 0.7},
	}

	amazon := business("Amazon")
	amazon.ID = "amazon-1"

	return []*entities.Entity{steve, maya, amazon}
}

func TestFilterByType(t *testing.T) {
	matched := FilterEntities(map[string]string{"type": "Person"}, filterFixture())

	require.Len(t, matched, 2)
	assert.Equal(t, "steve-1", matched[0].ID)
	assert.Equal(t, "maya-1", matched[1].ID)
}

func TestFilterByNameSubstring(t *testing.T) {
	matched := FilterEntities(map[string]string{"name": "chen"}, filterFixture())

	require.Len(t, matched, 1)
	assert.Equal(t, "maya-1", matched[0].ID)
}

func TestFilterByAttribute(t *testing.T) {
	matched := FilterEntities(map[string]string{"company": "amaz"}, filterFixture())

	require.Len(t, matched, 1)
	assert.Equal(t, "steve-1", matched[0].ID)
}

func TestFilterAttributesPrefixOptional(t *testing.T) {
	withPrefix := FilterEntities(map[string]string{"attributes.company": "Initech"}, filterFixture())
	withoutPrefix := FilterEntities(map[string]string{"company": "Initech"}, filterFixture())

	assert.Equal(t, withPrefix, withoutPrefix)
	require.Len(t, withPrefix, 1)
	assert.Equal(t, "maya-1", withPrefix[0].ID)
}

func TestFilterNestedAttribute(t *testing.T) {
	matched := FilterEntities(map[string]string{"contact.email": "initech"}, filterFixture())

	require.Len(t, matched, 1)
	assert.Equal(t, "maya-1", matched[0].ID)
}

func TestFilterANDSemantics(t *testing.T) {
	matched := FilterEntities(map[string]string{
		"type":    "person",
		"company": "Amazon",
	}, filterFixture())

	require.Len(t, matched, 1)
	assert.Equal(t, "steve-1", matched[0].ID)

	assert.Empty(t, FilterEntities(map[string]string{
		"type":    "business",
		"company": "Amazon",
	}, filterFixture()))
}

func TestFilterNoFiltersMatchesAll(t *testing.T) {
	assert.Len(t, FilterEntities(nil, filterFixture()), 3)
}

func TestFlattenAttributes(t *testing.T) {
	e := filterFixture()[1]
	flat := flattenAttributes(e)

	assert.Equal(t, "Initech", flat["company"])
	assert.Equal(t, "maya@initech.example", flat["contact.email"])
	assert.Equal(t, "555-0100", flat["contact.phone"])
}
