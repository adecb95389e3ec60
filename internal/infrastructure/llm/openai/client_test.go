package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/infrastructure/config"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(config.LLMConfig{})
	assert.Error(t, err)

	c, err := NewClient(config.LLMConfig{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", c.model)

	c, err = NewClient(config.LLMConfig{APIKey: "sk-test", Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", c.model)
}

func TestParseQueryType(t *testing.T) {
	cases := map[string]entities.QueryType{
		"ENTITY_LOOKUP":   entities.QueryEntityLookup,
		"relationship":    entities.QueryRelationship,
		"  AGGREGATION\n": entities.QueryAggregation,
		"COMPLETENESS":    entities.QueryCompleteness,
		"CONTRADICTION":   entities.QueryContradiction,
		"UNKNOWN":         entities.QueryUnknown,
		"something else":  entities.QueryUnknown,
		"":                entities.QueryUnknown,
	}
	for content, want := range cases {
		assert.Equal(t, want, parseQueryType(content), "content: %q", content)
	}
}
