// Package openai provides a Classifier implementation using OpenAI, used as
// the fallback for questions the rule cascade cannot categorize.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/infrastructure/config"
)

const classifyPrompt = `You classify questions about a personal knowledge graph of people and organizations.

Reply with exactly one of these words and nothing else:
- ENTITY_LOOKUP: asking who or what an entity is
- RELATIONSHIP: asking how two entities are connected
- AGGREGATION: asking for counts or listings
- COMPLETENESS: asking what information is missing
- CONTRADICTION: asking about conflicting information
- UNKNOWN: none of the above

Question: %s`

// knownTypes guards against the model inventing a category.
var knownTypes = map[string]entities.QueryType{
	"ENTITY_LOOKUP": entities.QueryEntityLookup,
	"RELATIONSHIP":  entities.QueryRelationship,
	"AGGREGATION":   entities.QueryAggregation,
	"COMPLETENESS":  entities.QueryCompleteness,
	"CONTRADICTION": entities.QueryContradiction,
	"UNKNOWN":       entities.QueryUnknown,
}

// Client implements the Classifier interface using OpenAI.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI classifier client.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: openai.NewClient(cfg.APIKey),
		model:  model,
	}, nil
}

// Classify returns the query type for a free-text question.
func (c *Client) Classify(ctx context.Context, question string) (entities.QueryType, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(classifyPrompt, question),
			},
		},
		Temperature: 0,
	})
	if err != nil {
		return entities.QueryUnknown, fmt.Errorf("calling OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return entities.QueryUnknown, errors.New("empty response from OpenAI")
	}

	return parseQueryType(resp.Choices[0].Message.Content), nil
}

// parseQueryType maps the model's reply onto a known query type; anything
// unrecognized is UNKNOWN.
func parseQueryType(content string) entities.QueryType {
	answer := strings.ToUpper(strings.TrimSpace(content))
	if t, ok := knownTypes[answer]; ok {
		return t
	}
	return entities.QueryUnknown
}
