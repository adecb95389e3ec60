package ports

import (
	"context"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// Classifier defines the interface for the external free-text classifier
// consulted when the rule cascade cannot categorize a question.
type Classifier interface {
	// Classify returns the query type for a free-text question.
	Classify(ctx context.Context, question string) (entities.QueryType, error)
}
