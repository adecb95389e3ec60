package services

import (
	"strings"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// Classification keyword tables, one per category. Order of evaluation is
// significant: surface patterns overlap across categories, so the more
// specific categories are probed first and later rules are only reached when
// earlier ones fail.
var (
	contradictionCues = []string{"conflict", "contradict", "disagree", "inconsistent", "inconsistency"}
	completenessCues  = []string{"missing", "gap", "incomplete", "what else", "don't know about"}
	aggregationCues   = []string{"how many", "total number"}
	aggregationWords  = []string{"list", "count", "all", "every", "each"}
	lookupCues        = []string{"who is", "who's", "what is", "what's", "tell me about", "describe"}
	relationshipCues  = []string{"connect", "related", "relate", "relationship", "link", "between", "path", "know each other"}
)

// ClassifyQuery maps a free-text question to a query category using a
// deterministic ordered cascade. Questions matching no cue return UNKNOWN,
// which callers hand to the external classifier collaborator.
func ClassifyQuery(question string) entities.QueryType {
	q := strings.ToLower(question)

	switch {
	case containsAny(q, contradictionCues):
		return entities.QueryContradiction
	case containsAny(q, completenessCues):
		return entities.QueryCompleteness
	case containsAny(q, aggregationCues) || containsWord(q, aggregationWords):
		return entities.QueryAggregation
	case containsAny(q, lookupCues):
		return entities.QueryEntityLookup
	case containsAny(q, relationshipCues):
		return entities.QueryRelationship
	default:
		return entities.QueryUnknown
	}
}

func containsAny(s string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(s, cue) {
			return true
		}
	}
	return false
}

// containsWord matches whole words only, so quantifiers like "all" don't
// fire inside longer words.
func containsWord(s string, words []string) bool {
	tokens := strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	for _, t := range tokens {
		for _, w := range words {
			if t == w {
				return true
			}
		}
	}
	return false
}
