package services

import (
	"sort"
	"strings"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// DefaultSearchLimit is the default number of search results to return.
const DefaultSearchLimit = 10

// Search cascade scores. The first applicable rule sets the score.
const (
	scoreExactName      = 1.0
	scoreExactAlias     = 0.85
	scoreFuzzyAlias     = 0.75
	scorePartialToken   = 0.7
	scoreAttributeValue = 0.5

	fuzzyNameThreshold    = 0.6
	partialTokenThreshold = 0.8
	fuzzyAliasThreshold   = 0.7
)

// SearchOptions filter and bound an entity search.
type SearchOptions struct {
	Type          entities.EntityType
	Limit         int
	MinConfidence float64
}

// SearchEntities performs fuzzy lookup over the entity collection. Scoring
// is an ordered cascade, highest-precision rule first; the first rule that
// applies sets the score. An empty query matches nothing.
func SearchEntities(query string, all []*entities.Entity, opts SearchOptions) []entities.ScoredEntity {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	var results []entities.ScoredEntity
	for _, e := range all {
		if opts.Type != "" && !strings.EqualFold(string(e.Type), string(opts.Type)) {
			continue
		}
		score := scoreEntity(query, e)
		if score <= 0 || score < opts.MinConfidence {
			continue
		}
		results = append(results, entities.ScoredEntity{Entity: e, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// scoreEntity applies the scoring cascade for one entity. Returns 0 when no
// rule applies.
func scoreEntity(query string, e *entities.Entity) float64 {
	q := entities.NormalizeName(query)

	for _, name := range []string{e.Name.Full, e.Name.Preferred, e.Name.Common, e.Name.Legal} {
		if name != "" && entities.NormalizeName(name) == q {
			return scoreExactName
		}
	}

	for _, alias := range e.Name.Aliases {
		if entities.NormalizeName(alias) == q {
			return scoreExactAlias
		}
	}

	if sim := Similarity(query, e.Name.Full); sim > fuzzyNameThreshold {
		return sim
	}

	for _, token := range strings.Fields(e.DisplayName()) {
		t := entities.NormalizeName(token)
		if t == q || Similarity(query, token) > partialTokenThreshold {
			return scorePartialToken
		}
	}

	for _, alias := range e.Name.Aliases {
		if Similarity(query, alias) > fuzzyAliasThreshold {
			return scoreFuzzyAlias
		}
	}

	for i := range e.Attributes {
		if containsFold(entities.ValueString(e.Attributes[i].Value), query) {
			return scoreAttributeValue
		}
	}

	return 0
}
