package entities

// QueryType is the category a free-text question classifies into.
type QueryType string

const (
	QueryEntityLookup  QueryType = "ENTITY_LOOKUP"
	QueryRelationship  QueryType = "RELATIONSHIP"
	QueryAggregation   QueryType = "AGGREGATION"
	QueryCompleteness  QueryType = "COMPLETENESS"
	QueryContradiction QueryType = "CONTRADICTION"
	QueryUnknown       QueryType = "UNKNOWN"
)

// PathHop is one step in a traversal path. The first hop of a path is the
// source entity and carries no relationship or confidence.
type PathHop struct {
	EntityID     string  `json:"entity_id"`
	EntityName   string  `json:"entity_name"`
	Relationship string  `json:"relationship,omitempty"`
	Confidence   float64 `json:"confidence,omitempty"`
}

// Path is an ordered sequence of hops from a source to a target entity.
type Path []PathHop

// MinConfidence returns the lowest edge confidence along the path, or 1.0
// for a path with no edges.
func (p Path) MinConfidence() float64 {
	min := 1.0
	for i, hop := range p {
		if i == 0 {
			continue
		}
		if hop.Confidence < min {
			min = hop.Confidence
		}
	}
	return min
}

// ScoredEntity is an entity search hit with its cascade score.
type ScoredEntity struct {
	Entity *Entity `json:"entity"`
	Score  float64 `json:"score"`
}

// ResolvedMention ties a phrase in a question to an entity in the graph.
type ResolvedMention struct {
	Mention  string  `json:"mention"`
	EntityID string  `json:"entity_id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	IsSelf   bool    `json:"is_self,omitempty"`
}

// Neighbor is an entity discovered during neighborhood traversal, annotated
// with the relationship and entity it was discovered from.
type Neighbor struct {
	EntityID     string `json:"entity_id"`
	EntityName   string `json:"entity_name"`
	Relationship string `json:"relationship"`
	FoundVia     string `json:"found_via"`
}

// Neighborhood is the ringed result of a bounded breadth-first traversal.
// Ring d holds the entities first reached at exactly depth d+1.
type Neighborhood struct {
	Center string       `json:"center"`
	Rings  [][]Neighbor `json:"rings"`
}

// Gap is a missing piece of knowledge reported by completeness analysis.
type Gap struct {
	Field  string `json:"field"`
	Detail string `json:"detail,omitempty"`
}

// Conflict is a pair of contradictory values recorded for one field.
type Conflict struct {
	Field  string `json:"field"`
	ValueA string `json:"value_a"`
	ValueB string `json:"value_b"`
}

// QueryInfo describes how a question was interpreted.
type QueryInfo struct {
	Original         string            `json:"original"`
	Type             QueryType         `json:"type"`
	ClassifiedBy     string            `json:"classified_by"`
	EntitiesResolved []ResolvedMention `json:"entities_resolved"`
}

// Timing breaks a query's latency into its pipeline stages.
type Timing struct {
	ClassificationMS int64 `json:"classification_ms"`
	GraphQueryMS     int64 `json:"graph_query_ms"`
	SynthesisMS      int64 `json:"synthesis_ms"`
	TotalMS          int64 `json:"total_ms"`
}

// QueryResult is the full answer envelope for one question.
type QueryResult struct {
	Answer     string     `json:"answer"`
	Query      QueryInfo  `json:"query"`
	Entities   []*Entity  `json:"entities,omitempty"`
	Paths      []Path     `json:"paths,omitempty"`
	Gaps       []Gap      `json:"gaps,omitempty"`
	Conflicts  []Conflict `json:"conflicts,omitempty"`
	Confidence float64    `json:"confidence"`
	Timing     Timing     `json:"timing"`
}
