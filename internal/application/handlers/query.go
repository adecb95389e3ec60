package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ersonp/kin-core/internal/domain/entities"
	"github.com/ersonp/kin-core/internal/domain/ports"
	"github.com/ersonp/kin-core/internal/domain/services"
)

// Classification provenance values for the query envelope.
const (
	classifiedByRules = "rules"
	classifiedByLLM   = "llm"
)

// QueryHandler runs the full question pipeline: classify, resolve mentions,
// build the relationship index, run the graph operation for the category,
// and synthesize an answer.
type QueryHandler struct {
	store       ports.EntityStore
	classifier  ports.Classifier
	self        *services.SelfResolver
	synthesizer *services.Synthesizer
	categories  services.CategoryTable
	maxDepth    int
	logger      *zap.Logger
}

// NewQueryHandler creates a query handler. classifier may be nil, in which
// case UNKNOWN questions stay UNKNOWN. logger may be nil.
func NewQueryHandler(
	store ports.EntityStore,
	classifier ports.Classifier,
	self *services.SelfResolver,
	categories services.CategoryTable,
	logger *zap.Logger,
) *QueryHandler {
	if categories == nil {
		categories = services.DefaultCategories()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryHandler{
		store:       store,
		classifier:  classifier,
		self:        self,
		synthesizer: services.NewSynthesizer(categories),
		categories:  categories,
		maxDepth:    services.DefaultMaxDepth,
		logger:      logger,
	}
}

// Ask answers a free-text question against the whole graph. The relationship
// index is rebuilt from current state on every call; there is no incremental
// caching to invalidate.
func (h *QueryHandler) Ask(ctx context.Context, question string) (*entities.QueryResult, error) {
	started := time.Now()

	queryType, classifiedBy, err := h.classify(ctx, question)
	if err != nil {
		return nil, err
	}
	classificationMS := time.Since(started).Milliseconds()

	graphStarted := time.Now()
	all, err := h.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}

	var self *entities.Entity
	if h.self != nil {
		self, err = h.self.Resolve(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving self entity: %w", err)
		}
	}

	mentions := services.ResolveEntities(question, all, self)
	graphQueryMS := time.Since(graphStarted).Milliseconds()

	synthStarted := time.Now()
	synthesis := h.dispatch(question, queryType, all, mentions, self)
	synthesisMS := time.Since(synthStarted).Milliseconds()

	h.logger.Debug("query answered",
		zap.String("type", string(queryType)),
		zap.String("classified_by", classifiedBy),
		zap.Int("mentions", len(mentions)),
		zap.Float64("confidence", synthesis.Confidence),
	)

	return &entities.QueryResult{
		Answer: synthesis.Answer,
		Query: entities.QueryInfo{
			Original:         question,
			Type:             queryType,
			ClassifiedBy:     classifiedBy,
			EntitiesResolved: mentions,
		},
		Entities:   synthesis.Entities,
		Paths:      synthesis.Paths,
		Gaps:       synthesis.Gaps,
		Conflicts:  synthesis.Conflicts,
		Confidence: synthesis.Confidence,
		Timing: entities.Timing{
			ClassificationMS: classificationMS,
			GraphQueryMS:     graphQueryMS,
			SynthesisMS:      synthesisMS,
			TotalMS:          time.Since(started).Milliseconds(),
		},
	}, nil
}

// classify runs the rule cascade and falls back to the external classifier
// collaborator for UNKNOWN questions.
func (h *QueryHandler) classify(ctx context.Context, question string) (entities.QueryType, string, error) {
	queryType := services.ClassifyQuery(question)
	if queryType != entities.QueryUnknown || h.classifier == nil {
		return queryType, classifiedByRules, nil
	}

	fallback, err := h.classifier.Classify(ctx, question)
	if err != nil {
		// The collaborator being unavailable is not fatal; the question
		// stays UNKNOWN.
		h.logger.Debug("external classifier failed", zap.Error(err))
		return entities.QueryUnknown, classifiedByRules, nil
	}
	return fallback, classifiedByLLM, nil
}

// dispatch runs the graph operation and synthesis for one query category.
func (h *QueryHandler) dispatch(
	question string,
	queryType entities.QueryType,
	all []*entities.Entity,
	mentions []entities.ResolvedMention,
	self *entities.Entity,
) services.Synthesis {
	switch queryType {
	case entities.QueryEntityLookup:
		return h.lookup(all, mentions, self)
	case entities.QueryRelationship:
		return h.relationship(all, mentions)
	case entities.QueryAggregation:
		return h.aggregate(question, all)
	case entities.QueryCompleteness:
		return h.subjectAnalysis(all, mentions, self, h.synthesizer.Completeness)
	case entities.QueryContradiction:
		return h.subjectAnalysis(all, mentions, self, h.synthesizer.Contradiction)
	default:
		return services.Synthesis{
			Answer:     "I couldn't understand that question. Try asking about an entity, a connection, or what's missing.",
			Confidence: 0,
		}
	}
}

func (h *QueryHandler) lookup(all []*entities.Entity, mentions []entities.ResolvedMention, self *entities.Entity) services.Synthesis {
	subject, ok := h.subject(all, mentions, self)
	if !ok {
		return h.synthesizer.NotFound(mentionText(mentions))
	}
	return h.synthesizer.EntityLookup(subject, self != nil && subject.ID == self.ID)
}

func (h *QueryHandler) relationship(all []*entities.Entity, mentions []entities.ResolvedMention) services.Synthesis {
	if len(mentions) < 2 {
		return h.synthesizer.NotFound(mentionText(mentions))
	}

	idx := services.BuildIndex(all)
	source, target := mentions[0], mentions[1]
	paths := services.FindPaths(source.EntityID, target.EntityID, idx, h.maxDepth)
	return h.synthesizer.Relationship(source.Name, target.Name, paths, h.maxDepth)
}

// aggregate counts entities, narrowing to a type when the question names one.
func (h *QueryHandler) aggregate(question string, all []*entities.Entity) services.Synthesis {
	matched := all
	if t := typeFromQuestion(question); t != "" {
		matched = services.FilterEntities(map[string]string{"type": string(t)}, all)
	}
	return h.synthesizer.Aggregation(matched)
}

// subjectAnalysis applies a per-entity template (completeness or
// contradiction) to the question's subject.
func (h *QueryHandler) subjectAnalysis(
	all []*entities.Entity,
	mentions []entities.ResolvedMention,
	self *entities.Entity,
	template func(*entities.Entity, bool) services.Synthesis,
) services.Synthesis {
	subject, ok := h.subject(all, mentions, self)
	if !ok {
		return h.synthesizer.NotFound(mentionText(mentions))
	}
	return template(subject, self != nil && subject.ID == self.ID)
}

// subject picks the question's subject entity: the first resolved non-self
// mention, then a self mention, then the self entity. "What am I missing
// about Steve?" analyzes Steve, not the graph owner.
func (h *QueryHandler) subject(all []*entities.Entity, mentions []entities.ResolvedMention, self *entities.Entity) (*entities.Entity, bool) {
	byID := make(map[string]*entities.Entity, len(all))
	for _, e := range all {
		byID[e.ID] = e
	}

	for _, m := range mentions {
		if m.IsSelf {
			continue
		}
		if e, ok := byID[m.EntityID]; ok {
			return e, true
		}
	}
	for _, m := range mentions {
		if e, ok := byID[m.EntityID]; ok {
			return e, true
		}
	}
	if self != nil {
		return self, true
	}
	return nil, false
}

func mentionText(mentions []entities.ResolvedMention) string {
	if len(mentions) == 0 {
		return "that"
	}
	return mentions[0].Mention
}

// typeQuestionWords maps words a question may use to an entity type filter.
var typeQuestionWords = map[string]entities.EntityType{
	"people":        entities.TypePerson,
	"person":        entities.TypePerson,
	"businesses":    entities.TypeBusiness,
	"business":      entities.TypeBusiness,
	"companies":     entities.TypeBusiness,
	"company":       entities.TypeBusiness,
	"organizations": entities.TypeOrganization,
	"organization":  entities.TypeOrganization,
	"institutions":  entities.TypeInstitution,
	"institution":   entities.TypeInstitution,
	"schools":       entities.TypeInstitution,
	"roles":         entities.TypeRole,
	"skills":        entities.TypeSkill,
}

func typeFromQuestion(question string) entities.EntityType {
	for _, w := range strings.Fields(strings.ToLower(question)) {
		w = strings.Trim(w, "?.,!'\"")
		if t, ok := typeQuestionWords[w]; ok {
			return t
		}
	}
	return ""
}
