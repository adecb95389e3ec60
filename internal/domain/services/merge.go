package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// ErrEntitiesDoNotMatch is returned when a merge is requested for two records
// that identity resolution does not consider the same entity.
var ErrEntitiesDoNotMatch = errors.New("entities do not match")

// Dedup thresholds for the field-category merge rules.
const (
	relationshipDedupThreshold = 0.85
	factDedupThreshold         = 0.90
	namedItemDedupThreshold    = 0.85
)

// MergeOptions controls a merge call.
type MergeOptions struct {
	// IsSelfEntity protects the designated self entity: its full/preferred
	// name and summary are never overwritten by incoming data.
	IsSelfEntity bool
	// SourceName labels the incoming record in the merge history.
	SourceName string
}

// Merger reconciles matched entity records field by field under
// confidence/recency rules.
type Merger struct {
	categories CategoryTable
}

// NewMerger creates a merge engine using the given relationship-category
// table for edge deduplication.
func NewMerger(categories CategoryTable) *Merger {
	if categories == nil {
		categories = DefaultCategories()
	}
	return &Merger{categories: categories}
}

// Merge reconciles incoming into base and returns the merged record plus the
// field-level change log. The inputs are not mutated; the caller persists the
// result. Returns ErrEntitiesDoNotMatch when identity resolution rejects the
// pair — callers must check for this rather than expecting a panic.
func (m *Merger) Merge(base, incoming *entities.Entity, opts MergeOptions) (*entities.Entity, []entities.ChangeEvent, error) {
	if !EntitiesMatch(base, incoming) {
		return nil, nil, ErrEntitiesDoNotMatch
	}

	merged, err := cloneEntity(base)
	if err != nil {
		return nil, nil, fmt.Errorf("cloning base entity: %w", err)
	}

	ids := entities.NewIDAllocator(merged)
	var changes []entities.ChangeEvent

	changes = append(changes, m.mergeNameAndSummary(merged, incoming, opts.IsSelfEntity)...)
	changes = append(changes, m.mergeAttributes(merged, incoming, ids)...)
	changes = append(changes, m.mergeRelationships(merged, incoming, ids)...)
	changes = append(changes, m.mergeKeyFacts(merged, incoming, ids)...)
	changes = append(changes, m.mergeNamedCollections(merged, incoming, ids)...)
	changes = append(changes, m.mergeConstraints(merged, incoming, ids)...)
	changes = append(changes, m.mergeObservations(merged, incoming)...)

	m.mergeProvenance(merged, incoming, opts.SourceName, changes)

	return merged, changes, nil
}

// mergeNameAndSummary applies the confidence rules for the name block and
// summary. Aliases are always unioned, even for the self entity.
func (m *Merger) mergeNameAndSummary(merged, incoming *entities.Entity, isSelf bool) []entities.ChangeEvent {
	var changes []entities.ChangeEvent

	incomingConf := summaryConfidence(incoming)
	baseConf := summaryConfidence(merged)
	higher := incomingConf > baseConf

	if !isSelf {
		if incoming.Name.Full != "" && incoming.Name.Full != merged.Name.Full && (merged.Name.Full == "" || higher) {
			changes = append(changes, change("name_updated", "name.full", merged.Name.Full, incoming.Name.Full))
			merged.Name.Full = incoming.Name.Full
		}
		if incoming.Name.Preferred != "" && incoming.Name.Preferred != merged.Name.Preferred && (merged.Name.Preferred == "" || higher) {
			changes = append(changes, change("name_updated", "name.preferred", merged.Name.Preferred, incoming.Name.Preferred))
			merged.Name.Preferred = incoming.Name.Preferred
		}
		if incoming.Summary != nil && higher {
			prev := ""
			if merged.Summary != nil {
				prev = merged.Summary.Text
			}
			changes = append(changes, change("summary_updated", "summary", prev, incoming.Summary.Text))
			summary := *incoming.Summary
			merged.Summary = &summary
		}
	}

	if incoming.Name.Common != "" && incoming.Name.Common != merged.Name.Common && (merged.Name.Common == "" || higher) {
		changes = append(changes, change("name_updated", "name.common", merged.Name.Common, incoming.Name.Common))
		merged.Name.Common = incoming.Name.Common
	}
	if incoming.Name.Legal != "" && incoming.Name.Legal != merged.Name.Legal && (merged.Name.Legal == "" || higher) {
		changes = append(changes, change("name_updated", "name.legal", merged.Name.Legal, incoming.Name.Legal))
		merged.Name.Legal = incoming.Name.Legal
	}

	known := make(map[string]bool)
	for _, n := range merged.AllNames() {
		known[entities.NormalizeName(n)] = true
	}
	for _, alias := range incoming.AllNames() {
		key := entities.NormalizeName(alias)
		if known[key] {
			continue
		}
		known[key] = true
		merged.Name.Aliases = append(merged.Name.Aliases, alias)
		changes = append(changes, change("alias_added", "name.aliases", "", alias))
	}

	return changes
}

// mergeAttributes reconciles attributes keyed by key. Existing wins unless
// incoming confidence is strictly higher; a confidence tie goes to the
// incoming value when its captured date is at least as recent and the value
// actually differs.
func (m *Merger) mergeAttributes(merged, incoming *entities.Entity, ids *entities.IDAllocator) []entities.ChangeEvent {
	var changes []entities.ChangeEvent

	for _, in := range incoming.Attributes {
		idx := -1
		for i := range merged.Attributes {
			if strings.EqualFold(merged.Attributes[i].Key, in.Key) {
				idx = i
				break
			}
		}

		if idx < 0 {
			in.ID = ids.Next(entities.PrefixAttribute)
			if in.ConfidenceLabel == "" {
				in.ConfidenceLabel = entities.ConfidenceLabel(in.Confidence)
			}
			merged.Attributes = append(merged.Attributes, in)
			changes = append(changes, change("attribute_added", in.Key, "", entities.ValueString(in.Value)))
			continue
		}

		existing := &merged.Attributes[idx]
		switch {
		case in.Confidence > existing.Confidence:
			changes = append(changes, change("attribute_replaced", in.Key,
				entities.ValueString(existing.Value), entities.ValueString(in.Value)))
			replaceAttribute(existing, in)
		case in.Confidence == existing.Confidence &&
			in.CapturedDate >= existing.CapturedDate &&
			entities.ValueString(in.Value) != entities.ValueString(existing.Value):
			changes = append(changes, change("attribute_replaced_same_confidence", in.Key,
				entities.ValueString(existing.Value), entities.ValueString(in.Value)))
			replaceAttribute(existing, in)
		}
	}

	return changes
}

// replaceAttribute swaps in the incoming value while preserving the existing
// attribute ID.
func replaceAttribute(existing *entities.Attribute, in entities.Attribute) {
	existing.Value = in.Value
	existing.Confidence = in.Confidence
	existing.ConfidenceLabel = in.ConfidenceLabel
	if existing.ConfidenceLabel == "" {
		existing.ConfidenceLabel = entities.ConfidenceLabel(in.Confidence)
	}
	if in.CapturedDate != "" {
		existing.CapturedDate = in.CapturedDate
	}
}

// mergeRelationships deduplicates edges by fuzzy target name plus normalized
// relationship category. On collision the more descriptive or more confident
// variant wins, keeping the original relationship_id.
func (m *Merger) mergeRelationships(merged, incoming *entities.Entity, ids *entities.IDAllocator) []entities.ChangeEvent {
	var changes []entities.ChangeEvent

	for _, in := range incoming.Relationships {
		idx := -1
		for i := range merged.Relationships {
			existing := &merged.Relationships[i]
			if Similarity(existing.Name, in.Name) > relationshipDedupThreshold &&
				m.categories.Categorize(existing.Type) == m.categories.Categorize(in.Type) {
				idx = i
				break
			}
		}

		if idx < 0 {
			in.ID = ids.Next(entities.PrefixRelationship)
			merged.Relationships = append(merged.Relationships, in)
			changes = append(changes, change("relationship_added", in.Name, "", in.Type))
			continue
		}

		existing := &merged.Relationships[idx]
		if in.Sentiment != "" && existing.Sentiment != "" && in.Sentiment != existing.Sentiment {
			changes = append(changes, change("relationship_sentiment_changed", existing.Name, existing.Sentiment, in.Sentiment))
		}

		if descriptiveness(in) > descriptiveness(*existing) || in.Confidence > existing.Confidence {
			changes = append(changes, change("relationship_updated", existing.Name, existing.Type, in.Type))
			id := existing.ID
			*existing = in
			existing.ID = id
		} else if in.Sentiment != "" && in.Sentiment != existing.Sentiment {
			existing.Sentiment = in.Sentiment
		}
	}

	return changes
}

// descriptiveness measures how much descriptive text an edge carries.
func descriptiveness(r entities.Relationship) int {
	return len(r.Context) + len(r.Type)
}

// mergeKeyFacts deduplicates facts at a tight threshold over the fact text;
// incoming replaces only on strictly higher confidence.
func (m *Merger) mergeKeyFacts(merged, incoming *entities.Entity, ids *entities.IDAllocator) []entities.ChangeEvent {
	var changes []entities.ChangeEvent

	for _, in := range incoming.KeyFacts {
		idx := -1
		for i := range merged.KeyFacts {
			if Similarity(merged.KeyFacts[i].Fact, in.Fact) > factDedupThreshold {
				idx = i
				break
			}
		}

		if idx < 0 {
			in.ID = ids.Next(entities.PrefixFact)
			merged.KeyFacts = append(merged.KeyFacts, in)
			changes = append(changes, change("fact_added", "key_facts", "", in.Fact))
			continue
		}

		existing := &merged.KeyFacts[idx]
		if in.Confidence > existing.Confidence {
			changes = append(changes, change("fact_updated", "key_facts", existing.Fact, in.Fact))
			existing.Fact = in.Fact
			existing.Confidence = in.Confidence
		}
	}

	return changes
}

// mergeNamedCollections applies the shared name-keyed rule to values, active
// projects, products/services, key people and customer segments: dedup by
// fuzzy name, replace on strictly higher confidence preserving the ID, append
// unmatched items under a fresh sequential ID.
func (m *Merger) mergeNamedCollections(merged, incoming *entities.Entity, ids *entities.IDAllocator) []entities.ChangeEvent {
	var changes []entities.ChangeEvent

	for _, in := range incoming.Values {
		if i := matchByName(in.Name, merged.Values, func(v entities.Value) string { return v.Name }); i >= 0 {
			if in.Confidence > merged.Values[i].Confidence {
				changes = append(changes, change("value_updated", "values", merged.Values[i].Name, in.Name))
				in.ID = merged.Values[i].ID
				merged.Values[i] = in
			}
		} else {
			in.ID = ids.Next(entities.PrefixValue)
			merged.Values = append(merged.Values, in)
			changes = append(changes, change("value_added", "values", "", in.Name))
		}
	}

	for _, in := range incoming.ActiveProjects {
		if i := matchByName(in.Name, merged.ActiveProjects, func(p entities.Project) string { return p.Name }); i >= 0 {
			if in.Confidence > merged.ActiveProjects[i].Confidence {
				changes = append(changes, change("project_updated", "active_projects", merged.ActiveProjects[i].Name, in.Name))
				in.ID = merged.ActiveProjects[i].ID
				merged.ActiveProjects[i] = in
			}
		} else {
			in.ID = ids.Next(entities.PrefixProject)
			merged.ActiveProjects = append(merged.ActiveProjects, in)
			changes = append(changes, change("project_added", "active_projects", "", in.Name))
		}
	}

	for _, in := range incoming.ProductsServices {
		if i := matchByName(in.Name, merged.ProductsServices, func(p entities.Product) string { return p.Name }); i >= 0 {
			if in.Confidence > merged.ProductsServices[i].Confidence {
				changes = append(changes, change("product_updated", "products_services", merged.ProductsServices[i].Name, in.Name))
				in.ID = merged.ProductsServices[i].ID
				merged.ProductsServices[i] = in
			}
		} else {
			in.ID = ids.Next(entities.PrefixProduct)
			merged.ProductsServices = append(merged.ProductsServices, in)
			changes = append(changes, change("product_added", "products_services", "", in.Name))
		}
	}

	for _, in := range incoming.KeyPeople {
		if i := matchByName(in.Name, merged.KeyPeople, func(p entities.KeyPerson) string { return p.Name }); i >= 0 {
			if in.Confidence > merged.KeyPeople[i].Confidence {
				changes = append(changes, change("key_person_updated", "key_people", merged.KeyPeople[i].Name, in.Name))
				in.ID = merged.KeyPeople[i].ID
				merged.KeyPeople[i] = in
			}
		} else {
			in.ID = ids.Next(entities.PrefixPerson)
			merged.KeyPeople = append(merged.KeyPeople, in)
			changes = append(changes, change("key_person_added", "key_people", "", in.Name))
		}
	}

	for _, in := range incoming.CustomerSegments {
		if i := matchByName(in.Name, merged.CustomerSegments, func(s entities.Segment) string { return s.Name }); i >= 0 {
			if in.Confidence > merged.CustomerSegments[i].Confidence {
				changes = append(changes, change("segment_updated", "customer_segments", merged.CustomerSegments[i].Name, in.Name))
				in.ID = merged.CustomerSegments[i].ID
				merged.CustomerSegments[i] = in
			}
		} else {
			in.ID = ids.Next(entities.PrefixSegment)
			merged.CustomerSegments = append(merged.CustomerSegments, in)
			changes = append(changes, change("segment_added", "customer_segments", "", in.Name))
		}
	}

	return changes
}

// matchByName finds the first item whose name fuzzily matches the incoming
// name, or -1.
func matchByName[T any](name string, items []T, nameOf func(T) string) int {
	for i := range items {
		if Similarity(nameOf(items[i]), name) > namedItemDedupThreshold {
			return i
		}
	}
	return -1
}

// mergeConstraints deduplicates constraints by name; unmatched incoming
// constraints keep their declared origin (business vs external) when picking
// the new ID prefix.
func (m *Merger) mergeConstraints(merged, incoming *entities.Entity, ids *entities.IDAllocator) []entities.ChangeEvent {
	var changes []entities.ChangeEvent

	for _, in := range incoming.Constraints {
		if i := matchByName(in.Name, merged.Constraints, func(c entities.Constraint) string { return c.Name }); i >= 0 {
			if in.Confidence > merged.Constraints[i].Confidence {
				merged.Constraints[i].Confidence = in.Confidence
			}
			continue
		}
		prefix := entities.PrefixConstraintBiz
		if strings.HasPrefix(in.ID, entities.PrefixConstraintExt) {
			prefix = entities.PrefixConstraintExt
		}
		in.ID = ids.Next(prefix)
		merged.Constraints = append(merged.Constraints, in)
		changes = append(changes, change("constraint_added", "constraints", "", in.Name))
	}

	return changes
}

// mergeObservations unions observation strings, exact-match deduplicated.
func (m *Merger) mergeObservations(merged, incoming *entities.Entity) []entities.ChangeEvent {
	var changes []entities.ChangeEvent

	seen := make(map[string]bool, len(merged.Observations))
	for _, o := range merged.Observations {
		seen[o] = true
	}
	for _, o := range incoming.Observations {
		if seen[o] {
			continue
		}
		seen[o] = true
		merged.Observations = append(merged.Observations, o)
		changes = append(changes, change("observation_added", "observations", "", o))
	}

	return changes
}

// mergeProvenance appends unseen source documents (deduplicated by content
// hash) and records exactly one merge-history entry for this call.
func (m *Merger) mergeProvenance(merged, incoming *entities.Entity, sourceName string, changes []entities.ChangeEvent) {
	known := make(map[string]bool, len(merged.Provenance.SourceDocuments))
	for _, doc := range merged.Provenance.SourceDocuments {
		known[doc.Hash] = true
	}
	for _, doc := range incoming.Provenance.SourceDocuments {
		if doc.Hash == "" || known[doc.Hash] {
			continue
		}
		known[doc.Hash] = true
		merged.Provenance.SourceDocuments = append(merged.Provenance.SourceDocuments, doc)
	}

	if sourceName == "" {
		sourceName = incoming.DisplayName()
	}
	merged.Provenance.MergeHistory = append(merged.Provenance.MergeHistory, entities.MergeEvent{
		EventID:    uuid.New().String(),
		MergedAt:   time.Now().UTC(),
		SourceName: sourceName,
		Changes:    changes,
	})
}

func summaryConfidence(e *entities.Entity) float64 {
	if e.Summary == nil {
		return 0
	}
	return e.Summary.Confidence
}

func change(kind, field, previous, current string) entities.ChangeEvent {
	return entities.ChangeEvent{Kind: kind, Field: field, Previous: previous, Current: current}
}

// cloneEntity deep-copies a record through its JSON form.
func cloneEntity(e *entities.Entity) (*entities.Entity, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var clone entities.Entity
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil, err
	}
	return &clone, nil
}
