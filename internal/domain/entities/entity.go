// Package entities contains core domain data structures.
package entities

import (
	"strings"
	"time"
)

// EntityType categorizes an entity record.
type EntityType string

// Known entity types. Records may carry other values; type checks treat
// organization and institution as interchangeable.
const (
	TypePerson       EntityType = "person"
	TypeBusiness     EntityType = "business"
	TypeInstitution  EntityType = "institution"
	TypeOrganization EntityType = "organization"
	TypeRole         EntityType = "role"
	TypeCredential   EntityType = "credential"
	TypeSkill        EntityType = "skill"
)

// Entity is a canonical record for a person, organization or other subject.
// One JSON document per entity_id; mutated only through the merge engine or
// direct field edits, never deleted by this core.
type Entity struct {
	ID            string         `json:"entity_id"`
	Type          EntityType     `json:"entity_type,omitempty"`
	Name          Name           `json:"name"`
	Summary       *Summary       `json:"summary,omitempty"`
	Attributes    []Attribute    `json:"attributes,omitempty"`
	Relationships []Relationship `json:"relationships,omitempty"`
	KeyFacts      []KeyFact      `json:"key_facts,omitempty"`
	Values        []Value        `json:"values,omitempty"`
	Observations  []string       `json:"observations,omitempty"`

	// Type-specific collections.
	ActiveProjects   []Project    `json:"active_projects,omitempty"`
	ProductsServices []Product    `json:"products_services,omitempty"`
	KeyPeople        []KeyPerson  `json:"key_people,omitempty"`
	CustomerSegments []Segment    `json:"customer_segments,omitempty"`
	Constraints      []Constraint `json:"constraints,omitempty"`

	CareerProfile *CareerProfile `json:"career_profile,omitempty"`

	// RecordedConflicts holds contradictions noticed at ingestion time and
	// carried on the record until resolved.
	RecordedConflicts []Conflict `json:"recorded_conflicts,omitempty"`

	Provenance Provenance `json:"provenance_chain"`
}

// Name is the name block of an entity record.
type Name struct {
	Full      string   `json:"full,omitempty"`
	Preferred string   `json:"preferred,omitempty"`
	Common    string   `json:"common,omitempty"`
	Legal     string   `json:"legal,omitempty"`
	Aliases   []string `json:"aliases,omitempty"`
}

// Summary is free text about the entity with extraction confidence.
type Summary struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Attribute is a single key/value observation. Keys are not unique across
// time: two values for one key may coexist when confidences tie.
type Attribute struct {
	ID              string  `json:"attribute_id"`
	Key             string  `json:"key"`
	Value           any     `json:"value"`
	Confidence      float64 `json:"confidence"`
	ConfidenceLabel string  `json:"confidence_label,omitempty"`
	CapturedDate    string  `json:"captured_date,omitempty"`
}

// Relationship is a directed edge owned by the record. The target is
// referenced by display name; ID resolution happens at index-build time.
type Relationship struct {
	ID         string  `json:"relationship_id"`
	Name       string  `json:"name"`
	Type       string  `json:"relationship_type"`
	Context    string  `json:"context,omitempty"`
	Sentiment  string  `json:"sentiment,omitempty"`
	Confidence float64 `json:"confidence"`
}

// KeyFact is a discrete factual statement about the entity.
type KeyFact struct {
	ID         string  `json:"fact_id"`
	Fact       string  `json:"fact"`
	Confidence float64 `json:"confidence"`
}

// Value is a personal or organizational value held by the entity.
type Value struct {
	ID         string  `json:"value_id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Project is an active project tracked for the entity.
type Project struct {
	ID         string  `json:"project_id"`
	Name       string  `json:"name"`
	Status     string  `json:"status,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Product is a product or service offered by a business entity.
type Product struct {
	ID         string  `json:"product_id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// KeyPerson is a person of note attached to an organization record.
type KeyPerson struct {
	ID         string  `json:"person_id"`
	Name       string  `json:"name"`
	Role       string  `json:"role,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Segment is a customer segment served by a business entity.
type Segment struct {
	ID         string  `json:"segment_id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Constraint is a limiting factor on the entity, of business or external origin.
type Constraint struct {
	ID         string  `json:"constraint_id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// CareerProfile is a fallback block for contact and employment details that
// may not be present as attributes.
type CareerProfile struct {
	Email    string   `json:"email,omitempty"`
	Company  string   `json:"company,omitempty"`
	Location string   `json:"location,omitempty"`
	LinkedIn string   `json:"linkedin_url,omitempty"`
	Skills   []string `json:"skills,omitempty"`
}

// Provenance records where an entity's data came from. merge_history and
// source_documents are append-only; documents are deduplicated by hash.
type Provenance struct {
	CreatedAt       time.Time        `json:"created_at"`
	CreatedBy       string           `json:"created_by,omitempty"`
	SourceDocuments []SourceDocument `json:"source_documents,omitempty"`
	MergeHistory    []MergeEvent     `json:"merge_history,omitempty"`
}

// SourceDocument identifies one ingested document by content hash.
type SourceDocument struct {
	Name string `json:"name,omitempty"`
	Hash string `json:"hash"`
}

// MergeEvent is one entry in the append-only merge history.
type MergeEvent struct {
	EventID    string        `json:"event_id"`
	MergedAt   time.Time     `json:"merged_at"`
	SourceName string        `json:"source,omitempty"`
	Changes    []ChangeEvent `json:"changes,omitempty"`
}

// ChangeEvent is one field-level change recorded during a merge.
type ChangeEvent struct {
	Kind     string `json:"kind"`
	Field    string `json:"field"`
	Previous string `json:"previous,omitempty"`
	Current  string `json:"current,omitempty"`
}

// NormalizeName converts a name to lowercase for case-insensitive matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DisplayName returns the best display name for the entity: full name for
// persons, common or legal name for organizations, falling back through the
// name block in that order.
func (e *Entity) DisplayName() string {
	for _, n := range []string{e.Name.Full, e.Name.Common, e.Name.Preferred, e.Name.Legal} {
		if n != "" {
			return n
		}
	}
	return e.ID
}

// PrimaryName returns the name used for identity comparison: full name for
// persons, common or legal name for everything else.
func (e *Entity) PrimaryName() string {
	if e.Type == TypePerson {
		return e.Name.Full
	}
	if e.Name.Common != "" {
		return e.Name.Common
	}
	return e.Name.Legal
}

// AllNames returns every known name for the entity (full, preferred, common,
// legal, aliases), deduplicated case-insensitively, original casing preserved.
func (e *Entity) AllNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, n := range append([]string{e.Name.Full, e.Name.Preferred, e.Name.Common, e.Name.Legal}, e.Name.Aliases...) {
		if n == "" {
			continue
		}
		key := NormalizeName(n)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, n)
	}
	return names
}

// Attr returns the value of the first attribute matching any of the given
// keys (case-insensitive), or "" if none is present.
func (e *Entity) Attr(keys ...string) string {
	for _, k := range keys {
		for i := range e.Attributes {
			if strings.EqualFold(e.Attributes[i].Key, k) {
				return ValueString(e.Attributes[i].Value)
			}
		}
	}
	return ""
}

// Email returns the entity's email, preferring attributes and falling back to
// the career profile block. Lowercased for comparison.
func (e *Entity) Email() string {
	if v := e.Attr("email", "email_address"); v != "" {
		return strings.ToLower(strings.TrimSpace(v))
	}
	if e.CareerProfile != nil && e.CareerProfile.Email != "" {
		return strings.ToLower(strings.TrimSpace(e.CareerProfile.Email))
	}
	return ""
}

// Skills returns the entity's known skills from attributes and the career
// profile block.
func (e *Entity) Skills() []string {
	var skills []string
	for i := range e.Attributes {
		if strings.EqualFold(e.Attributes[i].Key, "skill") || strings.EqualFold(e.Attributes[i].Key, "skills") {
			skills = append(skills, ValueString(e.Attributes[i].Value))
		}
	}
	if e.CareerProfile != nil {
		skills = append(skills, e.CareerProfile.Skills...)
	}
	return skills
}
