package services

import (
	"github.com/ersonp/kin-core/internal/domain/entities"
)

// Edge is one directed connection in the relationship index.
type Edge struct {
	TargetID     string  `json:"target_id,omitempty"`
	TargetName   string  `json:"target_name"`
	Relationship string  `json:"relationship"`
	Confidence   float64 `json:"confidence"`
	// SourceEntity is the entity whose record declared this edge; reverse
	// edges keep the declaring record's ID.
	SourceEntity string `json:"source_entity"`
}

// RelationshipIndex is a derived, ephemeral adjacency structure over the
// whole collection. It is rebuilt fresh per query and never persisted.
type RelationshipIndex struct {
	Edges    map[string][]Edge
	NameToID map[string]string
	Names    map[string]string // entityID -> display name
}

// inverseLabels maps a relationship label to its reverse-direction label.
// Symmetric labels map to themselves; labels not listed keep their own label
// on the reverse edge.
var inverseLabels = map[string]string{
	"works_at":   "employs",
	"employs":    "works_at",
	"parent_of":  "child_of",
	"child_of":   "parent_of",
	"founded":    "founded_by",
	"founded_by": "founded",
	"attended":   "has_alumni",
	"has_alumni": "attended",
	"reports_to": "manages",
	"manages":    "reports_to",
	"leads":      "led_by",
	"led_by":     "leads",
	"friend_of":  "friend_of",
	"married_to": "married_to",
	"sibling_of": "sibling_of",
	"knows":      "knows",
}

// InvertLabel returns the reverse-direction label for a relationship type.
func InvertLabel(label string) string {
	if inv, ok := inverseLabels[label]; ok {
		return inv
	}
	return label
}

// BuildIndex constructs the bidirectional relationship index. Relationship
// targets are referenced by display name, not ID, so the name table must be
// complete before any edge is resolved: pass 1 registers every entity's names
// and aliases, pass 2 builds forward edges and, where the target resolves,
// immediate reverse edges with inverted labels.
func BuildIndex(all []*entities.Entity) *RelationshipIndex {
	idx := &RelationshipIndex{
		Edges:    make(map[string][]Edge),
		NameToID: make(map[string]string),
		Names:    make(map[string]string),
	}

	for _, e := range all {
		idx.Names[e.ID] = e.DisplayName()
		for _, name := range e.AllNames() {
			key := entities.NormalizeName(name)
			if _, taken := idx.NameToID[key]; !taken {
				idx.NameToID[key] = e.ID
			}
		}
	}

	for _, e := range all {
		for i := range e.Relationships {
			rel := &e.Relationships[i]
			targetID := idx.NameToID[entities.NormalizeName(rel.Name)]

			idx.Edges[e.ID] = append(idx.Edges[e.ID], Edge{
				TargetID:     targetID,
				TargetName:   rel.Name,
				Relationship: rel.Type,
				Confidence:   rel.Confidence,
				SourceEntity: e.ID,
			})

			if targetID != "" && targetID != e.ID {
				idx.Edges[targetID] = append(idx.Edges[targetID], Edge{
					TargetID:     e.ID,
					TargetName:   e.DisplayName(),
					Relationship: InvertLabel(rel.Type),
					Confidence:   rel.Confidence,
					SourceEntity: e.ID,
				})
			}
		}
	}

	return idx
}

// ResolveName returns the entity ID registered for a display name, or "".
func (idx *RelationshipIndex) ResolveName(name string) string {
	return idx.NameToID[entities.NormalizeName(name)]
}

// DisplayName returns the display name recorded for an entity ID, falling
// back to the ID itself.
func (idx *RelationshipIndex) DisplayName(entityID string) string {
	if n, ok := idx.Names[entityID]; ok {
		return n
	}
	return entityID
}
