package services

import (
	"strings"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// FilterEntities returns the entities matching every filter (AND semantics).
// "type"/"entity_type" compare case-insensitively, "name" is substring
// containment, and any other key — dot-delimited, with an implicit
// "attributes." prefix — is substring-matched against a flattened attribute
// map built per entity.
func FilterEntities(filters map[string]string, all []*entities.Entity) []*entities.Entity {
	var matched []*entities.Entity

	for _, e := range all {
		if entityMatchesFilters(filters, e) {
			matched = append(matched, e)
		}
	}
	return matched
}

func entityMatchesFilters(filters map[string]string, e *entities.Entity) bool {
	var flat map[string]string

	for key, want := range filters {
		switch strings.ToLower(key) {
		case "type", "entity_type":
			if !strings.EqualFold(string(e.Type), want) {
				return false
			}
		case "name":
			if !containsFold(e.DisplayName(), want) {
				return false
			}
		default:
			if flat == nil {
				flat = flattenAttributes(e)
			}
			attrKey := strings.ToLower(strings.TrimPrefix(key, "attributes."))
			if !containsFold(flat[attrKey], want) {
				return false
			}
		}
	}
	return true
}

// flattenAttributes builds the per-entity lookup map: scalar attribute values
// keyed by attribute key, nested structured values recursively flattened with
// dot-joined keys.
func flattenAttributes(e *entities.Entity) map[string]string {
	flat := make(map[string]string)
	for i := range e.Attributes {
		flattenValue(strings.ToLower(e.Attributes[i].Key), e.Attributes[i].Value, flat)
	}
	return flat
}

func flattenValue(prefix string, v any, flat map[string]string) {
	if nested, ok := v.(map[string]any); ok {
		for k, sub := range nested {
			flattenValue(prefix+"."+strings.ToLower(k), sub, flat)
		}
		return
	}
	if s := entities.ValueString(v); s != "" {
		flat[prefix] = s
	}
}
