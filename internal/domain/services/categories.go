package services

import (
	"sort"
	"strings"
)

// Relationship categories: coarse buckets that many literal relationship-type
// strings normalize into, used to decide whether two relationship entries
// describe the same edge.
const (
	CategoryFamily       = "family"
	CategorySocial       = "social"
	CategoryProfessional = "professional"
	CategoryEducation    = "education"
)

// CategoryTable maps relationship categories to the keywords that indicate
// them. The table is configuration: config.yaml may extend or override the
// defaults.
type CategoryTable map[string][]string

// DefaultCategories returns the built-in category keyword table.
func DefaultCategories() CategoryTable {
	return CategoryTable{
		CategoryFamily: {
			"parent", "child", "mother", "father", "son", "daughter",
			"sibling", "brother", "sister", "spouse", "married", "husband",
			"wife", "cousin", "uncle", "aunt", "grandparent", "grandfather",
			"grandmother", "family",
		},
		CategorySocial: {
			"friend", "neighbor", "roommate", "knows", "acquaintance",
		},
		CategoryProfessional: {
			"works", "employ", "colleague", "coworker", "manager", "manages",
			"reports", "boss", "founded", "founder", "ceo", "investor",
			"client", "customer", "partner", "advisor", "mentor", "leads",
			"led",
		},
		CategoryEducation: {
			"attended", "alumni", "studied", "classmate", "teacher",
			"student", "professor",
		},
	}
}

// Categorize returns the category a literal relationship-type string belongs
// to. Categories are probed in a fixed order so overlapping keyword sets
// resolve deterministically. Types matching no keyword fall back to their own
// normalized form, so unknown types only deduplicate against themselves.
func (t CategoryTable) Categorize(relType string) string {
	normalized := strings.ToLower(strings.ReplaceAll(relType, "_", " "))
	for _, category := range t.order() {
		for _, kw := range t[category] {
			if strings.Contains(normalized, kw) {
				return category
			}
		}
	}
	return normalized
}

// order returns the category probe order: the built-in categories first, then
// any custom ones sorted by name.
func (t CategoryTable) order() []string {
	order := make([]string, 0, len(t))
	for _, c := range []string{CategoryFamily, CategorySocial, CategoryProfessional, CategoryEducation} {
		if _, ok := t[c]; ok {
			order = append(order, c)
		}
	}
	var custom []string
	for c := range t {
		switch c {
		case CategoryFamily, CategorySocial, CategoryProfessional, CategoryEducation:
		default:
			custom = append(custom, c)
		}
	}
	sort.Strings(custom)
	return append(order, custom...)
}
