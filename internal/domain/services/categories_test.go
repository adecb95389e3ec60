package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	table := DefaultCategories()

	cases := map[string]string{
		"friend_of":      CategorySocial,
		"knows":          CategorySocial,
		"works_at":       CategoryProfessional,
		"employs":        CategoryProfessional,
		"reports_to":     CategoryProfessional,
		"founded":        CategoryProfessional,
		"parent_of":      CategoryFamily,
		"married_to":     CategoryFamily,
		"sister":         CategoryFamily,
		"attended":       CategoryEducation,
		"studied_under":  CategoryEducation,
		"former_manager": CategoryProfessional,
	}
	for relType, want := range cases {
		assert.Equal(t, want, table.Categorize(relType), "type: %q", relType)
	}
}

func TestCategorizeUnknownTypeFallsBackToItself(t *testing.T) {
	table := DefaultCategories()

	assert.Equal(t, "rival of", table.Categorize("rival_of"))
	assert.Equal(t, "rival of", table.Categorize("RIVAL_OF"),
		"fallback is normalized so unknown types still deduplicate against themselves")
}

func TestCategorizeCustomCategory(t *testing.T) {
	table := DefaultCategories()
	table["creative"] = []string{"bandmate", "cowrote"}

	assert.Equal(t, "creative", table.Categorize("bandmate_of"))
	assert.Equal(t, CategorySocial, table.Categorize("friend_of"),
		"built-in categories keep precedence over custom ones")
}
