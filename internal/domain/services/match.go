package services

import (
	"strings"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// Thresholds for the identity-resolution cascade.
const (
	nameMatchThreshold     = 0.85
	weakNameThreshold      = 0.5
	companyMatchThreshold  = 0.7
	locationMatchThreshold = 0.6
	skillMatchThreshold    = 0.85
	minSkillOverlap        = 3
	minPropertyOverlap     = 2
	shortTokenMax          = 4
)

// legalSuffixes are trailing tokens stripped from organization names before
// fuzzy comparison ("Acme Inc." vs "Acme").
var legalSuffixes = []string{".com", "inc.", "inc", "llc.", "llc", "corp.", "corp", "ltd.", "ltd"}

// EntitiesMatch decides whether two independently observed records refer to
// the same real-world entity. It is an ordered short-circuit cascade: cheap
// high-precision checks first, evidence aggregation only for the ambiguous
// person case. Rule order is significant.
func EntitiesMatch(base, incoming *entities.Entity) bool {
	// Rule 1: explicit ID equality.
	if base.ID != "" && base.ID == incoming.ID {
		return true
	}

	// Rule 2: exact email equality.
	if be, ie := base.Email(), incoming.Email(); be != "" && be == ie {
		return true
	}

	// Rule 3: type compatibility gate. Organization and institution are
	// interchangeable; any other declared mismatch fails outright.
	if base.Type != "" && incoming.Type != "" && base.Type != incoming.Type {
		if !typesInterchangeable(base.Type, incoming.Type) {
			return false
		}
	}

	// Rule 4: primary-name similarity.
	if Similarity(base.PrimaryName(), incoming.PrimaryName()) > nameMatchThreshold {
		return true
	}

	if base.Type == entities.TypePerson || incoming.Type == entities.TypePerson {
		return personsMatch(base, incoming)
	}
	return organizationNamesMatch(base, incoming)
}

func typesInterchangeable(a, b entities.EntityType) bool {
	isOrg := func(t entities.EntityType) bool {
		return t == entities.TypeOrganization || t == entities.TypeInstitution
	}
	return isOrg(a) && isOrg(b)
}

// personsMatch applies the person-only enhanced rules: alias-aware name
// matching, property-heavy evidence, and shared relationships.
func personsMatch(base, incoming *entities.Entity) bool {
	if nameSetsMatch(base.AllNames(), incoming.AllNames()) {
		return true
	}

	nameSim := Similarity(base.PrimaryName(), incoming.PrimaryName())

	if nameSim > weakNameThreshold && propertyOverlap(base, incoming) >= minPropertyOverlap {
		return true
	}

	shared := sharedRelationships(base, incoming)
	if nameSim > weakNameThreshold && shared >= 1 {
		return true
	}
	return shared >= 2
}

// nameSetsMatch compares every known name of one record against every known
// name of the other. Two names match on fuzzy similarity, on a token-subset
// test in either direction, or on initials reduction in either direction.
func nameSetsMatch(a, b []string) bool {
	for _, na := range a {
		for _, nb := range b {
			if namesMatch(na, nb) {
				return true
			}
		}
	}
	return false
}

func namesMatch(a, b string) bool {
	if Similarity(a, b) > nameMatchThreshold {
		return true
	}
	if tokenSubsetMatch(a, b) || tokenSubsetMatch(b, a) {
		return true
	}
	return initialsMatch(a, b) || initialsMatch(b, a)
}

// tokenSubsetMatch reports whether every token of a multi-token name is
// matched by some token of the other name ("Steve Hughes" within
// "Steven Michael Hughes").
func tokenSubsetMatch(sub, full string) bool {
	subTokens := strings.Fields(sub)
	fullTokens := strings.Fields(full)
	if len(subTokens) < 2 {
		return false
	}
	for _, st := range subTokens {
		matched := false
		for _, ft := range fullTokens {
			if Similarity(st, ft) > nameMatchThreshold {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// initialsMatch reports whether the short name reduces to initials of the
// long name. "CJ Mitchell" matches "Clarence James Mitchell": the last
// tokens match and "CJ" equals the initials of the leading tokens. A single
// short token (<= 4 characters) standing alone matches the initials of the
// other name's non-last tokens. This check is directional and is not
// guaranteed symmetric; callers probe both directions.
func initialsMatch(short, long string) bool {
	shortTokens := strings.Fields(short)
	longTokens := strings.Fields(long)
	if len(longTokens) < 2 {
		return false
	}

	leading := initialsOf(longTokens[:len(longTokens)-1])

	if len(shortTokens) == 1 {
		t := shortTokens[0]
		return len(t) <= shortTokenMax && strings.EqualFold(t, leading)
	}

	last := shortTokens[len(shortTokens)-1]
	if Similarity(last, longTokens[len(longTokens)-1]) <= nameMatchThreshold {
		return false
	}
	return strings.EqualFold(shortTokens[0], leading)
}

func initialsOf(tokens []string) string {
	var b strings.Builder
	for _, t := range tokens {
		r := []rune(t)
		if len(r) > 0 {
			b.WriteRune(r[0])
		}
	}
	return b.String()
}

// propertyOverlap counts overlapping evidence signals between two person
// records: company, LinkedIn URL, email, location and skills.
func propertyOverlap(a, b *entities.Entity) int {
	overlap := 0

	if companiesMatch(company(a), company(b)) {
		overlap++
	}
	if la, lb := linkedIn(a), linkedIn(b); la != "" && la == lb {
		overlap++
	}
	if ea, eb := a.Email(), b.Email(); ea != "" && ea == eb {
		overlap++
	}
	if locationsMatch(location(a), location(b)) {
		overlap++
	}
	if skillOverlap(a.Skills(), b.Skills()) >= minSkillOverlap {
		overlap++
	}

	return overlap
}

func companiesMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return Similarity(a, b) > companyMatchThreshold || containsFold(a, b) || containsFold(b, a)
}

func locationsMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return Similarity(a, b) > locationMatchThreshold || containsFold(a, b) || containsFold(b, a)
}

func skillOverlap(a, b []string) int {
	matches := 0
	for _, sa := range a {
		for _, sb := range b {
			if Similarity(sa, sb) > skillMatchThreshold {
				matches++
				break
			}
		}
	}
	return matches
}

func company(e *entities.Entity) string {
	if v := e.Attr("company", "employer"); v != "" {
		return v
	}
	if e.CareerProfile != nil {
		return e.CareerProfile.Company
	}
	return ""
}

func location(e *entities.Entity) string {
	if v := e.Attr("location", "city"); v != "" {
		return v
	}
	if e.CareerProfile != nil {
		return e.CareerProfile.Location
	}
	return ""
}

func linkedIn(e *entities.Entity) string {
	v := e.Attr("linkedin_url", "linkedin")
	if v == "" && e.CareerProfile != nil {
		v = e.CareerProfile.LinkedIn
	}
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(v)), "/")
}

// sharedRelationships counts relationships of a whose target names are also
// relationship targets of b, exactly or fuzzily.
func sharedRelationships(a, b *entities.Entity) int {
	shared := 0
	for i := range a.Relationships {
		ta := a.Relationships[i].Name
		for j := range b.Relationships {
			tb := b.Relationships[j].Name
			if entities.NormalizeName(ta) == entities.NormalizeName(tb) || Similarity(ta, tb) > nameMatchThreshold {
				shared++
				break
			}
		}
	}
	return shared
}

// organizationNamesMatch strips trailing legal-entity suffixes from both
// names and compares the remainder ("Acme Corp." vs "acme.com").
func organizationNamesMatch(base, incoming *entities.Entity) bool {
	a := stripLegalSuffix(base.PrimaryName())
	b := stripLegalSuffix(incoming.PrimaryName())
	return Similarity(a, b) > nameMatchThreshold
}

func stripLegalSuffix(name string) string {
	n := strings.TrimSpace(strings.ToLower(name))
	for changed := true; changed; {
		changed = false
		for _, suffix := range legalSuffixes {
			trimmed := strings.TrimSuffix(n, suffix)
			if trimmed != n {
				n = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(trimmed), ","))
				changed = true
			}
		}
	}
	return n
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
