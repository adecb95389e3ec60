package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// lowConfidenceThreshold marks attributes (and lookup answers) as uncertain.
const lowConfidenceThreshold = 0.5

// maxExampleRelationships caps the named relationship examples in a lookup
// answer.
const maxExampleRelationships = 3

// maxExampleEntities caps the named examples in an aggregation answer.
const maxExampleEntities = 10

// keyAttributeWhitelist is the set of attribute keys worth surfacing in an
// entity-lookup answer.
var keyAttributeWhitelist = []string{
	"role", "title", "company", "employer", "location", "email", "phone",
	"industry", "website",
}

// Synthesis is the structured output of one answer template. Templates are
// pure: structured data in, answer text plus supporting collections out.
type Synthesis struct {
	Answer     string
	Entities   []*entities.Entity
	Paths      []entities.Path
	Gaps       []entities.Gap
	Conflicts  []entities.Conflict
	Confidence float64
}

// Synthesizer composes structured query results into natural-language
// responses, substituting second-person phrasing when the subject is the
// configured self entity.
type Synthesizer struct {
	categories CategoryTable
}

// NewSynthesizer creates an answer synthesizer.
func NewSynthesizer(categories CategoryTable) *Synthesizer {
	if categories == nil {
		categories = DefaultCategories()
	}
	return &Synthesizer{categories: categories}
}

// NotFound renders the templated answer for an unresolvable subject.
func (s *Synthesizer) NotFound(subject string) Synthesis {
	return Synthesis{
		Answer:     fmt.Sprintf("I couldn't find anyone or anything matching %q in the graph.", subject),
		Confidence: 0,
	}
}

// EntityLookup renders type, summary, key attributes and relationship
// examples for one entity. Confidence is the mean attribute confidence, with
// a caveat appended when it falls below 0.5.
func (s *Synthesizer) EntityLookup(e *entities.Entity, isSelf bool) Synthesis {
	subject, possessive := phrasing(e.DisplayName(), isSelf)
	isVerb, hasVerb := "is", "has"
	if isSelf {
		isVerb, hasVerb = "are", "have"
	}

	var b strings.Builder
	if e.Type != "" {
		fmt.Fprintf(&b, "%s %s a %s.", subject, isVerb, e.Type)
	} else {
		fmt.Fprintf(&b, "%s %s in the graph.", subject, isVerb)
	}
	if e.Summary != nil && e.Summary.Text != "" {
		fmt.Fprintf(&b, " %s", e.Summary.Text)
	}

	for _, key := range keyAttributeWhitelist {
		if v := e.Attr(key); v != "" {
			fmt.Fprintf(&b, " %s %s: %s.", capitalize(possessive), key, v)
		}
	}

	if n := len(e.Relationships); n > 0 {
		fmt.Fprintf(&b, " %s %s %d known relationship%s", subject, hasVerb, n, plural(n))
		examples := make([]string, 0, maxExampleRelationships)
		for i := range e.Relationships {
			if i >= maxExampleRelationships {
				break
			}
			examples = append(examples, fmt.Sprintf("%s (%s)", e.Relationships[i].Name, e.Relationships[i].Type))
		}
		fmt.Fprintf(&b, ", including %s.", strings.Join(examples, ", "))
	}

	confidence := meanAttributeConfidence(e)
	if confidence < lowConfidenceThreshold {
		b.WriteString(" Note: much of this information has low confidence.")
	}

	return Synthesis{
		Answer:     b.String(),
		Entities:   []*entities.Entity{e},
		Confidence: confidence,
	}
}

// Relationship narrates the shortest discovered path between two entities,
// or reports that none exists within the hop bound. Confidence is the
// minimum edge confidence along the shortest path.
func (s *Synthesizer) Relationship(sourceName, targetName string, paths []entities.Path, maxDepth int) Synthesis {
	if len(paths) == 0 {
		return Synthesis{
			Answer: fmt.Sprintf("No connection found between %s and %s within %d hops.",
				sourceName, targetName, maxDepth),
			Confidence: 0,
		}
	}

	shortest := paths[0]
	hops := len(shortest) - 1

	var steps []string
	for i, hop := range shortest {
		if i == 0 {
			steps = append(steps, hop.EntityName)
			continue
		}
		steps = append(steps, fmt.Sprintf("%s (%s)", hop.EntityName, hop.Relationship))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s is connected to %s in %d hop%s: %s.",
		sourceName, targetName, hops, plural(hops), strings.Join(steps, " -> "))
	if len(paths) > 1 {
		fmt.Fprintf(&b, " %d distinct paths were found.", len(paths))
	}

	return Synthesis{
		Answer:     b.String(),
		Paths:      paths,
		Confidence: shortest.MinConfidence(),
	}
}

// Aggregation reports a count, a by-type breakdown when more than one type
// is present, and up to 10 named examples. Enumeration is deterministic, so
// confidence is always 1.0.
func (s *Synthesizer) Aggregation(matched []*entities.Entity) Synthesis {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d entit%s in the graph.", len(matched), pluralY(len(matched)))

	byType := make(map[entities.EntityType]int)
	for _, e := range matched {
		byType[e.Type]++
	}
	if len(byType) > 1 {
		types := make([]string, 0, len(byType))
		for t := range byType {
			name := string(t)
			if name == "" {
				name = "untyped"
			}
			types = append(types, fmt.Sprintf("%d %s", byType[t], name))
		}
		sort.Strings(types)
		fmt.Fprintf(&b, " Breakdown: %s.", strings.Join(types, ", "))
	}

	if len(matched) > 0 {
		names := make([]string, 0, maxExampleEntities)
		for i, e := range matched {
			if i >= maxExampleEntities {
				break
			}
			names = append(names, e.DisplayName())
		}
		fmt.Fprintf(&b, " Examples: %s.", strings.Join(names, ", "))
	}

	return Synthesis{
		Answer:     b.String(),
		Entities:   matched,
		Confidence: 1.0,
	}
}

// standardFields are the record fields checked during completeness analysis.
var standardFields = []struct {
	name    string
	present func(*entities.Entity) bool
}{
	{"summary", func(e *entities.Entity) bool { return e.Summary != nil && e.Summary.Text != "" }},
	{"entity_type", func(e *entities.Entity) bool { return e.Type != "" }},
	{"email", func(e *entities.Entity) bool { return e.Email() != "" }},
	{"location", func(e *entities.Entity) bool { return location(e) != "" }},
}

// completenessCategories are the relationship categories whose presence is
// checked during completeness analysis.
var completenessCategories = []string{CategoryFamily, CategoryProfessional, CategorySocial}

// Completeness reports the knowledge gaps for one entity and a coverage
// score. The fixed 0.9 confidence expresses trust in the analysis itself,
// not in the underlying data.
func (s *Synthesizer) Completeness(e *entities.Entity, isSelf bool) Synthesis {
	_, possessive := phrasing(e.DisplayName(), isSelf)

	var gaps []entities.Gap

	for _, f := range standardFields {
		if !f.present(e) {
			gaps = append(gaps, entities.Gap{Field: f.name, Detail: "not recorded"})
		}
	}

	present := make(map[string]bool)
	for i := range e.Relationships {
		present[s.categories.Categorize(e.Relationships[i].Type)] = true
	}
	for _, cat := range completenessCategories {
		if !present[cat] {
			gaps = append(gaps, entities.Gap{Field: "relationships." + cat, Detail: "no " + cat + " relationships recorded"})
		}
	}

	for i := range e.Attributes {
		if e.Attributes[i].Confidence < lowConfidenceThreshold {
			gaps = append(gaps, entities.Gap{
				Field:  "attributes." + e.Attributes[i].Key,
				Detail: "low confidence",
			})
		}
	}

	totalChecks := len(standardFields) + len(completenessCategories) + len(e.Attributes)
	coverage := float64(totalChecks-len(gaps)) / float64(totalChecks)

	var b strings.Builder
	if len(gaps) == 0 {
		fmt.Fprintf(&b, "%s record looks complete.", capitalize(possessive))
	} else {
		fmt.Fprintf(&b, "There are %d gap%s in what the graph knows about %s.",
			len(gaps), plural(len(gaps)), subjectObject(e.DisplayName(), isSelf))
		details := make([]string, 0, len(gaps))
		for _, g := range gaps {
			details = append(details, g.Field)
		}
		fmt.Fprintf(&b, " Missing or weak: %s.", strings.Join(details, ", "))
	}
	fmt.Fprintf(&b, " Coverage score: %.2f.", coverage)

	return Synthesis{
		Answer:     b.String(),
		Entities:   []*entities.Entity{e},
		Gaps:       gaps,
		Confidence: 0.9,
	}
}

// Contradiction scans an entity's attributes for duplicate keys with
// divergent values and merges in any conflicts already recorded on the
// record.
func (s *Synthesizer) Contradiction(e *entities.Entity, isSelf bool) Synthesis {
	var conflicts []entities.Conflict

	byKey := make(map[string][]entities.Attribute)
	for i := range e.Attributes {
		key := strings.ToLower(e.Attributes[i].Key)
		byKey[key] = append(byKey[key], e.Attributes[i])
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs := byKey[k]
		for i := 0; i < len(attrs); i++ {
			for j := i + 1; j < len(attrs); j++ {
				va, vb := entities.ValueString(attrs[i].Value), entities.ValueString(attrs[j].Value)
				if va != vb {
					conflicts = append(conflicts, entities.Conflict{Field: k, ValueA: va, ValueB: vb})
				}
			}
		}
	}

	conflicts = append(conflicts, e.RecordedConflicts...)

	subject := subjectObject(e.DisplayName(), isSelf)
	if len(conflicts) == 0 {
		return Synthesis{
			Answer:     fmt.Sprintf("No contradictions found in the data about %s.", subject),
			Entities:   []*entities.Entity{e},
			Confidence: 1.0,
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d contradiction%s in the data about %s:", len(conflicts), plural(len(conflicts)), subject)
	for _, c := range conflicts {
		fmt.Fprintf(&b, " %s (%q vs %q).", c.Field, c.ValueA, c.ValueB)
	}

	return Synthesis{
		Answer:     b.String(),
		Entities:   []*entities.Entity{e},
		Conflicts:  conflicts,
		Confidence: 0.85,
	}
}

// meanAttributeConfidence averages attribute confidences; a record with no
// attributes scores 1.0 so that an otherwise-clean lookup is not caveated.
func meanAttributeConfidence(e *entities.Entity) float64 {
	if len(e.Attributes) == 0 {
		return 1.0
	}
	sum := 0.0
	for i := range e.Attributes {
		sum += e.Attributes[i].Confidence
	}
	return sum / float64(len(e.Attributes))
}

// phrasing returns the subject and possessive forms for an entity,
// substituting second person for the self entity.
func phrasing(name string, isSelf bool) (subject, possessive string) {
	if isSelf {
		return "You", "your"
	}
	return name, name + "'s"
}

// subjectObject returns the object form of the subject ("you" or the name).
func subjectObject(name string, isSelf bool) string {
	if isSelf {
		return "you"
	}
	return name
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
