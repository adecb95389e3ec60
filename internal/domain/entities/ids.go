package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// ID prefixes for the record-local collections.
const (
	PrefixAttribute     = "ATTR"
	PrefixRelationship  = "REL"
	PrefixFact          = "FACT"
	PrefixValue         = "VAL"
	PrefixProject       = "PROJ"
	PrefixProduct       = "PROD"
	PrefixPerson        = "PERSON"
	PrefixSegment       = "SEG"
	PrefixConstraintBiz = "CON-BIZ"
	PrefixConstraintExt = "CON-EXT"
)

// IDAllocator hands out prefix-numbered IDs (e.g. REL-004) for one entity
// record. It is seeded once by scanning the record's existing IDs, so the
// merge engine never rescans and IDs are never reused even after deletion.
type IDAllocator struct {
	next map[string]int
}

// NewIDAllocator seeds an allocator from every prefixed ID already present
// in the entity record.
func NewIDAllocator(e *Entity) *IDAllocator {
	a := &IDAllocator{next: make(map[string]int)}
	for i := range e.Attributes {
		a.observe(e.Attributes[i].ID)
	}
	for i := range e.Relationships {
		a.observe(e.Relationships[i].ID)
	}
	for i := range e.KeyFacts {
		a.observe(e.KeyFacts[i].ID)
	}
	for i := range e.Values {
		a.observe(e.Values[i].ID)
	}
	for i := range e.ActiveProjects {
		a.observe(e.ActiveProjects[i].ID)
	}
	for i := range e.ProductsServices {
		a.observe(e.ProductsServices[i].ID)
	}
	for i := range e.KeyPeople {
		a.observe(e.KeyPeople[i].ID)
	}
	for i := range e.CustomerSegments {
		a.observe(e.CustomerSegments[i].ID)
	}
	for i := range e.Constraints {
		a.observe(e.Constraints[i].ID)
	}
	return a
}

// observe records an existing ID so later allocations start above it.
func (a *IDAllocator) observe(id string) {
	prefix, n, ok := splitID(id)
	if !ok {
		return
	}
	if n >= a.next[prefix] {
		a.next[prefix] = n + 1
	}
}

// Next allocates the next ID for the given prefix, zero-padded to 3 digits.
func (a *IDAllocator) Next(prefix string) string {
	if a.next[prefix] == 0 {
		a.next[prefix] = 1
	}
	n := a.next[prefix]
	a.next[prefix]++
	return fmt.Sprintf("%s-%03d", prefix, n)
}

// splitID splits "REL-007" into ("REL", 7). Prefixes may themselves contain
// hyphens (CON-BIZ), so only the final segment is numeric.
func splitID(id string) (string, int, bool) {
	idx := strings.LastIndex(id, "-")
	if idx <= 0 || idx == len(id)-1 {
		return "", 0, false
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil || n < 0 {
		return "", 0, false
	}
	return id[:idx], n, true
}
