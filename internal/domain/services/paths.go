package services

import (
	"sort"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// DefaultMaxDepth bounds path finding between two entities.
const DefaultMaxDepth = 4

// DefaultNeighborhoodDepth bounds neighborhood traversal.
const DefaultNeighborhoodDepth = 2

// FindPaths returns every path from source to target within maxDepth hops.
// Each queued path carries its own visited set, so independent routes that
// share intermediate nodes are all discovered; this deliberately trades
// memory for path completeness over a shortest-path-only search. A path
// stops extending once it reaches the target. Results are ordered by length
// ascending, ties broken by descending minimum edge confidence.
func FindPaths(sourceID, targetID string, idx *RelationshipIndex, maxDepth int) []entities.Path {
	if sourceID == targetID || maxDepth <= 0 {
		return nil
	}
	if len(idx.Edges[sourceID]) == 0 {
		return nil
	}

	type state struct {
		path    entities.Path
		visited map[string]bool
	}

	start := state{
		path:    entities.Path{{EntityID: sourceID, EntityName: idx.DisplayName(sourceID)}},
		visited: map[string]bool{sourceID: true},
	}

	var found []entities.Path
	queue := []state{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		hops := len(current.path) - 1
		if hops >= maxDepth {
			continue
		}

		tip := current.path[len(current.path)-1].EntityID
		for _, edge := range idx.Edges[tip] {
			if edge.TargetID == "" || current.visited[edge.TargetID] {
				continue
			}

			next := make(entities.Path, len(current.path), len(current.path)+1)
			copy(next, current.path)
			next = append(next, entities.PathHop{
				EntityID:     edge.TargetID,
				EntityName:   idx.DisplayName(edge.TargetID),
				Relationship: edge.Relationship,
				Confidence:   edge.Confidence,
			})

			if edge.TargetID == targetID {
				found = append(found, next)
				continue
			}

			visited := make(map[string]bool, len(current.visited)+1)
			for id := range current.visited {
				visited[id] = true
			}
			visited[edge.TargetID] = true
			queue = append(queue, state{path: next, visited: visited})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		if len(found[i]) != len(found[j]) {
			return len(found[i]) < len(found[j])
		}
		return found[i].MinConfidence() > found[j].MinConfidence()
	})

	return found
}

// GetNeighborhood collects the entities reachable from a center entity in
// rings of first-reach depth. Unlike path finding this uses one global
// visited set: each entity appears in exactly one ring, annotated with the
// relationship and entity it was discovered from.
func GetNeighborhood(entityID string, idx *RelationshipIndex, depth int) entities.Neighborhood {
	hood := entities.Neighborhood{Center: entityID}
	if depth <= 0 {
		return hood
	}

	visited := map[string]bool{entityID: true}
	frontier := []string{entityID}

	for d := 0; d < depth; d++ {
		var ring []entities.Neighbor
		var next []string

		for _, id := range frontier {
			for _, edge := range idx.Edges[id] {
				if edge.TargetID == "" || visited[edge.TargetID] {
					continue
				}
				visited[edge.TargetID] = true
				ring = append(ring, entities.Neighbor{
					EntityID:     edge.TargetID,
					EntityName:   idx.DisplayName(edge.TargetID),
					Relationship: edge.Relationship,
					FoundVia:     id,
				})
				next = append(next, edge.TargetID)
			}
		}

		if len(ring) == 0 {
			break
		}
		hood.Rings = append(hood.Rings, ring)
		frontier = next
	}

	return hood
}
