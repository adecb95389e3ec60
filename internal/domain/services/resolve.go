package services

import (
	"strings"

	"github.com/ersonp/kin-core/internal/domain/entities"
)

// mentionConfidenceFloor is the minimum search score for a phrase to count
// as an entity mention.
const mentionConfidenceFloor = 0.6

// maxMentionWindow is the widest sliding window, in words, tried when
// extracting candidate phrases.
const maxMentionWindow = 3

// firstPersonPronouns trigger self-entity substitution.
var firstPersonPronouns = map[string]bool{
	"i": true, "me": true, "my": true, "mine": true, "myself": true, "im": true,
}

// mentionStopWords are skipped when a candidate window consists of nothing
// else.
var mentionStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true,
	"were": true, "do": true, "does": true, "did": true, "how": true,
	"what": true, "who": true, "where": true, "when": true, "why": true,
	"to": true, "of": true, "in": true, "on": true, "at": true, "and": true,
	"or": true, "about": true, "with": true, "for": true, "from": true,
	"can": true, "tell": true, "know": true, "have": true, "has": true,
	"any": true, "all": true, "graph": true, "data": true,
}

// ResolveEntities extracts the entities a question refers to. First-person
// pronouns are substituted with the self entity's name before extraction
// (the resulting mention stays flagged as self). Candidate phrases are
// sliding windows of 3, 2 then 1 words; longer candidates claim their word
// range and entity first, so a short substring cannot re-match inside an
// already-resolved longer name.
func ResolveEntities(question string, all []*entities.Entity, self *entities.Entity) []entities.ResolvedMention {
	words := tokenizeQuestion(question)

	selfMentioned := false
	if self != nil {
		var substituted []string
		for _, w := range words {
			if firstPersonPronouns[strings.ToLower(w)] {
				selfMentioned = true
				substituted = append(substituted, strings.Fields(self.DisplayName())...)
				continue
			}
			substituted = append(substituted, w)
		}
		words = substituted
	}

	type span struct{ start, end int }
	var claimed []span
	claimedIDs := make(map[string]bool)
	var mentions []entities.ResolvedMention

	for size := maxMentionWindow; size >= 1; size-- {
		for start := 0; start+size <= len(words); start++ {
			window := words[start : start+size]
			if allStopWords(window) {
				continue
			}

			overlaps := false
			for _, c := range claimed {
				if start < c.end && start+size > c.start {
					overlaps = true
					break
				}
			}
			if overlaps {
				continue
			}

			phrase := strings.Join(window, " ")
			hits := SearchEntities(phrase, all, SearchOptions{Limit: 1, MinConfidence: mentionConfidenceFloor})
			if len(hits) == 0 {
				continue
			}

			hit := hits[0]
			if claimedIDs[hit.Entity.ID] {
				claimed = append(claimed, span{start, start + size})
				continue
			}

			claimedIDs[hit.Entity.ID] = true
			claimed = append(claimed, span{start, start + size})
			mentions = append(mentions, entities.ResolvedMention{
				Mention:  phrase,
				EntityID: hit.Entity.ID,
				Name:     hit.Entity.DisplayName(),
				Score:    hit.Score,
				IsSelf:   self != nil && hit.Entity.ID == self.ID,
			})
		}
	}

	if selfMentioned && self != nil && !claimedIDs[self.ID] {
		mentions = append([]entities.ResolvedMention{{
			Mention:  self.DisplayName(),
			EntityID: self.ID,
			Name:     self.DisplayName(),
			Score:    1.0,
			IsSelf:   true,
		}}, mentions...)
	}

	return mentions
}

// tokenizeQuestion strips punctuation and splits the question into words.
func tokenizeQuestion(question string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ':
			return r
		default:
			return ' '
		}
	}, question)
	return strings.Fields(cleaned)
}

func allStopWords(window []string) bool {
	for _, w := range window {
		if !mentionStopWords[strings.ToLower(w)] {
			return false
		}
	}
	return true
}
