// Package services contains the identity-resolution, merge and graph-query
// business logic.
package services

import "strings"

// Similarity returns a fuzzy match score in [0,1] between two strings: 1.0
// for a case-insensitive exact match, otherwise the Dice coefficient over
// character bigrams of the whitespace-normalized, lower-cased inputs. This is
// the sole fuzzy primitive in the core; every threshold elsewhere is
// expressed in its output range.
func Similarity(a, b string) float64 {
	na := normalizeForSimilarity(a)
	nb := normalizeForSimilarity(b)
	if na == nb && na != "" {
		return 1.0
	}

	ba := bigrams(na)
	bb := bigrams(nb)
	if len(ba) == 0 || len(bb) == 0 {
		return 0
	}

	counts := make(map[string]int, len(ba))
	for _, g := range ba {
		counts[g]++
	}
	overlap := 0
	for _, g := range bb {
		if counts[g] > 0 {
			counts[g]--
			overlap++
		}
	}

	return 2 * float64(overlap) / float64(len(ba)+len(bb))
}

// normalizeForSimilarity lowercases and collapses all whitespace runs to a
// single space.
func normalizeForSimilarity(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// bigrams returns the character bigrams of s. Strings shorter than two
// characters produce none.
func bigrams(s string) []string {
	runes := []rune(s)
	if len(runes) < 2 {
		return nil
	}
	grams := make([]string, 0, len(runes)-1)
	for i := 0; i < len(runes)-1; i++ {
		grams = append(grams, string(runes[i:i+2]))
	}
	return grams
}
