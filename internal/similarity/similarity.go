// Package similarity provides fuzzy string matching used by normalization and scoring.
package similarity

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	nonWord    = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	nonWordKey = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
	spaces     = regexp.MustCompile(`\s+`)
)

// stopwords are dropped by NormalizeTokens in addition to tokens of length <= 2.
var stopwords = map[string]bool{
	"the":  true,
	"and":  true,
	"for":  true,
	"with": true,
}

// Similarity returns a score in [0,100] based on Levenshtein distance over the
// trimmed, lowercased inputs. Identical strings score 100; an empty string
// against a non-empty one scores 0.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	maxLen := max(len([]rune(a)), len([]rune(b)))
	distance := levenshtein.ComputeDistance(a, b)

	return clamp(float64(maxLen-distance) / float64(maxLen) * 100)
}

// TokenSimilarity returns the Jaccard similarity of the token sets of a and b,
// in [0,1]. Used for pre-filtering dictionary candidates, not for final scores.
func TokenSimilarity(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for tok := range ta {
		if tb[tok] {
			shared++
		}
	}
	union := len(ta) + len(tb) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

// NormalizeTokens lowercases s, strips non-word characters, splits on
// whitespace and drops short tokens and stopwords.
func NormalizeTokens(s string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(s), " ")
	fields := strings.Fields(cleaned)

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) <= 2 || stopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// SharedTokens counts the tokens of want that also appear in have.
func SharedTokens(want, have []string) int {
	set := make(map[string]bool, len(have))
	for _, t := range have {
		set[t] = true
	}
	shared := 0
	for _, t := range want {
		if set[t] {
			shared++
		}
	}
	return shared
}

// NormalizeKey produces the lookup form used by the alias index: lowercase,
// trimmed, non-word characters replaced with a space, whitespace collapsed.
func NormalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonWordKey.ReplaceAllString(s, " ")
	s = spaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func tokenSet(s string) map[string]bool {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(s), " ")
	set := make(map[string]bool)
	for _, f := range strings.Fields(cleaned) {
		set[f] = true
	}
	return set
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
