package scoring

import (
	"strings"

	"github.com/jonathan/applicant-ranker/internal/similarity"
)

// SkillMatch is the skills component.
type SkillMatch struct {
	Score float64
	// Matched counts unique applicant skills that were the best match (>= SkillMatchedMinimum)
	// for at least one required skill.
	Matched int
	// Best holds the best tier score per required skill, in order.
	Best []float64
}

// skillPairScore scores one applicant skill against one required skill.
// A shared word inflates edit-distance similarity, so pairs that share a
// word need SkillSharedWordThreshold to reach the partial tier; below it
// they score by token overlap.
func skillPairScore(required, have string, requiredTokens []string) float64 {
	if strings.EqualFold(strings.TrimSpace(required), strings.TrimSpace(have)) {
		return SkillExact
	}

	sim := similarity.Similarity(required, have)
	if sim >= SkillStrongThreshold {
		return SkillStrong
	}

	token := 0.0
	if len(requiredTokens) > 0 {
		if shared := similarity.SharedTokens(requiredTokens, similarity.NormalizeTokens(have)); shared > 0 {
			token = float64(shared) / float64(len(requiredTokens)) * SkillTokenWeight
		}
	}

	threshold := SkillPartialThreshold
	if token > 0 {
		threshold = SkillSharedWordThreshold
	}
	if sim >= threshold {
		return max(SkillPartial, token)
	}
	return token
}

// CalculateSkillMatch scores applicant skills against required skills.
// No required skills yields NeutralScore; no applicant skills yields 0.
func CalculateSkillMatch(required, have []string) SkillMatch {
	required = nonEmpty(required)
	have = nonEmpty(have)

	if len(required) == 0 {
		return SkillMatch{Score: NeutralScore}
	}
	if len(have) == 0 {
		return SkillMatch{Best: make([]float64, len(required))}
	}

	best := make([]float64, len(required))
	matched := make(map[int]bool)
	total := 0.0

	for i, req := range required {
		reqTokens := similarity.NormalizeTokens(req)
		bestIdx := -1
		for j, h := range have {
			if s := skillPairScore(req, h, reqTokens); s > best[i] {
				best[i] = s
				bestIdx = j
			}
		}
		if bestIdx >= 0 && best[i] >= SkillMatchedMinimum {
			matched[bestIdx] = true
		}
		total += best[i]
	}

	score := total / (float64(len(required)) * MaxScore) * MaxScore
	if surplus := len(have) - len(required); surplus > 0 {
		score += min(float64(surplus)*SkillSurplusPerItem, SkillSurplusCap)
	}

	return SkillMatch{
		Score:   min(score, MaxScore),
		Matched: len(matched),
		Best:    best,
	}
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	return out
}
