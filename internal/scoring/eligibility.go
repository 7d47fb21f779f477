package scoring

import (
	"strings"

	"github.com/jonathan/applicant-ranker/internal/similarity"
)

// EligibilityMatch is the eligibility component.
type EligibilityMatch struct {
	Score float64
	// Matched counts unique applicant eligibilities that won at least one
	// best-match slot, not the number of requirement lines satisfied.
	Matched int
	// Neutral is set when the job requires no eligibility.
	Neutral bool
}

// notRequired reports whether a requirement line waives eligibility.
func notRequired(line string) bool {
	key := similarity.NormalizeKey(line)
	if strings.Contains(key, "not required") {
		return true
	}
	for _, tok := range strings.Fields(key) {
		if tok == "none" {
			return true
		}
	}
	return false
}

func eligibilityPairScore(required, have string) float64 {
	sim := similarity.Similarity(required, have)
	switch {
	case sim >= EligibilityStrongThreshold:
		return sim
	case sim >= EligibilityPartialThreshold:
		return sim * EligibilityPartialScale
	}
	if overlap := similarity.TokenSimilarity(required, have); overlap > 0 {
		return overlap * EligibilityTokenWeight
	}
	return 0
}

// CalculateEligibilityMatch scores applicant eligibilities against the job's
// requirement lines.
func CalculateEligibilityMatch(required, have []string) EligibilityMatch {
	var lines []string
	for _, line := range nonEmpty(required) {
		if !notRequired(line) {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return EligibilityMatch{Score: NeutralScore, Neutral: true}
	}

	have = nonEmpty(have)
	matched := make(map[string]bool)
	sum := 0.0

	for _, req := range lines {
		best, bestItem := 0.0, ""
		for _, h := range have {
			if s := eligibilityPairScore(req, h); s > best {
				best, bestItem = s, h
			}
		}
		if best > 0 {
			matched[similarity.NormalizeKey(bestItem)] = true
		}
		sum += best
	}

	count := float64(len(lines))
	ratio := float64(len(matched)) / count
	avg := sum / count

	score := ratio*EligibilityRatioWeight + avg*EligibilitySimilarityWeight
	if surplus := len(have) - len(lines); surplus > 0 {
		score += min(float64(surplus)*EligibilitySurplusPerItem, EligibilitySurplusCap)
	}
	score = min(score, MaxScore)

	if len(matched) > 0 {
		score = max(score, EligibilityMatchedFloor)
	} else {
		score = min(score, EligibilityUnmatchedCap)
	}

	return EligibilityMatch{Score: score, Matched: len(matched)}
}
