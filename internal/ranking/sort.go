package ranking

import (
	"math"
	"sort"

	"github.com/jonathan/applicant-ranker/internal/types"
)

// candidate is one applicant moving through a ranking run.
type candidate struct {
	row types.RankedApplicant
	// applicant is the record that was scored (normalized when enabled).
	applicant *types.ApplicantData
	// years and skillCount come from the raw input record.
	years      float64
	skillCount int
}

// compareCandidates orders a before b (negative), after (positive) or equal (0).
// Score keys closer than eps fall through to the next key.
func compareCandidates(a, b *candidate, eps float64) int {
	keys := [][2]float64{
		{a.row.MatchScore, b.row.MatchScore},
		{a.row.EligibilityScore, b.row.EligibilityScore},
		{a.row.EducationScore, b.row.EducationScore},
		{a.row.ExperienceScore, b.row.ExperienceScore},
		{a.row.SkillsScore, b.row.SkillsScore},
	}
	for _, k := range keys {
		if math.Abs(k[0]-k[1]) > eps {
			if k[0] > k[1] {
				return -1
			}
			return 1
		}
	}

	switch {
	case a.years > b.years:
		return -1
	case a.years < b.years:
		return 1
	case a.skillCount > b.skillCount:
		return -1
	case a.skillCount < b.skillCount:
		return 1
	}
	return 0
}

// sortCascade applies the deterministic multi-key order; full ties keep input order.
func sortCascade(cands []*candidate, eps float64) {
	sort.SliceStable(cands, func(i, j int) bool {
		return compareCandidates(cands[i], cands[j], eps) < 0
	})
}

// sortByScore is the plain descending re-sort run after AI adjustments.
func sortByScore(cands []*candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].row.MatchScore > cands[j].row.MatchScore
	})
}

// detectTieGroups returns runs of at least two adjacent candidates whose
// scores all lie within eps of each other.
func detectTieGroups(cands []*candidate, eps float64) [][]*candidate {
	var groups [][]*candidate
	for start := 0; start < len(cands); {
		lo, hi := cands[start].row.MatchScore, cands[start].row.MatchScore
		end := start + 1
		for end < len(cands) {
			s := cands[end].row.MatchScore
			if max(hi, s)-min(lo, s) > eps {
				break
			}
			lo, hi = min(lo, s), max(hi, s)
			end++
		}
		if end-start >= 2 {
			groups = append(groups, cands[start:end])
		}
		start = end
	}
	return groups
}

// assignRanks gives dense 1-based ranks by position.
func assignRanks(cands []*candidate) []types.RankedApplicant {
	out := make([]types.RankedApplicant, len(cands))
	for i, c := range cands {
		c.row.Rank = i + 1
		out[i] = c.row
	}
	return out
}
