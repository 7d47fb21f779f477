package scoring

import (
	"strings"

	"github.com/jonathan/applicant-ranker/internal/similarity"
	"github.com/jonathan/applicant-ranker/internal/types"
)

// ExperienceMatch is the experience component.
type ExperienceMatch struct {
	Score          float64
	YearsScore     float64
	TitleRelevance float64
}

// yearsScore is the 3-tier years component.
func yearsScore(have, required float64) float64 {
	switch {
	case have >= required:
		return ExperienceMeets
	case have > 0:
		return ExperiencePartial
	default:
		return ExperienceNone
	}
}

// titleRelevance is the best similarity between the job title and any prior
// title, boosted by shared words. Neutral when either side is missing.
func titleRelevance(jobTitle string, titles []string) float64 {
	titles = nonEmpty(titles)
	if strings.TrimSpace(jobTitle) == "" || len(titles) == 0 {
		return NeutralScore
	}

	jobTokens := similarity.NormalizeTokens(jobTitle)
	best := 0.0
	for _, t := range titles {
		s := similarity.Similarity(jobTitle, t)
		if len(jobTokens) > 0 {
			if shared := similarity.SharedTokens(jobTokens, similarity.NormalizeTokens(t)); shared > 0 {
				s = max(s, float64(shared)/float64(len(jobTokens))*TitleTokenBoostWeight)
			}
		}
		best = max(best, s)
	}
	return min(best, MaxScore)
}

// CalculateExperienceScore combines years (70%) and title relevance (30%).
func CalculateExperienceScore(job *types.JobRequirements, applicant *types.ApplicantData) ExperienceMatch {
	years := yearsScore(applicant.TotalYearsExperience, job.YearsOfExperience)
	relevance := titleRelevance(job.Title, applicant.WorkExperienceTitles)
	return ExperienceMatch{
		Score:          years*ExperienceYearsWeight + relevance*ExperienceTitleWeight,
		YearsScore:     years,
		TitleRelevance: relevance,
	}
}
