package ranking

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/applicant-ranker/internal/prompts"
	"github.com/jonathan/applicant-ranker/internal/scoring"
	"github.com/jonathan/applicant-ranker/internal/types"
	"go.uber.org/zap"
)

// CompareApplicants scores two applicants with the ensemble and explains the
// difference component by component. Totals within SortEpsilon are a tie.
func (p *Pipeline) CompareApplicants(ctx context.Context, job *types.JobRequirements, a1, a2 *types.ApplicantData) (*types.ComparisonResult, error) {
	if err := types.ValidateJob(job); err != nil {
		return nil, err
	}
	for _, a := range []*types.ApplicantData{a1, a2} {
		if err := types.ValidateApplicant(a); err != nil {
			return nil, err
		}
	}

	scoredJob, s1, s2 := job, a1, a2
	if p.normalizer != nil {
		scoredJob = p.normalizer.NormalizeJob(ctx, job)
		s1 = p.normalizer.NormalizeApplicant(ctx, a1)
		s2 = p.normalizer.NormalizeApplicant(ctx, a2)
	}

	b1 := scoring.Ensemble(scoredJob, s1)
	b2 := scoring.Ensemble(scoredJob, s2)

	winner := types.WinnerTie
	switch diff := b1.TotalScore - b2.TotalScore; {
	case diff > p.opts.SortEpsilon:
		winner = types.WinnerApplicant1
	case diff < -p.opts.SortEpsilon:
		winner = types.WinnerApplicant2
	}

	result := &types.ComparisonResult{
		Winner:     winner,
		Applicant1: b1,
		Applicant2: b2,
		Analysis:   analyze(label(a1, "Applicant 1"), label(a2, "Applicant 2"), b1, b2, winner),
	}

	if p.client != nil && p.opts.Insights {
		if narrative, err := p.compareNarrative(ctx, job, b1, b2); err != nil {
			p.logger.Warn("comparison narrative omitted",
				zap.Error(&InsightError{ApplicantID: a1.ID + " vs " + a2.ID, Cause: err}))
		} else {
			result.Analysis += "\n" + narrative
		}
	}

	return result, nil
}

func label(a *types.ApplicantData, fallback string) string {
	if a.Name != "" {
		return a.Name
	}
	if a.ID != "" {
		return a.ID
	}
	return fallback
}

// analyze writes one line per component and a verdict.
func analyze(name1, name2 string, b1, b2 types.ScoreBreakdown, winner types.ComparisonWinner) string {
	components := []struct {
		name   string
		s1, s2 float64
	}{
		{"Education", b1.EducationScore, b2.EducationScore},
		{"Experience", b1.ExperienceScore, b2.ExperienceScore},
		{"Skills", b1.SkillsScore, b2.SkillsScore},
		{"Eligibility", b1.EligibilityScore, b2.EligibilityScore},
	}

	var lines []string
	for _, c := range components {
		lead := "even"
		if d := c.s1 - c.s2; math.Abs(d) >= 1 {
			ahead := name1
			if d < 0 {
				ahead = name2
			}
			lead = fmt.Sprintf("%s ahead by %.1f", ahead, math.Abs(d))
		}
		lines = append(lines, fmt.Sprintf("%s: %.1f vs %.1f (%s)", c.name, c.s1, c.s2, lead))
	}

	switch winner {
	case types.WinnerApplicant1:
		lines = append(lines, fmt.Sprintf("Overall: %s is the stronger fit (%.1f vs %.1f).", name1, b1.TotalScore, b2.TotalScore))
	case types.WinnerApplicant2:
		lines = append(lines, fmt.Sprintf("Overall: %s is the stronger fit (%.1f vs %.1f).", name2, b2.TotalScore, b1.TotalScore))
	default:
		lines = append(lines, fmt.Sprintf("Overall: the applicants are tied (%.1f vs %.1f).", b1.TotalScore, b2.TotalScore))
	}
	return strings.Join(lines, "\n")
}

func (p *Pipeline) compareNarrative(ctx context.Context, job *types.JobRequirements, b1, b2 types.ScoreBreakdown) (string, error) {
	prompt, err := prompts.Render(prompts.Compare, prompts.Vars{
		"JobTitle":   job.Title,
		"Applicant1": breakdownSummary(b1),
		"Applicant2": breakdownSummary(b2),
	})
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, p.opts.AITimeout)
	defer cancel()

	text, err := p.client.GenerateContent(callCtx, prompt, p.opts.CompareTier)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errEmptyInsight
	}
	return text, nil
}

func breakdownSummary(b types.ScoreBreakdown) string {
	return fmt.Sprintf("total %.1f, education %.1f, experience %.1f, skills %.1f, eligibility %.1f (%s)",
		b.TotalScore, b.EducationScore, b.ExperienceScore, b.SkillsScore, b.EligibilityScore, b.AlgorithmUsed)
}
