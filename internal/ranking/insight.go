package ranking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/applicant-ranker/internal/prompts"
	"github.com/jonathan/applicant-ranker/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var errEmptyInsight = errors.New("empty insight")

// addInsights annotates the top-K rows in place. Failures leave the row untouched.
func (p *Pipeline) addInsights(ctx context.Context, runID string, logger *zap.Logger, job *types.JobRequirements, ranked []types.RankedApplicant) {
	k := min(p.opts.InsightTopK, len(ranked))

	var g errgroup.Group
	for i := 0; i < k; i++ {
		row := &ranked[i]
		g.Go(func() error {
			text, err := p.insight(ctx, job, row)
			if err != nil {
				logger.Warn("insight omitted",
					zap.Error(&InsightError{RunID: runID, ApplicantID: row.ApplicantID, Cause: err}))
				return nil
			}
			row.Insight = text
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Pipeline) insight(ctx context.Context, job *types.JobRequirements, row *types.RankedApplicant) (string, error) {
	name := row.Name
	if name == "" {
		name = row.ApplicantID
	}

	prompt, err := prompts.Render(prompts.Insight, prompts.Vars{
		"JobTitle":         job.Title,
		"JobDescription":   orNone(job.Description),
		"ApplicantName":    name,
		"Rank":             strconv.Itoa(row.Rank),
		"MatchScore":       formatScore(row.MatchScore),
		"EducationScore":   formatScore(row.EducationScore),
		"ExperienceScore":  formatScore(row.ExperienceScore),
		"SkillsScore":      formatScore(row.SkillsScore),
		"EligibilityScore": formatScore(row.EligibilityScore),
		"Reasoning":        row.Reasoning,
	})
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, p.opts.AITimeout)
	defer cancel()

	text, err := p.client.GenerateContent(callCtx, prompt, p.opts.InsightTier)
	if err != nil {
		return "", fmt.Errorf("insight generation failed: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errEmptyInsight
	}
	return text, nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
