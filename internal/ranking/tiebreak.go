package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/applicant-ranker/internal/llm"
	"github.com/jonathan/applicant-ranker/internal/prompts"
	"github.com/jonathan/applicant-ranker/internal/schemas"
	"github.com/jonathan/applicant-ranker/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// adjustment is one entry of the tie-break answer.
type adjustment struct {
	ApplicantID   string  `json:"applicant_id"`
	Adjustment    float64 `json:"adjustment"`
	Justification string  `json:"justification,omitempty"`
}

type tieBreakResponse struct {
	Adjustments []adjustment `json:"adjustments"`
}

// tiedProfile is what the tie-breaker sees for each candidate.
type tiedProfile struct {
	ApplicantID          string   `json:"applicant_id"`
	Name                 string   `json:"name,omitempty"`
	Education            string   `json:"highest_educational_attainment"`
	Eligibilities        []string `json:"eligibilities"`
	Skills               []string `json:"skills"`
	TotalYearsExperience float64  `json:"total_years_experience"`
	WorkExperienceTitles []string `json:"work_experience_titles,omitempty"`
	MatchScore           float64  `json:"match_score"`
	Reasoning            string   `json:"scoring_trace"`
}

// breakTies asks the AI to separate every tie group concurrently and applies
// the adjustments. It reports whether any score changed.
func (p *Pipeline) breakTies(ctx context.Context, runID string, logger *zap.Logger, job *types.JobRequirements, groups [][]*candidate) bool {
	results := make([]map[string]adjustment, len(groups))

	var g errgroup.Group
	for i, group := range groups {
		g.Go(func() error {
			adj, err := p.tieBreak(ctx, job, group)
			if err != nil {
				logger.Warn("AI tie-break failed, keeping deterministic order",
					zap.Error(&TieBreakError{RunID: runID, ApplicantIDs: groupIDs(group), Cause: err}))
				return nil
			}
			results[i] = adj
			return nil
		})
	}
	_ = g.Wait()

	changed := false
	for i, group := range groups {
		for _, c := range group {
			adj, ok := results[i][c.row.ApplicantID]
			if !ok || adj.Adjustment == 0 {
				continue
			}
			c.row.AIAdjustment = adj.Adjustment
			c.row.MatchScore = min(max(c.row.MatchScore+adj.Adjustment, 0), 100)
			note := fmt.Sprintf("AI tie-break %+.2f", adj.Adjustment)
			if adj.Justification != "" {
				note += ": " + adj.Justification
			}
			c.row.Reasoning = strings.TrimSpace(c.row.Reasoning + " | " + note)
			changed = true
		}
	}
	return changed
}

// tieBreak runs one AI call for one group and returns clamped adjustments by applicant ID.
func (p *Pipeline) tieBreak(ctx context.Context, job *types.JobRequirements, group []*candidate) (map[string]adjustment, error) {
	profiles := make([]tiedProfile, len(group))
	members := make(map[string]bool, len(group))
	for i, c := range group {
		a := c.applicant
		profiles[i] = tiedProfile{
			ApplicantID:          c.row.ApplicantID,
			Name:                 a.Name,
			Education:            a.HighestEducationalAttainment,
			Eligibilities:        a.EligibilityTitles(),
			Skills:               a.Skills,
			TotalYearsExperience: a.TotalYearsExperience,
			WorkExperienceTitles: a.WorkExperienceTitles,
			MatchScore:           c.row.MatchScore,
			Reasoning:            c.row.Reasoning,
		}
		members[c.row.ApplicantID] = true
	}
	candidatesJSON, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tied applicants: %w", err)
	}

	prompt, err := prompts.Render(prompts.TieBreak, prompts.Vars{
		"JobTitle":          job.Title,
		"JobDescription":    orNone(job.Description),
		"DegreeRequirement": orNone(job.DegreeRequirement),
		"Eligibilities":     orNone(strings.Join(job.Eligibilities, "; ")),
		"Skills":            orNone(strings.Join(job.Skills, ", ")),
		"YearsOfExperience": strconv.FormatFloat(job.YearsOfExperience, 'f', -1, 64),
		"Candidates":        string(candidatesJSON),
		"MaxAdjustment":     strconv.FormatFloat(MaxAdjustment, 'f', 1, 64),
	})
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, p.opts.AITimeout)
	defer cancel()

	response, err := p.client.GenerateJSON(callCtx, prompt, p.opts.TieBreakTier)
	if err != nil {
		return nil, fmt.Errorf("tie-break generation failed: %w", err)
	}

	payload := llm.ExtractJSONObject(response)
	if err := schemas.Validate(schemas.TieBreak, payload); err != nil {
		return nil, err
	}
	var parsed tieBreakResponse
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse tie-break response: %w", err)
	}

	out := make(map[string]adjustment, len(parsed.Adjustments))
	for _, adj := range parsed.Adjustments {
		if !members[adj.ApplicantID] {
			continue
		}
		adj.Adjustment = min(max(adj.Adjustment, -MaxAdjustment), MaxAdjustment)
		adj.Justification = strings.TrimSpace(adj.Justification)
		out[adj.ApplicantID] = adj
	}
	return out, nil
}

func groupIDs(group []*candidate) []string {
	ids := make([]string, len(group))
	for i, c := range group {
		ids[i] = c.row.ApplicantID
	}
	return ids
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}
