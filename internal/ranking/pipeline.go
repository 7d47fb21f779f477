package ranking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/applicant-ranker/internal/llm"
	"github.com/jonathan/applicant-ranker/internal/normalize"
	"github.com/jonathan/applicant-ranker/internal/scoring"
	"github.com/jonathan/applicant-ranker/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var errDuplicateApplicant = errors.New("duplicate applicant id")

// Pipeline ranks applicants for a job. The normalizer and client are
// optional: without a normalizer raw text is scored, without a client the
// AI tie-break and insight steps are skipped.
type Pipeline struct {
	normalizer *normalize.Normalizer
	client     llm.Client
	logger     *zap.Logger
	opts       Options
}

// NewPipeline creates a ranking pipeline.
func NewPipeline(normalizer *normalize.Normalizer, client llm.Client, logger *zap.Logger, opts Options) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		normalizer: normalizer,
		client:     client,
		logger:     logger,
		opts:       opts.withDefaults(),
	}
}

// RankApplicantsForJob scores, sorts and ranks applicants. The only error is a
// *types.ValidationError for a structurally invalid record; AI failures are
// logged and degrade to the deterministic order.
func (p *Pipeline) RankApplicantsForJob(ctx context.Context, job *types.JobRequirements, applicants []types.ApplicantData) (*types.RankingResult, error) {
	if err := validateInputs(job, applicants); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := p.logger.With(zap.String("run_id", runID), zap.String("job", job.Title))
	logger.Info("ranking started", zap.Int("applicants", len(applicants)))

	cands, err := p.score(ctx, job, applicants)
	if err != nil {
		return nil, err
	}

	sortCascade(cands, p.opts.SortEpsilon)

	groups := detectTieGroups(cands, p.opts.TieEpsilon)
	if len(groups) > 0 && p.opts.AITieBreak && p.client != nil {
		if p.breakTies(ctx, runID, logger, job, groups) {
			sortByScore(cands)
		}
	}

	ranked := assignRanks(cands)

	if p.opts.Insights && p.client != nil && p.opts.InsightTopK > 0 {
		p.addInsights(ctx, runID, logger, job, ranked)
	}

	logger.Info("ranking finished", zap.Int("tie_groups", len(groups)))

	return &types.RankingResult{
		RunID:     runID,
		JobID:     job.ID,
		JobTitle:  job.Title,
		Ranked:    ranked,
		TieGroups: len(groups),
	}, nil
}

func validateInputs(job *types.JobRequirements, applicants []types.ApplicantData) error {
	if err := types.ValidateJob(job); err != nil {
		return err
	}
	seen := make(map[string]bool, len(applicants))
	for i := range applicants {
		if err := types.ValidateApplicant(&applicants[i]); err != nil {
			return err
		}
		id := applicants[i].ID
		if seen[id] {
			return &types.ValidationError{Record: fmt.Sprintf("applicant %s", id), Cause: errDuplicateApplicant}
		}
		seen[id] = true
	}
	return nil
}

// score normalizes (optionally) and scores every applicant in parallel.
func (p *Pipeline) score(ctx context.Context, job *types.JobRequirements, applicants []types.ApplicantData) ([]*candidate, error) {
	scoredJob := job
	if p.normalizer != nil {
		scoredJob = p.normalizer.NormalizeJob(ctx, job)
	}

	cands := make([]*candidate, len(applicants))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for i := range applicants {
		raw := &applicants[i]
		g.Go(func() error {
			scored := raw
			if p.normalizer != nil {
				scored = p.normalizer.NormalizeApplicant(gctx, raw)
			}
			cands[i] = &candidate{
				row:        rowFromProvenance(raw, scoring.ScoreAll(scoredJob, scored)),
				applicant:  scored,
				years:      raw.TotalYearsExperience,
				skillCount: len(raw.Skills),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cands, nil
}

func rowFromProvenance(applicant *types.ApplicantData, p scoring.Provenance) types.RankedApplicant {
	f := p.Final
	row := types.RankedApplicant{
		ApplicantID:               applicant.ID,
		Name:                      applicant.Name,
		MatchScore:                f.TotalScore,
		EducationScore:            f.EducationScore,
		ExperienceScore:           f.ExperienceScore,
		SkillsScore:               f.SkillsScore,
		EligibilityScore:          f.EligibilityScore,
		AlgorithmUsed:             f.AlgorithmUsed,
		Reasoning:                 f.Reasoning,
		MatchedSkillsCount:        f.MatchedSkillsCount,
		MatchedEligibilitiesCount: f.MatchedEligibilitiesCount,
		TieBreakerUsed:            p.TieBreakerUsed,
		Algorithm1Score:           p.Algorithm1.TotalScore,
		Algorithm2Score:           p.Algorithm2.TotalScore,
		ScoreDifference:           p.Difference,
	}
	if p.Algorithm3 != nil {
		s := p.Algorithm3.TotalScore
		row.Algorithm3Score = &s
	} else {
		row.Algorithm1Weight = scoring.EnsembleWeight1
		row.Algorithm2Weight = scoring.EnsembleWeight2
	}
	return row
}
