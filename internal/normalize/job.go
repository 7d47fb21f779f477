package normalize

import (
	"context"

	"github.com/jonathan/applicant-ranker/internal/dictionary"
	"github.com/jonathan/applicant-ranker/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NormalizeJobAndApplicant returns deep copies of job and applicant with degree
// strings and eligibility lines canonicalized. DegreeLevel and DegreeFieldGroup
// are taken from the first resolved canonical degree on each side. The inputs
// are never modified.
func (n *Normalizer) NormalizeJobAndApplicant(ctx context.Context, job *types.JobRequirements, applicant *types.ApplicantData) (*types.JobRequirements, *types.ApplicantData) {
	// Both sides share one dictionary load.
	_ = n.loader.EnsureLoaded(ctx)

	var (
		j *types.JobRequirements
		a *types.ApplicantData
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		j = n.NormalizeJob(gctx, job)
		return nil
	})
	g.Go(func() error {
		a = n.NormalizeApplicant(gctx, applicant)
		return nil
	})
	_ = g.Wait()

	return j, a
}

// NormalizeJob returns a canonicalized deep copy of job.
func (n *Normalizer) NormalizeJob(ctx context.Context, job *types.JobRequirements) *types.JobRequirements {
	j := job.Clone()

	var degree []types.NormalizationResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		j.DegreeRequirement, degree = n.normalizeComposite(gctx, dictionary.Degrees, j.DegreeRequirement)
		return nil
	})
	g.Go(func() error {
		for i, line := range j.Eligibilities {
			j.Eligibilities[i], _ = n.normalizeComposite(gctx, dictionary.Eligibilities, line)
		}
		return nil
	})
	_ = g.Wait()

	if entry, ok := n.primaryDegree(degree); ok {
		j.DegreeLevel, j.DegreeFieldGroup = entry.Level, entry.FieldGroup
	}

	n.logger.Debug("normalized job",
		zap.String("job", j.Title),
		zap.String("degree_requirement", j.DegreeRequirement),
		zap.Strings("eligibilities", j.Eligibilities),
	)
	return &j
}

// NormalizeApplicant returns a canonicalized deep copy of applicant.
func (n *Normalizer) NormalizeApplicant(ctx context.Context, applicant *types.ApplicantData) *types.ApplicantData {
	a := applicant.Clone()

	var degree []types.NormalizationResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.HighestEducationalAttainment, degree = n.normalizeComposite(gctx, dictionary.Degrees, a.HighestEducationalAttainment)
		return nil
	})
	g.Go(func() error {
		for i, e := range a.Eligibilities {
			a.Eligibilities[i].EligibilityTitle, _ = n.normalizeComposite(gctx, dictionary.Eligibilities, e.EligibilityTitle)
		}
		return nil
	})
	_ = g.Wait()

	if entry, ok := n.primaryDegree(degree); ok {
		a.DegreeLevel, a.DegreeFieldGroup = entry.Level, entry.FieldGroup
	}

	n.logger.Debug("normalized applicant",
		zap.String("applicant", a.ID),
		zap.String("attainment", a.HighestEducationalAttainment),
	)
	return &a
}

func (n *Normalizer) primaryDegree(results []types.NormalizationResult) (types.CanonicalEntry, bool) {
	for _, r := range results {
		if r.Resolved() {
			return n.loader.Degrees().Get(*r.CanonicalKey)
		}
	}
	return types.CanonicalEntry{}, false
}
