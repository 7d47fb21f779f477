package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/applicant-ranker/internal/types"
)

// components holds every shared component for one (job, applicant) pair.
type components struct {
	education   educationResult
	experience  ExperienceMatch
	skills      SkillMatch
	eligibility EligibilityMatch
}

func computeComponents(job *types.JobRequirements, applicant *types.ApplicantData) components {
	return components{
		education:   scoreEducation(job, applicant),
		experience:  CalculateExperienceScore(job, applicant),
		skills:      CalculateSkillMatch(job.Skills, applicant.Skills),
		eligibility: CalculateEligibilityMatch(job.Eligibilities, applicant.EligibilityTitles()),
	}
}

func (c components) breakdown(total float64, label, reasoning string) types.ScoreBreakdown {
	return types.ScoreBreakdown{
		EducationScore:            c.education.Score,
		ExperienceScore:           c.experience.Score,
		SkillsScore:               c.skills.Score,
		EligibilityScore:          c.eligibility.Score,
		TotalScore:                total,
		AlgorithmUsed:             label,
		Reasoning:                 reasoning,
		MatchedSkillsCount:        c.skills.Matched,
		MatchedEligibilitiesCount: c.eligibility.Matched,
	}
}

func (c components) fragments() []string {
	eligibility := fmt.Sprintf("eligibility %.1f (%d matched)", c.eligibility.Score, c.eligibility.Matched)
	if c.eligibility.Neutral {
		eligibility = "no eligibility required"
	}
	return []string{
		"education: " + c.education.Detail,
		fmt.Sprintf("experience %.1f (years %.1f, title relevance %.1f)",
			c.experience.Score, c.experience.YearsScore, c.experience.TitleRelevance),
		fmt.Sprintf("skills %.1f (%d matched)", c.skills.Score, c.skills.Matched),
		eligibility,
	}
}

// WeightedSum is algorithm 1: a fixed weighted sum of the four components.
func WeightedSum(job *types.JobRequirements, applicant *types.ApplicantData) types.ScoreBreakdown {
	return weightedSum(computeComponents(job, applicant))
}

func weightedSum(c components) types.ScoreBreakdown {
	total := WeightedSumEducation*c.education.Score +
		WeightedSumExperience*c.experience.Score +
		WeightedSumSkills*c.skills.Score +
		WeightedSumEligibility*c.eligibility.Score
	return c.breakdown(total, LabelWeightedSum, strings.Join(c.fragments(), "; "))
}

// SkillExperienceComposite is algorithm 2. Skills are scaled by an
// exponential in the years ratio; experience reaches the total only through
// that ratio.
func SkillExperienceComposite(job *types.JobRequirements, applicant *types.ApplicantData) types.ScoreBreakdown {
	return skillExperienceComposite(computeComponents(job, applicant), job, applicant)
}

func skillExperienceComposite(c components, job *types.JobRequirements, applicant *types.ApplicantData) types.ScoreBreakdown {
	ratio := experienceRatio(applicant.TotalYearsExperience, job.YearsOfExperience)
	composite := CompositeSkillScore(c.skills.Score, ratio)

	total := CompositeWeight*composite +
		CompositeEducation*c.education.Score +
		CompositeEligibility*c.eligibility.Score

	reasoning := fmt.Sprintf("skill-experience composite %.1f (skills %.1f, experience ratio %.2f); %s; %s",
		composite, c.skills.Score, ratio, c.fragments()[0], c.fragments()[3])
	return c.breakdown(total, LabelComposite, reasoning)
}

func experienceRatio(have, required float64) float64 {
	return have / max(required, CompositeMinYears)
}

// CompositeSkillScore is skills × e^(0.5·min(ratio, 2)) / e^(0.5·2).
func CompositeSkillScore(skills, ratio float64) float64 {
	ratio = min(max(ratio, 0), CompositeRatioCap)
	return skills * math.Exp(CompositeExperienceRate*ratio) / math.Exp(CompositeExperienceRate*CompositeRatioCap)
}

// EligibilityEducationTiebreaker is algorithm 3: points for eligibility,
// education, experience and a small skills credit.
func EligibilityEducationTiebreaker(job *types.JobRequirements, applicant *types.ApplicantData) types.ScoreBreakdown {
	return eligibilityEducationTiebreaker(computeComponents(job, applicant))
}

func eligibilityEducationTiebreaker(c components) types.ScoreBreakdown {
	var reasons []string

	eligibility := TiebreakerNeutralEligibility
	if c.eligibility.Neutral {
		reasons = append(reasons, fmt.Sprintf("no eligibility required (+%.1f)", eligibility))
	} else {
		eligibility = c.eligibility.Score / MaxScore * TiebreakerEligibilityPoints
		reasons = append(reasons, fmt.Sprintf("eligibility %.1f/%.0f (%d matched)",
			eligibility, TiebreakerEligibilityPoints, c.eligibility.Matched))
	}

	education := c.education.Score / MaxScore * TiebreakerEducationPoints
	reasons = append(reasons, fmt.Sprintf("education %.1f/%.0f", education, TiebreakerEducationPoints))

	experience := c.experience.Score / MaxScore * TiebreakerExperiencePoints
	reasons = append(reasons, fmt.Sprintf("experience %.1f/%.0f", experience, TiebreakerExperiencePoints))

	skills := min(float64(c.skills.Matched)*TiebreakerSkillPerMatch, TiebreakerSkillCap) * TiebreakerSkillScale
	reasons = append(reasons, fmt.Sprintf("skills %.1f (%d matched)", skills, c.skills.Matched))

	total := eligibility + education + experience + skills
	return c.breakdown(total, LabelTiebreaker, strings.Join(reasons, "; "))
}

// Provenance records every algorithm result behind a final score.
type Provenance struct {
	Algorithm1     types.ScoreBreakdown
	Algorithm2     types.ScoreBreakdown
	Algorithm3     *types.ScoreBreakdown
	Difference     float64
	TieBreakerUsed bool
	Final          types.ScoreBreakdown
}

// Ensemble returns algorithm 3 (relabeled) when algorithms 1 and 2 agree
// within EnsembleTieThreshold, otherwise a 0.6/0.4 blend of them.
func Ensemble(job *types.JobRequirements, applicant *types.ApplicantData) types.ScoreBreakdown {
	return ScoreAll(job, applicant).Final
}

// ScoreAll runs every algorithm once and combines them.
func ScoreAll(job *types.JobRequirements, applicant *types.ApplicantData) Provenance {
	c := computeComponents(job, applicant)
	return combine(
		weightedSum(c),
		skillExperienceComposite(c, job, applicant),
		func() types.ScoreBreakdown { return eligibilityEducationTiebreaker(c) },
	)
}

func combine(b1, b2 types.ScoreBreakdown, tiebreaker func() types.ScoreBreakdown) Provenance {
	p := Provenance{
		Algorithm1: b1,
		Algorithm2: b2,
		Difference: math.Abs(b1.TotalScore - b2.TotalScore),
	}

	if p.Difference <= EnsembleTieThreshold {
		b3 := tiebreaker()
		p.Algorithm3 = &b3
		p.TieBreakerUsed = true

		final := b3
		final.AlgorithmUsed = LabelEnsembleTie
		final.Reasoning = fmt.Sprintf("%s %.1f and %s %.1f within %.0f points, tie-breaker applied: %s",
			b1.AlgorithmUsed, b1.TotalScore, b2.AlgorithmUsed, b2.TotalScore, EnsembleTieThreshold, b3.Reasoning)
		p.Final = final
		return p
	}

	blend := func(x, y float64) float64 { return EnsembleWeight1*x + EnsembleWeight2*y }
	final := types.ScoreBreakdown{
		EducationScore:            blend(b1.EducationScore, b2.EducationScore),
		ExperienceScore:           blend(b1.ExperienceScore, b2.ExperienceScore),
		SkillsScore:               blend(b1.SkillsScore, b2.SkillsScore),
		EligibilityScore:          blend(b1.EligibilityScore, b2.EligibilityScore),
		TotalScore:                blend(b1.TotalScore, b2.TotalScore),
		AlgorithmUsed:             LabelEnsembleBlend,
		MatchedSkillsCount:        b1.MatchedSkillsCount,
		MatchedEligibilitiesCount: b1.MatchedEligibilitiesCount,
	}
	final.Reasoning = summarize(final)
	p.Final = final
	return p
}

// summarize turns component thresholds into a short assessment.
func summarize(b types.ScoreBreakdown) string {
	var strengths, gaps []string

	switch {
	case b.EducationScore >= 80:
		strengths = append(strengths, "strong educational background")
	case b.EducationScore < 60:
		gaps = append(gaps, "education below the requirement")
	}

	switch {
	case b.ExperienceScore >= 90:
		strengths = append(strengths, "excellent relevant experience")
	case b.ExperienceScore >= 80:
		strengths = append(strengths, "solid relevant experience")
	case b.ExperienceScore < 60:
		gaps = append(gaps, "limited relevant experience")
	}

	switch {
	case b.SkillsScore >= 60:
		strengths = append(strengths, "good match on required skills")
	case b.SkillsScore < 40:
		gaps = append(gaps, "missing several required skills")
	}

	switch {
	case b.EligibilityScore >= 80:
		strengths = append(strengths, "meets eligibility requirements")
	case b.EligibilityScore < 60:
		gaps = append(gaps, "eligibility gap")
	}

	var parts []string
	if len(strengths) > 0 {
		parts = append(parts, "Strengths: "+strings.Join(strengths, ", ")+".")
	}
	if len(gaps) > 0 {
		parts = append(parts, "Gaps: "+strings.Join(gaps, ", ")+".")
	}
	if len(parts) == 0 {
		return "Balanced profile with no standout strengths or gaps."
	}
	return strings.Join(parts, " ")
}
