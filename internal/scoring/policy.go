// Package scoring implements the three applicant scoring algorithms and the
// ensemble that combines them. Every function is pure.
package scoring

// Shared component policy.
const (
	// NeutralScore is reported when the job states no requirement for a component.
	NeutralScore = 50.0
	// MaxScore caps every component.
	MaxScore     = 100.0
)

// Degree matching.
const (
	// DegreeAlternativeMatch is the core-field similarity at which an OR alternative counts as met.
	DegreeAlternativeMatch = 85.0
)

// Education-level adjustment.
const (
	SameLevelBaseThreshold = 40.0
	SameLevelStrongFloor   = 60.0
	SameLevelWeakFloor     = 40.0
	HigherLevelBonus       = 15.0
	LowerLevelPenalty      = 20.0
	LowerLevelFloor        = 30.0
	RelatedFieldFloor      = 85.0
	EducationFloor         = 30.0
)

// Skill matching.
const (
	SkillExact            = 100.0
	SkillStrongThreshold  = 80.0
	SkillStrong           = 80.0
	SkillPartialThreshold = 50.0
	SkillPartial          = 50.0
	SkillTokenWeight      = 30.0
	SkillMatchedMinimum   = 30.0
	SkillSurplusPerItem   = 2.0
	SkillSurplusCap       = 10.0

	// SkillSharedWordThreshold is the partial-tier similarity required when
	// the two skills share a word.
	SkillSharedWordThreshold = 60.0
)

// Eligibility matching.
const (
	EligibilityStrongThreshold  = 70.0
	EligibilityPartialThreshold = 40.0
	EligibilityPartialScale     = 0.7
	EligibilityTokenWeight      = 40.0
	EligibilityRatioWeight      = 60.0
	EligibilitySimilarityWeight = 0.4
	EligibilitySurplusPerItem   = 5.0
	EligibilitySurplusCap       = 15.0
	EligibilityMatchedFloor     = 40.0
	EligibilityUnmatchedCap     = 25.0
)

// Experience scoring.
const (
	ExperienceMeets       = 100.0
	ExperiencePartial     = 66.7
	ExperienceNone        = 33.3
	ExperienceYearsWeight = 0.7
	ExperienceTitleWeight = 0.3
	TitleTokenBoostWeight = 80.0
)

// Algorithm 1: weighted sum.
const (
	WeightedSumEducation   = 0.30
	WeightedSumExperience  = 0.20
	WeightedSumSkills      = 0.20
	WeightedSumEligibility = 0.30
)

// Algorithm 2: skill-experience composite.
const (
	CompositeExperienceRate = 0.5
	CompositeRatioCap       = 2.0
	CompositeMinYears       = 1.0
	CompositeWeight         = 0.30
	CompositeEducation      = 0.35
	CompositeEligibility    = 0.35
)

// Algorithm 3: eligibility-education tiebreaker. Points, not weights.
const (
	TiebreakerEligibilityPoints  = 40.0
	TiebreakerNeutralEligibility = 20.0
	TiebreakerEducationPoints    = 30.0
	TiebreakerExperiencePoints   = 20.0
	TiebreakerSkillPerMatch      = 10.0
	TiebreakerSkillCap           = 20.0
	TiebreakerSkillScale         = 0.10
)

// Ensemble.
const (
	EnsembleTieThreshold = 5.0
	EnsembleWeight1      = 0.6
	EnsembleWeight2      = 0.4
)

// Algorithm labels reported in ScoreBreakdown.AlgorithmUsed.
const (
	LabelWeightedSum   = "Weighted Sum"
	LabelComposite     = "Skill-Experience Composite"
	LabelTiebreaker    = "Eligibility-Education Tiebreaker"
	LabelEnsembleTie   = "Ensemble (Tie-breaker)"
	LabelEnsembleBlend = "Multi-Factor Assessment"
)
