//nolint:revive // types is a standard Go package name pattern
package types

// ScoreBreakdown is the result of scoring one applicant against one job.
// Component scores are in [0,100].
type ScoreBreakdown struct {
	EducationScore            float64 `json:"education_score"`
	ExperienceScore           float64 `json:"experience_score"`
	SkillsScore               float64 `json:"skills_score"`
	EligibilityScore          float64 `json:"eligibility_score"`
	TotalScore                float64 `json:"total_score"`
	AlgorithmUsed             string  `json:"algorithm_used"`
	Reasoning                 string  `json:"reasoning"`
	MatchedSkillsCount        int     `json:"matched_skills_count"`
	MatchedEligibilitiesCount int     `json:"matched_eligibilities_count"`
}

// RankedApplicant is one row of a ranking run. The whole list is replaced on re-rank.
type RankedApplicant struct {
	ApplicantID      string  `json:"applicant_id"`
	Name             string  `json:"name,omitempty"`
	Rank             int     `json:"rank"`
	MatchScore       float64 `json:"match_score"`
	EducationScore   float64 `json:"education_score"`
	ExperienceScore  float64 `json:"experience_score"`
	SkillsScore      float64 `json:"skills_score"`
	EligibilityScore float64 `json:"eligibility_score"`
	AlgorithmUsed    string  `json:"algorithm_used"`
	Reasoning        string  `json:"reasoning"`

	MatchedSkillsCount        int `json:"matched_skills_count"`
	MatchedEligibilitiesCount int `json:"matched_eligibilities_count"`

	// Provenance of the ensemble decision.
	TieBreakerUsed   bool     `json:"tie_breaker_used"`
	Algorithm1Score  float64  `json:"algorithm1_score"`
	Algorithm2Score  float64  `json:"algorithm2_score"`
	Algorithm3Score  *float64 `json:"algorithm3_score,omitempty"`
	Algorithm1Weight float64  `json:"algorithm1_weight,omitempty"`
	Algorithm2Weight float64  `json:"algorithm2_weight,omitempty"`
	ScoreDifference  float64  `json:"score_difference"`

	// AIAdjustment is the signed micro-adjustment applied by the AI tie-breaker (0 when none).
	AIAdjustment float64 `json:"ai_adjustment,omitempty"`
	Insight      string  `json:"insight,omitempty"`
}

// RankingResult wraps a ranking run.
type RankingResult struct {
	RunID     string            `json:"run_id"`
	JobID     string            `json:"job_id,omitempty"`
	JobTitle  string            `json:"job_title"`
	Ranked    []RankedApplicant `json:"ranked"`
	TieGroups int               `json:"tie_groups"`
}

// ComparisonWinner names the outcome of a head-to-head comparison.
type ComparisonWinner string

const (
	WinnerApplicant1 ComparisonWinner = "applicant1"
	WinnerApplicant2 ComparisonWinner = "applicant2"
	WinnerTie        ComparisonWinner = "tie"
)

// ComparisonResult is the outcome of comparing two applicants for the same job.
type ComparisonResult struct {
	Winner     ComparisonWinner `json:"winner"`
	Applicant1 ScoreBreakdown   `json:"applicant1"`
	Applicant2 ScoreBreakdown   `json:"applicant2"`
	Analysis   string           `json:"analysis"`
}
