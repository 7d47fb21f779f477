package scoring

import (
	"fmt"
	"testing"

	"github.com/jonathan/applicant-ranker/internal/similarity"
	"github.com/jonathan/applicant-ranker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, WeightedSumEducation+WeightedSumExperience+WeightedSumSkills+WeightedSumEligibility, 1e-9)
	assert.InDelta(t, 1.0, CompositeWeight+CompositeEducation+CompositeEligibility, 1e-9)
	assert.InDelta(t, 1.0, EnsembleWeight1+EnsembleWeight2, 1e-9)
}

func TestCleanDegreeRequirement(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"Bachelor of Science in Nursing", "Bachelor of Science in Nursing"},
		{"BS Nursing Eligibilities: RA 1080 Skills: charting", "BS Nursing"},
		{"BS Accountancy; skills: Excel", "BS Accountancy"},
		{"Any bachelor's degree EXPERIENCE: 2 years", "Any bachelor's degree"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanDegreeRequirement(tt.input), tt.input)
	}
}

func TestExtractCoreField(t *testing.T) {
	assert.Equal(t, "information technology", ExtractCoreField("Bachelor's Degree in Information Technology"))
	assert.Equal(t, "computer science", ExtractCoreField("Master of Science in Computer Science"))
	assert.Equal(t, "accountancy", ExtractCoreField("Bachelor of Accountancy"))
	assert.Equal(t, "high school graduate", ExtractCoreField("High School Graduate"))
}

func TestMatchDegreeRequirement(t *testing.T) {
	t.Run("or alternative by core field", func(t *testing.T) {
		got := MatchDegreeRequirement(
			"Bachelor of Science in Information Technology or Computer Science",
			"Bachelor's Degree in Information Technology",
		)
		assert.Equal(t, 100.0, got)
	})

	t.Run("second alternative", func(t *testing.T) {
		got := MatchDegreeRequirement(
			"Bachelor of Science in Information Technology or Computer Science",
			"BS in Computer Science",
		)
		assert.Equal(t, 100.0, got)
	})

	t.Run("best alternative below threshold", func(t *testing.T) {
		got := MatchDegreeRequirement("BS in Nursing or Midwifery", "BS in Biology")
		assert.Less(t, got, DegreeAlternativeMatch)
		assert.GreaterOrEqual(t, got, 0.0)
	})

	t.Run("no alternatives compares whole strings", func(t *testing.T) {
		assert.Equal(t, 100.0, MatchDegreeRequirement("Bachelor of Science in Nursing", "bachelor of science in nursing"))
		assert.InDelta(t, 60.0, MatchDegreeRequirement(
			"Bachelor of Science in Information Technology",
			"Bachelor of Science in Computer Science"), 0.01)
	})

	t.Run("contamination is stripped", func(t *testing.T) {
		assert.Equal(t, 100.0, MatchDegreeRequirement("BS Nursing Eligibilities: RA 1080", "BS Nursing"))
	})
}

func TestDetectEducationLevel(t *testing.T) {
	tests := []struct {
		input string
		want  EducationLevel
	}{
		{"Elementary Graduate", LevelElementary},
		{"High School Graduate", LevelSecondary},
		{"Senior High School", LevelSecondary},
		{"TESDA NC II Welding", LevelVocational},
		{"Bachelor of Science in Nursing", LevelBachelor},
		{"BS in IT", LevelBachelor},
		{"College Graduate", LevelBachelor},
		{"18 units of Graduate Studies", LevelGraduateStudies},
		{"Master of Arts in Education", LevelMaster},
		{"MBA", LevelMaster},
		{"Doctor of Philosophy", LevelDoctoral},
		{"PhD in Physics", LevelDoctoral},
		{"Some free text", LevelUnknown},
		{"", LevelUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectEducationLevel(tt.input), tt.input)
	}
	assert.Equal(t, "graduate studies", LevelGraduateStudies.String())
}

func TestAdjustEducationScore(t *testing.T) {
	job := func(degree string) *types.JobRequirements {
		return &types.JobRequirements{Title: "x", DegreeRequirement: degree}
	}
	applicant := func(degree string) *types.ApplicantData {
		return &types.ApplicantData{ID: "a", HighestEducationalAttainment: degree}
	}

	t.Run("same level floors", func(t *testing.T) {
		j := job("Bachelor of Science in Nursing")
		assert.Equal(t, 60.0, AdjustEducationScore(45, j, applicant("Bachelor of Arts in History")))
		assert.Equal(t, 40.0, AdjustEducationScore(10, j, applicant("Bachelor of Arts in History")))
		assert.Equal(t, 75.0, AdjustEducationScore(75, j, applicant("Bachelor of Arts in History")))
	})

	t.Run("higher level bonus", func(t *testing.T) {
		j := job("Bachelor of Science in Nursing")
		assert.Equal(t, 65.0, AdjustEducationScore(50, j, applicant("Master of Arts in Nursing")))
		assert.Equal(t, 100.0, AdjustEducationScore(95, j, applicant("Master of Arts in Nursing")))
	})

	t.Run("lower level penalty", func(t *testing.T) {
		j := job("Master of Science in Computer Science")
		assert.Equal(t, 50.0, AdjustEducationScore(70, j, applicant("Bachelor of Science in Biology")))
		assert.Equal(t, 30.0, AdjustEducationScore(35, j, applicant("Bachelor of Science in Biology")))
	})

	t.Run("related field boost", func(t *testing.T) {
		j := job("Bachelor of Science in Information Technology")
		assert.Equal(t, 85.0, AdjustEducationScore(60, j, applicant("Bachelor of Science in Computer Science")))
	})

	t.Run("dictionary level hint wins", func(t *testing.T) {
		j := job("Nursing degree")
		j.DegreeLevel = "bachelor"
		a := applicant("RN program")
		a.DegreeLevel = "master"
		assert.Equal(t, 65.0, AdjustEducationScore(50, j, a))
	})

	t.Run("floor", func(t *testing.T) {
		assert.Equal(t, EducationFloor, AdjustEducationScore(0, job("Some Degree"), applicant("Other")))
	})

	t.Run("or requirement uses lowest level", func(t *testing.T) {
		j := job("Bachelor of Science in Biology or Master of Science in Chemistry")
		assert.Equal(t, 60.0, AdjustEducationScore(50, j, applicant("Bachelor of Science in Physics")))
	})
}

func TestCalculateSkillMatch(t *testing.T) {
	t.Run("exact plus token overlap", func(t *testing.T) {
		m := CalculateSkillMatch([]string{"JavaScript", "Data Analysis"}, []string{"JavaScript", "Data Entry"})
		assert.InDelta(t, 57.5, m.Score, 1e-9)
		assert.Equal(t, 1, m.Matched)
		assert.InDeltaSlice(t, []float64{100, 15}, m.Best, 1e-9)
	})

	t.Run("surplus bonus", func(t *testing.T) {
		m := CalculateSkillMatch(
			[]string{"JavaScript", "Data Analysis"},
			[]string{"JavaScript", "Data Entry", "Go", "SQL", "Docker"},
		)
		assert.InDelta(t, 63.5, m.Score, 1e-9)
	})

	t.Run("surplus bonus is capped", func(t *testing.T) {
		have := []string{"Go"}
		for i := 0; i < 20; i++ {
			have = append(have, fmt.Sprintf("Tool%d", i))
		}
		m := CalculateSkillMatch([]string{"Go"}, have)
		assert.Equal(t, 100.0, m.Score)
	})

	t.Run("strong similarity tier", func(t *testing.T) {
		m := CalculateSkillMatch([]string{"Kubernetes"}, []string{"Kubernetes."})
		assert.Equal(t, []float64{SkillStrong}, m.Best)
		assert.Equal(t, 1, m.Matched)
	})

	t.Run("partial similarity tier", func(t *testing.T) {
		m := CalculateSkillMatch([]string{"Photoshop"}, []string{"Photography"})
		assert.Equal(t, []float64{SkillPartial}, m.Best)
	})

	t.Run("shared word with close spelling keeps partial tier", func(t *testing.T) {
		m := CalculateSkillMatch([]string{"Java Programming", "Microsoft Excel"}, []string{"JavaScript Programming", "Microsoft Word"})
		assert.Equal(t, []float64{SkillPartial, SkillPartial}, m.Best)
		assert.Equal(t, 2, m.Matched)
	})

	t.Run("shared word with distant spelling uses token overlap", func(t *testing.T) {
		assert.InDelta(t, 15.0, skillPairScore("Data Analysis", "Data Entry", similarity.NormalizeTokens("Data Analysis")), 1e-9)
	})

	t.Run("no requirements is neutral", func(t *testing.T) {
		m := CalculateSkillMatch(nil, []string{"Go"})
		assert.Equal(t, NeutralScore, m.Score)
		assert.Zero(t, m.Matched)
	})

	t.Run("no applicant skills", func(t *testing.T) {
		m := CalculateSkillMatch([]string{"Go"}, []string{" "})
		assert.Zero(t, m.Score)
		assert.Zero(t, m.Matched)
	})

	t.Run("one applicant skill matching many requirements counts once", func(t *testing.T) {
		m := CalculateSkillMatch([]string{"Go", "golang", "GO"}, []string{"Go"})
		assert.Equal(t, 1, m.Matched)
	})
}

func TestCalculateEligibilityMatch(t *testing.T) {
	t.Run("neutral when not required", func(t *testing.T) {
		for _, req := range [][]string{nil, {""}, {"None"}, {"Not required"}, {"none required", "NOT REQUIRED"}} {
			m := CalculateEligibilityMatch(req, []string{"Career Service Professional"})
			assert.Equal(t, NeutralScore, m.Score, req)
			assert.True(t, m.Neutral)
			assert.Zero(t, m.Matched)
		}
	})

	t.Run("exact match", func(t *testing.T) {
		m := CalculateEligibilityMatch([]string{"Career Service Professional"}, []string{"career service professional"})
		assert.Equal(t, 100.0, m.Score)
		assert.Equal(t, 1, m.Matched)
	})

	t.Run("unique applicant items", func(t *testing.T) {
		m := CalculateEligibilityMatch(
			[]string{"Career Service Professional", "Career Service Professional (Second Level)"},
			[]string{"Career Service Professional"},
		)
		assert.Equal(t, 1, m.Matched)
		// 0.5*60 + ((100 + 64.29*0.7)/2)*0.4
		assert.InDelta(t, 59.0, m.Score, 0.01)
	})

	t.Run("no match is capped", func(t *testing.T) {
		m := CalculateEligibilityMatch([]string{"Registered Nurse License"}, nil)
		assert.Zero(t, m.Score)
		assert.Zero(t, m.Matched)

		m = CalculateEligibilityMatch(
			[]string{"RA 1080"},
			[]string{"Driver", "Welder", "Chef", "Pilot", "Baker"},
		)
		assert.LessOrEqual(t, m.Score, EligibilityUnmatchedCap)
	})

	t.Run("any match floors at 40", func(t *testing.T) {
		m := CalculateEligibilityMatch(
			[]string{"Registered Nurse License", "Midwife License", "Pharmacist License"},
			[]string{"Nurse"},
		)
		assert.GreaterOrEqual(t, m.Score, EligibilityMatchedFloor)
		assert.Equal(t, 1, m.Matched)
	})
}

func TestCalculateExperienceScore(t *testing.T) {
	job := &types.JobRequirements{Title: "Systems Analyst", YearsOfExperience: 3}

	tests := []struct {
		name   string
		years  float64
		titles []string
		want   float64
	}{
		{"meets, no titles", 5, nil, 0.7*100 + 0.3*50},
		{"below", 1, nil, 0.7*66.7 + 0.3*50},
		{"just below is still partial", 2.9, nil, 0.7*66.7 + 0.3*50},
		{"exactly required", 3, nil, 0.7*100 + 0.3*50},
		{"none", 0, nil, 0.7*33.3 + 0.3*50},
		{"exact title", 3, []string{"Clerk", "systems analyst"}, 100},
		{"shared words", 3, []string{"Senior Systems Analyst"}, 0.7*100 + 0.3*80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &types.ApplicantData{ID: "a", TotalYearsExperience: tt.years, WorkExperienceTitles: tt.titles}
			assert.InDelta(t, tt.want, CalculateExperienceScore(job, a).Score, 1e-9)
		})
	}
}

func TestCompositeSkillScore(t *testing.T) {
	assert.InDelta(t, 80.0, CompositeSkillScore(80, 2), 1e-9)
	assert.InDelta(t, 80.0, CompositeSkillScore(80, 5), 1e-9)
	assert.InDelta(t, 80.0/2.718281828459045, CompositeSkillScore(80, 0), 1e-9)
	assert.Less(t, CompositeSkillScore(80, 1), 80.0)
}

func TestCombine_TieUsesAlgorithm3(t *testing.T) {
	b1 := types.ScoreBreakdown{TotalScore: 70, AlgorithmUsed: LabelWeightedSum}
	b2 := types.ScoreBreakdown{TotalScore: 74, AlgorithmUsed: LabelComposite}
	b3 := types.ScoreBreakdown{
		EducationScore: 81, ExperienceScore: 72, SkillsScore: 64, EligibilityScore: 90,
		TotalScore: 73.2, AlgorithmUsed: LabelTiebreaker, Reasoning: "trace",
		MatchedSkillsCount: 2, MatchedEligibilitiesCount: 1,
	}

	p := combine(b1, b2, func() types.ScoreBreakdown { return b3 })
	require.True(t, p.TieBreakerUsed)
	require.NotNil(t, p.Algorithm3)
	assert.InDelta(t, 4.0, p.Difference, 1e-9)

	want := b3
	want.AlgorithmUsed = LabelEnsembleTie
	want.Reasoning = p.Final.Reasoning
	assert.Equal(t, want, p.Final)
	assert.Contains(t, p.Final.Reasoning, "70.0")
	assert.Contains(t, p.Final.Reasoning, "74.0")
	assert.Contains(t, p.Final.Reasoning, "trace")
}

func TestCombine_BlendWhenApart(t *testing.T) {
	b1 := types.ScoreBreakdown{TotalScore: 70, EducationScore: 90, ExperienceScore: 50, SkillsScore: 30, EligibilityScore: 100}
	b2 := types.ScoreBreakdown{TotalScore: 90, EducationScore: 90, ExperienceScore: 50, SkillsScore: 30, EligibilityScore: 100}

	called := false
	p := combine(b1, b2, func() types.ScoreBreakdown { called = true; return types.ScoreBreakdown{} })
	assert.False(t, called)
	assert.False(t, p.TieBreakerUsed)
	assert.Nil(t, p.Algorithm3)
	assert.InDelta(t, 78.0, p.Final.TotalScore, 1e-9)
	assert.Equal(t, LabelEnsembleBlend, p.Final.AlgorithmUsed)
	assert.Contains(t, p.Final.Reasoning, "strong educational background")
	assert.Contains(t, p.Final.Reasoning, "limited relevant experience")
	assert.Contains(t, p.Final.Reasoning, "missing several required skills")
	assert.Contains(t, p.Final.Reasoning, "meets eligibility requirements")
}

func TestSummarize_Balanced(t *testing.T) {
	got := summarize(types.ScoreBreakdown{EducationScore: 70, ExperienceScore: 70, SkillsScore: 50, EligibilityScore: 70})
	assert.Equal(t, "Balanced profile with no standout strengths or gaps.", got)
}

func TestAlgorithm3_NeutralEligibility(t *testing.T) {
	job := &types.JobRequirements{Title: "Clerk", YearsOfExperience: 0}
	applicant := &types.ApplicantData{ID: "a", TotalYearsExperience: 0}

	b := EligibilityEducationTiebreaker(job, applicant)
	// eligibility +20, no degree requirement 30, experience (100*0.7+50*0.3)/100*20 = 17, skills 0
	assert.InDelta(t, 67.0, b.TotalScore, 1e-9)
	assert.Equal(t, LabelTiebreaker, b.AlgorithmUsed)
	assert.Len(t, splitReasons(b.Reasoning), 4)
}

func splitReasons(s string) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(s); i++ {
		if s[i] == ';' && s[i+1] == ' ' {
			out = append(out, s[start:i])
			start = i + 2
		}
	}
	return append(out, s[start:])
}

func TestEnsemble_MatchesScoreAll(t *testing.T) {
	job, applicants := fixture()
	for _, a := range applicants {
		p := ScoreAll(job, a)
		assert.Equal(t, p.Final, Ensemble(job, a))
		if p.TieBreakerUsed {
			assert.Equal(t, LabelEnsembleTie, p.Final.AlgorithmUsed)
		} else {
			assert.Equal(t, LabelEnsembleBlend, p.Final.AlgorithmUsed)
			assert.InDelta(t, 0.6*p.Algorithm1.TotalScore+0.4*p.Algorithm2.TotalScore, p.Final.TotalScore, 1e-9)
		}
	}
}

func TestScores_Bounded(t *testing.T) {
	job, applicants := fixture()
	algorithms := map[string]func(*types.JobRequirements, *types.ApplicantData) types.ScoreBreakdown{
		LabelWeightedSum: WeightedSum,
		LabelComposite:   SkillExperienceComposite,
		LabelTiebreaker:  EligibilityEducationTiebreaker,
		"ensemble":       Ensemble,
	}

	for name, alg := range algorithms {
		for _, a := range applicants {
			b := alg(job, a)
			for _, s := range []float64{b.EducationScore, b.ExperienceScore, b.SkillsScore, b.EligibilityScore, b.TotalScore} {
				assert.GreaterOrEqual(t, s, 0.0, "%s/%s", name, a.ID)
				assert.LessOrEqual(t, s, 100.0, "%s/%s", name, a.ID)
			}
			assert.LessOrEqual(t, b.MatchedSkillsCount, len(job.Skills), "%s/%s", name, a.ID)
			assert.LessOrEqual(t, b.MatchedEligibilitiesCount, len(job.Eligibilities), "%s/%s", name, a.ID)
		}
	}
}

func TestWeightedSum_Formula(t *testing.T) {
	job, applicants := fixture()
	b := WeightedSum(job, applicants[0])
	want := 0.3*b.EducationScore + 0.2*b.ExperienceScore + 0.2*b.SkillsScore + 0.3*b.EligibilityScore
	assert.InDelta(t, want, b.TotalScore, 1e-9)
}

func fixture() (*types.JobRequirements, []*types.ApplicantData) {
	job := &types.JobRequirements{
		Title:             "Information Technology Officer I",
		DegreeRequirement: "Bachelor of Science in Information Technology or Computer Science",
		Eligibilities:     []string{"Career Service Professional", "RA 1080"},
		Skills:            []string{"Go", "PostgreSQL", "Data Analysis"},
		YearsOfExperience: 2,
	}
	applicants := []*types.ApplicantData{
		{
			ID:                           "strong",
			HighestEducationalAttainment: "Bachelor's Degree in Information Technology",
			Eligibilities:                []types.Eligibility{{EligibilityTitle: "Career Service Professional"}},
			Skills:                       []string{"Go", "PostgreSQL", "Data Analysis", "Docker", "Kubernetes"},
			TotalYearsExperience:         6,
			WorkExperienceTitles:         []string{"Information Technology Officer"},
		},
		{
			ID:                           "weak",
			HighestEducationalAttainment: "High School Graduate",
			Skills:                       []string{"Typing"},
		},
		{
			ID:                           "empty",
			HighestEducationalAttainment: "",
		},
		{
			ID:                           "overqualified",
			HighestEducationalAttainment: "Doctor of Philosophy in Computer Science",
			Eligibilities: []types.Eligibility{
				{EligibilityTitle: "Career Service Professional"},
				{EligibilityTitle: "Career Service Professional"},
				{EligibilityTitle: "RA 1080 (Engineer)"},
				{EligibilityTitle: "Civil Service Sub-Professional"},
			},
			Skills:               []string{"go", "golang", "SQL", "postgres", "Python", "Java", "Rust", "C", "C++", "Data Science"},
			TotalYearsExperience: 20,
		},
	}
	return job, applicants
}
