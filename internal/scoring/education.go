package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/applicant-ranker/internal/similarity"
	"github.com/jonathan/applicant-ranker/internal/types"
)

// EducationLevel is a coarse, ordered attainment level.
type EducationLevel int

const (
	LevelUnknown EducationLevel = iota
	LevelElementary
	LevelSecondary
	LevelVocational
	LevelBachelor
	LevelGraduateStudies
	LevelMaster
	LevelDoctoral
)

var levelNames = map[EducationLevel]string{
	LevelUnknown:         "unknown",
	LevelElementary:      "elementary",
	LevelSecondary:       "secondary",
	LevelVocational:      "vocational",
	LevelBachelor:        "bachelor",
	LevelGraduateStudies: "graduate studies",
	LevelMaster:          "master",
	LevelDoctoral:        "doctoral",
}

func (l EducationLevel) String() string {
	return levelNames[l]
}

// levelMarkers is checked from the highest level down; the first hit wins.
var levelMarkers = []struct {
	level   EducationLevel
	phrases []string
	tokens  []string
}{
	{LevelDoctoral, []string{"doctor", "doctoral", "doctorate"}, []string{"phd", "dr", "edd", "dba"}},
	{LevelMaster, []string{"master"}, []string{"ma", "ms", "msc", "mba", "mpa", "maed"}},
	{LevelGraduateStudies, []string{"graduate studies", "graduate units", "post graduate", "postgraduate"}, nil},
	{LevelBachelor, []string{"bachelor", "college graduate", "baccalaureate"}, []string{"bs", "ba", "ab", "bsc", "bsed", "beed"}},
	{LevelVocational, []string{"vocational", "tesda", "technical course", "associate"}, []string{"diploma", "nc"}},
	{LevelSecondary, []string{"secondary", "high school", "senior high", "junior high"}, []string{"shs", "jhs"}},
	{LevelElementary, []string{"elementary", "primary", "grade school"}, nil},
}

// DetectEducationLevel finds the highest level named in s.
func DetectEducationLevel(s string) EducationLevel {
	key := similarity.NormalizeKey(s)
	if key == "" {
		return LevelUnknown
	}
	padded := " " + key + " "
	tokens := strings.Fields(key)

	for _, m := range levelMarkers {
		for _, phrase := range m.phrases {
			if strings.Contains(padded, " "+phrase) {
				return m.level
			}
		}
		for _, want := range m.tokens {
			for _, tok := range tokens {
				if tok == want {
					return m.level
				}
			}
		}
	}
	return LevelUnknown
}

// levelOf prefers the dictionary level when normalization supplied one.
func levelOf(text, hint string) EducationLevel {
	if l := DetectEducationLevel(hint); l != LevelUnknown {
		return l
	}
	return DetectEducationLevel(text)
}

// requiredLevel is the lowest level accepted by any OR alternative.
func requiredLevel(jobDegree, hint string) EducationLevel {
	alternatives := splitAlternatives(jobDegree)
	if len(alternatives) == 0 {
		return levelOf(jobDegree, hint)
	}
	lowest := LevelUnknown
	for _, alt := range alternatives {
		l := DetectEducationLevel(alt)
		if l != LevelUnknown && (lowest == LevelUnknown || l < lowest) {
			lowest = l
		}
	}
	if lowest == LevelUnknown {
		return DetectEducationLevel(hint)
	}
	return lowest
}

// relatedFields maps a job field onto applicant fields that count as a close fit.
var relatedFields = map[string][]string{
	"information technology":  {"computer science", "information systems", "computer engineering", "software engineering"},
	"computer science":        {"information technology", "software engineering", "computer engineering", "information systems"},
	"software engineering":    {"computer science", "computer engineering", "information technology"},
	"information systems":     {"information technology", "computer science", "management information"},
	"computer engineering":    {"electronics engineering", "electrical engineering", "computer science"},
	"electrical engineering":  {"electronics engineering", "computer engineering"},
	"civil engineering":       {"structural engineering", "geodetic engineering", "architecture"},
	"data science":            {"statistics", "mathematics", "computer science", "applied mathematics"},
	"statistics":              {"mathematics", "data science", "economics", "applied mathematics"},
	"mathematics":             {"statistics", "applied mathematics", "physics"},
	"accountancy":             {"accounting", "accounting technology", "management accounting", "finance"},
	"accounting":              {"accountancy", "accounting technology", "finance"},
	"business administration": {"management", "public administration", "entrepreneurship", "marketing"},
	"public administration":   {"political science", "governance", "business administration"},
	"nursing":                 {"midwifery", "public health"},
	"psychology":              {"guidance and counseling", "social work", "behavioral science"},
	"social work":             {"psychology", "community development", "sociology"},
	"agriculture":             {"agribusiness", "agricultural engineering", "forestry", "agronomy"},
}

// isRelatedField reports whether applicantField is listed as related to jobField.
func isRelatedField(jobField, applicantField string) bool {
	if jobField == "" || applicantField == "" {
		return false
	}
	for key, related := range relatedFields {
		if !strings.Contains(jobField, key) {
			continue
		}
		for _, r := range related {
			if strings.Contains(applicantField, r) {
				return true
			}
		}
	}
	return false
}

// CleanDegreeRequirement strips a trailing "Eligibilities:", "Skills:" or
// "Experience:" section that leaked into the degree text.
func CleanDegreeRequirement(s string) string {
	lower := strings.ToLower(s)
	cut := len(s)
	for _, marker := range []string{"eligibilities:", "skills:", "experience:"} {
		if i := strings.Index(lower, marker); i >= 0 && i < cut {
			cut = i
		}
	}
	return strings.TrimRight(strings.TrimSpace(s[:cut]), " ,;.-")
}

// ExtractCoreField returns the lowercase specialization of a degree string:
// the text after the last " in ", else after the last " of ", else the whole string.
func ExtractCoreField(degree string) string {
	lower := strings.ToLower(strings.TrimSpace(degree))
	if i := strings.LastIndex(lower, " in "); i >= 0 {
		return strings.TrimSpace(lower[i+len(" in "):])
	}
	if i := strings.LastIndex(lower, " of "); i >= 0 {
		return strings.TrimSpace(lower[i+len(" of "):])
	}
	return lower
}

// splitAlternatives splits a cleaned degree requirement on whole-word " or ".
func splitAlternatives(degree string) []string {
	lower := strings.ToLower(degree)
	if !strings.Contains(lower, " or ") {
		return nil
	}
	var out []string
	for _, alt := range strings.Split(lower, " or ") {
		if alt = strings.TrimSpace(alt); alt != "" {
			out = append(out, alt)
		}
	}
	return out
}

// MatchDegreeRequirement scores an applicant's degree against the job's degree
// requirement on a 0-100 scale. OR alternatives are compared by core field and
// any alternative at or above DegreeAlternativeMatch counts as a full match.
func MatchDegreeRequirement(jobDegree, applicantDegree string) float64 {
	cleaned := CleanDegreeRequirement(jobDegree)

	if alternatives := splitAlternatives(cleaned); len(alternatives) > 0 {
		applicantCore := ExtractCoreField(applicantDegree)
		best := 0.0
		for _, alt := range alternatives {
			s := similarity.Similarity(ExtractCoreField(alt), applicantCore)
			if s >= DegreeAlternativeMatch {
				return MaxScore
			}
			best = max(best, s)
		}
		return best
	}

	return similarity.Similarity(cleaned, applicantDegree)
}

// educationResult is the education component with its trace.
type educationResult struct {
	Score  float64
	Detail string
}

// scoreEducation matches the degrees and applies the level ladder and the
// related-field table.
func scoreEducation(job *types.JobRequirements, applicant *types.ApplicantData) educationResult {
	jobDegree := CleanDegreeRequirement(job.DegreeRequirement)
	if jobDegree == "" {
		return educationResult{Score: MaxScore, Detail: "no degree requirement"}
	}

	base := MatchDegreeRequirement(jobDegree, applicant.HighestEducationalAttainment)
	score := AdjustEducationScore(base, job, applicant)

	return educationResult{
		Score:  score,
		Detail: fmt.Sprintf("degree match %.1f, education %.1f", base, score),
	}
}

// AdjustEducationScore applies the level ladder and related-field boost to a
// base degree similarity. The result is within [EducationFloor, MaxScore].
func AdjustEducationScore(base float64, job *types.JobRequirements, applicant *types.ApplicantData) float64 {
	score := base
	jobDegree := CleanDegreeRequirement(job.DegreeRequirement)

	jobLevel := requiredLevel(jobDegree, job.DegreeLevel)
	applicantLevel := levelOf(applicant.HighestEducationalAttainment, applicant.DegreeLevel)

	if jobLevel != LevelUnknown && applicantLevel != LevelUnknown {
		switch {
		case applicantLevel == jobLevel:
			if base >= SameLevelBaseThreshold {
				score = max(score, SameLevelStrongFloor)
			} else {
				score = max(score, SameLevelWeakFloor)
			}
		case applicantLevel > jobLevel:
			score = min(score+HigherLevelBonus, MaxScore)
		default:
			score = max(score-LowerLevelPenalty, LowerLevelFloor)
		}
	}

	applicantField := ExtractCoreField(applicant.HighestEducationalAttainment)
	jobFields := splitAlternatives(jobDegree)
	if len(jobFields) == 0 {
		jobFields = []string{jobDegree}
	}
	for _, f := range jobFields {
		if isRelatedField(ExtractCoreField(f), applicantField) {
			score = max(score, RelatedFieldFloor)
			break
		}
	}

	return min(max(score, EducationFloor), MaxScore)
}
