//nolint:revive // types is a standard Go package name pattern
package types

// Eligibility is a single civil-service eligibility, license or certification held by an applicant.
type Eligibility struct {
	EligibilityTitle string `json:"eligibility_title"`
}

// ApplicantData is the immutable input describing one applicant.
type ApplicantData struct {
	ID                           string        `json:"id" validate:"required"`
	Name                         string        `json:"name,omitempty"`
	HighestEducationalAttainment string        `json:"highest_educational_attainment"`
	Eligibilities                []Eligibility `json:"eligibilities"`
	Skills                       []string      `json:"skills"`
	TotalYearsExperience         float64       `json:"total_years_experience" validate:"gte=0"`
	WorkExperienceTitles         []string      `json:"work_experience_titles,omitempty"`

	DegreeLevel      string `json:"degree_level,omitempty"`
	DegreeFieldGroup string `json:"degree_field_group,omitempty"`
}

// Clone returns a deep copy of the applicant.
func (a ApplicantData) Clone() ApplicantData {
	out := a
	out.Eligibilities = append([]Eligibility(nil), a.Eligibilities...)
	out.Skills = append([]string(nil), a.Skills...)
	out.WorkExperienceTitles = append([]string(nil), a.WorkExperienceTitles...)
	return out
}

// EligibilityTitles returns the non-empty eligibility titles in order.
func (a ApplicantData) EligibilityTitles() []string {
	titles := make([]string, 0, len(a.Eligibilities))
	for _, e := range a.Eligibilities {
		if e.EligibilityTitle != "" {
			titles = append(titles, e.EligibilityTitle)
		}
	}
	return titles
}
