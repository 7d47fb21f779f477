// Package types provides the plain records exchanged between the ranking core and its callers.
//
//nolint:revive // types is a standard Go package name pattern
package types

// JobRequirements is the immutable input describing what a job asks for.
type JobRequirements struct {
	ID                string   `json:"id,omitempty"`
	Title             string   `json:"title" validate:"required"`
	Description       string   `json:"description,omitempty"`
	DegreeRequirement string   `json:"degree_requirement"`
	Eligibilities     []string `json:"eligibilities"`
	Skills            []string `json:"skills"`
	YearsOfExperience float64  `json:"years_of_experience" validate:"gte=0"`

	// DegreeLevel and DegreeFieldGroup are filled by normalization from the
	// primary canonical degree entry.
	DegreeLevel      string `json:"degree_level,omitempty"`
	DegreeFieldGroup string `json:"degree_field_group,omitempty"`
}

// Clone returns a deep copy of the job.
func (j JobRequirements) Clone() JobRequirements {
	out := j
	out.Eligibilities = append([]string(nil), j.Eligibilities...)
	out.Skills = append([]string(nil), j.Skills...)
	return out
}
