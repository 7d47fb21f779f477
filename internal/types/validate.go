//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError reports a structurally invalid job or applicant record.
// It is the only error that aborts a ranking run.
type ValidationError struct {
	Record string
	Fields []string
	Cause  error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("invalid %s record: %s", e.Record, strings.Join(e.Fields, "; "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("invalid %s record: %v", e.Record, e.Cause)
	}
	return fmt.Sprintf("invalid %s record", e.Record)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// ValidateJob checks that a job record can be scored.
func ValidateJob(job *JobRequirements) error {
	if job == nil {
		return &ValidationError{Record: "job", Fields: []string{"job is required"}}
	}
	if math.IsNaN(job.YearsOfExperience) || math.IsInf(job.YearsOfExperience, 0) {
		return &ValidationError{Record: "job", Fields: []string{"years_of_experience must be a finite number"}}
	}
	return structError("job", validate.Struct(job))
}

// ValidateApplicant checks that an applicant record can be scored.
func ValidateApplicant(applicant *ApplicantData) error {
	if applicant == nil {
		return &ValidationError{Record: "applicant", Fields: []string{"applicant is required"}}
	}
	record := "applicant"
	if applicant.ID != "" {
		record = fmt.Sprintf("applicant %s", applicant.ID)
	}
	if math.IsNaN(applicant.TotalYearsExperience) || math.IsInf(applicant.TotalYearsExperience, 0) {
		return &ValidationError{Record: record, Fields: []string{"total_years_experience must be a finite number"}}
	}
	return structError(record, validate.Struct(applicant))
}

func structError(record string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Record: record, Cause: err}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return &ValidationError{Record: record, Fields: fields, Cause: err}
}
