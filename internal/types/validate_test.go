package types

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJob(t *testing.T) {
	tests := []struct {
		name    string
		job     *JobRequirements
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid job",
			job:  &JobRequirements{Title: "Administrative Officer", YearsOfExperience: 2},
		},
		{
			name:    "nil job",
			job:     nil,
			wantErr: true,
			errMsg:  "job is required",
		},
		{
			name:    "missing title",
			job:     &JobRequirements{YearsOfExperience: 1},
			wantErr: true,
			errMsg:  "Title",
		},
		{
			name:    "negative years",
			job:     &JobRequirements{Title: "Clerk", YearsOfExperience: -1},
			wantErr: true,
			errMsg:  "YearsOfExperience",
		},
		{
			name:    "NaN years",
			job:     &JobRequirements{Title: "Clerk", YearsOfExperience: math.NaN()},
			wantErr: true,
			errMsg:  "finite",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJob(tt.job)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}

func TestValidateApplicant(t *testing.T) {
	assert.NoError(t, ValidateApplicant(&ApplicantData{ID: "a1", TotalYearsExperience: 3}))

	err := ValidateApplicant(&ApplicantData{TotalYearsExperience: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ID")

	err = ValidateApplicant(&ApplicantData{ID: "a2", TotalYearsExperience: -2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "applicant a2")

	err = ValidateApplicant(&ApplicantData{ID: "a3", TotalYearsExperience: math.Inf(1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finite")
}

func TestClone_IsDeep(t *testing.T) {
	job := JobRequirements{Title: "Nurse", Skills: []string{"Triage"}, Eligibilities: []string{"RA 1080"}}
	cloned := job.Clone()
	cloned.Skills[0] = "changed"
	cloned.Eligibilities[0] = "changed"
	assert.Equal(t, "Triage", job.Skills[0])
	assert.Equal(t, "RA 1080", job.Eligibilities[0])

	applicant := ApplicantData{ID: "a1", Eligibilities: []Eligibility{{EligibilityTitle: "CSC Professional"}}}
	ac := applicant.Clone()
	ac.Eligibilities[0].EligibilityTitle = "changed"
	assert.Equal(t, "CSC Professional", applicant.Eligibilities[0].EligibilityTitle)
}

func TestEligibilityTitles_SkipsEmpty(t *testing.T) {
	applicant := ApplicantData{Eligibilities: []Eligibility{
		{EligibilityTitle: "Career Service Professional"},
		{EligibilityTitle: ""},
		{EligibilityTitle: "Registered Nurse"},
	}}
	assert.Equal(t, []string{"Career Service Professional", "Registered Nurse"}, applicant.EligibilityTitles())
}
