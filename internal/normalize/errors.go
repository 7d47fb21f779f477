// Package normalize canonicalizes free-text degree and eligibility strings using
// the dictionary indices, falling back to an AI classifier when no alias matches.
package normalize

import (
	"fmt"

	"github.com/jonathan/applicant-ranker/internal/dictionary"
)

// ClassificationError records a failed or unusable classification answer. It is
// recovered locally and only ever logged.
type ClassificationError struct {
	Domain dictionary.Domain
	Raw    string
	Stage  string
	Cause  error
}

func (e *ClassificationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("classification error (%s, %s) for %q: %v", e.Domain, e.Stage, e.Raw, e.Cause)
	}
	return fmt.Sprintf("classification error (%s, %s) for %q", e.Domain, e.Stage, e.Raw)
}

func (e *ClassificationError) Unwrap() error {
	return e.Cause
}
