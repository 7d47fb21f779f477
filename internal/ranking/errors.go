// Package ranking scores every applicant for a job, orders them with a
// deterministic multi-key cascade and lets an AI tie-breaker separate
// near-identical scores.
package ranking

import (
	"fmt"
	"strings"
)

// TieBreakError records a failed AI tie-break for one tie group. The
// pre-adjustment order is kept.
type TieBreakError struct {
	RunID        string
	ApplicantIDs []string
	Cause        error
}

func (e *TieBreakError) Error() string {
	return fmt.Sprintf("tie-break failed for [%s]: %v", strings.Join(e.ApplicantIDs, ", "), e.Cause)
}

func (e *TieBreakError) Unwrap() error {
	return e.Cause
}

// InsightError records a failed insight request. The insight is omitted.
type InsightError struct {
	RunID       string
	ApplicantID string
	Cause       error
}

func (e *InsightError) Error() string {
	return fmt.Sprintf("insight failed for %s: %v", e.ApplicantID, e.Cause)
}

func (e *InsightError) Unwrap() error {
	return e.Cause
}
