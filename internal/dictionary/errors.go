// Package dictionary loads the canonical degree and eligibility dictionaries and
// indexes them by key and by normalized alias.
package dictionary

import "fmt"

// InputError reports a missing or malformed dictionary source. It is recovered
// locally: the affected domain gets an empty index.
type InputError struct {
	Domain Domain
	Source string
	Cause  error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("dictionary %s (%s): %v", e.Domain, e.Source, e.Cause)
	}
	return fmt.Sprintf("dictionary %s (%s): unavailable", e.Domain, e.Source)
}

func (e *InputError) Unwrap() error {
	return e.Cause
}
