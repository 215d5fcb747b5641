// Package validation provides the collected-result type shared by every
// validator in the module. Validators accumulate all rule violations instead
// of failing on the first one so callers can surface every problem at once.
package validation

import "fmt"

// Result captures the outcome of a validation pass. Errors block the
// operation being validated; warnings are informational and never block.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// New returns a passing result with no findings.
func New() Result {
	return Result{Valid: true}
}

// AddError records a blocking violation and marks the result invalid.
func (r *Result) AddError(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// AddWarning records a non-blocking finding.
func (r *Result) AddWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Merge folds another result into r. The merged result is invalid if either
// input was.
func (r *Result) Merge(other Result) {
	if !other.Valid {
		r.Valid = false
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}
