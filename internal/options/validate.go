// internal/options/validate.go
package options

import (
	"fmt"
	"sort"
	"strings"
)

// ValidateResult is the outcome of validating one options section.
// A result with no failures is a success.
type ValidateResult struct {
	Failures []string
}

// Success returns a passing result.
func Success() ValidateResult {
	return ValidateResult{}
}

// Fail returns a failing result carrying the given messages.
func Fail(failures ...string) ValidateResult {
	return ValidateResult{Failures: failures}
}

// Succeeded reports whether validation passed.
func (r ValidateResult) Succeeded() bool { return len(r.Failures) == 0 }

// Failed reports whether validation produced at least one failure.
func (r ValidateResult) Failed() bool { return !r.Succeeded() }

// Validator validates a bound options section. name is the section name
// used when reporting failures.
type Validator[T any] interface {
	Validate(name string, opts T) ValidateResult
}

// ValidationError aggregates the failures of every section validated at startup.
type ValidationError struct {
	Failures map[string][]string
}

func (e *ValidationError) Error() string {
	sections := make([]string, 0, len(e.Failures))
	for section := range e.Failures {
		sections = append(sections, section)
	}
	sort.Strings(sections)

	parts := make([]string, 0, len(sections))
	for _, section := range sections {
		parts = append(parts, fmt.Sprintf("%s: %s", section, strings.Join(e.Failures[section], "; ")))
	}
	return "invalid configuration: " + strings.Join(parts, " | ")
}

// Check is a deferred validation of one section.
type Check struct {
	Section string
	Run     func(section string) ValidateResult
}

// For binds a validator to a value so it can be run later by ValidateAll.
func For[T any](section string, v Validator[T], opts T) Check {
	return Check{
		Section: section,
		Run:     func(name string) ValidateResult { return v.Validate(name, opts) },
	}
}

// ValidateAll runs every check and returns a *ValidationError holding all
// failures, or nil when every section is valid.
func ValidateAll(checks ...Check) error {
	var agg *ValidationError
	for _, c := range checks {
		res := c.Run(c.Section)
		if res.Succeeded() {
			continue
		}
		if agg == nil {
			agg = &ValidationError{Failures: make(map[string][]string)}
		}
		agg.Failures[c.Section] = append(agg.Failures[c.Section], res.Failures...)
	}
	if agg == nil {
		return nil
	}
	return agg
}
