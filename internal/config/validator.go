package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate validates the run configuration.
//
// Returns nil if valid, or a ValidationErrors containing all validation errors.
func (c *RunConfig) Validate() error {
	errs := &ValidationErrors{}

	if len(c.Scenarios) == 0 {
		errs.Add("scenarios", "at least one scenario is required")
	}

	seen := make(map[string]bool, len(c.Scenarios))
	for i, sc := range c.Scenarios {
		prefix := fmt.Sprintf("scenarios[%d]", i)
		if sc.Name == "" {
			errs.Add(prefix+".name", "scenario name is required")
		} else if seen[sc.Name] {
			errs.Add(prefix+".name", fmt.Sprintf("duplicate scenario name: %s", sc.Name))
		}
		seen[sc.Name] = true

		if sc.TotalUsers != nil && *sc.TotalUsers < 0 {
			errs.Add(prefix+".totalUsers", "totalUsers must not be negative")
		}
	}

	if c.FlushPeriod != "" {
		period, err := ParseDurationString(c.FlushPeriod)
		switch {
		case err != nil:
			errs.Add("flushPeriod", err.Error())
		case period < time.Second:
			errs.Add("flushPeriod", "flush period must be at least one second")
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
