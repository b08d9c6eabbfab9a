package watchitems

import (
	"fmt"
	"strings"
)

// Operations recorded in a ConfigError.
const (
	// ConfigOpRead indicates the configuration source could not be read.
	ConfigOpRead = "read"

	// ConfigOpDecode indicates the configuration bytes were not a
	// well-formed document.
	ConfigOpDecode = "decode"
)

// ConfigError represents a failure to obtain a usable configuration
// document: an I/O error reading the source, or a document that is not
// well-formed YAML. Both are transient; the engine retries on the next
// reload cycle.
type ConfigError struct {
	// Path is the configuration source path.
	Path string

	// Op is the operation that failed: ConfigOpRead or ConfigOpDecode.
	Op string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("failed to %s watch items config %q: %v", e.Op, e.Path, e.Cause)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// PolicyError represents an invalid watch-item entry: a missing or
// mistyped required field, or a mistyped optional field. A single
// PolicyError rejects the entire configuration batch.
type PolicyError struct {
	// Policy is the name of the invalid entry.
	Policy string

	// Field is the offending field key, if the error is field-specific.
	Field string

	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *PolicyError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid watch item %q: field %q: %s", e.Policy, e.Field, e.Message)
	}
	return fmt.Sprintf("invalid watch item %q: %s", e.Policy, e.Message)
}

// DuplicatePathError represents two entries registering an identical exact
// path. The entire configuration batch is rejected.
type DuplicatePathError struct {
	// Path is the path registered twice.
	Path string
}

// Error implements the error interface.
func (e *DuplicatePathError) Error() string {
	return fmt.Sprintf("duplicate watch item path %q", e.Path)
}

// ErrorList contains multiple errors collected while validating a
// configuration batch.
type ErrorList struct {
	Errors []error
}

// Error implements the error interface.
func (e *ErrorList) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %v\n", i+1, err))
	}
	return sb.String()
}

// Add adds an error to the list.
func (e *ErrorList) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// ToError returns nil if there are no errors, the single error if there is
// one, or the ErrorList itself if there are multiple errors.
func (e *ErrorList) ToError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return e
}

// Unwrap supports errors.As against the first contained error kind by
// exposing the list members to the errors package.
func (e *ErrorList) Unwrap() []error {
	return e.Errors
}
