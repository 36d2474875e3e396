package lib

import (
	"fmt"
	"strings"
)

// GeneratorError represents a user-friendly error with context and guidance
type GeneratorError struct {
	Category    ErrorCategory
	Message     string   // Short description of what went wrong
	Cause       error    // Underlying error
	Guidance    []string // What the user can do to fix it
	HTTPStatus  int      // HTTP status code if applicable
	IsRetryable bool     // Can this error be automatically retried?
}

// ErrorCategory classifies errors for better UX
type ErrorCategory string

const (
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryClinical      ErrorCategory = "clinical"
	CategoryReference     ErrorCategory = "reference"
	CategoryNetwork       ErrorCategory = "network"
	CategoryService       ErrorCategory = "service"
	CategoryFileSystem    ErrorCategory = "filesystem"
)

// Error implements the error interface
func (e *GeneratorError) Error() string {
	var sb strings.Builder

	// Category prefix for clarity
	sb.WriteString(fmt.Sprintf("[%s] ", strings.ToUpper(string(e.Category))))
	sb.WriteString(e.Message)

	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if e.HTTPStatus > 0 {
		sb.WriteString(fmt.Sprintf(" (HTTP %d)", e.HTTPStatus))
	}

	return sb.String()
}

// UserMessage returns a formatted message suitable for displaying to end users
func (e *GeneratorError) UserMessage() string {
	var sb strings.Builder

	sb.WriteString("Error: ")
	sb.WriteString(e.Message)
	sb.WriteString("\n\n")

	if len(e.Guidance) > 0 {
		sb.WriteString("How to fix:\n")
		for i, guide := range e.Guidance {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, guide))
		}
	}

	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf("\nTechnical details: %v\n", e.Cause))
	}

	return sb.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility
func (e *GeneratorError) Unwrap() error {
	return e.Cause
}

// Configuration Errors

// ErrInvalidConfig creates an error for configuration validation failures.
// Detected eagerly: no resources are generated once this fires.
func ErrInvalidConfig(field string, reason string) *GeneratorError {
	return &GeneratorError{
		Category: CategoryConfiguration,
		Message:  fmt.Sprintf("Invalid configuration: %s", reason),
		Guidance: []string{
			fmt.Sprintf("Check the '%s' field in your config file", field),
			"Compare with config/synthfhir.example.yaml for correct format",
			"Counts must be non-negative, ranges must satisfy min <= max, probabilities must lie in [0,1]",
		},
		IsRetryable: false,
	}
}

// Clinical Errors

// ErrEmptyLibrary creates an error for an empty clinical value library.
// Observation generation cannot proceed without lab-test definitions.
func ErrEmptyLibrary() *GeneratorError {
	return &GeneratorError{
		Category: CategoryClinical,
		Message:  "Clinical value library has no lab-test definitions",
		Guidance: []string{
			"Run 'synthfhir loinc build <Loinc.csv>' to derive definitions from the official LOINC table",
			"Or point generation.library_file at a definition JSON file",
			"Or set per_patient.observations to min: 0, max: 0 to skip observation generation",
		},
		IsRetryable: false,
	}
}

// Reference Errors

// ErrMissingReference creates an error for a factory invoked without its
// required parent reference. This is an orchestration bug, not user error,
// and is fatal: no placeholder reference is ever substituted.
func ErrMissingReference(resourceType string, referenceField string) *GeneratorError {
	return &GeneratorError{
		Category: CategoryReference,
		Message:  fmt.Sprintf("Cannot build %s: required %s reference is missing", resourceType, referenceField),
		Guidance: []string{
			"This indicates a bug in the generation engine, not a configuration problem",
			"Please report it with the command and configuration that triggered it",
		},
		IsRetryable: false,
	}
}

// Network Errors

// ErrNetworkUnreachable creates an error for network connectivity issues
func ErrNetworkUnreachable(url string, cause error) *GeneratorError {
	return &GeneratorError{
		Category: CategoryNetwork,
		Message:  fmt.Sprintf("Cannot reach FHIR server at %s", url),
		Cause:    cause,
		Guidance: []string{
			"Check that the FHIR server is running",
			fmt.Sprintf("Verify the URL is correct: %s", url),
			"Check your network connection",
		},
		IsRetryable: true,
	}
}

// Service Errors

// ErrServiceUnavailable creates an error for 5xx server errors
func ErrServiceUnavailable(statusCode int, cause error) *GeneratorError {
	return &GeneratorError{
		Category:   CategoryService,
		Message:    "FHIR server is temporarily unavailable",
		Cause:      cause,
		HTTPStatus: statusCode,
		Guidance: []string{
			"The server may be experiencing issues",
			"Wait a moment - automatic retry is in progress",
			"Check the FHIR server logs for errors",
		},
		IsRetryable: true,
	}
}

// ErrResourceRejected creates an error for 4xx responses to a create request
func ErrResourceRejected(resourceType string, statusCode int, diagnostics string) *GeneratorError {
	return &GeneratorError{
		Category:   CategoryService,
		Message:    fmt.Sprintf("FHIR server rejected %s: %s", resourceType, diagnostics),
		HTTPStatus: statusCode,
		Guidance: []string{
			"The server considered the generated resource invalid",
			"Check the server's FHIR version matches the generated resources (R4)",
			"Review the OperationOutcome diagnostics above",
		},
		IsRetryable: false,
	}
}

// Filesystem Errors

// ErrOutputWrite creates an error for output file failures
func ErrOutputWrite(path string, cause error) *GeneratorError {
	return &GeneratorError{
		Category: CategoryFileSystem,
		Message:  fmt.Sprintf("Cannot write output file: %s", path),
		Cause:    cause,
		Guidance: []string{
			"Check that the directory exists and is writable",
			"Check available disk space",
		},
		IsRetryable: false,
	}
}

// ErrFileNotFound creates an error for missing input files
func ErrFileNotFound(path string) *GeneratorError {
	return &GeneratorError{
		Category: CategoryFileSystem,
		Message:  fmt.Sprintf("File not found: %s", path),
		Guidance: []string{
			"Check that the path is correct",
			"Ensure the file exists and you have permission to read it",
		},
		IsRetryable: false,
	}
}

// Helper Functions

// WrapError wraps a standard error with GeneratorError context
func WrapError(category ErrorCategory, message string, cause error, guidance ...string) *GeneratorError {
	return &GeneratorError{
		Category:    category,
		Message:     message,
		Cause:       cause,
		Guidance:    guidance,
		IsRetryable: IsNetworkError(cause),
	}
}
