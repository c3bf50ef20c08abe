package operations

import (
	"fmt"
)

// ErrorType classifies a run error
type ErrorType string

const (
	// ErrorTypeConfiguration covers invalid run requests, such as a
	// missing dataset or weight column selection
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeEmptySelection covers selections that resolve to no
	// usable numeric columns
	ErrorTypeEmptySelection ErrorType = "empty_selection"
	// ErrorTypeExecution covers step failures
	ErrorTypeExecution ErrorType = "execution"
	// ErrorTypeCancellation covers context cancellation mid-run
	ErrorTypeCancellation ErrorType = "cancellation"
)

// RunError is a typed error raised by the run manager. Degraded stage
// outcomes (empty selections, absent columns inside a running pipeline)
// are reported through the audit log instead; RunError is reserved for
// requests that cannot start and steps that genuinely fail.
type RunError struct {
	Type    ErrorType `json:"type"`
	Step    string    `json:"step,omitempty"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *RunError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Step, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *RunError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(message string) *RunError {
	return &RunError{Type: ErrorTypeConfiguration, Message: message}
}

// NewEmptySelectionError creates an empty selection error
func NewEmptySelectionError(message string) *RunError {
	return &RunError{Type: ErrorTypeEmptySelection, Message: message}
}

// NewExecutionError creates an execution error for a failed step
func NewExecutionError(step string, cause error) *RunError {
	return &RunError{
		Type:    ErrorTypeExecution,
		Step:    step,
		Message: "step execution failed",
		Cause:   cause,
	}
}

// NewCancellationError creates a cancellation error
func NewCancellationError(step string, cause error) *RunError {
	return &RunError{
		Type:    ErrorTypeCancellation,
		Step:    step,
		Message: "run cancelled",
		Cause:   cause,
	}
}
