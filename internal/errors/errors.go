// Package errors provides the boundary error type shown to operators when
// a collect run cannot proceed at all. Soft data problems never use this;
// they travel in the report's conflict and unknown-value channels.
package errors

import (
	"fmt"
	"strings"
)

// ErrorType categorizes what went wrong.
type ErrorType string

const (
	ErrorTypeAuthentication ErrorType = "Authentication"
	ErrorTypeConfiguration  ErrorType = "Configuration"
	ErrorTypeNetwork        ErrorType = "Network"
	ErrorTypeData           ErrorType = "Data"
	ErrorTypeValidation     ErrorType = "Validation"
)

// Stage names the pipeline stage that failed.
type Stage string

const (
	StageFetch   Stage = "fetch"
	StageFold    Stage = "fold"
	StageBuild   Stage = "build"
	StageExport  Stage = "export"
	StageCapture Stage = "capture"
)

// KalustoError is an operator-facing error with actionable guidance.
type KalustoError struct {
	Type      ErrorType
	Stage     Stage
	Message   string
	Cause     string
	Solutions []string
	Verify    string
}

// Error implements the error interface.
func (e *KalustoError) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("\nError: %s\n", e.Message))
	if e.Cause != "" {
		sb.WriteString(fmt.Sprintf("Cause: %s\n", e.Cause))
	}
	if e.Stage != "" {
		sb.WriteString(fmt.Sprintf("Stage: %s\n", e.Stage))
	}
	if len(e.Solutions) > 0 {
		sb.WriteString("\nSolutions:\n")
		for _, solution := range e.Solutions {
			sb.WriteString(fmt.Sprintf("  %s\n", solution))
		}
	}
	if e.Verify != "" {
		sb.WriteString(fmt.Sprintf("\nVerify: %s\n", e.Verify))
	}

	return sb.String()
}

// New creates a KalustoError.
func New(errType ErrorType, stage Stage, message string) *KalustoError {
	return &KalustoError{
		Type:    errType,
		Stage:   stage,
		Message: message,
	}
}

// WithCause adds cause information.
func (e *KalustoError) WithCause(cause string) *KalustoError {
	e.Cause = cause
	return e
}

// WithSolutions adds solution steps.
func (e *KalustoError) WithSolutions(solutions ...string) *KalustoError {
	e.Solutions = append(e.Solutions, solutions...)
	return e
}

// WithVerify adds a verification command.
func (e *KalustoError) WithVerify(verify string) *KalustoError {
	e.Verify = verify
	return e
}
