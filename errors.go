package vss

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a VSS error
type ErrorCategory string

const (
	ErrorCategoryDomain             ErrorCategory = "domain"
	ErrorCategoryInsufficientShares ErrorCategory = "insufficient_shares"
	ErrorCategoryValidation         ErrorCategory = "validation"
	ErrorCategoryConfiguration      ErrorCategory = "configuration"
	ErrorCategoryCryptographic      ErrorCategory = "cryptographic"
	ErrorCategoryInternal           ErrorCategory = "internal"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	ErrorSeverityLow      ErrorSeverity = "low"      // Caller can retry with more input
	ErrorSeverityMedium   ErrorSeverity = "medium"   // Input rejected
	ErrorSeverityHigh     ErrorSeverity = "high"     // Operation failed, result unusable
	ErrorSeverityCritical ErrorSeverity = "critical" // Environment failure (e.g. no entropy)
)

// VSSError represents a structured error returned by the VSS engine
type VSSError struct {
	Category    ErrorCategory          `json:"category"`
	Severity    ErrorSeverity          `json:"severity"`
	Code        string                 `json:"code"`
	Message     string                 `json:"message"`
	Details     string                 `json:"details,omitempty"`
	Cause       error                  `json:"-"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Recoverable bool                   `json:"recoverable"`
}

// Error implements the error interface
func (e *VSSError) Error() string {
	msg := fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Details)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *VSSError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a VSSError with the same code. Copies made by
// WithContext, WithCause and WithDetails therefore still match their sentinel.
func (e *VSSError) Is(target error) bool {
	var t *VSSError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// clone returns a copy of the error with its own context map
func (e *VSSError) clone() *VSSError {
	newError := &VSSError{
		Category:    e.Category,
		Severity:    e.Severity,
		Code:        e.Code,
		Message:     e.Message,
		Details:     e.Details,
		Recoverable: e.Recoverable,
		Cause:       e.Cause,
		Context:     make(map[string]interface{}, len(e.Context)+1),
	}
	for k, v := range e.Context {
		newError.Context[k] = v
	}
	return newError
}

// WithContext returns a copy of the error carrying an extra context value
func (e *VSSError) WithContext(key string, value interface{}) *VSSError {
	newError := e.clone()
	newError.Context[key] = value
	return newError
}

// WithCause returns a copy of the error wrapping cause
func (e *VSSError) WithCause(cause error) *VSSError {
	newError := e.clone()
	newError.Cause = cause
	return newError
}

// WithDetails returns a copy of the error with a formatted detail message
func (e *VSSError) WithDetails(format string, args ...interface{}) *VSSError {
	newError := e.clone()
	newError.Details = fmt.Sprintf(format, args...)
	return newError
}

// IsRecoverable returns whether the error is recoverable
func (e *VSSError) IsRecoverable() bool {
	return e.Recoverable
}

// NewVSSError creates a new VSS error
func NewVSSError(category ErrorCategory, severity ErrorSeverity, code, message string) *VSSError {
	return &VSSError{
		Category:    category,
		Severity:    severity,
		Code:        code,
		Message:     message,
		Context:     make(map[string]interface{}),
		Recoverable: severity == ErrorSeverityLow,
	}
}

// Domain errors
var (
	ErrDomain = NewVSSError(
		ErrorCategoryDomain, ErrorSeverityHigh, "DOMAIN",
		"argument outside the domain of the operation")

	ErrNoInverse = NewVSSError(
		ErrorCategoryDomain, ErrorSeverityHigh, "NO_INVERSE",
		"modular inverse does not exist")

	ErrDuplicateIndex = NewVSSError(
		ErrorCategoryDomain, ErrorSeverityHigh, "DUPLICATE_INDEX",
		"duplicate share index produces a zero denominator")

	ErrInvalidThreshold = NewVSSError(
		ErrorCategoryDomain, ErrorSeverityMedium, "INVALID_THRESHOLD",
		"threshold must be at least 1 and not exceed the number of shares")

	ErrSecretOutOfRange = NewVSSError(
		ErrorCategoryDomain, ErrorSeverityMedium, "SECRET_OUT_OF_RANGE",
		"secret is not an element of the field")
)

// Reconstruction errors
var (
	ErrInsufficientShares = NewVSSError(
		ErrorCategoryInsufficientShares, ErrorSeverityLow, "INSUFFICIENT_SHARES",
		"not enough shares to reconstruct the secret")
)

// Validation errors
var (
	ErrValidation = NewVSSError(
		ErrorCategoryValidation, ErrorSeverityMedium, "VALIDATION",
		"malformed input")

	ErrInvalidShareIndex = NewVSSError(
		ErrorCategoryValidation, ErrorSeverityMedium, "INVALID_SHARE_INDEX",
		"share index must be a positive integer")

	ErrCommitmentCount = NewVSSError(
		ErrorCategoryValidation, ErrorSeverityMedium, "COMMITMENT_COUNT",
		"fewer commitments than the threshold")
)

// Configuration errors
var (
	ErrInvalidParams = NewVSSError(
		ErrorCategoryConfiguration, ErrorSeverityHigh, "INVALID_PARAMS",
		"field parameters are invalid")

	ErrUnsupportedDigest = NewVSSError(
		ErrorCategoryConfiguration, ErrorSeverityMedium, "UNSUPPORTED_DIGEST",
		"digest algorithm is not supported")
)

// Cryptographic errors
var (
	ErrRandomnessGeneration = NewVSSError(
		ErrorCategoryCryptographic, ErrorSeverityCritical, "RANDOMNESS_GENERATION_FAILED",
		"failed to generate secure randomness")

	ErrInconsistentShares = NewVSSError(
		ErrorCategoryCryptographic, ErrorSeverityHigh, "INCONSISTENT_SHARES",
		"shares do not lie on a single polynomial of the threshold degree")

	ErrSecretTooLarge = NewVSSError(
		ErrorCategoryCryptographic, ErrorSeverityMedium, "SECRET_TOO_LARGE",
		"secret does not fit the fixed-width digest encoding")
)

// WrapError wraps an existing error with VSS error context
func WrapError(err error, category ErrorCategory, severity ErrorSeverity, code, message string) *VSSError {
	return NewVSSError(category, severity, code, message).WithCause(err)
}

// IsErrorCategory checks if an error (or anything it wraps) belongs to a category
func IsErrorCategory(err error, category ErrorCategory) bool {
	var vssErr *VSSError
	if errors.As(err, &vssErr) {
		return vssErr.Category == category
	}
	return false
}

// IsDomainError reports whether err is a domain error
func IsDomainError(err error) bool {
	return IsErrorCategory(err, ErrorCategoryDomain)
}

// IsErrorSeverity checks if an error has a specific severity
func IsErrorSeverity(err error, severity ErrorSeverity) bool {
	var vssErr *VSSError
	if errors.As(err, &vssErr) {
		return vssErr.Severity == severity
	}
	return false
}

// IsRecoverableError checks if an error is recoverable
func IsRecoverableError(err error) bool {
	var vssErr *VSSError
	if errors.As(err, &vssErr) {
		return vssErr.IsRecoverable()
	}
	return false
}

// GetErrorContext extracts context from a VSS error
func GetErrorContext(err error) map[string]interface{} {
	var vssErr *VSSError
	if errors.As(err, &vssErr) {
		return vssErr.Context
	}
	return nil
}
