package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Validation errors (VALIDATE-001 to VALIDATE-099), raised before any
	// network call
	ErrCodeFieldRequired    ErrorCode = "VALIDATE-001"
	ErrCodePasswordMismatch ErrorCode = "VALIDATE-002"
	ErrCodeFieldRejected    ErrorCode = "VALIDATE-003"

	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeInvalidCredentials ErrorCode = "AUTH-001"
	ErrCodeSessionExpired     ErrorCode = "AUTH-002"
	ErrCodeNotAuthenticated   ErrorCode = "AUTH-003"
	ErrCodeTokenStoreFailed   ErrorCode = "AUTH-004"
	ErrCodeRequestSuperseded  ErrorCode = "AUTH-005"

	// API errors (API-001 to API-099)
	ErrCodeNetworkFailed    ErrorCode = "API-001"
	ErrCodeDecodeFailed     ErrorCode = "API-002"
	ErrCodeUnexpectedStatus ErrorCode = "API-003"

	// Subscription errors (PLAN-001 to PLAN-099)
	ErrCodePlanUnknown  ErrorCode = "PLAN-001"
	ErrCodePlanUpgrade  ErrorCode = "PLAN-002"
	ErrCodePlanCancel   ErrorCode = "PLAN-003"
	ErrCodeTeamNotFound ErrorCode = "PLAN-004"

	// Payment errors (PAY-001 to PAY-099)
	ErrCodePaymentKey     ErrorCode = "PAY-001"
	ErrCodePaymentSession ErrorCode = "PAY-002"
	ErrCodePaymentConfirm ErrorCode = "PAY-003"
)

// CRMError represents an enhanced error with code, per-field messages,
// suggestions, and an optional cause
type CRMError struct {
	Code        ErrorCode
	Message     string
	Fields      map[string][]string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *CRMError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(fmt.Sprintf("\n  %s: %s", name, strings.Join(e.Fields[name], "; ")))
		}
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *CRMError) Unwrap() error {
	return e.Cause
}

// New creates a new CRMError
func New(code ErrorCode, message string) *CRMError {
	return &CRMError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new CRMError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *CRMError {
	return &CRMError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *CRMError) WithSuggestion(suggestion string) *CRMError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithField adds a field-scoped message to the error
func (e *CRMError) WithField(name string, messages ...string) *CRMError {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[name] = append(e.Fields[name], messages...)
	return e
}

// IsCode reports whether err is a CRMError with the given code
func IsCode(err error, code ErrorCode) bool {
	var crmErr *CRMError
	if stderrors.As(err, &crmErr) {
		return crmErr.Code == code
	}
	return false
}

// FieldsOf returns the field-keyed messages carried by err, or nil
func FieldsOf(err error) map[string][]string {
	var crmErr *CRMError
	if stderrors.As(err, &crmErr) {
		return crmErr.Fields
	}
	return nil
}

// Common error constructors for frequently used errors

// NewFieldRequiredError creates a missing-field validation error
func NewFieldRequiredError(field string) *CRMError {
	return New(ErrCodeFieldRequired, fmt.Sprintf("%s must not be empty", field)).
		WithField(field, "this field is required")
}

// NewPasswordMismatchError creates a password confirmation error
func NewPasswordMismatchError() *CRMError {
	return New(ErrCodePasswordMismatch, "passwords do not match").
		WithField("password_confirm", "passwords do not match")
}

// NewFieldRejectedError creates an error from a backend field-error map.
// The non_field_errors key, if present, becomes the top-level message.
func NewFieldRejectedError(fields map[string][]string) *CRMError {
	message := "the server rejected the submitted values"
	if nonField, ok := fields["non_field_errors"]; ok && len(nonField) > 0 {
		message = strings.Join(nonField, " ")
		delete(fields, "non_field_errors")
	}

	err := New(ErrCodeFieldRejected, message)
	if len(fields) > 0 {
		err.Fields = fields
	}
	return err
}

// NewInvalidCredentialsError creates a bad-credentials error
func NewInvalidCredentialsError() *CRMError {
	return New(ErrCodeInvalidCredentials, "invalid username or password").
		WithSuggestion("Check your username and password").
		WithSuggestion("Run 'crmctl auth register' if you do not have an account")
}

// NewSessionExpiredError creates an expired-session error
func NewSessionExpiredError() *CRMError {
	return New(ErrCodeSessionExpired, "your session has expired").
		WithSuggestion("Run 'crmctl auth login' to re-authenticate")
}

// NewNotAuthenticatedError creates a not-logged-in error
func NewNotAuthenticatedError() *CRMError {
	return New(ErrCodeNotAuthenticated, "not logged in").
		WithSuggestion("Run 'crmctl auth login' to authenticate")
}

// NewNetworkError creates an error for a request that got no response
func NewNetworkError(cause error) *CRMError {
	return Wrap(ErrCodeNetworkFailed, "could not reach the CRM backend", cause).
		WithSuggestion("Check your network connection").
		WithSuggestion("Verify CRM_API_URL points at a running backend")
}

// NewPlanUnknownError creates an unknown-plan error
func NewPlanUnknownError(id string) *CRMError {
	return New(ErrCodePlanUnknown, fmt.Sprintf("unknown plan: %s", id)).
		WithSuggestion("Run 'crmctl subscription plans' to list available plans")
}

// NewPaymentSetupError creates an error for a failed checkout handoff
func NewPaymentSetupError(stage string, cause error) *CRMError {
	code := ErrCodePaymentSession
	if stage == "public key" {
		code = ErrCodePaymentKey
	}
	return Wrap(code, fmt.Sprintf("could not set up payment (%s)", stage), cause).
		WithSuggestion("Try again in a few moments").
		WithSuggestion("Your current plan has not been changed")
}
