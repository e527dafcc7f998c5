package exitcode

import (
	"os"
	"strings"

	"github.com/crmkit/crmctl/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ValidationError indicates the submitted values were rejected before or
	// by the backend
	ValidationError = 3

	// AuthError indicates an authentication failure
	AuthError = 4

	// NetworkError indicates a network connectivity issue
	NetworkError = 5

	// PaymentError indicates a payment setup failure
	PaymentError = 6

	// Interrupted indicates the operation was cancelled by the user
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	switch {
	case errors.IsCode(err, errors.ErrCodeFieldRequired),
		errors.IsCode(err, errors.ErrCodePasswordMismatch),
		errors.IsCode(err, errors.ErrCodeFieldRejected):
		return ValidationError

	case errors.IsCode(err, errors.ErrCodeInvalidCredentials),
		errors.IsCode(err, errors.ErrCodeSessionExpired),
		errors.IsCode(err, errors.ErrCodeNotAuthenticated),
		errors.IsCode(err, errors.ErrCodeTokenStoreFailed):
		return AuthError

	case errors.IsCode(err, errors.ErrCodeNetworkFailed):
		return NetworkError

	case errors.IsCode(err, errors.ErrCodePaymentKey),
		errors.IsCode(err, errors.ErrCodePaymentSession),
		errors.IsCode(err, errors.ErrCodePaymentConfirm):
		return PaymentError
	}

	// Cobra reports flag and argument problems as plain errors
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unknown flag") ||
		strings.Contains(errMsg, "unknown command") ||
		strings.Contains(errMsg, "accepts") && strings.Contains(errMsg, "arg") {
		return UsageError
	}

	return GeneralError
}
