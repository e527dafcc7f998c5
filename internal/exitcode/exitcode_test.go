package exitcode

import (
	"fmt"
	"testing"

	"github.com/crmkit/crmctl/internal/errors"
)

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, Success},
		{"missing field", errors.NewFieldRequiredError("username"), ValidationError},
		{"password mismatch", errors.NewPasswordMismatchError(), ValidationError},
		{"rejected fields", errors.NewFieldRejectedError(map[string][]string{"email": {"bad"}}), ValidationError},
		{"invalid credentials", errors.NewInvalidCredentialsError(), AuthError},
		{"session expired", errors.NewSessionExpiredError(), AuthError},
		{"not authenticated", errors.NewNotAuthenticatedError(), AuthError},
		{"network failure", errors.NewNetworkError(fmt.Errorf("refused")), NetworkError},
		{"payment key", errors.NewPaymentSetupError("public key", fmt.Errorf("boom")), PaymentError},
		{"payment session", errors.NewPaymentSetupError("checkout session", fmt.Errorf("boom")), PaymentError},
		{"payment confirm", errors.New(errors.ErrCodePaymentConfirm, "could not confirm"), PaymentError},
		{"unknown plan", errors.NewPlanUnknownError("enterprise"), GeneralError},
		{"unknown flag", fmt.Errorf(`unknown flag: --frobnicate`), UsageError},
		{"unknown command", fmt.Errorf(`unknown command "frob" for "crmctl"`), UsageError},
		{"wrong arg count", fmt.Errorf("accepts 1 arg(s), received 0"), UsageError},
		{"plain error", fmt.Errorf("something broke"), GeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineExitCode(tt.err); got != tt.want {
				t.Errorf("DetermineExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestDetermineExitCode_WrappedError(t *testing.T) {
	err := fmt.Errorf("login: %w", errors.NewInvalidCredentialsError())
	if got := DetermineExitCode(err); got != AuthError {
		t.Errorf("DetermineExitCode() = %d, want %d", got, AuthError)
	}
}
