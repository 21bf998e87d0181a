package bankauth

import (
	"context"

	"github.com/bankbridge/bankauth/internal/flows"
)

// minResetPasswordLen is deliberately stricter than the registration floor.
const minResetPasswordLen = 12

func (e *Engine) recoveryDeps() flows.RecoveryDeps {
	return flows.RecoveryDeps{
		Store:          e.store,
		Directory:      e.directory,
		HashPassword:   e.hasher.Hash,
		VerifyPassword: e.hasher.Verify,
		MinPasswordLen: minResetPasswordLen,
		Now:            e.clockFn,
		Audit:          e.auditFunc(),
		Errors:         flowErrors(),
	}
}

// ForgotPassword resets the password of the account matching both the
// account number and the ID number. Reusing the current password is
// rejected; a successful reset clears any active lockout.
func (e *Engine) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	if e == nil {
		return ErrEngineNotReady
	}

	err := flows.RunForgotPassword(ctx, flows.ForgotPasswordInput{
		AccountNumber:   req.AccountNumber,
		IDNumber:        req.IDNumber,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}, e.recoveryDeps())
	return mapStoreErr(err)
}

// ForgotUsername looks up an account by email and returns the display name
// plus a masked account number. The full number is never returned.
func (e *Engine) ForgotUsername(ctx context.Context, email string) (*ForgotUsernameResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	result, err := flows.RunForgotUsername(ctx, flows.ForgotUsernameInput{Email: email}, e.recoveryDeps())
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return &ForgotUsernameResult{
		Name:                result.Name,
		MaskedAccountNumber: result.MaskedAccountNumber,
	}, nil
}
