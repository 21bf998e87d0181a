package flows

import (
	"context"
	"errors"
	"time"

	"github.com/bankbridge/bankauth/internal/accounts"
)

// ForgotPasswordInput resets a password against two proofs of identity.
type ForgotPasswordInput struct {
	AccountNumber   string `validate:"required,acct_number"`
	IDNumber        string `validate:"required,id_number"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`
}

// ForgotUsernameInput recovers a masked account number by email.
type ForgotUsernameInput struct {
	Email string `validate:"required,email"`
}

// ForgotUsernameResult carries only display-safe recovery data.
type ForgotUsernameResult struct {
	Name                string
	MaskedAccountNumber string
}

// RecoveryDeps captures password/username recovery dependencies.
type RecoveryDeps struct {
	Store     accounts.Store
	Directory *accounts.Directory

	HashPassword   func(string) (string, error)
	VerifyPassword func(password, digest string) bool

	// MinPasswordLen is stricter here than at registration.
	MinPasswordLen int
	Now            func() time.Time
	Audit          AuditFunc
	Errors         Errors
}

// RunForgotPassword resets the password of the account matching BOTH the
// account number and the ID number. The new password may not equal the
// current one, and a successful reset always clears any lockout.
func RunForgotPassword(ctx context.Context, in ForgotPasswordInput, deps RecoveryDeps) error {
	deps.Now = normalizeNow(deps.Now)
	deps.Audit = normalizeAudit(deps.Audit)
	if deps.Store == nil || deps.Directory == nil || deps.HashPassword == nil || deps.VerifyPassword == nil {
		return deps.Errors.EngineNotReady
	}

	in.AccountNumber = digitsOnly(in.AccountNumber)
	in.IDNumber = digitsOnly(in.IDNumber)
	if err := checkInput(in); err != nil {
		return deps.Errors.InvalidInput
	}
	if in.Password != in.ConfirmPassword {
		return deps.Errors.PasswordMismatch
	}
	if !passwordPolicyOK(in.Password, deps.MinPasswordLen) {
		return deps.Errors.PasswordPolicy
	}

	dec, err := deps.Directory.FindByAccountNumber(ctx, in.AccountNumber)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			deps.Audit(ctx, EventPasswordReset, false, "", deps.Errors.AccountNotFound, nil)
			return deps.Errors.AccountNotFound
		}
		return err
	}
	// Both identifiers must point at the same account; a mismatch reads the
	// same as no account at all.
	if dec.IDNumber != in.IDNumber {
		deps.Audit(ctx, EventPasswordReset, false, "", deps.Errors.AccountNotFound, nil)
		return deps.Errors.AccountNotFound
	}

	// Reuse check: the candidate plaintext against the current hash.
	if deps.VerifyPassword(in.Password, dec.Account.PasswordHash) {
		deps.Audit(ctx, EventPasswordReset, false, dec.Account.ID, deps.Errors.PasswordReuse, nil)
		return deps.Errors.PasswordReuse
	}

	hash, err := deps.HashPassword(in.Password)
	if err != nil {
		return err
	}

	_, err = deps.Store.Update(ctx, dec.Account.ID, accounts.Patch{
		PasswordHash:    &hash,
		ResetLoginState: true,
	})
	if err != nil {
		return err
	}

	deps.Audit(ctx, EventPasswordReset, true, dec.Account.ID, nil, nil)
	return nil
}

// RunForgotUsername looks up an account by email and returns the display
// name plus a masked account number: first two digits, the rest hidden.
func RunForgotUsername(ctx context.Context, in ForgotUsernameInput, deps RecoveryDeps) (*ForgotUsernameResult, error) {
	deps.Audit = normalizeAudit(deps.Audit)
	if deps.Directory == nil {
		return nil, deps.Errors.EngineNotReady
	}

	in.Email = normalizeEmail(in.Email)
	if err := checkInput(in); err != nil {
		return nil, deps.Errors.InvalidInput
	}

	dec, err := deps.Directory.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			deps.Audit(ctx, EventUsernameRecovery, false, "", deps.Errors.AccountNotFound, nil)
			return nil, deps.Errors.AccountNotFound
		}
		return nil, err
	}

	deps.Audit(ctx, EventUsernameRecovery, true, dec.Account.ID, nil, nil)

	return &ForgotUsernameResult{
		Name:                dec.Name,
		MaskedAccountNumber: maskAccountNumber(dec.AccountNumber),
	}, nil
}

// maskAccountNumber keeps the first two digits and hides the rest behind a
// fixed-width mask.
func maskAccountNumber(accountNumber string) string {
	if len(accountNumber) < 2 {
		return "******"
	}
	return accountNumber[:2] + "******"
}
