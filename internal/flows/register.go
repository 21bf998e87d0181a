package flows

import (
	"context"
	"time"

	"github.com/bankbridge/bankauth/internal/accounts"
)

// RegisterInput is the registration request after transport decoding.
type RegisterInput struct {
	Name            string `validate:"required,person_name"`
	IDNumber        string `validate:"required,id_number"`
	AccountNumber   string `validate:"required,acct_number"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`
}

// RegisterResult is the confirmation payload: display fields only, never a
// hash or a ciphertext.
type RegisterResult struct {
	AccountID     string
	Name          string
	AccountNumber string
}

// RegisterDeps captures registration dependencies.
type RegisterDeps struct {
	Store     accounts.Store
	Directory *accounts.Directory

	EncryptField func(string) (string, error)
	HashPassword func(string) (string, error)

	MinPasswordLen int
	Now            func() time.Time
	Audit          AuditFunc
	Errors         Errors
}

// RunRegister validates, checks for duplicates, encrypts identifying fields,
// hashes the password, and persists the new customer account.
func RunRegister(ctx context.Context, in RegisterInput, deps RegisterDeps) (*RegisterResult, error) {
	deps.Now = normalizeNow(deps.Now)
	deps.Audit = normalizeAudit(deps.Audit)
	if deps.Store == nil || deps.Directory == nil || deps.EncryptField == nil || deps.HashPassword == nil {
		return nil, deps.Errors.EngineNotReady
	}

	// Normalize before validation so separators and letter case never fail
	// the shape checks.
	in.IDNumber = digitsOnly(in.IDNumber)
	in.AccountNumber = digitsOnly(in.AccountNumber)
	in.Email = normalizeEmail(in.Email)

	if err := checkInput(in); err != nil {
		return nil, deps.Errors.InvalidInput
	}
	if in.Password != in.ConfirmPassword {
		return nil, deps.Errors.PasswordMismatch
	}
	if !passwordPolicyOK(in.Password, deps.MinPasswordLen) {
		return nil, deps.Errors.PasswordPolicy
	}

	taken, err := deps.Directory.ExistsAny(ctx, in.IDNumber, in.AccountNumber, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		deps.Audit(ctx, EventRegister, false, "", deps.Errors.DuplicateAccount, func() map[string]string {
			return map[string]string{"reason": "duplicate"}
		})
		return nil, deps.Errors.DuplicateAccount
	}

	hash, err := deps.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	encIDNumber, err := deps.EncryptField(in.IDNumber)
	if err != nil {
		return nil, err
	}
	encAccountNumber, err := deps.EncryptField(in.AccountNumber)
	if err != nil {
		return nil, err
	}
	encEmail, err := deps.EncryptField(in.Email)
	if err != nil {
		return nil, err
	}

	now := deps.Now()
	account := &accounts.Account{
		Role:          accounts.RoleCustomer,
		Name:          in.Name,
		IDNumber:      encIDNumber,
		AccountNumber: encAccountNumber,
		Email:         encEmail,
		PasswordHash:  hash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := deps.Store.Insert(ctx, account); err != nil {
		return nil, err
	}

	deps.Audit(ctx, EventRegister, true, account.ID, nil, nil)

	return &RegisterResult{
		AccountID:     account.ID,
		Name:          account.Name,
		AccountNumber: in.AccountNumber,
	}, nil
}
