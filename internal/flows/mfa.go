package flows

import (
	"context"
	"errors"
	"time"

	"github.com/bankbridge/bankauth/internal/accounts"
)

// MFASetupInput requests a TOTP secret for an account.
type MFASetupInput struct {
	AccountNumber string `validate:"required,acct_number"`
}

// MFASetupResult carries the enrollment material. ProvisionURI is empty when
// MFA is already enabled: an enrolled account never gets a fresh QR target.
type MFASetupResult struct {
	AlreadyEnabled bool
	Secret         string
	ProvisionURI   string
}

// MFAVerifyInput confirms a TOTP code during enrollment.
type MFAVerifyInput struct {
	AccountNumber string `validate:"required,acct_number"`
	Code          string `validate:"required"`
}

// MFADeps captures TOTP enrollment dependencies.
type MFADeps struct {
	Store     accounts.Store
	Directory *accounts.Directory

	GenerateSecret func(accountLabel string) (string, error)
	ProvisionURI   func(secret, accountLabel string) string
	VerifyCode     func(secret, code string, at time.Time) (bool, error)

	Now    func() time.Time
	Audit  AuditFunc
	Errors Errors
}

// RunMFASetup returns the account's TOTP secret, generating and persisting
// one on first call. Setup is idempotent: repeat calls return the same
// secret until enrollment completes.
func RunMFASetup(ctx context.Context, in MFASetupInput, deps MFADeps) (*MFASetupResult, error) {
	deps.Audit = normalizeAudit(deps.Audit)
	if deps.Store == nil || deps.Directory == nil || deps.GenerateSecret == nil || deps.ProvisionURI == nil {
		return nil, deps.Errors.EngineNotReady
	}

	in.AccountNumber = digitsOnly(in.AccountNumber)
	if err := checkInput(in); err != nil {
		return nil, deps.Errors.InvalidInput
	}

	// Enrollment is open to every role; the admin arms the transfer gate the
	// same way a customer does.
	dec, err := deps.Directory.FindAnyByAccountNumber(ctx, in.AccountNumber)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return nil, deps.Errors.AccountNotFound
		}
		return nil, err
	}
	account := dec.Account

	secret := account.MFASecret
	if secret == "" {
		secret, err = deps.GenerateSecret(dec.AccountNumber)
		if err != nil {
			return nil, err
		}
		if _, err := deps.Store.Update(ctx, account.ID, accounts.Patch{MFASecret: &secret}); err != nil {
			return nil, err
		}
	}

	result := &MFASetupResult{
		AlreadyEnabled: account.MFAEnabled,
		Secret:         secret,
	}
	if !account.MFAEnabled {
		result.ProvisionURI = deps.ProvisionURI(secret, dec.AccountNumber)
	}

	deps.Audit(ctx, EventMFASetup, true, account.ID, nil, nil)
	return result, nil
}

// RunMFAVerify checks an enrollment code and flips MFAEnabled on the first
// success. An account without a stored secret cannot verify.
func RunMFAVerify(ctx context.Context, in MFAVerifyInput, deps MFADeps) error {
	deps.Now = normalizeNow(deps.Now)
	deps.Audit = normalizeAudit(deps.Audit)
	if deps.Store == nil || deps.Directory == nil || deps.VerifyCode == nil {
		return deps.Errors.EngineNotReady
	}

	in.AccountNumber = digitsOnly(in.AccountNumber)
	if err := checkInput(in); err != nil {
		return deps.Errors.InvalidInput
	}

	dec, err := deps.Directory.FindAnyByAccountNumber(ctx, in.AccountNumber)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return deps.Errors.MFANotConfigured
		}
		return err
	}
	account := dec.Account

	if account.MFASecret == "" {
		return deps.Errors.MFANotConfigured
	}

	ok, err := deps.VerifyCode(account.MFASecret, in.Code, deps.Now())
	if err != nil {
		return err
	}
	if !ok {
		deps.Audit(ctx, EventMFAVerify, false, account.ID, deps.Errors.MFAInvalidCode, nil)
		return deps.Errors.MFAInvalidCode
	}

	if !account.MFAEnabled {
		enabled := true
		if _, err := deps.Store.Update(ctx, account.ID, accounts.Patch{MFAEnabled: &enabled}); err != nil {
			return err
		}
	}

	deps.Audit(ctx, EventMFAVerify, true, account.ID, nil, nil)
	return nil
}

// requireTransferCode applies the opt-in MFA gate shared by transfer
// submission paths: accounts with a stored secret must present a valid code,
// and the first valid code also completes enrollment.
func requireTransferCode(ctx context.Context, account *accounts.Account, code string, deps MFADeps) error {
	if account.MFASecret == "" {
		return nil
	}
	if code == "" {
		return deps.Errors.MFACodeRequired
	}

	ok, err := deps.VerifyCode(account.MFASecret, code, deps.Now())
	if err != nil {
		return err
	}
	if !ok {
		return deps.Errors.MFAInvalidCode
	}

	if !account.MFAEnabled {
		enabled := true
		if _, err := deps.Store.Update(ctx, account.ID, accounts.Patch{MFAEnabled: &enabled}); err != nil {
			return err
		}
	}
	return nil
}
