package flows

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bankbridge/bankauth/internal/accounts"
	"github.com/bankbridge/bankauth/internal/limiters"
)

// CustomerLoginInput authenticates a customer by account number.
type CustomerLoginInput struct {
	AccountNumber string `validate:"required,acct_number"`
	Password      string `validate:"required"`
}

// EmployeeLoginInput authenticates the admin by email plus account number.
type EmployeeLoginInput struct {
	Email         string `validate:"required,email"`
	AccountNumber string `validate:"required,acct_number"`
	Password      string `validate:"required,min=8"`
}

// LoginResult is the successful authentication payload.
type LoginResult struct {
	Token         string
	AccountID     string
	Name          string
	AccountNumber string
	Email         string
	Role          string
}

// LoginDeps captures login dependencies shared by both roles.
type LoginDeps struct {
	Directory *accounts.Directory
	Lockout   *limiters.LockoutTracker

	VerifyPassword func(password, digest string) bool
	IssueToken     func(accountID, accountNumber string) (string, error)

	Now    func() time.Time
	Audit  AuditFunc
	Errors Errors
}

// RunCustomerLogin authenticates a customer account.
//
// Lookup failure and password failure both come back as InvalidCredentials:
// a caller can never learn which account numbers exist. The lock check runs
// before the password check, so attempts cannot change while an account is
// locked.
func RunCustomerLogin(ctx context.Context, in CustomerLoginInput, deps LoginDeps) (*LoginResult, error) {
	deps.Now = normalizeNow(deps.Now)
	deps.Audit = normalizeAudit(deps.Audit)
	if deps.Directory == nil || deps.Lockout == nil || deps.VerifyPassword == nil || deps.IssueToken == nil {
		return nil, deps.Errors.EngineNotReady
	}

	in.AccountNumber = digitsOnly(in.AccountNumber)
	if err := checkInput(in); err != nil {
		return nil, deps.Errors.InvalidInput
	}

	dec, err := deps.Directory.FindByAccountNumber(ctx, in.AccountNumber)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			deps.Audit(ctx, EventCustomerLogin, false, "", deps.Errors.InvalidCredentials, nil)
			return nil, deps.Errors.InvalidCredentials
		}
		return nil, err
	}

	return deps.finishLogin(ctx, EventCustomerLogin, dec, in.Password)
}

// RunEmployeeLogin authenticates the single admin account. Both the email
// and the account number must match the admin's decrypted fields before the
// password is even considered.
func RunEmployeeLogin(ctx context.Context, in EmployeeLoginInput, deps LoginDeps) (*LoginResult, error) {
	deps.Now = normalizeNow(deps.Now)
	deps.Audit = normalizeAudit(deps.Audit)
	if deps.Directory == nil || deps.Lockout == nil || deps.VerifyPassword == nil || deps.IssueToken == nil {
		return nil, deps.Errors.EngineNotReady
	}

	in.Email = normalizeEmail(in.Email)
	in.AccountNumber = digitsOnly(in.AccountNumber)
	if err := checkInput(in); err != nil {
		return nil, deps.Errors.InvalidInput
	}

	dec, err := deps.Directory.FindAdmin(ctx)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			deps.Audit(ctx, EventEmployeeLogin, false, "", deps.Errors.InvalidCredentials, nil)
			return nil, deps.Errors.InvalidCredentials
		}
		return nil, err
	}

	if normalizeEmail(dec.Email) != in.Email || dec.AccountNumber != in.AccountNumber {
		deps.Audit(ctx, EventEmployeeLogin, false, dec.Account.ID, deps.Errors.InvalidCredentials, nil)
		return nil, deps.Errors.InvalidCredentials
	}

	return deps.finishLogin(ctx, EventEmployeeLogin, dec, in.Password)
}

// finishLogin runs the role-independent tail: lock check, password check
// with failure accounting, login-state reset, token issue.
func (deps LoginDeps) finishLogin(ctx context.Context, event string, dec *accounts.Decrypted, password string) (*LoginResult, error) {
	now := deps.Now()
	account := dec.Account

	if deps.Lockout.Locked(account, now) {
		deps.Audit(ctx, event, false, account.ID, deps.Errors.AccountLocked, nil)
		return nil, deps.Errors.AccountLocked
	}

	if !deps.VerifyPassword(password, account.PasswordHash) {
		updated, err := deps.Lockout.RecordFailure(ctx, account.ID, now)
		if err != nil {
			return nil, err
		}
		if updated.Locked(now) && !account.Locked(now) {
			deps.Audit(ctx, EventAccountLockout, false, account.ID, deps.Errors.AccountLocked, func() map[string]string {
				return map[string]string{"attempts": strconv.Itoa(updated.LoginAttempts)}
			})
		}
		deps.Audit(ctx, event, false, account.ID, deps.Errors.InvalidCredentials, nil)
		return nil, deps.Errors.InvalidCredentials
	}

	if err := deps.Lockout.Reset(ctx, account.ID); err != nil {
		return nil, err
	}

	token, err := deps.IssueToken(account.ID, dec.AccountNumber)
	if err != nil {
		return nil, err
	}

	deps.Audit(ctx, event, true, account.ID, nil, nil)

	return &LoginResult{
		Token:         token,
		AccountID:     account.ID,
		Name:          dec.Name,
		AccountNumber: dec.AccountNumber,
		Email:         dec.Email,
		Role:          string(account.Role),
	}, nil
}
