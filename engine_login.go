package bankauth

import (
	"context"

	"github.com/bankbridge/bankauth/internal/flows"
)

func (e *Engine) loginDeps() flows.LoginDeps {
	return flows.LoginDeps{
		Directory:      e.directory,
		Lockout:        e.lockout,
		VerifyPassword: e.hasher.Verify,
		IssueToken:     e.tokens.Issue,
		Now:            e.clockFn,
		Audit:          e.auditFunc(),
		Errors:         flowErrors(),
	}
}

// CustomerLogin authenticates a customer by account number and password.
// Unknown accounts and wrong passwords are indistinguishable to the caller;
// a locked account is reported as locked without consuming an attempt.
func (e *Engine) CustomerLogin(ctx context.Context, req CustomerLoginRequest) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	result, err := flows.RunCustomerLogin(ctx, flows.CustomerLoginInput{
		AccountNumber: req.AccountNumber,
		Password:      req.Password,
	}, e.loginDeps())
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return loginResult(result), nil
}

// EmployeeLogin authenticates the admin account. The email and account
// number must both match before the password is checked; the same lockout
// policy applies as for customers.
func (e *Engine) EmployeeLogin(ctx context.Context, req EmployeeLoginRequest) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	result, err := flows.RunEmployeeLogin(ctx, flows.EmployeeLoginInput{
		Email:         req.Email,
		AccountNumber: req.AccountNumber,
		Password:      req.Password,
	}, e.loginDeps())
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return loginResult(result), nil
}

func loginResult(r *flows.LoginResult) *LoginResult {
	return &LoginResult{
		Token:         r.Token,
		AccountID:     r.AccountID,
		Name:          r.Name,
		AccountNumber: r.AccountNumber,
		Email:         r.Email,
		Role:          r.Role,
	}
}
