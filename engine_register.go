package bankauth

import (
	"context"

	"github.com/bankbridge/bankauth/internal/flows"
)

// minRegisterPasswordLen is the registration password floor. Recovery uses
// a stricter one, see engine_recovery.go.
const minRegisterPasswordLen = 8

// Register opens a new customer account. Identifying fields are encrypted
// and the password hashed before anything is persisted; the result carries
// only display-safe values.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	result, err := flows.RunRegister(ctx, flows.RegisterInput{
		Name:            req.Name,
		IDNumber:        req.IDNumber,
		AccountNumber:   req.AccountNumber,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}, flows.RegisterDeps{
		Store:          e.store,
		Directory:      e.directory,
		EncryptField:   e.cipher.Encrypt,
		HashPassword:   e.hasher.Hash,
		MinPasswordLen: minRegisterPasswordLen,
		Now:            e.clockFn,
		Audit:          e.auditFunc(),
		Errors:         flowErrors(),
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}

	return &RegisterResult{
		AccountID:     result.AccountID,
		Name:          result.Name,
		AccountNumber: result.AccountNumber,
	}, nil
}
