package bankauth

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/bankbridge/bankauth/fieldcipher"
	"github.com/bankbridge/bankauth/internal/accounts"
	"github.com/bankbridge/bankauth/internal/flows"
	"github.com/bankbridge/bankauth/internal/limiters"
	"github.com/bankbridge/bankauth/internal/transfers"
	"github.com/bankbridge/bankauth/jwt"
	"github.com/bankbridge/bankauth/password"
)

// Engine is the embeddable authentication and field-encryption core. Build
// one with [Builder]; an Engine is immutable after construction and safe for
// concurrent use.
type Engine struct {
	config        Config
	store         accounts.Store
	transferStore transfers.Store
	directory     *accounts.Directory
	lockout       *limiters.LockoutTracker
	cipher        *fieldcipher.Cipher
	hasher        *password.Hasher
	tokens        *jwt.Manager
	totp          *totpManager
	audit         *auditDispatcher
	logger        *zap.Logger
	clockFn       func() time.Time
}

// Close flushes and stops the async audit dispatcher. Call once the Engine
// is no longer needed.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were discarded because the
// buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) clock() time.Time {
	if e == nil || e.clockFn == nil {
		return time.Now()
	}
	return e.clockFn()
}

// VerifyToken parses and verifies an access token, returning its claims.
func (e *Engine) VerifyToken(token string) (*TokenClaims, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	out := &TokenClaims{
		AccountID:     claims.UserID,
		AccountNumber: claims.AccountNumber,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// EncryptField encrypts one sensitive value with the engine's field cipher.
func (e *Engine) EncryptField(plaintext string) (string, error) {
	if e == nil || e.cipher == nil {
		return "", ErrEngineNotReady
	}
	return e.cipher.Encrypt(plaintext)
}

// DecryptField reverses EncryptField. Legacy CBC envelopes decrypt too;
// values without an envelope shape pass through unchanged.
func (e *Engine) DecryptField(ciphertext string) (string, error) {
	if e == nil || e.cipher == nil {
		return "", ErrEngineNotReady
	}
	return e.cipher.Decrypt(ciphertext)
}

// flowErrors hands the root sentinel taxonomy to flow functions.
func flowErrors() flows.Errors {
	return flows.Errors{
		EngineNotReady:     ErrEngineNotReady,
		InvalidInput:       ErrInvalidInput,
		PasswordPolicy:     ErrPasswordPolicy,
		PasswordMismatch:   ErrPasswordMismatch,
		InvalidCredentials: ErrInvalidCredentials,
		AccountLocked:      ErrAccountLocked,
		AccountNotFound:    ErrAccountNotFound,
		DuplicateAccount:   ErrDuplicateAccount,
		PasswordReuse:      ErrPasswordReuse,
		MFANotConfigured:   ErrMFANotConfigured,
		MFAInvalidCode:     ErrMFAInvalidCode,
		MFACodeRequired:    ErrMFACodeRequired,
		TransferNotFound:   ErrTransferNotFound,
		TransferInvalid:    ErrTransferInvalid,
	}
}

func (e *Engine) mfaDeps() flows.MFADeps {
	return flows.MFADeps{
		Store:          e.store,
		Directory:      e.directory,
		GenerateSecret: e.totp.GenerateSecret,
		ProvisionURI:   e.totp.ProvisionURI,
		VerifyCode:     e.totp.VerifyCode,
		Now:            e.clockFn,
		Audit:          e.auditFunc(),
		Errors:         flowErrors(),
	}
}

func (e *Engine) transferDeps() flows.TransferDeps {
	return flows.TransferDeps{
		Accounts:     e.store,
		Directory:    e.directory,
		Transfers:    e.transferStore,
		EncryptField: e.cipher.Encrypt,
		DecryptField: e.cipher.Decrypt,
		MFA:          e.mfaDeps(),
		Now:          e.clockFn,
		Audit:        e.auditFunc(),
		Errors:       flowErrors(),
	}
}

// mapStoreErr folds storage-backend faults into the public taxonomy while
// letting already-public sentinels pass through.
func mapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, accounts.ErrUnavailable) || errors.Is(err, transfers.ErrUnavailable) {
		return ErrStoreUnavailable
	}
	return err
}
