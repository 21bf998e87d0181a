package bankauth

import (
	"context"

	"go.uber.org/zap"

	"github.com/bankbridge/bankauth/internal/flows"
	"github.com/bankbridge/bankauth/password"
)

func (e *Engine) adminDeps() flows.AdminDeps {
	return flows.AdminDeps{
		Store:        e.store,
		Directory:    e.directory,
		EncryptField: e.cipher.Encrypt,
		HashPassword: e.hasher.Hash,
		IsDigest:     password.IsDigest,
		Now:          e.clockFn,
		Audit:        e.auditFunc(),
		Errors:       flowErrors(),
	}
}

// SeedAdmin upserts the single admin account from Config.Admin. An existing
// admin is rewritten with the configured credentials; repeat calls converge
// on the same state. Returns the admin account id.
func (e *Engine) SeedAdmin(ctx context.Context) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	admin, err := flows.RunSeedAdmin(ctx, flows.SeedAdminInput{
		AccountNumber: e.config.Admin.AccountNumber,
		Email:         e.config.Admin.Email,
		Password:      e.config.Admin.Password,
	}, e.adminDeps())
	if err != nil {
		return "", mapStoreErr(err)
	}

	e.logger.Info("admin account seeded", zap.String("account_id", admin.ID))
	return admin.ID, nil
}

// PurgeInvalidAccounts deletes customer records whose account number is
// missing or unrecoverable. Per-record failures are logged and skipped.
// Returns the number of deleted records.
func (e *Engine) PurgeInvalidAccounts(ctx context.Context) (int, error) {
	if e == nil {
		return 0, ErrEngineNotReady
	}

	deleted, err := flows.RunPurgeInvalidAccounts(ctx, e.adminDeps(), func(accountID string, err error) {
		if err != nil {
			e.logger.Warn("purging invalid account",
				zap.String("account_id", accountID),
				zap.Error(err),
			)
			return
		}
		e.logger.Info("purged invalid account", zap.String("account_id", accountID))
	})
	if err != nil {
		return deleted, mapStoreErr(err)
	}
	return deleted, nil
}
