package flows

import (
	"context"
	"time"

	"github.com/bankbridge/bankauth/internal/accounts"
)

// SeedAdminInput is the admin credential set, typically sourced from
// configuration or the environment.
type SeedAdminInput struct {
	AccountNumber string `validate:"required,acct_number"`
	Email         string `validate:"required,email"`
	// Password may be plaintext or an existing bcrypt digest; digests are
	// stored as-is.
	Password string `validate:"required"`
}

// AdminDeps captures seeding and maintenance dependencies.
type AdminDeps struct {
	Store     accounts.Store
	Directory *accounts.Directory

	EncryptField func(string) (string, error)
	HashPassword func(string) (string, error)
	IsDigest     func(string) bool

	Now    func() time.Time
	Audit  AuditFunc
	Errors Errors
}

// RunSeedAdmin upserts the single admin account. An existing admin is
// rewritten in place with the new credentials and stripped of any customer
// identity fields; otherwise a fresh admin record is created. Repeat calls
// converge on the same state.
func RunSeedAdmin(ctx context.Context, in SeedAdminInput, deps AdminDeps) (*accounts.Account, error) {
	deps.Now = normalizeNow(deps.Now)
	if deps.Store == nil || deps.EncryptField == nil || deps.HashPassword == nil {
		return nil, deps.Errors.EngineNotReady
	}

	if err := checkInput(in); err != nil {
		return nil, deps.Errors.InvalidInput
	}

	hash := in.Password
	if deps.IsDigest == nil || !deps.IsDigest(in.Password) {
		var err error
		hash, err = deps.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
	}

	encAccountNumber, err := deps.EncryptField(digitsOnly(in.AccountNumber))
	if err != nil {
		return nil, err
	}
	encEmail, err := deps.EncryptField(normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}

	admins, err := deps.Store.List(ctx, accounts.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if len(admins) > 0 {
		empty := ""
		return deps.Store.Update(ctx, admins[0].ID, accounts.Patch{
			Name:            &empty,
			IDNumber:        &empty,
			AccountNumber:   &encAccountNumber,
			Email:           &encEmail,
			PasswordHash:    &hash,
			ResetLoginState: true,
		})
	}

	now := deps.Now()
	admin := &accounts.Account{
		Role:          accounts.RoleAdmin,
		AccountNumber: encAccountNumber,
		Email:         encEmail,
		PasswordHash:  hash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := deps.Store.Insert(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// RunPurgeInvalidAccounts deletes customer records whose account number is
// missing or unrecoverable. Per-record failures are skipped so one bad
// document never aborts the sweep. Returns the number of deletions.
func RunPurgeInvalidAccounts(ctx context.Context, deps AdminDeps, report func(accountID string, err error)) (int, error) {
	if deps.Store == nil || deps.Directory == nil {
		return 0, deps.Errors.EngineNotReady
	}
	if report == nil {
		report = func(string, error) {}
	}

	list, err := deps.Store.List(ctx, accounts.RoleCustomer)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, a := range list {
		dec, err := deps.Directory.Open(a)
		invalid := err != nil || dec.AccountNumber == ""
		if !invalid {
			continue
		}
		if delErr := deps.Store.Delete(ctx, a.ID); delErr != nil {
			report(a.ID, delErr)
			continue
		}
		report(a.ID, nil)
		deleted++
	}
	return deleted, nil
}
