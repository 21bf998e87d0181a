package accounts

import (
	"context"

	"go.uber.org/zap"

	"github.com/bankbridge/bankauth/fieldcipher"
)

// Directory answers equality questions about encrypted identifying fields.
// Ciphertexts are non-deterministic, so there is no index to consult: every
// lookup lists the candidate role's accounts and compares decrypted values.
// Records that fail to decrypt are skipped and logged, never fatal, so one
// corrupt document cannot take down login for everyone else.
type Directory struct {
	store  Store
	cipher *fieldcipher.Cipher
	logger *zap.Logger
}

func NewDirectory(store Store, cipher *fieldcipher.Cipher, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{
		store:  store,
		cipher: cipher,
		logger: logger,
	}
}

// Decrypted pairs an account with the plaintext of its identifying fields,
// saving callers a second decrypt pass.
type Decrypted struct {
	Account       *Account
	Name          string
	IDNumber      string
	AccountNumber string
	Email         string
}

func (d *Directory) decrypt(a *Account) (*Decrypted, error) {
	idNumber, err := d.cipher.Decrypt(a.IDNumber)
	if err != nil {
		return nil, err
	}
	accountNumber, err := d.cipher.Decrypt(a.AccountNumber)
	if err != nil {
		return nil, err
	}
	email, err := d.cipher.Decrypt(a.Email)
	if err != nil {
		return nil, err
	}
	name := a.Name
	if name == "" {
		name = "Admin"
	}
	return &Decrypted{
		Account:       a,
		Name:          name,
		IDNumber:      idNumber,
		AccountNumber: accountNumber,
		Email:         email,
	}, nil
}

// Open decrypts one already-loaded account.
func (d *Directory) Open(a *Account) (*Decrypted, error) {
	return d.decrypt(a)
}

// find scans accounts of the given role and returns the first whose
// decrypted view satisfies match.
func (d *Directory) find(ctx context.Context, role Role, match func(*Decrypted) bool) (*Decrypted, error) {
	list, err := d.store.List(ctx, role)
	if err != nil {
		return nil, err
	}

	for _, a := range list {
		dec, err := d.decrypt(a)
		if err != nil {
			d.logger.Warn("skipping undecryptable account record",
				zap.String("account_id", a.ID),
				zap.Error(err),
			)
			continue
		}
		if match(dec) {
			return dec, nil
		}
	}
	return nil, ErrNotFound
}

func (d *Directory) FindByAccountNumber(ctx context.Context, accountNumber string) (*Decrypted, error) {
	return d.find(ctx, RoleCustomer, func(dec *Decrypted) bool {
		return dec.AccountNumber == accountNumber
	})
}

func (d *Directory) FindByIDNumber(ctx context.Context, idNumber string) (*Decrypted, error) {
	return d.find(ctx, RoleCustomer, func(dec *Decrypted) bool {
		return dec.IDNumber == idNumber
	})
}

// FindByEmail scans every role: username recovery serves the admin account
// as well as customers.
func (d *Directory) FindByEmail(ctx context.Context, email string) (*Decrypted, error) {
	return d.find(ctx, "", func(dec *Decrypted) bool {
		return dec.Email == email
	})
}

// FindAnyByAccountNumber is the role-blind variant of FindByAccountNumber,
// for paths like MFA enrollment that the admin uses too.
func (d *Directory) FindAnyByAccountNumber(ctx context.Context, accountNumber string) (*Decrypted, error) {
	return d.find(ctx, "", func(dec *Decrypted) bool {
		return dec.AccountNumber == accountNumber
	})
}

// FindAdmin returns the decrypted view of the single admin account. Exactly
// one admin is expected; when more than one exists the oldest wins.
func (d *Directory) FindAdmin(ctx context.Context) (*Decrypted, error) {
	return d.find(ctx, RoleAdmin, func(*Decrypted) bool { return true })
}

// ExistsAny reports whether any customer account already claims one of the
// given identifiers. It is the only duplicate check registration performs:
// a single scan covers all three fields.
func (d *Directory) ExistsAny(ctx context.Context, idNumber, accountNumber, email string) (bool, error) {
	_, err := d.find(ctx, RoleCustomer, func(dec *Decrypted) bool {
		return dec.IDNumber == idNumber ||
			dec.AccountNumber == accountNumber ||
			dec.Email == email
	})
	if err != nil {
		if err == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
