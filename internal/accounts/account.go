// Package accounts holds the central account entity, the document-store
// abstraction it persists through, and the decrypt-scan directory used for
// equality lookups over encrypted identifying fields.
package accounts

import (
	"context"
	"errors"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	// RoleCustomer is the default role for registered accounts.
	RoleCustomer Role = "customer"
	// RoleAdmin is the employee/admin role. Exactly one admin account is
	// expected to exist; enforced by the seeding routine, not the store.
	RoleAdmin Role = "admin"
)

// Account is the persisted account record. IDNumber, AccountNumber and
// Email hold ciphertext envelopes at rest; PasswordHash holds a bcrypt
// digest. Plaintext never appears in a persisted Account.
type Account struct {
	ID            string     `json:"id"`
	Role          Role       `json:"role"`
	Name          string     `json:"name,omitempty"`
	IDNumber      string     `json:"idNumber,omitempty"`
	AccountNumber string     `json:"accountNumber"`
	Email         string     `json:"email,omitempty"`
	PasswordHash  string     `json:"passwordHash"`
	LoginAttempts int        `json:"loginAttempts,omitempty"`
	LockUntil     *time.Time `json:"lockUntil,omitempty"`
	MFASecret     string     `json:"mfaSecret,omitempty"`
	MFAEnabled    bool       `json:"mfaEnabled"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Locked reports whether the account is inside its lockout window. The lock
// state is derived, never stored: a past LockUntil means unlocked, with no
// background sweep required.
func (a *Account) Locked(now time.Time) bool {
	return a.LockUntil != nil && a.LockUntil.After(now)
}

// Clone returns a deep copy so store snapshots cannot alias caller state.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	out := *a
	if a.LockUntil != nil {
		t := *a.LockUntil
		out.LockUntil = &t
	}
	return &out
}

var (
	// ErrNotFound reports a missing account id.
	ErrNotFound = errors.New("accounts: account not found")
	// ErrUnavailable reports an unreachable storage backend.
	ErrUnavailable = errors.New("accounts: store unavailable")
)

// Patch is a partial update applied by Store.Update. Nil pointers leave the
// field untouched.
type Patch struct {
	Name          *string
	IDNumber      *string
	AccountNumber *string
	Email         *string
	PasswordHash  *string
	MFASecret     *string
	MFAEnabled    *bool
	// ResetLoginState clears LoginAttempts and LockUntil, the transition
	// taken on every successful authentication and identity-verified reset.
	ResetLoginState bool
}

func (p Patch) apply(a *Account, now time.Time) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.IDNumber != nil {
		a.IDNumber = *p.IDNumber
	}
	if p.AccountNumber != nil {
		a.AccountNumber = *p.AccountNumber
	}
	if p.Email != nil {
		a.Email = *p.Email
	}
	if p.PasswordHash != nil {
		a.PasswordHash = *p.PasswordHash
	}
	if p.MFASecret != nil {
		a.MFASecret = *p.MFASecret
	}
	if p.MFAEnabled != nil {
		a.MFAEnabled = *p.MFAEnabled
	}
	if p.ResetLoginState {
		a.LoginAttempts = 0
		a.LockUntil = nil
	}
	a.UpdatedAt = now
}

// applyLoginFailure is the single write path for failed credential checks.
// The attempt counter always increments; the lock window is armed once, when
// the counter crosses the threshold while the account is not already locked,
// so a locked account keeps its original expiry.
func applyLoginFailure(a *Account, maxAttempts int, lockFor time.Duration, now time.Time) {
	a.LoginAttempts++
	if a.LoginAttempts >= maxAttempts && !a.Locked(now) {
		until := now.Add(lockFor)
		a.LockUntil = &until
	}
	a.UpdatedAt = now
}

// Store is the generic document-store boundary the engine persists through.
// Implementations must never assume indexed equality on encrypted fields;
// equality lookups happen in the Directory, above this interface.
type Store interface {
	// Insert assigns an id and creation timestamps and persists the record.
	Insert(ctx context.Context, a *Account) error
	// Get loads one record by id.
	Get(ctx context.Context, id string) (*Account, error)
	// List returns all records, optionally pre-filtered by role ("" = all).
	List(ctx context.Context, role Role) ([]*Account, error)
	// Update applies a partial update by id and returns the new record.
	Update(ctx context.Context, id string, patch Patch) (*Account, error)
	// RecordLoginFailure atomically increments LoginAttempts and, when the
	// incremented count reaches maxAttempts on an account that is not
	// already locked, sets LockUntil to now+lockFor in the same update.
	// Returns the updated record. The increment and the conditional
	// lock-set must not be separable under concurrency.
	RecordLoginFailure(ctx context.Context, id string, maxAttempts int, lockFor time.Duration, now time.Time) (*Account, error)
	// Delete removes a record by id.
	Delete(ctx context.Context, id string) error
}
