// Package limiters implements the progressive account lockout policy.
//
// The failure counter lives on the account record itself, not in a separate
// keyspace: lockout state must survive backend restarts and travel with the
// account document, and the counter mutation has to be atomic with the lock
// decision. Counting and locking therefore go through the account store's
// RecordLoginFailure operation.
//
// # What this package must NOT do
//
//   - Import bankauth or any sibling internal package except internal/accounts.
//   - Decide which credential checks count as failures; workflow functions do.
package limiters

import (
	"context"
	"time"

	"github.com/bankbridge/bankauth/internal/accounts"
)

// LockoutConfig holds the lockout policy thresholds.
type LockoutConfig struct {
	MaxAttempts int
	Duration    time.Duration
}

// LockoutTracker applies the lockout policy to account login state.
type LockoutTracker struct {
	store  accounts.Store
	config LockoutConfig
}

// NewLockoutTracker creates a tracker over the given account store.
func NewLockoutTracker(store accounts.Store, cfg LockoutConfig) *LockoutTracker {
	return &LockoutTracker{store: store, config: cfg}
}

// Locked reports whether the account may not attempt authentication right
// now. Expiry is lazy: a past lock deadline reads as unlocked without any
// store write.
func (t *LockoutTracker) Locked(a *accounts.Account, now time.Time) bool {
	return a.Locked(now)
}

// RecordFailure registers one failed credential check. The attempt counter
// always increments; the lock window is armed when the counter reaches
// MaxAttempts and the account is not already locked. Returns the updated
// account so callers can report the new state.
func (t *LockoutTracker) RecordFailure(ctx context.Context, accountID string, now time.Time) (*accounts.Account, error) {
	return t.store.RecordLoginFailure(ctx, accountID, t.config.MaxAttempts, t.config.Duration, now)
}

// Reset clears the failure counter and lock after a successful
// authentication or an identity-verified password reset.
func (t *LockoutTracker) Reset(ctx context.Context, accountID string) error {
	_, err := t.store.Update(ctx, accountID, accounts.Patch{ResetLoginState: true})
	return err
}
