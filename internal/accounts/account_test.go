package accounts

import (
	"testing"
	"time"
)

func TestLocked(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	a := &Account{}
	if a.Locked(now) {
		t.Fatal("account with no LockUntil reported locked")
	}

	future := now.Add(time.Minute)
	a.LockUntil = &future
	if !a.Locked(now) {
		t.Fatal("account with future LockUntil reported unlocked")
	}

	past := now.Add(-time.Minute)
	a.LockUntil = &past
	if a.Locked(now) {
		t.Fatal("account with past LockUntil reported locked")
	}
}

func TestApplyLoginFailure(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := &Account{}

	for i := 1; i <= 4; i++ {
		applyLoginFailure(a, 5, 15*time.Minute, now)
		if a.LoginAttempts != i {
			t.Fatalf("attempt %d: LoginAttempts = %d", i, a.LoginAttempts)
		}
		if a.LockUntil != nil {
			t.Fatalf("attempt %d: lock armed below threshold", i)
		}
	}

	applyLoginFailure(a, 5, 15*time.Minute, now)
	if a.LoginAttempts != 5 {
		t.Fatalf("LoginAttempts = %d, want 5", a.LoginAttempts)
	}
	if a.LockUntil == nil || !a.LockUntil.Equal(now.Add(15*time.Minute)) {
		t.Fatalf("LockUntil = %v, want %v", a.LockUntil, now.Add(15*time.Minute))
	}

	// Further failures inside the window keep the original expiry.
	later := now.Add(5 * time.Minute)
	applyLoginFailure(a, 5, 15*time.Minute, later)
	if a.LoginAttempts != 6 {
		t.Fatalf("LoginAttempts = %d, want 6", a.LoginAttempts)
	}
	if !a.LockUntil.Equal(now.Add(15 * time.Minute)) {
		t.Fatalf("lock expiry moved to %v", a.LockUntil)
	}

	// After the window lapses the next over-threshold failure re-arms it.
	expired := now.Add(20 * time.Minute)
	applyLoginFailure(a, 5, 15*time.Minute, expired)
	if !a.LockUntil.Equal(expired.Add(15 * time.Minute)) {
		t.Fatalf("LockUntil = %v, want %v", a.LockUntil, expired.Add(15*time.Minute))
	}
}

func TestClone(t *testing.T) {
	until := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := &Account{ID: "a1", LockUntil: &until}

	c := a.Clone()
	*c.LockUntil = until.Add(time.Hour)
	if !a.LockUntil.Equal(until) {
		t.Fatal("clone shares LockUntil with the original")
	}

	var nilAccount *Account
	if nilAccount.Clone() != nil {
		t.Fatal("Clone of nil is not nil")
	}
}

func TestPatchApply(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	until := now.Add(time.Minute)
	a := &Account{
		PasswordHash:  "old-hash",
		LoginAttempts: 3,
		LockUntil:     &until,
	}

	hash := "new-hash"
	enabled := true
	Patch{PasswordHash: &hash, MFAEnabled: &enabled, ResetLoginState: true}.apply(a, now)

	if a.PasswordHash != "new-hash" {
		t.Fatalf("PasswordHash = %q", a.PasswordHash)
	}
	if !a.MFAEnabled {
		t.Fatal("MFAEnabled not set")
	}
	if a.LoginAttempts != 0 || a.LockUntil != nil {
		t.Fatal("login state not reset")
	}
	if !a.UpdatedAt.Equal(now) {
		t.Fatalf("UpdatedAt = %v", a.UpdatedAt)
	}

	// Nil pointers leave fields untouched.
	Patch{}.apply(a, now.Add(time.Minute))
	if a.PasswordHash != "new-hash" || !a.MFAEnabled {
		t.Fatal("empty patch modified fields")
	}
}
