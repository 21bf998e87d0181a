package limiters

import (
	"context"
	"testing"
	"time"

	"github.com/bankbridge/bankauth/internal/accounts"
)

func seedAccount(t *testing.T, store accounts.Store) *accounts.Account {
	t.Helper()
	a := &accounts.Account{Role: accounts.RoleCustomer}
	if err := store.Insert(context.Background(), a); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	return a
}

func TestLockoutThreshold(t *testing.T) {
	store := accounts.NewMemoryStore()
	tracker := NewLockoutTracker(store, LockoutConfig{MaxAttempts: 5, Duration: 15 * time.Minute})
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	a := seedAccount(t, store)

	var updated *accounts.Account
	var err error
	for i := 1; i <= 4; i++ {
		updated, err = tracker.RecordFailure(ctx, a.ID, now)
		if err != nil {
			t.Fatalf("RecordFailure %d failed: %v", i, err)
		}
		if tracker.Locked(updated, now) {
			t.Fatalf("locked after %d failures, threshold is 5", i)
		}
	}

	updated, err = tracker.RecordFailure(ctx, a.ID, now)
	if err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}
	if !tracker.Locked(updated, now) {
		t.Fatal("not locked after 5 failures")
	}
	if !updated.LockUntil.Equal(now.Add(15 * time.Minute)) {
		t.Fatalf("LockUntil = %v, want %v", updated.LockUntil, now.Add(15*time.Minute))
	}
}

func TestLockoutArmsOnce(t *testing.T) {
	store := accounts.NewMemoryStore()
	tracker := NewLockoutTracker(store, LockoutConfig{MaxAttempts: 2, Duration: 15 * time.Minute})
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	a := seedAccount(t, store)

	if _, err := tracker.RecordFailure(ctx, a.ID, now); err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}
	locked, err := tracker.RecordFailure(ctx, a.ID, now)
	if err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}
	deadline := *locked.LockUntil

	// A failure inside the window must not extend the deadline.
	again, err := tracker.RecordFailure(ctx, a.ID, now.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}
	if !again.LockUntil.Equal(deadline) {
		t.Fatalf("lock deadline moved: %v, want %v", again.LockUntil, deadline)
	}
	if again.LoginAttempts != 3 {
		t.Fatalf("LoginAttempts = %d, want 3", again.LoginAttempts)
	}
}

func TestLockoutLazyExpiry(t *testing.T) {
	store := accounts.NewMemoryStore()
	tracker := NewLockoutTracker(store, LockoutConfig{MaxAttempts: 1, Duration: 15 * time.Minute})
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	a := seedAccount(t, store)

	locked, err := tracker.RecordFailure(ctx, a.ID, now)
	if err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}
	if !tracker.Locked(locked, now) {
		t.Fatal("not locked after reaching threshold")
	}
	if tracker.Locked(locked, now.Add(16*time.Minute)) {
		t.Fatal("still locked after the window lapsed")
	}
}

func TestLockoutReset(t *testing.T) {
	store := accounts.NewMemoryStore()
	tracker := NewLockoutTracker(store, LockoutConfig{MaxAttempts: 1, Duration: 15 * time.Minute})
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	a := seedAccount(t, store)

	if _, err := tracker.RecordFailure(ctx, a.ID, now); err != nil {
		t.Fatalf("RecordFailure failed: %v", err)
	}
	if err := tracker.Reset(ctx, a.ID); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	got, err := store.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.LoginAttempts != 0 || got.LockUntil != nil {
		t.Fatalf("login state not cleared: attempts=%d lock=%v", got.LoginAttempts, got.LockUntil)
	}
}
