package bankauth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCustomerLogin(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	result := registerCustomer(t, engine)

	login, err := engine.CustomerLogin(ctx, CustomerLoginRequest{
		AccountNumber: testAcctNumber,
		Password:      testPassword,
	})
	if err != nil {
		t.Fatalf("CustomerLogin failed: %v", err)
	}
	if login.Token == "" {
		t.Fatal("empty token")
	}
	if login.AccountID != result.AccountID {
		t.Fatalf("AccountID = %q, want %q", login.AccountID, result.AccountID)
	}
	if login.Name != testName || login.AccountNumber != testAcctNumber || login.Email != testEmail {
		t.Fatalf("unexpected identity fields: %+v", login)
	}
	if login.Role != "customer" {
		t.Fatalf("Role = %q, want customer", login.Role)
	}
}

func TestCustomerLoginFormattedAccountNumber(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	result := registerCustomer(t, engine)

	login, err := engine.CustomerLogin(ctx, CustomerLoginRequest{
		AccountNumber: " 1234 5678 90 ",
		Password:      testPassword,
	})
	if err != nil {
		t.Fatalf("CustomerLogin with formatted account number failed: %v", err)
	}
	if login.AccountID != result.AccountID {
		t.Fatalf("AccountID = %q, want %q", login.AccountID, result.AccountID)
	}
}

func TestCustomerLoginUnknownAccount(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	registerCustomer(t, engine)

	_, err := engine.CustomerLogin(ctx, CustomerLoginRequest{
		AccountNumber: "9999999999",
		Password:      testPassword,
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown account: got err %v, want ErrInvalidCredentials", err)
	}
}

func TestCustomerLoginLockout(t *testing.T) {
	engine, clock := newTestEngine(t)
	ctx := context.Background()

	result := registerCustomer(t, engine)

	req := CustomerLoginRequest{AccountNumber: testAcctNumber, Password: "Wr0ng&Pass?"}
	for i := 1; i <= 5; i++ {
		if _, err := engine.CustomerLogin(ctx, req); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("failure %d: got err %v, want ErrInvalidCredentials", i, err)
		}
	}

	// The fifth failure armed the lock; even the right password is refused.
	good := CustomerLoginRequest{AccountNumber: testAcctNumber, Password: testPassword}
	if _, err := engine.CustomerLogin(ctx, good); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("locked login: got err %v, want ErrAccountLocked", err)
	}

	// Attempts must not move while locked.
	stored, err := engine.store.Get(ctx, result.AccountID)
	if err != nil {
		t.Fatalf("store.Get failed: %v", err)
	}
	if stored.LoginAttempts != 5 {
		t.Fatalf("LoginAttempts = %d, want 5", stored.LoginAttempts)
	}

	// The window expires lazily; a good login afterwards resets state.
	clock.Advance(16 * time.Minute)
	if _, err := engine.CustomerLogin(ctx, good); err != nil {
		t.Fatalf("login after lock expiry failed: %v", err)
	}

	stored, err = engine.store.Get(ctx, result.AccountID)
	if err != nil {
		t.Fatalf("store.Get failed: %v", err)
	}
	if stored.LoginAttempts != 0 || stored.LockUntil != nil {
		t.Fatalf("login state not reset: attempts=%d lock=%v", stored.LoginAttempts, stored.LockUntil)
	}
}

func TestCustomerLoginSuccessResetsAttempts(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	result := registerCustomer(t, engine)

	bad := CustomerLoginRequest{AccountNumber: testAcctNumber, Password: "Wr0ng&Pass?"}
	for i := 0; i < 3; i++ {
		if _, err := engine.CustomerLogin(ctx, bad); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("got err %v, want ErrInvalidCredentials", err)
		}
	}

	if _, err := engine.CustomerLogin(ctx, CustomerLoginRequest{
		AccountNumber: testAcctNumber,
		Password:      testPassword,
	}); err != nil {
		t.Fatalf("CustomerLogin failed: %v", err)
	}

	stored, err := engine.store.Get(ctx, result.AccountID)
	if err != nil {
		t.Fatalf("store.Get failed: %v", err)
	}
	if stored.LoginAttempts != 0 {
		t.Fatalf("LoginAttempts = %d after success, want 0", stored.LoginAttempts)
	}
}

func TestEmployeeLogin(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.SeedAdmin(ctx); err != nil {
		t.Fatalf("SeedAdmin failed: %v", err)
	}

	login, err := engine.EmployeeLogin(ctx, EmployeeLoginRequest{
		Email:         " Admin@BankBridge.example ",
		AccountNumber: "1011 1026 3726 37",
		Password:      "Adm1n&Secret?",
	})
	if err != nil {
		t.Fatalf("EmployeeLogin failed: %v", err)
	}
	if login.Role != "admin" {
		t.Fatalf("Role = %q, want admin", login.Role)
	}
	if login.Name != "Admin" {
		t.Fatalf("Name = %q, want Admin", login.Name)
	}
	if login.Token == "" {
		t.Fatal("empty token")
	}
}

func TestEmployeeLoginRejections(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.SeedAdmin(ctx); err != nil {
		t.Fatalf("SeedAdmin failed: %v", err)
	}

	cases := []EmployeeLoginRequest{
		{Email: "other@bankbridge.example", AccountNumber: "10111026372637", Password: "Adm1n&Secret?"},
		{Email: "admin@bankbridge.example", AccountNumber: "9999999999", Password: "Adm1n&Secret?"},
		{Email: "admin@bankbridge.example", AccountNumber: "10111026372637", Password: "Wr0ng&Secret?"},
	}
	for _, req := range cases {
		if _, err := engine.EmployeeLogin(ctx, req); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%+v: got err %v, want ErrInvalidCredentials", req, err)
		}
	}
}

func TestSeedAdminIdempotent(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	first, err := engine.SeedAdmin(ctx)
	if err != nil {
		t.Fatalf("SeedAdmin failed: %v", err)
	}
	second, err := engine.SeedAdmin(ctx)
	if err != nil {
		t.Fatalf("repeat SeedAdmin failed: %v", err)
	}
	if first != second {
		t.Fatalf("repeat seeding created a new admin: %q vs %q", first, second)
	}

	admins, err := engine.store.List(ctx, "admin")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(admins) != 1 {
		t.Fatalf("admin count = %d, want 1", len(admins))
	}
}
