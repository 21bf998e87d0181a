package bankauth

import (
	"context"
	"errors"
	"testing"
)

const testNewPassword = "N3w&Password?!"

func TestForgotPassword(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	registerCustomer(t, engine)

	err := engine.ForgotPassword(ctx, ForgotPasswordRequest{
		AccountNumber:   testAcctNumber,
		IDNumber:        testIDNumber,
		Password:        testNewPassword,
		ConfirmPassword: testNewPassword,
	})
	if err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}

	// Old password is dead, new one works.
	if _, err := engine.CustomerLogin(ctx, CustomerLoginRequest{
		AccountNumber: testAcctNumber,
		Password:      testPassword,
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password: got err %v, want ErrInvalidCredentials", err)
	}
	if _, err := engine.CustomerLogin(ctx, CustomerLoginRequest{
		AccountNumber: testAcctNumber,
		Password:      testNewPassword,
	}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestForgotPasswordFormattedIdentifiers(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	registerCustomer(t, engine)

	err := engine.ForgotPassword(ctx, ForgotPasswordRequest{
		AccountNumber:   " 1234-5678-90 ",
		IDNumber:        "800101 500 9087",
		Password:        testNewPassword,
		ConfirmPassword: testNewPassword,
	})
	if err != nil {
		t.Fatalf("ForgotPassword with formatted identifiers failed: %v", err)
	}

	if _, err := engine.CustomerLogin(ctx, CustomerLoginRequest{
		AccountNumber: testAcctNumber,
		Password:      testNewPassword,
	}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestForgotPasswordClearsLockout(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	registerCustomer(t, engine)

	bad := CustomerLoginRequest{AccountNumber: testAcctNumber, Password: "Wr0ng&Pass?"}
	for i := 0; i < 5; i++ {
		if _, err := engine.CustomerLogin(ctx, bad); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("got err %v, want ErrInvalidCredentials", err)
		}
	}

	err := engine.ForgotPassword(ctx, ForgotPasswordRequest{
		AccountNumber:   testAcctNumber,
		IDNumber:        testIDNumber,
		Password:        testNewPassword,
		ConfirmPassword: testNewPassword,
	})
	if err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}

	// An identity-verified reset unlocks immediately, no waiting.
	if _, err := engine.CustomerLogin(ctx, CustomerLoginRequest{
		AccountNumber: testAcctNumber,
		Password:      testNewPassword,
	}); err != nil {
		t.Fatalf("login after reset failed: %v", err)
	}
}

func TestForgotPasswordIdentifierMismatch(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	registerCustomer(t, engine)
	registerCustomerWith(t, engine, "Lerato Dlamini", "9202026009088", "9876543210", "lerato@example.com")

	// Account number of one customer, ID number of another.
	err := engine.ForgotPassword(ctx, ForgotPasswordRequest{
		AccountNumber:   testAcctNumber,
		IDNumber:        "9202026009088",
		Password:        testNewPassword,
		ConfirmPassword: testNewPassword,
	})
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("crossed identifiers: got err %v, want ErrAccountNotFound", err)
	}

	err = engine.ForgotPassword(ctx, ForgotPasswordRequest{
		AccountNumber:   "5555555555",
		IDNumber:        testIDNumber,
		Password:        testNewPassword,
		ConfirmPassword: testNewPassword,
	})
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("unknown account: got err %v, want ErrAccountNotFound", err)
	}
}

func TestForgotPasswordReuse(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	registerCustomer(t, engine)

	err := engine.ForgotPassword(ctx, ForgotPasswordRequest{
		AccountNumber:   testAcctNumber,
		IDNumber:        testIDNumber,
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	if !errors.Is(err, ErrPasswordReuse) {
		t.Fatalf("reused password: got err %v, want ErrPasswordReuse", err)
	}
}

func TestForgotPasswordPolicy(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	registerCustomer(t, engine)

	// Long enough for registration, too short for a reset.
	err := engine.ForgotPassword(ctx, ForgotPasswordRequest{
		AccountNumber:   testAcctNumber,
		IDNumber:        testIDNumber,
		Password:        "Sh0rt&Pass?",
		ConfirmPassword: "Sh0rt&Pass?",
	})
	if !errors.Is(err, ErrPasswordPolicy) {
		t.Fatalf("short reset password: got err %v, want ErrPasswordPolicy", err)
	}
}

func TestForgotUsername(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	registerCustomer(t, engine)

	result, err := engine.ForgotUsername(ctx, " Thabo@Example.COM ")
	if err != nil {
		t.Fatalf("ForgotUsername failed: %v", err)
	}
	if result.Name != testName {
		t.Fatalf("Name = %q, want %q", result.Name, testName)
	}
	if result.MaskedAccountNumber != "12******" {
		t.Fatalf("MaskedAccountNumber = %q, want 12******", result.MaskedAccountNumber)
	}

	if _, err := engine.ForgotUsername(ctx, "unknown@example.com"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("unknown email: got err %v, want ErrAccountNotFound", err)
	}
}

func TestForgotUsernameAdmin(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.SeedAdmin(ctx); err != nil {
		t.Fatalf("SeedAdmin failed: %v", err)
	}

	result, err := engine.ForgotUsername(ctx, "admin@bankbridge.example")
	if err != nil {
		t.Fatalf("ForgotUsername for admin failed: %v", err)
	}
	if result.Name != "Admin" {
		t.Fatalf("Name = %q, want Admin", result.Name)
	}
	if result.MaskedAccountNumber != "10******" {
		t.Fatalf("MaskedAccountNumber = %q, want 10******", result.MaskedAccountNumber)
	}
}
