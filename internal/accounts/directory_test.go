package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bankbridge/bankauth/fieldcipher"
)

func testDirectory(t *testing.T) (*Directory, *MemoryStore, *fieldcipher.Cipher) {
	t.Helper()
	cipher, err := fieldcipher.New("directory-test-secret")
	require.NoError(t, err)
	store := NewMemoryStore()
	return NewDirectory(store, cipher, nil), store, cipher
}

func seedCustomer(t *testing.T, store Store, cipher *fieldcipher.Cipher, name, idNumber, acctNumber, email string) *Account {
	t.Helper()
	encrypt := func(v string) string {
		out, err := cipher.Encrypt(v)
		require.NoError(t, err)
		return out
	}
	a := &Account{
		Role:          RoleCustomer,
		Name:          name,
		IDNumber:      encrypt(idNumber),
		AccountNumber: encrypt(acctNumber),
		Email:         encrypt(email),
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, store.Insert(context.Background(), a))
	return a
}

func TestDirectoryFindByAccountNumber(t *testing.T) {
	dir, store, cipher := testDirectory(t)
	ctx := context.Background()

	seedCustomer(t, store, cipher, "Thabo Mokoena", "8001015009087", "1234567890", "thabo@example.com")
	seedCustomer(t, store, cipher, "Lerato Dlamini", "9202026009088", "9876543210", "lerato@example.com")

	dec, err := dir.FindByAccountNumber(ctx, "9876543210")
	require.NoError(t, err)
	require.Equal(t, "Lerato Dlamini", dec.Name)
	require.Equal(t, "9876543210", dec.AccountNumber)
	require.Equal(t, "lerato@example.com", dec.Email)

	_, err = dir.FindByAccountNumber(ctx, "0000000000")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDirectoryFindByIDNumberAndEmail(t *testing.T) {
	dir, store, cipher := testDirectory(t)
	ctx := context.Background()

	seedCustomer(t, store, cipher, "Thabo Mokoena", "8001015009087", "1234567890", "thabo@example.com")

	byID, err := dir.FindByIDNumber(ctx, "8001015009087")
	require.NoError(t, err)
	require.Equal(t, "Thabo Mokoena", byID.Name)

	byEmail, err := dir.FindByEmail(ctx, "thabo@example.com")
	require.NoError(t, err)
	require.Equal(t, byID.Account.ID, byEmail.Account.ID)
}

func TestDirectoryRoleBlindLookups(t *testing.T) {
	dir, store, cipher := testDirectory(t)
	ctx := context.Background()

	seedCustomer(t, store, cipher, "Thabo Mokoena", "8001015009087", "1234567890", "thabo@example.com")

	encrypt := func(v string) string {
		out, err := cipher.Encrypt(v)
		require.NoError(t, err)
		return out
	}
	require.NoError(t, store.Insert(ctx, &Account{
		Role:          RoleAdmin,
		AccountNumber: encrypt("10111026372637"),
		Email:         encrypt("admin@bankbridge.example"),
		CreatedAt:     time.Now().UTC(),
	}))

	// Email and role-blind account-number lookups see the admin too.
	byEmail, err := dir.FindByEmail(ctx, "admin@bankbridge.example")
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, byEmail.Account.Role)

	byAcct, err := dir.FindAnyByAccountNumber(ctx, "10111026372637")
	require.NoError(t, err)
	require.Equal(t, byEmail.Account.ID, byAcct.Account.ID)

	// The customer-scoped lookup stays blind to the admin.
	_, err = dir.FindByAccountNumber(ctx, "10111026372637")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDirectorySkipsCorruptRecords(t *testing.T) {
	dir, store, cipher := testDirectory(t)
	ctx := context.Background()

	corrupt := &Account{
		Role:          RoleCustomer,
		Name:          "Corrupt",
		AccountNumber: "deadbeef:deadbeef:deadbeef",
		CreatedAt:     time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, store.Insert(ctx, corrupt))
	seedCustomer(t, store, cipher, "Thabo Mokoena", "8001015009087", "1234567890", "thabo@example.com")

	dec, err := dir.FindByAccountNumber(ctx, "1234567890")
	require.NoError(t, err)
	require.Equal(t, "Thabo Mokoena", dec.Name)
}

func TestDirectoryFindAdmin(t *testing.T) {
	dir, store, cipher := testDirectory(t)
	ctx := context.Background()

	_, err := dir.FindAdmin(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	encryptedAcct, err := cipher.Encrypt("10111026372637")
	require.NoError(t, err)
	encryptedEmail, err := cipher.Encrypt("admin@bankbridge.example")
	require.NoError(t, err)
	require.NoError(t, store.Insert(ctx, &Account{
		Role:          RoleAdmin,
		AccountNumber: encryptedAcct,
		Email:         encryptedEmail,
		CreatedAt:     time.Now().UTC(),
	}))

	admin, err := dir.FindAdmin(ctx)
	require.NoError(t, err)
	require.Equal(t, "Admin", admin.Name)
	require.Equal(t, "10111026372637", admin.AccountNumber)
	require.Equal(t, "admin@bankbridge.example", admin.Email)
}

func TestDirectoryExistsAny(t *testing.T) {
	dir, store, cipher := testDirectory(t)
	ctx := context.Background()

	seedCustomer(t, store, cipher, "Thabo Mokoena", "8001015009087", "1234567890", "thabo@example.com")

	for _, tc := range []struct {
		idNumber, acctNumber, email string
		want                        bool
	}{
		{"8001015009087", "0000000000", "other@example.com", true},
		{"0000000000000", "1234567890", "other@example.com", true},
		{"0000000000000", "0000000000", "thabo@example.com", true},
		{"0000000000000", "0000000000", "other@example.com", false},
	} {
		got, err := dir.ExistsAny(ctx, tc.idNumber, tc.acctNumber, tc.email)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}
