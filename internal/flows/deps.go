package flows

import (
	"context"
	"time"
)

// Errors carries host-level sentinel errors so flow functions can return the
// host's taxonomy without importing the host package.
type Errors struct {
	EngineNotReady     error
	InvalidInput       error
	PasswordPolicy     error
	PasswordMismatch   error
	InvalidCredentials error
	AccountLocked      error
	AccountNotFound    error
	DuplicateAccount   error
	PasswordReuse      error
	MFANotConfigured   error
	MFAInvalidCode     error
	MFACodeRequired    error
	TransferNotFound   error
	TransferInvalid    error
}

// AuditFunc emits one audit event. Field maps are built lazily so disabled
// audit costs no allocations.
type AuditFunc func(ctx context.Context, event string, success bool, accountID string, err error, fields func() map[string]string)

// Event names shared by the flows. Hosts see these verbatim in audit output.
const (
	EventRegister         = "account.register"
	EventCustomerLogin    = "login.customer"
	EventEmployeeLogin    = "login.employee"
	EventAccountLockout   = "login.lockout"
	EventPasswordReset    = "recovery.password_reset"
	EventUsernameRecovery = "recovery.username_lookup"
	EventMFASetup         = "mfa.setup"
	EventMFAVerify        = "mfa.verify"
	EventTransferSubmit   = "transfer.submit"
	EventTransferDecision = "transfer.decision"
)

func normalizeNow(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}

func normalizeAudit(audit AuditFunc) AuditFunc {
	if audit == nil {
		return func(context.Context, string, bool, string, error, func() map[string]string) {}
	}
	return audit
}
