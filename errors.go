package bankauth

import "errors"

var (
	// ErrInvalidInput reports a request payload that fails shape validation
	// before any storage or cryptography is touched.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrPasswordPolicy reports a password that fails the complexity policy.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrPasswordMismatch reports a confirmation field that does not match.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrInvalidCredentials is returned for both unknown identifiers and
	// wrong passwords so the two cases cannot be distinguished by a caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked reports an account in its lockout window. Unlike
	// ErrInvalidCredentials it is reported distinctly: the lock state is not
	// secret-dependent.
	ErrAccountLocked = errors.New("account temporarily locked")
	// ErrAccountNotFound reports a missing account on flows where existence
	// is not an enumeration concern (recovery with full identity proof).
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateAccount reports an identifying field that already belongs
	// to another account.
	ErrDuplicateAccount = errors.New("account with this email, account number, or ID number already exists")
	// ErrPasswordReuse reports a reset attempt with the current password.
	ErrPasswordReuse = errors.New("new password must be different from current password")
	// ErrMFANotConfigured reports a verification attempt against an account
	// that has no TOTP secret.
	ErrMFANotConfigured = errors.New("mfa not configured")
	// ErrMFAInvalidCode reports an invalid or expired one-time code.
	ErrMFAInvalidCode = errors.New("invalid otp code")
	// ErrMFACodeRequired reports a gated operation missing its one-time code.
	ErrMFACodeRequired = errors.New("otp code required")
	// ErrTokenInvalid reports a bearer token with a bad signature or shape.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired reports a bearer token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrDecrypt reports a ciphertext envelope that failed authentication or
	// has an unrecognized shape.
	ErrDecrypt = errors.New("field decryption failed")
	// ErrTransferNotFound reports an unknown transfer id.
	ErrTransferNotFound = errors.New("transfer not found")
	// ErrTransferInvalid reports a transfer payload failing validation.
	ErrTransferInvalid = errors.New("invalid transfer request")
	// ErrStoreUnavailable reports an unreachable storage backend. It is
	// deliberately distinct from the domain taxonomy above.
	ErrStoreUnavailable = errors.New("account store unavailable")
	// ErrEngineNotReady reports use of an Engine that was not built.
	ErrEngineNotReady = errors.New("engine not initialized")
)
