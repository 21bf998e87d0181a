package bankauth

import (
	"time"
)

// TransferType distinguishes domestic from cross-border transfers.
type TransferType string

const (
	TransferLocal         TransferType = "local"
	TransferInternational TransferType = "international"
)

// TransferStatus is the transfer lifecycle state.
type TransferStatus string

const (
	TransferPending    TransferStatus = "pending"
	TransferProcessing TransferStatus = "processing"
	TransferCompleted  TransferStatus = "completed"
	TransferFailed     TransferStatus = "failed"
)

// RegisterRequest opens a new customer account.
type RegisterRequest struct {
	Name            string
	IDNumber        string
	AccountNumber   string
	Email           string
	Password        string
	ConfirmPassword string
}

// RegisterResult confirms a registration with display-safe fields only.
type RegisterResult struct {
	AccountID     string
	Name          string
	AccountNumber string
}

// CustomerLoginRequest authenticates a customer by account number.
type CustomerLoginRequest struct {
	AccountNumber string
	Password      string
}

// EmployeeLoginRequest authenticates the admin by email and account number.
type EmployeeLoginRequest struct {
	Email         string
	AccountNumber string
	Password      string
}

// LoginResult is the successful authentication payload.
type LoginResult struct {
	Token         string
	AccountID     string
	Name          string
	AccountNumber string
	Email         string
	Role          string
}

// ForgotPasswordRequest resets a password against two proofs of identity.
type ForgotPasswordRequest struct {
	AccountNumber   string
	IDNumber        string
	Password        string
	ConfirmPassword string
}

// ForgotUsernameResult carries masked recovery data.
type ForgotUsernameResult struct {
	Name                string
	MaskedAccountNumber string
}

// MFASetupResult carries TOTP enrollment material. ProvisionURI is empty
// once MFA is enabled.
type MFASetupResult struct {
	AlreadyEnabled bool
	Secret         string
	ProvisionURI   string
}

// LocalTransferRequest submits a domestic transfer.
type LocalTransferRequest struct {
	AccountID     string
	RecipientName string
	Bank          string
	Amount        float64
	// Code is the TOTP code, required once the account has an MFA secret.
	Code string
	// Date is the requested transfer date; zero means now.
	Date time.Time
}

// InternationalTransferRequest submits a cross-border transfer.
type InternationalTransferRequest struct {
	AccountID        string
	RecipientName    string
	RecipientAccount string
	SwiftCode        string
	// Bank defaults to "Standard Bank" when empty.
	Bank      string
	Amount    float64
	Immediate bool
	Code      string
}

// TransferReceipt is the submission or decision confirmation.
type TransferReceipt struct {
	TransferID    string
	Type          TransferType
	RecipientName string
	Amount        float64
	Status        TransferStatus
	TransferDate  time.Time
}

// TransferView is a decrypted transfer for display.
type TransferView struct {
	TransferID       string
	Type             TransferType
	RecipientName    string
	RecipientAccount string
	Bank             string
	SwiftCode        string
	Amount           float64
	Status           TransferStatus
	Note             string
	TransferDate     time.Time
	CreatedAt        time.Time
}

// PendingTransfer pairs a transfer awaiting review with its sender.
type PendingTransfer struct {
	TransferView
	SenderName          string
	SenderAccountNumber string
}

// TokenClaims is the verified content of an access token.
type TokenClaims struct {
	AccountID     string
	AccountNumber string
	ExpiresAt     time.Time
}
