// Package transfers holds the transfer record entity and its stores.
// Transfers are records of submitted payment instructions, not money
// movement: no balances exist anywhere in this module.
package transfers

import (
	"context"
	"errors"
	"time"
)

// Type distinguishes domestic from cross-border transfers.
type Type string

const (
	TypeLocal         Type = "local"
	TypeInternational Type = "international"
)

// Status is the transfer lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Transfer is one submitted payment instruction. RecipientAccount, Bank and
// SwiftCode hold field-cipher envelopes; RecipientName and Amount stay
// plaintext so employee review screens can render lists without decrypting.
type Transfer struct {
	ID        string `json:"id"`
	AccountID string `json:"accountId"`
	Type      Type   `json:"type"`

	RecipientName    string  `json:"recipientName"`
	RecipientAccount string  `json:"recipientAccount"`
	Bank             string  `json:"bank"`
	SwiftCode        string  `json:"swiftCode"`
	Amount           float64 `json:"amount"`
	Immediate        bool    `json:"immediate"`

	Status Status `json:"status"`
	// Note carries the employee's reason when a transfer is denied.
	Note string `json:"note,omitempty"`

	TransferDate time.Time `json:"transferDate"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (t *Transfer) Clone() *Transfer {
	if t == nil {
		return nil
	}
	out := *t
	return &out
}

var (
	// ErrNotFound reports a missing transfer id.
	ErrNotFound = errors.New("transfers: transfer not found")
	// ErrUnavailable reports an unreachable storage backend.
	ErrUnavailable = errors.New("transfers: store unavailable")
)

// Store is the persistence boundary for transfer records.
type Store interface {
	Insert(ctx context.Context, t *Transfer) error

	Get(ctx context.Context, id string) (*Transfer, error)

	// ListByAccount returns the account's transfers, newest first.
	ListByAccount(ctx context.Context, accountID string) ([]*Transfer, error)

	// ListByStatus returns transfers in the given state, newest first.
	ListByStatus(ctx context.Context, status Status) ([]*Transfer, error)

	// SetStatus moves a transfer to the given state, recording the note
	// (may be empty) alongside it.
	SetStatus(ctx context.Context, id string, status Status, note string) (*Transfer, error)
}
