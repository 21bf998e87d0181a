package flows

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/bankbridge/bankauth/internal/accounts"
	"github.com/bankbridge/bankauth/internal/transfers"
)

// LocalTransferInput submits a domestic transfer. The recipient account is
// synthesized server-side; callers name only the recipient and the bank.
type LocalTransferInput struct {
	AccountID     string `validate:"required"`
	RecipientName string `validate:"required,person_name"`
	Bank          string `validate:"required,local_bank"`
	Amount        float64
	Code          string
	Date          time.Time
}

// InternationalTransferInput submits a cross-border transfer.
type InternationalTransferInput struct {
	AccountID        string `validate:"required"`
	RecipientName    string `validate:"required,person_name"`
	RecipientAccount string `validate:"required,acct_number"`
	SwiftCode        string `validate:"required,swift"`
	Bank             string
	Amount           float64
	Immediate        bool
	Code             string
}

// TransferReceipt is the submission confirmation.
type TransferReceipt struct {
	TransferID    string
	Type          transfers.Type
	RecipientName string
	Amount        float64
	Status        transfers.Status
	TransferDate  time.Time
}

// TransferView is a decrypted transfer for display.
type TransferView struct {
	TransferID       string
	Type             transfers.Type
	RecipientName    string
	RecipientAccount string
	Bank             string
	SwiftCode        string
	Amount           float64
	Status           transfers.Status
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

// DecideTransferInput is an employee verdict on a pending transfer.
type DecideTransferInput struct {
	TransferID string `validate:"required"`
	Approve    bool
	Note       string
}

// TransferDeps captures transfer submission and review dependencies.
type TransferDeps struct {
	Accounts  accounts.Store
	Directory *accounts.Directory
	Transfers transfers.Store

	EncryptField func(string) (string, error)
	DecryptField func(string) (string, error)

	// MFA gates submission for enrolled accounts.
	MFA MFADeps

	Now    func() time.Time
	Audit  AuditFunc
	Errors Errors
}

func (deps TransferDeps) ready() bool {
	return deps.Accounts != nil && deps.Directory != nil && deps.Transfers != nil &&
		deps.EncryptField != nil && deps.DecryptField != nil
}

// RunLocalTransfer validates and records a domestic transfer instruction.
func RunLocalTransfer(ctx context.Context, in LocalTransferInput, deps TransferDeps) (*TransferReceipt, error) {
	deps.Now = normalizeNow(deps.Now)
	deps.Audit = normalizeAudit(deps.Audit)
	if !deps.ready() {
		return nil, deps.Errors.EngineNotReady
	}

	if err := checkInput(in); err != nil {
		return nil, deps.Errors.InvalidInput
	}
	if in.Amount <= 0 {
		return nil, deps.Errors.TransferInvalid
	}

	account, err := deps.Accounts.Get(ctx, in.AccountID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return nil, deps.Errors.AccountNotFound
		}
		return nil, err
	}

	if err := requireTransferCode(ctx, account, in.Code, deps.MFA); err != nil {
		return nil, err
	}

	now := deps.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}

	// Domestic transfers carry a synthetic recipient reference instead of an
	// account number.
	reference := fmt.Sprintf("LOCAL-%d-%d", now.UnixMilli(), rand.Intn(1000))
	encReference, err := deps.EncryptField(reference)
	if err != nil {
		return nil, err
	}
	encBank, err := deps.EncryptField(in.Bank)
	if err != nil {
		return nil, err
	}

	transfer := &transfers.Transfer{
		AccountID:        account.ID,
		Type:             transfers.TypeLocal,
		RecipientName:    in.RecipientName,
		RecipientAccount: encReference,
		Bank:             encBank,
		SwiftCode:        "LOCAL",
		Amount:           in.Amount,
		Status:           transfers.StatusPending,
		TransferDate:     date,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := deps.Transfers.Insert(ctx, transfer); err != nil {
		return nil, err
	}

	deps.Audit(ctx, EventTransferSubmit, true, account.ID, nil, func() map[string]string {
		return map[string]string{"transfer_id": transfer.ID, "type": string(transfers.TypeLocal)}
	})

	return receipt(transfer), nil
}

// RunInternationalTransfer validates and records a cross-border transfer
// instruction. Recipient account, bank and SWIFT code are stored encrypted.
func RunInternationalTransfer(ctx context.Context, in InternationalTransferInput, deps TransferDeps) (*TransferReceipt, error) {
	deps.Now = normalizeNow(deps.Now)
	deps.Audit = normalizeAudit(deps.Audit)
	if !deps.ready() {
		return nil, deps.Errors.EngineNotReady
	}

	if err := checkInput(in); err != nil {
		return nil, deps.Errors.InvalidInput
	}
	if in.Amount <= 0 {
		return nil, deps.Errors.TransferInvalid
	}

	account, err := deps.Accounts.Get(ctx, in.AccountID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return nil, deps.Errors.AccountNotFound
		}
		return nil, err
	}

	if err := requireTransferCode(ctx, account, in.Code, deps.MFA); err != nil {
		return nil, err
	}

	bank := in.Bank
	if bank == "" {
		bank = "Standard Bank"
	}

	encAccount, err := deps.EncryptField(in.RecipientAccount)
	if err != nil {
		return nil, err
	}
	encBank, err := deps.EncryptField(bank)
	if err != nil {
		return nil, err
	}
	encSwift, err := deps.EncryptField(in.SwiftCode)
	if err != nil {
		return nil, err
	}

	now := deps.Now()
	transfer := &transfers.Transfer{
		AccountID:        account.ID,
		Type:             transfers.TypeInternational,
		RecipientName:    in.RecipientName,
		RecipientAccount: encAccount,
		Bank:             encBank,
		SwiftCode:        encSwift,
		Amount:           in.Amount,
		Immediate:        in.Immediate,
		Status:           transfers.StatusPending,
		TransferDate:     now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := deps.Transfers.Insert(ctx, transfer); err != nil {
		return nil, err
	}

	deps.Audit(ctx, EventTransferSubmit, true, account.ID, nil, func() map[string]string {
		return map[string]string{"transfer_id": transfer.ID, "type": string(transfers.TypeInternational)}
	})

	return receipt(transfer), nil
}

// RunListTransfers returns the account's own transfer history, decrypted,
// newest first.
func RunListTransfers(ctx context.Context, accountID string, deps TransferDeps) ([]TransferView, error) {
	if !deps.ready() {
		return nil, deps.Errors.EngineNotReady
	}
	if accountID == "" {
		return nil, deps.Errors.InvalidInput
	}

	list, err := deps.Transfers.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	out := make([]TransferView, 0, len(list))
	for _, t := range list {
		view, err := deps.view(t)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

// RunPendingTransfers returns the review queue with sender identities
// resolved for the employee screen.
func RunPendingTransfers(ctx context.Context, deps TransferDeps) ([]PendingTransfer, error) {
	if !deps.ready() {
		return nil, deps.Errors.EngineNotReady
	}

	list, err := deps.Transfers.ListByStatus(ctx, transfers.StatusPending)
	if err != nil {
		return nil, err
	}

	out := make([]PendingTransfer, 0, len(list))
	for _, t := range list {
		view, err := deps.view(t)
		if err != nil {
			return nil, err
		}

		pending := PendingTransfer{TransferView: view}
		if account, err := deps.Accounts.Get(ctx, t.AccountID); err == nil {
			if dec, err := deps.Directory.Open(account); err == nil {
				pending.SenderName = dec.Name
				pending.SenderAccountNumber = dec.AccountNumber
			}
		}
		out = append(out, pending)
	}
	return out, nil
}

// RunDecideTransfer applies an employee verdict: approval completes the
// transfer, denial fails it with the reviewer's note. Only pending transfers
// can be decided.
func RunDecideTransfer(ctx context.Context, in DecideTransferInput, deps TransferDeps) (*TransferReceipt, error) {
	deps.Audit = normalizeAudit(deps.Audit)
	if !deps.ready() {
		return nil, deps.Errors.EngineNotReady
	}

	if err := checkInput(in); err != nil {
		return nil, deps.Errors.InvalidInput
	}

	current, err := deps.Transfers.Get(ctx, in.TransferID)
	if err != nil {
		if errors.Is(err, transfers.ErrNotFound) {
			return nil, deps.Errors.TransferNotFound
		}
		return nil, err
	}
	if current.Status != transfers.StatusPending {
		return nil, deps.Errors.TransferInvalid
	}

	status := transfers.StatusCompleted
	note := in.Note
	if !in.Approve {
		status = transfers.StatusFailed
		if note == "" {
			note = "Payment denied by admin"
		}
	}

	updated, err := deps.Transfers.SetStatus(ctx, in.TransferID, status, note)
	if err != nil {
		if errors.Is(err, transfers.ErrNotFound) {
			return nil, deps.Errors.TransferNotFound
		}
		return nil, err
	}

	deps.Audit(ctx, EventTransferDecision, in.Approve, updated.AccountID, nil, func() map[string]string {
		return map[string]string{"transfer_id": updated.ID, "status": string(updated.Status)}
	})

	return receipt(updated), nil
}

func receipt(t *transfers.Transfer) *TransferReceipt {
	return &TransferReceipt{
		TransferID:    t.ID,
		Type:          t.Type,
		RecipientName: t.RecipientName,
		Amount:        t.Amount,
		Status:        t.Status,
		TransferDate:  t.TransferDate,
	}
}

func (deps TransferDeps) view(t *transfers.Transfer) (TransferView, error) {
	recipientAccount, err := deps.DecryptField(t.RecipientAccount)
	if err != nil {
		return TransferView{}, err
	}
	bank, err := deps.DecryptField(t.Bank)
	if err != nil {
		return TransferView{}, err
	}
	swift, err := deps.DecryptField(t.SwiftCode)
	if err != nil {
		return TransferView{}, err
	}
	return TransferView{
		TransferID:       t.ID,
		Type:             t.Type,
		RecipientName:    t.RecipientName,
		RecipientAccount: recipientAccount,
		Bank:             bank,
		SwiftCode:        swift,
		Amount:           t.Amount,
		Status:           t.Status,
		Note:             t.Note,
		TransferDate:     t.TransferDate,
		CreatedAt:        t.CreatedAt,
	}, nil
}
