package bankauth

import (
	"context"

	"github.com/bankbridge/bankauth/internal/flows"
)

// SubmitLocalTransfer records a domestic transfer instruction. Accounts with
// an MFA secret must supply a valid TOTP code.
func (e *Engine) SubmitLocalTransfer(ctx context.Context, req LocalTransferRequest) (*TransferReceipt, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	result, err := flows.RunLocalTransfer(ctx, flows.LocalTransferInput{
		AccountID:     req.AccountID,
		RecipientName: req.RecipientName,
		Bank:          req.Bank,
		Amount:        req.Amount,
		Code:          req.Code,
		Date:          req.Date,
	}, e.transferDeps())
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return transferReceipt(result), nil
}

// SubmitInternationalTransfer records a cross-border transfer instruction.
// The recipient account, bank and SWIFT code are encrypted at rest.
func (e *Engine) SubmitInternationalTransfer(ctx context.Context, req InternationalTransferRequest) (*TransferReceipt, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	result, err := flows.RunInternationalTransfer(ctx, flows.InternationalTransferInput{
		AccountID:        req.AccountID,
		RecipientName:    req.RecipientName,
		RecipientAccount: req.RecipientAccount,
		SwiftCode:        req.SwiftCode,
		Bank:             req.Bank,
		Amount:           req.Amount,
		Immediate:        req.Immediate,
		Code:             req.Code,
	}, e.transferDeps())
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return transferReceipt(result), nil
}

// ListTransfers returns the account's own transfer history, decrypted,
// newest first.
func (e *Engine) ListTransfers(ctx context.Context, accountID string) ([]TransferView, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	list, err := flows.RunListTransfers(ctx, accountID, e.transferDeps())
	if err != nil {
		return nil, mapStoreErr(err)
	}

	out := make([]TransferView, 0, len(list))
	for _, v := range list {
		out = append(out, transferView(v))
	}
	return out, nil
}

// PendingTransfers returns the employee review queue with sender identities
// resolved.
func (e *Engine) PendingTransfers(ctx context.Context) ([]PendingTransfer, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	list, err := flows.RunPendingTransfers(ctx, e.transferDeps())
	if err != nil {
		return nil, mapStoreErr(err)
	}

	out := make([]PendingTransfer, 0, len(list))
	for _, p := range list {
		out = append(out, PendingTransfer{
			TransferView:        transferView(p.TransferView),
			SenderName:          p.SenderName,
			SenderAccountNumber: p.SenderAccountNumber,
		})
	}
	return out, nil
}

// ApproveTransfer completes a pending transfer.
func (e *Engine) ApproveTransfer(ctx context.Context, transferID string) (*TransferReceipt, error) {
	return e.decideTransfer(ctx, transferID, true, "")
}

// DenyTransfer fails a pending transfer, recording the reviewer's note.
func (e *Engine) DenyTransfer(ctx context.Context, transferID, note string) (*TransferReceipt, error) {
	return e.decideTransfer(ctx, transferID, false, note)
}

func (e *Engine) decideTransfer(ctx context.Context, transferID string, approve bool, note string) (*TransferReceipt, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	result, err := flows.RunDecideTransfer(ctx, flows.DecideTransferInput{
		TransferID: transferID,
		Approve:    approve,
		Note:       note,
	}, e.transferDeps())
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return transferReceipt(result), nil
}

func transferReceipt(r *flows.TransferReceipt) *TransferReceipt {
	return &TransferReceipt{
		TransferID:    r.TransferID,
		Type:          TransferType(r.Type),
		RecipientName: r.RecipientName,
		Amount:        r.Amount,
		Status:        TransferStatus(r.Status),
		TransferDate:  r.TransferDate,
	}
}

func transferView(v flows.TransferView) TransferView {
	return TransferView{
		TransferID:       v.TransferID,
		Type:             TransferType(v.Type),
		RecipientName:    v.RecipientName,
		RecipientAccount: v.RecipientAccount,
		Bank:             v.Bank,
		SwiftCode:        v.SwiftCode,
		Amount:           v.Amount,
		Status:           TransferStatus(v.Status),
		Note:             v.Note,
		TransferDate:     v.TransferDate,
		CreatedAt:        v.CreatedAt,
	}
}
