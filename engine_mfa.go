package bankauth

import (
	"context"

	"github.com/bankbridge/bankauth/internal/flows"
)

// MFASetup returns the account's TOTP enrollment material, generating and
// persisting a secret on first call. Repeat calls before verification return
// the same secret; once enrollment completes the provisioning URI is
// withheld.
func (e *Engine) MFASetup(ctx context.Context, accountNumber string) (*MFASetupResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	result, err := flows.RunMFASetup(ctx, flows.MFASetupInput{AccountNumber: accountNumber}, e.mfaDeps())
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return &MFASetupResult{
		AlreadyEnabled: result.AlreadyEnabled,
		Secret:         result.Secret,
		ProvisionURI:   result.ProvisionURI,
	}, nil
}

// MFAVerify checks an enrollment code against the account's stored secret.
// The first valid code marks the account as MFA-enabled.
func (e *Engine) MFAVerify(ctx context.Context, accountNumber, code string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	err := flows.RunMFAVerify(ctx, flows.MFAVerifyInput{
		AccountNumber: accountNumber,
		Code:          code,
	}, e.mfaDeps())
	return mapStoreErr(err)
}
