// Package bankauth implements the BankBridge authentication and field-level
// encryption core: credential hashing, AES-GCM encryption of identifying
// fields at rest, login with time-based account lockout, TOTP multi-factor
// enrollment, stateless JWT issuance, and the transfer submission/approval
// workflows that sit on top of them.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// bankauth is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (LoginResult, MFASetupResult, TransferReceipt, etc.). Flow
// orchestration, the account directory, and the document stores live under
// internal/ and are never exported. HTTP routing, CSRF/rate-limit middleware,
// and TLS termination are the caller's concern; the engine consumes plain
// request payloads and returns plain data or sentinel errors.
//
// # What this package must NOT do
//
//   - Return password hashes, raw ciphertext, or MFA secrets outside the
//     explicit provisioning response.
//   - Assume indexed equality on encrypted fields: identifying-field lookups
//     are decrypt-and-compare scans.
//   - Hold locks across store round-trips.
package bankauth
