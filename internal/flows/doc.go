// Package flows contains pure-function orchestrators for every Engine operation.
//
// Each flow function (RunRegister, RunCustomerLogin, RunForgotPassword, etc.)
// accepts a typed dependency struct and returns results without side-effects
// beyond those dependencies.
//
// # Architecture boundaries
//
// Flow functions coordinate calls to the account directory, field cipher,
// password hasher, lockout tracker, token issuer, and audit dispatcher. They
// do NOT own any of these resources; ownership stays with the Engine.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import bankauth (to avoid import cycles).
//   - Decide error-to-status mappings for any transport; hosts do that.
package flows
