// Package jwt issues and verifies the stateless bearer tokens that carry a
// BankBridge identity: the account id and the decrypted account-number claim.
//
// Tokens are HS256-signed with a shared secret and expire one hour after
// issuance. There is no server-side revocation list; logout is a client-side
// discard and re-authentication is the only way to invalidate access early.
//
// Verification fails closed: any signature mismatch, malformed structure, or
// expired token results in rejection, never a default-allow.
package jwt
