// Package password implements credential hashing and verification with
// bcrypt.
//
// # Output format
//
// Digests use bcrypt's modular crypt format; the salt and cost factor are
// embedded in the digest, so no separate salt storage is needed:
//
//	$2a$<cost>$<salt+hash>
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (length,
// complexity, reuse) is enforced by the Engine.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords; callers supply plaintext and receive
//     digests.
//   - Re-hash a value that is already a digest; the caller decides when a
//     password changed.
//   - Log plaintext passwords.
package password
