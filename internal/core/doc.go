// Package core provides the main lockpass store operations.
//
// Every invocation follows the same cycle:
//   - Open: lock the store, create it if missing, derive the key and decrypt
//   - Add/Update/Remove/Show/List: apply exactly one operation in memory
//   - Close: if anything changed, re-seal with a fresh nonce and rewrite
//     ciphertext, nonce and salt; then clear the key and release the lock
//
// Failures are reported as wrapped sentinel errors (ErrAuthFailed,
// ErrDuplicateKey, ErrKeyNotFound, ErrMalformedStore, ErrKeyDerivation,
// ErrIO) so callers can tell them apart with errors.Is. Nothing reaches
// disk unless the in-memory mutation succeeded.
package core
