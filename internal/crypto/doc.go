// Package crypto provides cryptographic operations for lockpass.
//
// Encryption uses NaCl secretbox (XSalsa20-Poly1305) with:
//   - 32-byte key derived from password via Argon2id
//   - 24-byte random nonce per encryption operation, stored next to the ciphertext
//   - Poly1305 tag prepended to the ciphertext
//
// Key derivation uses Argon2id with the libsodium "interactive" limits:
//   - 16-byte random salt (stored unencrypted)
//   - 2 passes, 64 MiB memory, single lane
//
// These match crypto_pwhash/crypto_secretbox, so stores produced by
// libsodium-based tools with the same layout decrypt unchanged.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call Sealer.Destroy() when done with encryption operations
package crypto
