// Package storage provides the on-disk layout for lockpass.
//
// A store directory contains:
//   - db.dat: the sealed record set, a JSON array of byte values
//   - nonce.dat: the nonce used for the most recent seal, same encoding
//   - salt.dat: the key derivation salt, fixed since store creation
//   - lockpass.db: BBolt database with unencrypted metadata (version,
//     timestamps, vault id) for status and keyring lookups
//
// The decrypted record set is JSON: {"records":[{"name":...,"password":...}]}.
//
// BBolt holds an exclusive file lock while the metadata database is open
// for writing, which serialises concurrent lockpass processes.
package storage
