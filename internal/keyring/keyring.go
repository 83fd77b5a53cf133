// Package keyring remembers master passwords in the OS credential store.
//
// Entries live under the "lockpass" service. The account is the store's
// vault id, a UUID kept in lockpass.db, never the store path. Moving or
// renaming a store directory keeps its keyring entry; a copy that gets a
// fresh lockpass.db gets a fresh vault id and so never picks up another
// store's password. A stale entry (password changed elsewhere) is detected
// by the caller when decryption fails.
package keyring

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const serviceName = "lockpass"

var (
	// ErrNotFound is returned when no password is stored for a vault
	ErrNotFound = keyring.ErrNotFound
	// ErrNoVaultID is returned for an empty vault id. Metadata that was never
	// written has no id, and sharing an empty account would mix stores up.
	ErrNoVaultID = errors.New("store has no vault id")
)

// SavePassword stores password as the entry for vaultID, replacing any
// previous one.
func SavePassword(vaultID string, password string) error {
	if vaultID == "" {
		return ErrNoVaultID
	}
	return keyring.Set(serviceName, vaultID, password)
}

// GetPassword returns the entry for vaultID or ErrNotFound.
func GetPassword(vaultID string) (string, error) {
	if vaultID == "" {
		return "", ErrNoVaultID
	}
	return keyring.Get(serviceName, vaultID)
}

// DeletePassword drops the entry for vaultID. Deleting an absent entry
// returns ErrNotFound.
func DeletePassword(vaultID string) error {
	if vaultID == "" {
		return ErrNoVaultID
	}
	return keyring.Delete(serviceName, vaultID)
}

// HasPassword reports whether vaultID has an entry. Keyring errors count as no.
func HasPassword(vaultID string) bool {
	_, err := GetPassword(vaultID)
	return err == nil
}

// IsNotFound reports whether err means there is nothing to use for the vault
func IsNotFound(err error) bool {
	return errors.Is(err, keyring.ErrNotFound) || errors.Is(err, ErrNoVaultID)
}
