package keyring

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestKeyringRoundTrip(t *testing.T) {
	keyring.MockInit()

	vaultID := "2b1f6c1e-0d6e-4c1e-9a57-3f1f1c0e9a11"

	if HasPassword(vaultID) {
		t.Fatal("Fresh keyring should not have a password")
	}
	if _, err := GetPassword(vaultID); !IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}

	if err := SavePassword(vaultID, "master"); err != nil {
		t.Fatalf("SavePassword failed: %v", err)
	}
	if !HasPassword(vaultID) {
		t.Error("Password should be stored")
	}
	got, err := GetPassword(vaultID)
	if err != nil {
		t.Fatalf("GetPassword failed: %v", err)
	}
	if got != "master" {
		t.Errorf("GetPassword = %q, want %q", got, "master")
	}

	// Other vaults are unaffected
	if HasPassword("other") {
		t.Error("Password should be keyed by vault id")
	}

	if err := DeletePassword(vaultID); err != nil {
		t.Fatalf("DeletePassword failed: %v", err)
	}
	if err := DeletePassword(vaultID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestKeyringEmptyVaultID(t *testing.T) {
	keyring.MockInit()

	if err := SavePassword("", "master"); !errors.Is(err, ErrNoVaultID) {
		t.Fatalf("Expected ErrNoVaultID from save, got %v", err)
	}
	if _, err := GetPassword(""); !errors.Is(err, ErrNoVaultID) {
		t.Errorf("Expected ErrNoVaultID from get, got %v", err)
	}
	if err := DeletePassword(""); !IsNotFound(err) {
		t.Errorf("Empty vault id should count as not found, got %v", err)
	}
	if HasPassword("") {
		t.Error("Empty vault id should never have a password")
	}

	// Nothing was written under an empty account
	if _, err := keyring.Get(serviceName, ""); !errors.Is(err, keyring.ErrNotFound) {
		t.Errorf("Expected no entry for empty account, got %v", err)
	}
}
