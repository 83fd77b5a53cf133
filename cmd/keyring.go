package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/illarion/lockpass/internal/core"
	"github.com/illarion/lockpass/internal/crypto"
	"github.com/illarion/lockpass/internal/keyring"
)

// KeyringSave saves the master password to the OS keyring
func KeyringSave(ctx context.Context) {
	if err := keyringSave(ctx); err != nil {
		HandleError(err)
	}
}

func keyringSave(ctx context.Context) error {
	lockpass, err := openStore()
	if err != nil {
		return err
	}
	defer lockpass.Close()

	initialized, err := lockpass.IsInitialized()
	if err != nil {
		return err
	}
	if !initialized {
		return core.ErrNotInitialized
	}

	password, err := GetPassword("Enter master password: ")
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)

	// Verify password and fetch the vault id under the same lock
	session, err := lockpass.Open(ctx, password)
	if err != nil {
		return err
	}
	vaultID, err := session.VaultID()
	if closeErr := session.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	if err := keyring.SavePassword(vaultID, string(password)); err != nil {
		return fmt.Errorf("failed to save to keyring: %w", err)
	}

	success("Password saved to keyring")
	return nil
}

// KeyringDelete removes the master password from the OS keyring
func KeyringDelete() {
	lockpass, err := openStore()
	if err != nil {
		HandleError(err)
	}
	defer lockpass.Close()

	vaultID, err := lockpass.GetVaultID()
	if err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	if err := keyring.DeletePassword(vaultID); err != nil {
		if !keyring.IsNotFound(err) {
			warn("keyring unavailable: %s", err)
			return
		}
		fmt.Println("No password stored in keyring")
		return
	}

	success("Password removed from keyring")
}

// KeyringStatus reports whether a password is stored in the keyring
func KeyringStatus() {
	lockpass, err := openStore()
	if err != nil {
		HandleError(err)
	}
	defer lockpass.Close()

	vaultID, err := lockpass.GetVaultID()
	if err != nil {
		if !errors.Is(err, core.ErrNotInitialized) {
			HandleError(err)
		}
		fmt.Println("Password: not stored")
		return
	}

	if keyring.HasPassword(vaultID) {
		fmt.Println("Password: stored in keyring")
	} else {
		fmt.Println("Password: not stored")
	}
}
