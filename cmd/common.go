package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/illarion/lockpass/internal/core"
	"github.com/illarion/lockpass/internal/crypto"
	"github.com/illarion/lockpass/internal/keyring"
)

const (
	// EnvDir names the environment variable selecting the store directory
	EnvDir = "LOCKPASS_DIR"
	// EnvNoCreate stops record commands from creating a missing store.
	// Shell completion sets it so listing names never leaves files behind.
	EnvNoCreate = "LOCKPASS_NO_CREATE"
)

// PasswordSource records where the master password came from
type PasswordSource int

const (
	SourceEnv PasswordSource = iota
	SourceKeyring
	SourcePrompt
)

// storeDir returns the configured store directory, defaulting to the current one
func storeDir() string {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir
	}
	return "."
}

// openStore creates a LockPass handle for the configured directory
func openStore() (*core.LockPass, error) {
	return core.New(storeDir())
}

// createStore is openStore for commands that may create the store
func createStore() (*core.LockPass, error) {
	if err := core.EnsureDir(storeDir()); err != nil {
		return nil, err
	}
	return core.New(storeDir())
}

// noCreate reports whether EnvNoCreate is set to a non-empty value other than "0"
func noCreate() bool {
	v := os.Getenv(EnvNoCreate)
	return v != "" && v != "0"
}

// sessionStore opens the store for a record command. The store is created on
// first use unless EnvNoCreate is set, in which case a missing store is
// ErrNotInitialized and nothing is written.
func sessionStore() (*core.LockPass, error) {
	if !noCreate() {
		return createStore()
	}

	if _, err := os.Stat(storeDir()); errors.Is(err, fs.ErrNotExist) {
		return nil, core.ErrNotInitialized
	}
	lockpass, err := openStore()
	if err != nil {
		return nil, err
	}
	initialized, err := lockpass.IsInitialized()
	if err == nil && !initialized {
		err = core.ErrNotInitialized
	}
	if err != nil {
		lockpass.Close()
		return nil, err
	}
	return lockpass, nil
}

// GetPassword retrieves password from environment or prompts user
// The caller is responsible for calling crypto.ClearBytes on the returned password
func GetPassword(prompt string) ([]byte, error) {
	// Try environment variable first
	password := core.GetPasswordFromEnv()
	if password != nil {
		return password, nil
	}

	password, err := core.ReadPassword(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	return password, nil
}

// GetPasswordForInit retrieves password for a new store.
// Checks environment variable first, then prompts with confirmation.
func GetPasswordForInit() ([]byte, error) {
	password := core.GetPasswordFromEnv()
	if password != nil {
		return password, nil
	}

	return core.ReadPasswordConfirm("Enter new master password: ")
}

// OpenSession obtains the master password (env, keyring, prompt) and opens
// a session. A keyring password that no longer decrypts the store is
// dropped and the user is prompted once instead.
// The caller must clear the returned password and close the session.
func OpenSession(ctx context.Context, lockpass *core.LockPass) (*core.Session, []byte, PasswordSource, error) {
	if password := core.GetPasswordFromEnv(); password != nil {
		session, err := lockpass.Open(ctx, password)
		if err != nil {
			crypto.ClearBytes(password)
			return nil, nil, SourceEnv, err
		}
		return session, password, SourceEnv, nil
	}

	vaultID, _ := lockpass.GetVaultID()
	if vaultID != "" {
		if stored, err := keyring.GetPassword(vaultID); err == nil {
			password := []byte(stored)
			session, err := lockpass.Open(ctx, password)
			if err == nil {
				return session, password, SourceKeyring, nil
			}
			crypto.ClearBytes(password)
			if !errors.Is(err, core.ErrAuthFailed) {
				return nil, nil, SourceKeyring, err
			}
			warn("password in keyring is stale, removing it")
			_ = keyring.DeletePassword(vaultID)
		}
	}

	initialized, err := lockpass.IsInitialized()
	if err != nil {
		return nil, nil, SourcePrompt, err
	}

	var password []byte
	if initialized {
		password, err = core.ReadPassword("Enter master password: ")
	} else {
		fmt.Fprintf(os.Stderr, "No store found in %s, creating a new one\n", lockpass.Dir())
		password, err = core.ReadPasswordConfirm("Enter new master password: ")
	}
	if err != nil {
		return nil, nil, SourcePrompt, err
	}

	session, err := lockpass.Open(ctx, password)
	if err != nil {
		crypto.ClearBytes(password)
		return nil, nil, SourcePrompt, err
	}
	return session, password, SourcePrompt, nil
}

// OfferToSavePassword asks whether a prompted password should go to the keyring
func OfferToSavePassword(vaultID string, password []byte) {
	if vaultID == "" || !core.IsInteractive() || keyring.HasPassword(vaultID) {
		return
	}

	answer, err := core.ReadAnswer("Save password to keyring? [y/N] ")
	if err != nil {
		return
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "y" && answer != "yes" {
		return
	}

	if err := keyring.SavePassword(vaultID, string(password)); err != nil {
		warn("failed to save to keyring: %s", err)
		return
	}
	success("Password saved to keyring")
}

// finishSession closes the session, offering to remember a prompted password.
// Close errors take precedence over err only when err is nil.
func finishSession(session *core.Session, password []byte, source PasswordSource, err error) error {
	var vaultID string
	if err == nil && source == SourcePrompt {
		vaultID, _ = session.VaultID()
	}

	if closeErr := session.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err == nil && vaultID != "" {
		OfferToSavePassword(vaultID, password)
	}
	return err
}

// HandleError prints err in a user-facing form and exits
func HandleError(err error) {
	switch {
	case errors.Is(err, core.ErrNotInitialized):
		fail("lockpass store not initialized")
		hint("Run 'lockpass init' first")
	case errors.Is(err, core.ErrAlreadyExists):
		fail("a lockpass store already exists in this directory")
		hint("Use 'lockpass status' to see current state")
	case errors.Is(err, core.ErrAuthFailed):
		fail("unable to decrypt store (wrong password or corrupted files)")
	case errors.Is(err, core.ErrLocked):
		fail("store is in use by another lockpass process")
	case errors.Is(err, core.ErrDuplicateKey):
		fail("%s", err)
		hint("Use 'lockpass update' to change it")
	case errors.Is(err, core.ErrKeyNotFound):
		fail("%s", err)
	case errors.Is(err, core.ErrPasswordMismatch):
		fail("passwords do not match")
	case errors.Is(err, context.Canceled):
		fail("interrupted")
	default:
		fail("%s", err)
	}
	os.Exit(1)
}

// suggestNames prints "did you mean" hints for a missing record
func suggestNames(session *core.Session, name string) {
	suggestions := session.Suggest(name, 3)
	if len(suggestions) == 0 {
		return
	}
	hint("Did you mean: %s?", blue(strings.Join(suggestions, ", ")))
}
