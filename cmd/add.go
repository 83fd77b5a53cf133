package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/lockpass/internal/core"
	"github.com/illarion/lockpass/internal/crypto"
)

// Add stores a new record, prompting for its password unless generate is set
func Add(ctx context.Context, name string, generate bool) {
	if err := addRecord(ctx, name, generate); err != nil {
		HandleError(err)
	}
}

func addRecord(ctx context.Context, name string, generate bool) error {
	lockpass, err := sessionStore()
	if err != nil {
		return err
	}
	defer lockpass.Close()

	session, password, source, err := OpenSession(ctx, lockpass)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)

	err = func() error {
		// Check before asking for the secret; Add checks again
		if session.Contains(name) {
			return fmt.Errorf("%w: %s", core.ErrDuplicateKey, name)
		}

		secret, err := readSecret(generate)
		if err != nil {
			return err
		}
		return session.Add(name, secret)
	}()
	if err = finishSession(session, password, source, err); err != nil {
		return err
	}

	if generate {
		success("Added %s with a generated password", name)
	} else {
		success("Added %s", name)
	}
	return nil
}

// readSecret prompts for the record password or generates one
func readSecret(generate bool) (string, error) {
	if generate {
		return core.GeneratePassword(core.DefaultPolicy)
	}

	secret, err := core.ReadPassword("Enter password to store: ")
	if err != nil {
		return "", err
	}
	defer crypto.ClearBytes(secret)
	return string(secret), nil
}
