package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/illarion/lockpass/internal/core"
	"github.com/illarion/lockpass/internal/crypto"
)

// Update replaces the password of an existing record
func Update(ctx context.Context, name string, generate bool) {
	if err := updateRecord(ctx, name, generate); err != nil {
		HandleError(err)
	}
}

func updateRecord(ctx context.Context, name string, generate bool) error {
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
		if !session.Contains(name) {
			suggestNames(session, name)
			return fmt.Errorf("%w: %s", core.ErrKeyNotFound, name)
		}

		secret, err := readSecret(generate)
		if err != nil {
			return err
		}
		return session.Update(name, secret)
	}()
	if err = finishSession(session, password, source, err); err != nil {
		if errors.Is(err, core.ErrKeyNotFound) {
			hint("Use 'lockpass add' to create it")
		}
		return err
	}

	success("Updated %s", name)
	return nil
}
