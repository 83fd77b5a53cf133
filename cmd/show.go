package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/illarion/lockpass/internal/core"
	"github.com/illarion/lockpass/internal/crypto"
)

// Show prints a record's password and copies it to the clipboard
func Show(ctx context.Context, name string, copyToClipboard bool) {
	if err := showRecord(ctx, name, copyToClipboard); err != nil {
		HandleError(err)
	}
}

func showRecord(ctx context.Context, name string, copyToClipboard bool) error {
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

	secret, err := session.Show(name)
	if errors.Is(err, core.ErrKeyNotFound) {
		suggestNames(session, name)
	}
	if err = finishSession(session, password, source, err); err != nil {
		return err
	}

	fmt.Println(secret)

	// The secret is already printed; a missing clipboard is not fatal
	if copyToClipboard {
		if clipboard.Unsupported {
			return nil
		}
		if err := clipboard.WriteAll(secret); err != nil {
			warn("failed to copy to clipboard: %s", err)
		}
	}
	return nil
}
