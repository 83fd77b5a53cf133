package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/illarion/lockpass/internal/git"
	"github.com/illarion/lockpass/internal/keyring"
)

// Status shows the store state without asking for a password
func Status(ctx context.Context) {
	if err := showStatus(ctx); err != nil {
		HandleError(err)
	}
}

func showStatus(ctx context.Context) error {
	lockpass, err := openStore()
	if err != nil {
		return err
	}
	defer lockpass.Close()

	info, err := lockpass.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Store: %s\n", blue(info.Dir))
	if !info.Initialized {
		fmt.Println("   " + yellow("not initialized"))
		fmt.Println("   Run 'lockpass init' to create one")
		return nil
	}

	fmt.Printf("   Size:     %s\n", formatSize(info.Size))
	fmt.Println("   Cipher:   XSalsa20-Poly1305, Argon2id key")
	if !info.Created.IsZero() {
		fmt.Printf("   Created:  %s\n", info.Created.Local().Format(time.RFC3339))
	}
	if !info.Modified.IsZero() {
		fmt.Printf("   Modified: %s\n", info.Modified.Local().Format(time.RFC3339))
	}

	if info.VaultID != "" {
		fmt.Printf("   Vault ID: %s\n", info.VaultID)
		if keyring.HasPassword(info.VaultID) {
			fmt.Println("   Keyring:  password stored")
		} else {
			fmt.Println("   Keyring:  not stored")
		}
	}

	fmt.Print(git.FormatGitStatus(info.Git))
	return nil
}
