package cmd

import (
	"context"

	"github.com/illarion/lockpass/internal/core"
	"github.com/illarion/lockpass/internal/crypto"
)

// Init creates a new empty store
func Init(ctx context.Context) {
	if err := initStore(ctx); err != nil {
		HandleError(err)
	}
}

func initStore(ctx context.Context) error {
	lockpass, err := createStore()
	if err != nil {
		return err
	}
	defer lockpass.Close()

	// Fail before prompting; Init checks again under the lock
	if initialized, err := lockpass.IsInitialized(); err != nil {
		return err
	} else if initialized {
		return core.ErrAlreadyExists
	}

	// Read password (env var or prompt with confirmation)
	password, err := GetPasswordForInit()
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)

	if err := lockpass.Init(ctx, password); err != nil {
		return err
	}

	success("Initialized lockpass store in %s", lockpass.Dir())
	return nil
}
