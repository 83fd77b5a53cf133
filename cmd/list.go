package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/illarion/lockpass/internal/core"
	"github.com/illarion/lockpass/internal/crypto"
)

// List prints record names, one per line, in store order
func List(ctx context.Context) {
	if err := listRecords(ctx); err != nil {
		HandleError(err)
	}
}

func listRecords(ctx context.Context) error {
	lockpass, err := sessionStore()
	if errors.Is(err, core.ErrNotInitialized) && noCreate() {
		return nil
	}
	if err != nil {
		return err
	}
	defer lockpass.Close()

	session, password, source, err := OpenSession(ctx, lockpass)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)

	names, err := session.List()
	if err = finishSession(session, password, source, err); err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "No records in store")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

// formatSize formats a file size in human-readable form
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
