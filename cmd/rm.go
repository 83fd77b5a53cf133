package cmd

import (
	"context"

	"github.com/illarion/lockpass/internal/crypto"
)

// Remove deletes records from the store. Missing names are not an error.
func Remove(ctx context.Context, names []string) {
	if err := removeRecords(ctx, names); err != nil {
		HandleError(err)
	}
}

func removeRecords(ctx context.Context, names []string) error {
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

	var removed, missing []string
	err = func() error {
		for _, name := range names {
			ok, err := session.Remove(name)
			if err != nil {
				return err
			}
			if ok {
				removed = append(removed, name)
			} else {
				missing = append(missing, name)
			}
		}
		return nil
	}()
	if err = finishSession(session, password, source, err); err != nil {
		return err
	}

	for _, name := range removed {
		success("Removed %s", name)
	}
	for _, name := range missing {
		warn("%s not in store", name)
	}
	return nil
}
