package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/illarion/lockpass/internal/crypto"
	"github.com/illarion/lockpass/internal/storage"
)

// maxSuggestDistance bounds edit distance for "did you mean" suggestions
const maxSuggestDistance = 2

// Session is one locked load-mutate-save cycle on the store.
// Mutations stay in memory until Save or Close.
type Session struct {
	l       *LockPass
	meta    *storage.Storage
	salt    []byte
	sealer  *crypto.Sealer
	records *storage.RecordSet
	dirty   bool
	closed  bool
}

// Add inserts a new record. Fails with ErrDuplicateKey if name exists.
func (s *Session) Add(name, password string) error {
	if s.closed {
		return ErrSessionClosed
	}
	if name == "" {
		return ErrInvalidName
	}
	if s.records.Contains(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, name)
	}

	s.records.Insert(storage.Record{Name: name, Password: password})
	s.dirty = true
	return nil
}

// Update replaces the password of an existing record.
// Fails with ErrKeyNotFound if name does not exist.
func (s *Session) Update(name, password string) error {
	if s.closed {
		return ErrSessionClosed
	}
	if !s.records.Contains(name) {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}

	s.records.Replace(name, storage.Record{Name: name, Password: password})
	s.dirty = true
	return nil
}

// Remove deletes a record. Removing an absent name is not an error;
// the result reports whether anything was removed.
func (s *Session) Remove(name string) (bool, error) {
	if s.closed {
		return false, ErrSessionClosed
	}

	removed := s.records.Remove(name)
	if removed {
		s.dirty = true
	}
	return removed, nil
}

// Show returns the password stored under name
func (s *Session) Show(name string) (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}

	record, ok := s.records.Find(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, name)
	}
	return record.Password, nil
}

// Contains reports whether a record exists
func (s *Session) Contains(name string) bool {
	return !s.closed && s.records.Contains(name)
}

// List returns all record names in store order
func (s *Session) List() ([]string, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.records.Names(), nil
}

// Suggest returns up to limit record names similar to name, closest first
func (s *Session) Suggest(name string, limit int) []string {
	if s.closed || name == "" {
		return nil
	}
	names := s.records.Names()

	ranks := fuzzy.RankFindFold(name, names)
	sort.Sort(ranks)

	seen := make(map[string]bool)
	var out []string
	for _, r := range ranks {
		if !seen[r.Target] {
			seen[r.Target] = true
			out = append(out, r.Target)
		}
	}

	// Typos are not subsequences; fall back to edit distance
	lower := strings.ToLower(name)
	var near []string
	for _, n := range names {
		if seen[n] {
			continue
		}
		if fuzzy.LevenshteinDistance(lower, strings.ToLower(n)) <= maxSuggestDistance {
			seen[n] = true
			near = append(near, n)
		}
	}
	sort.SliceStable(near, func(i, j int) bool {
		return fuzzy.LevenshteinDistance(lower, strings.ToLower(near[i])) <
			fuzzy.LevenshteinDistance(lower, strings.ToLower(near[j]))
	})
	out = append(out, near...)

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Len returns the number of records
func (s *Session) Len() int {
	return s.records.Len()
}

// Dirty reports whether there are unsaved mutations
func (s *Session) Dirty() bool {
	return s.dirty
}

// VaultID returns the store's vault id, creating one if needed
func (s *Session) VaultID() (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}
	return s.meta.GetOrCreateVaultID()
}

// Save re-seals the record set under a fresh nonce, keeping the salt,
// and rewrites all store artifacts
func (s *Session) Save() error {
	if s.closed {
		return ErrSessionClosed
	}

	plaintext, err := s.records.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	defer crypto.ClearBytes(plaintext)

	ciphertext, nonce, err := s.sealer.Seal(plaintext)
	if err != nil {
		return fmt.Errorf("failed to seal store: %w", err)
	}

	if err := s.l.files.Save(&storage.Blob{Ciphertext: ciphertext, Nonce: nonce, Salt: s.salt}); err != nil {
		return ioError("write store", err)
	}

	if err := s.meta.UpdateModified(); err != nil {
		return ioError("update metadata", err)
	}

	s.dirty = false
	return nil
}

// Close saves pending mutations, clears the key and releases the store lock.
// The key is cleared and the lock released even if saving fails.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}

	var saveErr error
	if s.dirty {
		saveErr = s.Save()
	}

	s.sealer.Destroy()
	s.records = storage.NewRecordSet()
	s.closed = true

	if err := s.meta.Close(); err != nil && saveErr == nil {
		return ioError("close metadata", err)
	}
	return saveErr
}
