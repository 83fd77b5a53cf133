package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"

	"github.com/illarion/lockpass/internal/crypto"
	"github.com/illarion/lockpass/internal/security"
)

// Store artifact names, kept side by side in the store directory
const (
	CiphertextFile = "db.dat"
	NonceFile      = "nonce.dat"
	SaltFile       = "salt.dat"

	filePerm = 0600
)

var (
	// ErrIncompleteStore is returned when the ciphertext exists but nonce or salt is missing
	ErrIncompleteStore = errors.New("store is missing nonce or salt")
	// ErrMalformedFile is returned when an artifact is not a JSON byte array
	// or the nonce or salt has the wrong length
	ErrMalformedFile = errors.New("malformed store file")
)

// Blob is one sealed snapshot of the store.
// Nonce and Salt must be the exact values used to seal Ciphertext.
type Blob struct {
	Ciphertext []byte
	Nonce      []byte
	Salt       []byte
}

// byteArray encodes bytes as a JSON array of numbers instead of base64.
type byteArray []byte

func (b byteArray) MarshalJSON() ([]byte, error) {
	values := make([]uint16, len(b))
	for i, v := range b {
		values[i] = uint16(v)
	}
	return json.Marshal(values)
}

func (b *byteArray) UnmarshalJSON(data []byte) error {
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	out := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > math.MaxUint8 || v != math.Trunc(v) {
			return fmt.Errorf("value %v at index %d is not a byte", v, i)
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}

// Files reads and writes the three store artifacts
type Files struct {
	dir *security.StoreDir
}

// NewFiles creates a Files accessor for the store directory
func NewFiles(dir *security.StoreDir) *Files {
	return &Files{dir: dir}
}

// Exists reports whether the store ciphertext exists
func (f *Files) Exists() (bool, error) {
	return f.dir.Exists(CiphertextFile)
}

// Size returns the size of the ciphertext artifact in bytes
func (f *Files) Size() (int64, error) {
	info, err := f.dir.Stat(CiphertextFile)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Load reads ciphertext, nonce and salt from disk
func (f *Files) Load() (*Blob, error) {
	ciphertext, err := f.readArtifact(CiphertextFile)
	if err != nil {
		return nil, err
	}

	nonce, err := f.readArtifact(NonceFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", ErrIncompleteStore, err)
	}
	if err != nil {
		return nil, err
	}
	salt, err := f.readArtifact(SaltFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", ErrIncompleteStore, err)
	}
	if err != nil {
		return nil, err
	}

	if len(nonce) != crypto.NonceSize {
		return nil, fmt.Errorf("%w: %s: want %d bytes, got %d", ErrMalformedFile, NonceFile, crypto.NonceSize, len(nonce))
	}
	if len(salt) != crypto.SaltSize {
		return nil, fmt.Errorf("%w: %s: want %d bytes, got %d", ErrMalformedFile, SaltFile, crypto.SaltSize, len(salt))
	}

	return &Blob{Ciphertext: ciphertext, Nonce: nonce, Salt: salt}, nil
}

// Save writes all three artifacts. Each is written to a synced temporary
// file first; renames then happen in the order salt, nonce, ciphertext.
func (f *Files) Save(blob *Blob) error {
	artifacts := []struct {
		name string
		data []byte
	}{
		{SaltFile, blob.Salt},
		{NonceFile, blob.Nonce},
		{CiphertextFile, blob.Ciphertext},
	}

	type pendingFile struct {
		name string
		tmp  string
	}
	var pending []pendingFile
	discard := func() {
		for _, p := range pending {
			f.dir.Discard(p.tmp)
		}
	}

	for _, a := range artifacts {
		encoded, err := json.Marshal(byteArray(a.data))
		if err != nil {
			discard()
			return fmt.Errorf("failed to encode %s: %w", a.name, err)
		}
		tmp, err := f.dir.WriteTemp(a.name, encoded, filePerm)
		if err != nil {
			discard()
			return fmt.Errorf("failed to write %s: %w", a.name, err)
		}
		pending = append(pending, pendingFile{name: a.name, tmp: tmp})
	}

	for i, p := range pending {
		if err := f.dir.Commit(p.tmp, p.name); err != nil {
			for _, rest := range pending[i:] {
				f.dir.Discard(rest.tmp)
			}
			return fmt.Errorf("failed to replace %s: %w", p.name, err)
		}
	}
	return nil
}

func (f *Files) readArtifact(name string) ([]byte, error) {
	data, err := f.dir.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var b byteArray
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedFile, name, err)
	}
	return b, nil
}
