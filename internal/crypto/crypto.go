package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	SaltSize  = 16                 // Argon2 salt size in bytes
	KeySize   = 32                 // secretbox key size
	NonceSize = 24                 // secretbox nonce size
	TagSize   = secretbox.Overhead // Poly1305 authentication tag size

	// libsodium crypto_pwhash (argon2id13) interactive limits
	InteractiveTime    = 2         // Argon2id passes
	InteractiveMemory  = 64 * 1024 // Argon2id memory in KiB (64 MiB)
	InteractiveThreads = 1         // Argon2id lanes
)

var (
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrInvalidNonce      = errors.New("invalid nonce")
	ErrInvalidKey        = errors.New("invalid key size")
	ErrAuthFailed        = errors.New("authentication failed")
	ErrKeyDerivation     = errors.New("key derivation failed")
)

// KDF handles key derivation from passwords
type KDF struct {
	Salt    []byte
	Time    uint32
	Memory  uint32
	Threads uint8
}

// NewKDF creates a new KDF with a random salt and interactive cost
func NewKDF() (*KDF, error) {
	salt, err := GenerateRandom(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return NewKDFWithSalt(salt), nil
}

// NewKDFWithSalt creates a KDF with interactive cost for an existing salt
func NewKDFWithSalt(salt []byte) *KDF {
	return &KDF{
		Salt:    salt,
		Time:    InteractiveTime,
		Memory:  InteractiveMemory,
		Threads: InteractiveThreads,
	}
}

// DeriveKey derives an encryption key from a password.
// The same password and salt always produce the same key.
func (k *KDF) DeriveKey(password []byte) ([]byte, error) {
	switch {
	case len(k.Salt) != SaltSize:
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrKeyDerivation, SaltSize, len(k.Salt))
	case k.Time < 1:
		return nil, fmt.Errorf("%w: time cost must be at least 1", ErrKeyDerivation)
	case k.Threads < 1:
		return nil, fmt.Errorf("%w: parallelism must be at least 1", ErrKeyDerivation)
	case k.Memory < 8*uint32(k.Threads):
		return nil, fmt.Errorf("%w: memory cost too small", ErrKeyDerivation)
	}

	return argon2.IDKey(password, k.Salt, k.Time, k.Memory, k.Threads, KeySize), nil
}

// Sealer provides authenticated encryption with a detached nonce
type Sealer struct {
	key *[KeySize]byte
}

// NewSealer creates a new sealer with the given key.
// The key is copied; callers should clear their own copy.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	s := &Sealer{key: new([KeySize]byte)}
	copy(s.key[:], key)
	return s, nil
}

// Seal encrypts plaintext using XSalsa20-Poly1305 under a fresh random nonce
func (s *Sealer) Seal(plaintext []byte) (ciphertext, nonce []byte, err error) {
	var n [NonceSize]byte
	if _, err := rand.Read(n[:]); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext = secretbox.Seal(nil, plaintext, &n, s.key)
	return ciphertext, n[:], nil
}

// Open decrypts and verifies ciphertext produced by Seal
func (s *Sealer) Open(ciphertext, nonce []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, ErrInvalidNonce
	}
	if len(ciphertext) < TagSize {
		return nil, ErrInvalidCiphertext
	}

	var n [NonceSize]byte
	copy(n[:], nonce)

	plaintext, ok := secretbox.Open(nil, ciphertext, &n, s.key)
	if !ok {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

// Destroy clears the sealer's key from memory
func (s *Sealer) Destroy() {
	if s.key != nil {
		ClearBytes(s.key[:])
	}
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
