package crypto

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

// testKDF keeps the test suite fast; production code always uses interactive cost.
func testKDF(t *testing.T, salt []byte) *KDF {
	t.Helper()
	return &KDF{Salt: salt, Time: 1, Memory: 64, Threads: 1}
}

func mustSealer(t *testing.T, password string, salt []byte) *Sealer {
	t.Helper()
	key, err := testKDF(t, salt).DeriveKey([]byte(password))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	defer ClearBytes(key)

	s, err := NewSealer(key)
	if err != nil {
		t.Fatalf("NewSealer failed: %v", err)
	}
	return s
}

func TestNewKDF(t *testing.T) {
	kdf, err := NewKDF()
	if err != nil {
		t.Fatalf("NewKDF failed: %v", err)
	}
	if len(kdf.Salt) != SaltSize {
		t.Errorf("Expected salt of %d bytes, got %d", SaltSize, len(kdf.Salt))
	}
	if kdf.Time != InteractiveTime || kdf.Memory != InteractiveMemory || kdf.Threads != InteractiveThreads {
		t.Errorf("Expected interactive cost, got time=%d memory=%d threads=%d", kdf.Time, kdf.Memory, kdf.Threads)
	}

	other, err := NewKDF()
	if err != nil {
		t.Fatalf("NewKDF failed: %v", err)
	}
	if bytes.Equal(kdf.Salt, other.Salt) {
		t.Error("Two fresh salts should differ")
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{7}, SaltSize)

	k1, err := testKDF(t, salt).DeriveKey([]byte("SuperSecurePassword"))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	k2, err := testKDF(t, salt).DeriveKey([]byte("SuperSecurePassword"))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	if len(k1) != KeySize {
		t.Errorf("Expected %d-byte key, got %d", KeySize, len(k1))
	}
	if !bytes.Equal(k1, k2) {
		t.Error("Same password and salt should derive the same key")
	}

	k3, err := testKDF(t, bytes.Repeat([]byte{8}, SaltSize)).DeriveKey([]byte("SuperSecurePassword"))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	if bytes.Equal(k1, k3) {
		t.Error("Different salts should derive different keys")
	}
}

// Output of libsodium crypto_pwhash with the default algorithm and
// OPSLIMIT/MEMLIMIT_INTERACTIVE for the same password and salt.
func TestDeriveKeyMatchesLibsodium(t *testing.T) {
	salt := make([]byte, SaltSize)
	for i := range salt {
		salt[i] = byte(i)
	}

	key, err := NewKDFWithSalt(salt).DeriveKey([]byte("SuperSecurePassword"))
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}

	want := "310a877ff86503914fd35b7e0e0fa0f17874e4c29a8c11bce49dd32ad551096d"
	if got := hex.EncodeToString(key); got != want {
		t.Errorf("Derived key mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestDeriveKeyInvalidParams(t *testing.T) {
	salt := make([]byte, SaltSize)

	tests := []struct {
		name string
		kdf  *KDF
	}{
		{"short salt", &KDF{Salt: []byte("short"), Time: 1, Memory: 64, Threads: 1}},
		{"zero time", &KDF{Salt: salt, Time: 0, Memory: 64, Threads: 1}},
		{"zero threads", &KDF{Salt: salt, Time: 1, Memory: 64, Threads: 0}},
		{"memory too small", &KDF{Salt: salt, Time: 1, Memory: 4, Threads: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.kdf.DeriveKey([]byte("pw")); !errors.Is(err, ErrKeyDerivation) {
				t.Errorf("Expected ErrKeyDerivation, got %v", err)
			}
		})
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	salt := make([]byte, SaltSize)
	s := mustSealer(t, "SuperSecurePassword", salt)
	defer s.Destroy()

	for _, plaintext := range []string{"Please, encrypt this", "", `{"records":[]}`} {
		ciphertext, nonce, err := s.Seal([]byte(plaintext))
		if err != nil {
			t.Fatalf("Seal failed: %v", err)
		}
		if len(nonce) != NonceSize {
			t.Errorf("Expected %d-byte nonce, got %d", NonceSize, len(nonce))
		}
		if len(ciphertext) != len(plaintext)+TagSize {
			t.Errorf("Expected ciphertext of %d bytes, got %d", len(plaintext)+TagSize, len(ciphertext))
		}

		decrypted, err := s.Open(ciphertext, nonce)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if string(decrypted) != plaintext {
			t.Errorf("Round trip mismatch: got %q, want %q", decrypted, plaintext)
		}
	}
}

func TestOpenWrongPassword(t *testing.T) {
	salt := make([]byte, SaltSize)
	s1 := mustSealer(t, "SuperSecurePassword", salt)
	defer s1.Destroy()
	s2 := mustSealer(t, "VeryDifferentPassword", salt)
	defer s2.Destroy()

	ciphertext, nonce, err := s1.Seal([]byte("Please, encrypt this"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	plaintext, err := s2.Open(ciphertext, nonce)
	if !errors.Is(err, ErrAuthFailed) {
		t.Errorf("Expected ErrAuthFailed, got %v", err)
	}
	if plaintext != nil {
		t.Errorf("Expected no plaintext, got %q", plaintext)
	}
}

func TestOpenTampered(t *testing.T) {
	s := mustSealer(t, "pw", make([]byte, SaltSize))
	defer s.Destroy()

	ciphertext, nonce, err := s.Seal([]byte("secret data"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	t.Run("flipped ciphertext bit", func(t *testing.T) {
		tampered := append([]byte(nil), ciphertext...)
		tampered[len(tampered)-1] ^= 0x01
		if _, err := s.Open(tampered, nonce); !errors.Is(err, ErrAuthFailed) {
			t.Errorf("Expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("stale nonce", func(t *testing.T) {
		_, otherNonce, err := s.Seal([]byte("secret data"))
		if err != nil {
			t.Fatalf("Seal failed: %v", err)
		}
		if _, err := s.Open(ciphertext, otherNonce); !errors.Is(err, ErrAuthFailed) {
			t.Errorf("Expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("short nonce", func(t *testing.T) {
		if _, err := s.Open(ciphertext, nonce[:10]); !errors.Is(err, ErrInvalidNonce) {
			t.Errorf("Expected ErrInvalidNonce, got %v", err)
		}
	})

	t.Run("truncated ciphertext", func(t *testing.T) {
		if _, err := s.Open(ciphertext[:TagSize-1], nonce); !errors.Is(err, ErrInvalidCiphertext) {
			t.Errorf("Expected ErrInvalidCiphertext, got %v", err)
		}
	})
}

func TestSealFreshNonce(t *testing.T) {
	s := mustSealer(t, "pw", make([]byte, SaltSize))
	defer s.Destroy()

	c1, n1, err := s.Seal([]byte("same plaintext"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	c2, n2, err := s.Seal([]byte("same plaintext"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	if bytes.Equal(n1, n2) {
		t.Error("Successive seals must use different nonces")
	}
	if bytes.Equal(c1, c2) {
		t.Error("Successive seals must produce different ciphertexts")
	}
}

func TestNewSealerInvalidKey(t *testing.T) {
	if _, err := NewSealer(make([]byte, 16)); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Expected ErrInvalidKey, got %v", err)
	}
}

func TestSealerDestroy(t *testing.T) {
	key := bytes.Repeat([]byte{0xAA}, KeySize)
	s, err := NewSealer(key)
	if err != nil {
		t.Fatalf("NewSealer failed: %v", err)
	}

	// The sealer holds its own copy
	ClearBytes(key)
	if s.key[0] != 0xAA {
		t.Fatal("Sealer key should not alias the caller's slice")
	}

	s.Destroy()
	for i, b := range s.key {
		if b != 0 {
			t.Fatalf("Key byte %d not cleared", i)
		}
	}
}

func TestClearBytes(t *testing.T) {
	b := []byte("sensitive")
	ClearBytes(b)
	for i, v := range b {
		if v != 0 {
			t.Errorf("Byte %d not cleared", i)
		}
	}
}

func TestConstantTimeCompare(t *testing.T) {
	if !ConstantTimeCompare([]byte("abc"), []byte("abc")) {
		t.Error("Equal slices should compare equal")
	}
	if ConstantTimeCompare([]byte("abc"), []byte("abd")) {
		t.Error("Different slices should not compare equal")
	}
}
