package core

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

var (
	alphabetUppercase = `ABCDEFGHIJKLMNOPQRSTUVWXYZ`
	alphabetLowercase = `abcdefghijklmnopqrstuvwxyz`
	alphabetNumbers   = `0123456789`
	alphabetSymbols   = `!@#$%^&*()_+-=<>,.{}[]\|?/~"'` + "`"
)

var ErrPasswordImpossible = errors.New("password cannot be generated")

// Policy controls generated password composition
type Policy struct {
	Length    int
	Uppercase bool
	Lowercase bool
	Numbers   bool
	Symbols   bool
	// Strict guarantees at least one character from every enabled class
	Strict bool
}

// DefaultPolicy is used by add/update --auto-generate
var DefaultPolicy = Policy{
	Length:    8,
	Uppercase: true,
	Lowercase: true,
	Numbers:   true,
	Symbols:   true,
	Strict:    true,
}

// GeneratePassword generates a random password using crypto/rand
func GeneratePassword(p Policy) (string, error) {
	var classes []string
	for _, c := range []struct {
		enabled  bool
		alphabet string
	}{
		{p.Uppercase, alphabetUppercase},
		{p.Lowercase, alphabetLowercase},
		{p.Numbers, alphabetNumbers},
		{p.Symbols, alphabetSymbols},
	} {
		if c.enabled {
			classes = append(classes, c.alphabet)
		}
	}

	if p.Length <= 0 || len(classes) == 0 {
		return "", ErrPasswordImpossible
	}
	if p.Strict && p.Length < len(classes) {
		return "", fmt.Errorf("%w: length %d is shorter than %d required classes", ErrPasswordImpossible, p.Length, len(classes))
	}

	pool := ""
	for _, c := range classes {
		pool += c
	}

	password := make([]byte, 0, p.Length)
	if p.Strict {
		for _, c := range classes {
			ch, err := pick(c)
			if err != nil {
				return "", err
			}
			password = append(password, ch)
		}
	}
	for len(password) < p.Length {
		ch, err := pick(pool)
		if err != nil {
			return "", err
		}
		password = append(password, ch)
	}

	// Fisher-Yates so the required characters are not always first
	for i := len(password) - 1; i > 0; i-- {
		j, err := randIndex(i + 1)
		if err != nil {
			return "", err
		}
		password[i], password[j] = password[j], password[i]
	}

	return string(password), nil
}

func pick(alphabet string) (byte, error) {
	i, err := randIndex(len(alphabet))
	if err != nil {
		return 0, err
	}
	return alphabet[i], nil
}

func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate entropy: %w", err)
	}
	return int(v.Int64()), nil
}
