package core

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/illarion/lockpass/internal/crypto"
)

// EnvPassword names the environment variable holding the master password
const EnvPassword = "LOCKPASS_PASSWORD"

var ErrPasswordMismatch = errors.New("passwords do not match")

// stdinReader is shared so piped input can supply several lines in sequence
var stdinReader = bufio.NewReader(os.Stdin)

// ReadPassword reads a password from the terminal without echoing.
// When stdin is not a terminal one line is read from it instead.
func ReadPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		password, err := readLine(stdinReader)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		return password, nil
	}

	// Read password without echo
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // New line after password

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	return password, nil
}

// readLine reads one line without its line ending
func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		crypto.ClearBytes(line)
		return nil, err
	}
	trimmed := bytes.TrimRight(line, "\r\n")
	result := make([]byte, len(trimmed))
	copy(result, trimmed)
	crypto.ClearBytes(line)
	return result, nil
}

// ReadPasswordConfirm reads a password twice and ensures they match
func ReadPasswordConfirm(prompt string) ([]byte, error) {
	password1, err := ReadPassword(prompt)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password1)

	password2, err := ReadPassword("Confirm password: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password2)

	if !crypto.ConstantTimeCompare(password1, password2) {
		return nil, ErrPasswordMismatch
	}

	// Return a copy of the password
	result := make([]byte, len(password1))
	copy(result, password1)
	return result, nil
}

// IsInteractive reports whether stdin is a terminal
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ReadAnswer prints prompt and reads one visible line from stdin
func ReadAnswer(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := readLine(stdinReader)
	if err != nil {
		return "", err
	}
	return string(line), nil
}

// GetPasswordFromEnv reads password from LOCKPASS_PASSWORD environment variable
func GetPasswordFromEnv() []byte {
	password := os.Getenv(EnvPassword)
	if password == "" {
		return nil
	}
	// Return a copy to avoid issues when clearing the bytes
	result := make([]byte, len(password))
	copy(result, []byte(password))
	return result
}
