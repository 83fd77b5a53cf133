package security

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestStoreDir_ValidateName(t *testing.T) {
	tmpDir := t.TempDir()

	dir, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to open store dir: %v", err)
	}
	defer dir.Close()

	tests := []struct {
		name      string
		input     string
		shouldErr bool
		errType   error
	}{
		// Valid names
		{"simple file", "db.dat", false, nil},
		{"hidden file", ".lockpass", false, nil},
		{"dot slash", "./salt.dat", false, nil},

		// Nested paths
		{"file in subdirectory", "sub/db.dat", true, ErrNestedPath},
		{"dot segments", "a/./b/db.dat", true, ErrNestedPath},

		// Path traversal attempts
		{"parent directory", "../db.dat", true, ErrPathEscapes},
		{"nested parent", "a/../../db.dat", true, ErrPathEscapes},
		{"absolute path unix", "/etc/passwd", true, ErrAbsolutePath},

		// Empty names
		{"empty path", "", true, ErrEmptyPath},
		{"current directory", ".", true, ErrEmptyPath},
	}

	if runtime.GOOS == "windows" {
		tests = append(tests, []struct {
			name      string
			input     string
			shouldErr bool
			errType   error
		}{
			{"absolute path windows", "C:\\Windows\\System32\\config", true, ErrAbsolutePath},
			{"unc path", "\\\\server\\share\\file", true, nil},
		}...)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := dir.ValidateName(tt.input)

			if tt.shouldErr {
				if err == nil {
					t.Errorf("Expected error for input %q, got none", tt.input)
					return
				}
				if tt.errType != nil && !errors.Is(err, tt.errType) {
					t.Errorf("Expected error type %v, got %v", tt.errType, err)
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error for input %q: %v", tt.input, err)
				return
			}
			if strings.ContainsAny(result, `/\`) {
				t.Errorf("Result should be a bare file name, got %q", result)
			}
		})
	}
}

func TestStoreDir_WriteTempCommit(t *testing.T) {
	tmpDir := t.TempDir()

	dir, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to open store dir: %v", err)
	}
	defer dir.Close()

	for _, content := range []string{"first", "second"} {
		tmp, err := dir.WriteTemp("db.dat", []byte(content), 0600)
		if err != nil {
			t.Fatalf("WriteTemp failed: %v", err)
		}
		if err := dir.Commit(tmp, "db.dat"); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
	}

	content, err := os.ReadFile(filepath.Join(tmpDir, "db.dat"))
	if err != nil {
		t.Fatalf("Failed to read written file: %v", err)
	}
	if string(content) != "second" {
		t.Errorf("File content mismatch: got %q, want %q", content, "second")
	}

	// No temporary file should be left behind
	if _, err := os.Stat(filepath.Join(tmpDir, "db.dat"+tmpSuffix)); !os.IsNotExist(err) {
		t.Error("Temporary file should have been renamed away")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(filepath.Join(tmpDir, "db.dat"))
		if err != nil {
			t.Fatalf("Stat failed: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("Expected mode 0600, got %o", info.Mode().Perm())
		}
	}
}

func TestStoreDir_WriteTempDiscard(t *testing.T) {
	tmpDir := t.TempDir()

	dir, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to open store dir: %v", err)
	}
	defer dir.Close()

	tmp, err := dir.WriteTemp("nonce.dat", []byte("pending"), 0600)
	if err != nil {
		t.Fatalf("WriteTemp failed: %v", err)
	}

	// Target is not visible until commit
	if exists, err := dir.Exists("nonce.dat"); err != nil || exists {
		t.Errorf("Target should not exist before commit (exists=%v, err=%v)", exists, err)
	}

	dir.Discard(tmp)
	if _, err := os.Stat(filepath.Join(tmpDir, tmp)); !os.IsNotExist(err) {
		t.Error("Discarded temporary file should be removed")
	}

	if err := dir.Commit("other.tmp", "nonce.dat"); err == nil {
		t.Error("Commit should reject a temporary name for a different file")
	}
}

func TestStoreDir_ReadFile(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, "salt.dat"), []byte("test content"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	dir, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to open store dir: %v", err)
	}
	defer dir.Close()

	tests := []struct {
		name      string
		path      string
		expected  string
		shouldErr bool
	}{
		{"valid file", "salt.dat", "test content", false},
		{"nonexistent file", "missing.dat", "", true},
		{"path traversal", "../outside.dat", "", true},
		{"absolute path", "/etc/passwd", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := dir.ReadFile(tt.path)

			if tt.shouldErr {
				if err == nil {
					t.Errorf("Expected error when reading %q, got none", tt.path)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error reading %q: %v", tt.path, err)
				return
			}
			if string(data) != tt.expected {
				t.Errorf("Content mismatch: got %q, want %q", data, tt.expected)
			}
		})
	}
}

func TestStoreDir_Exists(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, "db.dat"), []byte("x"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	dir, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to open store dir: %v", err)
	}
	defer dir.Close()

	if exists, err := dir.Exists("db.dat"); err != nil || !exists {
		t.Errorf("Expected db.dat to exist (exists=%v, err=%v)", exists, err)
	}
	if exists, err := dir.Exists("missing.dat"); err != nil || exists {
		t.Errorf("Expected missing.dat to not exist (exists=%v, err=%v)", exists, err)
	}
	if _, err := dir.Exists("../db.dat"); err == nil {
		t.Error("Expected error for escaping path")
	}
}

func TestStoreDir_Abs(t *testing.T) {
	tmpDir := t.TempDir()

	dir, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to open store dir: %v", err)
	}
	defer dir.Close()

	abs, err := dir.Abs("lockpass.db")
	if err != nil {
		t.Fatalf("Abs failed: %v", err)
	}
	if abs != filepath.Join(dir.Path(), "lockpass.db") {
		t.Errorf("Unexpected absolute path %q", abs)
	}
	if _, err := dir.Abs("../lockpass.db"); err == nil {
		t.Error("Expected error for escaping path")
	}
}

// Test that os.Root actually prevents escaping
func TestStoreDir_ActualEscapePrevention(t *testing.T) {
	tmpDir := t.TempDir()

	outsideDir := filepath.Dir(tmpDir)
	targetFile := filepath.Join(outsideDir, "should_not_be_written.dat")
	defer os.Remove(targetFile)

	dir, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to open store dir: %v", err)
	}
	defer dir.Close()

	if _, err := dir.WriteTemp("../should_not_be_written.dat", []byte("pwned"), 0600); err == nil {
		t.Error("Expected error when trying to write outside root, got none")
	}
	if err := dir.Commit("../should_not_be_written.dat"+tmpSuffix, "../should_not_be_written.dat"); err == nil {
		t.Error("Expected error when trying to commit outside root, got none")
	}

	if _, statErr := os.Stat(targetFile); statErr == nil {
		t.Error("File was created outside store directory - security breach!")
		os.Remove(targetFile)
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Expected error opening a missing directory")
	}
}
