package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/illarion/lockpass/internal/core"
	"github.com/illarion/lockpass/internal/storage"
)

func TestListWithoutCreate(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")

	t.Setenv(core.EnvPassword, "pw")
	t.Setenv(EnvNoCreate, "1")

	t.Setenv(EnvDir, dir)
	if err := listRecords(context.Background()); err != nil {
		t.Fatalf("listRecords failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty store directory, found %d entries", len(entries))
	}

	if err := showRecord(context.Background(), "github", false); !errors.Is(err, core.ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized from show, got %v", err)
	}

	t.Setenv(EnvDir, missing)
	if err := listRecords(context.Background()); err != nil {
		t.Fatalf("listRecords failed: %v", err)
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Errorf("Store directory should not be created, got %v", err)
	}
}

func TestListCreatesStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vault")

	t.Setenv(core.EnvPassword, "pw")
	t.Setenv(EnvNoCreate, "")
	t.Setenv(EnvDir, dir)

	if err := listRecords(context.Background()); err != nil {
		t.Fatalf("listRecords failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, storage.CiphertextFile)); err != nil {
		t.Errorf("Expected store to be created: %v", err)
	}

	// An existing store is listed normally with the flag set
	t.Setenv(EnvNoCreate, "1")
	if err := listRecords(context.Background()); err != nil {
		t.Errorf("listRecords on existing store failed: %v", err)
	}
}

func TestNoCreate(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"0", false},
		{"1", true},
		{"yes", true},
	}

	for _, tt := range tests {
		t.Setenv(EnvNoCreate, tt.value)
		if got := noCreate(); got != tt.want {
			t.Errorf("noCreate with %q = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestCompletionListsWithoutCreate(t *testing.T) {
	for shell, script := range map[string]string{
		"bash": bashCompletion,
		"zsh":  zshCompletion,
		"fish": fishCompletion,
	} {
		if !strings.Contains(script, EnvNoCreate+"=1 lockpass list") {
			t.Errorf("%s completion should list records with %s set", shell, EnvNoCreate)
		}
		if strings.Contains(script, "(lockpass list") {
			t.Errorf("%s completion calls lockpass list without %s", shell, EnvNoCreate)
		}
	}
}
