// Package testutil provides shared test helpers for setting up vaults.
package testutil

import (
	"path"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/starford/todobuddy/internal/storage"
)

// MemVault returns an in-memory vault holding files, keyed by vault-relative
// path. Every file gets the same modification time.
func MemVault(t *testing.T, modified time.Time, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for p, content := range files {
		abs := "/" + path.Clean(p)
		if err := fs.MkdirAll(path.Dir(abs), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := afero.WriteFile(fs, abs, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := fs.Chtimes(abs, modified, modified); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

// TestVault creates a temporary on-disk vault holding files and returns its
// directory and provider.
func TestVault(t *testing.T, files map[string]string) (string, *storage.FS) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	for p, content := range files {
		if err := store.Write(p, []byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	return vaultDir, store
}

// ReadFile returns the content of a vault-relative file or fails the test.
func ReadFile(t *testing.T, fs afero.Fs, p string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, "/"+path.Clean(p))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// Exists reports whether a vault-relative file exists.
func Exists(t *testing.T, fs afero.Fs, p string) bool {
	t.Helper()
	ok, err := afero.Exists(fs, "/"+path.Clean(p))
	if err != nil {
		t.Fatal(err)
	}
	return ok
}
