package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FS implements Provider on top of an afero file system rooted at the vault.
type FS struct {
	fs   afero.Fs
	root string // empty unless backed by the OS file system
}

// NewFS creates a provider rooted at the given directory on the OS file
// system. The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{fs: afero.NewBasePathFs(afero.NewOsFs(), abs), root: abs}, nil
}

// NewFSFrom wraps an existing afero file system whose "/" is the vault root.
func NewFSFrom(base afero.Fs) *FS {
	return &FS{fs: base}
}

// Root returns the OS directory the provider was opened with, or "" when it
// wraps another file system.
func (f *FS) Root() string { return f.root }

// safePath cleans a vault-relative path and rejects anything that escapes
// the vault root.
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" || rel == "." {
		return "/", nil
	}
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	cleaned := path.Clean(filepath.ToSlash(rel))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("storage: path escapes vault root: %s", rel)
	}
	return "/" + cleaned, nil
}

// List walks dir and returns every file with extension ext, skipping hidden
// files and directories.
func (f *FS) List(dir, ext string) ([]Entry, error) {
	base, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	suffix := "." + strings.TrimPrefix(ext, ".")
	var out []Entry
	err = afero.Walk(f.fs, base, func(p string, info fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		name := info.Name()
		if p != base && strings.HasPrefix(name, ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || !strings.HasSuffix(name, suffix) {
			return nil
		}
		out = append(out, Entry{
			Path:    strings.TrimPrefix(filepath.ToSlash(p), "/"),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	return out, nil
}

// TopDirs returns the names of the directories directly under the root,
// hidden ones included.
func (f *FS) TopDirs() ([]string, error) {
	infos, err := afero.ReadDir(f.fs, "/")
	if err != nil {
		return nil, fmt.Errorf("storage: read root: %w", err)
	}
	var out []string
	for _, info := range infos {
		if info.IsDir() {
			out = append(out, info.Name())
		}
	}
	return out, nil
}

// Read returns the raw bytes of a vault file.
func (f *FS) Read(p string) ([]byte, error) {
	abs, err := f.safePath(p)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(f.fs, abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", p, err)
	}
	return data, nil
}

// Exists reports whether a file exists at p.
func (f *FS) Exists(p string) (bool, error) {
	abs, err := f.safePath(p)
	if err != nil {
		return false, err
	}
	_, err = f.fs.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: stat %s: %w", p, err)
	}
	return true, nil
}

// Write atomically writes content: tmp file → sync → rename.
func (f *FS) Write(p string, content []byte) error {
	abs, err := f.safePath(p)
	if err != nil {
		return err
	}
	dir := path.Dir(abs)
	if err := f.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := afero.TempFile(f.fs, dir, ".todobuddy-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = f.fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := f.fs.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
