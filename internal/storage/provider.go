// Package storage defines the vault file-system abstraction and the sinks
// that persist generated notes.
package storage

import "time"

// Entry describes one note file found during discovery.
type Entry struct {
	Path    string // vault-relative, slash-separated
	ModTime time.Time
}

// Provider is the interface for vault file operations.
type Provider interface {
	// List returns every non-hidden file under dir with the given extension.
	List(dir, ext string) ([]Entry, error)
	// TopDirs returns the names of the vault root's directories.
	TopDirs() ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Exists reports whether a file exists at path.
	Exists(path string) (bool, error)
}
