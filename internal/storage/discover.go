package storage

import (
	"strings"

	"github.com/starford/todobuddy/internal/models"
)

// Discover lists the vault's notes with extension ext and returns them as a
// catalog keyed by slug.
func Discover(p Provider, ext string) (*models.Catalog, error) {
	dirnames, err := DirNames(p)
	if err != nil {
		return nil, err
	}

	entries, err := p.List("", ext)
	if err != nil {
		return nil, err
	}
	catalog := models.NewCatalog()
	for _, e := range entries {
		catalog.Add(models.NewNote(e.Path, e.ModTime, dirnames, p))
	}
	return catalog, nil
}

// DirNames returns the lowercased top-level directory names of the vault.
func DirNames(p Provider) (map[string]struct{}, error) {
	dirs, err := p.TopDirs()
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(dirs))
	for _, d := range dirs {
		out[strings.ToLower(d)] = struct{}{}
	}
	return out, nil
}
