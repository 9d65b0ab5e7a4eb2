// Package render turns taxonomy blocks into per-tag companion documents.
package render

import (
	"errors"
	"fmt"
	"path"
	"strconv"

	"github.com/starford/todobuddy/internal/index"
	"github.com/starford/todobuddy/internal/models"
)

// ErrDuplicateBlock reports more than one block recorded for the same note
// version under a tag. Taxonomy.Add never produces this.
var ErrDuplicateBlock = errors.New("duplicate block for fingerprint")

// CompanionPrefix marks generated companion files.
const CompanionPrefix = "."

// Render returns the companion document for a tag note: a header followed by
// every block recorded under the note's slug.
func Render(note *models.Note, tax *index.Taxonomy) ([]string, error) {
	body, err := Collect(tax, note.Slug())
	if err != nil {
		return nil, err
	}
	return append(Header(note), body...), nil
}

// Header returns the identity lines that open a companion document.
func Header(note *models.Note) []string {
	count := "(file empty)"
	if n := len(note.Lines()); n > 0 {
		count = "(" + strconv.Itoa(n) + " lines)"
	}
	return []string{
		"# " + note.Slug(),
		"",
		"## [[" + note.Slug() + "]]",
		count,
		"",
	}
}

// Collect renders the blocks recorded under tag, one heading per note
// version followed by its content and a blank separator.
func Collect(tax *index.Taxonomy, tag string) ([]string, error) {
	groups, err := tax.Groups(tag)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, g := range groups {
		if len(g.Blocks) > 1 {
			return nil, fmt.Errorf("render: tag %q, %s: %w", tag, g.Fingerprint, ErrDuplicateBlock)
		}
		for _, b := range g.Blocks {
			out = append(out, "## [["+b.Permalink+":"+strconv.Itoa(b.LineNumber)+"]]")
			out = append(out, b.Content...)
		}
		out = append(out, "")
	}
	return out, nil
}

// CompanionPath returns the hidden companion path beside note.
func CompanionPath(note *models.Note) string {
	name := CompanionPrefix + note.Name
	if note.Dir == "" {
		return name
	}
	return path.Join(note.Dir, name)
}
