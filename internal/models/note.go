// Package models defines the domain types for todobuddy.
package models

import (
	"bytes"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/starford/todobuddy/internal/apperr"
)

// DateLayout is the layout of dated note names and explicit date tags.
const DateLayout = "2006-01-02"

var (
	leadingDateRe = regexp.MustCompile(`^([1-2][0-9]{3}-[0-1][0-9]-[0-3][0-9])`)
	datedNameRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	slugStripRe   = regexp.MustCompile(`[^a-zA-Z0-9/.\-]`)
)

// Source reads raw note bytes by vault-relative path.
type Source interface {
	Read(path string) ([]byte, error)
}

// Fingerprint identifies one version of one note.
type Fingerprint struct {
	Created  int64
	Modified int64
	Slug     string
}

// String renders the fingerprint as created:modified+slug.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%d:%d%s", f.Created, f.Modified, f.Slug)
}

// Note is one note file: identity metadata plus lazily loaded lines.
type Note struct {
	// Path is vault-relative and slash-separated, extension included.
	Path     string
	Dir      string
	Name     string
	Created  time.Time
	Modified time.Time
	IsRoot   bool

	slug   string
	src    Source
	lines  []string
	loaded bool
}

// NewNote builds a note for path. dirnames holds the lowercased names of the
// vault's top-level directories and drives the root-file rule.
func NewNote(p string, modified time.Time, dirnames map[string]struct{}, src Source) *Note {
	p = path.Clean(strings.TrimPrefix(p, "/"))
	n := &Note{
		Path:     p,
		Dir:      path.Dir(p),
		Name:     path.Base(p),
		Modified: modified,
		src:      src,
	}
	if n.Dir == "." {
		n.Dir = ""
	}
	n.Created = inferCreated(n.Name, modified)
	n.IsRoot = isRootName(n.Dir, stripExt(n.Name), dirnames)
	n.slug = makeSlug(n)
	return n
}

// NewEmptyNote builds a loaded note without content, used for notes that do
// not exist on disk yet.
func NewEmptyNote(p string, now time.Time, dirnames map[string]struct{}, src Source) *Note {
	n := NewNote(p, now, dirnames, src)
	n.loaded = true
	return n
}

func inferCreated(name string, modified time.Time) time.Time {
	m := leadingDateRe.FindStringSubmatch(name)
	if m == nil {
		return modified
	}
	t, err := time.ParseInLocation(DateLayout, m[1], time.Local)
	if err != nil {
		return modified
	}
	return t
}

func isRootName(dir, stem string, dirnames map[string]struct{}) bool {
	stem = strings.ToLower(stem)
	if _, ok := dirnames[stem]; ok {
		return true
	}
	if dir != "" && strings.ToLower(path.Base(dir)) == stem {
		return true
	}
	return !datedNameRe.MatchString(stem)
}

func makeSlug(n *Note) string {
	base := stripExt(n.Path)
	if n.IsRoot {
		base = stripExt(n.Name)
	}
	base = norm.NFKC.String(base)
	return strings.ToLower(slugStripRe.ReplaceAllString(base, ""))
}

func stripExt(p string) string {
	return strings.TrimSuffix(p, path.Ext(p))
}

// Slug is the note's taxonomy key.
func (n *Note) Slug() string { return n.slug }

// Permalink is the vault-relative path without extension.
func (n *Note) Permalink() string { return stripExt(n.Path) }

// Title is the display title used in taxonomy blocks.
func (n *Note) Title() string { return strings.TrimSpace(strings.Trim(n.Path, "#")) }

// Fingerprint identifies this exact version of the note.
func (n *Note) Fingerprint() Fingerprint {
	return Fingerprint{
		Created:  n.Created.UnixNano(),
		Modified: n.Modified.UnixNano(),
		Slug:     n.slug,
	}
}

// IsDated reports whether the note name starts with a YYYY-MM-DD date.
func (n *Note) IsDated() bool { return datedNameRe.MatchString(n.Name) }

// Load reads and caches the note content on first call. Content that is not
// valid UTF-8 is cached as empty and reported with apperr.ErrUnreadableContent.
func (n *Note) Load() ([]string, error) {
	if n.loaded {
		return n.lines, nil
	}
	if n.src == nil {
		n.loaded = true
		return nil, nil
	}
	data, err := n.src.Read(n.Path)
	if err != nil {
		return nil, err
	}
	n.loaded = true
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		n.lines = nil
		return nil, fmt.Errorf("note %s: %w", n.Path, apperr.ErrUnreadableContent)
	}
	n.lines = SplitLines(string(data))
	return n.lines, nil
}

// Lines returns the cached content, or nil when the note was never loaded.
func (n *Note) Lines() []string { return n.lines }

// SetLines replaces the note content wholesale.
func (n *Note) SetLines(lines []string) {
	n.lines = lines
	n.loaded = true
}

// SplitLines splits text into lines without terminators. A trailing newline
// does not produce an empty last line.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
