package index

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/starford/todobuddy/internal/apperr"
	"github.com/starford/todobuddy/internal/models"
	"github.com/starford/todobuddy/internal/parser"
)

// Block is the aggregated content one note version contributes to a tag.
type Block struct {
	Permalink  string
	Title      string
	Slug       string
	LineNumber int
	Content    []string
}

// Group is the list of blocks recorded for one fingerprint under a tag.
type Group struct {
	Fingerprint models.Fingerprint
	Blocks      []*Block
}

type fingerprintBlocks = orderedmap.OrderedMap[models.Fingerprint, []*Block]

// Taxonomy maps tag keys to the blocks of every note version that mentions
// them. Tags and blocks keep first-seen order. It is not safe for concurrent
// mutation; Build merges scan results through a single writer.
type Taxonomy struct {
	tags  *orderedmap.OrderedMap[string, *fingerprintBlocks]
	lines int
}

// NewTaxonomy returns an empty taxonomy.
func NewTaxonomy() *Taxonomy {
	return &Taxonomy{tags: orderedmap.New[string, *fingerprintBlocks]()}
}

// NormalizeTag returns the taxonomy key for tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(norm.NFC.String(tag))
}

// Add records line under tag for note. The first line recorded for a
// (tag, fingerprint) pair opens a block; later lines extend it. Tags equal to
// the note's own slug are ignored. It reports whether the line was recorded.
func (t *Taxonomy) Add(note *models.Note, tag, line string, lineNumber, level int) bool {
	key := NormalizeTag(tag)
	if key == note.Slug() {
		return false
	}
	line = parser.Reindent(line, level)

	byFingerprint, ok := t.tags.Get(key)
	if !ok {
		byFingerprint = orderedmap.New[models.Fingerprint, []*Block]()
		t.tags.Set(key, byFingerprint)
	}

	fp := note.Fingerprint()
	blocks, ok := byFingerprint.Get(fp)
	if ok && len(blocks) > 0 {
		last := blocks[len(blocks)-1]
		last.Content = append(last.Content, line)
	} else {
		byFingerprint.Set(fp, []*Block{{
			Permalink:  note.Permalink(),
			Title:      note.Title(),
			Slug:       note.Slug(),
			LineNumber: lineNumber,
			Content:    []string{line},
		}})
	}
	t.lines++
	return true
}

// AddOccurrence records a scanner occurrence for note.
func (t *Taxonomy) AddOccurrence(note *models.Note, o parser.Occurrence) bool {
	return t.Add(note, o.Tag, o.Text, o.Line, o.Level)
}

// Has reports whether tag has any recorded entries.
func (t *Taxonomy) Has(tag string) bool {
	_, ok := t.tags.Get(NormalizeTag(tag))
	return ok
}

// Groups returns the fingerprint groups recorded for tag in first-seen order.
func (t *Taxonomy) Groups(tag string) ([]Group, error) {
	byFingerprint, ok := t.tags.Get(NormalizeTag(tag))
	if !ok {
		return nil, fmt.Errorf("taxonomy: tag %q: %w", tag, apperr.ErrNotFound)
	}
	out := make([]Group, 0, byFingerprint.Len())
	for pair := byFingerprint.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Group{Fingerprint: pair.Key, Blocks: pair.Value})
	}
	return out, nil
}

// Blocks returns every block recorded for tag in first-seen order.
func (t *Taxonomy) Blocks(tag string) ([]*Block, error) {
	groups, err := t.Groups(tag)
	if err != nil {
		return nil, err
	}
	var out []*Block
	for _, g := range groups {
		out = append(out, g.Blocks...)
	}
	return out, nil
}

// Tags returns all tag keys in first-seen order.
func (t *Taxonomy) Tags() []string {
	out := make([]string, 0, t.tags.Len())
	for pair := t.tags.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Len returns the number of tag keys.
func (t *Taxonomy) Len() int { return t.tags.Len() }

// LinesRecorded returns the number of lines added across all tags.
func (t *Taxonomy) LinesRecorded() int { return t.lines }
