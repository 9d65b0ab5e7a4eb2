// Package parser classifies note lines and extracts tag occurrences with
// their indented descendant lines.
package parser

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/starford/todobuddy/internal/models"
)

// DefaultTabSize is the tab width used when measuring indentation.
const DefaultTabSize = 4

// LevelTrace is the slog level of per-line scanner decisions.
const LevelTrace = slog.LevelDebug - 4

var (
	wikiTagRe = regexp.MustCompile(`\[\[([^\]]+)\]\]`)
	hashTagRe = regexp.MustCompile(`(?:^|[^a-zA-Z0-9/\[\]\(\)])#([a-zA-Z][^#\s:,\]\)%\.']+)`)
)

// Occurrence is one tagged line, or one descendant line inherited by a tag.
type Occurrence struct {
	Tag   string
	Slug  string
	Line  int // 1-based source line
	Level int // 0 for the tagged line, 1 for any descendant
	Text  string
}

// Scanner extracts tag occurrences from notes. It holds no per-note state
// and is safe for concurrent use.
type Scanner struct {
	filter  string
	wikiRe  *regexp.Regexp
	hashRe  *regexp.Regexp
	tabSize int
	logger  *slog.Logger
}

// NewScanner returns a scanner. A non-empty filter restricts extraction to
// tags matching it case-insensitively; wiki tags then match as a prefix.
func NewScanner(filter string, tabSize int) *Scanner {
	if tabSize <= 0 {
		tabSize = DefaultTabSize
	}
	s := &Scanner{
		filter:  filter,
		wikiRe:  wikiTagRe,
		hashRe:  hashTagRe,
		tabSize: tabSize,
		logger:  slog.New(slog.DiscardHandler),
	}
	if filter != "" {
		q := regexp.QuoteMeta(filter)
		s.wikiRe = regexp.MustCompile(`(?i)\[\[(` + q + `)`)
		s.hashRe = regexp.MustCompile(`(?i)(?:^|[^a-zA-Z0-9/\[\]\(\)])#(` + q + `)`)
	}
	return s
}

// WithLogger sets the logger used for trace output and returns s.
func (s *Scanner) WithLogger(logger *slog.Logger) *Scanner {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Filter returns the tag filter, if any.
func (s *Scanner) Filter() string { return s.filter }

// Scan returns the occurrences found in the note's loaded lines, in source
// order. Each tagged line is followed by its descendants.
func (s *Scanner) Scan(note *models.Note) []Occurrence {
	lines := note.Lines()
	slug := note.Slug()
	var out []Occurrence
	for i, line := range lines {
		if !IsEligible(line) {
			continue
		}
		tags := s.Tags(line)
		if len(tags) == 0 {
			continue
		}
		for _, tag := range tags {
			if strings.ToLower(tag) == slug {
				s.logger.Log(context.Background(), LevelTrace, "scan: self reference skipped",
					slog.String("slug", slug), slog.Int("line", i+1))
				continue
			}
			out = append(out, Occurrence{
				Tag:  tag,
				Slug: slug,
				Line: i + 1,
				Text: Reindent(line, 0),
			})
			for _, d := range s.descendants(lines, i) {
				d.Tag = tag
				d.Slug = slug
				out = append(out, d)
			}
			s.logger.Log(context.Background(), LevelTrace, "scan: tag found",
				slog.String("tag", tag), slog.String("slug", slug), slog.Int("line", i+1))
		}
	}
	return out
}

// Tags returns the distinct tags on line: wiki tags first, then hashtags.
func (s *Scanner) Tags(line string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(matches [][]string) {
		for _, m := range matches {
			key := strings.ToLower(m[1])
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, m[1])
		}
	}
	add(s.wikiRe.FindAllStringSubmatch(line, -1))
	add(s.hashRe.FindAllStringSubmatch(line, -1))
	return out
}

// descendants collects the eligible lines indented deeper than lines[owner],
// stopping at the first non-blank line that is not.
func (s *Scanner) descendants(lines []string, owner int) []Occurrence {
	parent := IndentColumns(lines[owner], s.tabSize)
	var out []Occurrence
	for j := owner + 1; j < len(lines); j++ {
		line := lines[j]
		if IsBlank(line) {
			continue
		}
		if IndentColumns(line, s.tabSize) <= parent {
			break
		}
		if !IsEligible(line) {
			continue
		}
		out = append(out, Occurrence{
			Line:  j + 1,
			Level: 1,
			Text:  strings.Trim(line, "\t "),
		})
	}
	return out
}
