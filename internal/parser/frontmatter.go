package parser

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const frontmatterDelim = "---"

// Frontmatter is the ordered key/value block at the top of a note.
type Frontmatter = orderedmap.OrderedMap[string, string]

// NewFrontmatter returns an empty frontmatter map.
func NewFrontmatter() *Frontmatter {
	return orderedmap.New[string, string]()
}

// ParseFrontmatter reads the block opened by a "---" line at index 0 and
// closed by the next "---" line. It returns the values and the index of the
// closing delimiter, or -1 when the block is absent or never closed.
func ParseFrontmatter(lines []string) (*Frontmatter, int) {
	fm := NewFrontmatter()
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != frontmatterDelim {
		return fm, -1
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelim {
			return fm, i
		}
		key, value, ok := strings.Cut(lines[i], ":")
		if !ok {
			continue
		}
		fm.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return NewFrontmatter(), -1
}

// Body returns the lines after the frontmatter block.
func Body(lines []string) []string {
	_, end := ParseFrontmatter(lines)
	return lines[end+1:]
}

// StripFrontmatter returns the lines after the frontmatter block, also
// dropping one blank line that directly follows it.
func StripFrontmatter(lines []string) []string {
	_, end := ParseFrontmatter(lines)
	if end < 0 {
		return lines
	}
	rest := lines[end+1:]
	if len(rest) > 0 && IsBlank(rest[0]) {
		rest = rest[1:]
	}
	return rest
}

// RenderFrontmatter renders fm between delimiters followed by a blank line.
func RenderFrontmatter(fm *Frontmatter) []string {
	out := make([]string, 0, fm.Len()+3)
	out = append(out, frontmatterDelim)
	for pair := fm.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key+": "+pair.Value)
	}
	return append(out, frontmatterDelim, "")
}
