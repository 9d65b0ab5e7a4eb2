package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// Checkbox marks recognised inside "- [?] " task prefixes.
const (
	MarkUndone     = ' '
	MarkInProgress = '~'
	MarkDone       = 'x'
	MarkPostponed  = '/'
)

var (
	undoneRe     = regexp.MustCompile(`^\s*-\s\[[ ~]\](?:\s|$)|^[\*\[\]\t\s-]*TODO\b`)
	legacyDoneRe = regexp.MustCompile(`^[\*\[\]\t\s-]*DONE\b`)
	legacyTodoRe = regexp.MustCompile(`^([\*\[\]\t\s-]*)TODO\b\s*`)
	legacyDoRe   = regexp.MustCompile(`^([\*\[\]\t\s-]*)DONE\b`)
	checkboxRe   = regexp.MustCompile(`^(\s*)-\s\[.\]`)
	headingRe    = regexp.MustCompile(`^#{1,6}\s`)
)

// IsDone reports whether line is a done or postponed task. The checkbox test
// is a plain substring match.
func IsDone(line string) bool {
	return strings.Contains(line, "- [x] ") ||
		strings.Contains(line, "- [X] ") ||
		strings.Contains(line, "- [/] ") ||
		legacyDoneRe.MatchString(line)
}

// IsUndone reports whether line is an open task: an empty or in-progress
// checkbox, or a legacy TODO keyword.
func IsUndone(line string) bool {
	return undoneRe.MatchString(line)
}

// IsEligible reports whether line may carry tags.
func IsEligible(line string) bool {
	return line != "" && !IsDone(line)
}

// IsHeading reports whether line is an ATX heading.
func IsHeading(line string) bool {
	return headingRe.MatchString(line)
}

// IsBlank reports whether line holds only whitespace.
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// MarkUndoneTask rewrites a task line to its open form.
func MarkUndoneTask(line string) string {
	line = legacyDoRe.ReplaceAllString(line, "${1}TODO")
	return checkboxRe.ReplaceAllString(line, "${1}- [ ]")
}

// MarkPostponedTask rewrites a task line to the postponed mark. A legacy TODO
// keyword is replaced by a "- [/]" checkbox at the line's indentation.
func MarkPostponedTask(line string) string {
	if checkboxRe.MatchString(line) {
		line = legacyTodoRe.ReplaceAllString(line, "${1}")
		return checkboxRe.ReplaceAllString(line, "${1}- [/]")
	}
	m := legacyTodoRe.FindStringIndex(line)
	if m == nil {
		return line
	}
	indent := line[:len(line)-len(strings.TrimLeftFunc(line, unicode.IsSpace))]
	return indent + "- [/] " + line[m[1]:]
}

// IndentColumns counts leading whitespace columns with tabs expanded to
// tabSize. A whitespace-only line counts as zero.
func IndentColumns(line string, tabSize int) int {
	if tabSize <= 0 {
		tabSize = 4
	}
	col := 0
	for _, r := range line {
		switch {
		case r == '\t':
			col += tabSize - col%tabSize
		case unicode.IsSpace(r):
			col++
		default:
			return col
		}
	}
	return 0
}

// Reindent replaces leading whitespace with one tab per level and drops any
// trailing line terminator.
func Reindent(line string, level int) string {
	line = strings.TrimRight(line, "\r\n")
	return strings.Repeat("\t", level) + strings.TrimLeftFunc(line, unicode.IsSpace)
}
