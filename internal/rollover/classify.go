package rollover

import (
	"strings"

	"github.com/starford/todobuddy/internal/parser"
)

// Bucket names, in output order.
const (
	BucketHabits        = "habits"
	BucketNewFoundToday = "new-found-today"
	BucketToday         = "today"
	BucketDefault       = "default"
)

// Buckets holds the carried-over lines by group.
type Buckets struct {
	Habits        []string
	NewFoundToday []string
	Today         []string
	Default       []string
}

func (b *Buckets) get(name string) *[]string {
	switch name {
	case BucketHabits:
		return &b.Habits
	case BucketNewFoundToday:
		return &b.NewFoundToday
	case BucketToday:
		return &b.Today
	default:
		return &b.Default
	}
}

// Classify sorts the body of a previous note into buckets. Lines that are
// neither habits nor open tasks are dropped.
func Classify(lines []string, m *DateMatcher) *Buckets {
	b := &Buckets{}
	body := parser.Body(lines)
	for i := range body {
		name, line, ok := classifyLine(body[i], m)
		if !ok {
			continue
		}
		bucket := b.get(name)
		*bucket = append(*bucket, line)
		if heading, found := headingAbove(body, i); found {
			last := len(*bucket) - 1
			*bucket = append((*bucket)[:last], heading, (*bucket)[last])
		}
	}
	return b
}

func classifyLine(line string, m *DateMatcher) (string, string, bool) {
	if IsHabit(line) {
		return BucketHabits, m.RewriteRelative(parser.MarkUndoneTask(line)), true
	}
	if !parser.IsUndone(line) {
		return "", "", false
	}
	switch {
	case HasToday(line):
		return BucketToday, line, true
	case m.HasRelative(line):
		return BucketNewFoundToday, m.RewriteRelative(parser.MarkUndoneTask(line)), true
	}
	if tag, ok := m.PastDate(line); ok {
		return BucketNewFoundToday, strings.ReplaceAll(line, tag, TagToday), true
	}
	return BucketDefault, line, true
}

// headingAbove returns the heading directly above lines[i], looking past one
// blank line.
func headingAbove(lines []string, i int) (string, bool) {
	j := i - 1
	if j < 0 {
		return "", false
	}
	if parser.IsBlank(lines[j]) && j > 0 {
		j--
	}
	if parser.IsHeading(lines[j]) {
		return lines[j], true
	}
	return "", false
}

// CarryOver joins the buckets: habits, blank, new-found-today then today,
// blank, default.
func (b *Buckets) CarryOver() []string {
	out := make([]string, 0, len(b.Habits)+len(b.NewFoundToday)+len(b.Today)+len(b.Default)+2)
	out = append(out, b.Habits...)
	out = append(out, "")
	out = append(out, b.NewFoundToday...)
	out = append(out, b.Today...)
	out = append(out, "")
	return append(out, b.Default...)
}

// PostponeUndone returns lines with every open task marked postponed.
func PostponeUndone(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if parser.IsUndone(line) {
			line = parser.MarkPostponedTask(line)
		}
		out[i] = line
	}
	return out
}
