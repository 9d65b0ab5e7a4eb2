package rollover

import (
	"regexp"
	"strings"
	"time"

	"github.com/starford/todobuddy/internal/models"
)

// Date tag vocabulary.
const (
	TagPrefix   = "@"
	TagToday    = "@today"
	TagTomorrow = "@tomorrow"
)

var (
	explicitDateRe = regexp.MustCompile(`@[0-9]{4}-[0-9]{2}-[0-9]{2}`)
	todayTagRe     = regexp.MustCompile(`(?i)@today\b`)
	habitTagRe     = regexp.MustCompile(`(?i)@(?:habit|daily)\b`)
)

// DateMatcher recognises date tags relative to one day.
type DateMatcher struct {
	today      time.Time
	relativeRe *regexp.Regexp
}

// NewDateMatcher returns a matcher for today. The relative tags are
// @tomorrow, today's weekday name and today's explicit date.
func NewDateMatcher(today time.Time) *DateMatcher {
	today = dateOnly(today)
	alternatives := []string{
		regexp.QuoteMeta(TagTomorrow),
		regexp.QuoteMeta(TagPrefix + today.Weekday().String()),
		regexp.QuoteMeta(TagPrefix + today.Format(models.DateLayout)),
	}
	return &DateMatcher{
		today:      today,
		relativeRe: regexp.MustCompile(`(?i)(?:` + strings.Join(alternatives, "|") + `)\b`),
	}
}

// HasRelative reports whether line carries a tag that now means today.
func (m *DateMatcher) HasRelative(line string) bool {
	return m.relativeRe.MatchString(line)
}

// RewriteRelative replaces every tag that now means today with @today.
func (m *DateMatcher) RewriteRelative(line string) string {
	return m.relativeRe.ReplaceAllLiteralString(line, TagToday)
}

// PastDate returns the first explicit date tag on line that names a day
// strictly before today.
func (m *DateMatcher) PastDate(line string) (string, bool) {
	for _, tag := range explicitDateRe.FindAllString(line, -1) {
		d, err := time.ParseInLocation(models.DateLayout, strings.TrimPrefix(tag, TagPrefix), m.today.Location())
		if err == nil && d.Before(m.today) {
			return tag, true
		}
	}
	return "", false
}

// HasToday reports whether line already carries @today.
func HasToday(line string) bool {
	return todayTagRe.MatchString(line)
}

// IsHabit reports whether line repeats daily.
func IsHabit(line string) bool {
	return habitTagRe.MatchString(line)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
