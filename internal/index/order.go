package index

import (
	"regexp"
	"sort"
	"strings"

	"github.com/starford/todobuddy/internal/models"
)

var (
	dateLikeRe = regexp.MustCompile(`\d{4}(?:-?[0-9]{2}){0,2}`)
	nonAlphaRe = regexp.MustCompile(`[^a-zA-Z]+`)
)

// ScanKey is the sort key of a slug: its date-like digit runs, or "0000"
// when there are none, followed by its letters.
func ScanKey(slug string) string {
	number := strings.Join(dateLikeRe.FindAllString(slug, -1), "")
	if number == "" {
		number = "0000"
	}
	return number + nonAlphaRe.ReplaceAllString(slug, "")
}

// SortForScan returns notes ordered by descending ScanKey. Ties keep their
// input order.
func SortForScan(notes []*models.Note) []*models.Note {
	out := make([]*models.Note, len(notes))
	copy(out, notes)
	sort.SliceStable(out, func(i, j int) bool {
		return ScanKey(out[i].Slug()) > ScanKey(out[j].Slug())
	})
	return out
}
