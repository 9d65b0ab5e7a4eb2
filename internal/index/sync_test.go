package index

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/todobuddy/internal/models"
	"github.com/starford/todobuddy/internal/parser"
)

type fakeSource map[string]string

func (f fakeSource) Read(p string) ([]byte, error) {
	s, ok := f[p]
	if !ok {
		return nil, errors.New("read " + p + ": missing")
	}
	return []byte(s), nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestBuild_MergesInScanOrder(t *testing.T) {
	src := fakeSource{
		"2024-05-01.md": "- [ ] older #garden\n",
		"2024-05-02.md": "- [ ] newer #garden\n\t- sub step\n",
		"garden.md":     "# Garden\n- [[garden]] self reference\n",
	}
	var notes []*models.Note
	for _, p := range []string{"garden.md", "2024-05-01.md", "2024-05-02.md"} {
		notes = append(notes, models.NewNote(p, base, nil, src))
	}

	tax := NewTaxonomy()
	res, err := Build(context.Background(), notes, parser.NewScanner("", 4), tax, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Parsed)
	assert.Equal(t, 3, res.Occurrences)

	blocks, err := tax.Blocks("garden")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "2024-05-02", blocks[0].Slug)
	assert.Equal(t, []string{"- [ ] newer #garden", "\t- sub step"}, blocks[0].Content)
	assert.Equal(t, "2024-05-01", blocks[1].Slug)
}

func TestBuild_UnreadableNoteTreatedAsEmpty(t *testing.T) {
	src := fakeSource{
		"bin.md":  "\xff\xfe#tag",
		"text.md": "#tag here",
	}
	notes := []*models.Note{
		models.NewNote("bin.md", base, nil, src),
		models.NewNote("text.md", base, nil, src),
	}
	tax := NewTaxonomy()
	res, err := Build(context.Background(), notes, parser.NewScanner("", 4), tax, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Unreadable)

	blocks, err := tax.Blocks("tag")
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "text", blocks[0].Slug)
}

func TestBuild_ReadErrorAborts(t *testing.T) {
	notes := []*models.Note{models.NewNote("gone.md", base, nil, fakeSource{})}
	_, err := Build(context.Background(), notes, parser.NewScanner("", 4), NewTaxonomy(), quietLogger())
	assert.Error(t, err)
}

func TestBuild_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := fakeSource{"a.md": "#x"}
	notes := []*models.Note{models.NewNote("a.md", base.Add(time.Minute), nil, src)}
	_, err := Build(ctx, notes, parser.NewScanner("", 4), NewTaxonomy(), quietLogger())
	assert.ErrorIs(t, err, context.Canceled)
}
