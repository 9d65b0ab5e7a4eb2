package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/todobuddy/internal/apperr"
	"github.com/starford/todobuddy/internal/index"
	"github.com/starford/todobuddy/internal/models"
)

var mtime = time.Date(2024, 5, 3, 8, 0, 0, 0, time.Local)

func loaded(path string, lines ...string) *models.Note {
	n := models.NewNote(path, mtime, nil, nil)
	n.SetLines(lines)
	return n
}

func TestRender_HeaderAndBlocks(t *testing.T) {
	tax := index.NewTaxonomy()
	tag := loaded("projects/garden.md", "# Garden", "notes")
	day := loaded("journal/2024-05-02.md")
	other := loaded("ideas.md")

	tax.Add(day, "garden", "- [ ] dig #garden", 4, 0)
	tax.Add(day, "garden", "sub", 4, 1)
	tax.Add(other, "garden", "raised beds [[garden]]", 10, 0)

	got, err := Render(tag, tax)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"# garden",
		"",
		"## [[garden]]",
		"(2 lines)",
		"",
		"## [[journal/2024-05-02:4]]",
		"- [ ] dig #garden",
		"\tsub",
		"",
		"## [[ideas:10]]",
		"raised beds [[garden]]",
		"",
	}, got)
}

func TestHeader_EmptyFile(t *testing.T) {
	assert.Equal(t, "(file empty)", Header(loaded("x.md"))[3])
}

func TestRender_MissingTagIsNotFound(t *testing.T) {
	_, err := Render(loaded("lonely.md", "text"), index.NewTaxonomy())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCompanionPath(t *testing.T) {
	assert.Equal(t, ".garden.md", CompanionPath(loaded("garden.md")))
	assert.Equal(t, "projects/.garden.md", CompanionPath(loaded("projects/garden.md")))
}
