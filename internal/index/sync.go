package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/starford/todobuddy/internal/apperr"
	"github.com/starford/todobuddy/internal/models"
	"github.com/starford/todobuddy/internal/parser"
)

// BuildResult summarises one Build pass.
type BuildResult struct {
	Parsed      int
	Unreadable  int
	Occurrences int
}

// Build scans notes and merges their occurrences into tax.
//   - notes are loaded and scanned concurrently, each into its own slice
//   - slices are merged in SortForScan order by the calling goroutine
//
// Notes with unreadable content are treated as empty. Any other load error
// aborts the build.
func Build(ctx context.Context, notes []*models.Note, sc *parser.Scanner, tax *Taxonomy, logger *slog.Logger) (BuildResult, error) {
	ordered := SortForScan(notes)
	results := make([][]parser.Occurrence, len(ordered))
	unreadable := make([]bool, len(ordered))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, n := range ordered {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			if _, err := n.Load(); err != nil {
				if !errors.Is(err, apperr.ErrUnreadableContent) {
					return fmt.Errorf("scan: load %s: %w", n.Path, err)
				}
				logger.Warn("scan: unreadable content, treating as empty",
					slog.String("path", n.Path))
				unreadable[i] = true
			}
			results[i] = sc.Scan(n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BuildResult{}, err
	}

	var res BuildResult
	for i, n := range ordered {
		res.Parsed++
		if unreadable[i] {
			res.Unreadable++
		}
		for _, o := range results[i] {
			if tax.AddOccurrence(n, o) {
				res.Occurrences++
			}
		}
		logger.Debug("scan: parsed", slog.String("slug", n.Slug()), slog.Int("occurrences", len(results[i])))
	}
	return res, nil
}
