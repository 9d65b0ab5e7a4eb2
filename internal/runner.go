package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/todobuddy/internal/apperr"
	"github.com/starford/todobuddy/internal/checksum"
	"github.com/starford/todobuddy/internal/index"
	"github.com/starford/todobuddy/internal/models"
	"github.com/starford/todobuddy/internal/parser"
	"github.com/starford/todobuddy/internal/render"
	"github.com/starford/todobuddy/internal/rollover"
	"github.com/starford/todobuddy/internal/stats"
	"github.com/starford/todobuddy/internal/storage"
	"github.com/starford/todobuddy/internal/watch"
)

// runner carries the collaborators of one invocation.
type runner struct {
	cfg    *Config
	opts   Options
	store  *storage.FS
	logger *slog.Logger
	stats  *stats.Stats
	stdout io.Writer
	now    func() time.Time
}

func (r *runner) discover() (*models.Catalog, error) {
	stop := r.stats.Start("discover")
	defer stop()
	cat, err := storage.Discover(r.store, r.cfg.Vault.Extension)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	r.logger.Debug("discover: notes found", slog.Int("count", cat.Len()))
	return cat, nil
}

// today runs the rollover alone. Having no previous journal note is not a
// failure.
func (r *runner) today() error {
	cat, err := r.discover()
	if err != nil {
		return err
	}
	_, err = r.rollover(cat)
	if errors.Is(err, apperr.ErrNotFound) {
		r.logger.Info("rollover: no previous journal note, try again tomorrow",
			slog.String("reason", err.Error()))
		return nil
	}
	return err
}

// aggregate regenerates the companions, running the rollover first when
// withRollover is set. Having no previous journal note only skips the
// rollover. A journal that was already rolled over still gets its companions
// regenerated, and the guard error is returned afterwards.
func (r *runner) aggregate(ctx context.Context, withRollover bool) error {
	cat, err := r.discover()
	if err != nil {
		return err
	}
	var guardErr error
	if r.opts.Tag != "" {
		if cat, err = r.filterByTag(cat); err != nil {
			return err
		}
	} else if withRollover {
		if _, err := r.rollover(cat); err != nil {
			switch {
			case errors.Is(err, apperr.ErrNotFound):
				r.logger.Info("rollover: skipped", slog.String("reason", err.Error()))
			case errors.Is(err, apperr.ErrAlreadyProcessed):
				r.logger.Warn("rollover: already processed", slog.String("reason", err.Error()))
				guardErr = err
			default:
				return err
			}
		}
	}

	tax, err := r.build(ctx, cat.Notes())
	if err != nil {
		return err
	}
	if r.opts.Verbosity >= 2 {
		r.dumpTaxonomy(tax)
	}
	if err := r.emit(cat, tax); err != nil {
		return err
	}
	return guardErr
}

// single scans one note and prints every tag it mentions.
func (r *runner) single(ctx context.Context) error {
	want := strings.TrimPrefix(path.Clean(filepath.ToSlash(r.opts.File)), "/")
	ok, err := r.store.Exists(want)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("file %s: %w", r.opts.File, apperr.ErrNotFound)
	}
	cat, err := r.discover()
	if err != nil {
		return err
	}
	var target *models.Note
	for _, n := range cat.Notes() {
		if n.Path == want {
			target = n
			break
		}
	}
	if target == nil {
		return fmt.Errorf("file %s: %w", r.opts.File, apperr.ErrNotFound)
	}

	tax, err := r.build(ctx, []*models.Note{target})
	if err != nil {
		return err
	}
	for _, tag := range tax.Tags() {
		lines, err := render.Collect(tax, tag)
		if err != nil {
			return err
		}
		doc := append([]string{"# " + tag, ""}, lines...)
		if _, err := io.WriteString(r.stdout, checksum.Join(doc)); err != nil {
			return fmt.Errorf("output: print: %w", err)
		}
	}
	return nil
}

func (r *runner) watch(ctx context.Context) error {
	if r.store.Root() == "" {
		return errors.New("watch: vault is not on the local file system")
	}
	return watch.Watch(ctx, r.store.Root(), r.cfg.Vault.Extension, watch.DefaultDebounce, r.logger,
		func(ctx context.Context, changed []string) error {
			r.logger.Info("watcher: notes changed", slog.Int("count", len(changed)))
			return r.aggregate(ctx, false)
		})
}

func (r *runner) rollover(cat *models.Catalog) (*rollover.Result, error) {
	dirnames, err := storage.DirNames(r.store)
	if err != nil {
		return nil, fmt.Errorf("rollover: %w", err)
	}
	todaySink, previousSink := r.rolloverSinks()
	eng := rollover.New(cat, todaySink, previousSink,
		rollover.Config{
			TitlePrefix:  r.cfg.Journal.TitlePrefix,
			JournalTag:   r.cfg.Journal.Tag,
			LookbackDays: r.cfg.Journal.LookbackDays,
			Extension:    r.cfg.Vault.Extension,
			Force:        r.opts.Force || r.opts.DryRun,
		},
		rollover.WithLogger(r.logger),
		rollover.WithNoteFactory(func(p string, now time.Time) *models.Note {
			return models.NewEmptyNote(p, now, dirnames, r.store)
		}),
	)

	stop := r.stats.Start("rollover")
	res, err := eng.Run(r.now())
	stop()
	if err != nil {
		return res, err
	}
	r.count(res.TodayOutcome)
	r.count(res.PreviousOutcome)
	if r.opts.DryRun {
		if _, err := io.WriteString(r.stdout, checksum.Join(res.TodayLines)); err != nil {
			return res, fmt.Errorf("rollover: print: %w", err)
		}
	}
	if res.Context.TodayCreated {
		cat.Add(res.Context.TodayNote)
	}
	r.logger.Info("rollover: done",
		slog.String("today", res.Context.TodayNote.Path),
		slog.String("previous", res.Context.Yesterday.Path))
	return res, nil
}

// filterByTag keeps the notes that mention the tag or are named after it.
func (r *runner) filterByTag(cat *models.Catalog) (*models.Catalog, error) {
	tag := strings.ToLower(r.opts.Tag)
	out := models.NewCatalog()
	for _, n := range cat.Notes() {
		stem := strings.TrimSuffix(n.Name, path.Ext(n.Name))
		if strings.EqualFold(stem, tag) {
			out.Add(n)
			continue
		}
		lines, err := n.Load()
		if err != nil {
			r.logger.Warn("scan: skipping note", slog.String("path", n.Path), slog.String("error", err.Error()))
			continue
		}
		if mentions(lines, tag) {
			out.Add(n)
		}
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("tag %q: no notes: %w", r.opts.Tag, apperr.ErrNotFound)
	}
	r.logger.Debug("discover: filtered by tag", slog.String("tag", r.opts.Tag), slog.Int("count", out.Len()))
	return out, nil
}

func mentions(lines []string, tag string) bool {
	for _, line := range lines {
		l := strings.ToLower(line)
		if strings.Contains(l, "[["+tag) || strings.Contains(l, "#"+tag) {
			return true
		}
	}
	return false
}

func (r *runner) build(ctx context.Context, notes []*models.Note) (*index.Taxonomy, error) {
	stop := r.stats.Start("scan")
	defer stop()
	sc := parser.NewScanner(r.opts.Tag, r.cfg.Parser.TabSize).WithLogger(r.logger)
	tax := index.NewTaxonomy()
	res, err := index.Build(ctx, notes, sc, tax, r.logger)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("scan: done",
		slog.String("filter", sc.Filter()),
		slog.Int("notes", res.Parsed),
		slog.Int("occurrences", res.Occurrences))
	r.stats.Add(stats.FilesProcessed, len(notes))
	r.stats.Add(stats.FilesParsed, res.Parsed-res.Unreadable)
	r.stats.Add(stats.FilesUnread, res.Unreadable)
	r.stats.Add(stats.TagsFound, tax.Len())
	r.stats.Add(stats.LinesRecorded, tax.LinesRecorded())
	return tax, nil
}

// emit saves one companion per note that names a tag. In filter mode with
// no such note, the collected blocks are printed instead.
func (r *runner) emit(cat *models.Catalog, tax *index.Taxonomy) error {
	stop := r.stats.Start("output")
	defer stop()
	sink := r.companionSink()
	emitted := 0
	for _, n := range cat.Notes() {
		if !tax.Has(n.Slug()) {
			continue
		}
		lines, err := render.Render(n, tax)
		if err != nil {
			return fmt.Errorf("output: %s: %w", n.Path, err)
		}
		p := render.CompanionPath(n)
		out, err := sink.Save(p, lines)
		if err != nil {
			return fmt.Errorf("output: %s: %w", p, err)
		}
		r.count(out)
		emitted++
	}
	if r.opts.Tag == "" || emitted > 0 {
		return nil
	}

	lines, err := render.Collect(tax, r.opts.Tag)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return fmt.Errorf("tag %q: no blocks: %w", r.opts.Tag, apperr.ErrNotFound)
	}
	if r.opts.Write && !r.opts.DryRun {
		r.logger.Info("output: no note named after tag, nothing written", slog.String("tag", r.opts.Tag))
		return nil
	}
	if _, err := io.WriteString(r.stdout, checksum.Join(lines)); err != nil {
		return fmt.Errorf("output: print: %w", err)
	}
	r.count(storage.Printed)
	return nil
}

func (r *runner) dumpTaxonomy(tax *index.Taxonomy) {
	for _, tag := range tax.Tags() {
		blocks, err := tax.Blocks(tag)
		if err != nil {
			continue
		}
		lines := 0
		for _, b := range blocks {
			lines += len(b.Content)
		}
		r.logger.Info("taxonomy: tag",
			slog.String("tag", tag), slog.Int("blocks", len(blocks)), slog.Int("lines", lines))
	}
}

func (r *runner) companionSink() storage.Sink {
	switch {
	case r.opts.DryRun:
		return storage.NewDryRunSink(r.logger)
	case r.opts.Write:
		return storage.NewDiskSink(r.store, r.logger)
	default:
		return storage.NewPreviewSink(r.stdout)
	}
}

// rolloverSinks persist both notes in write mode. A preview prints today's
// note and leaves the previous one untouched.
func (r *runner) rolloverSinks() (today, previous storage.Sink) {
	switch {
	case r.opts.DryRun:
		s := storage.NewDryRunSink(r.logger)
		return s, s
	case r.opts.Write:
		s := storage.NewDiskSink(r.store, r.logger)
		return s, s
	default:
		return storage.NewPreviewSink(r.stdout), storage.NewDryRunSink(r.logger)
	}
}

func (r *runner) count(o storage.Outcome) {
	switch o {
	case storage.Written:
		r.stats.Add(stats.FilesWritten, 1)
	case storage.Unchanged:
		r.stats.Add(stats.FilesUnchanged, 1)
	case storage.Printed:
		r.stats.Add(stats.FilesPrinted, 1)
	case storage.Simulated:
		r.stats.Add(stats.FilesSimulated, 1)
	}
}
