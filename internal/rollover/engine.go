// Package rollover builds today's journal note from the nearest previous
// one and marks the carried-over tasks as postponed.
package rollover

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/starford/todobuddy/internal/apperr"
	"github.com/starford/todobuddy/internal/models"
	"github.com/starford/todobuddy/internal/parser"
	"github.com/starford/todobuddy/internal/storage"
)

// MarkerKey is the frontmatter key recording that a note was generated.
const MarkerKey = "autogenerated"

// Defaults used when Config leaves a field empty.
const (
	DefaultTitlePrefix  = "Daily Journal of "
	DefaultJournalTag   = "diary"
	DefaultLookbackDays = 365
	DefaultExtension    = "md"
)

const (
	headingLayout = "02 January 2006, Mon"
	anchorLayout  = "02 January 2006"
)

// State is a step of a rollover run.
type State int

const (
	StateInit State = iota
	StateLocatePrevious
	StateCheckAlreadyProcessed
	StateBuild
	StateWriteToday
	StateMarkPreviousPostponed
	StateDone
	StateAbort
)

var stateNames = [...]string{
	StateInit:                  "init",
	StateLocatePrevious:        "locate-previous",
	StateCheckAlreadyProcessed: "check-already-processed",
	StateBuild:                 "build",
	StateWriteToday:            "write-today",
	StateMarkPreviousPostponed: "mark-previous-postponed",
	StateDone:                  "done",
	StateAbort:                 "abort",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Catalog looks notes up by slug.
type Catalog interface {
	Get(slug string) (*models.Note, bool)
}

// Config tunes a rollover run.
type Config struct {
	TitlePrefix  string
	JournalTag   string
	LookbackDays int
	Extension    string
	// Force bypasses the already-processed guard.
	Force bool
}

func (c Config) withDefaults() Config {
	if c.TitlePrefix == "" {
		c.TitlePrefix = DefaultTitlePrefix
	}
	if c.JournalTag == "" {
		c.JournalTag = DefaultJournalTag
	}
	if c.LookbackDays <= 0 {
		c.LookbackDays = DefaultLookbackDays
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	return c
}

// Context is the working state of one run.
type Context struct {
	Today            time.Time
	Yesterday        *models.Note
	TodayNote        *models.Note
	TodayCreated     bool
	Frontmatter      *parser.Frontmatter
	Buckets          *Buckets
	AlreadyProcessed bool
}

// Result reports what a run did.
type Result struct {
	Context         *Context
	State           State
	TodayLines      []string
	TodayOutcome    storage.Outcome
	PreviousOutcome storage.Outcome
}

// Engine runs the rollover state machine.
type Engine struct {
	catalog  Catalog
	today    storage.Sink
	previous storage.Sink
	cfg      Config
	logger   *slog.Logger
	newNote  func(path string, now time.Time) *models.Note
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithNoteFactory sets how a missing today note is created.
func WithNoteFactory(fn func(path string, now time.Time) *models.Note) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newNote = fn
		}
	}
}

// New returns an engine persisting today's note through today and the
// previous note through previous.
func New(catalog Catalog, today, previous storage.Sink, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		catalog:  catalog,
		today:    today,
		previous: previous,
		cfg:      cfg.withDefaults(),
		logger:   slog.New(slog.DiscardHandler),
		newNote: func(path string, now time.Time) *models.Note {
			return models.NewEmptyNote(path, now, nil, nil)
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run performs the rollover for the day containing now. On abort the
// returned Result holds the context gathered so far.
func (e *Engine) Run(now time.Time) (*Result, error) {
	rc := &Context{Today: dateOnly(now)}
	res := &Result{Context: rc, State: StateInit}
	for res.State != StateDone {
		next, err := e.step(res.State, rc, res)
		if err != nil {
			e.logger.Debug("rollover: abort",
				slog.String("state", res.State.String()), slog.String("error", err.Error()))
			res.State = StateAbort
			return res, err
		}
		e.logger.Debug("rollover: transition",
			slog.String("from", res.State.String()), slog.String("to", next.String()))
		res.State = next
	}
	return res, nil
}

func (e *Engine) step(s State, rc *Context, res *Result) (State, error) {
	switch s {
	case StateInit:
		return StateLocatePrevious, nil
	case StateLocatePrevious:
		return StateCheckAlreadyProcessed, e.locatePrevious(rc)
	case StateCheckAlreadyProcessed:
		return StateBuild, e.checkAlreadyProcessed(rc)
	case StateBuild:
		res.TodayLines = e.build(rc)
		return StateWriteToday, nil
	case StateWriteToday:
		rc.TodayNote.SetLines(res.TodayLines)
		out, err := e.today.Save(rc.TodayNote.Path, res.TodayLines)
		if err != nil {
			return StateAbort, fmt.Errorf("rollover: write today: %w", err)
		}
		res.TodayOutcome = out
		return StateMarkPreviousPostponed, nil
	case StateMarkPreviousPostponed:
		lines := PostponeUndone(rc.Yesterday.Lines())
		rc.Yesterday.SetLines(lines)
		out, err := e.previous.Save(rc.Yesterday.Path, lines)
		if err != nil {
			return StateAbort, fmt.Errorf("rollover: postpone previous: %w", err)
		}
		res.PreviousOutcome = out
		return StateDone, nil
	}
	return StateAbort, fmt.Errorf("rollover: unexpected state %s", s)
}

func (e *Engine) locatePrevious(rc *Context) error {
	prev, ok := LocatePrevious(e.catalog, rc.Today, e.cfg.LookbackDays)
	if !ok {
		return fmt.Errorf("rollover: no journal note in the last %d days: %w", e.cfg.LookbackDays, apperr.ErrNotFound)
	}
	if _, err := prev.Load(); err != nil {
		return fmt.Errorf("rollover: load %s: %w", prev.Path, err)
	}
	rc.Yesterday = prev
	e.logger.Info("rollover: previous note", slog.String("path", prev.Path))
	return nil
}

func (e *Engine) checkAlreadyProcessed(rc *Context) error {
	slug := rc.Today.Format(models.DateLayout)
	note, ok := e.catalog.Get(slug)
	if !ok {
		note = e.newNote(slug+"."+e.cfg.Extension, rc.Today)
		rc.TodayCreated = true
	}
	lines, err := note.Load()
	if err != nil {
		return fmt.Errorf("rollover: load %s: %w", note.Path, err)
	}
	rc.TodayNote = note
	fm, _ := parser.ParseFrontmatter(lines)
	rc.Frontmatter = fm
	if _, marked := fm.Get(MarkerKey); marked {
		rc.AlreadyProcessed = true
		if !e.cfg.Force {
			return fmt.Errorf("rollover: %s: %w", note.Path, apperr.ErrAlreadyProcessed)
		}
		e.logger.Warn("rollover: already processed, continuing", slog.String("path", note.Path))
	}
	return nil
}

func (e *Engine) build(rc *Context) []string {
	date := rc.Today.Format(models.DateLayout)
	setDefault(rc.Frontmatter, "title", e.cfg.TitlePrefix+date)
	setDefault(rc.Frontmatter, MarkerKey, date)
	setDefault(rc.Frontmatter, "created", date)

	rc.Buckets = Classify(rc.Yesterday.Lines(), NewDateMatcher(rc.Today))

	out := parser.RenderFrontmatter(rc.Frontmatter)
	out = append(out, Boilerplate(rc.Today, e.cfg.JournalTag)...)
	out = append(out, parser.StripFrontmatter(rc.TodayNote.Lines())...)
	return append(out, rc.Buckets.CarryOver()...)
}

// LocatePrevious returns the nearest note dated strictly before today,
// looking back at most lookback days.
func LocatePrevious(c Catalog, today time.Time, lookback int) (*models.Note, bool) {
	today = dateOnly(today)
	for i := 1; i <= lookback; i++ {
		slug := today.AddDate(0, 0, -i).Format(models.DateLayout)
		if note, ok := c.Get(slug); ok && note.IsDated() {
			return note, true
		}
	}
	return nil, false
}

// Boilerplate returns the fixed header of a journal note.
func Boilerplate(today time.Time, journalTag string) []string {
	anchor := today.Format(anchorLayout)
	return []string{
		"# " + today.Format(headingLayout),
		"- [" + anchor + "](#" + strings.ToLower(anchor) + ")",
		"",
		"# " + cases.Title(language.English).String(journalTag),
		"[[" + journalTag + "]]",
		"",
	}
}

func setDefault(fm *parser.Frontmatter, key, value string) {
	if _, ok := fm.Get(key); !ok {
		fm.Set(key, value)
	}
}
