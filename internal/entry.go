// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/term"

	"github.com/starford/todobuddy/internal/apperr"
	"github.com/starford/todobuddy/internal/parser"
	"github.com/starford/todobuddy/internal/stats"
	"github.com/starford/todobuddy/internal/storage"
)

// Run executes one todobuddy invocation with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	o := app.options

	logger := newLogger(app.stderr, logLevel(cfg.App.LogLevel, o.Verbosity)).
		With(slog.String("run_id", ulid.Make().String()))
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("extension", cfg.Vault.Extension),
		slog.String("log_level", cfg.App.LogLevel.String()),
		slog.Int("verbosity", o.Verbosity))

	st := stats.New()
	stopMain := st.Start(stats.Main)

	var store *storage.FS
	if app.fs != nil {
		store = storage.NewFSFrom(app.fs)
	} else {
		var err error
		if store, err = storage.NewFS(cfg.Vault.Path); err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
	}

	r := &runner{
		cfg:    cfg,
		opts:   o,
		store:  store,
		logger: logger,
		stats:  st,
		stdout: app.stdout,
		now:    app.now,
	}

	var err error
	switch {
	case o.File != "":
		err = r.single(ctx)
	case o.TodayOnly:
		err = r.today()
	default:
		err = r.aggregate(ctx, o.Tag == "")
		// Watching proceeds past the already-processed guard.
		if o.Watch && (err == nil || errors.Is(err, apperr.ErrAlreadyProcessed)) {
			err = r.watch(ctx)
		}
	}

	stopMain()
	if o.Stats {
		if reportErr := st.Report(app.stdout); reportErr != nil && err == nil {
			err = fmt.Errorf("stats: %w", reportErr)
		}
	}
	return err
}

// WithSignals returns a context cancelled on SIGINT or SIGTERM.
func WithSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}

// newLogger writes human-readable text to terminals and JSON elsewhere.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, hopts))
	}
	return slog.New(slog.NewJSONHandler(w, hopts))
}

// logLevel lowers the configured level by verbosity: one -v enables debug,
// three enable per-line trace.
func logLevel(configured slog.Level, verbosity int) slog.Level {
	switch {
	case verbosity >= 3:
		return parser.LevelTrace
	case verbosity >= 1 && configured > slog.LevelDebug:
		return slog.LevelDebug
	default:
		return configured
	}
}
