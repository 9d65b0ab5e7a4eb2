package internal

import (
	"io"
	"time"

	"github.com/spf13/afero"
)

// Option is a functional option for configuring the application.
type Option func(*application)

// Options are the per-invocation switches. They are fixed for the whole run.
type Options struct {
	// File scans a single vault-relative note and prints its taxonomy.
	File string
	// Tag restricts aggregation to one tag.
	Tag string
	// TodayOnly runs the daily rollover and nothing else.
	TodayOnly bool
	// Write persists generated documents instead of printing them.
	Write bool
	// DryRun performs no writes and bypasses the already-processed guard.
	DryRun bool
	// Force bypasses the already-processed guard.
	Force bool
	// Watch keeps regenerating companions as notes change.
	Watch bool
	// Verbosity: 1 debug logs, 2 taxonomy summary, 3 per-line trace.
	Verbosity int
	// Stats prints counters and timings at the end of the run.
	Stats bool
}

type application struct {
	config  *Config
	options Options
	stdout  io.Writer
	stderr  io.Writer
	now     func() time.Time
	fs      afero.Fs
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOptions sets the invocation switches.
func WithOptions(o Options) Option {
	return func(a *application) {
		a.options = o
	}
}

// WithOutput redirects previews and statistics to stdout and logs to stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *application) {
		a.stdout = stdout
		a.stderr = stderr
	}
}

// WithClock sets the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(a *application) {
		a.now = now
	}
}

// WithFs serves the vault from fs, whose "/" is the vault root, instead of
// the configured directory.
func WithFs(fs afero.Fs) Option {
	return func(a *application) {
		a.fs = fs
	}
}
