package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/starford/todobuddy/internal/checksum"
)

// Outcome describes what a Sink did with a document.
type Outcome int

const (
	Written Outcome = iota
	Unchanged
	Printed
	Simulated
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case Unchanged:
		return "unchanged"
	case Printed:
		return "printed"
	case Simulated:
		return "simulated"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Sink persists generated documents.
type Sink interface {
	Save(path string, lines []string) (Outcome, error)
}

// DiskSink writes documents through a Provider, skipping writes whose
// content already matches the file on disk.
type DiskSink struct {
	store  Provider
	logger *slog.Logger
}

// NewDiskSink returns a sink writing through store.
func NewDiskSink(store Provider, logger *slog.Logger) *DiskSink {
	return &DiskSink{store: store, logger: logger}
}

// Save writes lines to path unless the stored content is identical.
func (s *DiskSink) Save(path string, lines []string) (Outcome, error) {
	content := []byte(checksum.Join(lines))
	existing, err := s.store.Read(path)
	if err == nil && checksum.Sum(existing) == checksum.Lines(lines) {
		s.logger.Debug("output: unchanged", slog.String("path", path))
		return Unchanged, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, err
	}
	if err := s.store.Write(path, content); err != nil {
		return 0, err
	}
	s.logger.Info("output: wrote file", slog.String("path", path), slog.Int("lines", len(lines)))
	return Written, nil
}

// PreviewSink prints documents to a stream instead of writing them.
type PreviewSink struct {
	w io.Writer
}

// NewPreviewSink returns a sink printing to w.
func NewPreviewSink(w io.Writer) *PreviewSink {
	return &PreviewSink{w: w}
}

// Save prints lines to the stream.
func (s *PreviewSink) Save(_ string, lines []string) (Outcome, error) {
	if _, err := io.WriteString(s.w, checksum.Join(lines)); err != nil {
		return 0, fmt.Errorf("output: preview: %w", err)
	}
	return Printed, nil
}

// DryRunSink records that a write would have happened.
type DryRunSink struct {
	logger *slog.Logger
}

// NewDryRunSink returns a sink that never writes.
func NewDryRunSink(logger *slog.Logger) *DryRunSink {
	return &DryRunSink{logger: logger}
}

// Save logs the skipped write.
func (s *DryRunSink) Save(path string, lines []string) (Outcome, error) {
	s.logger.Info("output: simulated write", slog.String("path", path), slog.Int("lines", len(lines)))
	return Simulated, nil
}
