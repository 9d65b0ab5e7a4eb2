// Package stats keeps run counters and named stopwatches.
package stats

import (
	"fmt"
	"io"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Counter names.
const (
	FilesProcessed = "files processed"
	FilesParsed    = "files parsed"
	FilesUnread    = "files unreadable"
	FilesWritten   = "files written"
	FilesUnchanged = "files unchanged"
	FilesPrinted   = "files printed"
	FilesSimulated = "files simulated"
	TagsFound      = "tags found"
	LinesRecorded  = "tagged lines recorded"
)

// Main is the stopwatch spanning the whole run. Report expresses every other
// stopwatch as a share of it.
const Main = "main"

type stopwatch struct {
	started time.Time
	total   time.Duration
	running bool
}

// Stats is not safe for concurrent use.
type Stats struct {
	counters *orderedmap.OrderedMap[string, int]
	watches  *orderedmap.OrderedMap[string, *stopwatch]
	now      func() time.Time
}

// New returns empty stats using the wall clock.
func New() *Stats {
	return NewWithClock(time.Now)
}

// NewWithClock returns empty stats reading time from now.
func NewWithClock(now func() time.Time) *Stats {
	return &Stats{
		counters: orderedmap.New[string, int](),
		watches:  orderedmap.New[string, *stopwatch](),
		now:      now,
	}
}

// Add increments counter name by n.
func (s *Stats) Add(name string, n int) {
	v, _ := s.counters.Get(name)
	s.counters.Set(name, v+n)
}

// Count returns the value of counter name.
func (s *Stats) Count(name string) int {
	v, _ := s.counters.Get(name)
	return v
}

// Start starts stopwatch name and returns the func that stops it. A
// stopwatch can be started again and accumulates.
func (s *Stats) Start(name string) (stop func()) {
	w, ok := s.watches.Get(name)
	if !ok {
		w = &stopwatch{}
		s.watches.Set(name, w)
	}
	w.started = s.now()
	w.running = true
	return func() {
		if !w.running {
			return
		}
		w.total += s.now().Sub(w.started)
		w.running = false
	}
}

// Elapsed returns the accumulated time of stopwatch name.
func (s *Stats) Elapsed(name string) time.Duration {
	w, ok := s.watches.Get(name)
	if !ok {
		return 0
	}
	if w.running {
		return w.total + s.now().Sub(w.started)
	}
	return w.total
}

// Report writes counters and stopwatches in the order they were first used.
func (s *Stats) Report(w io.Writer) error {
	for pair := s.counters.Oldest(); pair != nil; pair = pair.Next() {
		if _, err := fmt.Fprintf(w, "%s: %d\n", pair.Key, pair.Value); err != nil {
			return err
		}
	}
	total := s.Elapsed(Main)
	for pair := s.watches.Oldest(); pair != nil; pair = pair.Next() {
		d := s.Elapsed(pair.Key)
		line := fmt.Sprintf("%s: %s", pair.Key, d.Round(time.Microsecond))
		if pair.Key != Main && total > 0 {
			line += fmt.Sprintf(" (%.1f%% of %s)", 100*float64(d)/float64(total), Main)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
