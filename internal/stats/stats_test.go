package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestCounters(t *testing.T) {
	s := New()
	s.Add(FilesParsed, 2)
	s.Add(FilesParsed, 3)
	assert.Equal(t, 5, s.Count(FilesParsed))
	assert.Equal(t, 0, s.Count(TagsFound))
}

func TestStopwatchAccumulates(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := NewWithClock(clock.now)

	stop := s.Start("scan")
	clock.advance(10 * time.Millisecond)
	stop()
	stop()
	clock.advance(time.Second)

	stop = s.Start("scan")
	clock.advance(5 * time.Millisecond)
	assert.Equal(t, 15*time.Millisecond, s.Elapsed("scan"))
	stop()
	assert.Equal(t, 15*time.Millisecond, s.Elapsed("scan"))
	assert.Zero(t, s.Elapsed("missing"))
}

func TestReport(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := NewWithClock(clock.now)
	stopMain := s.Start(Main)
	s.Add(FilesProcessed, 4)
	s.Add(TagsFound, 2)
	stopScan := s.Start("scan")
	clock.advance(25 * time.Millisecond)
	stopScan()
	clock.advance(75 * time.Millisecond)
	stopMain()

	var b strings.Builder
	require.NoError(t, s.Report(&b))
	assert.Equal(t, strings.Join([]string{
		"files processed: 4",
		"tags found: 2",
		"main: 100ms",
		"scan: 25ms (25.0% of main)",
		"",
	}, "\n"), b.String())
}
