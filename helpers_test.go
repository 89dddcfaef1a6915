package filelog

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// errorRecorder collects reports sent to the fallback channel.
type errorRecorder struct {
	mu   sync.Mutex
	errs []error
}

func (r *errorRecorder) record(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *errorRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

// newTestLogger creates a verbose logger in a temporary directory. mutate
// may adjust the config before construction.
func newTestLogger(t *testing.T, mutate func(*Config), opts ...Option) (*Logger, *errorRecorder) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Directory = t.TempDir()
	cfg.Level = LevelVerbose
	if mutate != nil {
		mutate(&cfg)
	}
	rec := &errorRecorder{}
	opts = append([]Option{WithErrorHandler(rec.record)}, opts...)
	l := New(cfg, opts...)
	t.Cleanup(func() { _ = l.Close() })
	return l, rec
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// readLines returns the newline-terminated lines of path.
func readLines(t *testing.T, path string) []string {
	t.Helper()
	content := readFile(t, path)
	if content == "" {
		return nil
	}
	require.True(t, strings.HasSuffix(content, "\n"), "file %s ends mid-line", path)
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n")
}

var testLocation = Location{File: "/src/app/main.go", Line: 42, Function: "main.run"}
