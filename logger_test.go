package filelog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestThresholdFiltersRecords(t *testing.T) {
	l, _ := newTestLogger(t, func(cfg *Config) { cfg.Level = LevelWarning })

	l.Info("not written")
	require.NoError(t, l.Flush())
	require.Empty(t, readFile(t, l.FilePath()))

	l.Error("boom")
	require.NoError(t, l.Flush())
	lines := readLines(t, l.FilePath())
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "[ERROR] | boom | [logger_test.go ")
	require.True(t, strings.HasPrefix(lines[0], "filelog:["))
}

func TestEmitFollowsAllows(t *testing.T) {
	for _, threshold := range allLevels {
		for _, level := range allLevels {
			t.Run(fmt.Sprintf("%s/%s", threshold, level), func(t *testing.T) {
				l, _ := newTestLogger(t, func(cfg *Config) { cfg.Level = threshold })
				l.Emit(level, "", testLocation, "message")
				require.NoError(t, l.Flush())
				want := 0
				if Allows(level, threshold) {
					want = 1
				}
				require.Len(t, readLines(t, l.FilePath()), want)
			})
		}
	}
}

func TestSetLevelAndAlias(t *testing.T) {
	l, _ := newTestLogger(t, nil)

	l.SetLevel(LevelNone)
	l.Error("dropped")
	l.SetLevel(LevelInfo)
	l.Verbose("dropped too")

	l.SetAlias("svc")
	l.Info("kept")
	l.Emit(LevelInfo, "db", testLocation, "tagged")
	l.SetAlias("")
	require.Equal(t, "filelog", l.Alias())

	require.NoError(t, l.Flush())
	lines := readLines(t, l.FilePath())
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "svc:["))
	require.True(t, strings.HasPrefix(lines[1], "db:["))
}

func TestClearLogCache(t *testing.T) {
	l, _ := newTestLogger(t, nil)
	path := l.FilePath()

	l.Info("flushed")
	require.NoError(t, l.Flush())
	l.Info("pending")

	l.ClearLogCache()
	require.Equal(t, path, l.FilePath())
	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Zero(t, fi.Size())
	stats := l.Stats()
	require.Zero(t, stats.Size)
	require.Zero(t, stats.Pending)

	// Writing continues at the start of the same file.
	l.Info("after clear")
	require.NoError(t, l.Flush())
	lines := readLines(t, path)
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "after clear")
}

func TestSetFileName(t *testing.T) {
	l, _ := newTestLogger(t, nil)
	old := l.FilePath()

	l.Info("before rename")
	l.SetFileName("renamed")
	require.Equal(t, "renamed.log", l.FileName())
	require.Equal(t, filepath.Join(filepath.Dir(old), "renamed.log"), l.FilePath())
	require.NoFileExists(t, old)

	l.Info("after rename")
	require.NoError(t, l.Flush())
	lines := readLines(t, l.FilePath())
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "before rename")
	require.Contains(t, lines[1], "after rename")

	l.SetFileName("")
	require.Equal(t, "renamed.log", l.FileName())
}

func TestSetFileNameCollision(t *testing.T) {
	l, rec := newTestLogger(t, nil)
	path := l.FilePath()
	require.NoError(t, touchFile(filepath.Join(filepath.Dir(path), "taken.log")))

	l.SetFileName("taken")
	require.Equal(t, path, l.FilePath())
	require.Equal(t, 1, rec.count())
}

func TestConfiguredFileName(t *testing.T) {
	dir := t.TempDir()
	l, _ := newTestLogger(t, func(cfg *Config) {
		cfg.Directory = dir
		cfg.FileName = "app"
	})
	require.Equal(t, "app.log", l.FileName())
	require.Equal(t, dir, filepath.Dir(filepath.Dir(l.FilePath())))
}

// linePattern matches one complete line as produced by formatRecord.
var linePattern = regexp.MustCompile(`^filelog:\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\]\[INFO\] \| worker (\d+) seq (\d+) \| \[logger_test\.go \d+ \S+ goroutine \d+\]$`)

func TestConcurrentEmit(t *testing.T) {
	const goroutines, records = 8, 500
	l, rec := newTestLogger(t, func(cfg *Config) {
		cfg.MaxFileSizeKB = 20
		cfg.FlushIntervalMs = 5
	})

	var g errgroup.Group
	for i := 0; i < goroutines; i++ {
		worker := i
		g.Go(func() error {
			for j := 0; j < records; j++ {
				l.Info("worker", worker, "seq", j)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.NoError(t, l.Close())

	files, err := ListFiles(l.Directory())
	require.NoError(t, err)
	require.Greater(t, len(files), 1, "expected size rotation")

	seen := make(map[string]bool, goroutines*records)
	for _, f := range files {
		require.LessOrEqual(t, f.Size, int64(20*1000), "file %s over limit", f.Path)
		for _, line := range readLines(t, f.Path) {
			m := linePattern.FindStringSubmatch(line)
			require.NotNil(t, m, "corrupted line %q", line)
			key := m[1] + "/" + m[2]
			require.False(t, seen[key], "duplicate record %s", key)
			seen[key] = true
		}
	}
	require.Len(t, seen, goroutines*records)
	require.Zero(t, rec.count())
}

func TestClose(t *testing.T) {
	l, _ := newTestLogger(t, nil)
	l.Info("pending at close")
	require.NoError(t, l.Close())
	require.Len(t, readLines(t, l.FilePath()), 1)

	require.ErrorIs(t, l.Close(), ErrClosed)
	require.ErrorIs(t, l.Flush(), ErrClosed)
	require.ErrorIs(t, l.Sync(), ErrClosed)

	// Emitting and configuring after close are silent no-ops.
	l.Info("dropped")
	l.ClearLogCache()
	l.SetFileName("ignored")
	require.Len(t, readLines(t, l.FilePath()), 1)
}

func TestSync(t *testing.T) {
	l, _ := newTestLogger(t, nil)
	l.Info("synced")
	require.NoError(t, l.Sync())
	require.Len(t, readLines(t, l.FilePath()), 1)
	require.Zero(t, l.Stats().Pending)
}

func TestApply(t *testing.T) {
	l, _ := newTestLogger(t, nil)
	dir := l.Directory()

	cfg := l.Config()
	cfg.Level = LevelError
	cfg.Alias = "applied"
	cfg.MaxFileSizeKB = 5
	cfg.RollingFrequencySecond = 0
	cfg.Directory = t.TempDir()
	l.Apply(cfg)

	got := l.Config()
	require.Equal(t, LevelError, l.Level())
	require.Equal(t, "applied", l.Alias())
	require.EqualValues(t, 5, l.MaxFileSize())
	require.Zero(t, l.RollingFrequency())
	require.Equal(t, dir, got.Directory)
	require.Equal(t, dir, l.Directory())

	bad := got
	bad.Console = "printer"
	l.Apply(bad)
	require.Equal(t, got, l.Config())
}

func TestApplyFlushInterval(t *testing.T) {
	l, _ := newTestLogger(t, func(cfg *Config) { cfg.FlushIntervalMs = 60000 })

	cfg := l.Config()
	cfg.FlushIntervalMs = 10
	l.Apply(cfg)

	l.Info("flushed by the shorter tick")
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(l.FilePath())
		return err == nil && len(data) > 0
	}, 5*time.Second, 10*time.Millisecond)
	require.Zero(t, l.Stats().Pending)
}

func TestInternalErrorsAreReported(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, filePerm))

	l, rec := newTestLogger(t, func(cfg *Config) { cfg.Directory = filepath.Join(blocker, "logs") })
	require.Greater(t, rec.count(), 0)

	before := rec.count()
	l.Error("cannot be written")
	require.NoError(t, l.Flush())
	require.Greater(t, rec.count(), before)
}

func TestPanickingErrorHandler(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, filePerm))

	cfg := DefaultConfig()
	cfg.Directory = filepath.Join(blocker, "logs")
	require.NotPanics(t, func() {
		l := New(cfg, WithErrorHandler(func(error) { panic("handler") }))
		l.Error("dropped")
		require.NoError(t, l.Close())
	})
}

func TestInvalidConfigIsSanitized(t *testing.T) {
	l, rec := newTestLogger(t, func(cfg *Config) {
		cfg.Level = Level(42)
		cfg.Console = "printer"
	})
	require.Equal(t, 1, rec.count())
	require.Equal(t, LevelInfo, l.Level())
	require.Equal(t, ConsoleNone, l.Config().Console)
}

func TestReopenAppendsToExistingFile(t *testing.T) {
	dir := t.TempDir()
	mutate := func(cfg *Config) {
		cfg.Directory = dir
		cfg.FileName = "app"
	}

	first, _ := newTestLogger(t, mutate)
	first.Info("first run")
	require.NoError(t, first.Close())

	second, _ := newTestLogger(t, mutate)
	require.Equal(t, first.FilePath(), second.FilePath())
	require.Greater(t, second.Stats().Size, int64(0))
	second.Info("second run")
	require.NoError(t, second.Close())

	require.Len(t, readLines(t, second.FilePath()), 2)
}

func TestDefaultLogger(t *testing.T) {
	l, _ := newTestLogger(t, nil)
	prev := SetDefault(l)
	t.Cleanup(func() { SetDefault(prev) })

	require.Same(t, l, Default())
	Warning("through the default logger")
	require.NoError(t, Default().Flush())

	lines := readLines(t, l.FilePath())
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "[WARNING] | through the default logger | [logger_test.go ")
}
