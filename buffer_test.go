package filelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferedWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.log")
	rec := &errorRecorder{}
	w := newBufferedWriter(path, rec.record)
	defer w.close()

	require.False(t, w.append([]byte("one\n"), false))
	require.Equal(t, 4, w.pending())
	require.NoFileExists(t, path)

	require.True(t, w.append([]byte("two\n"), true))
	require.Zero(t, w.pending())
	require.Equal(t, "one\ntwo\n", readFile(t, path))

	w.append([]byte("three\n"), false)
	w.flush()
	require.Equal(t, "one\ntwo\nthree\n", readFile(t, path))
	require.Zero(t, rec.count())
}

func TestBufferedWriterThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.log")
	w := newBufferedWriter(path, func(err error) { t.Fatal(err) })
	defer w.close()

	line := []byte(strings.Repeat("x", 999) + "\n")
	for i := 0; i < flushThreshold/len(line); i++ {
		require.False(t, w.append(line, false))
	}
	require.Equal(t, flushThreshold, w.pending())

	// Crossing the threshold drains everything in one write.
	require.True(t, w.append(line, false))
	require.Zero(t, w.pending())
	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.EqualValues(t, flushThreshold+len(line), fi.Size())
}

func TestBufferedWriterDiscardAndRetarget(t *testing.T) {
	dir := t.TempDir()
	first, second := filepath.Join(dir, "a.log"), filepath.Join(dir, "b.log")
	w := newBufferedWriter(first, func(err error) { t.Fatal(err) })
	defer w.close()

	w.append([]byte("dropped\n"), false)
	w.discard()
	require.Zero(t, w.pending())

	w.append([]byte("first\n"), false)
	w.retarget(second)
	w.append([]byte("second\n"), true)

	require.Equal(t, "first\n", readFile(t, first))
	require.Equal(t, "second\n", readFile(t, second))
}

func TestBufferedWriterOpenFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "a.log")
	rec := &errorRecorder{}
	w := newBufferedWriter(path, rec.record)

	w.append([]byte("lost\n"), true)
	require.Equal(t, 1, rec.count())
	require.Zero(t, w.pending(), "failed flush must not retry")

	w.close()
	require.Equal(t, 1, rec.count())
}
