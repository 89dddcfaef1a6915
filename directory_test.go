package filelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateFileName(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 5, 14, 7, 9, 123456789, time.Local)

	expected := []string{
		"20240305140709.log",
		"20240305140709_1.log",
		"20240305140709_12.log",
		"20240305140709_123.log",
	}
	for _, want := range expected {
		name := generateFileName(dir, now)
		require.Equal(t, want, name)
		require.NoError(t, touchFile(filepath.Join(dir, name)))
	}
}

func TestGenerateFileNameCounter(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local)

	seen := map[string]bool{}
	for i := 0; i < 12; i++ {
		name := generateFileName(dir, now)
		require.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
		require.NoError(t, touchFile(filepath.Join(dir, name)))
	}
	require.True(t, seen["20240305140709_000000000_1.log"])
}

func TestDirectoryLayout(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "logs")
	d := &directoryManager{
		base:   resolveBaseDirectory(base, "", func(err error) { t.Fatal(err) }),
		report: func(err error) { t.Fatal(err) },
	}
	require.DirExists(t, base)

	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.Local)
	require.Equal(t, filepath.Join(base, "20240305", "20240305140709.log"), d.newFilePath(now))
	require.Equal(t, filepath.Join(base, "20240305", "app.log"), d.namedFilePath("../app", now))
	require.Equal(t, filepath.Join(base, "20240305", "app.log"), d.namedFilePath("app.log", now))
}

func TestResolveDefaultBaseDirectory(t *testing.T) {
	dir := resolveBaseDirectory("", "filelog_test_namespace", func(error) {})
	defer os.RemoveAll(dir)
	require.Equal(t, "filelog_test_namespace", filepath.Base(dir))
	require.DirExists(t, dir)
}

func TestRenameActiveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "20240305140709.log")
	require.NoError(t, os.WriteFile(path, []byte("line one\n"), filePerm))

	t.Run("empty name is a no-op", func(t *testing.T) {
		got, err := renameActiveFile(path, " ")
		require.NoError(t, err)
		require.Equal(t, path, got)
		require.FileExists(t, path)
	})

	t.Run("preserves content", func(t *testing.T) {
		got, err := renameActiveFile(path, "renamed")
		require.NoError(t, err)
		require.Equal(t, filepath.Join(dir, "renamed.log"), got)
		require.NoFileExists(t, path)
		require.Equal(t, "line one\n", readFile(t, got))
		path = got
	})

	t.Run("existing target", func(t *testing.T) {
		other := filepath.Join(dir, "other.log")
		require.NoError(t, touchFile(other))
		got, err := renameActiveFile(path, "other")
		require.Error(t, err)
		require.Equal(t, path, got)
		require.Equal(t, "line one\n", readFile(t, path))
	})

	t.Run("missing source", func(t *testing.T) {
		got, err := renameActiveFile(filepath.Join(dir, "absent.log"), "fresh")
		require.NoError(t, err)
		require.Equal(t, filepath.Join(dir, "fresh.log"), got)
	})
}

func TestResetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.log")
	require.NoError(t, os.WriteFile(path, []byte("some content\n"), filePerm))

	// An open append handle stays usable after the reset.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, filePerm)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, resetFile(path))
	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Zero(t, fi.Size())

	_, err = f.WriteString("after\n")
	require.NoError(t, err)
	require.Equal(t, "after\n", readFile(t, path))

	require.NoError(t, resetFile(filepath.Join(t.TempDir(), "absent.log")))
}
