package filelog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	extension     = "log"
	dayDirLayout  = "20060102"
	fileLayout    = "20060102150405"
	dirPerm       = 0755
	filePerm      = 0644
	maxNameSuffix = 1000
)

// directoryManager owns the on-disk layout: <base>/<YYYYMMDD>/<name>.log
type directoryManager struct {
	base   string
	report func(error)
}

// resolveBaseDirectory returns explicit if set, otherwise a per-user cache
// directory joined with namespace. The directory is created if absent;
// creation failures are reported, not returned.
func resolveBaseDirectory(explicit, namespace string, report func(error)) string {
	dir := explicit
	if dir == "" {
		root, err := os.UserCacheDir()
		if err != nil || root == "" {
			root = os.TempDir()
		}
		if namespace == "" {
			namespace = defaultNamespace
		}
		dir = filepath.Join(root, namespace)
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		report(errors.Wrapf(err, "failed to create log directory %s", dir))
	}
	return dir
}

// dayDirectory returns the directory holding files created at now, creating it.
func (d *directoryManager) dayDirectory(now time.Time) string {
	dir := filepath.Join(d.base, now.Format(dayDirLayout))
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		d.report(errors.Wrapf(err, "failed to create log directory %s", dir))
	}
	return dir
}

// generateFileName creates a timestamp name for dir. When a file with the
// second-precision name exists, subsecond digits are added with increasing
// precision, then a counter.
func generateFileName(dir string, now time.Time) string {
	base := now.Format(fileLayout)
	name := base + "." + extension
	if !exists(filepath.Join(dir, name)) {
		return name
	}

	for precision := 1; precision <= 9; precision++ {
		subseconds := int64(now.Nanosecond()) / pow10(9-precision)
		name = fmt.Sprintf("%s_%0*d.%s", base, precision, subseconds, extension)
		if !exists(filepath.Join(dir, name)) {
			return name
		}
	}

	nanos := fmt.Sprintf("%09d", now.Nanosecond())
	for n := 1; n < maxNameSuffix; n++ {
		name = fmt.Sprintf("%s_%s_%d.%s", base, nanos, n, extension)
		if !exists(filepath.Join(dir, name)) {
			return name
		}
	}
	return name
}

// pow10 calculates powers of 10 for subsecond precision in log filenames.
func pow10(n int) int64 {
	result := int64(1)
	for i := 0; i < n; i++ {
		result *= 10
	}
	return result
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// newFilePath returns a fresh, unused path for a file created at now.
func (d *directoryManager) newFilePath(now time.Time) string {
	dir := d.dayDirectory(now)
	return filepath.Join(dir, generateFileName(dir, now))
}

// namedFilePath places a caller-chosen name in the day directory of now.
func (d *directoryManager) namedFilePath(name string, now time.Time) string {
	return filepath.Join(d.dayDirectory(now), normalizeFileName(name))
}

// normalizeFileName keeps only the base name and ensures the log extension.
func normalizeFileName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if filepath.Ext(name) != "."+extension {
		name += "." + extension
	}
	return name
}

// renameActiveFile renames the file at path within its directory and returns
// the new path. An empty newName is a no-op. If the file does not exist yet
// only the path changes.
func renameActiveFile(path, newName string) (string, error) {
	if strings.TrimSpace(newName) == "" {
		return path, nil
	}
	target := filepath.Join(filepath.Dir(path), normalizeFileName(newName))
	if target == path {
		return path, nil
	}
	if exists(target) {
		return path, errors.Newf("cannot rename %s: %s already exists", path, target)
	}
	if err := os.Rename(path, target); err != nil {
		if os.IsNotExist(err) {
			return target, nil
		}
		return path, errors.Wrapf(err, "failed to rename %s", path)
	}
	return target, nil
}

// resetFile truncates the file at path in place so existing handles stay valid.
func resetFile(path string) error {
	if err := os.Truncate(path, 0); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to truncate %s", path)
	}
	return nil
}

// touchFile creates path if absent without truncating it.
func touchFile(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return errors.Wrapf(err, "failed to create log file %s", path)
	}
	return f.Close()
}
