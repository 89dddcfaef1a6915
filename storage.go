package filelog

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
)

// FileInfo describes a log file found under a base directory.
type FileInfo struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// retentionLimits are the pruning thresholds in bytes and files.
// Zero disables a limit.
type retentionLimits struct {
	maxTotalSize int64
	maxFiles     int64
	minDiskFree  int64
}

func (r retentionLimits) enabled() bool {
	return r.maxTotalSize > 0 || r.maxFiles > 0 || r.minDiskFree > 0
}

// ListFiles returns every log file under base, oldest first.
func ListFiles(base string) ([]FileInfo, error) {
	files, err := listLogFiles(base, "")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan log directory %s", base)
	}
	return files, nil
}

// listLogFiles returns every .log file under base, oldest first, skipping
// the file at exclude.
func listLogFiles(base, exclude string) ([]FileInfo, error) {
	var logs []FileInfo
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == base {
				return err
			}
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != "."+extension || path == exclude {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		logs = append(logs, FileInfo{Path: path, ModTime: info.ModTime(), Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(logs, func(i, j int) bool {
		if logs[i].ModTime.Equal(logs[j].ModTime) {
			return logs[i].Path < logs[j].Path
		}
		return logs[i].ModTime.Before(logs[j].ModTime)
	})
	return logs, nil
}

// prune removes the oldest inactive log files until the retention limits
// hold. It runs on the maintenance goroutine and only holds the logger lock
// to read the limits and the active path.
func (l *Logger) prune(ctx context.Context) {
	l.mu.Lock()
	limits := retentionLimits{
		maxTotalSize: kbToBytes(l.cfg.MaxTotalSizeKB),
		maxFiles:     l.cfg.MaxLogFiles,
		minDiskFree:  kbToBytes(l.cfg.MinDiskFreeKB),
	}
	active := l.policy.state.path
	activeSize := l.policy.state.size
	base := l.dirs.base
	l.mu.Unlock()

	if !limits.enabled() {
		return
	}
	inUse := func(path string) bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return path == l.policy.state.path
	}
	deleted, err := pruneLogFiles(ctx, base, active, activeSize, limits, inUse)
	if err != nil {
		l.report(err)
	}
	if deleted > 0 {
		l.mu.Lock()
		l.counters.pruned += uint64(deleted)
		l.mu.Unlock()
	}
}

// pruneLogFiles deletes the oldest files under base, never touching active,
// and returns how many were removed. inUse, when set, is consulted before
// each removal since a rotation may have replaced active since the scan.
func pruneLogFiles(ctx context.Context, base, active string, activeSize int64, limits retentionLimits, inUse func(string) bool) (int, error) {
	logs, err := listLogFiles(base, active)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to scan log directory %s", base)
	}

	total := activeSize
	for _, lf := range logs {
		total += lf.Size
	}
	count := int64(len(logs)) + 1 // the active file counts

	var required int64
	if limits.minDiskFree > 0 {
		free, err := getDiskFreeSpace(base)
		if err == nil && free < limits.minDiskFree {
			required = limits.minDiskFree - free
		}
	}

	deleted := 0
	var freed int64
	for _, lf := range logs {
		if ctx.Err() != nil {
			break
		}
		overSize := limits.maxTotalSize > 0 && total > limits.maxTotalSize
		overCount := limits.maxFiles > 0 && count > limits.maxFiles
		needSpace := freed < required
		if !overSize && !overCount && !needSpace {
			break
		}
		if inUse != nil && inUse(lf.Path) {
			continue
		}
		if err := os.Remove(lf.Path); err != nil {
			continue
		}
		total -= lf.Size
		freed += lf.Size
		count--
		deleted++
	}
	removeEmptyDirs(base, filepath.Dir(active))

	if limits.maxTotalSize > 0 && total > limits.maxTotalSize {
		return deleted, errors.Newf("log directory %s still exceeds %d bytes after pruning", base, limits.maxTotalSize)
	}
	return deleted, nil
}

// removeEmptyDirs deletes empty day directories directly under base, except keep.
func removeEmptyDirs(base, keep string) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(base, entry.Name())
		if dir == keep {
			continue
		}
		if children, err := os.ReadDir(dir); err == nil && len(children) == 0 {
			_ = os.Remove(dir)
		}
	}
}
