package filelog

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

// WatchConfig reloads the TOML file at path whenever it changes and applies
// it with Apply. The watch stops when ctx is done or the logger is closed.
// Reload errors are reported to the error handler; the previous settings
// stay in effect.
func (l *Logger) WatchConfig(ctx context.Context, path string) error {
	path = filepath.Clean(path)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create config watcher")
	}
	// Watch the directory so that editors replacing the file are seen.
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return errors.Wrapf(err, "failed to watch %s", path)
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		_ = w.Close()
		return ErrClosed
	}
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case <-l.ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := LoadConfig(path)
				if err != nil {
					l.report(err)
					continue
				}
				l.Apply(cfg)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				l.report(errors.Wrap(err, "config watcher"))
			}
		}
	}()
	return nil
}
