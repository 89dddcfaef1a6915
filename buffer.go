package filelog

import (
	"os"

	"github.com/cockroachdb/errors"
)

// flushThreshold is the buffered size above which an append drains to disk.
const flushThreshold = 100000

// bufferedWriter accumulates formatted lines for the active file.
// The owning Logger's mutex is held for all its methods.
type bufferedWriter struct {
	buf    []byte
	path   string
	file   *os.File
	report func(error)
}

func newBufferedWriter(path string, report func(error)) *bufferedWriter {
	return &bufferedWriter{
		buf:    make([]byte, 0, 4096),
		path:   path,
		report: report,
	}
}

// append adds line to the buffer and drains it when atOnce is set or the
// buffer grew past flushThreshold. It reports whether a flush happened.
func (w *bufferedWriter) append(line []byte, atOnce bool) bool {
	w.buf = append(w.buf, line...)
	if atOnce || len(w.buf) > flushThreshold {
		w.flush()
		return true
	}
	return false
}

// flush writes the whole buffer with a single Write call. On failure the
// drained bytes are dropped and the error is reported.
func (w *bufferedWriter) flush() {
	if len(w.buf) == 0 {
		return
	}
	data := w.buf
	w.buf = w.buf[:0]

	if w.file == nil {
		f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
		if err != nil {
			w.report(errors.Wrapf(err, "failed to open log file, dropped %d bytes", len(data)))
			return
		}
		w.file = f
	}
	if _, err := w.file.Write(data); err != nil {
		w.report(errors.Wrapf(err, "failed to write log file %s", w.path))
		// Reopen on the next flush in case the handle went bad.
		_ = w.file.Close()
		w.file = nil
	}
}

// pending returns the number of buffered bytes not yet written.
func (w *bufferedWriter) pending() int {
	return len(w.buf)
}

// discard drops buffered bytes without writing them.
func (w *bufferedWriter) discard() {
	w.buf = w.buf[:0]
}

// sync flushes and asks the OS to persist the file.
func (w *bufferedWriter) sync() {
	w.flush()
	if w.file != nil {
		if err := w.file.Sync(); err != nil {
			w.report(errors.Wrapf(err, "failed to sync log file %s", w.path))
		}
	}
}

// close flushes and releases the file handle. The writer stays usable; the
// next flush reopens path.
func (w *bufferedWriter) close() {
	w.flush()
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			w.report(errors.Wrapf(err, "failed to close log file %s", w.path))
		}
		w.file = nil
	}
}

// retarget closes the current handle and points the writer at path.
func (w *bufferedWriter) retarget(path string) {
	w.close()
	w.path = path
}
