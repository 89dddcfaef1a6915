package filelog

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
)

// ErrClosed is returned by lifecycle calls on a logger that was closed.
var ErrClosed = errors.New("filelog: logger closed")

// ErrorHandler receives internal failures: directory creation, file open or
// write, rename, truncate and pruning errors. Logging calls never return
// these to the caller.
type ErrorHandler func(err error)

// stderrErrorHandler is the default fallback channel.
func stderrErrorHandler(err error) {
	fmt.Fprintf(os.Stderr, "filelog: %v\n", err)
}

// report sends err to the logger's fallback channel. A panicking handler is
// contained so that it cannot take down the host.
func (l *Logger) report(err error) {
	if err == nil {
		return
	}
	h := l.onError
	if h == nil {
		h = stderrErrorHandler
	}
	defer func() {
		if r := recover(); r != nil {
			stderrErrorHandler(errors.Newf("error handler panicked: %v (handling %v)", r, err))
		}
	}()
	h(err)
}
