package filelog

import (
	"sync"
	"sync/atomic"
)

// Process-wide default logger, created on first use.
var (
	defaultMu     sync.Mutex
	defaultLogger atomic.Pointer[Logger]
)

// Default returns the process-wide logger, constructing it from
// DefaultConfig on first use.
func Default() *Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()

	// Double check after lock
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	l := NewWithDefaults()
	defaultLogger.Store(l)
	return l
}

// SetDefault installs l as the process-wide logger and returns the previous
// one, if any, which the caller owns and should close.
func SetDefault(l *Logger) *Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultLogger.Swap(l)
}

// Shutdown flushes and closes the default logger if one was created.
// Records logged through the package functions afterwards are dropped.
func Shutdown() error {
	l := defaultLogger.Load()
	if l == nil {
		return nil
	}
	return l.Close()
}

// Error logs args at error level through the default logger.
func Error(args ...any) {
	Default().Emit(LevelError, "", Caller(1), args...)
}

// Warning logs args at warning level through the default logger.
func Warning(args ...any) {
	Default().Emit(LevelWarning, "", Caller(1), args...)
}

// Info logs args at info level through the default logger.
func Info(args ...any) {
	Default().Emit(LevelInfo, "", Caller(1), args...)
}

// Verbose logs args at verbose level through the default logger.
func Verbose(args ...any) {
	Default().Emit(LevelVerbose, "", Caller(1), args...)
}
