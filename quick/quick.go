// Package quick logs through the process-wide default logger without
// passing a logger around.
package quick

import (
	"github.com/LixenWraith/filelog"
	"github.com/cockroachdb/errors"
)

// Error logs an error message.
// Message is dropped if the default logger's level is below error.
func Error(args ...any) {
	filelog.Default().Emit(filelog.LevelError, "", filelog.Caller(1), args...)
}

// Warning logs a warning message.
// Message is dropped if the default logger's level is below warning.
func Warning(args ...any) {
	filelog.Default().Emit(filelog.LevelWarning, "", filelog.Caller(1), args...)
}

// Info logs an info message.
// Message is dropped if the default logger's level is below info.
func Info(args ...any) {
	filelog.Default().Emit(filelog.LevelInfo, "", filelog.Caller(1), args...)
}

// Verbose logs a verbose message.
// Message is dropped unless the default logger's level is verbose.
func Verbose(args ...any) {
	filelog.Default().Emit(filelog.LevelVerbose, "", filelog.Caller(1), args...)
}

// Tagged logs a message with an alias other than the logger's own.
func Tagged(level filelog.Level, alias string, args ...any) {
	filelog.Default().Emit(level, alias, filelog.Caller(1), args...)
}

// Config changes the default logger configuration with "key=value"
// statements, keys being the TOML names, e.g.
//
//	quick.Config("level=warning", "max_file_size_kb=10MB")
func Config(args ...string) error {
	if len(args) == 0 {
		return errors.New("no config provided")
	}
	l := filelog.Default()
	cfg, err := config(l.Config(), args...)
	if err != nil {
		return err
	}
	l.Apply(cfg)
	return nil
}

// Flush writes pending lines of the default logger.
func Flush() error {
	return filelog.Default().Flush()
}

// Shutdown flushes and closes the default logger.
func Shutdown() {
	_ = filelog.Shutdown()
}
