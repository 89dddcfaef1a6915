package filelog

import "time"

// LevelControl reads and changes the severity threshold.
type LevelControl interface {
	Level() Level
	SetLevel(level Level)
}

// FileNaming exposes the active file location. SetFileName renames the file
// on disk.
type FileNaming interface {
	FilePath() string
	FileName() string
	SetFileName(name string)
}

// Rotation configures when the active file is replaced. Sizes are in
// kilobytes (1 KB = 1000 bytes); zero disables a trigger.
type Rotation interface {
	MaxFileSize() int64
	SetMaxFileSize(kb int64)
	RollingFrequency() time.Duration
	SetRollingFrequency(d time.Duration)
}

// CacheControl empties the active file.
type CacheControl interface {
	ClearLogCache()
}

// LoggerInterface is the full capability set of a file logger.
type LoggerInterface interface {
	LevelControl
	FileNaming
	Rotation
	CacheControl

	// Emit writes a record at level with an optional alias and call site.
	Emit(level Level, alias string, loc Location, args ...any)
	Error(args ...any)
	Warning(args ...any)
	Info(args ...any)
	Verbose(args ...any)

	Flush() error
	Close() error
}

// Compile-time check to ensure Logger implements LoggerInterface
var _ LoggerInterface = (*Logger)(nil)
