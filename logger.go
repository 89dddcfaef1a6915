package filelog

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
)

// Logger is a leveled logger writing buffered lines to a rotating file.
//
// A single mutex guards the buffer, the rotation state, the rotation limits
// and the file handle, so appends, flushes and rotations never interleave.
// The level threshold and alias are read without the lock.
type Logger struct {
	level atomic.Int32
	alias atomic.Value // stores string

	mu       sync.Mutex
	cfg      Config
	dirs     *directoryManager
	policy   rotationPolicy
	writer   *bufferedWriter
	console  *consoleSink
	closed   bool
	counters counters

	now           func() time.Time
	onError       ErrorHandler
	consoleWriter io.Writer

	pruneCh chan struct{}
	tickCh  chan time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// counters are guarded by Logger.mu
type counters struct {
	sizeRotations uint64
	ageRotations  uint64
	pruned        uint64
}

// Option customizes a Logger at construction.
type Option func(*Logger)

// WithErrorHandler replaces the fallback channel for internal failures.
func WithErrorHandler(h ErrorHandler) Option {
	return func(l *Logger) {
		l.onError = h
	}
}

// WithConsoleWriter sends console mirroring to w instead of the configured
// standard stream.
func WithConsoleWriter(w io.Writer) Option {
	return func(l *Logger) {
		l.consoleWriter = w
	}
}

// withClock replaces time.Now.
func withClock(now func() time.Time) Option {
	return func(l *Logger) {
		l.now = now
	}
}

// New creates a logger from cfg. It never fails: invalid settings and
// filesystem errors are reported to the error handler and the logger keeps
// working on a best-effort basis.
func New(cfg Config, opts ...Option) *Logger {
	l := &Logger{
		now:     time.Now,
		pruneCh: make(chan struct{}, 1),
		tickCh:  make(chan time.Duration, 1),
	}
	for _, opt := range opts {
		opt(l)
	}

	if err := cfg.Validate(); err != nil {
		l.report(errors.Wrap(err, "invalid config, using defaults for bad values"))
		cfg = sanitize(cfg)
	}
	l.cfg = cfg
	l.level.Store(int32(cfg.Level))
	l.setAlias(cfg.Alias)

	now := l.now()
	l.dirs = &directoryManager{
		base:   resolveBaseDirectory(cfg.Directory, cfg.Namespace, l.report),
		report: l.report,
	}
	var path string
	if cfg.FileName != "" {
		path = l.dirs.namedFilePath(cfg.FileName, now)
	} else {
		path = l.dirs.newFilePath(now)
	}
	if err := touchFile(path); err != nil {
		l.report(err)
	}

	var size int64
	if fi, err := os.Stat(path); err == nil {
		size = fi.Size()
	}
	l.policy = rotationPolicy{
		maxFileSize:      cfg.maxFileSizeBytes(),
		rollingFrequency: cfg.rollingFrequency(),
		state:            rotationState{path: path, createdAt: now, size: size},
	}
	l.writer = newBufferedWriter(path, l.report)
	l.console = newConsoleSink(cfg.Console, cfg.ConsoleColor, l.consoleWriter)

	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.wg.Add(1)
	go l.processMaintenance(l.ctx, tickInterval(cfg))
	return l
}

// NewWithDefaults creates a logger from DefaultConfig.
func NewWithDefaults(opts ...Option) *Logger {
	return New(DefaultConfig(), opts...)
}

// sanitize replaces malformed values with their defaults.
func sanitize(cfg Config) Config {
	def := DefaultConfig()
	if !cfg.Level.valid() {
		cfg.Level = def.Level
	}
	switch cfg.Console {
	case ConsoleNone, ConsoleStdout, ConsoleStderr:
	default:
		cfg.Console = ConsoleNone
	}
	return cfg
}

// Level returns the current threshold.
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// SetLevel changes the threshold. Takes effect for the next emit.
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// Alias returns the tag prefixed to lines emitted without an explicit alias.
func (l *Logger) Alias() string {
	return l.alias.Load().(string)
}

// SetAlias changes the default alias; an empty alias restores "filelog".
func (l *Logger) SetAlias(alias string) {
	l.setAlias(alias)
}

func (l *Logger) setAlias(alias string) {
	if alias == "" {
		alias = defaultAlias
	}
	l.alias.Store(alias)
}

// Directory returns the base log directory.
func (l *Logger) Directory() string {
	return l.dirs.base
}

// FilePath returns the full path of the active file.
func (l *Logger) FilePath() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.policy.state.path
}

// FileName returns the base name of the active file.
func (l *Logger) FileName() string {
	return filepath.Base(l.FilePath())
}

// SetFileName renames the active file, keeping its directory and content.
// Pending lines are written to the file before it is renamed. An empty name
// is ignored; failures are reported and leave the name unchanged.
func (l *Logger) SetFileName(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.writer.close()
	path, err := renameActiveFile(l.policy.state.path, name)
	if err != nil {
		l.report(err)
	}
	l.writer.retarget(path)
	l.policy.state.path = path
}

// MaxFileSize returns the size rotation threshold in kilobytes (1 KB = 1000
// bytes). Zero means size rotation is disabled.
func (l *Logger) MaxFileSize() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.policy.maxFileSize / bytesPerKB
}

// SetMaxFileSize sets the size rotation threshold in kilobytes. Zero or a
// negative value disables size rotation.
func (l *Logger) SetMaxFileSize(kb int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.policy.maxFileSize = kbToBytes(kb)
	l.cfg.MaxFileSizeKB = kb
}

// RollingFrequency returns the maximum age of a file. Zero means age
// rotation is disabled.
func (l *Logger) RollingFrequency() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.policy.rollingFrequency
}

// SetRollingFrequency sets the maximum age of a file. Zero or a negative
// value disables age rotation.
func (l *Logger) SetRollingFrequency(d time.Duration) {
	if d < 0 {
		d = 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.policy.rollingFrequency = d
	l.cfg.RollingFrequencySecond = int64(d / time.Second)
}

// ClearLogCache drops pending lines and truncates the active file to zero
// length. The file keeps its path and name.
func (l *Logger) ClearLogCache() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.writer.discard()
	if err := resetFile(l.policy.state.path); err != nil {
		l.report(err)
	}
	l.policy.state.size = 0
}

// Emit writes a record at level if the threshold admits it. An empty alias
// uses the logger's alias.
func (l *Logger) Emit(level Level, alias string, loc Location, args ...any) {
	if !Allows(level, l.Level()) {
		return
	}
	if alias == "" {
		alias = l.Alias()
	}
	l.write(Record{
		Time:     l.now(),
		Level:    level,
		Alias:    alias,
		Message:  formatMessage(args),
		Location: loc,
		Thread:   threadLabel(),
	})
}

// Error logs args at error level with the caller's location.
func (l *Logger) Error(args ...any) {
	l.Emit(LevelError, "", Caller(1), args...)
}

// Warning logs args at warning level with the caller's location.
func (l *Logger) Warning(args ...any) {
	l.Emit(LevelWarning, "", Caller(1), args...)
}

// Info logs args at info level with the caller's location.
func (l *Logger) Info(args ...any) {
	l.Emit(LevelInfo, "", Caller(1), args...)
}

// Verbose logs args at verbose level with the caller's location.
func (l *Logger) Verbose(args ...any) {
	l.Emit(LevelVerbose, "", Caller(1), args...)
}

// write formats r and routes it through rotation and the buffer.
func (l *Logger) write(r Record) {
	line := formatRecord(r)

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	now := l.now()
	if reason := l.policy.shouldRotate(int64(len(line)), now); reason != rotateNone {
		l.rotateLocked(now, reason)
	}
	l.writer.append(line, false)
	l.policy.account(len(line))
	console := l.console
	l.mu.Unlock()

	if console != nil {
		console.write(r.Level, line)
	}
}

// Flush writes pending lines to the active file.
func (l *Logger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	l.writer.flush()
	return nil
}

// Sync flushes pending lines and commits the file to stable storage.
func (l *Logger) Sync() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	l.writer.sync()
	return nil
}

// Rotate starts a new file immediately, regardless of size and age.
func (l *Logger) Rotate() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	l.rotateLocked(l.now(), rotateManual)
	return nil
}

// Close flushes pending lines, stops background work and closes the file.
// Records emitted after Close are dropped.
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.closed = true
	l.writer.sync()
	l.writer.close()
	l.mu.Unlock()

	l.cancel()
	l.wg.Wait()
	return nil
}

// Apply reconfigures a running logger. Level, alias, rotation and retention
// limits, flush interval and console mirroring take effect immediately; directory, namespace
// and file name are fixed at construction. An invalid cfg is reported and
// ignored.
func (l *Logger) Apply(cfg Config) {
	if err := cfg.Validate(); err != nil {
		l.report(errors.Wrap(err, "ignored invalid config"))
		return
	}
	l.level.Store(int32(cfg.Level))
	l.setAlias(cfg.Alias)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.policy.maxFileSize = cfg.maxFileSizeBytes()
	l.policy.rollingFrequency = cfg.rollingFrequency()
	if cfg.Console != l.cfg.Console || cfg.ConsoleColor != l.cfg.ConsoleColor {
		l.console = newConsoleSink(cfg.Console, cfg.ConsoleColor, l.consoleWriter)
	}
	if interval := tickInterval(cfg); interval != tickInterval(l.cfg) {
		l.resetTick(interval)
	}
	cfg.Directory, cfg.Namespace, cfg.FileName = l.cfg.Directory, l.cfg.Namespace, l.cfg.FileName
	l.cfg = cfg
	l.requestPrune()
}

// Config returns the configuration currently in effect.
func (l *Logger) Config() Config {
	l.mu.Lock()
	defer l.mu.Unlock()
	cfg := l.cfg
	cfg.Level = l.Level()
	cfg.Alias = l.Alias()
	return cfg
}

// Stats is a snapshot of the logger's file state.
type Stats struct {
	FilePath      string
	CreatedAt     time.Time
	Size          int64 // bytes accounted to the active file, including pending
	Pending       int   // bytes buffered but not yet written
	SizeRotations uint64
	AgeRotations  uint64
	PrunedFiles   uint64
}

// Stats returns a snapshot of the active file and counters.
func (l *Logger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Stats{
		FilePath:      l.policy.state.path,
		CreatedAt:     l.policy.state.createdAt,
		Size:          l.policy.state.size,
		Pending:       l.writer.pending(),
		SizeRotations: l.counters.sizeRotations,
		AgeRotations:  l.counters.ageRotations,
		PrunedFiles:   l.counters.pruned,
	}
}
