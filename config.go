package filelog

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// Console targets
const (
	ConsoleNone   = ""
	ConsoleStdout = "stdout"
	ConsoleStderr = "stderr"
)

// Config defines the logger configuration parameters.
// All fields can be configured via a TOML configuration file.
// Zero or negative limits disable the corresponding behavior.
type Config struct {
	Level                  Level  `toml:"level"`               // none, error, warning, info, verbose
	Alias                  string `toml:"alias"`               // Prefix tag of every line
	Directory              string `toml:"directory"`           // Base directory; empty selects the user cache directory
	Namespace              string `toml:"namespace"`           // Subfolder used when Directory is empty
	FileName               string `toml:"file_name"`           // Name of the initial log file; empty generates a timestamp name
	MaxFileSizeKB          int64  `toml:"max_file_size_kb"`    // Size rotation threshold, 1 KB = 1000 bytes
	RollingFrequencySecond int64  `toml:"rolling_frequency_s"` // Age rotation threshold in seconds
	FlushIntervalMs        int64  `toml:"flush_interval_ms"`   // Periodic flush and age check interval
	MaxTotalSizeKB         int64  `toml:"max_total_size_kb"`   // Total size of log files before the oldest are deleted
	MaxLogFiles            int64  `toml:"max_log_files"`       // Number of log files before the oldest are deleted
	MinDiskFreeKB          int64  `toml:"min_disk_free_kb"`    // Free disk space below which the oldest files are deleted
	Console                string `toml:"console"`             // Mirror lines to "stdout" or "stderr"
	ConsoleColor           bool   `toml:"console_color"`       // Color console lines when the target is a terminal
}

const (
	defaultAlias     = "filelog"
	defaultNamespace = "filelog_logs"
	bytesPerKB       = 1000
)

// DefaultConfig returns the configuration used when none is provided.
func DefaultConfig() Config {
	return Config{
		Level:                  LevelInfo,
		Alias:                  defaultAlias,
		Namespace:              defaultNamespace,
		MaxFileSizeKB:          10 * 1000 * 1000, // 10 GB
		RollingFrequencySecond: 24 * 60 * 60,
		FlushIntervalMs:        1000,
		ConsoleColor:           true,
	}
}

// Validate reports malformed values. Out-of-range numeric limits are not
// errors; they disable the limit.
func (c Config) Validate() error {
	if !c.Level.valid() {
		return errors.Newf("invalid level: %d", int(c.Level))
	}
	switch c.Console {
	case ConsoleNone, ConsoleStdout, ConsoleStderr:
	default:
		return errors.Newf("invalid console target: %q", c.Console)
	}
	return nil
}

func (c Config) maxFileSizeBytes() int64 {
	return kbToBytes(c.MaxFileSizeKB)
}

func (c Config) rollingFrequency() time.Duration {
	return time.Duration(scaleLimit(c.RollingFrequencySecond, int64(time.Second)))
}

func (c Config) flushInterval() time.Duration {
	return time.Duration(scaleLimit(c.FlushIntervalMs, int64(time.Millisecond)))
}

// kbToBytes converts the external kilobyte unit once, at the API boundary.
func kbToBytes(kb int64) int64 {
	return scaleLimit(kb, bytesPerKB)
}

// scaleLimit returns n*unit, or 0 (disabled) when n is not positive or the
// product does not fit in an int64.
func scaleLimit(n, unit int64) int64 {
	if n <= 0 || n > math.MaxInt64/unit {
		return 0
	}
	return n * unit
}

// LoadConfig reads a TOML file on top of DefaultConfig. Keys missing from the
// file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to load config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.Newf("unknown config keys in %s: %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as TOML, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "failed to write config %s", path)
	}
	return nil
}
