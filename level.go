package filelog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Level is the severity of a record. Levels are ordered from most to least
// severe; LevelNone is the disabled sentinel and never admits anything.
type Level int

// Log level constants. A threshold admits records at its own level and at
// every more severe level.
const (
	LevelNone    Level = 0 // logging disabled
	LevelError   Level = 1
	LevelWarning Level = 2
	LevelInfo    Level = 3
	LevelVerbose Level = 4
)

// Allows reports whether a record at level record is emitted under threshold.
// It is defined for every pair of values: LevelNone on either side and values
// outside the known range are rejected.
func Allows(record, threshold Level) bool {
	if !record.valid() || !threshold.valid() {
		return false
	}
	if record == LevelNone || threshold == LevelNone {
		return false
	}
	return record <= threshold
}

func (l Level) valid() bool {
	return l >= LevelNone && l <= LevelVerbose
}

// String converts the level to the name written in log lines.
func (l Level) String() string {
	switch l {
	case LevelNone:
		return "NONE"
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	case LevelInfo:
		return "INFO"
	case LevelVerbose:
		return "VERBOSE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(l))
	}
}

// ParseLevel converts a level name (case-insensitive) or its numeric value.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off", "disabled":
		return LevelNone, nil
	case "error":
		return LevelError, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "info":
		return LevelInfo, nil
	case "verbose", "debug", "all":
		return LevelVerbose, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !Level(n).valid() {
		return LevelNone, errors.Newf("invalid level: %q", s)
	}
	return Level(n), nil
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.valid() {
		return nil, errors.Newf("invalid level: %d", int(l))
	}
	return []byte(strings.ToLower(l.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	v, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}
