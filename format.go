package filelog

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// timeLayout is the record timestamp, second precision in local time.
const timeLayout = "2006-01-02 15:04:05"

// serializer builds one formatted log line
type serializer struct {
	buf []byte
}

func newSerializer() *serializer {
	return &serializer{buf: make([]byte, 0, 256)}
}

// formatRecord renders r as a single newline-terminated line:
//
//	ALIAS:[YYYY-MM-DD HH:MM:SS][LEVEL] | MESSAGE | [file line function thread]
func formatRecord(r Record) []byte {
	s := newSerializer()
	s.buf = append(s.buf, r.Alias...)
	s.buf = append(s.buf, ":["...)
	s.buf = r.Time.AppendFormat(s.buf, timeLayout)
	s.buf = append(s.buf, "]["...)
	s.buf = append(s.buf, r.Level.String()...)
	s.buf = append(s.buf, "] | "...)
	s.writeString(r.Message)
	s.buf = append(s.buf, " | ["...)
	s.buf = append(s.buf, filepath.Base(r.Location.File)...)
	s.buf = append(s.buf, ' ')
	s.buf = strconv.AppendInt(s.buf, int64(r.Location.Line), 10)
	s.buf = append(s.buf, ' ')
	s.buf = append(s.buf, r.Location.Function...)
	if r.Thread != "" {
		s.buf = append(s.buf, ' ')
		s.buf = append(s.buf, r.Thread...)
	}
	s.buf = append(s.buf, "]\n"...)
	return s.buf
}

// writeString appends str, escaping line breaks so a record never spans lines
func (s *serializer) writeString(str string) {
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case '\n':
			s.buf = append(s.buf, '\\', 'n')
		case '\r':
			s.buf = append(s.buf, '\\', 'r')
		default:
			s.buf = append(s.buf, str[i])
		}
	}
}

// formatMessage joins args with spaces
func formatMessage(args []any) string {
	s := newSerializer()
	for i, arg := range args {
		if i > 0 {
			s.buf = append(s.buf, ' ')
		}
		s.writeValue(arg)
	}
	return string(s.buf)
}

// writeValue converts any value to its text representation
func (s *serializer) writeValue(v any) {
	switch val := v.(type) {
	case string:
		s.buf = append(s.buf, val...)
	case int:
		s.buf = strconv.AppendInt(s.buf, int64(val), 10)
	case int64:
		s.buf = strconv.AppendInt(s.buf, val, 10)
	case uint64:
		s.buf = strconv.AppendUint(s.buf, val, 10)
	case float64:
		s.buf = strconv.AppendFloat(s.buf, val, 'f', -1, 64)
	case bool:
		s.buf = strconv.AppendBool(s.buf, val)
	case nil:
		s.buf = append(s.buf, "<nil>"...)
	default:
		s.buf = append(s.buf, stringifyMessage(val)...)
	}
}

// stringifyMessage converts any type to a string representation
func stringifyMessage(msg any) string {
	switch m := msg.(type) {
	case string:
		return m
	case error:
		return m.Error()
	case fmt.Stringer:
		return m.String()
	default:
		return fmt.Sprintf("%+v", m)
	}
}
