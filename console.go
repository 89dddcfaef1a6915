package filelog

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// consoleSink mirrors emitted lines to a standard stream. Writes are
// serialized so lines from concurrent emitters never interleave.
type consoleSink struct {
	mu     sync.Mutex
	w      io.Writer
	colors map[Level]*color.Color // nil when coloring is off
}

// newConsoleSink returns nil when target is empty. override, when set,
// replaces the standard stream.
func newConsoleSink(target string, colorize bool, override io.Writer) *consoleSink {
	var w io.Writer
	switch target {
	case ConsoleStdout:
		w = os.Stdout
	case ConsoleStderr:
		w = os.Stderr
	default:
		return nil
	}
	if override != nil {
		w = override
	}

	c := &consoleSink{w: w}
	if colorize && isTerminal(w) {
		c.colors = map[Level]*color.Color{
			LevelError:   color.New(color.FgRed),
			LevelWarning: color.New(color.FgYellow),
			LevelInfo:    color.New(color.FgCyan),
			LevelVerbose: color.New(color.FgHiBlack),
		}
		for _, lc := range c.colors {
			lc.EnableColor()
		}
	}
	return c
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// write prints line, colored by level when enabled. Errors are ignored: the
// console is a best-effort mirror of the file.
func (c *consoleSink) write(level Level, line []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if lc, ok := c.colors[level]; ok {
		_, _ = io.WriteString(c.w, lc.Sprint(string(bytes.TrimSuffix(line, []byte("\n"))))+"\n")
		return
	}
	_, _ = c.w.Write(line)
}
