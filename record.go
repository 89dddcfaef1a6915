package filelog

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/petermattis/goid"
)

// Location identifies the call site that produced a record.
type Location struct {
	File     string
	Line     int
	Function string
}

// Record is a single log entry. It is built once per emit call and never
// modified afterwards.
type Record struct {
	Time     time.Time
	Level    Level
	Alias    string
	Message  string
	Location Location
	Thread   string
}

// mainGoroutineID is the id the runtime assigns to the goroutine running main.
const mainGoroutineID = 1

// Caller returns the location skip frames above the caller of Caller.
// Caller(0) is the function calling Caller.
func Caller(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Location{File: "???", Line: -1, Function: "???"}
	}
	loc := Location{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		loc.Function = shortFuncName(fn.Name())
	}
	return loc
}

// shortFuncName drops the import path and package, keeping "Func" or
// "(*T).Method".
func shortFuncName(name string) string {
	name = filepath.Base(name)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// threadLabel is empty on the main goroutine and names the goroutine
// otherwise.
func threadLabel() string {
	id := goid.Get()
	if id == mainGoroutineID {
		return ""
	}
	return "goroutine " + strconv.FormatInt(id, 10)
}
