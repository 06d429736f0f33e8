// Package pgerr carries the engine's internal error reports.
//
// The scanner, grammar, and renderer never return errors: a condition they
// cannot recover from is raised with Report or ReportAt, which panics with an
// *Error describing the failure site. Only the boundary layer may stop that
// unwind, inside its recovery region, where the record's fields are copied
// into a caller-visible error value. Any other panic value is a programming
// bug and must be left alone.
package pgerr

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// Error is one engine fatal condition. Location is a byte offset into the
// SQL source being processed, or -1 when the condition has no position.
// File, Func, and Line identify the report site inside the engine.
type Error struct {
	Message  string
	Location int
	File     string
	Func     string
	Line     int
	Context  string
}

func (e *Error) Error() string {
	return e.Message
}

// Report raises a fatal condition with no source position. It does not
// return.
func Report(format string, args ...any) {
	panic(newError(-1, "", format, args...))
}

// ReportAt raises a fatal condition pointing at the given byte offset in the
// source text. It does not return.
func ReportAt(location int, format string, args ...any) {
	panic(newError(location, "", format, args...))
}

// ReportContext is ReportAt with an additional context line, used when the
// condition arose while processing a named construct.
func ReportContext(location int, context, format string, args ...any) {
	panic(newError(location, context, format, args...))
}

func newError(location int, context, format string, args ...any) *Error {
	e := &Error{
		Message:  fmt.Sprintf(format, args...),
		Location: location,
		Context:  context,
	}
	// Skip newError and the Report* wrapper; the frame above those is the
	// report site.
	if pc, file, line, ok := runtime.Caller(2); ok {
		e.File = filepath.Base(file)
		e.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			name := fn.Name()
			if i := strings.LastIndexByte(name, '.'); i >= 0 {
				name = name[i+1:]
			}
			e.Func = name
		}
	}
	return e
}

// Warnf writes a non-fatal diagnostic line to the engine's diagnostic sink
// in the server's severity format.
func Warnf(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, "WARNING:  "+format+"\n", args...)
}

// Noticef writes an informational diagnostic line to the engine's
// diagnostic sink.
func Noticef(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, "NOTICE:  "+format+"\n", args...)
}
