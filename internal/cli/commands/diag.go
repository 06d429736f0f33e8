package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/supabase-community/pg-parser/internal/cli/config"
	"github.com/supabase-community/pg-parser/pkg/pgparser"
)

// styles renders diagnostic fragments with terminal colors. Colors are
// active only when the destination is a terminal and color is not disabled
// via config or NO_COLOR.
type styles struct {
	out *termenv.Output
}

func newStyles(w io.Writer, noColor bool) *styles {
	if noColor || termenv.EnvNoColor() {
		return &styles{out: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))}
	}
	return &styles{out: termenv.NewOutput(w)}
}

func (s *styles) severity(text string) string {
	return s.out.String(text).Foreground(s.out.Color("1")).Bold().String()
}

func (s *styles) caret(text string) string {
	return s.out.String(text).Bold().String()
}

func (s *styles) ok(text string) string {
	return s.out.String(text).Foreground(s.out.Color("2")).String()
}

func (s *styles) fail(text string) string {
	return s.out.String(text).Foreground(s.out.Color("1")).String()
}

// printDiagnostic writes a server-style diagnostic: any captured warning
// output, the ERROR line, and for errors with a cursor position the
// offending source line with a caret under it.
func printDiagnostic(w io.Writer, st *styles, name, src string, info *pgparser.ErrorInfo) {
	if len(info.Stderr) > 0 {
		_, _ = w.Write(info.Stderr)
	}

	var line, col int
	var lineText string
	if info.CursorPos > 0 && src != "" {
		line, col, lineText = locateCursor(src, info.CursorPos)
	}

	var prefix string
	switch {
	case name != "" && line > 0:
		prefix = fmt.Sprintf("%s:%d: ", name, line)
	case name != "":
		prefix = name + ": "
	}
	fmt.Fprintf(w, "%s%s  %s\n", prefix, st.severity("ERROR:"), info.Message)

	if line > 0 {
		marker := fmt.Sprintf("LINE %d: ", line)
		fmt.Fprintf(w, "%s%s\n", marker, lineText)
		fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", len(marker)+col-1), st.caret("^"))
	}
}

// locateCursor maps a 1-based character position in src to its line number,
// 1-based column, and the text of that line. A position one past the end of
// the source is valid and yields a column one past the last character.
func locateCursor(src string, pos int) (line, col int, text string) {
	line, col = 1, 1
	lineStart := 0
	remaining := pos - 1
	i := 0
	for i < len(src) && remaining > 0 {
		r, size := utf8.DecodeRuneInString(src[i:])
		i += size
		remaining--
		if r == '\n' {
			line++
			col = 1
			lineStart = i
		} else {
			col++
		}
	}
	end := strings.IndexByte(src[lineStart:], '\n')
	if end < 0 {
		end = len(src) - lineStart
	}
	return line, col, src[lineStart : lineStart+end]
}

// reportError prints the full diagnostic for a failed operation to stderr
// and returns a terse error carrying the message for the exit status.
func reportError(cmd *cobra.Command, name, src string, err error) error {
	var info *pgparser.ErrorInfo
	if !errors.As(err, &info) {
		return err
	}
	st := newStyles(cmd.ErrOrStderr(), config.GetCurrentConfig().NoColor)
	printDiagnostic(cmd.ErrOrStderr(), st, name, src, info)
	return fmt.Errorf("%s: %s", name, info.Message)
}
