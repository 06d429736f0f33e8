package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/supabase-community/pg-parser/internal/cli/config"
	"github.com/supabase-community/pg-parser/pkg/ast"
	"github.com/supabase-community/pg-parser/pkg/pgparser"
)

const (
	replPrompt     = "pgparser> "
	replContinue   = "     ...> "
	replHistoryEnv = "PGPARSER_HISTORY"
)

// replMode selects what the REPL prints for each statement.
type replMode int

const (
	replModeTree replMode = iota
	replModeSQL
	replModeTokens
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive parse loop",
		Long: `Start an interactive loop that parses each statement as you finish it
with a semicolon. By default it prints the parse tree; switch output
with .sql or .tokens.`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile(),
		AutoComplete:    replCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "pgparser REPL (parse tree schema %d)\n", ast.Version)
	fmt.Fprintln(out, `Statements end with ";" - type .help for commands, .quit to exit`)
	fmt.Fprintln(out)

	mode := replModeTree
	var buffer strings.Builder

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buffer.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Dot commands apply only at the start of a statement.
		if strings.HasPrefix(line, ".") && buffer.Len() == 0 {
			var quit bool
			mode, quit = handleREPLCommand(cmd, line, mode)
			if quit {
				break
			}
			continue
		}

		buffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			buffer.WriteString(" ")
			rl.SetPrompt(replContinue)
			continue
		}
		rl.SetPrompt(replPrompt)

		src := strings.TrimSuffix(buffer.String(), ";")
		buffer.Reset()
		evalREPLInput(cmd, src, mode)
		fmt.Fprintln(out)
	}
	return nil
}

// historyFile picks the readline history path: the PGPARSER_HISTORY
// override, or ~/.pgparser_history. Empty disables history.
func historyFile() string {
	if p := os.Getenv(replHistoryEnv); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pgparser_history")
}

func replCompleter() readline.AutoCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".tree"),
		readline.PcItem(".sql"),
		readline.PcItem(".tokens"),
		readline.PcItem(".help"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

func handleREPLCommand(cmd *cobra.Command, line string, mode replMode) (replMode, bool) {
	out := cmd.OutOrStdout()
	switch strings.ToLower(strings.Fields(line)[0]) {
	case ".quit", ".exit":
		return mode, true
	case ".help":
		printREPLHelp(out)
		return mode, false
	case ".tree":
		fmt.Fprintln(out, "output mode: tree")
		return replModeTree, false
	case ".sql":
		fmt.Fprintln(out, "output mode: sql")
		return replModeSQL, false
	case ".tokens":
		fmt.Fprintln(out, "output mode: tokens")
		return replModeTokens, false
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", line)
		return mode, false
	}
}

func printREPLHelp(w io.Writer) {
	fmt.Fprint(w, `Commands:
  .tree          Print parse trees (default)
  .sql           Print canonical SQL
  .tokens        Print token tables
  .help          Show this help message
  .quit / .exit  Exit the REPL

Tips:
  - Statements must end with a semicolon (;)
  - Use arrow keys to navigate history
`)
}

func evalREPLInput(cmd *cobra.Command, src string, mode replMode) {
	out := cmd.OutOrStdout()
	st := newStyles(out, config.GetCurrentConfig().NoColor)

	fail := func(err error) {
		var info *pgparser.ErrorInfo
		if errors.As(err, &info) {
			printDiagnostic(out, st, "", src, info)
			return
		}
		fmt.Fprintf(out, "error: %v\n", err)
	}

	switch mode {
	case replModeSQL:
		res, err := pgparser.Parse(src)
		if err != nil {
			fail(err)
			return
		}
		sql, err := pgparser.Deparse(res.Tree)
		if err != nil {
			fail(err)
			return
		}
		fmt.Fprintln(out, sql+";")

	case replModeTokens:
		res, err := pgparser.Scan(src)
		if err != nil {
			fail(err)
			return
		}
		renderTokenTable(out, tokenRows(src, res.Tokens))

	default:
		res, err := pgparser.Parse(src)
		if err != nil {
			fail(err)
			return
		}
		if len(res.Stderr) > 0 {
			_, _ = out.Write(res.Stderr)
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(res.Tree), "", "  "); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}
		fmt.Fprintln(out, buf.String())
	}
}
