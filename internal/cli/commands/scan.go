package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/supabase-community/pg-parser/pkg/pgparser"
)

// tokenRow is one scanned token prepared for rendering.
type tokenRow struct {
	Start   int32  `json:"start"`
	End     int32  `json:"end"`
	Name    string `json:"name"`
	Keyword string `json:"keyword"`
	Text    string `json:"text"`
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "scan [file]",
		Short: "Lex SQL into its token stream",
		Long: `Scan SQL and print each token with its byte range, descriptor name,
and keyword class. Comments appear as tokens too.

Reads from the named file, or from stdin when the argument is absent
or "-".`,
		Example: `  # Token table for a statement
  echo "SELECT 1" | pgparser scan

  # Machine-readable output
  pgparser scan --format json queries.sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, name, err := readSource(cmd, args)
			if err != nil {
				return err
			}

			res, err := pgparser.Scan(string(data))
			if err != nil {
				return reportError(cmd, name, string(data), err)
			}

			rows := tokenRows(string(data), res.Tokens)
			return renderTokens(cmd.OutOrStdout(), rows, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json, csv, or md")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "csv", "md"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func tokenRows(src string, tokens []pgparser.ScanToken) []tokenRow {
	rows := make([]tokenRow, len(tokens))
	for i, tk := range tokens {
		rows[i] = tokenRow{
			Start:   tk.Start,
			End:     tk.End,
			Name:    tk.Name(),
			Keyword: tk.Keyword.String(),
			Text:    src[tk.Start:tk.End],
		}
	}
	return rows
}

func renderTokens(w io.Writer, rows []tokenRow, format string) error {
	switch format {
	case "table":
		renderTokenTable(w, rows)
		return nil
	case "json":
		return renderTokenJSON(w, rows)
	case "csv":
		renderTokenCSV(w, rows)
		return nil
	case "md", "markdown":
		renderTokenMarkdown(w, rows)
		return nil
	default:
		return fmt.Errorf("invalid format %q (expected table, json, csv, or md)", format)
	}
}

func renderTokenTable(w io.Writer, rows []tokenRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Position", "Token", "Keyword", "Text"})
	for _, r := range rows {
		t.AppendRow(table.Row{fmt.Sprintf("%d..%d", r.Start, r.End), r.Name, r.Keyword, r.Text})
	}
	t.Render()
	fmt.Fprintf(w, "(%d tokens)\n", len(rows))
}

func renderTokenJSON(w io.Writer, rows []tokenRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func renderTokenCSV(w io.Writer, rows []tokenRow) {
	fmt.Fprintln(w, "start,end,name,keyword,text")
	for _, r := range rows {
		fmt.Fprintf(w, "%d,%d,%s,%s,%s\n", r.Start, r.End, escapeCSV(r.Name), escapeCSV(r.Keyword), escapeCSV(r.Text))
	}
}

func renderTokenMarkdown(w io.Writer, rows []tokenRow) {
	fmt.Fprintln(w, "| Position | Token | Keyword | Text |")
	fmt.Fprintln(w, "|---|---|---|---|")
	for _, r := range rows {
		fmt.Fprintf(w, "| %d..%d | %s | %s | %s |\n",
			r.Start, r.End, escapeMarkdown(r.Name), escapeMarkdown(r.Keyword), escapeMarkdown(r.Text))
	}
}

// escapeCSV quotes a field when it contains a comma, quote, or newline.
func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// escapeMarkdown escapes pipes so token text cannot break the table.
func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
