package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/supabase-community/pg-parser/internal/cli/config"
	"github.com/supabase-community/pg-parser/pkg/pgparser"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Jobs  int
	Watch bool
}

// checkResult is the outcome of checking one file.
type checkResult struct {
	Path    string
	Src     string
	Stderr  []byte
	Err     *pgparser.ErrorInfo
	Elapsed time.Duration
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Parse SQL files and report diagnostics",
		Long: `Parse every named SQL file and report server-style diagnostics for the
ones that fail, with the offending line and a caret under the cursor
position. Directories are walked for .sql files and glob patterns
expand.

The exit status is non-zero when any file fails.`,
		Example: `  # Check a directory of migrations
  pgparser check migrations/

  # Check matching files with four workers
  pgparser check --jobs 4 'queries/*.sql'

  # Keep checking as files change
  pgparser check --watch queries/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Files checked in parallel (0 = number of CPUs)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check files when they change")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	files, err := expandPaths(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no SQL files matched")
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = config.GetCurrentConfig().Check.Jobs
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	results, err := checkFiles(files, jobs)
	if err != nil {
		return err
	}

	st := newStyles(cmd.ErrOrStderr(), config.GetCurrentConfig().NoColor)
	failures := 0
	for _, r := range results {
		if r.Err == nil {
			if len(r.Stderr) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s:\n", r.Path)
				_, _ = cmd.ErrOrStderr().Write(r.Stderr)
			}
			continue
		}
		failures++
		printDiagnostic(cmd.ErrOrStderr(), st, r.Path, r.Src, r.Err)
	}

	outSt := newStyles(cmd.OutOrStdout(), config.GetCurrentConfig().NoColor)
	renderCheckSummary(cmd.OutOrStdout(), outSt, results, failures)

	if opts.Watch {
		return watchFiles(cmd, files)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(files))
	}
	return nil
}

// expandPaths resolves arguments into SQL files: glob patterns expand,
// directories are walked for .sql files, plain files pass through. The
// result is sorted and deduplicated.
func expandPaths(args []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, arg := range args {
		if strings.ContainsAny(arg, "*?[") {
			matches, err := filepath.Glob(arg)
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == ".sql" {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// checkFiles parses the files with up to jobs workers.
func checkFiles(files []string, jobs int) ([]checkResult, error) {
	results := make([]checkResult, len(files))

	g := new(errgroup.Group)
	g.SetLimit(jobs)
	for i, path := range files {
		// Shadow per iteration: the surrounding go.mod targets the Go 1.21
		// language version, which shares loop variables across iterations.
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			start := time.Now()
			res, perr := pgparser.Parse(string(data))
			r := checkResult{Path: path, Src: string(data), Elapsed: time.Since(start)}
			if perr != nil {
				var info *pgparser.ErrorInfo
				if !errors.As(perr, &info) {
					return perr
				}
				r.Err = info
			} else {
				r.Stderr = res.Stderr
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func renderCheckSummary(w io.Writer, st *styles, results []checkResult, failures int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Status", "Time"})

	var total time.Duration
	for _, r := range results {
		status := st.ok("ok")
		if r.Err != nil {
			status = st.fail("FAIL")
		}
		total += r.Elapsed
		t.AppendRow(table.Row{r.Path, status, r.Elapsed.Round(time.Microsecond)})
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d files", len(results)),
		fmt.Sprintf("%d failed", failures),
		total.Round(time.Microsecond),
	})
	t.Render()
}

// watchFiles re-checks a file whenever it changes, until the context is
// canceled. Events are debounced because editors fire several per save.
func watchFiles(cmd *cobra.Command, files []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	logger := config.GetLogger(cmd.Context())
	logger.Info("watching for changes", "files", len(files), "dirs", len(dirs))

	var debounce *time.Timer
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			path := event.Name
			debounce = time.AfterFunc(100*time.Millisecond, func() {
				recheckFile(cmd, path)
			})
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", werr)
		}
	}
}

func recheckFile(cmd *cobra.Command, path string) {
	noColor := config.GetCurrentConfig().NoColor

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
		return
	}
	if _, perr := pgparser.Parse(string(data)); perr != nil {
		var info *pgparser.ErrorInfo
		if errors.As(perr, &info) {
			st := newStyles(cmd.ErrOrStderr(), noColor)
			printDiagnostic(cmd.ErrOrStderr(), st, path, string(data), info)
		}
		return
	}
	st := newStyles(cmd.OutOrStdout(), noColor)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", st.ok("ok"), path)
}
