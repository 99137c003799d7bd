package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/hbs/internal/command"
	"github.com/idelchi/hbs/internal/scan"
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

// workingDir returns the current directory, reporting to errOut if it
// cannot be read.
func workingDir(errOut io.Writer) (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(errOut, "Could not read directory path: . [%s]\n", reason(err))

		return "", false
	}

	return cwd, true
}

// reason strips the operation wrappers from a system error.
func reason(err error) error {
	var sysErr *os.SyscallError
	if errors.As(err, &sysErr) {
		return sysErr.Err
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}

	return err
}

//nolint:funlen,gocognit,cyclop // Top-level run sequence.
func logic(ctx context.Context, opts options, out, errOut io.Writer) error {
	output := strings.ToLower(opts.output)
	if output != "text" && output != "json" {
		return usageError{err: fmt.Errorf("invalid output format %q: must be one of [text json]", opts.output)}
	}

	level, err := logLevel(opts.debug, opts.logLevel)
	if err != nil {
		return usageError{err: fmt.Errorf("invalid log level %q", opts.logLevel)}
	}

	log := NewLogger(errOut, level)

	if output == "json" {
		// Per-entry lines and command echoes would break the document.
		opts.scan.Display = scan.DisplayNone
	}

	// With no start path and no readable working directory nothing is
	// searched, but the (empty) summary is still printed.
	paths := opts.paths
	if len(paths) == 0 {
		if cwd, ok := workingDir(errOut); ok {
			paths = []string{cwd}
		}
	}

	scanOptions := []scan.Option{
		scan.WithReporter(newLineReporter(out, errOut, opts.scan)),
		scan.WithLogger(log),
	}

	if opts.command != "" {
		var destDir string

		if opts.commandExt != "" {
			cwd, ok := workingDir(errOut)
			if !ok {
				return nil
			}

			destDir = cwd
		}

		runner, err := command.New(opts.command, opts.commandExt, destDir, opts.background)
		if err != nil {
			return err
		}

		if opts.scan.Display != scan.DisplayNone {
			runner.Echo = out
		}

		if output == "json" {
			runner.Stdout = errOut
		}

		scanOptions = append(scanOptions, scan.WithDispatcher(runner))
	}

	enableProgress := output == "text" &&
		opts.scan.Display == scan.DisplayNone &&
		!opts.debug &&
		isTerminal(errOut)

	// Totals of the roots already finished; the hook adds the running root.
	var total scan.Stats

	clearProgress := func() {}

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(errOut, "\033[?25l")
		defer fmt.Fprint(errOut, "\033[?25h")

		clearProgress = func() { fmt.Fprint(errOut, "\r\033[2K\r") }

		scanOptions = append(scanOptions, scan.WithProgress(func(current scan.Stats) {
			running := total
			running.Merge(current)

			msg := fmt.Sprintf("Scanning… %d files, %d dirs, %s",
				running.Files, running.Dirs, humanize.IBytes(running.Bytes))
			fmt.Fprintf(errOut, "\r\033[2K%s\r", msg)
		}))
	}

	scanner, err := scan.New(opts.scan, scanOptions...)
	if err != nil {
		return usageError{err: err}
	}

	if output == "text" && opts.scan.Display != scan.DisplayNone {
		fmt.Fprintln(out)
	}

	for _, path := range paths {
		if output == "text" {
			clearProgress()
			fmt.Fprintf(out, "Search path: %s\n", path)
		}

		stats, err := scanner.Scan(ctx, path)
		total.Merge(stats)

		if err != nil {
			return err
		}
	}

	clearProgress()

	if output == "json" {
		return PrintJSON(paths, total, out)
	}

	return PrintSummary(total, out)
}
