package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/hbs/internal/scan"
)

const (
	// TreeIndent is the number of spaces per depth level in tree display.
	TreeIndent = 3

	kib = 1024.0
	mib = kib * 1024.0
	gib = mib * 1024.0
)

// permLetters are the rwx letters for bits 0400 down to 0001.
const permLetters = "rwxrwxrwx"

// Summary is the JSON form of a finished run.
type Summary struct {
	// Paths are the start paths in the order searched.
	Paths []string `json:"paths"`
	// Bytes is the cumulative size of all counted entries.
	Bytes uint64 `json:"bytes"`
	// Human is Bytes in IEC units.
	Human string `json:"human"`
	// Files is the number of counted non-directory entries.
	Files uint64 `json:"files"`
	// Dirs is the number of counted directories.
	Dirs uint64 `json:"dirs"`
	// Errors is the number of unreadable directories or entries.
	Errors uint64 `json:"errors"`
	// Elapsed is the total time spent scanning.
	Elapsed time.Duration `json:"elapsed"`
}

// lineReporter writes one line per counted entry to out and read errors
// to errOut.
type lineReporter struct {
	out     io.Writer
	errOut  io.Writer
	display scan.Display
	perms   bool
	uid     bool
	gid     bool
}

func newLineReporter(out, errOut io.Writer, opt scan.Options) lineReporter {
	return lineReporter{
		out:     out,
		errOut:  errOut,
		display: opt.Display,
		perms:   opt.ShowPerms,
		uid:     opt.ShowUID,
		gid:     opt.ShowGID,
	}
}

//nolint:forbidigo // Report lines go to the console.
func (r lineReporter) Entry(e scan.Entry, depth int) {
	suffix := ""
	if e.IsDir() {
		suffix = "/"
	}

	switch r.display {
	case scan.DisplayTree:
		fmt.Fprintf(r.out, "%9d %s %*s%s%s\n", e.Size, r.status(e), depth*TreeIndent, "", e.Name, suffix)
	case scan.DisplayDump:
		fmt.Fprintf(r.out, "%s%s\n", e.Path(), suffix)
	case scan.DisplayVerbose:
		fmt.Fprintf(r.out, "%9d %s %s%s\n", e.Size, r.status(e), e.Path(), suffix)
	case scan.DisplayNone:
	}
}

func (r lineReporter) Error(path string, err error) {
	fmt.Fprintf(r.errOut, "Could not open directory: %s [%s]\n", path, err)
}

// status renders the optional permission, uid and gid columns.
func (r lineReporter) status(e scan.Entry) string {
	var b strings.Builder

	if r.perms {
		b.WriteString(PermString(e.Perm))
	}

	if r.uid {
		fmt.Fprintf(&b, " uid:%d", e.UID)
	}

	if r.gid {
		fmt.Fprintf(&b, " gid:%d", e.GID)
	}

	return b.String()
}

// PermString renders the low nine permission bits as "rwxr-x---".
func PermString(perm uint32) string {
	out := []byte(permLetters)

	for i := range out {
		if perm&(0o400>>i) == 0 {
			out[i] = '-'
		}
	}

	return string(out)
}

// ScaleBytes scales n to K below one MiB, M below one GiB and G otherwise.
func ScaleBytes(n uint64) (float64, byte) {
	size := float64(n)

	switch {
	case size < mib:
		return size / kib, 'K'
	case size < gib:
		return size / mib, 'M'
	default:
		return size / gib, 'G'
	}
}

// PrintSummary outputs the final totals line.
func PrintSummary(stats scan.Stats, writer io.Writer) error {
	scaled, unit := ScaleBytes(stats.Bytes)

	_, err := fmt.Fprintf(writer, "\n%012d (%.1f%c) total bytes in %d file(s) (%d directories)\n\n",
		stats.Bytes, scaled, unit, stats.Files, stats.Dirs)

	return err
}

// PrintJSON outputs the final totals in JSON format.
func PrintJSON(paths []string, stats scan.Stats, writer io.Writer) error {
	summary := Summary{
		Paths:   paths,
		Bytes:   stats.Bytes,
		Human:   humanize.IBytes(stats.Bytes),
		Files:   stats.Files,
		Dirs:    stats.Dirs,
		Errors:  stats.Errors,
		Elapsed: stats.Elapsed,
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}
