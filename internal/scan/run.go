package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// Reporter renders the per-entry output of a scan.
type Reporter interface {
	// Entry reports one counted entry at the given depth.
	Entry(e Entry, depth int)
	// Error reports a directory that could not be read, by the path the
	// root was given as plus the names below it.
	Error(path string, err error)
}

// Dispatcher runs the external command for a counted entry.
type Dispatcher interface {
	Dispatch(ctx context.Context, e Entry) error
}

// Scanner walks directory trees with a fixed set of options.
type Scanner struct {
	opt      Options
	policy   Policy
	reporter Reporter
	command  Dispatcher
	log      zerolog.Logger

	progress     func(Stats)
	lastProgress time.Time
}

// Option customizes a Scanner.
type Option func(*Scanner)

// WithReporter sets the reporter for counted entries and read errors.
func WithReporter(r Reporter) Option {
	return func(s *Scanner) {
		s.reporter = r
	}
}

// WithDispatcher sets the command run for every counted entry.
func WithDispatcher(d Dispatcher) Option {
	return func(s *Scanner) {
		s.command = d
	}
}

// WithLogger sets the debug logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Scanner) {
		s.log = log
	}
}

// WithProgress sets a hook receiving the running counters of the current
// root, at most once per ProgressInterval.
func WithProgress(hook func(Stats)) Option {
	return func(s *Scanner) {
		s.progress = hook
	}
}

// New validates opt and returns a Scanner.
func New(opt Options, options ...Option) (*Scanner, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	if opt.ProgressInterval <= 0 {
		opt.ProgressInterval = DefaultProgressInterval
	}

	s := &Scanner{
		opt:    opt,
		policy: NewPolicy(opt),
		log:    zerolog.Nop(),
	}

	for _, o := range options {
		o(s)
	}

	return s, nil
}

// Scan walks root and returns its counters. The root itself is never
// counted; only its entries and, in recursive mode, their descendants are.
//
// Unreadable directories are reported and skipped. The only error returned
// is ctx's.
func (s *Scanner) Scan(ctx context.Context, root string) (Stats, error) {
	start := time.Now()

	dir, err := filepath.Abs(root)
	if err != nil {
		dir = filepath.Clean(root)
	}

	s.log.Debug().
		Str("root", root).
		Str("abs", dir).
		Stringer("skip", s.opt.Skip).
		Str("filter", s.opt.Pattern).
		Bool("recursive", s.opt.Recursive).
		Bool("follow", s.opt.FollowLinks).
		Msg("scanning")

	var stats Stats

	err = s.walk(ctx, dir, root, 0, &stats)
	stats.Elapsed = time.Since(start)

	s.log.Debug().
		Str("root", root).
		Str("size", humanize.IBytes(stats.Bytes)).
		Uint64("files", stats.Files).
		Uint64("dirs", stats.Dirs).
		Dur("elapsed", stats.Elapsed).
		Msg("scanned")

	return stats, err
}

// walk counts the entries of dir into stats and descends into
// subdirectories. Entries are visited in listing order. shown is dir as
// derived from the root the user gave, used in error reports.
func (s *Scanner) walk(ctx context.Context, dir, shown string, depth int, stats *Stats) error {
	names, err := readNames(dir)
	if err != nil {
		stats.Errors++

		s.log.Debug().Err(err).Str("dir", dir).Msg("skipping unreadable directory")

		if s.reporter != nil {
			s.reporter.Error(shown, err)
		}

		return nil
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}

		if name == "." || name == ".." {
			continue
		}

		entry, err := readEntry(dir, name, s.opt.FollowLinks)
		if err != nil {
			stats.Errors++

			s.log.Warn().Err(err).Str("path", filepath.Join(dir, name)).Msg("stat failed")

			continue
		}

		if verdict := s.policy.Decide(entry); verdict != Skip {
			stats.add(verdict, entry.Size)
			s.counted(ctx, entry, depth)
		}

		s.reportProgress(*stats)

		if s.descends(entry) {
			s.log.Debug().Str("dir", entry.Path()).Int("depth", depth+1).Msg("descending")

			if err := s.walk(ctx, entry.Path(), filepath.Join(shown, entry.Name), depth+1, stats); err != nil {
				return err
			}
		}
	}

	return nil
}

// descends reports whether the walk recurses into e, whether or not e
// was counted.
func (s *Scanner) descends(e Entry) bool {
	if !s.opt.Recursive {
		return false
	}

	if e.Kind == KindDir {
		return true
	}

	return e.LinksToDir && s.opt.FollowLinks
}

// counted reports a counted entry and runs the command on it.
func (s *Scanner) counted(ctx context.Context, e Entry, depth int) {
	if s.opt.Display != DisplayNone && s.reporter != nil {
		s.reporter.Entry(e, depth)
	}

	if s.command == nil {
		return
	}

	if err := s.command.Dispatch(ctx, e); err != nil {
		s.log.Debug().Err(err).Str("path", e.Path()).Msg("command failed")
	}
}

// reportProgress invokes the progress hook if enough time has passed.
func (s *Scanner) reportProgress(stats Stats) {
	if s.progress == nil {
		return
	}

	now := time.Now()
	if now.Sub(s.lastProgress) < s.opt.ProgressInterval {
		return
	}

	s.lastProgress = now
	s.progress(stats)
}

// readNames lists dir without sorting.
func readNames(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, unwrapPathError(err)
	}
	defer f.Close()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, unwrapPathError(err)
	}

	return names, nil
}

// unwrapPathError strips the *fs.PathError wrapper so the reporter can
// print the path and the bare reason separately.
func unwrapPathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}

	return err
}
