package scan

import "time"

// Stats holds the aggregate counters of a scan. Counters only ever grow.
type Stats struct {
	// Bytes is the cumulative size of every counted entry.
	Bytes uint64 `json:"bytes"`
	// Files is the number of counted non-directory entries.
	Files uint64 `json:"files"`
	// Dirs is the number of counted directories.
	Dirs uint64 `json:"dirs"`
	// Errors is the number of directories or entries that could not be read.
	Errors uint64 `json:"errors"`
	// Elapsed is the time spent scanning.
	Elapsed time.Duration `json:"elapsed"`
}

// Merge adds the counters of o to s. Overlapping roots are counted twice.
func (s *Stats) Merge(o Stats) {
	s.Bytes += o.Bytes
	s.Files += o.Files
	s.Dirs += o.Dirs
	s.Errors += o.Errors
	s.Elapsed += o.Elapsed
}

// add records one counted entry.
func (s *Stats) add(v Verdict, size int64) {
	if size > 0 {
		s.Bytes += uint64(size)
	}

	switch v {
	case CountFile:
		s.Files++
	case CountDir:
		s.Dirs++
	case Skip:
	}
}
