package scan

import (
	"fmt"
	"path/filepath"
	"time"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// PermBits are the permission bits the mode tests look at.
const PermBits = 0o777

// Display selects how matched entries are reported.
type Display int

// Display modes.
const (
	// DisplayNone reports nothing per entry.
	DisplayNone Display = iota
	// DisplayVerbose reports size, status and full path.
	DisplayVerbose
	// DisplayTree reports size, status and the name indented by depth.
	DisplayTree
	// DisplayDump reports the full path only.
	DisplayDump
)

func (d Display) String() string {
	switch d {
	case DisplayVerbose:
		return "verbose"
	case DisplayTree:
		return "tree"
	case DisplayDump:
		return "dump"
	default:
		return "none"
	}
}

// ResolveDisplay picks the display mode from the individual flags.
// Nothing is shown unless verbose or dump is set; tree then beats dump,
// and dump beats verbose.
func ResolveDisplay(verbose, dump, tree bool) Display {
	switch {
	case !verbose && !dump:
		return DisplayNone
	case tree:
		return DisplayTree
	case dump:
		return DisplayDump
	default:
		return DisplayVerbose
	}
}

// ModeTest is one permission-bit test.
type ModeTest struct {
	// Enabled turns the test on.
	Enabled bool
	// Bits is the octal bit pattern, only the low nine bits are used.
	Bits uint32
}

// Options configures a scan. It is built once and never changed while a
// scan runs.
type Options struct {
	// Skip is the set of kinds that are never counted.
	Skip KindSet
	// Pattern is the shell-glob the entry name must match (empty = any).
	Pattern string
	// OrMode passes if any of its bits is set.
	OrMode ModeTest
	// AndMode passes if the permission bits equal its bits exactly.
	AndMode ModeTest
	// XorMode passes if the permission bits equal its bits exactly.
	XorMode ModeTest
	// Recursive enables descent into subdirectories.
	Recursive bool
	// FollowLinks reports a symlink's target size and descends into
	// symlinked directories. Link cycles are not detected.
	FollowLinks bool
	// Display selects per-entry reporting.
	Display Display
	// ShowPerms adds the rwx column to report lines.
	ShowPerms bool
	// ShowUID adds the owner uid column to report lines.
	ShowUID bool
	// ShowGID adds the owner gid column to report lines.
	ShowGID bool
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
}

// Validate checks the options once before a scan.
func (o Options) Validate() error {
	if o.Pattern != "" {
		if _, err := filepath.Match(globPattern(o.Pattern), ""); err != nil {
			return fmt.Errorf("invalid filter pattern %q: %w", o.Pattern, err)
		}
	}

	tests := []struct {
		name string
		test ModeTest
	}{
		{"or", o.OrMode},
		{"and", o.AndMode},
		{"xor", o.XorMode},
	}

	for _, t := range tests {
		if t.test.Enabled && t.test.Bits&^PermBits != 0 {
			return fmt.Errorf("%s mode %o has bits outside %o", t.name, t.test.Bits, PermBits)
		}
	}

	return nil
}
