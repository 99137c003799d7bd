package scan

import (
	"path/filepath"
)

// Verdict is the outcome of applying the filter to one entry.
type Verdict int

// Verdicts.
const (
	// Skip means the entry is not counted.
	Skip Verdict = iota
	// CountFile means the entry adds to the file counter.
	CountFile
	// CountDir means the entry adds to the directory counter.
	CountDir
)

// Policy decides which entries count.
type Policy struct {
	skip    KindSet
	pattern string
	or      ModeTest
	and     ModeTest
	xor     ModeTest
}

// NewPolicy builds the policy for validated options.
func NewPolicy(opt Options) Policy {
	p := Policy{
		skip: opt.Skip,
		or:   opt.OrMode,
		and:  opt.AndMode,
		xor:  opt.XorMode,
	}

	if opt.Pattern != "" {
		p.pattern = globPattern(opt.Pattern)
	}

	return p
}

// Decide classifies e. Directories, including symlinks resolving to one,
// are counted on the type mask alone. Every other entry must pass the full
// filter.
func (p Policy) Decide(e Entry) Verdict {
	if e.IsDir() {
		if p.skip.Has(KindDir) {
			return Skip
		}

		return CountDir
	}

	if p.Matches(e) {
		return CountFile
	}

	return Skip
}

// Matches reports whether e passes the name test, the three mode tests
// and the type mask.
func (p Policy) Matches(e Entry) bool {
	return p.matchName(e.Name) &&
		p.matchOr(e.Perm) &&
		p.matchXor(e.Perm) &&
		p.matchAnd(e.Perm) &&
		!p.skip.Has(e.Kind)
}

func (p Policy) matchName(name string) bool {
	if p.pattern == "" {
		return true
	}

	ok, err := filepath.Match(p.pattern, name)

	return err == nil && ok
}

func (p Policy) matchOr(perm uint32) bool {
	if !p.or.Enabled {
		return true
	}

	return perm&PermBits&p.or.Bits != 0
}

// matchXor passes only when the permission bits are exactly the pattern,
// the same condition as matchAnd.
func (p Policy) matchXor(perm uint32) bool {
	if !p.xor.Enabled {
		return true
	}

	return exactBits(perm, p.xor.Bits)
}

func (p Policy) matchAnd(perm uint32) bool {
	if !p.and.Enabled {
		return true
	}

	return exactBits(perm, p.and.Bits)
}

// exactBits reports whether every bit of want is set in perm and no bit
// outside want is.
func exactBits(perm, want uint32) bool {
	perm &= PermBits

	return perm&want == want && perm&^want == 0
}
