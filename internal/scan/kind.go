package scan

import "strings"

// Kind is the type of a filesystem object, as reported by lstat.
type Kind uint8

// Known kinds. KindUnknown is never counted.
const (
	KindSymlink Kind = iota
	KindRegular
	KindDir
	KindCharDevice
	KindBlockDevice
	KindFIFO
	KindSocket
	KindUnknown
)

var kindNames = [...]string{
	KindSymlink:     "symlink",
	KindRegular:     "file",
	KindDir:         "dir",
	KindCharDevice:  "chardev",
	KindBlockDevice: "blockdev",
	KindFIFO:        "fifo",
	KindSocket:      "socket",
	KindUnknown:     "unknown",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return kindNames[KindUnknown]
}

// KindSet is a set of kinds, one bit per Kind.
type KindSet uint8

// AllKinds contains every countable kind.
const AllKinds KindSet = 1<<KindUnknown - 1

// KindsOf builds a set from the given kinds.
func KindsOf(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s = s.With(k)
	}

	return s
}

// Has reports whether k is in the set.
func (s KindSet) Has(k Kind) bool {
	return k < KindUnknown && s&(1<<k) != 0
}

// With returns the set with k added.
func (s KindSet) With(k Kind) KindSet {
	if k >= KindUnknown {
		return s
	}

	return s | 1<<k
}

// Union returns the set with every kind of o added.
func (s KindSet) Union(o KindSet) KindSet {
	return s | o
}

// Minus returns the set with every kind of o removed.
func (s KindSet) Minus(o KindSet) KindSet {
	return s &^ o
}

func (s KindSet) String() string {
	names := make([]string, 0, int(KindUnknown))
	for k := KindSymlink; k < KindUnknown; k++ {
		if s.Has(k) {
			names = append(names, k.String())
		}
	}

	return "[" + strings.Join(names, ",") + "]"
}
