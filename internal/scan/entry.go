package scan

import "path/filepath"

// Entry is one filesystem object found while scanning a directory.
type Entry struct {
	// Dir is the absolute path of the directory holding the entry.
	Dir string
	// Name is the entry's base name.
	Name string
	// Kind is the type of the entry itself, never of a link target.
	Kind Kind
	// Size is the entry size in bytes. For a symlink with FollowLinks set it
	// is the target's size.
	Size int64
	// Perm holds the low nine permission bits.
	Perm uint32
	// UID is the owner user id.
	UID uint32
	// GID is the owner group id.
	GID uint32
	// LinksToDir is set for a symlink whose target is a directory.
	LinksToDir bool
}

// Path returns the absolute path of the entry.
func (e Entry) Path() string {
	return filepath.Join(e.Dir, e.Name)
}

// IsDir reports whether the entry counts as a directory: a real directory
// or a symlink resolving to one.
func (e Entry) IsDir() bool {
	return e.Kind == KindDir || e.LinksToDir
}

// statInfo is the platform-independent subset of a stat result.
type statInfo struct {
	kind Kind
	size int64
	perm uint32
	uid  uint32
	gid  uint32
}

// readEntry builds the Entry for name inside dir. A symlink is resolved
// once to learn whether it points at a directory; a dangling link keeps
// its own size.
func readEntry(dir, name string, followLinks bool) (Entry, error) {
	path := filepath.Join(dir, name)

	st, err := lstat(path)
	if err != nil {
		return Entry{}, err
	}

	e := Entry{
		Dir:  dir,
		Name: name,
		Kind: st.kind,
		Size: st.size,
		Perm: st.perm,
		UID:  st.uid,
		GID:  st.gid,
	}

	if st.kind != KindSymlink {
		return e, nil
	}

	target, err := stat(path)
	if err != nil {
		return e, nil //nolint:nilerr // Dangling links are still entries
	}

	e.LinksToDir = target.kind == KindDir
	if followLinks {
		e.Size = target.size
	}

	return e, nil
}
