//go:build unix

package scan

import (
	"golang.org/x/sys/unix"
)

func lstat(path string) (statInfo, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return statInfo{}, err
	}

	return fromStatT(&st), nil
}

func stat(path string) (statInfo, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return statInfo{}, err
	}

	return fromStatT(&st), nil
}

//nolint:unconvert // Mode is uint16 on some platforms
func fromStatT(st *unix.Stat_t) statInfo {
	mode := uint32(st.Mode)

	return statInfo{
		kind: kindOfMode(mode),
		size: st.Size,
		perm: mode & PermBits,
		uid:  st.Uid,
		gid:  st.Gid,
	}
}

func kindOfMode(mode uint32) Kind {
	switch mode & unix.S_IFMT {
	case unix.S_IFLNK:
		return KindSymlink
	case unix.S_IFREG:
		return KindRegular
	case unix.S_IFDIR:
		return KindDir
	case unix.S_IFCHR:
		return KindCharDevice
	case unix.S_IFBLK:
		return KindBlockDevice
	case unix.S_IFIFO:
		return KindFIFO
	case unix.S_IFSOCK:
		return KindSocket
	default:
		return KindUnknown
	}
}
