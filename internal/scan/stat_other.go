//go:build !unix

package scan

import (
	"io/fs"
	"os"
)

// Owner ids are not available here and are reported as zero.

func lstat(path string) (statInfo, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return statInfo{}, err
	}

	return fromFileInfo(info), nil
}

func stat(path string) (statInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return statInfo{}, err
	}

	return fromFileInfo(info), nil
}

func fromFileInfo(info fs.FileInfo) statInfo {
	mode := info.Mode()

	return statInfo{
		kind: kindOfFileMode(mode),
		size: info.Size(),
		perm: uint32(mode.Perm()),
	}
}

func kindOfFileMode(mode fs.FileMode) Kind {
	switch {
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode.IsDir():
		return KindDir
	case mode.IsRegular():
		return KindRegular
	case mode&fs.ModeCharDevice != 0:
		return KindCharDevice
	case mode&fs.ModeDevice != 0:
		return KindBlockDevice
	case mode&fs.ModeNamedPipe != 0:
		return KindFIFO
	case mode&fs.ModeSocket != 0:
		return KindSocket
	default:
		return KindUnknown
	}
}
