//go:build unix

package images

import (
	"os"
	"syscall"
)

type dirID struct {
	dev  uint64
	ino  uint64
	path string
}

func identify(path string, info os.FileInfo) dirID {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return dirID{dev: uint64(st.Dev), ino: uint64(st.Ino)}
	}
	return dirID{path: canonical(path)}
}
