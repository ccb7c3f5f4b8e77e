//go:build !unix

package images

import "os"

type dirID struct {
	path string
}

func identify(path string, _ os.FileInfo) dirID {
	return dirID{path: canonical(path)}
}
