package images

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mahyarmirrashed/setbackground/internal/excluder"
	log "github.com/sirupsen/logrus"
)

// Extensions lists the file name suffixes recognised as images.
// Matching is case-sensitive.
var Extensions = []string{".jpg", ".png"}

// IsImage reports whether name ends with one of the image Extensions.
func IsImage(name string) bool {
	for _, ext := range Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Locator finds image files below a root directory.
type Locator struct {
	Exclude *excluder.Excluder // Paths to skip, may be nil
}

// Find walks root and returns every regular image file below it, following
// symbolic links. Directories that cannot be read are skipped, so a missing
// root yields an empty result. Each directory is entered at most once, which
// keeps symlink cycles from looping forever.
func (l *Locator) Find(root string) []string {
	var found []string

	visited := make(map[dirID]struct{})
	stack := []string{root}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		info, err := os.Stat(dir)
		if err != nil {
			log.Debugf("Skipping %s: %v", dir, err)
			continue
		}
		id := identify(dir, info)
		if _, seen := visited[id]; seen {
			log.Debugf("Already visited %s", dir)
			continue
		}
		visited[id] = struct{}{}

		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Debugf("Cannot read %s: %v", dir, err)
			continue
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if l.Exclude.IsExcluded(path) {
				log.Debugf("Excluded: %s", path)
				continue
			}

			mode := entry.Type()
			if mode&fs.ModeSymlink != 0 {
				target, err := os.Stat(path)
				if err != nil {
					log.Debugf("Dangling link %s: %v", path, err)
					continue
				}
				mode = target.Mode().Type()
			}

			switch {
			case mode.IsDir():
				stack = append(stack, path)
			case mode.IsRegular() && IsImage(entry.Name()):
				found = append(found, path)
			}
		}
	}

	return found
}

// Find is a convenience wrapper around a Locator without exclusions.
func Find(root string) []string {
	return (&Locator{}).Find(root)
}
