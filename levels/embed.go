package levels

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ManifestName is the room graph resource.
const ManifestName = "map.txt"

// DiskDir is where edited rooms are picked up from during development.
const DiskDir = "levels"

//go:embed *.txt
var LevelsFS embed.FS

// FS returns the level files, preferring a copy under DiskDir over the
// embedded one so edited rooms load without a rebuild.
func FS() fs.FS {
	return overlayFS{disk: os.DirFS(DiskDir), embedded: LevelsFS}
}

// Embedded returns only the files compiled into the binary.
func Embedded() fs.FS {
	return LevelsFS
}

type overlayFS struct {
	disk     fs.FS
	embedded fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	clean := cleanLevelPath(name)
	if !fs.ValidPath(clean) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if o.disk != nil {
		f, err := o.disk.Open(clean)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return o.embedded.Open(clean)
}

// IsLevelFile reports whether path names a room or manifest file.
func IsLevelFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".txt"
}

func cleanLevelPath(path string) string {
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "levels/"); ok {
		return after
	}
	return s
}
