package library

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/llehouerou/crateq/internal/tags"
)

// progressEvery is the number of discovered files between two progress
// reports.
const progressEvery = 100

// discovery is the set of music files found under the scanned sources.
type discovery struct {
	files []fileInfo
	// source claiming each discovered path; a path under nested sources
	// belongs to the first source listed.
	sourceOf map[string]string
}

// isHidden reports whether a directory entry name is a dot file. This also
// covers the "._name.mp3" resource forks macOS leaves on shared drives,
// which carry an audio extension but no audio.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// discoverFiles walks the sources for files the tag reader supports.
// Hidden directories and files below a source root are skipped, as are
// unreadable entries.
func discoverFiles(sources []string, progress chan<- ScanProgress) *discovery {
	d := &discovery{sourceOf: make(map[string]string)}

	for _, src := range sources {
		root := filepath.Clean(src)
		_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // keep scanning the rest of the tree
			}
			if path != root && isHidden(entry.Name()) {
				if entry.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if entry.IsDir() || !tags.IsMusicFile(path) {
				return nil
			}
			d.add(src, path, entry, progress)
			return nil
		})
	}
	return d
}

func (d *discovery) add(src, path string, entry fs.DirEntry, progress chan<- ScanProgress) {
	location := filepath.ToSlash(path)
	if _, seen := d.sourceOf[location]; seen {
		return
	}
	info, err := entry.Info()
	if err != nil {
		return
	}

	d.sourceOf[location] = src
	d.files = append(d.files, fileInfo{path: location, mtime: info.ModTime().Unix(), source: src})

	if len(d.files)%progressEvery == 0 {
		progress <- ScanProgress{Phase: "scanning", Current: len(d.files), CurrentFile: path}
	}
}

// relativePath returns path relative to source, or path itself when it is
// not below source.
func relativePath(source, path string) string {
	rel, err := filepath.Rel(filepath.FromSlash(source), filepath.FromSlash(path))
	if err != nil {
		return path
	}
	return rel
}
