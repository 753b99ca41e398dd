package gateways

import (
	"os"
	"path/filepath"
)

// FileFinder probes for files and locates replacement modules
type FileFinder struct{}

// NewFileFinder creates a new file finder
func NewFileFinder() *FileFinder {
	return &FileFinder{}
}

// Exists reports whether a regular file (not a directory) exists at path.
// It never reads the file.
func (f *FileFinder) Exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// FindReplacement returns the first searchDir/filename that exists.
// Directories are tried in order; the replacement itself is not checked
// against the denylist.
func (f *FileFinder) FindReplacement(searchDirs []string, filename string) (string, bool) {
	for _, dir := range searchDirs {
		candidate := filepath.Join(dir, filename)
		if f.Exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
