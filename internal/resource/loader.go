// Package resource loads named static content from a content root.
//
// Absence is a normal outcome: loaders report it through the boolean result
// and never as an error, so handlers can choose between a success and a
// not-found response.
package resource

import (
	"os"
	"path/filepath"

	"dockside/internal/paths"
)

// Loader resolves a named resource.
type Loader interface {
	Load(name string) (string, bool)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(name string) (string, bool)

// Load calls f(name).
func (f LoaderFunc) Load(name string) (string, bool) {
	return f(name)
}

// DirLoader reads resources from files under Root.
type DirLoader struct {
	Root string
}

// NewDirLoader creates a loader rooted at root.
func NewDirLoader(root string) *DirLoader {
	return &DirLoader{Root: root}
}

// Load reads Root/name. Missing files, directories, unreadable files and
// names that resolve outside Root are all reported as absent.
func (l *DirLoader) Load(name string) (string, bool) {
	if name == "" {
		return "", false
	}

	full := paths.JoinRootPath(l.Root, name)
	if !paths.IsWithinRoot(full, l.Root) {
		return "", false
	}

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", false
	}

	data, err := os.ReadFile(filepath.Clean(full))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// MapLoader serves resources from memory.
type MapLoader map[string]string

// Load returns m[name].
func (m MapLoader) Load(name string) (string, bool) {
	content, ok := m[name]
	return content, ok
}
