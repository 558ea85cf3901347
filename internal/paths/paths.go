// Package paths resolves content and data locations relative to a base directory.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Default directory names under the base directory.
const (
	DefaultPublicDir = "public"
	DefaultDataDir   = "data"
	ConfigDir        = ".dockside"
)

// ResolveDir returns override when set, otherwise baseDir/name.
// Relative overrides are taken relative to baseDir.
func ResolveDir(baseDir, override, name string) string {
	if override == "" {
		return filepath.Join(baseDir, name)
	}
	if filepath.IsAbs(override) {
		return filepath.Clean(override)
	}
	return filepath.Join(baseDir, override)
}

// CanonicalizePath converts an absolute path to a root-relative canonical path
// - Resolves symlinks to real paths
// - Makes path relative to the root
// - Returns the relative path with forward slashes
func CanonicalizePath(absolutePath string, root string) (string, error) {
	resolved, err := evalIfExists(absolutePath)
	if err != nil {
		return "", err
	}

	rootResolved, err := evalIfExists(root)
	if err != nil {
		return "", err
	}

	relativePath, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(relativePath), nil
}

func evalIfExists(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		// A missing leaf is resolved through its parent directory
		if os.IsNotExist(err) {
			dir, base := filepath.Split(filepath.Clean(path))
			if dir == "" || filepath.Clean(dir) == filepath.Clean(path) {
				return filepath.Abs(path)
			}
			parent, err := evalIfExists(filepath.Clean(dir))
			if err != nil {
				return "", err
			}
			return filepath.Join(parent, base), nil
		}
		return "", err
	}
	return filepath.Abs(resolved)
}

// IsWithinRoot checks if a path stays inside root once symlinks are resolved.
func IsWithinRoot(path string, root string) bool {
	canonical, err := CanonicalizePath(path, root)
	if err != nil {
		return false
	}
	return canonical != ".." && !strings.HasPrefix(canonical, "../")
}

// JoinRootPath joins a root with a slash-separated relative name.
func JoinRootPath(root string, name string) string {
	parts := strings.Split(strings.ReplaceAll(name, "\\", "/"), "/")
	return filepath.Join(append([]string{root}, parts...)...)
}
