// Package pathutil holds path normalization helpers shared by the job
// workspace adapters.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Canonical returns the absolute path with every symbolic component resolved.
// The path must exist.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %q to absolute path: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return filepath.Clean(resolved), nil
}

// Within returns the path of target relative to base when target equals base
// or lies below it. Both paths are expected to be canonical.
func Within(base, target string) (string, bool) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) || filepath.IsAbs(rel) {
		return "", false
	}
	return rel, true
}

// CanonicalPrefix is Canonical for paths that may not exist yet: the deepest
// existing ancestor is resolved and the missing components are appended to it
// unchanged.
func CanonicalPrefix(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %q to absolute path: %w", path, err)
	}
	var missing []string
	dir := filepath.Clean(abs)
	for {
		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			parts := append([]string{resolved}, missing...)
			return filepath.Clean(filepath.Join(parts...)), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", err
		}
		missing = append([]string{filepath.Base(dir)}, missing...)
		dir = parent
	}
}
