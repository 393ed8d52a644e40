// Package pathutil provides the path normalization, root-containment, and
// import-resolution policy used by the chunker and the dependency graph. It
// wraps path/filepath to keep the rest of the system OS-agnostic: every path
// persisted by the Store uses forward slashes regardless of host OS.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Normalize converts path to the forward-slash form used for all persisted
// paths. Callers must accept both forward-slash and native-separator paths
// as input; Normalize is the single place that reconciles them.
func Normalize(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// ToSlash converts path to use forward slashes without cleaning it further.
func ToSlash(path string) string {
	return filepath.ToSlash(path)
}

// FromSlash converts a forward-slash path to the host's native separators.
func FromSlash(path string) string {
	return filepath.FromSlash(path)
}

// IsWithinRoot reports whether candidate resolves to a location at or below
// root. Both paths are made absolute before comparison so that `..`
// segments and symlink-free relative traversal can't escape root.
func IsWithinRoot(root, candidate string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	absCandidate, err := filepath.Abs(candidate)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absCandidate)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Rel mirrors filepath.Rel, returning a forward-slash result.
func Rel(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// ResolveImport implements the import-path resolution policy (spec §4.10):
// given the directory a file lives in and a relative module specifier,
// returns the physical file it resolves to within root, trying (in order)
// the literal path, the path with the source extension appended, and the
// path as a directory with an index file using the barrel-file convention.
// Resolution fails (ok=false) if none exist, or if the candidate would
// escape root.
func ResolveImport(root, fileDir, specifier, sourceExt string) (resolved string, ok bool) {
	candidates := []string{
		filepath.Join(fileDir, specifier),
		filepath.Join(fileDir, specifier+sourceExt),
		filepath.Join(fileDir, specifier, "index"+sourceExt),
	}

	for _, c := range candidates {
		if !IsWithinRoot(root, c) {
			continue
		}
		info, err := os.Stat(c)
		if err != nil || info.IsDir() {
			continue
		}
		rel, err := Rel(root, c)
		if err != nil {
			continue
		}
		return Normalize(rel), true
	}
	return "", false
}

// IsRelativeSpecifier reports whether a module specifier is a relative
// import ("./foo", "../bar") as opposed to a bare package name or path
// alias. Only relative specifiers are resolved to edges; everything else is
// dropped silently per spec §4.2.
func IsRelativeSpecifier(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}
