// Package pathutil converts between absolute paths and the root-relative,
// slash-separated paths shown to users.
//
// Scans and the watcher work with absolute paths internally. Everything that
// leaves the process (CLI lines, JSON, MCP payloads) uses paths relative to
// the project root so output is stable across checkouts.
package pathutil

import (
	"path/filepath"
	"strings"

	"github.com/standardbeagle/paramhints/internal/frontend"
)

// Rel returns path relative to root in slash form. It reports false when
// path is root itself, lies outside root, or cannot be made relative.
func Rel(root, path string) (string, bool) {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil || rel == "." || outside(rel) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func outside(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ToRelative converts an absolute path to a slash-separated path relative
// to rootDir. Relative paths and paths outside rootDir are returned as-is.
//
// Examples:
//   - ToRelative("/home/user/project/src/App.java", "/home/user/project") → "src/App.java"
//   - ToRelative("/other/location/App.java", "/home/user/project") → "/other/location/App.java"
//   - ToRelative("src/App.java", "/home/user/project") → "src/App.java"
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" || !filepath.IsAbs(absPath) {
		return absPath
	}
	if rel, ok := Rel(rootDir, absPath); ok {
		return rel
	}
	return absPath
}

// ToRelativeResults converts the paths of results to root-relative form.
// The input slice and its elements are left untouched.
func ToRelativeResults(results []*frontend.FileResult, rootDir string) []*frontend.FileResult {
	if len(results) == 0 {
		return results
	}

	converted := make([]*frontend.FileResult, len(results))
	for i, res := range results {
		c := *res
		c.Path = ToRelative(res.Path, rootDir)
		converted[i] = &c
	}
	return converted
}
