package config

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreParser reads .gitignore files and turns their entries into
// doublestar exclusion globs.
type GitignoreParser struct {
	patterns []GitignorePattern
}

type GitignorePattern struct {
	Pattern   string
	Negate    bool
	Directory bool
	Absolute  bool
}

// NewGitignoreParser creates a new gitignore parser
func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{
		patterns: make([]GitignorePattern, 0),
	}
}

// LoadGitignore loads patterns from the .gitignore in rootPath. A missing file is fine.
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	file, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		return nil
	}
	defer file.Close()

	return gp.scanAndParsePatterns(file)
}

func (gp *GitignoreParser) scanAndParsePatterns(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		gp.AddPattern(line)
	}
	return scanner.Err()
}

// AddPattern adds a single gitignore line.
func (gp *GitignoreParser) AddPattern(line string) {
	pattern := GitignorePattern{}
	if strings.HasPrefix(line, "!") {
		pattern.Negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		pattern.Directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		pattern.Absolute = true
		line = line[1:]
	} else if strings.Contains(line, "/") {
		// A slash in the middle anchors the pattern to the .gitignore directory.
		pattern.Absolute = true
	}
	if line == "" {
		return
	}
	pattern.Pattern = line
	gp.patterns = append(gp.patterns, pattern)
}

// ShouldIgnore reports whether the slash-separated relative path is ignored.
// Later patterns override earlier ones, so a negation can re-include a path.
func (gp *GitignoreParser) ShouldIgnore(path string, isDir bool) bool {
	path = filepath.ToSlash(path)
	ignored := false
	for _, p := range gp.patterns {
		if p.matches(path, isDir) {
			ignored = !p.Negate
		}
	}
	return ignored
}

func (p GitignorePattern) matches(path string, isDir bool) bool {
	if ok, _ := doublestar.Match(p.base()+"/*/**", path); ok {
		return true
	}
	if p.Directory && !isDir {
		return false
	}
	ok, _ := doublestar.Match(p.base(), path)
	return ok
}

func (p GitignorePattern) base() string {
	if p.Absolute {
		return p.Pattern
	}
	return "**/" + p.Pattern
}

// GetExclusionPatterns returns the non-negated entries as exclusion globs.
func (gp *GitignoreParser) GetExclusionPatterns() []string {
	var exclusions []string
	for _, p := range gp.patterns {
		if p.Negate {
			continue
		}
		if p.Directory {
			exclusions = append(exclusions, p.base()+"/**")
			continue
		}
		exclusions = append(exclusions, p.base(), p.base()+"/**")
	}
	return exclusions
}
