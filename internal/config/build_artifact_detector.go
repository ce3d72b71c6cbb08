package config

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
)

// BuildArtifactDetector finds build output directories of Java and Go projects
type BuildArtifactDetector struct {
	projectRoot string
}

// NewBuildArtifactDetector creates a new build artifact detector
func NewBuildArtifactDetector(projectRoot string) *BuildArtifactDetector {
	return &BuildArtifactDetector{projectRoot: projectRoot}
}

// DetectOutputDirectories scans build files and returns exclusion globs
// such as "**/target/**" for the directories they write to.
func (bad *BuildArtifactDetector) DetectOutputDirectories() []string {
	var patterns []string
	patterns = append(patterns, bad.detectMavenOutputs()...)
	patterns = append(patterns, bad.detectGradleOutputs()...)
	patterns = append(patterns, bad.detectGoOutputs()...)
	return DeduplicatePatterns(patterns)
}

type pomBuild struct {
	Directory       string `xml:"build>directory"`
	OutputDirectory string `xml:"build>outputDirectory"`
}

// detectMavenOutputs reads pom.xml; Maven writes to target/ unless build.directory says otherwise.
func (bad *BuildArtifactDetector) detectMavenOutputs() []string {
	data, err := os.ReadFile(filepath.Join(bad.projectRoot, "pom.xml"))
	if err != nil {
		return nil
	}

	patterns := []string{"**/target/**"}
	var pom pomBuild
	if xml.Unmarshal(data, &pom) == nil {
		for _, dir := range []string{pom.Directory, pom.OutputDirectory} {
			if p := dirPattern(dir); p != "" {
				patterns = append(patterns, p)
			}
		}
	}
	return patterns
}

// detectGradleOutputs reads build.gradle(.kts) for a buildDir override.
func (bad *BuildArtifactDetector) detectGradleOutputs() []string {
	var patterns []string
	for _, name := range []string{"build.gradle", "build.gradle.kts"} {
		data, err := os.ReadFile(filepath.Join(bad.projectRoot, name))
		if err != nil {
			continue
		}
		patterns = append(patterns, "**/build/**", "**/.gradle/**")
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "buildDir") {
				continue
			}
			// buildDir = "out" or buildDir = file("out")
			if i := strings.IndexAny(line, "\"'"); i >= 0 {
				rest := line[i+1:]
				if j := strings.IndexAny(rest, "\"'"); j > 0 {
					if p := dirPattern(rest[:j]); p != "" {
						patterns = append(patterns, p)
					}
				}
			}
		}
	}
	return patterns
}

// detectGoOutputs excludes a committed vendor tree.
func (bad *BuildArtifactDetector) detectGoOutputs() []string {
	if _, err := os.Stat(filepath.Join(bad.projectRoot, "go.mod")); err != nil {
		return nil
	}
	if _, err := os.Stat(filepath.Join(bad.projectRoot, "vendor", "modules.txt")); err == nil {
		return []string{"**/vendor/**"}
	}
	return nil
}

// dirPattern turns a build-relative directory such as "${project.basedir}/out" into a glob.
func dirPattern(dir string) string {
	dir = strings.TrimSpace(dir)
	if i := strings.LastIndex(dir, "}"); i >= 0 {
		dir = dir[i+1:]
	}
	dir = strings.Trim(filepath.ToSlash(dir), "/")
	if dir == "" || strings.ContainsAny(dir, "${}") {
		return ""
	}
	return "**/" + dir + "/**"
}

// DeduplicatePatterns removes duplicate exclusion patterns
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		if !seen[pattern] {
			seen[pattern] = true
			result = append(result, pattern)
		}
	}

	return result
}
