package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGitignoreParser_BasicPatterns tests fundamental gitignore pattern matching
func TestGitignoreParser_BasicPatterns(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		path     string
		isDir    bool
		expected bool
	}{
		{
			name:     "Simple file match",
			pattern:  "README.md",
			path:     "README.md",
			expected: true,
		},
		{
			name:     "Simple file matches nested",
			pattern:  "README.md",
			path:     "docs/README.md",
			expected: true,
		},
		{
			name:     "Simple file no match",
			pattern:  "README.md",
			path:     "Main.java",
			expected: false,
		},
		{
			name:     "Directory pattern matches directory",
			pattern:  "generated/",
			path:     "generated",
			isDir:    true,
			expected: true,
		},
		{
			name:     "Directory pattern skips file of same name",
			pattern:  "generated/",
			path:     "generated",
			isDir:    false,
			expected: false,
		},
		{
			name:     "Directory pattern matches files inside",
			pattern:  "generated/",
			path:     "src/generated/Api.java",
			expected: true,
		},
		{
			name:     "Absolute pattern match",
			pattern:  "/build",
			path:     "build",
			isDir:    true,
			expected: true,
		},
		{
			name:     "Absolute pattern no match subdirectory",
			pattern:  "/build",
			path:     "module/build",
			isDir:    true,
			expected: false,
		},
		{
			name:     "Wildcard pattern match",
			pattern:  "*_mock.go",
			path:     "internal/store/store_mock.go",
			expected: true,
		},
		{
			name:     "Wildcard pattern no match",
			pattern:  "*_mock.go",
			path:     "internal/store/store.go",
			expected: false,
		},
		{
			name:     "Middle slash anchors pattern",
			pattern:  "src/gen",
			path:     "lib/src/gen",
			isDir:    true,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gp := NewGitignoreParser()
			gp.AddPattern(tt.pattern)
			assert.Equal(t, tt.expected, gp.ShouldIgnore(tt.path, tt.isDir))
		})
	}
}

func TestGitignoreParser_Negation(t *testing.T) {
	gp := NewGitignoreParser()
	gp.AddPattern("*.java")
	gp.AddPattern("!Keep.java")

	assert.True(t, gp.ShouldIgnore("src/Drop.java", false))
	assert.False(t, gp.ShouldIgnore("src/Keep.java", false))
	assert.Equal(t, []string{"**/*.java", "**/*.java/**"}, gp.GetExclusionPatterns())
}

func TestGitignoreParser_LoadGitignore(t *testing.T) {
	dir := t.TempDir()
	content := strings.Join([]string{
		"# comment",
		"",
		"out/",
		"/dist",
		"*.class",
		"!important.class",
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(content), 0644))

	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(dir))

	assert.Equal(t, []string{
		"**/out/**",
		"dist", "dist/**",
		"**/*.class", "**/*.class/**",
	}, gp.GetExclusionPatterns())
}

func TestGitignoreParser_MissingFile(t *testing.T) {
	gp := NewGitignoreParser()
	assert.NoError(t, gp.LoadGitignore(t.TempDir()))
	assert.Empty(t, gp.GetExclusionPatterns())
}

func TestBuildArtifactDetector(t *testing.T) {
	dir := t.TempDir()
	pom := `<project>
  <build>
    <directory>${project.basedir}/maven-out</directory>
  </build>
</project>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pom.xml"), []byte(pom), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build.gradle.kts"), []byte(`buildDir = file("gradle-out")`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module demo\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vendor", "modules.txt"), nil, 0644))

	patterns := NewBuildArtifactDetector(dir).DetectOutputDirectories()

	assert.Equal(t, []string{
		"**/target/**",
		"**/maven-out/**",
		"**/build/**",
		"**/.gradle/**",
		"**/gradle-out/**",
		"**/vendor/**",
	}, patterns)

	assert.Empty(t, NewBuildArtifactDetector(t.TempDir()).DetectOutputDirectories())
}

func TestDeduplicatePatterns(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, DeduplicatePatterns([]string{"a", "b", "a"}))
}
