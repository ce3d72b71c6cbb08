package pathutil

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/paramhints/internal/frontend"
)

func TestToRelative(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("table uses unix paths")
	}

	tests := []struct {
		name     string
		absPath  string
		rootDir  string
		expected string
	}{
		{
			name:     "simple relative path",
			absPath:  "/home/user/project/src/App.java",
			rootDir:  "/home/user/project",
			expected: "src/App.java",
		},
		{
			name:     "nested relative path",
			absPath:  "/home/user/project/internal/calc/calc.go",
			rootDir:  "/home/user/project",
			expected: "internal/calc/calc.go",
		},
		{
			name:     "root with trailing slash",
			absPath:  "/home/user/project/App.java",
			rootDir:  "/home/user/project/",
			expected: "App.java",
		},
		{
			name:     "root itself",
			absPath:  "/home/user/project",
			rootDir:  "/home/user/project",
			expected: "/home/user/project",
		},
		{
			name:     "already relative path",
			absPath:  "src/App.java",
			rootDir:  "/home/user/project",
			expected: "src/App.java",
		},
		{
			name:     "path outside root",
			absPath:  "/other/location/App.java",
			rootDir:  "/home/user/project",
			expected: "/other/location/App.java",
		},
		{
			name:     "sibling sharing a prefix",
			absPath:  "/home/user/project2/App.java",
			rootDir:  "/home/user/project",
			expected: "/home/user/project2/App.java",
		},
		{
			name:     "dot-dot prefixed name inside root",
			absPath:  "/home/user/project/..gen/App.java",
			rootDir:  "/home/user/project",
			expected: "..gen/App.java",
		},
		{
			name:     "empty root directory",
			absPath:  "/home/user/project/App.java",
			rootDir:  "",
			expected: "/home/user/project/App.java",
		},
		{
			name:     "empty path",
			absPath:  "",
			rootDir:  "/home/user/project",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToRelative(tt.absPath, tt.rootDir))
		})
	}
}

func TestRel(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("table uses unix paths")
	}

	rel, ok := Rel("/root", "/root/a/b.go")
	assert.True(t, ok)
	assert.Equal(t, "a/b.go", rel)

	_, ok = Rel("/root", "/root")
	assert.False(t, ok)

	_, ok = Rel("/root", "/elsewhere/b.go")
	assert.False(t, ok)
}

func TestToRelativeResults(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("table uses unix paths")
	}

	rootDir := "/home/user/project"
	input := []*frontend.FileResult{
		{
			Path:     "/home/user/project/src/App.java",
			Language: "java",
			Hints:    []frontend.Hint{{Label: "width", Offset: 78, Line: 3, Column: 25}},
		},
		{Path: "/other/Lib.java", Language: "java"},
	}

	results := ToRelativeResults(input, rootDir)

	assert.Len(t, results, 2)
	assert.Equal(t, "src/App.java", results[0].Path)
	assert.Equal(t, "java", results[0].Language)
	assert.Equal(t, input[0].Hints, results[0].Hints)
	assert.Equal(t, "/other/Lib.java", results[1].Path)

	// input untouched
	assert.Equal(t, "/home/user/project/src/App.java", input[0].Path)
}

func TestToRelativeResultsEmpty(t *testing.T) {
	assert.Empty(t, ToRelativeResults(nil, "/home/user/project"))
	assert.Empty(t, ToRelativeResults([]*frontend.FileResult{}, "/home/user/project"))
}
