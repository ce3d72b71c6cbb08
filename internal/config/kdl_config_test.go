package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKDL_Defaults(t *testing.T) {
	cfg, err := parseKDL("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 1, cfg.Version)
	assert.Empty(t, cfg.Languages)
	assert.Empty(t, cfg.Include)
	assert.Contains(t, cfg.Exclude, "**/vendor/**")
	assert.Equal(t, DefaultMaxFileSize, cfg.Analysis.MaxFileSize)
	assert.Positive(t, cfg.Analysis.Workers)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, DefaultDebounceMs, cfg.Watch.DebounceMs)
}

func TestParseKDL_FullConfig(t *testing.T) {
	kdlContent := `
project { root "src"; name "demo"; }
languages "java" "go"
include "**/*.java" "**/*.go"
exclude "**/build/**" "**/vendor/**"
analysis {
    max_file_size "2MB"
    workers 3
}
output { format "JSON"; }
watch { debounce_ms 50; }
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)

	assert.Equal(t, "src", cfg.Project.Root)
	assert.Equal(t, "demo", cfg.Project.Name)
	assert.Equal(t, []string{"java", "go"}, cfg.Languages)
	assert.Equal(t, []string{"**/*.java", "**/*.go"}, cfg.Include)
	assert.Equal(t, []string{"**/build/**", "**/vendor/**"}, cfg.Exclude)
	assert.Equal(t, int64(2*1024*1024), cfg.Analysis.MaxFileSize)
	assert.Equal(t, 3, cfg.Analysis.Workers)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 50, cfg.Watch.DebounceMs)
}

func TestParseKDL_BlockLists(t *testing.T) {
	kdlContent := `
exclude {
    "**/generated/**"
    "**/*_test.go"
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)
	assert.Equal(t, []string{"**/generated/**", "**/*_test.go"}, cfg.Exclude)
}

func TestParseKDL_IntegerFileSize(t *testing.T) {
	cfg, err := parseKDL(`analysis { max_file_size 4096; }`)
	require.NoError(t, err)
	assert.Equal(t, int64(4096), cfg.Analysis.MaxFileSize)
}

func TestParseKDL_Errors(t *testing.T) {
	_, err := parseKDL(`analysis { max_file_size "lots"; }`)
	assert.Error(t, err)

	_, err = parseKDL(`project {`)
	assert.Error(t, err)
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"512", 512},
		{"512B", 512},
		{"10kb", 10 * 1024},
		{" 3MB ", 3 * 1024 * 1024},
		{"1GB", 1024 * 1024 * 1024},
	}
	for _, tt := range tests {
		got, err := parseSize(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseSize("MB")
	assert.Error(t, err)
}

func TestLoadKDL_MissingFile(t *testing.T) {
	cfg, err := LoadKDL(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadKDL_ResolvesRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`project { root "src"; }`), 0644))

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, filepath.Join(dir, "src"), cfg.Project.Root)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`project { name "x"; }`), 0644))
	cfg, err = LoadKDL(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.Project.Root)
}

func TestLoadKDLFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadKDLFile(filepath.Join(dir, "missing.kdl"), dir)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.kdl")
	require.NoError(t, os.WriteFile(bad, []byte(`output {`), 0644))
	_, err = LoadKDLFile(bad, dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bad.kdl")
}
