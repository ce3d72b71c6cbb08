package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pherrors "github.com/standardbeagle/paramhints/internal/errors"
)

func validConfig() *Config {
	cfg := Default("/project")
	cfg.Analysis.Workers = 2
	return cfg
}

func TestValidator_ValidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Languages = []string{"java", "Go", "golang"}
	assert.NoError(t, ValidateConfig(cfg))
}

func TestValidator_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
		msg    string
	}{
		{
			name:   "empty root",
			mutate: func(c *Config) { c.Project.Root = "" },
			field:  "project.root",
			msg:    "project root cannot be empty",
		},
		{
			name:   "misspelled language",
			mutate: func(c *Config) { c.Languages = []string{"jav"} },
			field:  "languages",
			msg:    `did you mean "java"`,
		},
		{
			name:   "unrelated language",
			mutate: func(c *Config) { c.Languages = []string{"cobol"} },
			field:  "languages",
			msg:    "expected one of go, java",
		},
		{
			name:   "empty glob",
			mutate: func(c *Config) { c.Exclude = append(c.Exclude, "") },
			field:  "include/exclude",
			msg:    "empty glob pattern",
		},
		{
			name:   "negative workers",
			mutate: func(c *Config) { c.Analysis.Workers = -1 },
			field:  "analysis",
			msg:    "Workers must be positive",
		},
		{
			name:   "oversized max file size",
			mutate: func(c *Config) { c.Analysis.MaxFileSize = 200 * 1024 * 1024 },
			field:  "analysis",
			msg:    "should not exceed 100MB",
		},
		{
			name:   "misspelled format",
			mutate: func(c *Config) { c.Output.Format = "jsn" },
			field:  "output.format",
			msg:    `did you mean "json"`,
		},
		{
			name:   "negative debounce",
			mutate: func(c *Config) { c.Watch.DebounceMs = -5 },
			field:  "watch.debounce_ms",
			msg:    "debounce cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			require.Error(t, err)

			var cfgErr *pherrors.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestValidator_SmartDefaults(t *testing.T) {
	cfg := &Config{Project: Project{Root: "/project"}, Output: Output{Format: "JSON"}}

	require.NoError(t, NewValidator().ValidateAndSetDefaults(cfg))

	assert.Equal(t, DefaultMaxFileSize, cfg.Analysis.MaxFileSize)
	assert.GreaterOrEqual(t, cfg.Analysis.Workers, 1)
	assert.Equal(t, "json", cfg.Output.Format)

	cfg = &Config{Project: Project{Root: "/project"}}
	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, DefaultFormat, cfg.Output.Format)
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, "java", suggest("Jaba", []string{"go", "java"}))
	assert.Equal(t, "go", suggest("gp", []string{"go", "java"}))
	assert.Equal(t, "", suggest("haskell", []string{"go", "java"}))
}
