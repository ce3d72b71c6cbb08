package config

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
)

// FileName is the configuration file looked up in the home and project directories.
const FileName = ".paramhints.kdl"

const (
	DefaultMaxFileSize int64 = 1024 * 1024
	DefaultDebounceMs        = 200
	DefaultFormat            = "text"
)

// Output formats accepted by the output section.
var Formats = []string{"text", "json"}

type Config struct {
	Version   int
	Project   Project
	Languages []string // empty means every supported language
	Include   []string
	Exclude   []string
	Analysis  Analysis
	Output    Output
	Watch     Watch
}

type Project struct {
	Root string
	Name string
}

type Analysis struct {
	MaxFileSize int64 // bytes
	Workers     int
}

type Output struct {
	Format string
}

type Watch struct {
	DebounceMs int
}

// Overrides carries command line values that take precedence over file values.
type Overrides struct {
	Root    string
	Include []string
	Exclude []string
	Format  string
	Workers int
}

// Default returns the configuration used when no config file exists.
func Default(root string) *Config {
	return &Config{
		Version: 1,
		Project: Project{Root: root},
		Include: []string{},
		Exclude: getDefaultExclusions(),
		Analysis: Analysis{
			MaxFileSize: DefaultMaxFileSize,
			Workers:     max(1, runtime.NumCPU()-1),
		},
		Output: Output{Format: DefaultFormat},
		Watch:  Watch{DebounceMs: DefaultDebounceMs},
	}
}

func Load(path string) (*Config, error) {
	return LoadWithRoot(path, "")
}

// LoadWithRoot loads ~/.paramhints.kdl and the project's .paramhints.kdl and
// merges them. path names an explicit config file and wins over the project
// file when set.
func LoadWithRoot(path string, rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}

	var baseConfig *Config
	if homeDir, err := os.UserHomeDir(); err == nil {
		if globalCfg, err := LoadKDL(homeDir); err == nil && globalCfg != nil {
			baseConfig = globalCfg
		}
	}

	var projectConfig *Config
	var err error
	if path != "" {
		projectConfig, err = LoadKDLFile(path, searchDir)
	} else {
		projectConfig, err = LoadKDL(searchDir)
	}
	if err != nil {
		return nil, err
	}

	var cfg *Config
	switch {
	case baseConfig != nil && projectConfig != nil:
		cfg = mergeConfigs(baseConfig, projectConfig)
	case projectConfig != nil:
		cfg = projectConfig
	case baseConfig != nil:
		baseConfig.Project.Root = absOrSelf(searchDir)
		cfg = baseConfig
	default:
		cfg = Default(absOrSelf(searchDir))
	}

	cfg.EnrichExclusions()
	return cfg, nil
}

// mergeConfigs merges a base config with a project config.
// The project config takes precedence, but base exclusions are preserved.
func mergeConfigs(base, project *Config) *Config {
	merged := *project

	if len(base.Exclude) > 0 {
		all := make([]string, 0, len(base.Exclude)+len(project.Exclude))
		all = append(all, base.Exclude...)
		all = append(all, project.Exclude...)
		merged.Exclude = DeduplicatePatterns(all)
	}

	if len(project.Include) == 0 && len(base.Include) > 0 {
		merged.Include = base.Include
	}
	if len(project.Languages) == 0 && len(base.Languages) > 0 {
		merged.Languages = base.Languages
	}

	return &merged
}

// EnrichExclusions adds .gitignore entries and detected build output
// directories to the exclusion list.
func (c *Config) EnrichExclusions() {
	if c.Project.Root == "" {
		return
	}

	var detected []string
	gp := NewGitignoreParser()
	if err := gp.LoadGitignore(c.Project.Root); err == nil {
		detected = append(detected, gp.GetExclusionPatterns()...)
	}
	detected = append(detected, NewBuildArtifactDetector(c.Project.Root).DetectOutputDirectories()...)

	if len(detected) > 0 {
		c.Exclude = DeduplicatePatterns(slices.Concat(c.Exclude, detected))
	}
}

// ApplyOverrides copies non-zero command line values over the loaded ones.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Root != "" {
		c.Project.Root = absOrSelf(o.Root)
	}
	if len(o.Include) > 0 {
		c.Include = o.Include
	}
	if len(o.Exclude) > 0 {
		c.Exclude = DeduplicatePatterns(slices.Concat(c.Exclude, o.Exclude))
	}
	if o.Format != "" {
		c.Output.Format = o.Format
	}
	if o.Workers != 0 {
		c.Analysis.Workers = o.Workers
	}
}

func absOrSelf(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}
