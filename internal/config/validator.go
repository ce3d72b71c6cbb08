package config

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/hbollon/go-edlib"

	pherrors "github.com/standardbeagle/paramhints/internal/errors"
	"github.com/standardbeagle/paramhints/internal/frontend"
)

// minSuggestionSimilarity is the lowest Levenshtein similarity that still yields a "did you mean".
const minSuggestionSimilarity = 0.5

// Validator validates configuration and sets smart defaults
type Validator struct {
	languages []string
}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{languages: append(frontend.Languages(), "golang")}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	v.setSmartDefaults(cfg)

	if cfg.Project.Root == "" {
		return pherrors.NewConfigError("project.root", "", errors.New("project root cannot be empty"))
	}

	for _, lang := range cfg.Languages {
		if !slices.Contains(v.languages, strings.ToLower(lang)) {
			return pherrors.NewConfigError("languages", lang, unknownValue("language", lang, frontend.Languages()))
		}
	}

	for _, pattern := range slices.Concat(cfg.Include, cfg.Exclude) {
		if pattern == "" {
			return pherrors.NewConfigError("include/exclude", pattern, errors.New("empty glob pattern"))
		}
	}

	if err := v.validateAnalysisConfig(&cfg.Analysis); err != nil {
		return pherrors.NewConfigError("analysis", "", err)
	}

	if !slices.Contains(Formats, cfg.Output.Format) {
		return pherrors.NewConfigError("output.format", cfg.Output.Format, unknownValue("output format", cfg.Output.Format, Formats))
	}

	if cfg.Watch.DebounceMs < 0 {
		return pherrors.NewConfigError("watch.debounce_ms", fmt.Sprint(cfg.Watch.DebounceMs),
			fmt.Errorf("debounce cannot be negative, got %d", cfg.Watch.DebounceMs))
	}

	return nil
}

func (v *Validator) validateAnalysisConfig(analysis *Analysis) error {
	if analysis.MaxFileSize <= 0 {
		return fmt.Errorf("MaxFileSize must be positive, got %d", analysis.MaxFileSize)
	}

	if analysis.MaxFileSize > 100*1024*1024 {
		return fmt.Errorf("MaxFileSize should not exceed 100MB, got %d", analysis.MaxFileSize)
	}

	if analysis.Workers <= 0 {
		return fmt.Errorf("Workers must be positive, got %d", analysis.Workers)
	}

	return nil
}

// setSmartDefaults fills settings left empty by a sparse config file.
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultFormat
	}
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)

	if cfg.Analysis.MaxFileSize == 0 {
		cfg.Analysis.MaxFileSize = DefaultMaxFileSize
	}

	// Leave one core for the editor or terminal driving us.
	if cfg.Analysis.Workers == 0 {
		cfg.Analysis.Workers = max(1, runtime.NumCPU()-1)
	}
}

// unknownValue builds the error for a value outside known, suggesting the closest match.
func unknownValue(kind, value string, known []string) error {
	if s := suggest(value, known); s != "" {
		return fmt.Errorf("unknown %s %q (did you mean %q?)", kind, value, s)
	}
	return fmt.Errorf("unknown %s %q (expected one of %s)", kind, value, strings.Join(known, ", "))
}

func suggest(value string, candidates []string) string {
	best := ""
	var bestScore float32
	for _, c := range candidates {
		score, err := edlib.StringsSimilarity(strings.ToLower(value), c, edlib.Levenshtein)
		if err != nil {
			continue
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore < minSuggestionSimilarity {
		return ""
	}
	return best
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}
