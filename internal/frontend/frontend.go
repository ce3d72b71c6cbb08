// Package frontend maps source files to language front ends and turns
// their calls into positioned parameter hints.
package frontend

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/standardbeagle/paramhints/internal/debug"
	"github.com/standardbeagle/paramhints/internal/errors"
	"github.com/standardbeagle/paramhints/internal/frontend/golang"
	"github.com/standardbeagle/paramhints/internal/frontend/java"
	"github.com/standardbeagle/paramhints/internal/hints"
)

// Unit is one analyzed source file as produced by a front end
type Unit interface {
	Path() string
	Source() []byte
	Calls() []hints.Call
	TypeSystem() hints.TypeSystem
}

// Hint is a parameter hint with its position resolved. Line and Column
// are 1-based; columns count bytes.
type Hint struct {
	Label  string `json:"label"`
	Offset int    `json:"offset"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// FileResult holds the hints of one file in source order
type FileResult struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Hints    []Hint `json:"hints"`
}

type language struct {
	name       string
	extensions []string
	analyze    func(ctx context.Context, path string, src []byte) (Unit, error)
	analyzeDir func(ctx context.Context, dir string) ([]Unit, error)
}

// Registry dispatches files to front ends by extension
type Registry struct {
	languages map[string]*language
	byExt     map[string]*language
}

// Languages lists every language a registry can be built with
func Languages() []string {
	return []string{golang.Language, java.Language}
}

// NewRegistry builds front ends for the named languages. An empty list
// enables all of them.
func NewRegistry(names ...string) (*Registry, error) {
	if len(names) == 0 {
		names = Languages()
	}
	r := &Registry{languages: make(map[string]*language), byExt: make(map[string]*language)}
	for _, name := range names {
		lang, err := newLanguage(name)
		if err != nil {
			return nil, err
		}
		r.languages[lang.name] = lang
		for _, ext := range lang.extensions {
			r.byExt[ext] = lang
		}
	}
	return r, nil
}

func newLanguage(name string) (*language, error) {
	switch strings.ToLower(name) {
	case java.Language:
		fe, err := java.New(nil)
		if err != nil {
			return nil, err
		}
		return &language{
			name:       fe.Name(),
			extensions: fe.Extensions(),
			analyze: func(ctx context.Context, path string, src []byte) (Unit, error) {
				f, err := fe.Analyze(ctx, path, src)
				if err != nil {
					return nil, err
				}
				return f, nil
			},
		}, nil
	case golang.Language, "golang":
		fe := golang.New()
		return &language{
			name:       fe.Name(),
			extensions: fe.Extensions(),
			analyze: func(ctx context.Context, path string, src []byte) (Unit, error) {
				f, err := fe.Analyze(ctx, path, src)
				if err != nil {
					return nil, err
				}
				return f, nil
			},
			analyzeDir: func(ctx context.Context, dir string) ([]Unit, error) {
				files, err := fe.AnalyzeDir(ctx, dir)
				units := make([]Unit, len(files))
				for i, f := range files {
					units[i] = f
				}
				return units, err
			},
		}, nil
	}
	return nil, errors.NewConfigError("languages", name, errors.ErrUnsupportedLanguage)
}

// LanguageFor returns the language handling path
func (r *Registry) LanguageFor(path string) (string, bool) {
	lang, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", false
	}
	return lang.name, true
}

// Supports reports whether some enabled front end handles path
func (r *Registry) Supports(path string) bool {
	_, ok := r.LanguageFor(path)
	return ok
}

// SupportsPackages reports whether the language analyzes whole
// directories at once
func (r *Registry) SupportsPackages(name string) bool {
	lang, ok := r.languages[name]
	return ok && lang.analyzeDir != nil
}

// AnalyzeFile computes the hints of one file, choosing the front end by
// extension
func (r *Registry) AnalyzeFile(ctx context.Context, path string, src []byte) (*FileResult, error) {
	lang, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, errors.NewFileError("analyze", path, fmt.Errorf("%w: %q", errors.ErrUnsupportedLanguage, filepath.Ext(path)))
	}
	unit, err := lang.analyze(ctx, path, src)
	if err != nil {
		return nil, err
	}
	return Compute(lang.name, unit), nil
}

// AnalyzeSource computes hints for in-memory source of a named language
func (r *Registry) AnalyzeSource(ctx context.Context, languageName, name string, src []byte) (*FileResult, error) {
	lang, ok := r.languages[strings.ToLower(languageName)]
	if !ok && strings.EqualFold(languageName, "golang") {
		lang, ok = r.languages[golang.Language]
	}
	if !ok {
		return nil, errors.NewConfigError("language", languageName, errors.ErrUnsupportedLanguage)
	}
	unit, err := lang.analyze(ctx, name, src)
	if err != nil {
		return nil, err
	}
	return Compute(lang.name, unit), nil
}

// AnalyzeDir analyzes every file of the language's packages in dir
func (r *Registry) AnalyzeDir(ctx context.Context, languageName, dir string) ([]*FileResult, error) {
	lang, ok := r.languages[languageName]
	if !ok || lang.analyzeDir == nil {
		return nil, errors.NewConfigError("language", languageName, errors.ErrUnsupportedLanguage)
	}
	units, err := lang.analyzeDir(ctx, dir)
	results := make([]*FileResult, len(units))
	for i, u := range units {
		results[i] = Compute(lang.name, u)
	}
	return results, err
}

// Compute runs the hint analyzer over every call of unit
func Compute(languageName string, unit Unit) *FileResult {
	src := unit.Source()
	lines := newLineIndex(src)
	analyzer := hints.NewAnalyzer(unit.TypeSystem())

	res := &FileResult{Path: unit.Path(), Language: languageName, Hints: []Hint{}}
	for _, call := range unit.Calls() {
		for _, h := range analyzer.Analyze(call) {
			line, col := lines.position(h.Offset)
			res.Hints = append(res.Hints, Hint{Label: h.Label, Offset: h.Offset, Line: line, Column: col})
		}
	}
	sort.SliceStable(res.Hints, func(i, j int) bool { return res.Hints[i].Offset < res.Hints[j].Offset })
	debug.LogFrontend("%s: %d calls, %d hints\n", res.Path, len(unit.Calls()), len(res.Hints))
	return res
}

// lineIndex converts byte offsets to 1-based line and column numbers
type lineIndex []int

func newLineIndex(src []byte) lineIndex {
	starts := lineIndex{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (l lineIndex) position(offset int) (line, col int) {
	i := sort.Search(len(l), func(i int) bool { return l[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - l[i] + 1
}
