// Package scan walks a project tree and computes parameter hints for every
// supported source file under it.
package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/paramhints/internal/config"
	"github.com/standardbeagle/paramhints/internal/debug"
	"github.com/standardbeagle/paramhints/internal/errors"
	"github.com/standardbeagle/paramhints/internal/frontend"
	"github.com/standardbeagle/paramhints/internal/frontend/golang"
	"github.com/standardbeagle/paramhints/internal/security"
	"github.com/standardbeagle/paramhints/pkg/pathutil"
)

// Result is the outcome of a project scan. Files are sorted by path and
// paths are slash-separated and relative to the project root.
type Result struct {
	Root    string                 `json:"root"`
	Files   []*frontend.FileResult `json:"files"`
	Skipped []string               `json:"skipped,omitempty"`
}

// Scanner discovers files under the configured root and analyzes them.
type Scanner struct {
	cfg       *config.Config
	registry  *frontend.Registry
	validator *security.FileValidator
}

func New(cfg *config.Config, registry *frontend.Registry) *Scanner {
	return &Scanner{
		cfg:       cfg,
		registry:  registry,
		validator: security.NewFileValidator(security.DefaultThresholdKB),
	}
}

// Root returns the absolute project root.
func (s *Scanner) Root() string {
	return s.cfg.Project.Root
}

// Match reports whether the root-relative path passes the include and
// exclude globs. Directories are only checked against exclusions.
func (s *Scanner) Match(rel string, isDir bool) bool {
	rel = filepath.ToSlash(rel)
	if matchAny(s.cfg.Exclude, rel) {
		return false
	}
	if isDir {
		return true
	}
	if !s.registry.Supports(rel) {
		return false
	}
	return len(s.cfg.Include) == 0 || matchAny(s.cfg.Include, rel)
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// Discover walks the root and returns the matching files as root-relative
// slash paths, plus the ones skipped for size.
func (s *Scanner) Discover(ctx context.Context) (files, skipped []string, err error) {
	root := s.Root()
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return errors.NewFileError("walk", path, err)
			}
			debug.LogScan("walk %s: %v\n", path, err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel, ok := pathutil.Rel(root, path)
		if !ok {
			return nil
		}

		if d.IsDir() {
			if !s.Match(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !s.Match(rel, false) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() > s.cfg.Analysis.MaxFileSize {
			debug.LogScan("skip %s: %d bytes exceeds %d\n", rel, info.Size(), s.cfg.Analysis.MaxFileSize)
			skipped = append(skipped, rel)
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(files)
	return files, skipped, nil
}

// Scan analyzes every discovered file with at most Analysis.Workers files
// or packages in flight. Per-file failures are returned as a MultiError
// next to the successful results; cancellation aborts the scan.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	files, skipped, err := s.Discover(ctx)
	if err != nil {
		return nil, err
	}

	units := s.plan(files)
	var (
		mu      sync.Mutex
		results []*frontend.FileResult
		errs    []error
	)
	collect := func(res []*frontend.FileResult, err error) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, res...)
		if err != nil {
			errs = append(errs, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.cfg.Analysis.Workers))
	for _, u := range units {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := u.run(gctx, s)
			if ctxErr := gctx.Err(); ctxErr != nil {
				return ctxErr
			}
			collect(res, err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	debug.LogScan("scanned %d files (%d skipped, %d errors)\n", len(results), len(skipped), len(errs))
	return &Result{Root: s.Root(), Files: results, Skipped: skipped}, errors.NewMultiError(errs).ErrOrNil()
}

// AnalyzePath analyzes a single root-relative file.
func (s *Scanner) AnalyzePath(ctx context.Context, rel string) (*frontend.FileResult, error) {
	path := filepath.Join(s.Root(), filepath.FromSlash(rel))
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewFileError("stat", path, err)
	}
	if info.Size() > s.cfg.Analysis.MaxFileSize {
		return nil, errors.NewFileTooLargeError(path, info.Size(), s.cfg.Analysis.MaxFileSize)
	}
	if err := s.validator.ValidateFile(path); err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewFileError("read", path, err)
	}
	res, err := s.registry.AnalyzeFile(ctx, path, src)
	if err != nil {
		return nil, err
	}
	res.Path = filepath.ToSlash(rel)
	return res, nil
}

// unit is one piece of scan work: a single file, or a Go package directory
// whose files are type-checked together.
type unit struct {
	dir   string
	files []string
}

// plan groups Go files by directory and leaves every other file on its own.
func (s *Scanner) plan(files []string) []unit {
	var units []unit
	packages := make(map[string]int)
	for _, f := range files {
		lang, _ := s.registry.LanguageFor(f)
		if lang != golang.Language || !s.registry.SupportsPackages(lang) {
			units = append(units, unit{files: []string{f}})
			continue
		}
		dir := filepath.ToSlash(filepath.Dir(f))
		if i, ok := packages[dir]; ok {
			units[i].files = append(units[i].files, f)
			continue
		}
		packages[dir] = len(units)
		units = append(units, unit{dir: dir, files: []string{f}})
	}
	return units
}

func (u unit) run(ctx context.Context, s *Scanner) ([]*frontend.FileResult, error) {
	if u.dir == "" {
		res, err := s.AnalyzePath(ctx, u.files[0])
		if err != nil {
			return nil, err
		}
		return []*frontend.FileResult{res}, nil
	}

	wanted := make(map[string]bool, len(u.files))
	for _, f := range u.files {
		wanted[f] = true
	}

	var results []*frontend.FileResult
	dir := filepath.Join(s.Root(), filepath.FromSlash(u.dir))
	pkgResults, err := s.registry.AnalyzeDir(ctx, golang.Language, dir)
	if err != nil {
		debug.LogScan("package %s: %v\n", u.dir, err)
	}
	for _, res := range pkgResults {
		rel, ok := pathutil.Rel(s.Root(), res.Path)
		if !ok || !wanted[rel] {
			continue
		}
		delete(wanted, rel)
		res.Path = rel
		results = append(results, res)
	}

	// Test files and packages that failed to load fall back to single-file analysis.
	var errs []error
	for _, f := range u.files {
		if !wanted[f] {
			continue
		}
		res, err := s.AnalyzePath(ctx, f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.NewMultiError(errs).ErrOrNil()
}
