// Package golang is the Go front end of the hint engine. It type-checks
// source with go/types and exposes every call expression as a hints.Call.
package golang

import (
	"context"
	stderrors "errors"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"
	"os"
	"path/filepath"

	"golang.org/x/tools/go/packages"

	"github.com/standardbeagle/paramhints/internal/debug"
	"github.com/standardbeagle/paramhints/internal/errors"
	"github.com/standardbeagle/paramhints/internal/hints"
)

// Language is the registry name of this front end
const Language = "go"

// Frontend analyzes Go source. It is safe for concurrent use.
type Frontend struct{}

// New creates a Go front end
func New() *Frontend { return &Frontend{} }

// Name returns the language name
func (f *Frontend) Name() string { return Language }

// Extensions lists the file extensions handled by this front end
func (f *Frontend) Extensions() []string { return []string{".go"} }

// File is the analysis of one Go source file
type File struct {
	path  string
	src   []byte
	calls []hints.Call
}

// Path returns the analyzed file path
func (f *File) Path() string { return f.path }

// Source returns the analyzed content
func (f *File) Source() []byte { return f.src }

// Calls returns every call expression in source order
func (f *File) Calls() []hints.Call { return f.calls }

// TypeSystem returns the go/types assignability oracle
func (f *File) TypeSystem() hints.TypeSystem { return TypeSystem{} }

// Analyze type-checks a single file on its own. Imports are resolved from
// source; type errors are tolerated and leave the affected calls
// unresolved.
func (f *Frontend) Analyze(ctx context.Context, path string, src []byte) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	buf := make([]byte, len(src))
	copy(buf, src)

	file, err := parser.ParseFile(fset, path, buf, parser.SkipObjectResolution)
	if file == nil {
		return nil, errors.NewFrontendError(Language, "parse", err).WithFile(path)
	}
	if err != nil {
		if file.Name == nil || file.Name.Name == "" {
			return nil, parseError(path, err)
		}
		debug.LogFrontend("go: %s has syntax errors: %v\n", path, err)
	}

	info := newInfo()
	var typeErrs int
	conf := types.Config{
		Importer: importer.ForCompiler(fset, "source", nil),
		Error:    func(error) { typeErrs++ },
	}
	_, _ = conf.Check(file.Name.Name, fset, []*ast.File{file}, info)
	if typeErrs > 0 {
		debug.LogFrontend("go: %s: %d type errors\n", path, typeErrs)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &File{path: path, src: buf, calls: extractCalls(fset, file, info)}, nil
}

// AnalyzeDir loads the packages matching patterns (default ".") relative
// to dir with go/packages and analyzes all their non-test files. Files of
// packages that fail to load are reported in the returned error while the
// rest are still analyzed.
func (f *Frontend) AnalyzeDir(ctx context.Context, dir string, patterns ...string) ([]*File, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
			packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.NewFrontendError(Language, "load packages", err).WithFile(dir)
	}

	var files []*File
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			debug.LogFrontend("go: %s: %v\n", pkg.PkgPath, e)
		}
		if pkg.TypesInfo == nil {
			errs = append(errs, errors.NewFrontendError(Language, "typecheck", fmt.Errorf("no type information for %s", pkg.PkgPath)))
			continue
		}
		for _, syntax := range pkg.Syntax {
			path := pkg.Fset.File(syntax.Pos()).Name()
			src, err := os.ReadFile(path)
			if err != nil {
				errs = append(errs, errors.NewFileError("read", path, err))
				continue
			}
			files = append(files, &File{
				path:  filepath.Clean(path),
				src:   src,
				calls: extractCalls(pkg.Fset, syntax, pkg.TypesInfo),
			})
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return files, errors.NewMultiError(errs).ErrOrNil()
}

// parseError converts the first scanner error into a positioned ParseError
func parseError(path string, err error) error {
	var list scanner.ErrorList
	if stderrors.As(err, &list) && len(list) > 0 {
		return errors.NewParseError(path, list[0].Pos.Line, list[0].Pos.Column, "", list[0])
	}
	return errors.NewParseError(path, 0, 0, "", err)
}

func newInfo() *types.Info {
	return &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Instances:  make(map[*ast.Ident]types.Instance),
	}
}
