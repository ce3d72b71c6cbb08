// Package java is the Java front end of the hint engine. It parses source
// with tree-sitter, builds a lightweight type model from the file's own
// declarations plus an embedded JDK catalog, and exposes every call
// expression as a hints.Call.
package java

import (
	"context"
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/standardbeagle/paramhints/internal/debug"
	"github.com/standardbeagle/paramhints/internal/errors"
	"github.com/standardbeagle/paramhints/internal/hints"
)

// Language is the registry name of this front end
const Language = "java"

// Frontend analyzes Java source files. It is safe for concurrent use.
type Frontend struct {
	catalog *Catalog
	parsers sync.Pool
}

// New creates a Java front end. A nil catalog selects the embedded JDK
// catalog.
func New(catalog *Catalog) (*Frontend, error) {
	if catalog == nil {
		var err error
		if catalog, err = DefaultCatalog(); err != nil {
			return nil, errors.NewFrontendError(Language, "load catalog", err)
		}
	}
	f := &Frontend{catalog: catalog}
	f.parsers.New = func() any {
		p := tree_sitter.NewParser()
		if err := p.SetLanguage(tree_sitter.NewLanguage(tree_sitter_java.Language())); err != nil {
			return nil
		}
		return p
	}
	return f, nil
}

// Name returns the language name
func (f *Frontend) Name() string { return Language }

// Extensions lists the file extensions handled by this front end
func (f *Frontend) Extensions() []string { return []string{".java"} }

// File is the analysis of one Java source file
type File struct {
	path  string
	src   []byte
	calls []hints.Call
	ts    *TypeSystem
}

// Path returns the analyzed file path
func (f *File) Path() string { return f.path }

// Source returns the analyzed content
func (f *File) Source() []byte { return f.src }

// Calls returns every call expression in source order
func (f *File) Calls() []hints.Call { return f.calls }

// TypeSystem returns the assignability oracle for the file's types
func (f *File) TypeSystem() hints.TypeSystem { return f.ts }

// Analyze parses src and extracts its calls. The parse tree is released
// before returning; the resulting calls are self-contained.
func (f *Frontend) Analyze(ctx context.Context, path string, src []byte) (file *File, err error) {
	defer func() {
		if r := recover(); r != nil {
			file = nil
			err = errors.NewFrontendError(Language, "analyze", fmt.Errorf("panic: %v", r)).WithFile(path)
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// tree-sitter keeps pointers into the buffer; never hand it the caller's slice
	buf := make([]byte, len(src))
	copy(buf, src)

	p, _ := f.parsers.Get().(*tree_sitter.Parser)
	if p == nil {
		return nil, errors.NewFrontendError(Language, "parse", fmt.Errorf("java grammar unavailable")).WithFile(path)
	}
	defer f.parsers.Put(p)

	tree := p.Parse(buf, nil)
	if tree == nil {
		return nil, errors.NewFrontendError(Language, "parse", fmt.Errorf("parser returned no tree")).WithFile(path)
	}
	defer tree.Close()
	root := tree.RootNode()
	if root.HasError() {
		debug.LogFrontend("java: %s has syntax errors, analyzing what parsed\n", path)
	}

	a := newFileAnalysis(buf, f.catalog)
	a.collectDeclarations(root)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file = &File{path: path, src: buf, ts: &TypeSystem{u: a.u}}
	a.walkCalls(ctx, root, func(call *node) {
		file.calls = append(file.calls, a.buildCall(call))
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	debug.LogFrontend("java: %s: %d classes, %d calls\n", path, len(a.local), len(file.calls))
	return file, nil
}

// fileAnalysis holds per-file state while the parse tree is alive
type fileAnalysis struct {
	src      []byte
	u        *universe
	local    map[string]*classInfo
	classAt  map[uintptr]*classInfo
	types    map[uintptr]*Type
	resolved map[uintptr]*resolution
}

func newFileAnalysis(src []byte, catalog *Catalog) *fileAnalysis {
	local := make(map[string]*classInfo)
	return &fileAnalysis{
		src:      src,
		u:        &universe{local: local, catalog: catalog},
		local:    local,
		classAt:  make(map[uintptr]*classInfo),
		types:    make(map[uintptr]*Type),
		resolved: make(map[uintptr]*resolution),
	}
}

func isCallNode(n *node) bool {
	switch n.Kind() {
	case "method_invocation", "object_creation_expression", "explicit_constructor_invocation":
		return true
	case "enum_constant":
		return n.ChildByFieldName("arguments") != nil
	}
	return false
}

// walkCalls visits call nodes in source order, outer calls first
func (a *fileAnalysis) walkCalls(ctx context.Context, n *node, visit func(*node)) {
	if ctx.Err() != nil {
		return
	}
	if isCallNode(n) {
		visit(n)
	}
	for _, c := range namedChildren(n) {
		a.walkCalls(ctx, c, visit)
	}
}

// call is a resolved call expression detached from the parse tree
type call struct {
	resolved hints.ResolvedCall
	args     []hints.Argument
}

func (c *call) Resolve() hints.ResolvedCall { return c.resolved }
func (c *call) Arguments() []hints.Argument { return c.args }

func (a *fileAnalysis) buildCall(n *node) *call {
	c := &call{}
	for _, arg := range callArguments(n) {
		c.args = append(c.args, hints.Argument{
			Expr:   a.shape(arg),
			Type:   hintType(a.typeOf(arg)),
			Offset: int(arg.StartByte()),
		})
	}
	if r := a.resolve(n); r != nil {
		c.resolved = hints.ResolvedCall{Target: target(r.m), Substitution: substitution(r.subst)}
	}
	return c
}

func target(m *methodInfo) *hints.Target {
	t := &hints.Target{Name: m.name, Parameters: make([]hints.Parameter, len(m.params))}
	for i, p := range m.params {
		t.Parameters[i] = hints.Parameter{Name: p.name, Type: hintType(p.typ), Variadic: p.variadic}
	}
	return t
}

// substitution applies call-site type variable bindings
type substitution map[string]*Type

func (s substitution) Substitute(t hints.Type) hints.Type {
	jt, ok := t.(*Type)
	if !ok {
		return t
	}
	return hintType(jt.subst(s))
}

// shape reduces an argument expression to what the classifier inspects
func (a *fileAnalysis) shape(n *node) hints.Expr {
	switch n.Kind() {
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal",
		"decimal_floating_point_literal", "hex_floating_point_literal",
		"true", "false", "character_literal", "string_literal", "text_block", "null_literal":
		return hints.Literal()
	case "this":
		return hints.Self()
	case "field_access":
		if isQualifiedThis(n) {
			return hints.Self()
		}
		return hints.Other()
	case "unary_expression":
		operand := n.ChildByFieldName("operand")
		if operand == nil {
			return hints.Other()
		}
		return hints.Prefix(a.text(n.ChildByFieldName("operator")), a.shape(operand))
	}
	return hints.Other()
}
