package golang

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/standardbeagle/paramhints/internal/hints"
)

// call is one call expression with everything the analyzer needs computed
// up front, so it does not keep the syntax tree alive
type call struct {
	resolved hints.ResolvedCall
	args     []hints.Argument
}

func (c *call) Resolve() hints.ResolvedCall { return c.resolved }
func (c *call) Arguments() []hints.Argument { return c.args }

type extractor struct {
	fset *token.FileSet
	info *types.Info
	recv types.Object // receiver of the enclosing method, if any
}

// extractCalls returns the calls of file in source order
func extractCalls(fset *token.FileSet, file *ast.File, info *types.Info) []hints.Call {
	x := &extractor{fset: fset, info: info}
	var out []hints.Call
	for _, decl := range file.Decls {
		x.recv = nil
		if fd, ok := decl.(*ast.FuncDecl); ok && fd.Recv != nil && len(fd.Recv.List) > 0 {
			if names := fd.Recv.List[0].Names; len(names) > 0 {
				x.recv = info.Defs[names[0]]
			}
		}
		ast.Inspect(decl, func(n ast.Node) bool {
			if ce, ok := n.(*ast.CallExpr); ok {
				out = append(out, x.build(ce))
			}
			return true
		})
	}
	return out
}

func (x *extractor) build(ce *ast.CallExpr) *call {
	c := &call{args: make([]hints.Argument, len(ce.Args))}
	for i, arg := range ce.Args {
		c.args[i] = hints.Argument{
			Expr:   x.shape(arg),
			Type:   hintType(x.info.TypeOf(arg)),
			Offset: x.fset.Position(arg.Pos()).Offset,
		}
	}
	c.resolved = x.resolve(ce)
	return c
}

// callee finds the function or method a call expression invokes.
// Conversions, builtins and calls through function values yield nil.
func (x *extractor) callee(ce *ast.CallExpr) *types.Func {
	fun := ast.Unparen(ce.Fun)
	switch f := fun.(type) {
	case *ast.IndexExpr:
		fun = f.X
	case *ast.IndexListExpr:
		fun = f.X
	}

	var obj types.Object
	switch f := ast.Unparen(fun).(type) {
	case *ast.Ident:
		obj = x.info.Uses[f]
	case *ast.SelectorExpr:
		if sel, ok := x.info.Selections[f]; ok {
			if sel.Kind() == types.FieldVal {
				return nil
			}
			obj = sel.Obj()
		} else {
			obj = x.info.Uses[f.Sel]
		}
	}
	fn, _ := obj.(*types.Func)
	return fn
}

func (x *extractor) resolve(ce *ast.CallExpr) hints.ResolvedCall {
	fn := x.callee(ce)
	if fn == nil {
		return hints.ResolvedCall{}
	}
	origin := fn.Origin()
	declared, ok := origin.Type().(*types.Signature)
	if !ok {
		return hints.ResolvedCall{}
	}

	params := declared.Params()
	target := &hints.Target{Name: fn.Name(), Parameters: make([]hints.Parameter, params.Len())}
	for i := 0; i < params.Len(); i++ {
		p := params.At(i)
		name := p.Name()
		if name == "_" {
			name = ""
		}
		target.Parameters[i] = hints.Parameter{
			Name:     name,
			Type:     hintType(p.Type()),
			Variadic: declared.Variadic() && i == params.Len()-1,
		}
	}

	return hints.ResolvedCall{Target: target, Substitution: x.substitution(ce, declared)}
}

// substitution pairs each declared parameter type with the type it takes
// in the instantiated signature of this call
func (x *extractor) substitution(ce *ast.CallExpr, declared *types.Signature) hints.Substitution {
	inst, ok := x.info.TypeOf(ce.Fun).(*types.Signature)
	if !ok || inst == declared || inst.Params().Len() != declared.Params().Len() {
		return hints.Identity{}
	}
	s := make(substitution, declared.Params().Len())
	for i := 0; i < declared.Params().Len(); i++ {
		from, to := declared.Params().At(i).Type(), inst.Params().At(i).Type()
		if from != to {
			s[from] = to
		}
	}
	if len(s) == 0 {
		return hints.Identity{}
	}
	return s
}

// shape reduces an argument expression to what the classifier inspects
func (x *extractor) shape(e ast.Expr) hints.Expr {
	switch v := e.(type) {
	case *ast.BasicLit:
		return hints.Literal()
	case *ast.Ident:
		obj := x.info.Uses[v]
		switch o := obj.(type) {
		case *types.Nil:
			return hints.Literal()
		case *types.Const:
			if o.Parent() == types.Universe && (o.Name() == "true" || o.Name() == "false") {
				return hints.Literal()
			}
		}
		if x.recv != nil && obj == x.recv {
			return hints.Self()
		}
	case *ast.UnaryExpr:
		if v.Op == token.SUB || v.Op == token.ADD {
			return hints.Prefix(v.Op.String(), x.shape(v.X))
		}
	}
	return hints.Other()
}
