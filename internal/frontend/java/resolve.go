package java

import "github.com/standardbeagle/paramhints/internal/debug"

// resolution is the method or constructor a call resolved to, with the
// type variable bindings that apply at the call site
type resolution struct {
	m     *methodInfo
	subst map[string]*Type
}

// phase is a step of overload resolution; each step only runs when the
// previous one found no applicable candidate
type phase uint8

const (
	phaseStrict phase = iota // no boxing, no varargs
	phaseLoose               // boxing, no varargs
	phaseVarargs
)

// callArguments returns the argument expressions of a call node
func callArguments(call *node) []*node {
	return namedChildren(call.ChildByFieldName("arguments"))
}

// resolve finds the target of a method_invocation, object_creation_expression,
// explicit_constructor_invocation or enum_constant node. It returns nil when
// the target is unknown or the call is ambiguous.
func (a *fileAnalysis) resolve(call *node) *resolution {
	id := call.Id()
	if r, ok := a.resolved[id]; ok {
		return r
	}
	a.resolved[id] = nil
	r := a.computeResolution(call)
	a.resolved[id] = r
	return r
}

func (a *fileAnalysis) computeResolution(call *node) *resolution {
	cands, inferClass := a.candidates(call)
	if len(cands) == 0 {
		return nil
	}

	args := callArguments(call)
	argTypes := make([]*Type, len(args))
	for i, arg := range args {
		argTypes[i] = a.typeOf(arg)
	}

	for _, ph := range []phase{phaseStrict, phaseLoose, phaseVarargs} {
		var applicable []boundMethod
		for _, c := range cands {
			if a.applicable(c, argTypes, ph) {
				applicable = append(applicable, c)
			}
		}
		if len(applicable) == 0 {
			continue
		}
		best, ok := a.mostSpecific(applicable, len(argTypes), ph)
		if !ok {
			debug.LogFrontend("java: ambiguous call %q with %d candidates\n", a.text(call), len(applicable))
			return nil
		}
		return &resolution{m: best.m, subst: a.infer(best, argTypes, ph, inferClass)}
	}
	return nil
}

// candidates lists the methods or constructors a call may target. The
// boolean reports whether class type parameters are still open, as with
// diamond or raw constructor calls.
func (a *fileAnalysis) candidates(call *node) ([]boundMethod, bool) {
	switch call.Kind() {
	case "method_invocation":
		name := a.text(call.ChildByFieldName("name"))
		object := call.ChildByFieldName("object")
		if object == nil {
			for c := a.enclosingClass(call); c != nil; c = c.outer {
				if found := a.u.methods(c.selfType(), name); len(found) > 0 {
					return found, false
				}
			}
			return nil, false
		}
		recv := a.receiverType(object)
		if recv == nil || recv.IsPrimitive() {
			return nil, false
		}
		if recv.Kind != KindClass {
			recv = Class("Object")
		}
		return a.u.methods(recv, name), false

	case "object_creation_expression":
		t := a.typeFromNode(call.ChildByFieldName("type"), a.typeVarsAt(call))
		if t == nil || t.Kind != KindClass {
			return nil, false
		}
		return a.constructors(t)

	case "explicit_constructor_invocation":
		c := a.enclosingClass(call)
		if c == nil {
			return nil, false
		}
		ctor := call.ChildByFieldName("constructor")
		if ctor != nil && ctor.Kind() == "super" {
			return a.constructors(a.superclassOf(c))
		}
		return a.constructors(c.selfType())

	case "enum_constant":
		if c := a.enclosingClass(call); c != nil {
			return a.constructors(Class(c.name))
		}
	}
	return nil, false
}

func (a *fileAnalysis) constructors(t *Type) ([]boundMethod, bool) {
	if t == nil {
		return nil, false
	}
	c := a.u.class(t.Name)
	if c == nil {
		return nil, false
	}
	ctors := c.ctors
	if len(ctors) == 0 && !c.iface && a.local[c.name] == c {
		ctors = []*methodInfo{{name: c.name, owner: c, ctor: true}}
	}
	b := c.bindings(t)
	out := make([]boundMethod, len(ctors))
	for i, m := range ctors {
		out[i] = boundMethod{m: m, bindings: b}
	}
	return out, b == nil && len(c.typeParams) > 0
}

// paramAt returns the type expected for argument i, expanding the
// variadic parameter in the varargs phase
func paramAt(bm boundMethod, i int, ph phase) *Type {
	params := bm.m.params
	if ph == phaseVarargs && bm.m.variadic() && i >= len(params)-1 {
		last := params[len(params)-1].typ.subst(bm.bindings)
		if last == nil || last.Kind != KindArray {
			return nil
		}
		return last.Elem
	}
	if i >= len(params) {
		return nil
	}
	return params[i].typ.subst(bm.bindings)
}

func (a *fileAnalysis) applicable(bm boundMethod, argTypes []*Type, ph phase) bool {
	n, k := len(argTypes), len(bm.m.params)
	if ph == phaseVarargs {
		if !bm.m.variadic() || n < k-1 {
			return false
		}
	} else if n != k {
		return false
	}
	for i, at := range argTypes {
		pt := paramAt(bm, i, ph)
		if at == nil || pt == nil {
			continue
		}
		if !a.u.assignable(pt, at, ph != phaseStrict) {
			return false
		}
	}
	return true
}

// mostSpecific picks the candidate whose parameter types are all
// subtypes of every other candidate's. It fails when no single candidate
// qualifies.
func (a *fileAnalysis) mostSpecific(cands []boundMethod, n int, ph phase) (boundMethod, bool) {
	if len(cands) == 1 {
		return cands[0], true
	}
	for i, m1 := range cands {
		best := true
		for j, m2 := range cands {
			if i != j && !a.moreSpecific(m1, m2, n, ph) {
				best = false
				break
			}
		}
		if best {
			return m1, true
		}
	}
	return boundMethod{}, false
}

func (a *fileAnalysis) moreSpecific(m1, m2 boundMethod, n int, ph phase) bool {
	k := n
	if ph == phaseVarargs {
		k = max(n, len(m1.m.params), len(m2.m.params))
	}
	for i := 0; i < k; i++ {
		t1, t2 := paramAt(m1, i, ph), paramAt(m2, i, ph)
		if t1 == nil || t2 == nil {
			continue
		}
		if !a.u.assignable(t2, t1, false) {
			return false
		}
	}
	return true
}

// infer combines the receiver's class bindings with type arguments
// inferred for the method's own type parameters from the argument types
func (a *fileAnalysis) infer(bm boundMethod, argTypes []*Type, ph phase, inferClass bool) map[string]*Type {
	open := make(map[string]bool, len(bm.m.typeParams))
	for _, tp := range bm.m.typeParams {
		open[tp] = true
	}
	if inferClass && bm.m.owner != nil {
		for _, tp := range bm.m.owner.typeParams {
			open[tp] = true
		}
	}

	out := make(map[string]*Type, len(bm.bindings)+len(open))
	for k, v := range bm.bindings {
		out[k] = v
		delete(open, k)
	}
	if len(open) == 0 {
		return out
	}

	for i, at := range argTypes {
		var declared *Type
		params := bm.m.params
		switch {
		case ph == phaseVarargs && bm.m.variadic() && i >= len(params)-1:
			if last := params[len(params)-1].typ; last != nil && last.Kind == KindArray {
				declared = last.Elem
			}
		case i < len(params):
			declared = params[i].typ
		}
		a.unify(declared, at, open, out)
	}
	return out
}

// unify binds open type variables in declared from the argument type
func (a *fileAnalysis) unify(declared, actual *Type, open map[string]bool, out map[string]*Type) {
	if declared == nil || actual == nil || actual.Kind == KindNull {
		return
	}
	switch declared.Kind {
	case KindTypeVar:
		if !open[declared.Name] {
			return
		}
		b := boxed(actual)
		prev, bound := out[declared.Name]
		switch {
		case !bound:
			out[declared.Name] = b
		case a.u.subtype(b, prev):
		case a.u.subtype(prev, b):
			out[declared.Name] = b
		default:
			// conflicting arguments widen to Object
			out[declared.Name] = Class("Object")
		}
	case KindArray:
		if actual.Kind == KindArray {
			a.unify(declared.Elem, actual.Elem, open, out)
		}
	case KindClass:
		if len(declared.Args) == 0 {
			return
		}
		sup := a.u.asSuper(boxed(actual), declared.Name)
		if sup == nil || len(sup.Args) != len(declared.Args) {
			return
		}
		for i := range declared.Args {
			a.unify(declared.Args[i], sup.Args[i], open, out)
		}
	}
}
