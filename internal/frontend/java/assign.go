package java

import "github.com/standardbeagle/paramhints/internal/hints"

// TypeSystem answers assignability questions for one analyzed file. It is
// read-only after analysis and safe for concurrent use.
type TypeSystem struct {
	u *universe
}

var _ hints.TypeSystem = (*TypeSystem)(nil)

// IsAssignable reports whether a value of type source may be assigned to a
// variable of type target in an assignment context, which allows boxing.
func (ts *TypeSystem) IsAssignable(target, source hints.Type) bool {
	t, ok1 := target.(*Type)
	s, ok2 := source.(*Type)
	if !ok1 || !ok2 {
		return false
	}
	return ts.u.assignable(t, s, true)
}

// ElementType strips one array dimension
func (ts *TypeSystem) ElementType(variadic hints.Type) hints.Type {
	t, ok := variadic.(*Type)
	if !ok || t == nil || t.Kind != KindArray {
		return nil
	}
	return hintType(t.Elem)
}

// hintType converts t to the engine's opaque type. A nil *Type becomes a
// nil interface, never a typed nil.
func hintType(t *Type) hints.Type {
	if t == nil {
		return nil
	}
	return t
}

// assignable implements assignment conversion. With loose unset only
// identity, widening and subtyping apply; loose adds boxing and unboxing.
func (u *universe) assignable(target, source *Type, loose bool) bool {
	if target == nil || source == nil {
		return false
	}
	if target.Equal(source) {
		return true
	}

	switch {
	case source.Kind == KindNull:
		return target.IsReference()
	case target.Kind == KindTypeVar:
		return source.IsReference() || (loose && source.IsPrimitive() && source.Name != "void")
	case source.IsPrimitive() && target.IsPrimitive():
		return source.Name != "boolean" && target.Name != "boolean" && widens(source.Name, target.Name)
	case source.IsPrimitive():
		if !loose || source.Name == "void" {
			return false
		}
		return u.subtype(boxed(source), target)
	case target.IsPrimitive():
		if !loose {
			return false
		}
		prim := unboxed(source)
		return prim != nil && (prim.Name == target.Name ||
			(prim.Name != "boolean" && target.Name != "boolean" && widens(prim.Name, target.Name)))
	}
	return u.subtype(source, target)
}

// subtype reports whether the reference type s is a subtype of t.
// Type arguments are compared covariantly since wildcard bounds are not
// kept in the type model.
func (u *universe) subtype(s, t *Type) bool {
	if s == nil || t == nil {
		return false
	}
	if s.Equal(t) {
		return true
	}
	if t.Kind == KindClass && t.Name == "Object" {
		return s.IsReference()
	}
	if t.Kind == KindTypeVar {
		return s.IsReference()
	}

	switch s.Kind {
	case KindNull:
		return t.IsReference()
	case KindArray:
		switch t.Kind {
		case KindArray:
			if s.Elem.IsReference() && t.Elem.IsReference() {
				return u.subtype(s.Elem, t.Elem)
			}
			return s.Elem.Equal(t.Elem)
		case KindClass:
			return t.Name == "Cloneable" || t.Name == "Serializable"
		}
		return false
	case KindClass:
		if t.Kind != KindClass {
			return false
		}
		sup := u.asSuper(s, t.Name)
		if sup == nil {
			return false
		}
		if len(t.Args) == 0 || len(sup.Args) != len(t.Args) {
			return true
		}
		for i := range t.Args {
			if !u.containsArg(t.Args[i], sup.Args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (u *universe) containsArg(target, source *Type) bool {
	if target.Kind == KindTypeVar || source.Kind == KindTypeVar {
		return true
	}
	return u.subtype(source, target)
}
