package golang

import (
	"go/types"

	"github.com/standardbeagle/paramhints/internal/hints"
)

// TypeSystem answers assignability with go/types. It holds no state.
type TypeSystem struct{}

var _ hints.TypeSystem = TypeSystem{}

// IsAssignable reports whether a value of type source is assignable to
// target. A type parameter accepts any type satisfying its constraint.
func (TypeSystem) IsAssignable(target, source hints.Type) bool {
	t, ok1 := target.(types.Type)
	s, ok2 := source.(types.Type)
	if !ok1 || !ok2 || !valid(t) || !valid(s) {
		return false
	}
	if tp, ok := t.(*types.TypeParam); ok {
		iface, ok := tp.Constraint().Underlying().(*types.Interface)
		if !ok {
			return false
		}
		return types.Satisfies(types.Default(s), iface)
	}
	return types.AssignableTo(s, t)
}

// ElementType returns T for a variadic ...T parameter, typed []T
func (TypeSystem) ElementType(variadic hints.Type) hints.Type {
	t, ok := variadic.(types.Type)
	if !ok || t == nil {
		return nil
	}
	slice, ok := t.Underlying().(*types.Slice)
	if !ok {
		return nil
	}
	return slice.Elem()
}

func valid(t types.Type) bool {
	if t == nil {
		return false
	}
	b, ok := t.(*types.Basic)
	return !ok || b.Kind() != types.Invalid
}

// hintType converts t, keeping nil and invalid types out of the engine
func hintType(t types.Type) hints.Type {
	if !valid(t) {
		return nil
	}
	return t
}

// substitution maps the declared parameter types of a generic function to
// their instantiation at one call site
type substitution map[types.Type]types.Type

func (s substitution) Substitute(t hints.Type) hints.Type {
	gt, ok := t.(types.Type)
	if !ok {
		return t
	}
	if r, ok := s[gt]; ok {
		return hintType(r)
	}
	return t
}
