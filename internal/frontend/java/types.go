package java

import "strings"

// Kind classifies a Java type
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindClass
	KindArray
	KindTypeVar
	KindNull
)

// Type is a Java static type. Class types carry their simple name; package
// qualifiers are dropped when types are read from source.
type Type struct {
	Kind Kind
	Name string  // primitive keyword, simple class name or type variable
	Args []*Type // type arguments of a parameterized class type
	Elem *Type   // element type of an array
}

var primitiveNames = map[string]bool{
	"boolean": true, "byte": true, "short": true, "char": true,
	"int": true, "long": true, "float": true, "double": true,
}

// Primitive returns the primitive type with the given keyword
func Primitive(name string) *Type { return &Type{Kind: KindPrimitive, Name: name} }

// Class returns a class type with optional type arguments
func Class(name string, args ...*Type) *Type {
	return &Type{Kind: KindClass, Name: name, Args: args}
}

// ArrayOf returns the array type with the given element type
func ArrayOf(elem *Type) *Type { return &Type{Kind: KindArray, Elem: elem} }

// TypeVar returns a reference to a type parameter
func TypeVar(name string) *Type { return &Type{Kind: KindTypeVar, Name: name} }

// Null is the type of the null literal
func Null() *Type { return &Type{Kind: KindNull, Name: "null"} }

func (t *Type) String() string {
	if t == nil {
		return "<unknown>"
	}
	switch t.Kind {
	case KindArray:
		return t.Elem.String() + "[]"
	case KindClass:
		if len(t.Args) == 0 {
			return t.Name
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.String()
		}
		return t.Name + "<" + strings.Join(args, ", ") + ">"
	default:
		return t.Name
	}
}

// IsPrimitive reports whether t is a primitive type
func (t *Type) IsPrimitive() bool { return t != nil && t.Kind == KindPrimitive }

// IsReference reports whether values of t are references
func (t *Type) IsReference() bool { return t != nil && t.Kind != KindPrimitive }

// IsNumeric reports whether t is a numeric primitive
func (t *Type) IsNumeric() bool {
	if !t.IsPrimitive() {
		return false
	}
	return t.Name != "boolean" && t.Name != "void"
}

// Equal reports structural identity
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind || t.Name != o.Name || len(t.Args) != len(o.Args) {
		return false
	}
	if t.Kind == KindArray {
		return t.Elem.Equal(o.Elem)
	}
	for i := range t.Args {
		if !t.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// subst replaces type variables bound in m. Unbound variables are kept.
func (t *Type) subst(m map[string]*Type) *Type {
	if t == nil || len(m) == 0 {
		return t
	}
	switch t.Kind {
	case KindTypeVar:
		if r, ok := m[t.Name]; ok && r != nil {
			return r
		}
		return t
	case KindArray:
		elem := t.Elem.subst(m)
		if elem == t.Elem {
			return t
		}
		return ArrayOf(elem)
	case KindClass:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]*Type, len(t.Args))
		changed := false
		for i, a := range t.Args {
			args[i] = a.subst(m)
			changed = changed || args[i] != a
		}
		if !changed {
			return t
		}
		return Class(t.Name, args...)
	default:
		return t
	}
}

var boxes = map[string]string{
	"boolean": "Boolean", "byte": "Byte", "short": "Short", "char": "Character",
	"int": "Integer", "long": "Long", "float": "Float", "double": "Double",
}

var unboxes = map[string]string{
	"Boolean": "boolean", "Byte": "byte", "Short": "short", "Character": "char",
	"Integer": "int", "Long": "long", "Float": "float", "Double": "double",
}

// boxed returns the wrapper class of a primitive, or t itself
func boxed(t *Type) *Type {
	if t.IsPrimitive() {
		if name, ok := boxes[t.Name]; ok {
			return Class(name)
		}
	}
	return t
}

// unboxed returns the primitive of a wrapper class, or nil
func unboxed(t *Type) *Type {
	if t == nil || t.Kind != KindClass {
		return nil
	}
	if name, ok := unboxes[t.Name]; ok {
		return Primitive(name)
	}
	return nil
}

// widenings lists the primitive widening conversions per source type
var widenings = map[string][]string{
	"byte":  {"short", "int", "long", "float", "double"},
	"short": {"int", "long", "float", "double"},
	"char":  {"int", "long", "float", "double"},
	"int":   {"long", "float", "double"},
	"long":  {"float", "double"},
	"float": {"double"},
}

func widens(from, to string) bool {
	if from == to {
		return true
	}
	for _, w := range widenings[from] {
		if w == to {
			return true
		}
	}
	return false
}

// promote applies unary numeric promotion
func promote(t *Type) *Type {
	if u := unboxed(t); u != nil {
		t = u
	}
	if !t.IsNumeric() {
		return t
	}
	switch t.Name {
	case "byte", "short", "char":
		return Primitive("int")
	}
	return t
}

// promoteBinary applies binary numeric promotion, nil if either side is
// not numeric.
func promoteBinary(a, b *Type) *Type {
	a, b = promote(a), promote(b)
	if !a.IsNumeric() || !b.IsNumeric() {
		return nil
	}
	for _, name := range []string{"double", "float", "long"} {
		if a.Name == name || b.Name == name {
			return Primitive(name)
		}
	}
	return Primitive("int")
}
