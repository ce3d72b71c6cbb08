package java

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogUniverse(t *testing.T) *universe {
	t.Helper()
	cat, err := DefaultCatalog()
	require.NoError(t, err)
	return &universe{local: map[string]*classInfo{}, catalog: cat}
}

func TestAssignable(t *testing.T) {
	u := catalogUniverse(t)
	str := Class("String")
	cases := []struct {
		name           string
		target, source *Type
		strict, loose  bool
	}{
		{"identity", Primitive("int"), Primitive("int"), true, true},
		{"widening", Primitive("long"), Primitive("int"), true, true},
		{"narrowing", Primitive("int"), Primitive("long"), false, false},
		{"boolean is not numeric", Primitive("int"), Primitive("boolean"), false, false},
		{"boxing", Class("Integer"), Primitive("int"), false, true},
		{"boxing then widening to Object", Class("Object"), Primitive("int"), false, true},
		{"boxing then widening to Number", Class("Number"), Primitive("double"), false, true},
		{"boxing to the wrong wrapper", Class("Long"), Primitive("int"), false, false},
		{"unboxing then widening", Primitive("long"), Class("Integer"), false, true},
		{"null to reference", str, Null(), true, true},
		{"null to primitive", Primitive("int"), Null(), false, false},
		{"interface supertype", Class("CharSequence"), str, true, true},
		{"parameterized supertype", Class("List", str), Class("ArrayList", str), true, true},
		{"raw target", Class("List"), Class("ArrayList", str), true, true},
		{"argument mismatch", Class("List", str), Class("ArrayList", Class("Integer")), false, false},
		{"unrelated classes", str, Class("Integer"), false, false},
		{"array to Object", Class("Object"), ArrayOf(Primitive("int")), true, true},
		{"primitive arrays are invariant", ArrayOf(Primitive("long")), ArrayOf(Primitive("int")), false, false},
		{"reference arrays are covariant", ArrayOf(Class("Object")), ArrayOf(str), true, true},
		{"type variable accepts references", TypeVar("T"), str, true, true},
		{"type variable accepts boxed primitives", TypeVar("T"), Primitive("int"), false, true},
		{"unknown class only to itself", Class("Widget"), Class("Widget"), true, true},
		{"unknown class to Object", Class("Object"), Class("Widget"), true, true},
		{"unknown class elsewhere", Class("Gadget"), Class("Widget"), false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.strict, u.assignable(tc.target, tc.source, false), "strict")
			assert.Equal(t, tc.loose, u.assignable(tc.target, tc.source, true), "loose")
		})
	}
}

func TestLocalClassesShadowCatalog(t *testing.T) {
	u := catalogUniverse(t)
	base := newClassInfo("Shape")
	circle := newClassInfo("Circle")
	circle.supers = []*Type{Class("Shape")}
	u.local["Shape"], u.local["Circle"] = base, circle

	assert.True(t, u.assignable(Class("Shape"), Class("Circle"), false))
	assert.False(t, u.assignable(Class("Circle"), Class("Shape"), true))
}

func TestTypeSystemAdapter(t *testing.T) {
	ts := &TypeSystem{u: catalogUniverse(t)}
	assert.True(t, ts.IsAssignable(Class("Object"), Primitive("int")))
	assert.False(t, ts.IsAssignable(nil, Primitive("int")))

	assert.Equal(t, "String", ts.ElementType(ArrayOf(Class("String"))).String())
	assert.Nil(t, ts.ElementType(Class("String")))
	assert.Nil(t, ts.ElementType(nil))
}

func TestSubstitution(t *testing.T) {
	s := substitution{"T": Class("String")}
	assert.Equal(t, "List<String>", s.Substitute(Class("List", TypeVar("T"))).String())
	assert.Equal(t, "U", s.Substitute(TypeVar("U")).String())
	assert.Nil(t, s.Substitute(nil))
}
