package java

// classInfo describes a class, interface, enum or record, either declared
// in the analyzed file or loaded from the JDK catalog.
type classInfo struct {
	name       string
	typeParams []string
	supers     []*Type
	iface      bool
	fields     map[string]fieldInfo
	methods    map[string][]*methodInfo
	ctors      []*methodInfo
	outer      *classInfo
}

type fieldInfo struct {
	typ    *Type
	static bool
}

type methodInfo struct {
	name       string
	owner      *classInfo
	typeParams []string
	params     []paramInfo
	ret        *Type
	static     bool
	ctor       bool
}

type paramInfo struct {
	name     string
	typ      *Type // declared type, T[] for a variadic parameter
	variadic bool
}

func newClassInfo(name string) *classInfo {
	return &classInfo{
		name:    name,
		fields:  make(map[string]fieldInfo),
		methods: make(map[string][]*methodInfo),
	}
}

func (c *classInfo) addMethod(m *methodInfo) {
	m.owner = c
	if m.ctor {
		c.ctors = append(c.ctors, m)
		return
	}
	c.methods[m.name] = append(c.methods[m.name], m)
}

// selfType is the class type with its own type parameters as arguments
func (c *classInfo) selfType() *Type {
	t := Class(c.name)
	for _, tp := range c.typeParams {
		t.Args = append(t.Args, TypeVar(tp))
	}
	return t
}

// bindings maps the class type parameters to the arguments of t. Raw and
// diamond types bind nothing.
func (c *classInfo) bindings(t *Type) map[string]*Type {
	if t == nil || len(t.Args) != len(c.typeParams) || len(t.Args) == 0 {
		return nil
	}
	m := make(map[string]*Type, len(c.typeParams))
	for i, tp := range c.typeParams {
		m[tp] = t.Args[i]
	}
	return m
}

func (m *methodInfo) variadic() bool {
	return len(m.params) > 0 && m.params[len(m.params)-1].variadic
}

// signature identifies overriding declarations
func (m *methodInfo) signature() string {
	s := m.name + "("
	for i, p := range m.params {
		if i > 0 {
			s += ","
		}
		s += p.typ.String()
	}
	return s + ")"
}

// universe answers class lookups for one file: declarations in the file
// shadow catalog classes of the same name.
type universe struct {
	local   map[string]*classInfo
	catalog *Catalog
}

func (u *universe) class(name string) *classInfo {
	if c, ok := u.local[name]; ok {
		return c
	}
	if u.catalog != nil {
		return u.catalog.classes[name]
	}
	return nil
}

// supertypes returns the direct supertypes of t with t's type arguments
// substituted in. Every class except Object has Object as a supertype.
func (u *universe) supertypes(t *Type) []*Type {
	if t == nil || t.Kind != KindClass || t.Name == "Object" {
		return nil
	}
	c := u.class(t.Name)
	if c == nil {
		return []*Type{Class("Object")}
	}
	b := c.bindings(t)
	out := make([]*Type, 0, len(c.supers)+1)
	hasObject := false
	for _, s := range c.supers {
		out = append(out, s.subst(b))
		hasObject = hasObject || s.Name == "Object"
	}
	if !hasObject {
		out = append(out, Class("Object"))
	}
	return out
}

// asSuper walks the supertype graph of t looking for the class named
// name and returns it with arguments substituted, or nil.
func (u *universe) asSuper(t *Type, name string) *Type {
	seen := make(map[string]bool)
	queue := []*Type{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == nil || cur.Kind != KindClass {
			continue
		}
		if cur.Name == name {
			return cur
		}
		if seen[cur.Name] {
			continue
		}
		seen[cur.Name] = true
		queue = append(queue, u.supertypes(cur)...)
	}
	return nil
}

// boundMethod is a method seen through a receiver type, with the class
// type parameters along the way bound.
type boundMethod struct {
	m        *methodInfo
	bindings map[string]*Type
}

// methods collects methods named name visible on t, subclasses first.
// Overridden signatures are reported once.
func (u *universe) methods(t *Type, name string) []boundMethod {
	var out []boundMethod
	seenSig := make(map[string]bool)
	seenClass := make(map[string]bool)
	queue := []*Type{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == nil || cur.Kind != KindClass || seenClass[cur.Name] {
			continue
		}
		seenClass[cur.Name] = true
		c := u.class(cur.Name)
		if c == nil {
			queue = append(queue, u.supertypes(cur)...)
			continue
		}
		b := c.bindings(cur)
		for _, m := range c.methods[name] {
			sig := m.signature()
			if seenSig[sig] {
				continue
			}
			seenSig[sig] = true
			out = append(out, boundMethod{m: m, bindings: b})
		}
		queue = append(queue, u.supertypes(cur)...)
	}
	return out
}

// field looks a field up on t and its supertypes
func (u *universe) field(t *Type, name string) (*Type, bool) {
	seen := make(map[string]bool)
	queue := []*Type{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == nil || cur.Kind != KindClass || seen[cur.Name] {
			continue
		}
		seen[cur.Name] = true
		if c := u.class(cur.Name); c != nil {
			if f, ok := c.fields[name]; ok {
				return f.typ.subst(c.bindings(cur)), true
			}
		}
		queue = append(queue, u.supertypes(cur)...)
	}
	return nil, false
}
