package hints

import "strings"

type tname string

func (t tname) String() string { return string(t) }

// stubTypes is a tiny oracle: identity, everything to Object, int to long,
// and "T[]" as the variadic form of T.
type stubTypes struct {
	assignCalls int
}

func (s *stubTypes) IsAssignable(target, source Type) bool {
	s.assignCalls++
	t, src := target.String(), source.String()
	switch {
	case t == src:
		return true
	case t == "Object":
		return true
	case t == "long" && src == "int":
		return true
	}
	return false
}

func (s *stubTypes) ElementType(variadic Type) Type {
	name := variadic.String()
	if !strings.HasSuffix(name, "[]") {
		return nil
	}
	return tname(strings.TrimSuffix(name, "[]"))
}

type stubCall struct {
	target *Target
	subst  Substitution
	args   []Argument
}

func (c stubCall) Resolve() ResolvedCall {
	return ResolvedCall{Target: c.target, Substitution: c.subst}
}

func (c stubCall) Arguments() []Argument { return c.args }

// mapSubst substitutes type variables by name
type mapSubst map[string]Type

func (m mapSubst) Substitute(t Type) Type {
	if r, ok := m[t.String()]; ok {
		return r
	}
	return t
}

func param(name, typ string) Parameter {
	return Parameter{Name: name, Type: tname(typ)}
}

func rest(name, elem string) Parameter {
	return Parameter{Name: name, Type: tname(elem + "[]"), Variadic: true}
}

func lit(typ string, offset int) Argument {
	return Argument{Expr: Literal(), Type: tname(typ), Offset: offset}
}

func ident(typ string, offset int) Argument {
	return Argument{Expr: Other(), Type: tname(typ), Offset: offset}
}

func target(name string, params ...Parameter) *Target {
	return &Target{Name: name, Parameters: params}
}
