package java

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

type node = tree_sitter.Node

func (a *fileAnalysis) text(n *node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(a.src)
}

// namedChildren returns the named children of n, comments excluded
func namedChildren(n *node) []*node {
	if n == nil {
		return nil
	}
	count := n.NamedChildCount()
	out := make([]*node, 0, count)
	for i := uint(0); i < count; i++ {
		c := n.NamedChild(i)
		if c == nil || isComment(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func isComment(n *node) bool {
	k := n.Kind()
	return k == "line_comment" || k == "block_comment"
}

// hasModifier reports whether the modifiers of a declaration include kw
func hasModifier(decl *node, kw string) bool {
	for i := uint(0); i < decl.NamedChildCount(); i++ {
		c := decl.NamedChild(i)
		if c == nil || c.Kind() != "modifiers" {
			continue
		}
		for j := uint(0); j < c.ChildCount(); j++ {
			if m := c.Child(j); m != nil && m.Kind() == kw {
				return true
			}
		}
	}
	return false
}

func isClassDecl(kind string) bool {
	switch kind {
	case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
		return true
	}
	return false
}

// typeParamNames lists the names declared by a type_parameters node
func (a *fileAnalysis) typeParamNames(tps *node) []string {
	var names []string
	for _, tp := range namedChildren(tps) {
		if tp.Kind() != "type_parameter" {
			continue
		}
		for _, c := range namedChildren(tp) {
			if c.Kind() == "type_identifier" || c.Kind() == "identifier" {
				names = append(names, a.text(c))
				break
			}
		}
	}
	return names
}

// typeVarsAt collects the type parameters in scope at n
func (a *fileAnalysis) typeVarsAt(n *node) map[string]bool {
	vars := make(map[string]bool)
	for p := n; p != nil; p = p.Parent() {
		switch k := p.Kind(); {
		case k == "method_declaration" || k == "constructor_declaration" || isClassDecl(k):
			for _, name := range a.typeParamNames(p.ChildByFieldName("type_parameters")) {
				vars[name] = true
			}
		}
	}
	return vars
}

// typeFromNode converts a type node into a Type. It returns nil for
// unknown shapes and for "var".
func (a *fileAnalysis) typeFromNode(n *node, vars map[string]bool) *Type {
	if n == nil {
		return nil
	}
	switch n.Kind() {
	case "integral_type", "floating_point_type", "boolean_type":
		return Primitive(a.text(n))
	case "void_type":
		return Primitive("void")
	case "type_identifier", "identifier":
		name := a.text(n)
		if name == "var" {
			return nil
		}
		if vars[name] {
			return TypeVar(name)
		}
		return Class(name)
	case "scoped_type_identifier":
		kids := namedChildren(n)
		if len(kids) == 0 {
			return nil
		}
		name := a.text(kids[len(kids)-1])
		return Class(name[strings.LastIndexByte(name, '.')+1:])
	case "generic_type":
		kids := namedChildren(n)
		if len(kids) == 0 {
			return nil
		}
		base := a.typeFromNode(kids[0], vars)
		if base == nil || base.Kind != KindClass {
			return base
		}
		t := Class(base.Name)
		for _, k := range kids[1:] {
			if k.Kind() != "type_arguments" {
				continue
			}
			for _, arg := range namedChildren(k) {
				at := a.typeArgument(arg, vars)
				if at == nil {
					return Class(base.Name)
				}
				t.Args = append(t.Args, at)
			}
		}
		return t
	case "array_type":
		t := a.typeFromNode(n.ChildByFieldName("element"), vars)
		if t == nil {
			return nil
		}
		for i := a.dims(n.ChildByFieldName("dimensions")); i > 0; i-- {
			t = ArrayOf(t)
		}
		return t
	case "annotated_type":
		kids := namedChildren(n)
		if len(kids) == 0 {
			return nil
		}
		return a.typeFromNode(kids[len(kids)-1], vars)
	}
	return nil
}

func (a *fileAnalysis) typeArgument(n *node, vars map[string]bool) *Type {
	if n.Kind() != "wildcard" {
		return a.typeFromNode(n, vars)
	}
	extends := false
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		switch {
		case c.Kind() == "extends":
			extends = true
		case c.Kind() == "super":
			return TypeVar("?")
		case c.IsNamed() && extends && c.Kind() != "annotation" && c.Kind() != "marker_annotation":
			return a.typeFromNode(c, vars)
		}
	}
	return TypeVar("?")
}

// dims counts the bracket pairs of a dimensions node
func (a *fileAnalysis) dims(n *node) int {
	if n == nil {
		return 0
	}
	return strings.Count(a.text(n), "[")
}
