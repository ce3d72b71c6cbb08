package java

import "fmt"

// collectDeclarations records every class-like declaration in the file,
// including nested, local and anonymous classes, with their members.
func (a *fileAnalysis) collectDeclarations(root *node) {
	a.walkDecls(root, nil)
}

func (a *fileAnalysis) walkDecls(n *node, outer *classInfo) {
	if n == nil {
		return
	}
	kind := n.Kind()
	switch {
	case isClassDecl(kind):
		c := a.declareClass(n, outer)
		for _, child := range namedChildren(n) {
			a.walkDecls(child, c)
		}
		return
	case kind == "object_creation_expression":
		if body := childOfKind(n, "class_body"); body != nil {
			c := a.declareAnonymous(n, body, outer)
			for _, child := range namedChildren(n) {
				a.walkDecls(child, c)
			}
			return
		}
	}
	for _, child := range namedChildren(n) {
		a.walkDecls(child, outer)
	}
}

func childOfKind(n *node, kind string) *node {
	for _, c := range namedChildren(n) {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

func (a *fileAnalysis) declareClass(n *node, outer *classInfo) *classInfo {
	c := newClassInfo(a.text(n.ChildByFieldName("name")))
	c.outer = outer
	c.typeParams = a.typeParamNames(n.ChildByFieldName("type_parameters"))
	c.iface = n.Kind() == "interface_declaration"
	vars := a.typeVarsAt(n)

	if sc := n.ChildByFieldName("superclass"); sc != nil {
		for _, t := range namedChildren(sc) {
			if st := a.typeFromNode(t, vars); st != nil {
				c.supers = append(c.supers, st)
			}
		}
	}
	a.addTypeList(c, n.ChildByFieldName("interfaces"), vars)
	if ext := childOfKind(n, "extends_interfaces"); ext != nil {
		a.addTypeList(c, ext, vars)
	}

	if n.Kind() == "record_declaration" {
		a.declareRecordComponents(c, n.ChildByFieldName("parameters"), vars)
	}

	body := n.ChildByFieldName("body")
	if n.Kind() == "enum_declaration" {
		a.declareEnumBody(c, body, vars)
	} else {
		a.declareMembers(c, body, vars)
	}

	a.local[c.name] = c
	a.classAt[n.Id()] = c
	return c
}

func (a *fileAnalysis) declareAnonymous(creation, body *node, outer *classInfo) *classInfo {
	c := newClassInfo(fmt.Sprintf("$anon@%d", creation.StartByte()))
	c.outer = outer
	vars := a.typeVarsAt(creation)
	if st := a.typeFromNode(creation.ChildByFieldName("type"), vars); st != nil {
		c.supers = append(c.supers, st)
	}
	a.declareMembers(c, body, vars)
	a.local[c.name] = c
	a.classAt[body.Id()] = c
	return c
}

// addTypeList adds every type under a super_interfaces, extends_interfaces
// or type_list node as a supertype
func (a *fileAnalysis) addTypeList(c *classInfo, n *node, vars map[string]bool) {
	if n == nil {
		return
	}
	for _, child := range namedChildren(n) {
		if child.Kind() == "type_list" {
			a.addTypeList(c, child, vars)
			continue
		}
		if t := a.typeFromNode(child, vars); t != nil {
			c.supers = append(c.supers, t)
		}
	}
}

func (a *fileAnalysis) declareMembers(c *classInfo, body *node, vars map[string]bool) {
	for _, m := range namedChildren(body) {
		switch m.Kind() {
		case "field_declaration", "constant_declaration":
			a.declareField(c, m, vars)
		case "method_declaration":
			c.addMethod(a.methodFromNode(m, vars, false))
		case "constructor_declaration":
			cm := a.methodFromNode(m, vars, true)
			cm.name = c.name
			c.addMethod(cm)
		}
	}
}

func (a *fileAnalysis) declareEnumBody(c *classInfo, body *node, vars map[string]bool) {
	self := Class(c.name)
	for _, m := range namedChildren(body) {
		switch m.Kind() {
		case "enum_constant":
			c.fields[a.text(m.ChildByFieldName("name"))] = fieldInfo{typ: self, static: true}
		case "enum_body_declarations":
			a.declareMembers(c, m, vars)
		}
	}
	c.addMethod(&methodInfo{name: "ordinal", ret: Primitive("int")})
	c.addMethod(&methodInfo{name: "name", ret: Class("String")})
	c.addMethod(&methodInfo{name: "values", ret: ArrayOf(self), static: true})
	c.addMethod(&methodInfo{
		name:   "valueOf",
		ret:    self,
		static: true,
		params: []paramInfo{{name: "name", typ: Class("String")}},
	})
}

// declareRecordComponents adds the private fields, accessors and the
// canonical constructor generated for a record
func (a *fileAnalysis) declareRecordComponents(c *classInfo, params *node, vars map[string]bool) {
	ctor := &methodInfo{name: c.name, ctor: true}
	for _, p := range a.paramsFromNode(params, vars) {
		c.fields[p.name] = fieldInfo{typ: p.typ}
		c.addMethod(&methodInfo{name: p.name, ret: p.typ})
		ctor.params = append(ctor.params, p)
	}
	c.addMethod(ctor)
}

func (a *fileAnalysis) declareField(c *classInfo, decl *node, vars map[string]bool) {
	static := hasModifier(decl, "static") || c.iface
	base := a.typeFromNode(decl.ChildByFieldName("type"), vars)
	for _, d := range namedChildren(decl) {
		if d.Kind() != "variable_declarator" {
			continue
		}
		t := base
		if t != nil {
			for i := a.dims(d.ChildByFieldName("dimensions")); i > 0; i-- {
				t = ArrayOf(t)
			}
		}
		c.fields[a.text(d.ChildByFieldName("name"))] = fieldInfo{typ: t, static: static}
	}
}

func (a *fileAnalysis) methodFromNode(n *node, classVars map[string]bool, ctor bool) *methodInfo {
	m := &methodInfo{
		name:       a.text(n.ChildByFieldName("name")),
		typeParams: a.typeParamNames(n.ChildByFieldName("type_parameters")),
		static:     hasModifier(n, "static"),
		ctor:       ctor,
	}
	vars := make(map[string]bool, len(classVars)+len(m.typeParams))
	for v := range classVars {
		vars[v] = true
	}
	for _, v := range m.typeParams {
		vars[v] = true
	}
	if !ctor {
		m.ret = a.typeFromNode(n.ChildByFieldName("type"), vars)
		for i := a.dims(n.ChildByFieldName("dimensions")); i > 0 && m.ret != nil; i-- {
			m.ret = ArrayOf(m.ret)
		}
	}
	m.params = a.paramsFromNode(n.ChildByFieldName("parameters"), vars)
	return m
}

// paramsFromNode reads a formal_parameters node. Receiver parameters are
// skipped; a spread parameter becomes a variadic array parameter.
func (a *fileAnalysis) paramsFromNode(n *node, vars map[string]bool) []paramInfo {
	var out []paramInfo
	for _, p := range namedChildren(n) {
		switch p.Kind() {
		case "formal_parameter":
			t := a.typeFromNode(p.ChildByFieldName("type"), vars)
			for i := a.dims(p.ChildByFieldName("dimensions")); i > 0 && t != nil; i-- {
				t = ArrayOf(t)
			}
			out = append(out, paramInfo{name: a.text(p.ChildByFieldName("name")), typ: t})
		case "spread_parameter":
			out = append(out, a.spreadParam(p, vars))
		}
	}
	return out
}

func (a *fileAnalysis) spreadParam(p *node, vars map[string]bool) paramInfo {
	var elem *Type
	name := ""
	for _, c := range namedChildren(p) {
		switch c.Kind() {
		case "variable_declarator":
			name = a.text(c.ChildByFieldName("name"))
		case "modifiers", "annotation", "marker_annotation":
		default:
			if elem == nil {
				elem = a.typeFromNode(c, vars)
			}
		}
	}
	var t *Type
	if elem != nil {
		t = ArrayOf(elem)
	}
	return paramInfo{name: name, typ: t, variadic: true}
}
