package java

// enclosingClass returns the innermost class whose body contains n
func (a *fileAnalysis) enclosingClass(n *node) *classInfo {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if c, ok := a.classAt[p.Id()]; ok {
			return c
		}
	}
	return nil
}

// superclassOf returns the direct superclass of c, Object when none is
// declared
func (a *fileAnalysis) superclassOf(c *classInfo) *Type {
	if c == nil {
		return nil
	}
	for _, s := range c.supers {
		if sc := a.u.class(s.Name); sc == nil || !sc.iface {
			return s
		}
	}
	return Class("Object")
}

// lookupVar finds the declaration of the variable name visible at use.
// The boolean reports whether a declaration was found; its type may still
// be unknown.
func (a *fileAnalysis) lookupVar(name string, use *node) (*Type, bool) {
	at := use.StartByte()
	for p := use.Parent(); p != nil; p = p.Parent() {
		switch p.Kind() {
		case "block", "constructor_body", "switch_block_statement_group", "switch_rule", "program":
			for _, stmt := range namedChildren(p) {
				if stmt.StartByte() >= at {
					break
				}
				if stmt.Kind() == "local_variable_declaration" {
					if t, ok := a.declaratorType(stmt, name); ok {
						return t, true
					}
				}
			}
		case "for_statement":
			for _, c := range namedChildren(p) {
				if c.Kind() == "local_variable_declaration" && c.EndByte() <= at {
					if t, ok := a.declaratorType(c, name); ok {
						return t, true
					}
				}
			}
		case "enhanced_for_statement":
			if a.text(p.ChildByFieldName("name")) == name {
				return a.enhancedForType(p), true
			}
		case "catch_clause":
			if cp := childOfKind(p, "catch_formal_parameter"); cp != nil && a.text(cp.ChildByFieldName("name")) == name {
				return a.catchType(cp), true
			}
		case "try_with_resources_statement":
			if t, ok := a.resourceType(p.ChildByFieldName("resources"), name, at); ok {
				return t, true
			}
		case "lambda_expression":
			if t, ok := a.lambdaParam(p.ChildByFieldName("parameters"), name); ok {
				return t, true
			}
		case "method_declaration", "constructor_declaration":
			for _, param := range a.paramsFromNode(p.ChildByFieldName("parameters"), a.typeVarsAt(p)) {
				if param.name == name {
					return param.typ, true
				}
			}
		}

		if c, ok := a.classAt[p.Id()]; ok {
			if t, found := a.u.field(c.selfType(), name); found {
				return t, true
			}
		}
	}
	return nil, false
}

// declaratorType looks for name among the declarators of a local variable
// declaration. A "var" declaration takes the type of its initializer.
func (a *fileAnalysis) declaratorType(decl *node, name string) (*Type, bool) {
	typeNode := decl.ChildByFieldName("type")
	for _, d := range namedChildren(decl) {
		if d.Kind() != "variable_declarator" || a.text(d.ChildByFieldName("name")) != name {
			continue
		}
		if typeNode != nil && a.text(typeNode) == "var" {
			return a.typeOf(d.ChildByFieldName("value")), true
		}
		t := a.typeFromNode(typeNode, a.typeVarsAt(decl))
		for i := a.dims(d.ChildByFieldName("dimensions")); i > 0 && t != nil; i-- {
			t = ArrayOf(t)
		}
		return t, true
	}
	return nil, false
}

func (a *fileAnalysis) enhancedForType(loop *node) *Type {
	typeNode := loop.ChildByFieldName("type")
	if typeNode != nil && a.text(typeNode) != "var" {
		return a.typeFromNode(typeNode, a.typeVarsAt(loop))
	}
	iter := a.typeOf(loop.ChildByFieldName("value"))
	if iter == nil {
		return nil
	}
	if iter.Kind == KindArray {
		return iter.Elem
	}
	if it := a.u.asSuper(iter, "Iterable"); it != nil && len(it.Args) == 1 {
		return it.Args[0]
	}
	return nil
}

func (a *fileAnalysis) catchType(cp *node) *Type {
	ct := childOfKind(cp, "catch_type")
	kids := namedChildren(ct)
	if len(kids) != 1 {
		// multi-catch has a union type
		return Class("Throwable")
	}
	return a.typeFromNode(kids[0], nil)
}

func (a *fileAnalysis) resourceType(spec *node, name string, at uint) (*Type, bool) {
	for _, r := range namedChildren(spec) {
		if r.Kind() != "resource" || r.StartByte() >= at {
			continue
		}
		if a.text(r.ChildByFieldName("name")) != name {
			continue
		}
		typeNode := r.ChildByFieldName("type")
		if typeNode == nil || a.text(typeNode) == "var" {
			return a.typeOf(r.ChildByFieldName("value")), true
		}
		return a.typeFromNode(typeNode, a.typeVarsAt(r)), true
	}
	return nil, false
}

// lambdaParam reports lambda parameters. Implicitly typed parameters have
// no known type.
func (a *fileAnalysis) lambdaParam(params *node, name string) (*Type, bool) {
	if params == nil {
		return nil, false
	}
	switch params.Kind() {
	case "identifier":
		return nil, a.text(params) == name
	case "inferred_parameters":
		for _, p := range namedChildren(params) {
			if a.text(p) == name {
				return nil, true
			}
		}
	case "formal_parameters":
		for _, p := range a.paramsFromNode(params, a.typeVarsAt(params)) {
			if p.name == name {
				return p.typ, true
			}
		}
	}
	return nil, false
}
