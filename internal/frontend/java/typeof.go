package java

import "strings"

// typeOf computes the static type of an expression node, nil when it
// cannot be determined. Results are memoized per node.
func (a *fileAnalysis) typeOf(n *node) *Type {
	if n == nil {
		return nil
	}
	id := n.Id()
	if t, ok := a.types[id]; ok {
		return t
	}
	// a nil entry breaks cycles through self-referencing initializers
	a.types[id] = nil
	t := a.computeType(n)
	a.types[id] = t
	return t
}

func (a *fileAnalysis) computeType(n *node) *Type {
	switch n.Kind() {
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		if strings.HasSuffix(strings.ToLower(a.text(n)), "l") {
			return Primitive("long")
		}
		return Primitive("int")
	case "decimal_floating_point_literal", "hex_floating_point_literal":
		if strings.HasSuffix(strings.ToLower(a.text(n)), "f") {
			return Primitive("float")
		}
		return Primitive("double")
	case "true", "false":
		return Primitive("boolean")
	case "character_literal":
		return Primitive("char")
	case "string_literal", "text_block":
		return Class("String")
	case "null_literal":
		return Null()
	case "this":
		if c := a.enclosingClass(n); c != nil {
			return c.selfType()
		}
		return nil
	case "identifier":
		t, _ := a.lookupVar(a.text(n), n)
		return t
	case "field_access":
		return a.fieldAccessType(n)
	case "method_invocation":
		if r := a.resolve(n); r != nil && r.m.ret != nil {
			return r.m.ret.subst(r.subst)
		}
		return nil
	case "object_creation_expression":
		return a.typeFromNode(n.ChildByFieldName("type"), a.typeVarsAt(n))
	case "cast_expression":
		return a.typeFromNode(n.ChildByFieldName("type"), a.typeVarsAt(n))
	case "parenthesized_expression":
		kids := namedChildren(n)
		if len(kids) != 1 {
			return nil
		}
		return a.typeOf(kids[0])
	case "unary_expression":
		operand := a.typeOf(n.ChildByFieldName("operand"))
		if a.text(n.ChildByFieldName("operator")) == "!" {
			return Primitive("boolean")
		}
		if operand == nil {
			return nil
		}
		if p := promote(operand); p.IsNumeric() {
			return p
		}
		return nil
	case "update_expression":
		kids := namedChildren(n)
		if len(kids) != 1 {
			return nil
		}
		return a.typeOf(kids[0])
	case "binary_expression":
		return a.binaryType(n)
	case "instanceof_expression":
		return Primitive("boolean")
	case "ternary_expression":
		return a.conditionalType(a.typeOf(n.ChildByFieldName("consequence")), a.typeOf(n.ChildByFieldName("alternative")))
	case "assignment_expression":
		return a.typeOf(n.ChildByFieldName("left"))
	case "array_access":
		if arr := a.typeOf(n.ChildByFieldName("array")); arr != nil && arr.Kind == KindArray {
			return arr.Elem
		}
		return nil
	case "array_creation_expression":
		t := a.typeFromNode(n.ChildByFieldName("type"), a.typeVarsAt(n))
		if t == nil {
			return nil
		}
		depth := 0
		for _, c := range namedChildren(n) {
			switch c.Kind() {
			case "dimensions_expr":
				depth++
			case "dimensions":
				depth += a.dims(c)
			}
		}
		for ; depth > 0; depth-- {
			t = ArrayOf(t)
		}
		return t
	case "class_literal":
		kids := namedChildren(n)
		if len(kids) == 0 {
			return nil
		}
		if t := a.typeFromNode(kids[0], nil); t != nil {
			return Class("Class", boxed(t))
		}
		return nil
	}
	return nil
}

// isQualifiedThis reports whether n is an `Outer.this` expression
func isQualifiedThis(n *node) bool {
	field := n.ChildByFieldName("field")
	return field != nil && field.Kind() == "this"
}

// qualifiedThisType is the type of `Name.this`: the enclosing class called Name
func (a *fileAnalysis) qualifiedThisType(n *node) *Type {
	name := a.text(n.ChildByFieldName("object"))
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	for c := a.enclosingClass(n); c != nil; c = c.outer {
		if c.name == name {
			return c.selfType()
		}
	}
	return nil
}

func (a *fileAnalysis) fieldAccessType(n *node) *Type {
	if isQualifiedThis(n) {
		return a.qualifiedThisType(n)
	}
	object := n.ChildByFieldName("object")
	name := a.text(n.ChildByFieldName("field"))
	recv := a.receiverType(object)
	if recv == nil {
		return nil
	}
	if recv.Kind == KindArray {
		if name == "length" {
			return Primitive("int")
		}
		return nil
	}
	if t, ok := a.u.field(recv, name); ok {
		return t
	}
	return nil
}

// receiverType types the qualifier of a field access or method call. A
// bare or qualified name that is not a variable is taken to be a class.
func (a *fileAnalysis) receiverType(object *node) *Type {
	if object == nil {
		return nil
	}
	switch object.Kind() {
	case "identifier":
		name := a.text(object)
		if t, ok := a.lookupVar(name, object); ok {
			return t
		}
		if a.u.class(name) != nil {
			return Class(name)
		}
		return nil
	case "super":
		return a.superclassOf(a.enclosingClass(object))
	case "field_access":
		if t := a.typeOf(object); t != nil {
			return t
		}
		if name := a.text(object.ChildByFieldName("field")); a.u.class(name) != nil {
			return Class(name)
		}
		return nil
	}
	return a.typeOf(object)
}

func (a *fileAnalysis) binaryType(n *node) *Type {
	left := a.typeOf(n.ChildByFieldName("left"))
	right := a.typeOf(n.ChildByFieldName("right"))
	switch op := a.text(n.ChildByFieldName("operator")); op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return Primitive("boolean")
	case "+":
		if isString(left) || isString(right) {
			return Class("String")
		}
		return promoteBinary(left, right)
	case "-", "*", "/", "%":
		return promoteBinary(left, right)
	case "&", "|", "^":
		if isBoolean(left) && isBoolean(right) {
			return Primitive("boolean")
		}
		return promoteBinary(left, right)
	case "<<", ">>", ">>>":
		if left == nil {
			return nil
		}
		if p := promote(left); p.IsNumeric() {
			return p
		}
	}
	return nil
}

// conditionalType is a simplified rule for ?: operands
func (a *fileAnalysis) conditionalType(x, y *Type) *Type {
	switch {
	case x == nil || y == nil:
		return nil
	case x.Equal(y):
		return x
	case x.Kind == KindNull:
		return boxed(y)
	case y.Kind == KindNull:
		return boxed(x)
	}
	if p := promoteBinary(x, y); p != nil {
		return p
	}
	if a.u.assignable(y, x, true) {
		return y
	}
	if a.u.assignable(x, y, true) {
		return x
	}
	return nil
}

func isString(t *Type) bool {
	return t != nil && t.Kind == KindClass && t.Name == "String"
}

func isBoolean(t *Type) bool {
	if u := unboxed(t); u != nil {
		t = u
	}
	return t != nil && t.Kind == KindPrimitive && t.Name == "boolean"
}
