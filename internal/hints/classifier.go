package hints

// IsUnclear reports whether an argument's meaning is not self-evident
// without the parameter name: a literal, a literal with a leading + or -,
// or a self-reference.
func IsUnclear(e Expr) bool {
	switch e.Kind {
	case ExprLiteral, ExprSelf:
		return true
	case ExprPrefix:
		return (e.Op == "-" || e.Op == "+") && e.Operand != nil && e.Operand.Kind == ExprLiteral
	default:
		return false
	}
}

// hasUnclearFrom reports whether any argument at index >= from is unclear
func hasUnclearFrom(args []Argument, from int) bool {
	for i := from; i < len(args); i++ {
		if IsUnclear(args[i].Expr) {
			return true
		}
	}
	return false
}
