package hints

// IsVariadicMatch reports whether param is a variadic parameter whose
// element type accepts argType.
func IsVariadicMatch(ts TypeSystem, param Parameter, argType Type) bool {
	if !param.Variadic || param.Type == nil || argType == nil {
		return false
	}
	elem := ts.ElementType(param.Type)
	if elem == nil {
		return false
	}
	return ts.IsAssignable(elem, argType)
}
