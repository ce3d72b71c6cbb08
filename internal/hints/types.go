package hints

// Type is an opaque static type supplied by a front end. The engine never
// inspects it; it only hands types back to the TypeSystem.
type Type interface {
	String() string
}

// ExprKind classifies the shape of an argument expression
type ExprKind uint8

const (
	ExprOther ExprKind = iota
	ExprLiteral
	ExprPrefix // unary operator applied to an operand
	ExprSelf   // this / receiver reference
)

func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "literal"
	case ExprPrefix:
		return "prefix"
	case ExprSelf:
		return "self"
	default:
		return "other"
	}
}

// Expr is the syntactic shape of an argument, reduced to what the
// classifier needs. Op and Operand are only meaningful for ExprPrefix.
type Expr struct {
	Kind    ExprKind
	Op      string
	Operand *Expr
}

// Literal returns the shape of a literal constant
func Literal() Expr { return Expr{Kind: ExprLiteral} }

// Self returns the shape of a self-reference expression
func Self() Expr { return Expr{Kind: ExprSelf} }

// Other returns the shape of any expression the classifier treats as clear
func Other() Expr { return Expr{Kind: ExprOther} }

// Prefix returns the shape of a unary expression
func Prefix(op string, operand Expr) Expr {
	return Expr{Kind: ExprPrefix, Op: op, Operand: &operand}
}

// Argument is one call argument. Type is nil when the front end could not
// determine it. Offset is the start offset of the argument in the source.
type Argument struct {
	Expr   Expr
	Type   Type
	Offset int
}

// Parameter is a formal parameter of the call target. An empty Name means
// the name is unknown.
type Parameter struct {
	Name     string
	Type     Type
	Variadic bool
}

// Target is the function or method a call resolved to
type Target struct {
	Name       string
	Parameters []Parameter
}

// Substitution maps declared (possibly generic) parameter types to the
// types they take at a particular call site.
type Substitution interface {
	Substitute(t Type) Type
}

// Identity is the substitution for non-generic calls
type Identity struct{}

// Substitute returns t unchanged
func (Identity) Substitute(t Type) Type { return t }

// ResolvedCall pairs the resolved target with its type substitution.
// Target is nil when resolution failed or was ambiguous.
type ResolvedCall struct {
	Target       *Target
	Substitution Substitution
}

// Call is a single call expression as exposed by a front end
type Call interface {
	Resolve() ResolvedCall
	Arguments() []Argument
}

// TypeSystem is the assignability oracle of a front end
type TypeSystem interface {
	// IsAssignable reports whether a value of type source may be used where
	// target is expected.
	IsAssignable(target, source Type) bool
	// ElementType strips one array/rest dimension from a variadic
	// parameter type.
	ElementType(variadic Type) Type
}

// Hint is an inline parameter-name label anchored at an argument
type Hint struct {
	Label  string `json:"label"`
	Offset int    `json:"offset"`
}

// VariadicMarker prefixes labels of variadic parameters
const VariadicMarker = "..."
