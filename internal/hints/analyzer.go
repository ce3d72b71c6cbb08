package hints

import (
	"github.com/standardbeagle/paramhints/internal/debug"
)

// Analyzer decides which arguments of a call get parameter-name hints.
// It holds no mutable state and may be shared between goroutines as long
// as the TypeSystem is safe for concurrent reads.
type Analyzer struct {
	ts TypeSystem
}

// NewAnalyzer creates an analyzer backed by the given assignability oracle
func NewAnalyzer(ts TypeSystem) *Analyzer {
	return &Analyzer{ts: ts}
}

// ComputeHints is a convenience wrapper around NewAnalyzer(ts).Analyze(call)
func ComputeHints(call Call, ts TypeSystem) []Hint {
	return NewAnalyzer(ts).Analyze(call)
}

// Analyze returns the hints for one call expression in argument order.
// It never returns nil.
func (a *Analyzer) Analyze(call Call) []Hint {
	if call == nil {
		return []Hint{}
	}
	args := call.Arguments()
	resolved := call.Resolve()
	target := resolved.Target

	if !IsEligible(target) {
		return []Hint{}
	}
	if !hasUnclearFrom(args, 0) {
		return []Hint{}
	}

	subst := resolved.Substitution
	if subst == nil {
		subst = Identity{}
	}
	return a.analyzeArguments(args, target, subst)
}

func (a *Analyzer) analyzeArguments(args []Argument, target *Target, subst Substitution) []Hint {
	params := target.Parameters
	if SuppressAll(len(args), params) {
		debug.LogHints("%s: suppressed, parameters %q/%q form a conventional pair\n",
			target.Name, params[0].Name, params[1].Name)
		return []Hint{}
	}

	out := make([]Hint, 0, min(len(args), len(params)))
	for i := 0; i < len(args) && i < len(params); i++ {
		if a.shouldHint(i, args, params[i], subst) {
			out = append(out, newHint(args[i], params[i]))
		}
	}
	return out
}

func (a *Analyzer) shouldHint(i int, args []Argument, param Parameter, subst Substitution) bool {
	arg := args[i]
	if arg.Type == nil || param.Name == "" {
		return false
	}

	// A rest parameter is labelled once if anything in the tail is unclear.
	if IsVariadicMatch(a.ts, param, arg.Type) && hasUnclearFrom(args, i) {
		return true
	}

	if IsUnclear(arg.Expr) {
		if param.Type == nil {
			return false
		}
		paramType := subst.Substitute(param.Type)
		return paramType != nil && a.ts.IsAssignable(paramType, arg.Type)
	}
	return false
}

func newHint(arg Argument, param Parameter) Hint {
	label := param.Name
	if param.Variadic {
		label = VariadicMarker + label
	}
	return Hint{Label: label, Offset: arg.Offset}
}
