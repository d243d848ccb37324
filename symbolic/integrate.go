package symbolic

import "errors"

// ErrCannotIntegrate is returned when no rule matches.
var ErrCannotIntegrate = errors.New("Unable to integrate")

// ============================================================
// Integration (rule-based)
// ============================================================

// Integrate returns an antiderivative of expr in varName without the
// constant of integration. Functions of a linear argument a*x+b are handled
// by substitution; products are expanded once before giving up.
func Integrate(expr Expr, varName string) (Expr, bool) {
	expr = expr.Simplify()
	if r, ok := integrate(expr, varName); ok {
		return r, true
	}
	if x := Expand(expr); x.String() != expr.String() {
		return integrate(x, varName)
	}
	return nil, false
}

func integrate(expr Expr, varName string) (Expr, bool) {
	x := S(varName)
	if !dependsOn(expr, varName) {
		return MulOf(expr, x), true
	}
	switch v := expr.(type) {
	case *Sym:
		return MulOf(F(1, 2), PowOf(x, N(2))), true
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			r, ok := Integrate(t, varName)
			if !ok {
				return nil, false
			}
			terms[i] = r
		}
		return AddOf(terms...), true
	case *Mul:
		var consts, rest []Expr
		for _, f := range v.factors {
			if dependsOn(f, varName) {
				rest = append(rest, f)
			} else {
				consts = append(consts, f)
			}
		}
		if len(consts) == 0 {
			return nil, false
		}
		r, ok := Integrate(MulOf(rest...), varName)
		if !ok {
			return nil, false
		}
		return MulOf(append(consts, r)...), true
	case *Pow:
		return integratePow(v, varName)
	case *Func:
		return integrateFunc(v, varName)
	}
	return nil, false
}

// linear matches u = a*x + b with a, b free of varName.
func linear(u Expr, varName string) (a, b Expr, ok bool) {
	coeffs, ok := PolyCoeffs(u, varName)
	if !ok {
		return nil, nil, false
	}
	for d, c := range coeffs {
		if d > 1 && !isZero(c) {
			return nil, nil, false
		}
	}
	a, hasA := coeffs[1]
	if !hasA || isZero(a) || dependsOn(a, varName) {
		return nil, nil, false
	}
	b, hasB := coeffs[0]
	if !hasB {
		b = N(0)
	}
	return a, b, true
}

func integratePow(p *Pow, varName string) (Expr, bool) {
	if !dependsOn(p.exp, varName) {
		a, _, ok := linear(p.base, varName)
		if !ok {
			// 1/cos(u)^2 = sec(u)^2
			if fn, isFunc := p.base.(*Func); isFunc && fn.name == "cos" && isNumEqual(p.exp, -2) {
				if a, _, ok := linear(fn.args[0], varName); ok {
					return MulOf(TanOf(fn.args[0]), PowOf(a, N(-1))), true
				}
			}
			return nil, false
		}
		if isNumEqual(p.exp, -1) {
			return MulOf(LogOf(AbsOf(p.base)), PowOf(a, N(-1))), true
		}
		n := AddOf(p.exp, N(1))
		return MulOf(PowOf(p.base, n), PowOf(MulOf(a, n), N(-1))), true
	}
	if !dependsOn(p.base, varName) {
		a, _, ok := linear(p.exp, varName)
		if !ok {
			return nil, false
		}
		return MulOf(p, PowOf(MulOf(a, LogOf(p.base)), N(-1))), true
	}
	return nil, false
}

func integrateFunc(f *Func, varName string) (Expr, bool) {
	if len(f.args) != 1 {
		return nil, false
	}
	u := f.args[0]
	a, _, ok := linear(u, varName)
	if !ok {
		return nil, false
	}
	var r Expr
	switch f.name {
	case "sin":
		r = MulOf(N(-1), CosOf(u))
	case "cos":
		r = SinOf(u)
	case "tan":
		r = MulOf(N(-1), LogOf(AbsOf(CosOf(u))))
	case "exp":
		r = ExpOf(u)
	case "log":
		r = AddOf(MulOf(u, LogOf(u)), MulOf(N(-1), u))
	case "log10":
		r = MulOf(AddOf(MulOf(u, LogOf(u)), MulOf(N(-1), u)), PowOf(LogOf(N(10)), N(-1)))
	case "sinh":
		r = CoshOf(u)
	case "cosh":
		r = SinhOf(u)
	case "tanh":
		r = LogOf(CoshOf(u))
	case "asin":
		r = AddOf(MulOf(u, AsinOf(u)), SqrtOf(AddOf(N(1), MulOf(N(-1), PowOf(u, N(2))))))
	case "acos":
		r = AddOf(MulOf(u, AcosOf(u)), MulOf(N(-1), SqrtOf(AddOf(N(1), MulOf(N(-1), PowOf(u, N(2)))))))
	case "atan":
		r = AddOf(MulOf(u, AtanOf(u)), MulOf(F(-1, 2), LogOf(AddOf(N(1), PowOf(u, N(2))))))
	default:
		return nil, false
	}
	return MulOf(r, PowOf(a, N(-1))), true
}
