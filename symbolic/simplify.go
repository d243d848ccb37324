package symbolic

import "math/big"

// ============================================================
// Deep Simplification and Trig Identities
// ============================================================

// TrigSimplify applies sin²+cos²=1 wherever both squares share an argument
// and coefficient.
func TrigSimplify(e Expr) Expr {
	return trigSimplifyExpr(e.Simplify()).Simplify()
}

func trigSimplifyExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = trigSimplifyExpr(t)
		}
		return trigFindPythagorean(AddOf(terms...))
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = trigSimplifyExpr(f)
		}
		return MulOf(factors...)
	case *Pow:
		return PowOf(trigSimplifyExpr(v.base), v.exp)
	case *Func:
		args := make([]Expr, len(v.args))
		for i, a := range v.args {
			args[i] = trigSimplifyExpr(a)
		}
		return funcOf(v.name, args...).Simplify()
	}
	return e
}

func trigFindPythagorean(e Expr) Expr {
	add, ok := e.(*Add)
	if !ok {
		return e
	}
	type trigTerm struct {
		funcName string
		argStr   string
		coeff    *Num
		idx      int
	}
	var trigTerms []trigTerm
	for idx, t := range add.terms {
		coeff, inner := extractCoefficient(t)
		p, ok := inner.(*Pow)
		if !ok || !isNumEqual(p.exp, 2) {
			continue
		}
		if fn, ok := p.base.(*Func); ok && (fn.name == "sin" || fn.name == "cos") {
			trigTerms = append(trigTerms, trigTerm{fn.name, fn.args[0].String(), coeff, idx})
		}
	}
	for i := 0; i < len(trigTerms); i++ {
		for j := i + 1; j < len(trigTerms); j++ {
			ti, tj := trigTerms[i], trigTerms[j]
			if ti.argStr == tj.argStr && ti.funcName != tj.funcName && numCmp(ti.coeff, tj.coeff) == 0 {
				terms := []Expr{}
				for idx, t := range add.terms {
					if idx != ti.idx && idx != tj.idx {
						terms = append(terms, t)
					}
				}
				terms = append(terms, ti.coeff)
				return AddOf(terms...)
			}
		}
	}
	return e
}

// DeepSimplify applies repeated simplification and trig passes until stable.
func DeepSimplify(e Expr) Expr {
	prev := ""
	curr := e.Simplify()
	for i := 0; i < 10; i++ {
		str := curr.String()
		if str == prev {
			break
		}
		prev = str
		curr = TrigSimplify(curr)
	}
	return curr
}

// ============================================================
// Expansion
// ============================================================

func Expand(e Expr) Expr { return expandExpr(e.Simplify()).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		result := Expr(N(1))
		for _, f := range v.factors {
			result = distribute(result, expandExpr(f))
		}
		return result
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = expandExpr(t)
		}
		return AddOf(terms...)
	case *Pow:
		base := expandExpr(v.base)
		if n, ok := v.exp.(*Num); ok && n.IsInteger() {
			if k := n.val.Num().Int64(); k >= 2 && k <= 32 {
				if _, isAdd := base.(*Add); isAdd {
					result := base
					for i := int64(1); i < k; i++ {
						result = distribute(result, base)
					}
					return result
				}
			}
		}
		return PowOf(base, expandExpr(v.exp))
	case *Func:
		args := make([]Expr, len(v.args))
		for i, a := range v.args {
			args[i] = expandExpr(a)
		}
		return funcOf(v.name, args...).Simplify()
	}
	return e
}

// distribute multiplies two expanded expressions term by term.
func distribute(a, b Expr) Expr {
	at, bt := addTerms(a), addTerms(b)
	out := make([]Expr, 0, len(at)*len(bt))
	for _, x := range at {
		for _, y := range bt {
			out = append(out, MulOf(x, y))
		}
	}
	return AddOf(out...)
}

func addTerms(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

// ============================================================
// Rational functions
// ============================================================

// NumerDenom splits e into numerator and denominator: factors with a
// negative numeric exponent go below the bar.
func NumerDenom(e Expr) (num, den Expr) {
	var factors []Expr
	switch v := e.(type) {
	case *Mul:
		factors = v.factors
	case *Pow:
		factors = []Expr{v}
	default:
		return e, N(1)
	}
	var nf, df []Expr
	for _, f := range factors {
		if p, ok := f.(*Pow); ok {
			if n, ok := p.exp.(*Num); ok && n.IsNegative() {
				df = append(df, PowOf(p.base, numNeg(n)))
				continue
			}
		}
		if n, ok := f.(*Num); ok && !n.IsInteger() {
			nf = append(nf, &Num{val: new(big.Rat).SetInt(n.val.Num())})
			df = append(df, &Num{val: new(big.Rat).SetInt(n.val.Denom())})
			continue
		}
		nf = append(nf, f)
	}
	return MulOf(nf...), MulOf(df...)
}

// Cancel divides out the greatest common polynomial divisor (in varName) of
// the numerator and denominator of e. Expressions that are not ratios of
// polynomials with numeric coefficients come back unchanged.
func Cancel(e Expr, varName string) Expr {
	num, den := NumerDenom(e)
	if isNumEqual(den, 1) {
		return e
	}
	nc, ok1 := PolyCoeffs(num, varName)
	dc, ok2 := PolyCoeffs(den, varName)
	if !ok1 || !ok2 {
		return e
	}
	np, ok1 := ratPoly(nc)
	dp, ok2 := ratPoly(dc)
	if !ok1 || !ok2 || dp.degree() < 1 {
		return e
	}
	if np.degree() < 0 {
		return N(0)
	}
	g := polyGCD(np, dp)
	if g.degree() < 1 {
		return e
	}
	nq, _ := np.divmod(g)
	dq, _ := dp.divmod(g)
	x := S(varName)
	return MulOf(nq.expr(x), PowOf(dq.expr(x), N(-1)))
}
