package symbolic

import (
	"errors"
	"math"
	"math/big"
	"sort"
)

var (
	ErrNoSolution        = errors.New("No real solutions")
	ErrInfiniteSolutions = errors.New("Infinite solutions")
)

// ============================================================
// Solvers
// ============================================================

type SolveResult struct {
	Solutions []Expr
	ExactForm bool
}

// Solve returns the real roots of expr = 0 in varName. Polynomials are solved
// exactly where possible (linear, quadratic with surds, rational roots);
// everything else falls back to Newton's method.
func Solve(expr Expr, varName string) (SolveResult, error) {
	expr = expr.Simplify()
	num, _ := NumerDenom(Cancel(expr, varName))
	coeffs, ok := PolyCoeffs(num, varName)
	if !ok {
		return newtonResult(SolveNewton(expr, varName, 10, 1e-10, 100))
	}
	deg := 0
	for d, c := range coeffs {
		if d > deg && !isZero(c) {
			deg = d
		}
	}
	at := func(d int) Expr {
		if c, ok := coeffs[d]; ok {
			return c
		}
		return N(0)
	}
	switch deg {
	case 0:
		if isZero(at(0)) {
			return SolveResult{}, ErrInfiniteSolutions
		}
		return SolveResult{}, ErrNoSolution
	case 1:
		return SolveLinear(at(1), at(0)), nil
	case 2:
		return SolveQuadraticExact(at(2), at(1), at(0))
	}
	if p, ok := ratPoly(coeffs); ok {
		return solvePoly(p, varName)
	}
	return newtonResult(SolveNewton(num, varName, 100, 1e-10, 100))
}

// SolveLinear solves a*x + b = 0.
func SolveLinear(a, b Expr) SolveResult {
	_, exact := a.(*Num)
	return SolveResult{Solutions: []Expr{MulOf(N(-1), b, PowOf(a, N(-1)))}, ExactForm: exact}
}

// SolveQuadraticExact solves a*x^2 + b*x + c = 0, the root with +sqrt first.
func SolveQuadraticExact(a, b, c Expr) (SolveResult, error) {
	an, aok := a.(*Num)
	bn, bok := b.(*Num)
	cn, cok := c.(*Num)
	if !aok || !bok || !cok {
		disc := AddOf(PowOf(b, N(2)), MulOf(N(-4), a, c))
		denom := PowOf(MulOf(N(2), a), N(-1))
		x1 := MulOf(AddOf(MulOf(N(-1), b), SqrtOf(disc)), denom)
		x2 := MulOf(AddOf(MulOf(N(-1), b), MulOf(N(-1), SqrtOf(disc))), denom)
		return SolveResult{Solutions: []Expr{x1, x2}, ExactForm: true}, nil
	}
	if an.IsZero() {
		return SolveLinear(b, c), nil
	}
	disc := numSub(numMul(bn, bn), numMul(N(4), numMul(an, cn)))
	twoA := numMul(N(2), an)
	switch disc.val.Sign() {
	case -1:
		return SolveResult{}, ErrNoSolution
	case 0:
		return SolveResult{Solutions: []Expr{numDiv(numNeg(bn), twoA)}, ExactForm: true}, nil
	}
	sq := SqrtOf(disc)
	inv := numRecip(twoA)
	x1 := shorter(MulOf(AddOf(numNeg(bn), sq), inv))
	x2 := shorter(MulOf(AddOf(numNeg(bn), MulOf(N(-1), sq)), inv))
	return SolveResult{Solutions: []Expr{x1, x2}, ExactForm: true}, nil
}

// shorter picks whichever of e and its expansion prints shorter.
func shorter(e Expr) Expr {
	x := Expand(e)
	if len(x.String()) < len(e.String()) {
		return x
	}
	return e
}

func solvePoly(p poly, varName string) (SolveResult, error) {
	roots, rest := rationalRoots(p)
	var sols []Expr
	for _, rm := range roots {
		sols = append(sols, NRat(rm.root))
	}
	exact := true
	x := S(varName)
	switch rest.degree() {
	case 1:
		sols = append(sols, NRat(new(big.Rat).Quo(new(big.Rat).Neg(rest[0]), rest[1])))
	case 2:
		if r, err := SolveQuadraticExact(NRat(rest[2]), NRat(rest[1]), NRat(rest[0])); err == nil {
			sols = append(sols, r.Solutions...)
		}
	default:
		if rest.degree() > 2 {
			r := SolveNewton(rest.expr(x), varName, 100, 1e-10, 100)
			sols = append(sols, r.Solutions...)
			exact = false
		}
	}
	if len(sols) == 0 {
		return SolveResult{}, ErrNoSolution
	}
	return SolveResult{Solutions: dedupe(sols), ExactForm: exact}, nil
}

func dedupe(sols []Expr) []Expr {
	seen := map[string]bool{}
	out := sols[:0]
	for _, s := range sols {
		if k := s.String(); !seen[k] {
			seen[k] = true
			out = append(out, s)
		}
	}
	return out
}

func newtonResult(r SolveResult) (SolveResult, error) {
	if len(r.Solutions) == 0 {
		return r, ErrNoSolution
	}
	return r, nil
}

// SolveNewton searches [-searchRange, searchRange] for real roots by Newton
// iteration from evenly spaced starting points. Roots within 1e-9 of an
// integer are snapped to it.
func SolveNewton(expr Expr, varName string, searchRange, tol float64, maxIter int) SolveResult {
	if searchRange <= 0 {
		searchRange = 100
	}
	if tol <= 0 {
		tol = 1e-10
	}
	if maxIter <= 0 {
		maxIter = 100
	}
	deriv := Diff(expr, varName)
	env := map[string]float64{}
	f := func(x float64) float64 {
		env[varName] = x
		v, ok := evalWith(expr, env)
		if !ok {
			return math.NaN()
		}
		return v
	}
	df := func(x float64) float64 {
		env[varName] = x
		v, ok := evalWith(deriv, env)
		if !ok {
			return math.NaN()
		}
		return v
	}
	var roots []float64
	for i := 0; i <= 200; i++ {
		x := -searchRange + 2*searchRange*float64(i)/200
		for iter := 0; iter < maxIter; iter++ {
			fx := f(x)
			if math.IsNaN(fx) || math.IsInf(fx, 0) {
				break
			}
			if math.Abs(fx) < tol {
				if r := math.Round(x); math.Abs(r-x) < 1e-9 {
					x = r
				}
				dup := false
				for _, r := range roots {
					if math.Abs(r-x) < 1e-6 {
						dup = true
						break
					}
				}
				if !dup && math.Abs(x) <= searchRange {
					roots = append(roots, x)
				}
				break
			}
			dfx := df(x)
			if math.IsNaN(dfx) || math.Abs(dfx) < 1e-15 {
				break
			}
			x -= fx / dfx
			if math.Abs(x) > searchRange*10 {
				break
			}
		}
	}
	sort.Float64s(roots)
	sols := make([]Expr, len(roots))
	for i, r := range roots {
		if r == math.Trunc(r) {
			sols[i] = N(int64(r))
		} else {
			sols[i] = NFloat(r)
		}
	}
	return SolveResult{Solutions: sols}
}

// evalWith approximates e with the free symbols bound by env.
func evalWith(e Expr, env map[string]float64) (float64, bool) {
	switch v := e.(type) {
	case *Sym:
		x, ok := env[v.name]
		return x, ok
	case *Add:
		acc := 0.0
		for _, t := range v.terms {
			x, ok := evalWith(t, env)
			if !ok {
				return 0, false
			}
			acc += x
		}
		return acc, true
	case *Mul:
		acc := 1.0
		for _, f := range v.factors {
			x, ok := evalWith(f, env)
			if !ok {
				return 0, false
			}
			acc *= x
		}
		return acc, true
	case *Pow:
		b, ok1 := evalWith(v.base, env)
		x, ok2 := evalWith(v.exp, env)
		if !ok1 || !ok2 {
			return 0, false
		}
		r := math.Pow(b, x)
		return r, !math.IsNaN(r)
	case *Func:
		fn, ok := floatFuncs[v.name]
		if !ok || len(v.args) != 1 {
			return 0, false
		}
		x, ok := evalWith(v.args[0], env)
		if !ok {
			return 0, false
		}
		r := fn(x)
		return r, !math.IsNaN(r)
	}
	return e.Eval()
}
