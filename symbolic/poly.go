package symbolic

import (
	"math/big"
	"sort"
)

// ============================================================
// Polynomial utilities
// ============================================================

type PolyCoeffsResult map[int]Expr

// PolyCoeffs returns the coefficients of expr, expanded, as a polynomial in
// varName. ok is false when varName occurs other than in non-negative integer
// powers.
func PolyCoeffs(expr Expr, varName string) (PolyCoeffsResult, bool) {
	out := PolyCoeffsResult{}
	if !extractCoeffs(Expand(expr), varName, out) {
		return nil, false
	}
	return out, true
}

func extractCoeffs(e Expr, varName string, out PolyCoeffsResult) bool {
	if !dependsOn(e, varName) {
		addCoeff(out, 0, e)
		return true
	}
	switch v := e.(type) {
	case *Sym:
		addCoeff(out, 1, N(1))
		return true
	case *Pow:
		d, ok := monomialDegree(v, varName)
		if !ok {
			return false
		}
		addCoeff(out, d, N(1))
		return true
	case *Mul:
		deg := 0
		var coeffFactors []Expr
		for _, f := range v.factors {
			if !dependsOn(f, varName) {
				coeffFactors = append(coeffFactors, f)
				continue
			}
			d, ok := monomialDegree(f, varName)
			if !ok {
				return false
			}
			deg += d
		}
		addCoeff(out, deg, MulOf(coeffFactors...))
		return true
	case *Add:
		for _, t := range v.terms {
			if !extractCoeffs(t, varName, out) {
				return false
			}
		}
		return true
	}
	return false
}

func monomialDegree(e Expr, varName string) (int, bool) {
	switch v := e.(type) {
	case *Sym:
		return 1, v.name == varName
	case *Pow:
		sym, ok := v.base.(*Sym)
		if !ok || sym.name != varName {
			return 0, false
		}
		n, ok := v.exp.(*Num)
		if !ok || !n.IsInteger() || n.IsNegative() || !n.val.Num().IsInt64() {
			return 0, false
		}
		return int(n.val.Num().Int64()), true
	}
	return 0, false
}

func addCoeff(out PolyCoeffsResult, deg int, val Expr) {
	if existing, ok := out[deg]; ok {
		out[deg] = AddOf(existing, val)
	} else {
		out[deg] = val.Simplify()
	}
}

// Degree returns the polynomial degree of expr in varName, or -1 when expr is
// not a polynomial in it.
func Degree(expr Expr, varName string) int {
	coeffs, ok := PolyCoeffs(expr, varName)
	if !ok {
		return -1
	}
	deg := 0
	for d, c := range coeffs {
		if d > deg && !isZero(c) {
			deg = d
		}
	}
	return deg
}

// Collect groups terms by descending powers of varName.
func Collect(expr Expr, varName string) Expr {
	coeffs, ok := PolyCoeffs(expr, varName)
	if !ok {
		return expr.Simplify()
	}
	degrees := make([]int, 0, len(coeffs))
	for d := range coeffs {
		degrees = append(degrees, d)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(degrees)))
	x := S(varName)
	terms := make([]Expr, 0, len(degrees))
	for _, d := range degrees {
		terms = append(terms, MulOf(coeffs[d], PowOf(x, N(int64(d)))))
	}
	return AddOf(terms...)
}

// ============================================================
// Dense rational polynomials (coefficient i multiplies x^i)
// ============================================================

type poly []*big.Rat

// ratPoly converts coefficients to a dense polynomial; ok is false if any
// coefficient is not a number.
func ratPoly(coeffs PolyCoeffsResult) (poly, bool) {
	deg := 0
	for d := range coeffs {
		if d > deg {
			deg = d
		}
	}
	p := make(poly, deg+1)
	for i := range p {
		p[i] = new(big.Rat)
	}
	for d, c := range coeffs {
		n, ok := c.(*Num)
		if !ok {
			return nil, false
		}
		p[d].Set(n.val)
	}
	return p.trim(), true
}

func (p poly) trim() poly {
	for len(p) > 1 && p[len(p)-1].Sign() == 0 {
		p = p[:len(p)-1]
	}
	return p
}

func (p poly) degree() int {
	if len(p) == 1 && p[0].Sign() == 0 {
		return -1
	}
	return len(p) - 1
}

func (p poly) lead() *big.Rat { return p[len(p)-1] }

func (p poly) eval(x *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for i := len(p) - 1; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, p[i])
	}
	return acc
}

// divmod is polynomial long division.
func (p poly) divmod(d poly) (q, r poly) {
	r = make(poly, len(p))
	for i := range p {
		r[i] = new(big.Rat).Set(p[i])
	}
	dd := d.degree()
	if dd < 0 {
		panic(ErrDivisionByZero)
	}
	if len(p)-1 < dd {
		return poly{new(big.Rat)}, r.trim()
	}
	q = make(poly, len(p)-dd)
	for i := range q {
		q[i] = new(big.Rat)
	}
	for i := len(p) - 1; i >= dd; i-- {
		if r[i].Sign() == 0 {
			continue
		}
		c := new(big.Rat).Quo(r[i], d.lead())
		q[i-dd] = c
		for j := 0; j <= dd; j++ {
			r[i-dd+j].Sub(r[i-dd+j], new(big.Rat).Mul(c, d[j]))
		}
	}
	if dd == 0 {
		return q.trim(), poly{new(big.Rat)}
	}
	return q.trim(), r[:dd].trim()
}

func (p poly) monic() poly {
	out := make(poly, len(p))
	for i := range p {
		out[i] = new(big.Rat).Quo(p[i], p.lead())
	}
	return out
}

func polyGCD(a, b poly) poly {
	for b.degree() >= 0 {
		_, r := a.divmod(b)
		a, b = b, r
	}
	return a.monic()
}

func (p poly) expr(x Expr) Expr {
	terms := make([]Expr, 0, len(p))
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Sign() != 0 {
			terms = append(terms, MulOf(NRat(p[i]), PowOf(x, N(int64(i)))))
		}
	}
	return AddOf(terms...)
}

// primitive scales p to coprime integer coefficients with a positive leading
// coefficient and returns the factor taken out: p = content * prim.
func (p poly) primitive() (content *big.Rat, prim poly) {
	lcm := big.NewInt(1)
	for _, c := range p {
		d := c.Denom()
		g := new(big.Int).GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, new(big.Int).Quo(d, g))
	}
	ints := make([]*big.Int, len(p))
	gcd := new(big.Int)
	for i, c := range p {
		v := new(big.Int).Mul(c.Num(), new(big.Int).Quo(lcm, c.Denom()))
		ints[i] = v
		gcd.GCD(nil, nil, gcd, new(big.Int).Abs(v))
	}
	if gcd.Sign() == 0 {
		gcd.SetInt64(1)
	}
	if p.lead().Sign() < 0 {
		gcd.Neg(gcd)
	}
	prim = make(poly, len(p))
	for i, v := range ints {
		prim[i] = new(big.Rat).SetInt(new(big.Int).Quo(v, gcd))
	}
	return new(big.Rat).SetFrac(gcd, lcm), prim
}

type rootMult struct {
	root *big.Rat
	mult int
}

// maxRootSearch bounds the constant and leading coefficients whose divisors
// are enumerated as rational root candidates.
const maxRootSearch = 1_000_000_000

// rationalRoots finds every rational root of p with its multiplicity and
// returns the quotient left after dividing them out. Zero roots come first.
func rationalRoots(p poly) ([]rootMult, poly) {
	var roots []rootMult
	zeros := 0
	for len(p) > 1 && p[0].Sign() == 0 {
		p = p[1:]
		zeros++
	}
	if zeros > 0 {
		roots = append(roots, rootMult{root: new(big.Rat), mult: zeros})
	}
	if p.degree() < 1 {
		return roots, p
	}
	_, prim := p.primitive()
	a0, an := new(big.Int).Abs(prim[0].Num()), new(big.Int).Abs(prim.lead().Num())
	if !a0.IsInt64() || !an.IsInt64() || a0.Int64() > maxRootSearch || an.Int64() > maxRootSearch {
		return roots, p
	}
	ps, qs := divisors(a0.Int64()), divisors(an.Int64())
	seen := map[string]bool{}
	for _, num := range ps {
		for _, den := range qs {
			for _, sign := range []int64{1, -1} {
				r := big.NewRat(sign*num, den)
				if seen[r.RatString()] {
					continue
				}
				seen[r.RatString()] = true
				mult := 0
				for p.degree() >= 1 && p.eval(r).Sign() == 0 {
					p, _ = p.divmod(poly{new(big.Rat).Neg(r), big.NewRat(1, 1)})
					mult++
				}
				if mult > 0 {
					roots = append(roots, rootMult{root: r, mult: mult})
				}
			}
		}
	}
	return roots, p
}

func divisors(n int64) []int64 {
	var small, large []int64
	for d := int64(1); d*d <= n; d++ {
		if n%d == 0 {
			small = append(small, d)
			if d*d != n {
				large = append(large, n/d)
			}
		}
	}
	for i := len(large) - 1; i >= 0; i-- {
		small = append(small, large[i])
	}
	return small
}

// ============================================================
// Symbolic Factoring
// ============================================================

// FactorResult holds the result of a factoring attempt.
type FactorResult struct {
	Factors []Expr
	Success bool
}

// Expr returns the product of the factors in their factored order.
func (r FactorResult) Expr() Expr {
	if len(r.Factors) == 1 {
		return r.Factors[0]
	}
	return &Mul{factors: r.Factors}
}

// Factor factors expr over the rationals as a polynomial in varName:
// numeric content, powers of varName, linear factors for every rational root
// (with multiplicity) and the irreducible remainder. Expressions with
// symbolic coefficients only get their numeric content taken out.
func Factor(expr Expr, varName string) FactorResult {
	expanded := Expand(expr)
	coeffs, ok := PolyCoeffs(expanded, varName)
	if !ok {
		return factorContent(expanded)
	}
	p, ok := ratPoly(coeffs)
	if !ok || p.degree() < 1 {
		return factorContent(expanded)
	}

	x := S(varName)
	roots, rest := rationalRoots(p)
	sort.SliceStable(roots, func(i, j int) bool { return roots[i].root.Cmp(roots[j].root) > 0 })

	// every printed factor is primitive; lead tracks the product of their
	// leading coefficients so the overall scale comes out exact
	lead := big.NewRat(1, 1)
	var factors []Expr
	for _, rm := range roots {
		var lin Expr = x
		if rm.root.Sign() != 0 {
			q := new(big.Rat).SetInt(rm.root.Denom())
			lin = AddOf(MulOf(NRat(q), x), NRat(new(big.Rat).Neg(new(big.Rat).SetInt(rm.root.Num()))))
			for i := 0; i < rm.mult; i++ {
				lead.Mul(lead, q)
			}
		}
		if rm.mult > 1 {
			lin = &Pow{base: lin, exp: N(int64(rm.mult))}
		}
		factors = append(factors, lin)
	}
	if rest.degree() >= 1 {
		_, restPrim := rest.primitive()
		lead.Mul(lead, restPrim.lead())
		factors = append(factors, restPrim.expr(x))
	}
	scale := new(big.Rat).Quo(p.lead(), lead)
	isUnit := scale.Cmp(big.NewRat(1, 1)) == 0
	if len(roots) == 0 && isUnit {
		return FactorResult{Factors: []Expr{p.expr(x)}}
	}
	if !isUnit {
		factors = append([]Expr{NRat(scale)}, factors...)
	}
	return FactorResult{Factors: factors, Success: true}
}

// factorContent takes the rational content out of a sum.
func factorContent(e Expr) FactorResult {
	add, ok := e.(*Add)
	if !ok {
		return FactorResult{Factors: []Expr{e}}
	}
	gcdNum, lcmDen := new(big.Int), big.NewInt(1)
	for _, t := range add.terms {
		c := N(1)
		if n, ok := t.(*Num); ok {
			c = n
		} else {
			c, _ = extractCoefficient(t)
		}
		gcdNum.GCD(nil, nil, gcdNum, new(big.Int).Abs(c.val.Num()))
		d := c.val.Denom()
		g := new(big.Int).GCD(nil, nil, lcmDen, d)
		lcmDen.Mul(lcmDen, new(big.Int).Quo(d, g))
	}
	content := new(big.Rat).SetFrac(gcdNum, lcmDen)
	if first, _ := extractCoefficient(add.terms[0]); first.IsNegative() {
		content.Neg(content)
	}
	if content.Cmp(big.NewRat(1, 1)) == 0 || content.Sign() == 0 {
		return FactorResult{Factors: []Expr{e}}
	}
	inner := MulOf(NRat(new(big.Rat).Inv(content)), e)
	return FactorResult{Factors: []Expr{NRat(content), Expand(inner)}, Success: true}
}
