// Package symbolic is an exact symbolic math kernel and the symbolic engine
// built on it.
//
// Numbers are exact rationals (math/big.Rat). Every constructor returns a
// simplified, canonically ordered expression, so two equal expressions print
// the same. String renders the infix CAS syntax read by package parse:
// fractions as (n)/(d), square roots as sqrt(x), natural log as log.
package symbolic

import (
	"errors"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// ErrDivisionByZero is raised (as a panic) by the kernel and returned as an
// error by Engine.
var ErrDivisionByZero = errors.New("Division by zero")

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	Simplify() Expr
	String() string
	Sub(varName string, value Expr) Expr
	Diff(varName string) Expr
	// Eval approximates the expression; ok is false when a free symbol
	// remains or the value is not a real number.
	Eval() (float64, bool)
}

// Equal reports structural equality of two canonical expressions.
func Equal(a, b Expr) bool { return a.String() == b.String() }

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

func F(p, q int64) *Num {
	if q == 0 {
		panic(ErrDivisionByZero)
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

func NFloat(f float64) *Num {
	r, ok := new(big.Rat).SetString(big.NewFloat(f).Text('g', 15))
	if !ok {
		r = new(big.Rat)
	}
	return &Num{val: r}
}

func NRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Eval() (float64, bool) { f, _ := n.val.Float64(); return f, true }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }

// maxExactDenom bounds the denominators printed as fractions; beyond it the
// value came from a float and prints as a decimal.
var maxExactDenom = big.NewInt(1_000_000)

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	if n.val.Denom().Cmp(maxExactDenom) > 0 {
		f, _ := n.val.Float64()
		f, _ = strconv.ParseFloat(strconv.FormatFloat(f, 'g', 10, 64), 64)
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return n.val.RatString()
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numSub(a, b *Num) *Num { return &Num{val: new(big.Rat).Sub(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic(ErrDivisionByZero)
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}
func numDiv(a, b *Num) *Num { return numMul(a, numRecip(b)) }
func numAbs(a *Num) *Num    { return &Num{val: new(big.Rat).Abs(a.val)} }
func numCmp(a, b *Num) int  { return a.val.Cmp(b.val) }

// ============================================================
// Sym: symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym             { return &Sym{name: name} }
func (s *Sym) Simplify() Expr        { return s }
func (s *Sym) String() string        { return s.name }
func (s *Sym) Eval() (float64, bool) { return 0, false }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) Sub(v string, val Expr) Expr {
	if s.name == v {
		return val
	}
	return s
}
func (s *Sym) Diff(v string) Expr {
	if s.name == v {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Const: named real constants
// ============================================================

type Const struct {
	name string
	val  float64
}

var (
	Pi       = &Const{name: "pi", val: math.Pi}
	E        = &Const{name: "e", val: math.E}
	Infinity = &Const{name: "Infinity", val: math.Inf(1)}
)

func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Eval() (float64, bool) { return c.val, true }

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Simplify flattens nested sums, folds numbers and collects like terms by
// their numeric coefficient.
func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}
	numAccum := N(0)
	coeffs := map[string]*Num{}
	rests := map[string]Expr{}
	var order []string
	for _, t := range flat {
		if v, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, v)
			continue
		}
		c, rest := extractCoefficient(t)
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			coeffs[key] = N(0)
			rests[key] = rest
		}
		coeffs[key] = numAdd(coeffs[key], c)
	}
	result := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		c := coeffs[key]
		switch {
		case c.IsZero():
		case c.IsOne():
			result = append(result, rests[key])
		default:
			result = append(result, MulOf(c, rests[key]))
		}
	}
	sortTerms(result)
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	switch len(result) {
	case 0:
		return N(0)
	case 1:
		return result[0]
	}
	return &Add{terms: result}
}

func (a *Add) String() string {
	var b strings.Builder
	for i, t := range a.terms {
		s := t.String()
		if i > 0 && !strings.HasPrefix(s, "-") {
			b.WriteByte('+')
		}
		b.WriteString(s)
	}
	return b.String()
}

func (a *Add) Sub(v string, val Expr) Expr {
	out := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		out[i] = t.Sub(v, val)
	}
	return AddOf(out...)
}

func (a *Add) Diff(v string) Expr {
	out := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		out[i] = t.Diff(v)
	}
	return AddOf(out...)
}

func (a *Add) Eval() (float64, bool) {
	acc := 0.0
	for _, t := range a.terms {
		f, ok := t.Eval()
		if !ok {
			return 0, false
		}
		acc += f
	}
	return acc, !math.IsNaN(acc)
}

func (a *Add) Terms() []Expr { return a.terms }

// sortTerms orders by descending polynomial degree, then by text.
func sortTerms(terms []Expr) {
	type keyed struct {
		e   Expr
		deg float64
		key string
	}
	ks := make([]keyed, len(terms))
	for i, t := range terms {
		_, rest := extractCoefficient(t)
		ks[i] = keyed{e: t, deg: sortDegree(rest), key: rest.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].deg != ks[j].deg {
			return ks[i].deg > ks[j].deg
		}
		return ks[i].key < ks[j].key
	})
	for i := range ks {
		terms[i] = ks[i].e
	}
}

func sortDegree(e Expr) float64 {
	switch v := e.(type) {
	case *Sym:
		return 1
	case *Pow:
		if _, ok := v.base.(*Sym); ok {
			if n, ok := v.exp.(*Num); ok {
				f, _ := n.val.Float64()
				return f
			}
		}
	case *Mul:
		d := 0.0
		for _, f := range v.factors {
			d += sortDegree(f)
		}
		return d
	}
	return 0
}

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

// Simplify flattens nested products, folds the numeric coefficient to the
// front and combines powers of a common base.
func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}
	coeff := N(1)
	exps := map[string]Expr{}
	bases := map[string]Expr{}
	var order []string
	for _, f := range flat {
		if v, ok := f.(*Num); ok {
			coeff = numMul(coeff, v)
			continue
		}
		base, exp := splitPow(f)
		key := base.String()
		if _, seen := exps[key]; !seen {
			order = append(order, key)
			bases[key] = base
			exps[key] = exp
			continue
		}
		exps[key] = AddOf(exps[key], exp)
	}
	if coeff.IsZero() {
		return N(0)
	}
	others := make([]Expr, 0, len(order))
	refold := false
	for _, key := range order {
		p := PowOf(bases[key], exps[key])
		switch v := p.(type) {
		case *Num:
			coeff = numMul(coeff, v)
			continue
		case *Mul:
			refold = true
		}
		others = append(others, p)
	}
	if refold {
		return MulOf(append([]Expr{coeff}, others...)...)
	}
	if len(others) == 0 {
		return coeff
	}

	ks := make([]struct {
		e   Expr
		key string
	}, len(others))
	for i, e := range others {
		ks[i].e, ks[i].key = e, e.String()
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].key < ks[j].key })
	for i := range ks {
		others[i] = ks[i].e
	}

	if coeff.IsOne() {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

func (m *Mul) String() string {
	coeff, rest := extractCoefficient(m)
	var factors []Expr
	if r, ok := rest.(*Mul); ok {
		factors = r.factors
	} else {
		factors = []Expr{rest}
	}
	return productString(coeff, factors)
}

func (m *Mul) Sub(v string, val Expr) Expr {
	out := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		out[i] = f.Sub(v, val)
	}
	return MulOf(out...)
}

func (m *Mul) Diff(v string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		parts := make([]Expr, 0, len(m.factors))
		parts = append(parts, fi.Diff(v))
		for j, fj := range m.factors {
			if j != i {
				parts = append(parts, fj)
			}
		}
		terms[i] = MulOf(parts...)
	}
	return AddOf(terms...)
}

func (m *Mul) Eval() (float64, bool) {
	acc := 1.0
	for _, f := range m.factors {
		v, ok := f.Eval()
		if !ok {
			return 0, false
		}
		acc *= v
	}
	return acc, !math.IsNaN(acc)
}

func (m *Mul) Factors() []Expr { return m.factors }

func splitPow(e Expr) (base, exp Expr) {
	if p, ok := e.(*Pow); ok {
		return p.base, p.exp
	}
	return e, N(1)
}

func extractCoefficient(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if coeff, ok := m.factors[0].(*Num); ok {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return coeff, rest[0]
			}
			return coeff, &Mul{factors: rest}
		}
	}
	return N(1), e
}

// productString prints coeff*factors, moving negative powers and the
// coefficient's denominator below a fraction bar.
func productString(coeff *Num, factors []Expr) string {
	sign := ""
	if coeff.IsNegative() {
		sign = "-"
		coeff = numNeg(coeff)
	}
	var num, den []string
	if coeff.val.Denom().Cmp(maxExactDenom) > 0 {
		num = append(num, coeff.String())
	} else {
		if c := coeff.val.Num(); c.Cmp(big.NewInt(1)) != 0 {
			num = append(num, c.String())
		}
		if d := coeff.val.Denom(); d.Cmp(big.NewInt(1)) != 0 {
			den = append(den, d.String())
		}
	}
	for _, f := range factors {
		if p, ok := f.(*Pow); ok {
			if n, ok := p.exp.(*Num); ok && n.IsNegative() {
				den = append(den, factorString(PowOf(p.base, numNeg(n))))
				continue
			}
		}
		num = append(num, factorString(f))
	}
	if len(num) == 0 {
		num = []string{"1"}
	}
	if len(den) == 0 {
		return sign + strings.Join(num, "*")
	}
	return sign + group(num) + "/" + group(den)
}

// group parenthesizes a product unless it is a single parenthesized factor.
func group(parts []string) string {
	if len(parts) == 1 && wrapped(parts[0]) {
		return parts[0]
	}
	return "(" + strings.Join(parts, "*") + ")"
}

func wrapped(s string) bool {
	if !strings.HasPrefix(s, "(") {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i == len(s)-1
			}
		}
	}
	return false
}

func factorString(e Expr) string {
	switch e.(type) {
	case *Add:
		return "(" + e.String() + ")"
	case *Num:
		if s := e.String(); strings.ContainsAny(s, "-/") {
			return "(" + s + ")"
		}
	}
	return e.String()
}

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expIsNum := exp.(*Num)
	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}
	if bn, ok := base.(*Num); ok {
		if bn.IsZero() {
			if expIsNum && en.IsNegative() {
				panic(ErrDivisionByZero)
			}
			if expIsNum {
				return N(0)
			}
		}
		if bn.IsOne() {
			return N(1)
		}
		if expIsNum {
			if r := numPow(bn, en); r != nil {
				return r
			}
		}
	}
	if base == E {
		return ExpOf(exp)
	}
	if inner, ok := base.(*Pow); ok {
		innerExp, innerIsNum := inner.exp.(*Num)
		evenInner := innerIsNum && innerExp.IsInteger() && innerExp.val.Num().Bit(0) == 0
		if (expIsNum && en.IsInteger()) || !evenInner {
			return PowOf(inner.base, MulOf(inner.exp, exp))
		}
	}
	if m, ok := base.(*Mul); ok && expIsNum && en.IsInteger() {
		out := make([]Expr, len(m.factors))
		for i, f := range m.factors {
			out[i] = PowOf(f, en)
		}
		return MulOf(out...)
	}
	if f, ok := base.(*Func); ok && f.name == "exp" {
		return ExpOf(MulOf(f.args[0], exp))
	}
	return &Pow{base: base, exp: exp}
}

// numPow evaluates b^e exactly when the result is rational or a reduced
// radical; nil means "leave unevaluated".
func numPow(b, e *Num) Expr {
	if e.IsInteger() {
		k := e.val.Num()
		if k.IsInt64() && abs64(k.Int64()) <= 1024 {
			n := k.Int64()
			num := new(big.Int).Exp(b.val.Num(), big.NewInt(abs64(n)), nil)
			den := new(big.Int).Exp(b.val.Denom(), big.NewInt(abs64(n)), nil)
			if n < 0 {
				num, den = den, num
			}
			if den.Sign() < 0 {
				num.Neg(num)
				den.Neg(den)
			}
			return &Num{val: new(big.Rat).SetFrac(num, den)}
		}
		return nil
	}
	q := e.val.Denom()
	if !q.IsInt64() || q.Int64() > 16 {
		return nil
	}
	root := q.Int64()
	pexp := new(big.Rat).SetInt(e.val.Num())
	if b.IsNegative() {
		if root%2 == 0 {
			return nil
		}
		// real odd root of a negative number
		r := numPow(numNeg(b), e)
		if r == nil {
			return nil
		}
		if e.val.Num().Bit(0) == 1 {
			return MulOf(N(-1), r)
		}
		return r
	}
	if !b.IsInteger() {
		num, den := &Num{val: new(big.Rat).SetInt(b.val.Num())}, &Num{val: new(big.Rat).SetInt(b.val.Denom())}
		rn, rd := numPow(num, e), numPow(den, e)
		if rn == nil && rd == nil {
			return nil
		}
		if rn == nil {
			rn = &Pow{base: num, exp: e}
		}
		if rd == nil {
			rd = &Pow{base: den, exp: e}
		}
		return MulOf(rn, PowOf(rd, N(-1)))
	}
	if e.val.Sign() < 0 || e.val.Cmp(big.NewRat(1, 1)) > 0 {
		// b^(p/q) = b^floor(p/q) * b^frac
		fl := new(big.Int).Div(e.val.Num(), e.val.Denom())
		frac := new(big.Rat).Sub(e.val, new(big.Rat).SetInt(fl))
		ip := numPow(b, &Num{val: new(big.Rat).SetInt(fl)})
		if ip == nil {
			return nil
		}
		return MulOf(ip, PowOf(b, &Num{val: frac}))
	}
	k, m := extractRoot(b.val.Num(), root)
	if k.Cmp(big.NewInt(1)) == 0 {
		return nil
	}
	outer := numPow(&Num{val: new(big.Rat).SetInt(k)}, &Num{val: pexp})
	if m.Cmp(big.NewInt(1)) == 0 {
		return outer
	}
	return MulOf(outer, &Pow{base: &Num{val: new(big.Rat).SetInt(m)}, exp: e})
}

// extractRoot writes n = k^q * m with k maximal (by trial division up to a
// bound).
func extractRoot(n *big.Int, q int64) (k, m *big.Int) {
	k, m = big.NewInt(1), new(big.Int).Set(n)
	if !n.IsInt64() || n.Int64() > 1e12 {
		return k, m
	}
	v := n.Int64()
	kv := int64(1)
	for d := int64(2); d <= 100000; d++ {
		dq := int64(1)
		overflow := false
		for i := int64(0); i < q; i++ {
			dq *= d
			if dq > v {
				overflow = true
				break
			}
		}
		if overflow {
			break
		}
		for v%dq == 0 {
			v /= dq
			kv *= d
		}
	}
	return big.NewInt(kv), big.NewInt(v)
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func (p *Pow) String() string {
	if n, ok := p.exp.(*Num); ok {
		if n.IsNegative() {
			return productString(N(1), []Expr{p})
		}
		if n.val.Num().Cmp(big.NewInt(1)) == 0 && !n.IsInteger() {
			q := n.val.Denom()
			if q.Cmp(big.NewInt(2)) == 0 {
				return "sqrt(" + p.base.String() + ")"
			}
			return "nthRoot(" + p.base.String() + "," + q.String() + ")"
		}
	}
	base := p.base.String()
	switch v := p.base.(type) {
	case *Sym, *Const, *Func:
	case *Num:
		if v.IsNegative() || !v.IsInteger() {
			base = "(" + base + ")"
		}
	default:
		base = "(" + base + ")"
	}
	exp := p.exp.String()
	if len(exp) != 1 {
		exp = "(" + exp + ")"
	}
	return base + "^" + exp
}

func (p *Pow) Sub(v string, val Expr) Expr {
	return PowOf(p.base.Sub(v, val), p.exp.Sub(v, val))
}

func (p *Pow) Diff(v string) Expr {
	du := p.base.Diff(v)
	dv := p.exp.Diff(v)
	if isZero(dv) {
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), du)
	}
	if isZero(du) {
		return MulOf(p, LogOf(p.base), dv)
	}
	logTerm := MulOf(dv, LogOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(p, AddOf(logTerm, divTerm))
}

func (p *Pow) Eval() (float64, bool) {
	b, ok1 := p.base.Eval()
	e, ok2 := p.exp.Eval()
	if !ok1 || !ok2 {
		return 0, false
	}
	r := math.Pow(b, e)
	if math.IsNaN(r) && b < 0 {
		// odd roots of negative numbers are real
		if n, ok := p.exp.(*Num); ok {
			if q := n.val.Denom(); q.IsInt64() && q.Int64()%2 == 1 {
				r = -math.Pow(-b, e)
				if n.val.Num().Bit(0) == 0 {
					r = -r
				}
			}
		}
	}
	return r, !math.IsNaN(r)
}

func (p *Pow) Base() Expr    { return p.base }
func (p *Pow) ExpExpr() Expr { return p.exp }

func isZero(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsZero()
}

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.val.Cmp(big.NewRat(v, 1)) == 0
}

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	collectSymbols(e, out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		for _, a := range v.args {
			collectSymbols(a, out)
		}
	}
}

func dependsOn(e Expr, v string) bool {
	_, ok := FreeSymbols(e)[v]
	return ok
}
