package symbolic_test

import (
	"testing"

	"github.com/njchilds90/texcas/symbolic"
)

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	n := symbolic.N(42)
	if n.String() != "42" {
		t.Errorf("want 42, got %s", n.String())
	}
}

func TestNum_Rational(t *testing.T) {
	n := symbolic.F(1, 3)
	if n.String() != "1/3" {
		t.Errorf("want 1/3, got %s", n.String())
	}
}

func TestNum_FloatPrintsDecimal(t *testing.T) {
	n := symbolic.NFloat(1.4142135623730951)
	if n.String() != "1.414213562" {
		t.Errorf("want 1.414213562, got %s", n.String())
	}
}

func TestNum_Diff_IsZero(t *testing.T) {
	if s := symbolic.N(5).Diff("x").String(); s != "0" {
		t.Errorf("d/dx(5) should be 0, got %s", s)
	}
}

// ============================================================
// Sym tests
// ============================================================

func TestSym_Sub(t *testing.T) {
	x := symbolic.S("x")
	if s := symbolic.Sub(x, "x", symbolic.N(3)).String(); s != "3" {
		t.Errorf("want 3, got %s", s)
	}
	if s := symbolic.Sub(x, "y", symbolic.N(3)).String(); s != "x" {
		t.Errorf("want x, got %s", s)
	}
}

func TestSym_Diff(t *testing.T) {
	if s := symbolic.S("x").Diff("x").String(); s != "1" {
		t.Errorf("d/dx(x) should be 1, got %s", s)
	}
	if s := symbolic.S("y").Diff("x").String(); s != "0" {
		t.Errorf("d/dx(y) should be 0, got %s", s)
	}
}

// ============================================================
// Add tests
// ============================================================

func TestAdd_Simple(t *testing.T) {
	expr := symbolic.AddOf(symbolic.S("x"), symbolic.N(3))
	if expr.String() != "x+3" {
		t.Errorf("want 'x+3', got %s", expr.String())
	}
}

func TestAdd_CollapseToZero(t *testing.T) {
	expr := symbolic.AddOf(symbolic.N(1), symbolic.N(-1))
	if expr.String() != "0" {
		t.Errorf("want 0, got %s", expr.String())
	}
}

func TestAdd_LikeTerms(t *testing.T) {
	x := symbolic.S("x")
	expr := symbolic.AddOf(x, x)
	if expr.String() != "2*x" {
		t.Errorf("want '2*x', got %s", expr.String())
	}
	expr = symbolic.AddOf(symbolic.MulOf(symbolic.N(3), x), symbolic.MulOf(symbolic.N(-3), x))
	if expr.String() != "0" {
		t.Errorf("3x-3x should be 0, got %s", expr.String())
	}
}

func TestAdd_NegativeTermsPrintAsSubtraction(t *testing.T) {
	x := symbolic.S("x")
	expr := symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(-4))
	if expr.String() != "x^2-4" {
		t.Errorf("want 'x^2-4', got %s", expr.String())
	}
}

func TestAdd_Diff(t *testing.T) {
	// d/dx(x^2 + 3x + 1) = 2x + 3
	x := symbolic.S("x")
	expr := symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.MulOf(symbolic.N(3), x), symbolic.N(1))
	if s := symbolic.Diff(expr, "x").String(); s != "2*x+3" {
		t.Errorf("want 2*x+3, got %s", s)
	}
}

// ============================================================
// Mul tests
// ============================================================

func TestMul_Simple(t *testing.T) {
	expr := symbolic.MulOf(symbolic.N(3), symbolic.S("x"))
	if expr.String() != "3*x" {
		t.Errorf("want '3*x', got %s", expr.String())
	}
}

func TestMul_ZeroAndOne(t *testing.T) {
	x := symbolic.S("x")
	if s := symbolic.MulOf(symbolic.N(0), x).String(); s != "0" {
		t.Errorf("0*x should be 0, got %s", s)
	}
	if s := symbolic.MulOf(symbolic.N(1), x).String(); s != "x" {
		t.Errorf("1*x should be x, got %s", s)
	}
}

func TestMul_CombinesPowers(t *testing.T) {
	x := symbolic.S("x")
	if s := symbolic.MulOf(x, x).String(); s != "x^2" {
		t.Errorf("x*x should be x^2, got %s", s)
	}
	if s := symbolic.MulOf(x, symbolic.PowOf(x, symbolic.N(-1))).String(); s != "1" {
		t.Errorf("x/x should be 1, got %s", s)
	}
}

func TestMul_FractionPrinting(t *testing.T) {
	x := symbolic.S("x")
	if s := symbolic.MulOf(symbolic.F(1, 2), symbolic.PowOf(x, symbolic.N(2))).String(); s != "(x^2)/(2)" {
		t.Errorf("want (x^2)/(2), got %s", s)
	}
	if s := symbolic.PowOf(x, symbolic.N(-1)).String(); s != "(1)/(x)" {
		t.Errorf("want (1)/(x), got %s", s)
	}
	if s := symbolic.MulOf(symbolic.N(-1), x).String(); s != "-x" {
		t.Errorf("want -x, got %s", s)
	}
}

// ============================================================
// Pow tests
// ============================================================

func TestPow_Basics(t *testing.T) {
	x := symbolic.S("x")
	cases := []struct {
		expr symbolic.Expr
		want string
	}{
		{symbolic.PowOf(x, symbolic.N(2)), "x^2"},
		{symbolic.PowOf(x, symbolic.N(0)), "1"},
		{symbolic.PowOf(x, symbolic.N(1)), "x"},
		{symbolic.PowOf(x, symbolic.N(12)), "x^(12)"},
		{symbolic.PowOf(symbolic.N(2), symbolic.N(3)), "8"},
		{symbolic.PowOf(symbolic.N(2), symbolic.N(-2)), "1/4"},
		{symbolic.SqrtOf(x), "sqrt(x)"},
		{symbolic.PowOf(x, symbolic.F(1, 3)), "nthRoot(x,3)"},
	}
	for _, c := range cases {
		if got := c.expr.String(); got != c.want {
			t.Errorf("want %s, got %s", c.want, got)
		}
	}
}

func TestPow_Radicals(t *testing.T) {
	cases := map[string]string{
		"sqrt(16)":      "4",
		"sqrt(8)":       "2*sqrt(2)",
		"sqrt(2)^2":     "2",
		"sqrt(2)^3":     "2*sqrt(2)",
		"nthRoot(-8,3)": "-2",
		"nthRoot(27,3)": "3",
		"4^(3/2)":       "8",
	}
	for src, want := range cases {
		e, err := symbolic.ParseExpr(src)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if e.String() != want {
			t.Errorf("%s: want %s, got %s", src, want, e.String())
		}
	}
}

func TestPow_DivisionByZeroPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != symbolic.ErrDivisionByZero {
			t.Errorf("want ErrDivisionByZero panic, got %v", r)
		}
	}()
	symbolic.PowOf(symbolic.N(0), symbolic.N(-1))
}

// ============================================================
// Func tests
// ============================================================

func TestFunc_ExactValues(t *testing.T) {
	cases := map[string]string{
		"sin(0)":      "0",
		"cos(0)":      "1",
		"sin(pi)":     "0",
		"cos(2*pi)":   "1",
		"cos(pi)":     "-1",
		"log(1)":      "0",
		"log(e)":      "1",
		"log(exp(x))": "x",
		"exp(log(x))": "x",
		"log10(1000)": "3",
		"abs(-3)":     "3",
		"sin(-x)":     "-sin(x)",
		"cos(-x)":     "cos(x)",
		"e^x":         "exp(x)",
		"5!":          "120",
		"log(x,10)":   "log10(x)",
	}
	for src, want := range cases {
		e, err := symbolic.ParseExpr(src)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if e.String() != want {
			t.Errorf("%s: want %s, got %s", src, want, e.String())
		}
	}
}

func TestFunc_Diff(t *testing.T) {
	cases := map[string]string{
		"sin(x)":    "cos(x)",
		"cos(x)":    "-sin(x)",
		"exp(2*x)":  "2*exp(2*x)",
		"log(x)":    "(1)/(x)",
		"x^3":       "3*x^2",
		"sin(x^2)":  "2*cos(x^2)*x",
		"atan(x)":   "(1)/(x^2+1)",
		"5*x^2+x-7": "10*x+1",
	}
	for src, want := range cases {
		e, err := symbolic.ParseExpr(src)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if got := symbolic.Diff(e, "x").String(); got != want {
			t.Errorf("d/dx %s: want %s, got %s", src, want, got)
		}
	}
}

// ============================================================
// Simplification
// ============================================================

func TestTrigSimplify_Pythagorean(t *testing.T) {
	e, _ := symbolic.ParseExpr("sin(x)^2+cos(x)^2")
	if s := symbolic.DeepSimplify(e).String(); s != "1" {
		t.Errorf("sin^2+cos^2 should be 1, got %s", s)
	}
}

func TestExpand(t *testing.T) {
	cases := map[string]string{
		"(x+1)^2":     "x^2+2*x+1",
		"(x+1)*(x-1)": "x^2-1",
		"2*(x+3)":     "2*x+6",
		"(a+b)^2":     "2*a*b+a^2+b^2",
	}
	for src, want := range cases {
		e, _ := symbolic.ParseExpr(src)
		if got := symbolic.Expand(e).String(); got != want {
			t.Errorf("expand %s: want %s, got %s", src, want, got)
		}
	}
}

func TestCancel(t *testing.T) {
	e, _ := symbolic.ParseExpr("(x^2-1)/(x-1)")
	if s := symbolic.Cancel(e, "x").String(); s != "x+1" {
		t.Errorf("want x+1, got %s", s)
	}
}

// ============================================================
// Polynomials, factoring and solving
// ============================================================

func TestDegree(t *testing.T) {
	e, _ := symbolic.ParseExpr("3*x^4+x")
	if d := symbolic.Degree(e, "x"); d != 4 {
		t.Errorf("want 4, got %d", d)
	}
	e, _ = symbolic.ParseExpr("sin(x)")
	if d := symbolic.Degree(e, "x"); d != -1 {
		t.Errorf("want -1 for non-polynomial, got %d", d)
	}
}

func TestFactor(t *testing.T) {
	cases := map[string]string{
		"x^2-4":            "(x-2)*(x+2)",
		"x^2-2*x+1":        "(x-1)^2",
		"2*x^2+4*x+2":      "2*(x+1)^2",
		"2*x^2-x-1":        "(x-1)*(2*x+1)",
		"x^3-x":            "(x-1)*x*(x+1)",
		"x^2+1":            "x^2+1",
		"x^3-6*x^2+11*x-6": "(x-3)*(x-2)*(x-1)",
	}
	for src, want := range cases {
		e, _ := symbolic.ParseExpr(src)
		if got := symbolic.Factor(e, "x").Expr().String(); got != want {
			t.Errorf("factor %s: want %s, got %s", src, want, got)
		}
	}
}

func TestSolve(t *testing.T) {
	cases := map[string][]string{
		"2*x-4":            {"2"},
		"x^2-4":            {"2", "-2"},
		"x^2-2":            {"sqrt(2)", "-sqrt(2)"},
		"x^2-2*x+1":        {"1"},
		"x^3-6*x^2+11*x-6": {"1", "2", "3"},
		"a*x+b":            {"-(b)/(a)"},
	}
	for src, want := range cases {
		e, _ := symbolic.ParseExpr(src)
		r, err := symbolic.Solve(e, "x")
		if err != nil {
			t.Fatalf("solve %s: %v", src, err)
		}
		if len(r.Solutions) != len(want) {
			t.Fatalf("solve %s: want %v, got %v", src, want, r.Solutions)
		}
		for i, s := range r.Solutions {
			if s.String() != want[i] {
				t.Errorf("solve %s: root %d want %s, got %s", src, i, want[i], s.String())
			}
		}
	}
}

func TestSolve_NoRealSolution(t *testing.T) {
	e, _ := symbolic.ParseExpr("x^2+1")
	if _, err := symbolic.Solve(e, "x"); err != symbolic.ErrNoSolution {
		t.Errorf("want ErrNoSolution, got %v", err)
	}
}

func TestSolveNewton_Transcendental(t *testing.T) {
	e, _ := symbolic.ParseExpr("exp(x)-2")
	r, err := symbolic.Solve(e, "x")
	if err != nil || len(r.Solutions) != 1 {
		t.Fatalf("want one root, got %v (%v)", r.Solutions, err)
	}
	if s := r.Solutions[0].String(); s != "0.6931471806" {
		t.Errorf("want 0.6931471806, got %s", s)
	}
}

// ============================================================
// Integration
// ============================================================

func TestIntegrate(t *testing.T) {
	cases := map[string]string{
		"x":        "(x^2)/(2)",
		"3":        "3*x",
		"x^2+1":    "(x^3)/(3)+x",
		"(1)/(x)":  "log(abs(x))",
		"cos(2*x)": "(sin(2*x))/(2)",
		"sin(x)":   "-cos(x)",
		"exp(3*x)": "(exp(3*x))/(3)",
		"(x+1)*x":  "(x^3)/(3)+(x^2)/(2)",
		"2^x":      "(2^x)/(log(2))",
	}
	for src, want := range cases {
		e, _ := symbolic.ParseExpr(src)
		r, ok := symbolic.Integrate(e, "x")
		if !ok {
			t.Fatalf("integrate %s failed", src)
		}
		if r.String() != want {
			t.Errorf("integrate %s: want %s, got %s", src, want, r.String())
		}
	}
}

func TestIntegrate_Unsupported(t *testing.T) {
	e, _ := symbolic.ParseExpr("x*sin(x)")
	if _, ok := symbolic.Integrate(e, "x"); ok {
		t.Errorf("x*sin(x) has no rule and should fail")
	}
}
