package symbolic

import (
	"errors"
	"math"
	"strings"
)

// ErrNotDifferentiable is raised for functions without a derivative rule.
var ErrNotDifferentiable = errors.New("Unable to differentiate")

// ============================================================
// Func: named function applications
// ============================================================

type Func struct {
	name string
	args []Expr
}

func funcOf(name string, args ...Expr) *Func { return &Func{name: name, args: args} }

func SinOf(arg Expr) Expr   { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr   { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr   { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr   { return funcOf("exp", arg).Simplify() }
func LogOf(arg Expr) Expr   { return funcOf("log", arg).Simplify() }
func Log10Of(arg Expr) Expr { return funcOf("log10", arg).Simplify() }
func SqrtOf(arg Expr) Expr  { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr   { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr  { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr  { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr  { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr  { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr  { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr  { return funcOf("tanh", arg).Simplify() }

// FuncOf applies a named function, simplifying where an exact value exists.
func FuncOf(name string, args ...Expr) Expr { return funcOf(name, args...).Simplify() }

var oddFuncs = map[string]bool{"sin": true, "tan": true, "cot": true, "csc": true, "asin": true, "atan": true, "sinh": true, "tanh": true}
var evenFuncs = map[string]bool{"cos": true, "sec": true, "cosh": true, "abs": true}

func (f *Func) Simplify() Expr {
	args := make([]Expr, len(f.args))
	for i, a := range f.args {
		args[i] = a.Simplify()
	}
	if len(args) != 1 {
		return &Func{name: f.name, args: args}
	}
	arg := args[0]

	if c, rest := extractCoefficient(arg); c.IsNegative() {
		pos := MulOf(numNeg(c), rest)
		if oddFuncs[f.name] {
			return MulOf(N(-1), funcOf(f.name, pos).Simplify())
		}
		if evenFuncs[f.name] {
			return funcOf(f.name, pos).Simplify()
		}
	}

	switch f.name {
	case "sin", "tan":
		if isZero(arg) || isPiMultiple(arg) {
			return N(0)
		}
	case "asin", "atan", "sinh", "tanh":
		if isZero(arg) {
			return N(0)
		}
	case "cos":
		if isZero(arg) {
			return N(1)
		}
		if k, ok := piMultiple(arg); ok {
			if k%2 == 0 {
				return N(1)
			}
			return N(-1)
		}
	case "cosh":
		if isZero(arg) {
			return N(1)
		}
	case "acos":
		if isNumEqual(arg, 1) {
			return N(0)
		}
	case "log":
		if isNumEqual(arg, 1) {
			return N(0)
		}
		if arg == E {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.args[0]
		}
		if n, ok := arg.(*Num); ok && n.IsZero() {
			panic(ErrDivisionByZero)
		}
	case "log10":
		if n, ok := arg.(*Num); ok && n.IsInteger() && n.val.Sign() > 0 {
			s := n.val.Num().String()
			if strings.Trim(s[1:], "0") == "" && s[0] == '1' {
				return N(int64(len(s) - 1))
			}
		}
	case "exp":
		if isZero(arg) {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "log" {
			return inner.args[0]
		}
	case "abs":
		if n, ok := arg.(*Num); ok {
			return numAbs(n)
		}
		if arg == Pi || arg == E {
			return arg
		}
	}
	return &Func{name: f.name, args: args}
}

func piMultiple(e Expr) (int64, bool) {
	if e == Pi {
		return 1, true
	}
	c, rest := extractCoefficient(e)
	if rest == Pi && c.IsInteger() && c.val.Num().IsInt64() {
		return c.val.Num().Int64(), true
	}
	return 0, false
}

func isPiMultiple(e Expr) bool {
	_, ok := piMultiple(e)
	return ok
}

func (f *Func) String() string {
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		parts[i] = a.String()
	}
	return f.name + "(" + strings.Join(parts, ",") + ")"
}

func (f *Func) Sub(v string, val Expr) Expr {
	args := make([]Expr, len(f.args))
	for i, a := range f.args {
		args[i] = a.Sub(v, val)
	}
	return funcOf(f.name, args...).Simplify()
}

func (f *Func) Diff(v string) Expr {
	if !dependsOn(f, v) {
		return N(0)
	}
	if len(f.args) != 1 {
		panic(ErrNotDifferentiable)
	}
	u := f.args[0]
	du := u.Diff(v)
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(u)
	case "cos":
		outer = MulOf(N(-1), SinOf(u))
	case "tan":
		outer = PowOf(CosOf(u), N(-2))
	case "cot":
		outer = MulOf(N(-1), PowOf(SinOf(u), N(-2)))
	case "sec":
		outer = MulOf(FuncOf("sec", u), TanOf(u))
	case "csc":
		outer = MulOf(N(-1), FuncOf("csc", u), FuncOf("cot", u))
	case "exp":
		outer = ExpOf(u)
	case "log":
		outer = PowOf(u, N(-1))
	case "log10":
		outer = PowOf(MulOf(u, LogOf(N(10))), N(-1))
	case "abs":
		outer = MulOf(u, PowOf(AbsOf(u), N(-1)))
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(u, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(u, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(u, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(u)
	case "cosh":
		outer = SinhOf(u)
	case "tanh":
		outer = PowOf(CoshOf(u), N(-2))
	default:
		panic(ErrNotDifferentiable)
	}
	return MulOf(outer, du)
}

var floatFuncs = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"cot":   func(x float64) float64 { return 1 / math.Tan(x) },
	"sec":   func(x float64) float64 { return 1 / math.Cos(x) },
	"csc":   func(x float64) float64 { return 1 / math.Sin(x) },
	"exp":   math.Exp,
	"log":   math.Log,
	"log10": math.Log10,
	"abs":   math.Abs,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"factorial": func(x float64) float64 {
		return math.Gamma(x + 1)
	},
}

func (f *Func) Eval() (float64, bool) {
	fn, ok := floatFuncs[f.name]
	if !ok || len(f.args) != 1 {
		return 0, false
	}
	x, ok := f.args[0].Eval()
	if !ok {
		return 0, false
	}
	r := fn(x)
	return r, !math.IsNaN(r)
}

func (f *Func) FuncName() string { return f.name }
func (f *Func) Args() []Expr     { return f.args }
