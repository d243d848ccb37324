// Package numeric is the fast float64 engine. It evaluates CAS expressions
// directly over the parse tree and only "simplifies" expressions that fold to
// an integer; anything symbolic is left for the next engine in the chain.
package numeric

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/njchilds90/texcas/engine"
	"github.com/njchilds90/texcas/parse"
)

var (
	ErrDivisionByZero = errors.New("Division by zero")
	ErrNotANumber     = errors.New("Result is not a number")
)

// Engine evaluates with a scope of bound variables. It is not safe for
// concurrent use.
type Engine struct {
	cache *parse.Cache
	scope map[string]float64
}

var (
	_ engine.Evaluator  = (*Engine)(nil)
	_ engine.Simplifier = (*Engine)(nil)
	_ engine.Binder     = (*Engine)(nil)
	_ engine.Resetter   = (*Engine)(nil)
)

// New returns an engine parsing through cache, which may be nil.
func New(cache *parse.Cache) *Engine {
	return &Engine{cache: cache, scope: map[string]float64{}}
}

func (e *Engine) Name() string { return "numeric" }

func (e *Engine) Evaluate(expr string) (engine.Value, error) {
	f, err := e.eval(expr, false)
	if err != nil {
		return engine.Value{}, err
	}
	return engine.NumberValue(f), nil
}

// Simplify folds constant expressions that land on an integer.
func (e *Engine) Simplify(expr string) (string, error) {
	f, err := e.eval(expr, true)
	if err != nil {
		return "", err
	}
	r := math.Round(f)
	if math.IsInf(f, 0) || math.Abs(f-r) >= 1e-10 {
		return "", fmt.Errorf("cannot simplify %s to an integer", expr)
	}
	return strconv.FormatFloat(r, 'f', -1, 64), nil
}

// SetVar binds name to the numeric value of expr, evaluated in the current
// scope.
func (e *Engine) SetVar(name, expr string) error {
	f, err := e.eval(expr, false)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", name, err)
	}
	e.scope[name] = f
	return nil
}

func (e *Engine) ClearVars() { clear(e.scope) }

func (e *Engine) Reset() { e.ClearVars() }

func (e *Engine) eval(expr string, strict bool) (float64, error) {
	n, err := e.cache.Parse(strings.TrimSpace(expr))
	if err != nil {
		return 0, err
	}
	ev := evaluator{scope: e.scope, strictDiv: strict}
	f, err := ev.node(n)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) {
		return 0, ErrNotANumber
	}
	return f, nil
}

type evaluator struct {
	scope     map[string]float64
	strictDiv bool
}

func (ev evaluator) node(n parse.Node) (float64, error) {
	switch n := n.(type) {
	case *parse.Number:
		return n.Value, nil
	case *parse.Ident:
		return ev.ident(n.Name)
	case *parse.Unary:
		x, err := ev.node(n.X)
		if err != nil {
			return 0, err
		}
		if n.Op == '-' {
			return -x, nil
		}
		return x, nil
	case *parse.Factorial:
		x, err := ev.node(n.X)
		if err != nil {
			return 0, err
		}
		return factorial(x), nil
	case *parse.Binary:
		return ev.binary(n)
	case *parse.Call:
		return ev.call(n)
	}
	return 0, fmt.Errorf("Invalid syntax: unsupported node %T", n)
}

func (ev evaluator) ident(name string) (float64, error) {
	if v, ok := ev.scope[name]; ok {
		return v, nil
	}
	switch name {
	case "pi", "PI":
		return math.Pi, nil
	case "e", "E":
		return math.E, nil
	case "Infinity":
		return math.Inf(1), nil
	}
	return 0, fmt.Errorf("Undefined symbol %s", name)
}

func (ev evaluator) binary(n *parse.Binary) (float64, error) {
	x, err := ev.node(n.X)
	if err != nil {
		return 0, err
	}
	y, err := ev.node(n.Y)
	if err != nil {
		return 0, err
	}
	switch n.Op {
	case '+':
		return x + y, nil
	case '-':
		return x - y, nil
	case '*':
		return x * y, nil
	case '/':
		if y == 0 && ev.strictDiv {
			return 0, ErrDivisionByZero
		}
		return x / y, nil
	case '^':
		return math.Pow(x, y), nil
	}
	return 0, fmt.Errorf("Unexpected operator %c", n.Op)
}

var unary = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"cot":   func(x float64) float64 { return 1 / math.Tan(x) },
	"sec":   func(x float64) float64 { return 1 / math.Cos(x) },
	"csc":   func(x float64) float64 { return 1 / math.Sin(x) },
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"log10": math.Log10,
	"exp":   math.Exp,
	"sqrt":  math.Sqrt,
	"abs":   math.Abs,
	"floor": math.Floor,
	"ceil":  math.Ceil,
}

func (ev evaluator) call(n *parse.Call) (float64, error) {
	args := make([]float64, len(n.Args))
	for i, a := range n.Args {
		v, err := ev.node(a)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	if fn, ok := unary[n.Func]; ok {
		if err := arity(n.Func, args, 1, 1); err != nil {
			return 0, err
		}
		return fn(args[0]), nil
	}
	switch n.Func {
	case "log":
		if err := arity(n.Func, args, 1, 2); err != nil {
			return 0, err
		}
		if len(args) == 2 {
			return math.Log(args[0]) / math.Log(args[1]), nil
		}
		return math.Log(args[0]), nil
	case "nthRoot":
		if err := arity(n.Func, args, 1, 2); err != nil {
			return 0, err
		}
		root := 2.0
		if len(args) == 2 {
			root = args[1]
		}
		return nthRoot(args[0], root), nil
	case "factorial":
		if err := arity(n.Func, args, 1, 1); err != nil {
			return 0, err
		}
		return factorial(args[0]), nil
	}
	return 0, fmt.Errorf("Unknown function %s", n.Func)
}

func arity(name string, args []float64, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		return fmt.Errorf("Wrong number of arguments in function %s (%d provided, %d-%d expected)", name, len(args), lo, hi)
	}
	return nil
}

// nthRoot keeps real roots of negative radicands for odd integer degrees.
func nthRoot(x, n float64) float64 {
	if x < 0 && n == math.Trunc(n) && math.Mod(n, 2) != 0 {
		return -math.Pow(-x, 1/n)
	}
	return math.Pow(x, 1/n)
}

func factorial(x float64) float64 {
	if x < 0 && x == math.Trunc(x) {
		return math.NaN()
	}
	g := math.Gamma(x + 1)
	if x == math.Trunc(x) {
		return math.Round(g)
	}
	return g
}
