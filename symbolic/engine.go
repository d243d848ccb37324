package symbolic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/njchilds90/texcas/engine"
	"github.com/njchilds90/texcas/parse"
)

// Engine exposes the kernel through the engine capability interfaces. It
// holds variable bindings substituted into every expression before the
// operation runs. It is not safe for concurrent use.
type Engine struct {
	cache    *parse.Cache
	bindings map[string]Expr
	order    []string
}

var (
	_ engine.Evaluator      = (*Engine)(nil)
	_ engine.Simplifier     = (*Engine)(nil)
	_ engine.Factorer       = (*Engine)(nil)
	_ engine.Expander       = (*Engine)(nil)
	_ engine.Solver         = (*Engine)(nil)
	_ engine.Differentiator = (*Engine)(nil)
	_ engine.Integrator     = (*Engine)(nil)
	_ engine.Binder         = (*Engine)(nil)
	_ engine.Resetter       = (*Engine)(nil)
)

// NewEngine returns an engine parsing through cache, which may be nil.
func NewEngine(cache *parse.Cache) *Engine {
	return &Engine{cache: cache, bindings: map[string]Expr{}}
}

func (e *Engine) Name() string { return "symbolic" }

func (e *Engine) Evaluate(expr string) (engine.Value, error) {
	s, err := e.run(expr, func(x Expr) (Expr, error) { return DeepSimplify(x), nil })
	if err != nil {
		return engine.Value{}, err
	}
	return engine.TextValue(s), nil
}

// Simplify returns the shorter of the simplified form and its expansion,
// after cancelling common polynomial factors.
func (e *Engine) Simplify(expr string) (string, error) {
	return e.run(expr, func(x Expr) (Expr, error) {
		s := DeepSimplify(x)
		if v, ok := mainVariable(s); ok {
			s = Cancel(s, v)
		}
		if ex := DeepSimplify(Expand(s)); len(ex.String()) < len(s.String()) {
			return ex, nil
		}
		return s, nil
	})
}

func (e *Engine) Factor(expr string) (string, error) {
	return e.run(expr, func(x Expr) (Expr, error) {
		v, ok := mainVariable(x)
		if !ok {
			return x, nil
		}
		return Factor(x, v).Expr(), nil
	})
}

func (e *Engine) Expand(expr string) (string, error) {
	return e.run(expr, func(x Expr) (Expr, error) { return Expand(x), nil })
}

// Solve returns the real roots of expr = 0 as "[r1,r2,...]".
func (e *Engine) Solve(expr, variable string) (string, error) {
	var sols []Expr
	_, err := e.run(expr, func(x Expr) (Expr, error) {
		r, err := Solve(x, variable)
		sols = r.Solutions
		return x, err
	})
	if err != nil {
		return "", err
	}
	parts := make([]string, len(sols))
	for i, s := range sols {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, ",") + "]", nil
}

func (e *Engine) Diff(expr, variable string) (string, error) {
	return e.run(expr, func(x Expr) (Expr, error) {
		return DeepSimplify(Diff(x, variable)), nil
	})
}

func (e *Engine) Integrate(expr, variable string) (string, error) {
	return e.run(expr, func(x Expr) (Expr, error) {
		r, ok := Integrate(x, variable)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrCannotIntegrate, x)
		}
		return r, nil
	})
}

// SetVar binds name to an expression; later bindings may refer to earlier
// ones.
func (e *Engine) SetVar(name, value string) (err error) {
	defer recoverInto(&err)
	x, err := e.parse(value)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", name, err)
	}
	if _, seen := e.bindings[name]; !seen {
		e.order = append(e.order, name)
	}
	e.bindings[name] = x
	return nil
}

func (e *Engine) ClearVars() {
	clear(e.bindings)
	e.order = e.order[:0]
}

func (e *Engine) Reset() { e.ClearVars() }

func (e *Engine) parse(src string) (Expr, error) {
	n, err := e.cache.Parse(strings.TrimSpace(src))
	if err != nil {
		return nil, err
	}
	x, err := FromNode(n)
	if err != nil {
		return nil, err
	}
	for i := len(e.order) - 1; i >= 0; i-- {
		name := e.order[i]
		x = Sub(x, name, e.bindings[name])
	}
	return x, nil
}

// run parses src, applies op and prints the result. Kernel panics carrying
// an error (division by zero and friends) come back as that error.
func (e *Engine) run(src string, op func(Expr) (Expr, error)) (out string, err error) {
	defer recoverInto(&err)
	x, err := e.parse(src)
	if err != nil {
		return "", err
	}
	r, err := op(x)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

func recoverInto(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if e, ok := r.(error); ok {
		*err = e
		return
	}
	*err = fmt.Errorf("symbolic: %v", r)
}

// mainVariable picks the variable a univariate operation works in: x, y, z
// or t when present, else the first free symbol alphabetically.
func mainVariable(x Expr) (string, bool) {
	free := FreeSymbols(x)
	if len(free) == 0 {
		return "", false
	}
	for _, v := range []string{"x", "y", "z", "t"} {
		if _, ok := free[v]; ok {
			return v, true
		}
	}
	names := make([]string, 0, len(free))
	for n := range free {
		names = append(names, n)
	}
	sort.Strings(names)
	return names[0], true
}

// Sub substitutes value for varName and simplifies.
func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

// Diff differentiates expr with respect to varName.
func Diff(expr Expr, varName string) Expr {
	return expr.Diff(varName).Simplify()
}
