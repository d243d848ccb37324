// Package engine declares the capabilities a math engine can offer to the
// dispatcher. An engine implements Engine plus any subset of the capability
// interfaces; the dispatcher discovers them with type assertions.
package engine

import (
	"strconv"
)

type Engine interface {
	Name() string
}

// Value is an evaluation result: a plain number or a CAS expression.
type Value struct {
	Number   float64
	IsNumber bool
	Text     string
}

func NumberValue(f float64) Value { return Value{Number: f, IsNumber: true} }
func TextValue(s string) Value    { return Value{Text: s} }

func (v Value) String() string {
	if v.IsNumber {
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	}
	return v.Text
}

type Evaluator interface {
	Engine
	Evaluate(expr string) (Value, error)
}

type Simplifier interface {
	Engine
	Simplify(expr string) (string, error)
}

type Factorer interface {
	Engine
	Factor(expr string) (string, error)
}

type Expander interface {
	Engine
	Expand(expr string) (string, error)
}

// Solver returns the real solutions of expr = 0 as a bracketed list "[a,b]".
type Solver interface {
	Engine
	Solve(expr, variable string) (string, error)
}

type Differentiator interface {
	Engine
	Diff(expr, variable string) (string, error)
}

// Integrator returns an antiderivative without the constant of integration.
type Integrator interface {
	Engine
	Integrate(expr, variable string) (string, error)
}

// Binder holds variable bindings that later operations substitute.
type Binder interface {
	Engine
	SetVar(name, value string) error
	ClearVars()
}

// Resetter drops all engine state between operations.
type Resetter interface {
	Engine
	Reset()
}
