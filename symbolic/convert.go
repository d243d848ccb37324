package symbolic

import (
	"fmt"
	"math/big"

	"github.com/njchilds90/texcas/parse"
)

type arity struct{ min, max int }

var knownFuncs = map[string]arity{
	"sin": {1, 1}, "cos": {1, 1}, "tan": {1, 1},
	"cot": {1, 1}, "sec": {1, 1}, "csc": {1, 1},
	"asin": {1, 1}, "acos": {1, 1}, "atan": {1, 1},
	"sinh": {1, 1}, "cosh": {1, 1}, "tanh": {1, 1},
	"exp": {1, 1}, "log": {1, 2}, "ln": {1, 1}, "log10": {1, 1},
	"abs": {1, 1}, "sqrt": {1, 1}, "nthRoot": {1, 2}, "factorial": {1, 1},
}

// FromNode converts a parsed CAS expression into a simplified Expr.
func FromNode(n parse.Node) (Expr, error) {
	switch n := n.(type) {
	case *parse.Number:
		r, ok := new(big.Rat).SetString(n.Text)
		if !ok {
			return nil, fmt.Errorf("Invalid syntax: malformed number %s", n.Text)
		}
		return &Num{val: r}, nil
	case *parse.Ident:
		switch n.Name {
		case "pi", "PI":
			return Pi, nil
		case "e", "E":
			return E, nil
		case "Infinity":
			return Infinity, nil
		}
		if _, ok := knownFuncs[n.Name]; ok {
			return nil, fmt.Errorf("Invalid syntax: function %s used without arguments", n.Name)
		}
		return S(n.Name), nil
	case *parse.Unary:
		x, err := FromNode(n.X)
		if err != nil {
			return nil, err
		}
		if n.Op == '-' {
			return MulOf(N(-1), x), nil
		}
		return x, nil
	case *parse.Factorial:
		x, err := FromNode(n.X)
		if err != nil {
			return nil, err
		}
		return factorialOf(x), nil
	case *parse.Binary:
		x, err := FromNode(n.X)
		if err != nil {
			return nil, err
		}
		y, err := FromNode(n.Y)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case '+':
			return AddOf(x, y), nil
		case '-':
			return AddOf(x, MulOf(N(-1), y)), nil
		case '*':
			return MulOf(x, y), nil
		case '/':
			return MulOf(x, PowOf(y, N(-1))), nil
		case '^':
			return PowOf(x, y), nil
		}
		return nil, fmt.Errorf("Unexpected operator %c", n.Op)
	case *parse.Call:
		return callOf(n)
	}
	return nil, fmt.Errorf("Invalid syntax: unsupported node %T", n)
}

func callOf(n *parse.Call) (Expr, error) {
	ar, ok := knownFuncs[n.Func]
	if !ok {
		return nil, fmt.Errorf("Unknown function %s", n.Func)
	}
	if len(n.Args) < ar.min || len(n.Args) > ar.max {
		return nil, fmt.Errorf("Wrong number of arguments in function %s", n.Func)
	}
	args := make([]Expr, len(n.Args))
	for i, a := range n.Args {
		x, err := FromNode(a)
		if err != nil {
			return nil, err
		}
		args[i] = x
	}
	switch n.Func {
	case "sqrt":
		return SqrtOf(args[0]), nil
	case "nthRoot":
		if len(args) == 1 {
			return SqrtOf(args[0]), nil
		}
		return PowOf(args[0], PowOf(args[1], N(-1))), nil
	case "ln":
		return LogOf(args[0]), nil
	case "log":
		if len(args) == 1 {
			return LogOf(args[0]), nil
		}
		if isNumEqual(args[1], 10) {
			return Log10Of(args[0]), nil
		}
		return MulOf(LogOf(args[0]), PowOf(LogOf(args[1]), N(-1))), nil
	case "factorial":
		return factorialOf(args[0]), nil
	}
	return FuncOf(n.Func, args...), nil
}

func factorialOf(x Expr) Expr {
	if n, ok := x.(*Num); ok && n.IsInteger() && !n.IsNegative() && n.val.Num().IsInt64() && n.val.Num().Int64() <= 1000 {
		return &Num{val: new(big.Rat).SetInt(new(big.Int).MulRange(1, n.val.Num().Int64()))}
	}
	return funcOf("factorial", x)
}

// ParseExpr parses CAS text into a simplified Expr.
func ParseExpr(src string) (Expr, error) {
	n, err := parse.Parse(src)
	if err != nil {
		return nil, err
	}
	return FromNode(n)
}
