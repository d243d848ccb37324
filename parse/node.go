// Package parse reads the infix CAS syntax shared by the numeric and symbolic
// engines into an immutable syntax tree.
//
// The grammar is the flat notation produced by the LaTeX translator:
// numbers, identifiers (x, x_n, alpha), function calls with comma separated
// arguments, the binary operators + - * / ^, unary signs, postfix factorial
// and grouping with parentheses or brackets. There is no implicit
// multiplication; "2x" is a syntax error here.
package parse

import (
	"strings"
)

// ============================================================
// Nodes
// ============================================================

type Node interface {
	String() string
	prec() precedence
}

type precedence int

const (
	precAdd precedence = iota + 1
	precMul
	precUnary
	precPow
	precPostfix
	precAtom
)

type Number struct {
	Value float64
	Text  string // source spelling, kept for exact rational conversion
}

type Ident struct{ Name string }

type Unary struct {
	Op byte // '+' or '-'
	X  Node
}

type Binary struct {
	Op   byte // one of + - * / ^
	X, Y Node
}

type Call struct {
	Func string
	Args []Node
}

type Factorial struct{ X Node }

func (n *Number) prec() precedence    { return precAtom }
func (n *Ident) prec() precedence     { return precAtom }
func (n *Unary) prec() precedence     { return precUnary }
func (n *Call) prec() precedence      { return precAtom }
func (n *Factorial) prec() precedence { return precPostfix }

func (n *Binary) prec() precedence {
	switch n.Op {
	case '+', '-':
		return precAdd
	case '*', '/':
		return precMul
	}
	return precPow
}

func (n *Number) String() string { return n.Text }
func (n *Ident) String() string  { return n.Name }

func (n *Unary) String() string {
	return string(n.Op) + wrap(n.X, n.X.prec() < precUnary)
}

func (n *Factorial) String() string {
	return wrap(n.X, n.X.prec() < precPostfix) + "!"
}

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return n.Func + "(" + strings.Join(args, ",") + ")"
}

func (n *Binary) String() string {
	p := n.prec()
	var left, right string
	if n.Op == '^' {
		// right associative: a^b^c is a^(b^c); the exponent may carry a sign
		left = wrap(n.X, n.X.prec() <= precPow)
		right = wrap(n.Y, n.Y.prec() < precUnary)
	} else {
		left = wrap(n.X, n.X.prec() < p)
		strict := n.Op == '-' || n.Op == '/'
		right = wrap(n.Y, n.Y.prec() < p || (strict && n.Y.prec() == p))
	}
	return left + string(n.Op) + right
}

func wrap(n Node, paren bool) string {
	if paren {
		return "(" + n.String() + ")"
	}
	return n.String()
}

// Walk visits n and its children depth first. Returning false from fn stops
// the descent below the current node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch v := n.(type) {
	case *Unary:
		Walk(v.X, fn)
	case *Binary:
		Walk(v.X, fn)
		Walk(v.Y, fn)
	case *Call:
		for _, a := range v.Args {
			Walk(a, fn)
		}
	case *Factorial:
		Walk(v.X, fn)
	}
}

// Idents returns the distinct identifier names referenced by n (function
// names excluded), in first-seen order.
func Idents(n Node) []string {
	seen := map[string]bool{}
	var out []string
	Walk(n, func(c Node) bool {
		if id, ok := c.(*Ident); ok && !seen[id.Name] {
			seen[id.Name] = true
			out = append(out, id.Name)
		}
		return true
	})
	return out
}
