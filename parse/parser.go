package parse

import (
	"fmt"
	"strconv"
)

type parser struct {
	toks []token
	i    int
}

// Parse reads one CAS expression.
func Parse(src string) (Node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.unexpected(t)
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) isOp(ops string) (byte, bool) {
	t := p.peek()
	if t.kind != tokOp {
		return 0, false
	}
	for i := 0; i < len(ops); i++ {
		if t.text[0] == ops[i] {
			return ops[i], true
		}
	}
	return 0, false
}

func (p *parser) unexpected(t token) error {
	switch t.kind {
	case tokEOF:
		return &SyntaxError{Msg: "Unexpected end of expression", Pos: t.pos}
	case tokOp:
		return &SyntaxError{Msg: "Unexpected operator " + t.text, Pos: t.pos}
	case tokClose:
		return &SyntaxError{Msg: fmt.Sprintf("Parenthesis mismatch: unexpected %q", t.text), Pos: t.pos}
	}
	return &SyntaxError{Msg: fmt.Sprintf("Invalid syntax: unexpected %q", t.text), Pos: t.pos}
}

func (p *parser) expr() (Node, error) {
	left, err := p.mul()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.isOp("+-")
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.mul()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, X: left, Y: right}
	}
}

func (p *parser) mul() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.isOp("*/")
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, X: left, Y: right}
	}
}

func (p *parser) unary() (Node, error) {
	if op, ok := p.isOp("+-"); ok {
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, X: x}, nil
	}
	return p.pow()
}

func (p *parser) pow() (Node, error) {
	base, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if _, ok := p.isOp("^"); !ok {
		return base, nil
	}
	p.next()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: '^', X: base, Y: exp}, nil
}

func (p *parser) postfix() (Node, error) {
	n, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.isOp("!"); !ok {
			return n, nil
		}
		p.next()
		n = &Factorial{X: n}
	}
}

func (p *parser) primary() (Node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		v, _ := strconv.ParseFloat(t.text, 64)
		return &Number{Value: v, Text: t.text}, nil
	case tokIdent:
		if o := p.peek(); o.kind == tokOpen && o.text == "(" {
			p.next()
			args, err := p.args()
			if err != nil {
				return nil, err
			}
			return &Call{Func: t.text, Args: args}, nil
		}
		return &Ident{Name: t.text}, nil
	case tokOpen:
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.close(t); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, p.unexpected(t)
}

func (p *parser) args() ([]Node, error) {
	var args []Node
	if c := p.peek(); c.kind == tokClose && c.text == ")" {
		p.next()
		return args, nil
	}
	for {
		a, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		if err := p.close(token{text: "("}); err != nil {
			return nil, err
		}
		return args, nil
	}
}

func (p *parser) close(open token) error {
	want := ")"
	if open.text == "[" {
		want = "]"
	}
	t := p.peek()
	if t.kind == tokClose && t.text == want {
		p.next()
		return nil
	}
	if t.kind == tokEOF || t.kind == tokClose {
		return &SyntaxError{Msg: fmt.Sprintf("Parenthesis mismatch: %q expected", want), Pos: t.pos}
	}
	return p.unexpected(t)
}
