package parse

import (
	"fmt"
	"strconv"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokOpen
	tokClose
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int // 1-based character index
}

// SyntaxError reports a malformed CAS expression. Msg starts with one of the
// phrases the dispatcher's localizer recognises.
type SyntaxError struct {
	Msg string
	Pos int
}

func (e *SyntaxError) Error() string {
	if e.Pos <= 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s (char %d)", e.Msg, e.Pos)
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		start := i
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
			continue
		case isDigit(c) || c == '.' && i+1 < len(src) && isDigit(src[i+1]):
			for i < len(src) && isDigit(src[i]) {
				i++
			}
			if i < len(src) && src[i] == '.' {
				i++
				for i < len(src) && isDigit(src[i]) {
					i++
				}
			}
			text := src[start:i]
			if _, err := strconv.ParseFloat(text, 64); err != nil {
				return nil, &SyntaxError{Msg: "Invalid syntax: malformed number " + text, Pos: start + 1}
			}
			toks = append(toks, token{kind: tokNumber, text: text, pos: start + 1})
		case isLetter(c):
			for i < len(src) && (isLetter(src[i]) || isDigit(src[i]) || src[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start + 1})
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '^' || c == '!' || c == '=':
			i++
			toks = append(toks, token{kind: tokOp, text: string(c), pos: start + 1})
		case c == '(' || c == '[':
			i++
			toks = append(toks, token{kind: tokOpen, text: string(c), pos: start + 1})
		case c == ')' || c == ']':
			i++
			toks = append(toks, token{kind: tokClose, text: string(c), pos: start + 1})
		case c == ',':
			i++
			toks = append(toks, token{kind: tokComma, text: ",", pos: start + 1})
		default:
			return nil, &SyntaxError{Msg: fmt.Sprintf("Invalid syntax: unexpected character %q", c), Pos: start + 1}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src) + 1})
	return toks, nil
}
