package texcas

import (
	"fmt"
	"strings"
)

// OperationKind names what Perform does with its input.
type OperationKind string

const (
	Evaluate   OperationKind = "evaluate"
	Simplify   OperationKind = "simplify"
	Factor     OperationKind = "factor"
	Expand     OperationKind = "expand"
	Solve      OperationKind = "solve"
	Derivative OperationKind = "derivative"
	Integrate  OperationKind = "integrate"
)

var operations = []OperationKind{Evaluate, Simplify, Factor, Expand, Solve, Derivative, Integrate}

// Operations returns every operation in menu order.
func Operations() []OperationKind {
	return append([]OperationKind(nil), operations...)
}

func (op OperationKind) Valid() bool {
	for _, o := range operations {
		if o == op {
			return true
		}
	}
	return false
}

func (op OperationKind) String() string { return string(op) }

// Label returns the display name of op in locale ("fr" or "en"); unknown
// locales fall back to French.
func (op OperationKind) Label(locale string) string {
	if l, ok := catalogFor(locale).labels[op]; ok {
		return l
	}
	return string(op)
}

// ParseOperation accepts an operation name in any letter case.
func ParseOperation(s string) (OperationKind, error) {
	op := OperationKind(strings.ToLower(strings.TrimSpace(s)))
	if !op.Valid() {
		return "", &UnsupportedOperationError{Op: s}
	}
	return op, nil
}

// OperationResult is the outcome of Perform. Exactly one of OutputLatex and
// Error is set.
type OperationResult struct {
	Success     bool          `json:"success"`
	Operation   OperationKind `json:"operation"`
	InputLatex  string        `json:"inputLatex"`
	OutputLatex string        `json:"outputLatex"`
	Error       string        `json:"error,omitempty"`
}

// UnsupportedOperationError reports an operation outside the closed set.
type UnsupportedOperationError struct{ Op string }

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation %q", e.Op)
}

func (e *UnsupportedOperationError) Is(target error) bool { return target == ErrUnsupportedOperation }
