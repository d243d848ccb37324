// Package texcas translates between LaTeX math and the infix syntax of its
// computer algebra engines, and dispatches operations (evaluate, simplify,
// factor, expand, solve, derivative, integrate) over an ordered chain of
// engines.
//
// Basic usage:
//
//	cas := texcas.LatexToCAS(`\frac{x^{2}-1}{x-1}`) // ((x^(2)-1)/(x-1))
//	res := texcas.Perform(ctx, texcas.Simplify, `\frac{x^{2}-1}{x-1}`)
//	fmt.Println(res.OutputLatex) // x+1
package texcas

import (
	"context"
	"sync"
)

var (
	defaultMu         sync.Mutex
	defaultDispatcher *Dispatcher
)

// Perform runs op on a process-wide dispatcher with the default engines.
// Calls are serialized.
func Perform(ctx context.Context, op OperationKind, latex string) OperationResult {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultDispatcher == nil {
		defaultDispatcher = NewDispatcher()
	}
	return defaultDispatcher.Perform(ctx, op, latex)
}
