// Command texcas translates between LaTeX and CAS syntax and runs
// operations on LaTeX input.
//
// Usage:
//
//	texcas to-cas '\frac{1}{2}'
//	texcas to-latex 'sqrt(x)/2'
//	texcas run solve 'x^2=4'
//	texcas repl
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// a failed operation has already printed its message
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, red("Error: "+err.Error()))
		}
		os.Exit(1)
	}
}
