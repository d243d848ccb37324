package texcas

import "strings"

// preferredVariables override the positional pick, in this order.
var preferredVariables = []string{"x", "y", "z", "t"}

// ExtractVariable picks the variable a solve, derivative or integrate works
// in. It is a heuristic over the text, not a free-variable analysis: the
// first letter not followed by another letter is a candidate, then x, y, z
// or t win whenever they occur anywhere (inside a name like exp or theta
// included). It returns "x" when the expression has no letter at all.
func ExtractVariable(cas string) string {
	first := ""
	for i := 0; i < len(cas); i++ {
		if isAlpha(cas[i]) && (i+1 == len(cas) || !isAlpha(cas[i+1])) {
			first = cas[i : i+1]
			break
		}
	}
	if first == "" {
		return "x"
	}
	for _, v := range preferredVariables {
		if strings.Contains(cas, v) {
			return v
		}
	}
	return first
}
