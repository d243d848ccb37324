package texcas

import (
	"regexp"
	"strings"
)

// ============================================================
// LaTeX → CAS
// ============================================================

// LatexToCAS rewrites LaTeX math into the infix syntax the engines parse.
// It never fails: malformed input comes back partially translated.
func LatexToCAS(latex string) string {
	s := strings.TrimSpace(latex)
	s = stripMathDelimiters(s)
	s = rewriteFractions(s)
	s = rewriteRoots(s)
	s = rewritePowers(s)
	s = rewriteSubscripts(s)
	s = rewriteFunctions(s)
	s = rewriteLogBase(s)
	s = rewriteSymbols(s)
	s = rewriteOperators(s)
	s = rewriteAbs(s)
	s = rewriteDelimiters(s)
	s = stripSpacing(s)
	s = insertImplicitMul(s)
	s = repairNames(s)
	return markProducts(collapse(s))
}

var (
	reDollar = regexp.MustCompile(`^\$\$?|\$\$?$`)
	reBrack  = regexp.MustCompile(`^\\\[|\\\]$`)
	reEnv    = regexp.MustCompile(`^\\begin\{[^}]+\}|\\end\{[^}]+\}$`)
)

func stripMathDelimiters(s string) string {
	s = reDollar.ReplaceAllString(s, "")
	s = reBrack.ReplaceAllString(s, "")
	return reEnv.ReplaceAllString(s, "")
}

// ------------------------------------------------------------
// Scanning helpers
// ------------------------------------------------------------

func isAlpha(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isNum(c byte) bool   { return c >= '0' && c <= '9' }
func isWord(c byte) bool  { return isAlpha(c) || isNum(c) || c == '_' }

func skipSpaces(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	return i
}

// commandAt reports whether the control word \name starts at i. A longer
// control word (\sqrtx is not \sqrt) does not match.
func commandAt(s string, i int, name string) bool {
	if !strings.HasPrefix(s[i:], `\`+name) {
		return false
	}
	end := i + 1 + len(name)
	return end >= len(s) || !isAlpha(s[end])
}

// matching returns the index of the delimiter closing the one at i, or -1.
func matching(s string, i int, open, close byte) int {
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// readArg reads a macro argument at i: a brace group or a single character.
// It returns the argument text and the index after it.
func readArg(s string, i int) (string, int, bool) {
	i = skipSpaces(s, i)
	if i >= len(s) {
		return "", i, false
	}
	if s[i] == '{' {
		j := matching(s, i, '{', '}')
		if j < 0 {
			return "", i, false
		}
		return s[i+1 : j], j + 1, true
	}
	if isAlpha(s[i]) || isNum(s[i]) {
		return s[i : i+1], i + 1, true
	}
	return "", i, false
}

// rewriteMacro replaces every \name occurrence by build's output. build
// receives the index just after the control word and returns the
// replacement plus where scanning resumes; ok false leaves the text alone.
func rewriteMacro(s, name string, build func(s string, i int) (string, int, bool)) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == '\\' && commandAt(s, i, name) {
			if out, next, ok := build(s, i+1+len(name)); ok {
				b.WriteString(out)
				i = next
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// ------------------------------------------------------------
// Fractions, roots, powers, subscripts
// ------------------------------------------------------------

// rewriteFractions turns \frac{A}{B} into ((A)/(B)), nested fractions
// included.
func rewriteFractions(s string) string {
	return rewriteMacro(s, "frac", func(s string, i int) (string, int, bool) {
		num, i, ok := readArg(s, i)
		if !ok {
			return "", 0, false
		}
		den, i, ok := readArg(s, i)
		if !ok {
			return "", 0, false
		}
		return "((" + rewriteFractions(num) + ")/(" + rewriteFractions(den) + "))", i, true
	})
}

// rewriteRoots handles \sqrt[n]{x} → nthRoot(x, n) and \sqrt{x} → sqrt(x).
// The degree is read before the radicand so the bracket form never falls
// through to the plain root.
func rewriteRoots(s string) string {
	return rewriteMacro(s, "sqrt", func(s string, i int) (string, int, bool) {
		i = skipSpaces(s, i)
		degree := ""
		if i < len(s) && s[i] == '[' {
			j := matching(s, i, '[', ']')
			if j < 0 {
				return "", 0, false
			}
			degree = rewriteRoots(s[i+1 : j])
			i = j + 1
		}
		arg, i, ok := readArg(s, i)
		if !ok {
			return "", 0, false
		}
		arg = rewriteRoots(arg)
		if degree != "" {
			return "nthRoot(" + arg + ", " + degree + ")", i, true
		}
		return "sqrt(" + arg + ")", i, true
	})
}

// rewritePowers turns x^{e} into x^(e) and a bare digit exponent x^2 into
// x^(2).
func rewritePowers(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '^' {
			b.WriteByte(s[i])
			continue
		}
		j := skipSpaces(s, i+1)
		switch {
		case j < len(s) && s[j] == '{':
			k := matching(s, j, '{', '}')
			if k < 0 {
				b.WriteByte('^')
				continue
			}
			b.WriteString("^(" + rewritePowers(s[j+1:k]) + ")")
			i = k
		case j < len(s) && isNum(s[j]):
			b.WriteString("^(" + s[j:j+1] + ")")
			i = j
		default:
			b.WriteByte('^')
		}
	}
	return b.String()
}

var reSubscript = regexp.MustCompile(`_\{([^{}]*)\}`)

// rewriteSubscripts strips subscript braces so x_{n} becomes the identifier
// x_n.
func rewriteSubscripts(s string) string {
	return reSubscript.ReplaceAllString(s, "_$1")
}

// ------------------------------------------------------------
// Command tables
// ------------------------------------------------------------

var functionCommands = map[string]string{
	"sin":    "sin",
	"cos":    "cos",
	"tan":    "tan",
	"cot":    "cot",
	"sec":    "sec",
	"csc":    "csc",
	"arcsin": "asin",
	"arccos": "acos",
	"arctan": "atan",
	"sinh":   "sinh",
	"cosh":   "cosh",
	"tanh":   "tanh",
	"ln":     "log",
	"log":    "log10",
	"exp":    "exp",
}

var symbolCommands = map[string]string{
	"pi":         "pi",
	"e":          "e",
	"infty":      "Infinity",
	"alpha":      "alpha",
	"beta":       "beta",
	"gamma":      "gamma",
	"delta":      "delta",
	"epsilon":    "epsilon",
	"theta":      "theta",
	"lambda":     "lambda",
	"mu":         "mu",
	"sigma":      "sigma",
	"phi":        "phi",
	"omega":      "omega",
	"rho":        "rho",
	"tau":        "tau",
	"varphi":     "phi",
	"varepsilon": "epsilon",
}

var operatorCommands = map[string]string{
	"cdot":  "*",
	"times": "*",
	"div":   "/",
	"pm":    "+/-",
}

var reCommand = regexp.MustCompile(`\\[a-zA-Z]+`)

// rewriteCommands replaces whole control words found in table, passing the
// translation and its position to emit.
func rewriteCommands(s string, table map[string]string, emit func(b *strings.Builder, s string, start, end int, to string) int) string {
	locs := reCommand.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return s
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		if loc[0] < last {
			continue
		}
		to, ok := table[s[loc[0]+1:loc[1]]]
		if !ok {
			continue
		}
		b.WriteString(s[last:loc[0]])
		last = emit(&b, s, loc[0], loc[1], to)
	}
	b.WriteString(s[last:])
	return b.String()
}

// separate keeps a name written after the builder's content from fusing
// with the token before it: a product star after a value, a space after a
// control word that a later pass still has to match.
func separate(b *strings.Builder) {
	out := b.String()
	if out == "" {
		return
	}
	c := out[len(out)-1]
	switch {
	case isAlpha(c):
		j := len(out) - 1
		for j > 0 && isAlpha(out[j-1]) {
			j--
		}
		if j > 0 && out[j-1] == '\\' {
			b.WriteByte(' ')
			return
		}
		b.WriteByte('*')
	case isNum(c) || c == ')':
		b.WriteByte('*')
	}
}

// rewriteFunctions maps function commands to CAS names. A function applied
// without parentheses (\sin x, \ln 2, \sin\theta, \sin{x}) gets them.
func rewriteFunctions(s string) string {
	return rewriteCommands(s, functionCommands, func(b *strings.Builder, s string, start, end int, to string) int {
		separate(b)
		b.WriteString(to)
		i := skipSpaces(s, end)
		switch {
		case i >= len(s):
			return i
		case s[i] == '{':
			if j := matching(s, i, '{', '}'); j > 0 {
				b.WriteString("(" + s[i+1:j] + ")")
				return j + 1
			}
		case isAlpha(s[i]) || isNum(s[i]):
			j := i
			for j < len(s) && (isWord(s[j]) || s[j] == '.') {
				j++
			}
			b.WriteString("(" + s[i:j] + ")")
			return j
		case s[i] == '\\':
			if loc := reCommand.FindStringIndex(s[i:]); loc != nil {
				if _, ok := symbolCommands[s[i+1:i+loc[1]]]; ok {
					b.WriteString("(" + s[i:i+loc[1]] + ")")
					return i + loc[1]
				}
			}
		}
		return i
	})
}

// rewriteLogBase turns log10_b(x) and log10_{b}(x), the output of \log_b(x),
// into log(x, b).
func rewriteLogBase(s string) string {
	const head = "log10_"
	var b strings.Builder
	for {
		k := strings.Index(s, head)
		if k < 0 {
			b.WriteString(s)
			return b.String()
		}
		i := k + len(head)
		var base string
		if i < len(s) && s[i] == '{' {
			if j := matching(s, i, '{', '}'); j > 0 {
				base, i = s[i+1:j], j+1
			}
		} else {
			j := i
			for j < len(s) && (isAlpha(s[j]) || isNum(s[j])) {
				j++
			}
			base, i = s[i:j], j
		}
		i = skipSpaces(s, i)
		if base == "" || i >= len(s) || s[i] != '(' {
			b.WriteString(s[:k+len(head)])
			s = s[k+len(head):]
			continue
		}
		j := matching(s, i, '(', ')')
		if j < 0 {
			b.WriteString(s[:k+len(head)])
			s = s[k+len(head):]
			continue
		}
		b.WriteString(s[:k])
		b.WriteString("log(" + s[i+1:j] + ", " + base + ")")
		s = s[j+1:]
	}
}

// rewriteSymbols maps constants and Greek letters; \e only as a whole word.
func rewriteSymbols(s string) string {
	return rewriteCommands(s, symbolCommands, func(b *strings.Builder, s string, start, end int, to string) int {
		separate(b)
		b.WriteString(to)
		return end
	})
}

func rewriteOperators(s string) string {
	return rewriteCommands(s, operatorCommands, func(b *strings.Builder, s string, start, end int, to string) int {
		b.WriteString(to)
		return end
	})
}

// ------------------------------------------------------------
// Absolute values, delimiters, spacing
// ------------------------------------------------------------

var (
	reLeftAbs = regexp.MustCompile(`\\left\|([^|]+)\\right\|`)
	reBareAbs = regexp.MustCompile(`\|([^|]+)\|`)
)

func rewriteAbs(s string) string {
	s = reLeftAbs.ReplaceAllString(s, "abs($1)")
	return reBareAbs.ReplaceAllString(s, "abs($1)")
}

var delimiterReplacer = strings.NewReplacer(
	`\left(`, "(",
	`\right)`, ")",
	`\left[`, "[",
	`\right]`, "]",
	`\left\{`, "(",
	`\right\}`, ")",
	`\left.`, "",
	`\right.`, "",
)

func rewriteDelimiters(s string) string { return delimiterReplacer.Replace(s) }

var (
	reThinSpace = regexp.MustCompile(`\\[,;:!]\s*`)
	reQuad      = regexp.MustCompile(`\\q?quad\s*`)
	reText      = regexp.MustCompile(`\\text\{[^}]*\}`)
)

func stripSpacing(s string) string {
	s = reThinSpace.ReplaceAllString(s, "")
	s = reQuad.ReplaceAllString(s, " ")
	return reText.ReplaceAllString(s, "")
}

// ------------------------------------------------------------
// Implicit multiplication and name repair
// ------------------------------------------------------------

var (
	reDigitLetter = regexp.MustCompile(`(\d)([a-zA-Z])`)
	reLetterDigit = regexp.MustCompile(`([a-zA-Z])(\d)`)
)

// insertImplicitMul puts * on every digit/letter boundary (2x → 2*x,
// x2 → x*2), between a number or a closing parenthesis and an opening one,
// and after a closing parenthesis followed by a value.
func insertImplicitMul(s string) string {
	s = insertParenMul(s)
	s = reDigitLetter.ReplaceAllString(s, "$1*$2")
	return reLetterDigit.ReplaceAllString(s, "$1*$2")
}

// insertParenMul handles 2(x), (a)(b) and (a)x. A digit run that ends an
// identifier (log10(x), x_1(t)) is a call, not a product.
func insertParenMul(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i > 0 {
			prev := s[i-1]
			switch {
			case prev == ')' && (c == '(' || isAlpha(c) || isNum(c)):
				b.WriteByte('*')
			case c == '(' && isNum(prev):
				j := i - 1
				for j > 0 && (isNum(s[j-1]) || s[j-1] == '.') {
					j--
				}
				if j == 0 || !(isAlpha(s[j-1]) || s[j-1] == '_') {
					b.WriteByte('*')
				}
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// repairedNames lists every name the earlier passes can emit. The repair
// pass undoes whatever insertImplicitMul did to them.
var repairedNames = []string{
	"nthRoot", "log10", "sqrt", "asin", "acos", "atan", "sinh", "cosh", "tanh",
	"sin", "cos", "tan", "cot", "sec", "csc", "log", "abs", "exp",
	"pi", "Infinity",
	"alpha", "beta", "gamma", "delta", "epsilon", "theta", "lambda", "mu",
	"sigma", "phi", "omega", "rho", "tau",
}

var nameRepairer = func() *strings.Replacer {
	var pairs []string
	for _, n := range repairedNames {
		if broken := insertImplicitMul(n); broken != n {
			pairs = append(pairs, broken, n)
		}
	}
	return strings.NewReplacer(pairs...)
}()

func repairNames(s string) string { return nameRepairer.Replace(s) }

// collapse joins the remaining tokens. Whitespace between two word
// characters, or after a closing parenthesis and before a value, is a
// product; other whitespace and empty braces are dropped and leftover
// grouping braces become parentheses.
func collapse(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			j := i
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
				j++
			}
			out := b.String()
			if out != "" && j < len(s) {
				last, next := out[len(out)-1], s[j]
				if isWord(last) && isWord(next) || last == ')' && (isWord(next) || next == '(') {
					b.WriteByte('*')
				}
			}
			i = j - 1
			continue
		}
		b.WriteByte(c)
	}
	s = strings.ReplaceAll(b.String(), "{}", "")
	return strings.NewReplacer("{", "(", "}", ")").Replace(s)
}

// markProducts turns a variable or constant directly followed by an
// opening parenthesis into a product: x(x+1) is x*(x+1). Names of more
// than one letter stay calls (sin(x), foo(2)) unless they name a constant.
func markProducts(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if !isAlpha(s[i]) || i > 0 && isWord(s[i-1]) {
			b.WriteByte(s[i])
			continue
		}
		j := i
		for j < len(s) && isAlpha(s[j]) {
			j++
		}
		name := s[i:j]
		b.WriteString(name)
		if j < len(s) && s[j] == '(' && (len(name) == 1 || isConstantName(name)) {
			b.WriteByte('*')
		}
		i = j - 1
	}
	return b.String()
}

func isConstantName(name string) bool {
	for _, v := range symbolCommands {
		if v == name {
			return true
		}
	}
	return false
}
