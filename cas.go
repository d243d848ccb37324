package texcas

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ============================================================
// CAS → LaTeX
// ============================================================

// SolutionSeparator joins the items of a result list.
const SolutionSeparator = `, \; `

// CASToLatex rewrites engine output into LaTeX for display. A bracketed
// list such as "[2,-2]" is split on every comma (nested commas included)
// and each item translated on its own.
func CASToLatex(cas string) string {
	s := strings.TrimSpace(cas)
	if items, ok := splitList(s); ok {
		out := make([]string, len(items))
		for i, item := range items {
			out[i] = CASToLatex(item)
		}
		return strings.Join(out, SolutionSeparator)
	}
	s = convertFractions(s)
	s = convertRoots(s)
	s = convertPowers(s)
	s = convertNames(s)
	s = strings.ReplaceAll(s, "*", ` \cdot `)
	s = strings.ReplaceAll(s, "+/-", `\pm`)
	s = convertAbs(s)
	return strings.Join(strings.Fields(s), " ")
}

func splitList(s string) ([]string, bool) {
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, false
	}
	items := strings.Split(s[1:len(s)-1], ",")
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	return items, true
}

// ------------------------------------------------------------
// Fractions
// ------------------------------------------------------------

var reIntRatio = regexp.MustCompile(`(^|[^\d.])(\d+)/(\d+)`)

// convertFractions rewrites (a)/(b) as \frac{a}{b} until none is left, then
// bare integer ratios 3/4.
func convertFractions(s string) string {
	for {
		next := convertFraction(s)
		if next == s {
			break
		}
		s = next
	}
	s = reIntRatio.ReplaceAllString(s, `$1\frac{$2}{$3}`)
	return unwrapFractions(s)
}

// convertFraction rewrites the first (a)/(b) whose groups are not function
// call arguments.
func convertFraction(s string) string {
	for from := 0; ; {
		k := strings.Index(s[from:], ")/(")
		if k < 0 {
			return s
		}
		k += from
		open := openingParen(s, k)
		close := matching(s, k+2, '(', ')')
		if open < 0 || close < 0 || (open > 0 && isWord(s[open-1])) {
			from = k + 1
			continue
		}
		num := convertFractions(s[open+1 : k])
		den := convertFractions(s[k+3 : close])
		return s[:open] + `\frac{` + num + `}{` + den + `}` + s[close+1:]
	}
}

// openingParen returns the index of the parenthesis closed at i, or -1.
func openingParen(s string, i int) int {
	depth := 0
	for j := i; j >= 0; j-- {
		switch s[j] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// unwrapFractions drops a parenthesis pair that holds exactly one \frac
// and is neither a call's argument list nor raised to a power.
func unwrapFractions(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != '(' || !strings.HasPrefix(s[i+1:], `\frac{`) || (i > 0 && isWord(s[i-1])) {
			continue
		}
		end := fracEnd(s, i+1)
		if end < 0 || end >= len(s) || s[end] != ')' {
			continue
		}
		if end+1 < len(s) && s[end+1] == '^' {
			continue
		}
		s = s[:i] + s[i+1:end] + s[end+1:]
		i--
	}
	return s
}

// fracEnd returns the index just past the \frac{..}{..} starting at i.
func fracEnd(s string, i int) int {
	j := i + len(`\frac`)
	for n := 0; n < 2; n++ {
		if j >= len(s) || s[j] != '{' {
			return -1
		}
		k := matching(s, j, '{', '}')
		if k < 0 {
			return -1
		}
		j = k + 1
	}
	return j
}

// ------------------------------------------------------------
// Calls: sqrt, nthRoot, abs
// ------------------------------------------------------------

// rewriteCall replaces every call name(args) not preceded by a word
// character, innermost arguments first.
func rewriteCall(s, name string, build func(args []string) string) string {
	var b strings.Builder
	for {
		k := strings.Index(s, name+"(")
		if k < 0 {
			b.WriteString(s)
			return b.String()
		}
		open := k + len(name)
		end := matching(s, open, '(', ')')
		if end < 0 || (k > 0 && (isWord(s[k-1]) || s[k-1] == '\\')) {
			b.WriteString(s[:open])
			s = s[open:]
			continue
		}
		args := splitArgs(s[open+1 : end])
		for i := range args {
			args[i] = rewriteCall(args[i], name, build)
		}
		b.WriteString(s[:k])
		b.WriteString(build(args))
		s = s[end+1:]
	}
}

// splitArgs splits on top-level commas.
func splitArgs(s string) []string {
	var args []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(args, strings.TrimSpace(s[start:]))
}

func convertRoots(s string) string {
	s = rewriteCall(s, "sqrt", func(args []string) string {
		return `\sqrt{` + strings.Join(args, ",") + `}`
	})
	return rewriteCall(s, "nthRoot", func(args []string) string {
		if len(args) != 2 {
			return `\sqrt{` + strings.Join(args, ",") + `}`
		}
		return `\sqrt[` + args[1] + `]{` + args[0] + `}`
	})
}

func convertAbs(s string) string {
	return rewriteCall(s, "abs", func(args []string) string {
		return `\left|` + strings.Join(args, ",") + `\right|`
	})
}

// convertPowers turns x^(e) into x^{e}.
func convertPowers(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '^' && i+1 < len(s) && s[i+1] == '(' {
			if end := matching(s, i+1, '(', ')'); end > 0 {
				b.WriteString("^{" + convertPowers(s[i+2:end]) + "}")
				i = end
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// ------------------------------------------------------------
// Names
// ------------------------------------------------------------

// latexNames inverts the LaTeX→CAS command tables; log is the natural
// logarithm and log10 the common one.
var latexNames = map[string]string{
	"sin":      `\sin`,
	"cos":      `\cos`,
	"tan":      `\tan`,
	"cot":      `\cot`,
	"sec":      `\sec`,
	"csc":      `\csc`,
	"asin":     `\arcsin`,
	"acos":     `\arccos`,
	"atan":     `\arctan`,
	"sinh":     `\sinh`,
	"cosh":     `\cosh`,
	"tanh":     `\tanh`,
	"log":      `\ln`,
	"log10":    `\log`,
	"exp":      `\exp`,
	"pi":       `\pi`,
	"Infinity": `\infty`,
	"alpha":    `\alpha`,
	"beta":     `\beta`,
	"gamma":    `\gamma`,
	"delta":    `\delta`,
	"epsilon":  `\epsilon`,
	"theta":    `\theta`,
	"lambda":   `\lambda`,
	"mu":       `\mu`,
	"sigma":    `\sigma`,
	"phi":      `\phi`,
	"omega":    `\omega`,
	"rho":      `\rho`,
	"tau":      `\tau`,
}

var reName = regexp.MustCompile(`\\?[a-zA-Z][a-zA-Z0-9]*`)

// convertNames substitutes every identifier in one pass; control words
// already emitted (\frac, \sqrt) are left alone.
func convertNames(s string) string {
	return reName.ReplaceAllStringFunc(s, func(w string) string {
		if w[0] == '\\' {
			return w
		}
		if to, ok := latexNames[w]; ok {
			return to
		}
		return w
	})
}

// ============================================================
// Numbers
// ============================================================

// FormatNumericResult renders an evaluated number: integers within 1e-10,
// then multiples of pi, then exponential notation outside
// [1e-4, 1e5], else six significant figures.
func FormatNumericResult(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return `\infty`
	case math.IsInf(v, -1):
		return `-\infty`
	}
	if r := jsRound(v); math.Abs(v-r) < 1e-10 {
		return jsNumber(r)
	}
	if k := v / math.Pi; math.Abs(k-jsRound(k)) < 1e-10 {
		switch m := jsRound(k); m {
		case 1:
			return `\pi`
		case -1:
			return `-\pi`
		default:
			return jsNumber(m) + `\pi`
		}
	}
	if a := math.Abs(v); a < 1e-4 || a > 1e5 {
		return toExponential(v, 4)
	}
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 6, 64), 64)
	return jsNumber(r)
}

// jsRound rounds half up, toward positive infinity.
func jsRound(v float64) float64 { return math.Floor(v + 0.5) }

// jsNumber prints v the way a JavaScript number converts to a string.
func jsNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	if a := math.Abs(v); a >= 1e21 || a < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		return trimExponent(s)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// toExponential prints v with digits fractional digits and an unpadded
// signed exponent: 1.0000e-5.
func toExponential(v float64, digits int) string {
	return trimExponent(strconv.FormatFloat(v, 'e', digits, 64))
}

func trimExponent(s string) string {
	k := strings.IndexByte(s, 'e')
	if k < 0 {
		return s
	}
	mant, exp := s[:k], s[k+1:]
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	return mant + "e" + sign + exp
}
