package texcas_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/njchilds90/texcas"
)

func TestLatexToCAS(t *testing.T) {
	cases := []struct{ in, want string }{
		{`\frac{1}{2}`, "((1)/(2))"},
		{`\frac12`, "((1)/(2))"},
		{`\frac{\frac{1}{2}}{3}`, "((((1)/(2)))/(3))"},
		{`\frac{x^{2}-1}{x-1}`, "((x^(2)-1)/(x-1))"},
		{`\sqrt[3]{x}`, "nthRoot(x,3)"},
		{`\sqrt[3]{-8}`, "nthRoot(-8,3)"},
		{`\sqrt{x}`, "sqrt(x)"},
		{`\sqrt2`, "sqrt(2)"},
		{`\sqrt{\sqrt{x}}`, "sqrt(sqrt(x))"},
		{`x^{2}`, "x^(2)"},
		{`x^2`, "x^(2)"},
		{`x^{y+1}`, "x^(y+1)"},
		{`2x+3y`, "2*x+3*y"},
		{`x_{n}+1`, "x_n+1"},
		{`x_{1}`, "x_1"},
		{`\sin(x)`, "sin(x)"},
		{`\sin x`, "sin(x)"},
		{`\sin\theta`, "sin(theta)"},
		{`\arctan(x)`, "atan(x)"},
		{`\sinh(x)`, "sinh(x)"},
		{`\ln(x)`, "log(x)"},
		{`\ln 10`, "log(10)"},
		{`\log(x)`, "log10(x)"},
		{`\log x`, "log10(x)"},
		{`\log_{2}(8)`, "log(8,2)"},
		{`\log_b(x)`, "log(x,b)"},
		{`\exp(2x)`, "exp(2*x)"},
		{`\pi`, "pi"},
		{`2\pi`, "2*pi"},
		{`\pi r^2`, "pi*r^(2)"},
		{`\e^{x}`, "e^(x)"},
		{`\infty`, "Infinity"},
		{`\alpha+\beta`, "alpha+beta"},
		{`3\cdot4`, "3*4"},
		{`2\cdot\pi`, "2*pi"},
		{`a\times b`, "a*b"},
		{`6\div2`, "6/2"},
		{`x\pm1`, "x+/-1"},
		{`\left|x\right|`, "abs(x)"},
		{`|x-1|`, "abs(x-1)"},
		{`\left(x+1\right)^{2}`, "(x+1)^(2)"},
		{`2\left(x+1\right)`, "2*(x+1)"},
		{`\left. x \right.`, "x"},
		{`$$x+1$$`, "x+1"},
		{`\[x\]`, "x"},
		{`x\,+\;1`, "x+1"},
		{`\text{if } x`, "x"},
		{`x^2=4`, "x^(2)=4"},
		{`{x+1}^{2}`, "(x+1)^(2)"},
		{`5!`, "5!"},
		{`x\left(x+1\right)`, "x*(x+1)"},
		{`a(b+c)`, "a*(b+c)"},
		{`\pi(r+1)`, "pi*(r+1)"},
		{`\left(x+1\right) y`, "(x+1)*y"},
		{`\left(x+1\right) \left(x-1\right)`, "(x+1)*(x-1)"},
		{`x_{1}(t)`, "x_1(t)"},
		{`x \quad y`, "x*y"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, texcas.LatexToCAS(c.in), c.in)
	}
}

func TestLatexToCAS_NeverFails(t *testing.T) {
	for _, in := range []string{`\frac{1}{`, `\sqrt[3`, `x^{`, `\left|x`, `}{`, `\log_`, ``} {
		assert.NotPanics(t, func() { texcas.LatexToCAS(in) }, in)
	}
}

func TestCASToLatex(t *testing.T) {
	cases := []struct{ in, want string }{
		{"((1)/(2))", `\frac{1}{2}`},
		{"((((1)/(2)))/(3))", `\frac{\frac{1}{2}}{3}`},
		{"(x^2)/(2)", `\frac{x^2}{2}`},
		{"(sin(2*x))/(2)", `\frac{\sin(2 \cdot x)}{2}`},
		{"-(b)/(a)", `-\frac{b}{a}`},
		{"sin((x)/(2))", `\sin(\frac{x}{2})`},
		{"3/4", `\frac{3}{4}`},
		{"x+1/3", `x+\frac{1}{3}`},
		{"sqrt(x)", `\sqrt{x}`},
		{"2*sqrt(2)", `2 \cdot \sqrt{2}`},
		{"nthRoot(x,3)", `\sqrt[3]{x}`},
		{"x^(2)", `x^{2}`},
		{"x^(12)", `x^{12}`},
		{"sin(x)", `\sin(x)`},
		{"asin(x)", `\arcsin(x)`},
		{"sinh(x)", `\sinh(x)`},
		{"log(x)", `\ln(x)`},
		{"log10(x)", `\log(x)`},
		{"exp(x)", `\exp(x)`},
		{"pi", `\pi`},
		{"2*pi", `2 \cdot \pi`},
		{"Infinity", `\infty`},
		{"alpha*beta", `\alpha \cdot \beta`},
		{"abs(x-1)", `\left|x-1\right|`},
		{"x+/-1", `x\pm1`},
		{"[2,-2]", `2, \; -2`},
		{"[x = 2, x = -2]", `x = 2, \; x = -2`},
		{"  x  ", "x"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, texcas.CASToLatex(c.in), c.in)
	}
}

// A list item holding its own commas is split too.
func TestCASToLatex_NaiveListSplit(t *testing.T) {
	assert.Equal(t, `\ln(x, \; 2)`, texcas.CASToLatex("[log(x,2)]"))
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{`\frac{1}{2}`, `\sqrt{x}`, `x^{2}`, `\sin(x)`, `\pi`, `\sqrt[3]{x}`, `\ln(x)`, `\log(x)`, `\left|x\right|`} {
		assert.Equal(t, s, texcas.CASToLatex(texcas.LatexToCAS(s)), s)
	}
}

func TestFormatNumericResult(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{2.0000000001, "2"},
		{-3, "-3"},
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{math.Pi, `\pi`},
		{-math.Pi, `-\pi`},
		{math.Pi * 2, `2\pi`},
		{math.Pi * -3, `-3\pi`},
		{0.00001, "1.0000e-5"},
		{123456.7, "1.2346e+5"},
		{-0.00002345, "-2.3450e-5"},
		{123.456789, "123.457"},
		{0.5, "0.5"},
		{1.0 / 3, "0.333333"},
		{-0.25, "-0.25"},
		{99999.99, "100000"},
		{1e22, "1e+22"},
		{math.Inf(1), `\infty`},
		{math.Inf(-1), `-\infty`},
		{math.NaN(), "NaN"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, texcas.FormatNumericResult(c.in), "%v", c.in)
	}
}

func TestExtractVariable(t *testing.T) {
	cases := map[string]string{
		"a+b*x":         "x",
		"a+b":           "a",
		"b*y+a*z":       "y",
		"z+t":           "z",
		"2*t+k":         "t",
		"sin(a)":        "n",
		"log(b)+1":      "g",
		"2+3":           "x",
		"":              "x",
		"exp(u)":        "x",
		"theta":         "t",
		"theta^(2)":     "t",
		"sin(theta)":    "t",
		"alpha^(2)+tau": "t",
		"alpha":         "a",
		"2*alpha+beta":  "t",
		"gamma+mu":      "a",
	}
	for in, want := range cases {
		assert.Equal(t, want, texcas.ExtractVariable(in), in)
	}
}
