package symbolic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/texcas/parse"
	"github.com/njchilds90/texcas/symbolic"
)

func newEngine(t *testing.T) *symbolic.Engine {
	t.Helper()
	cache, err := parse.NewCache(16)
	require.NoError(t, err)
	return symbolic.NewEngine(cache)
}

func TestEngine_Simplify(t *testing.T) {
	e := newEngine(t)
	cases := map[string]string{
		"x+x":               "2*x",
		"sin(x)^2+cos(x)^2": "1",
		"((x^2-1))/((x-1))": "x+1",
		"(x+1)^2-x^2":       "2*x+1",
		"2*3+x-x":           "6",
		"sqrt(8)":           "2*sqrt(2)",
		"x^-1":              "(1)/(x)",
	}
	for src, want := range cases {
		got, err := e.Simplify(src)
		require.NoError(t, err, src)
		assert.Equal(t, want, got, src)
	}
}

func TestEngine_SimplifyDivisionByZero(t *testing.T) {
	e := newEngine(t)
	_, err := e.Simplify("1/0")
	assert.ErrorIs(t, err, symbolic.ErrDivisionByZero)
	assert.EqualError(t, err, "Division by zero")
}

func TestEngine_FactorExpand(t *testing.T) {
	e := newEngine(t)

	got, err := e.Factor("x^2-4")
	require.NoError(t, err)
	assert.Equal(t, "(x-2)*(x+2)", got)

	got, err = e.Factor("2*x^2+4*x+2")
	require.NoError(t, err)
	assert.Equal(t, "2*(x+1)^2", got)

	got, err = e.Expand("(x+1)^2")
	require.NoError(t, err)
	assert.Equal(t, "x^2+2*x+1", got)
}

func TestEngine_Solve(t *testing.T) {
	e := newEngine(t)

	got, err := e.Solve("(x^2)-(4)", "x")
	require.NoError(t, err)
	assert.Equal(t, "[2,-2]", got)

	got, err = e.Solve("x^2-2", "x")
	require.NoError(t, err)
	assert.Equal(t, "[sqrt(2),-sqrt(2)]", got)

	_, err = e.Solve("x^2+1", "x")
	assert.ErrorIs(t, err, symbolic.ErrNoSolution)
}

func TestEngine_DiffIntegrate(t *testing.T) {
	e := newEngine(t)

	got, err := e.Diff("x^3", "x")
	require.NoError(t, err)
	assert.Equal(t, "3*x^2", got)

	got, err = e.Integrate("x", "x")
	require.NoError(t, err)
	assert.Equal(t, "(x^2)/(2)", got)

	got, err = e.Integrate("cos(2*x)", "x")
	require.NoError(t, err)
	assert.Equal(t, "(sin(2*x))/(2)", got)

	_, err = e.Integrate("x*sin(x)", "x")
	assert.ErrorIs(t, err, symbolic.ErrCannotIntegrate)
}

func TestEngine_Bindings(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.SetVar("a", "2"))

	got, err := e.Simplify("a*x+a")
	require.NoError(t, err)
	assert.Equal(t, "2*x+2", got)

	require.NoError(t, e.SetVar("b", "a+1"))
	got, err = e.Simplify("b")
	require.NoError(t, err)
	assert.Equal(t, "3", got)

	e.ClearVars()
	got, err = e.Simplify("a*x+a")
	require.NoError(t, err)
	assert.Equal(t, "a*x+a", got)

	assert.Error(t, e.SetVar("c", "1+"))
}

func TestEngine_Errors(t *testing.T) {
	e := newEngine(t)

	_, err := e.Evaluate("foo(x)")
	assert.EqualError(t, err, "Unknown function foo")

	_, err = e.Evaluate("sin(x,y)")
	assert.EqualError(t, err, "Wrong number of arguments in function sin")

	_, err = e.Simplify("sin^(2)*(x)+cos^(2)*(x)")
	assert.EqualError(t, err, "Invalid syntax: function sin used without arguments")

	_, err = e.Evaluate("1+")
	var se *parse.SyntaxError
	assert.ErrorAs(t, err, &se)
}
