package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/texcas"
	"github.com/njchilds90/texcas/internal/observability"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestToCAS(t *testing.T) {
	out, err := execute(t, "", "to-cas", `\frac{1}{2}`)
	require.NoError(t, err)
	assert.Equal(t, "((1)/(2))\n", out)

	out, err = execute(t, `\sqrt{x}`+"\n", "to-cas")
	require.NoError(t, err)
	assert.Equal(t, "sqrt(x)\n", out)
}

func TestToLatex(t *testing.T) {
	out, err := execute(t, "", "to-latex", "sqrt(x)/2")
	require.NoError(t, err)
	assert.Equal(t, `\sqrt{x}/2`+"\n", out)
}

func TestRun(t *testing.T) {
	out, err := execute(t, "", "run", "solve", "x^2=4")
	require.NoError(t, err)
	assert.Equal(t, `x = 2, \; x = -2`+"\n", out)

	out, err = execute(t, "", "run", "simplify", `\frac{1}{0}`)
	assert.ErrorIs(t, err, errFailed)
	assert.Equal(t, "Division par zéro\n", out)

	out, err = execute(t, "", "--locale", "en", "run", "simplify", `\frac{1}{0}`)
	assert.ErrorIs(t, err, errFailed)
	assert.Equal(t, "Division by zero\n", out)

	out, err = execute(t, "", "run", "evaluate", `\frac{1}{0}`)
	require.NoError(t, err)
	assert.Equal(t, `\infty`+"\n", out)
}

func TestRun_JSON(t *testing.T) {
	out, err := execute(t, "", "run", "--json", "evaluate", "2+3")
	require.NoError(t, err)
	assert.Contains(t, out, `"success": true`)
	assert.Contains(t, out, `"outputLatex": "5"`)
}

func TestRun_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texcas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locale: en\n"), 0o644))

	out, err := execute(t, "", "--config", path, "run", "solve", "x^2+1=0")
	assert.ErrorIs(t, err, errFailed)
	assert.Equal(t, "No real solutions\n", out)

	require.NoError(t, os.WriteFile(path, []byte("locale: de\n"), 0o644))
	_, err = execute(t, "", "--config", path, "ops")
	assert.Error(t, err)
}

func TestOps(t *testing.T) {
	out, err := execute(t, "", "ops")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "evaluate"))
	assert.Contains(t, lines[0], "Calculer")
	assert.Contains(t, lines[6], "Intégrer")
}

func TestParse(t *testing.T) {
	out, err := execute(t, "", "parse", "x+1")
	require.NoError(t, err)
	assert.Contains(t, out, "parse.Binary")
	assert.Contains(t, out, `"x"`)

	_, err = execute(t, "", "parse", "x+")
	assert.Error(t, err)
}

func TestSession(t *testing.T) {
	var out bytes.Buffer
	s := &session{
		d:      texcas.NewDispatcher(texcas.WithLogger(observability.Discard())),
		out:    &out,
		locale: "fr",
	}
	ctx := context.Background()

	assert.True(t, s.handle(ctx, ":set a 2"))
	assert.True(t, s.handle(ctx, "a+1"))
	assert.True(t, s.handle(ctx, "factor x^2-4"))
	assert.True(t, s.handle(ctx, ":reset"))
	assert.True(t, s.handle(ctx, "simplify a+a"))
	assert.True(t, s.handle(ctx, ":bogus"))
	assert.True(t, s.handle(ctx, ""))
	assert.False(t, s.handle(ctx, ":quit"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "a = 2", lines[0])
	assert.Equal(t, "3", lines[1])
	assert.Contains(t, lines[2], "x")
	assert.Equal(t, "bindings cleared", lines[3])
	assert.Equal(t, `2 \cdot a`, lines[4])
	assert.Equal(t, "unknown command :bogus", lines[5])
}
