package app_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/texcas"
	"github.com/njchilds90/texcas/config"
	"github.com/njchilds90/texcas/internal/app"
)

func TestNew_Defaults(t *testing.T) {
	a, err := app.New(config.Default(), io.Discard)
	require.NoError(t, err)

	d := a.NewDispatcher()
	assert.Equal(t, []string{"numeric", "symbolic"}, d.Engines())
	assert.Equal(t, "fr", d.Localizer().Locale())

	res := d.Perform(context.Background(), texcas.Evaluate, `\frac{1}{2}+\frac{1}{2}`)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "1", res.OutputLatex)
}

func TestNew_EngineOrderAndLocale(t *testing.T) {
	cfg := config.Default()
	cfg.Engines = []string{"symbolic"}
	cfg.Locale = "en"
	cfg.ParseCacheSize = 0

	a, err := app.New(cfg, io.Discard)
	require.NoError(t, err)

	d := a.NewDispatcher()
	assert.Equal(t, []string{"symbolic"}, d.Engines())

	res := d.Perform(context.Background(), texcas.Simplify, `1/0`)
	assert.False(t, res.Success)
	assert.Equal(t, "Division by zero", res.Error)
}

func TestNew_DispatchersDoNotShareBindings(t *testing.T) {
	a, err := app.New(config.Default(), io.Discard)
	require.NoError(t, err)

	first := a.NewDispatcher()
	require.NoError(t, first.Bind("a", "2"))
	res := first.Perform(context.Background(), texcas.Evaluate, `a+1`)
	assert.Equal(t, "3", res.OutputLatex)

	second := a.NewDispatcher()
	res = second.Perform(context.Background(), texcas.Simplify, `a+a`)
	assert.Equal(t, `2 \cdot a`, res.OutputLatex)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Locale = "de"
	_, err := app.New(cfg, io.Discard)
	assert.Error(t, err)
}
