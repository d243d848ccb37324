// Package app turns a config.Config into the runtime pieces shared by the
// command line tool and the HTTP server.
package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/njchilds90/texcas"
	"github.com/njchilds90/texcas/config"
	"github.com/njchilds90/texcas/engine"
	"github.com/njchilds90/texcas/internal/observability"
	"github.com/njchilds90/texcas/numeric"
	"github.com/njchilds90/texcas/parse"
	"github.com/njchilds90/texcas/symbolic"
)

// App holds the long-lived state. Dispatchers are cheap and are created on
// demand; the parse cache is shared between all of them.
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Localizer *texcas.Localizer

	reset texcas.ResetPolicy
	cache *parse.Cache
}

// New validates cfg and builds an App logging to logOut (stderr when nil).
func New(cfg config.Config, logOut io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reset, err := texcas.ParseResetPolicy(cfg.ResetPolicy)
	if err != nil {
		return nil, err
	}
	a := &App{
		Config: cfg,
		Logger: observability.NewLogger(observability.LogConfig{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: logOut,
		}),
		Localizer: texcas.NewLocalizer(cfg.Locale),
		reset:     reset,
	}
	if cfg.ParseCacheSize > 0 {
		a.cache, err = parse.NewCache(cfg.ParseCacheSize)
		if err != nil {
			return nil, fmt.Errorf("parse cache: %w", err)
		}
	}
	return a, nil
}

// Engines builds a fresh engine chain in the configured order.
func (a *App) Engines() []engine.Engine {
	out := make([]engine.Engine, 0, len(a.Config.Engines))
	for _, name := range a.Config.Engines {
		switch name {
		case "numeric":
			out = append(out, numeric.New(a.cache))
		case "symbolic":
			out = append(out, symbolic.NewEngine(a.cache))
		}
	}
	return out
}

// NewDispatcher returns a dispatcher with its own engines.
func (a *App) NewDispatcher() *texcas.Dispatcher {
	return texcas.NewDispatcher(
		texcas.WithEngines(a.Engines()...),
		texcas.WithLogger(a.Logger),
		texcas.WithLocalizer(a.Localizer),
		texcas.WithResetPolicy(a.reset),
	)
}
