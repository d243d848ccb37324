// Command texcas-server serves the texcas HTTP API.
//
// Usage:
//
//	texcas-server --config texcas.yaml --addr :8080
//
//	POST /v1/perform              run an operation on LaTeX input
//	POST /v1/translate/to-cas     LaTeX to CAS
//	POST /v1/translate/to-latex   CAS to LaTeX
//	GET  /v1/operations           supported operations
//	GET  /health                  liveness check
//	GET  /metrics                 Prometheus metrics
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/gin-gonic/gin"

	"github.com/njchilds90/texcas/config"
	"github.com/njchilds90/texcas/internal/app"
	"github.com/njchilds90/texcas/internal/httpapi"
)

type args struct {
	Config string `arg:"--config,env:TEXCAS_CONFIG" help:"config file (YAML)"`
	Addr   string `arg:"--addr,env:TEXCAS_ADDR" help:"listen address, overrides server.addr"`
}

func (args) Description() string {
	return "texcas-server serves LaTeX/CAS translation and calculation over HTTP"
}

func main() {
	var a args
	arg.MustParse(&a)
	if err := run(a); err != nil {
		fmt.Fprintln(os.Stderr, "texcas-server:", err)
		os.Exit(1)
	}
}

func run(a args) error {
	cfg, err := config.Load(a.Config)
	if err != nil {
		return err
	}
	if a.Addr != "" {
		cfg.Server.Addr = a.Addr
	}
	application, err := app.New(cfg, os.Stderr)
	if err != nil {
		return err
	}
	logger := application.Logger

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	api := httpapi.New(application.NewDispatcher, logger, httpapi.Options{
		MaxBodyBytes:  cfg.Server.MaxBodyBytes,
		MaxInputChars: cfg.Server.MaxInputChars,
		Metrics:       cfg.Server.Metrics,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("texcas server listening", "addr", cfg.Server.Addr, "locale", cfg.Locale, "engines", cfg.Engines)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
