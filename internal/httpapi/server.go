// Package httpapi exposes the dispatcher and the translators over HTTP.
//
// Routes:
//
//	POST /v1/perform              {operation, latex} -> OperationResult
//	POST /v1/translate/to-cas     {latex}            -> {cas}
//	POST /v1/translate/to-latex   {cas}              -> {latex}
//	GET  /v1/operations
//	GET  /health
//	GET  /metrics
package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/singleflight"

	"github.com/njchilds90/texcas"
	"github.com/njchilds90/texcas/internal/observability"
)

const requestIDHeader = "X-Request-ID"

// Options tunes a Server. Zero values mean no limit.
type Options struct {
	MaxBodyBytes  int64
	MaxInputChars int
	Metrics       bool
}

// Server holds the handlers. Every perform request gets its own dispatcher
// from newDispatcher because dispatchers are single-goroutine objects.
type Server struct {
	newDispatcher func() *texcas.Dispatcher
	localizer     *texcas.Localizer
	logger        *slog.Logger
	opts          Options
	flight        singleflight.Group
}

func New(newDispatcher func() *texcas.Dispatcher, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		newDispatcher: newDispatcher,
		localizer:     newDispatcher().Localizer(),
		logger:        logger,
		opts:          opts,
	}
}

// Handler builds the gin engine with all routes registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID(), s.countRequests(), s.limitBody())

	v1 := r.Group("/v1")
	v1.POST("/perform", s.handlePerform)
	v1.POST("/translate/to-cas", s.handleToCAS)
	v1.POST("/translate/to-latex", s.handleToLatex)
	v1.GET("/operations", s.handleOperations)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.opts.Metrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	return r
}

// requestID echoes X-Request-ID, creating one when the client sent none.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observability.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func (s *Server) limitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.opts.MaxBodyBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxBodyBytes)
		}
		c.Next()
	}
}

func (s *Server) log(c *gin.Context, handler string) *slog.Logger {
	return s.logger.With("request_id", c.GetString(requestIDHeader), "handler", handler)
}
