package httpapi

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/njchilds90/texcas"
	"github.com/njchilds90/texcas/internal/observability"
)

type PerformRequest struct {
	Operation string `json:"operation" binding:"required"`
	Latex     string `json:"latex"`
}

type ToCASRequest struct {
	Latex string `json:"latex"`
}

type ToCASResponse struct {
	CAS string `json:"cas"`
}

type ToLatexRequest struct {
	CAS string `json:"cas"`
}

type ToLatexResponse struct {
	Latex string `json:"latex"`
}

type OperationInfo struct {
	Name  texcas.OperationKind `json:"name"`
	Label string               `json:"label"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handlePerform(c *gin.Context) {
	logger := s.log(c, "perform")

	var req PerformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	if !s.inputFits(c, req.Latex) {
		return
	}

	// Unknown operations still go through the dispatcher so that the
	// client gets the localized failure result.
	op := texcas.OperationKind(strings.ToLower(strings.TrimSpace(req.Operation)))
	key := string(op) + "\x00" + req.Latex
	v, _, shared := s.flight.Do(key, func() (any, error) {
		return s.newDispatcher().Perform(c.Request.Context(), op, req.Latex), nil
	})
	if shared {
		observability.DedupedRequests.Inc()
	}
	res := v.(texcas.OperationResult)
	logger.Debug("perform", "operation", op, "success", res.Success, "shared", shared)
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleToCAS(c *gin.Context) {
	var req ToCASRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log(c, "to-cas").Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	if !s.inputFits(c, req.Latex) {
		return
	}
	c.JSON(http.StatusOK, ToCASResponse{CAS: texcas.LatexToCAS(req.Latex)})
}

func (s *Server) handleToLatex(c *gin.Context) {
	var req ToLatexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.log(c, "to-latex").Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	if !s.inputFits(c, req.CAS) {
		return
	}
	c.JSON(http.StatusOK, ToLatexResponse{Latex: texcas.CASToLatex(req.CAS)})
}

func (s *Server) handleOperations(c *gin.Context) {
	locale := c.DefaultQuery("locale", s.localizer.Locale())
	ops := texcas.Operations()
	out := make([]OperationInfo, len(ops))
	for i, op := range ops {
		out[i] = OperationInfo{Name: op, Label: op.Label(locale)}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) inputFits(c *gin.Context, input string) bool {
	if s.opts.MaxInputChars > 0 && utf8.RuneCountInString(input) > s.opts.MaxInputChars {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "input too long", Code: "INPUT_TOO_LONG"})
		return false
	}
	return true
}
