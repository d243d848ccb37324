package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/texcas"
	"github.com/njchilds90/texcas/internal/httpapi"
	"github.com/njchilds90/texcas/internal/observability"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newHandler(t *testing.T, opts httpapi.Options, dopts ...texcas.Option) http.Handler {
	t.Helper()
	dopts = append([]texcas.Option{texcas.WithLogger(observability.Discard())}, dopts...)
	srv := httpapi.New(func() *texcas.Dispatcher {
		return texcas.NewDispatcher(dopts...)
	}, observability.Discard(), opts)
	return srv.Handler()
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPerform(t *testing.T) {
	h := newHandler(t, httpapi.Options{})

	w := post(t, h, "/v1/perform", httpapi.PerformRequest{Operation: "solve", Latex: "x^2=4"})
	require.Equal(t, http.StatusOK, w.Code)

	var res texcas.OperationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, texcas.Solve, res.Operation)
	assert.Equal(t, "x^2=4", res.InputLatex)
	assert.Equal(t, `x = 2, \; x = -2`, res.OutputLatex)
	assert.Empty(t, res.Error)
}

func TestPerform_OperationCaseInsensitive(t *testing.T) {
	h := newHandler(t, httpapi.Options{})

	w := post(t, h, "/v1/perform", httpapi.PerformRequest{Operation: " Evaluate ", Latex: `\frac{6}{3}`})
	var res texcas.OperationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "2", res.OutputLatex)
}

func TestPerform_Failures(t *testing.T) {
	h := newHandler(t, httpapi.Options{})

	w := post(t, h, "/v1/perform", httpapi.PerformRequest{Operation: "simplify", Latex: `\frac{1}{0}`})
	var res texcas.OperationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Empty(t, res.OutputLatex)
	assert.Equal(t, "Division par zéro", res.Error)

	w = post(t, h, "/v1/perform", httpapi.PerformRequest{Operation: "evaluate", Latex: "0/0"})
	res = texcas.OperationResult{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)

	w = post(t, h, "/v1/perform", httpapi.PerformRequest{Operation: "modulo", Latex: "x"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, "Erreur: Opération non supportée: modulo", res.Error)
}

func TestPerform_EvaluateDivisionByZeroIsInfinite(t *testing.T) {
	h := newHandler(t, httpapi.Options{})

	w := post(t, h, "/v1/perform", httpapi.PerformRequest{Operation: "evaluate", Latex: `\frac{1}{0}`})
	var res texcas.OperationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, `\infty`, res.OutputLatex)
	assert.Empty(t, res.Error)
}

func TestPerform_English(t *testing.T) {
	h := newHandler(t, httpapi.Options{}, texcas.WithLocalizer(texcas.NewLocalizer("en")))

	w := post(t, h, "/v1/perform", httpapi.PerformRequest{Operation: "solve", Latex: "x^2+1=0"})
	var res texcas.OperationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "No real solutions", res.Error)
}

func TestPerform_BadRequests(t *testing.T) {
	h := newHandler(t, httpapi.Options{MaxInputChars: 8, MaxBodyBytes: 256})

	w := post(t, h, "/v1/perform", map[string]string{"latex": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST")

	req := httptest.NewRequest(http.MethodPost, "/v1/perform", strings.NewReader("{not json"))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(t, h, "/v1/perform", httpapi.PerformRequest{Operation: "evaluate", Latex: "1+1+1+1+1+1"})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "INPUT_TOO_LONG")

	w = post(t, h, "/v1/perform", httpapi.PerformRequest{Operation: "evaluate", Latex: strings.Repeat("1", 512)})
	assert.Equal(t, http.StatusBadRequest, w.Code, "body over the byte limit fails to bind")
}

func TestPerform_ConcurrentIdenticalRequests(t *testing.T) {
	h := newHandler(t, httpapi.Options{})

	var wg sync.WaitGroup
	outputs := make([]string, 16)
	for i := range outputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := post(t, h, "/v1/perform", httpapi.PerformRequest{Operation: "factor", Latex: "x^2-4"})
			var res texcas.OperationResult
			if err := json.Unmarshal(w.Body.Bytes(), &res); err == nil {
				outputs[i] = res.OutputLatex
			}
		}(i)
	}
	wg.Wait()
	for _, out := range outputs {
		assert.Equal(t, outputs[0], out)
	}
	assert.NotEmpty(t, outputs[0])
}

func TestTranslate(t *testing.T) {
	h := newHandler(t, httpapi.Options{})

	w := post(t, h, "/v1/translate/to-cas", httpapi.ToCASRequest{Latex: `\frac{1}{2}`})
	require.Equal(t, http.StatusOK, w.Code)
	var cas httpapi.ToCASResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cas))
	assert.Equal(t, "((1)/(2))", cas.CAS)

	w = post(t, h, "/v1/translate/to-latex", httpapi.ToLatexRequest{CAS: "sqrt(x)/2"})
	require.Equal(t, http.StatusOK, w.Code)
	var latex httpapi.ToLatexResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &latex))
	assert.Equal(t, `\sqrt{x}/2`, latex.Latex)
}

func TestOperations(t *testing.T) {
	h := newHandler(t, httpapi.Options{})

	req := httptest.NewRequest(http.MethodGet, "/v1/operations?locale=en", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var ops []httpapi.OperationInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ops))
	require.Len(t, ops, 7)
	assert.Equal(t, texcas.Evaluate, ops[0].Name)
	assert.Equal(t, "Evaluate", ops[0].Label)
	assert.Equal(t, "Differentiate", ops[5].Label)

	req = httptest.NewRequest(http.MethodGet, "/v1/operations", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ops))
	assert.Equal(t, "Calculer", ops[0].Label)
}

func TestHealthAndRequestID(t *testing.T) {
	h := newHandler(t, httpapi.Options{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestMetricsRoute(t *testing.T) {
	off := newHandler(t, httpapi.Options{})
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	off.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	on := newHandler(t, httpapi.Options{Metrics: true})
	post(t, on, "/v1/perform", httpapi.PerformRequest{Operation: "evaluate", Latex: "1+1"})
	w = httptest.NewRecorder()
	on.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "texcas_operations_total")
}
