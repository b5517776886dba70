package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newEngine(log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceID(), Logging(log), Recovery(log))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(TraceIDKey)) })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })
	return r
}

func TestTraceIDGeneratedAndEchoed(t *testing.T) {
	r := newEngine(zap.NewNop())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	id := w.Header().Get(TraceIDHeader)
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(TraceIDHeader, "caller-trace")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "caller-trace", w.Header().Get(TraceIDHeader))
}

func TestRecoveryReturnsJSON(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newEngine(zap.New(core))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
	require.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
	reqLogs := logs.FilterMessage("request").All()
	require.Len(t, reqLogs, 1)
	assert.Equal(t, zapcore.ErrorLevel, reqLogs[0].Level)
}
