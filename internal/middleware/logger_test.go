package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func loggedRequest(t *testing.T, target string, headers map[string]string) (*observer.ObservedLogs, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/trends", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return logs, w
}

func TestLoggerEchoesRequestID(t *testing.T) {
	logs, w := loggedRequest(t, "/trends", map[string]string{"X-Request-ID": "req-42"})

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-42", logs.All()[0].ContextMap()["request_id"])
}

func TestLoggerGeneratesRequestID(t *testing.T) {
	logs, w := loggedRequest(t, "/trends", nil)

	id := w.Header().Get("X-Request-ID")
	assert.NotEmpty(t, id)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, id, logs.All()[0].ContextMap()["request_id"])
}

func TestLoggerTagsBrandScope(t *testing.T) {
	logs, _ := loggedRequest(t, "/trends?brand_id=b-9", nil)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "b-9", logs.All()[0].ContextMap()["brand_id"])

	logs, _ = loggedRequest(t, "/trends", nil)
	require.Equal(t, 1, logs.Len())
	_, tagged := logs.All()[0].ContextMap()["brand_id"]
	assert.False(t, tagged)
}
