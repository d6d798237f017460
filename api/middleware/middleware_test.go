package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusfood/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRateLimiterForgetsIdleClients(t *testing.T) {
	clock := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return clock }
	rl.lastSweep.Store(clock.UnixNano())

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
	assert.Equal(t, 2, rl.size())

	clock = clock.Add(limiterIdleTTL / 2)
	assert.True(t, rl.Allow("10.0.0.2"))

	clock = clock.Add(limiterIdleTTL/2 + time.Second)
	assert.True(t, rl.Allow("10.0.0.3"))
	assert.Equal(t, 2, rl.size(), "10.0.0.1 idle past the TTL is dropped")
}

func TestLoggingMiddlewareLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(logger.Replace(zap.New(core)))

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestIDMiddleware(), LoggingMiddleware())
	engine.GET("/api/health/live", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/api/orders/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/api/health/live", "/api/orders/7?x=1"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(RequestIDHeader, "req-log")
		engine.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)

	fields := entries[1].ContextMap()
	assert.Equal(t, "/api/orders/:id", fields["route"])
	assert.Equal(t, "x=1", fields["query"])
	assert.Equal(t, "req-log", fields["request_id"])
}

func TestRecoveryMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(logger.Replace(zap.New(core)))

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestIDMiddleware(), RecoveryMiddleware())
	engine.GET("/boom", func(c *gin.Context) { panic("kitchen on fire") })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "kitchen on fire")
	assert.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
}
