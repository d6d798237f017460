package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusfood/api/ctxutil"
	"campusfood/api/response"
	"campusfood/config"
	"campusfood/domain/shared"
	"campusfood/domain/user"
	"campusfood/infrastructure/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier map[string]error

func (f fakeVerifier) Verify(token string) (security.Identity, error) {
	if err, ok := f[token]; ok && err != nil {
		return security.Identity{}, err
	}
	if _, ok := f[token]; !ok {
		return security.Identity{}, security.ErrTokenInvalid
	}
	return security.Identity{UserID: 42, Email: "x@campus.edu"}, nil
}

type fakeAdmins struct{ err error }

func (f fakeAdmins) RequireAdmin(context.Context, int64) error { return f.err }

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestIDMiddleware())
	handlers = append(handlers, func(c *gin.Context) {
		response.HandleSuccess(c, gin.H{"user_id": ctxutil.UserID(c)}, "ok")
	})
	engine.GET("/", handlers...)
	return engine
}

func call(t *testing.T, engine *gin.Engine, header string) (int, response.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, rec.Header().Get(RequestIDHeader), resp.RequestID)
	return rec.Code, resp
}

func TestRequireIdentity(t *testing.T) {
	verifier := fakeVerifier{"good": nil, "old": security.ErrTokenExpired}
	engine := newEngine(RequireIdentity(verifier))

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"no header", "", http.StatusUnauthorized, "access token required"},
		{"not bearer", "Basic Zm9vOmJhcg==", http.StatusUnauthorized, "access token required"},
		{"expired", "Bearer old", http.StatusForbidden, "token expired"},
		{"invalid", "Bearer forged", http.StatusForbidden, "invalid token"},
		{"valid", "Bearer good", http.StatusOK, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := call(t, engine, tt.header)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, resp.Message)
			assert.Equal(t, tt.status, resp.Code)
		})
	}
}

func TestOptionalIdentity(t *testing.T) {
	engine := newEngine(OptionalIdentity(fakeVerifier{"good": nil}))

	status, resp := call(t, engine, "Bearer forged")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"user_id": float64(0)}, resp.Data)

	_, resp = call(t, engine, "Bearer good")
	assert.Equal(t, map[string]any{"user_id": float64(42)}, resp.Data)
}

func TestRequireAdmin(t *testing.T) {
	verifier := fakeVerifier{"good": nil}
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"admin", nil, http.StatusOK, ""},
		{"not admin", shared.NewForbiddenError("user", "admin access required"), http.StatusForbidden, "FORBIDDEN"},
		{"user gone", user.NewUserNotFoundError(42), http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newEngine(RequireIdentity(verifier), RequireAdmin(fakeAdmins{err: tt.err}))
			status, resp := call(t, engine, "Bearer good")
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, resp.Error)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RateLimitMiddleware(&config.RateLimitConfig{Enabled: true, Rate: 0.001, Burst: 2}))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORSMiddleware(&config.CORSConfig{
		AllowOrigins: []string{"https://app.campus.edu"},
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       600,
	}))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.campus.edu")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.campus.edu", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
}
