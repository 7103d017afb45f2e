package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SyncShire/E-Commerce/internal/authz"
	"github.com/SyncShire/E-Commerce/internal/config"
	"github.com/SyncShire/E-Commerce/internal/http/handlers/shared"
	"github.com/SyncShire/E-Commerce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
	RequestID  string          `json:"request_id"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

// stubAuthenticator 按 token 返回预设用户
type stubAuthenticator struct {
	users map[string]*service.AuthenticatedUser
	err   error
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*service.AuthenticatedUser, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[token]
	if !ok {
		return nil, service.ErrTokenInvalid
	}
	return user, nil
}

func TestResolveAllowedOrigin(t *testing.T) {
	assert.Equal(t, "*", resolveAllowedOrigin("https://shop.example.com", []string{"*"}, false))
	assert.Equal(t, "https://shop.example.com", resolveAllowedOrigin("https://shop.example.com", []string{"*"}, true))
	assert.Equal(t, "https://a.example.com", resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false))
	assert.Equal(t, "", resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false))
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
	assert.Contains(t, w.Body.String(), `"request_id":"req-123"`)

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, strings.TrimSpace(w2.Header().Get(requestIDHeader)))
}

func TestCORSExposesSessionToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{
		AllowedOrigins:   []string{"https://shop.example.com"},
		AllowCredentials: true,
	}))
	r.GET("/cart", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/cart", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Session-Token")
}

func TestUserJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := &stubAuthenticator{users: map[string]*service.AuthenticatedUser{
		"good": {UserID: 7, Email: "meera@example.com", RoleType: "customer"},
	}}

	r := gin.New()
	r.GET("/me", UserJWTAuthMiddleware("secret", auth), func(c *gin.Context) {
		uid, _ := shared.GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"status_code": 0, "data": uid})
	})

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{name: "missing header", header: "", code: 401},
		{name: "wrong scheme", header: "Basic abc", code: 401},
		{name: "unknown token", header: "Bearer nope", code: 401},
		{name: "valid token", header: "Bearer good", code: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.code, decodeEnvelope(t, w).StatusCode)
		})
	}
}

func TestUserJWTAuthMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(UserJWTAuthMiddleware("", nil))
	r.GET("/me", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, 401, decodeEnvelope(t, w).StatusCode)
}

func TestUserJWTAuthMiddlewareRevokedToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(UserJWTAuthMiddleware("secret", &stubAuthenticator{err: service.ErrTokenRevoked}))
	r.GET("/me", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer old")
	req.Header.Set("X-Locale", "en-US")
	r.ServeHTTP(w, req)

	resp := decodeEnvelope(t, w)
	assert.Equal(t, 401, resp.StatusCode)
	assert.NotEmpty(t, resp.Msg)
}

func TestOptionalUserAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := &stubAuthenticator{users: map[string]*service.AuthenticatedUser{
		"good": {UserID: 9, RoleType: "customer"},
	}}

	r := gin.New()
	r.GET("/cart", OptionalUserAuthMiddleware(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0, "data": shared.OptionalUserID(c)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))
	resp := decodeEnvelope(t, w)
	assert.Equal(t, 0, resp.StatusCode)
	assert.Equal(t, "0", string(resp.Data))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer good")
	r.ServeHTTP(w, req)
	assert.Equal(t, "9", string(decodeEnvelope(t, w).Data))

	// 显式携带失效 token 不降级为匿名
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("Authorization", "Bearer stale")
	r.ServeHTTP(w, req)
	assert.Equal(t, 401, decodeEnvelope(t, w).StatusCode)
}

func TestAdminRBACMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	authzService, err := authz.NewService(db)
	require.NoError(t, err)
	require.NoError(t, authzService.BootstrapBuiltinRoles())

	auth := &stubAuthenticator{users: map[string]*service.AuthenticatedUser{
		"admin":    {UserID: 1, RoleType: "admin"},
		"support":  {UserID: 2, RoleType: "support"},
		"customer": {UserID: 3, RoleType: "customer"},
	}}
	r := gin.New()
	admin := r.Group("/api/v1/admin")
	admin.Use(UserJWTAuthMiddleware("secret", auth), AdminRBACMiddleware(authzService))
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status_code": 0}) }
	admin.GET("/orders", ok)
	admin.PATCH("/orders/:id/status", ok)
	admin.PATCH("/returns/:id", ok)

	cases := []struct {
		token  string
		method string
		path   string
		code   int
	}{
		{token: "admin", method: http.MethodPatch, path: "/api/v1/admin/orders/5/status", code: 0},
		{token: "support", method: http.MethodGet, path: "/api/v1/admin/orders", code: 0},
		{token: "support", method: http.MethodPatch, path: "/api/v1/admin/returns/3", code: 0},
		{token: "support", method: http.MethodPatch, path: "/api/v1/admin/orders/5/status", code: 403},
		{token: "customer", method: http.MethodGet, path: "/api/v1/admin/orders", code: 403},
		{token: "", method: http.MethodGet, path: "/api/v1/admin/orders", code: 401},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.code, decodeEnvelope(t, w).StatusCode, "%s %s as %q", tc.method, tc.path, tc.token)
	}
}
