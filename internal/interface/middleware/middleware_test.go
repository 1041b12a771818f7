package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/projecthub/internal/application"
	"github.com/oksasatya/projecthub/internal/domain/entity"
	"github.com/oksasatya/projecthub/internal/domain/repository"
	"github.com/oksasatya/projecthub/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT(t *testing.T) *helpers.JWTManager {
	t.Helper()
	m, err := helpers.NewJWTManager("test-secret", "projecthub")
	require.NoError(t, err)
	return m
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	jwt := newJWT(t)
	r := gin.New()
	r.GET("/me", Auth(jwt), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserIDKey))
	})

	signIn, _, err := jwt.Issue("u1", "", time.Hour)
	require.NoError(t, err)
	confirm, _, err := jwt.Issue("u1", helpers.PurposeConfirm, time.Hour)
	require.NoError(t, err)
	expired, _, err := jwt.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).Issue("u1", "", time.Hour)
	require.NoError(t, err)

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signIn)
		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u1", w.Body.String())
	})
	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: helpers.AccessTokenCookie, Value: signIn})
		assert.Equal(t, http.StatusOK, serve(r, req).Code)
	})
	for name, tok := range map[string]string{
		"missing":            "",
		"confirmation token": confirm,
		"expired":            expired,
		"garbage":            "x.y.z",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tok != "" {
				req.Header.Set("Authorization", "Bearer "+tok)
			}
			assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
		})
	}
}

type stubRoles map[string]entity.RoleType

func (s stubRoles) GetRole(_ context.Context, userID, projectID string) (entity.RoleType, error) {
	if userID == "broken" {
		return "", errors.New("db down")
	}
	role, ok := s[userID+"/"+projectID]
	if !ok {
		return "", repository.ErrNotFound
	}
	return role, nil
}

func TestRequireProjectRole(t *testing.T) {
	guard := application.NewGuard(stubRoles{
		"owner/p1":  entity.RoleOwner,
		"member/p1": entity.RoleMember,
	}, application.DefaultPolicy())

	r := gin.New()
	withUser := func(c *gin.Context) {
		c.Set(CtxUserIDKey, c.GetHeader("X-User"))
		c.Next()
	}
	ok := func(c *gin.Context) {
		role, _ := c.Get(CtxProjectRoleKey)
		c.String(http.StatusOK, string(role.(entity.RoleType)))
	}
	r.PATCH("/projects/:projectID", withUser, RequireProjectRole(guard, application.OpProjectUpdate, "projectID", nil), ok)
	r.GET("/projects/:projectID", withUser, RequireProjectRole(guard, application.OpProjectRead, "projectID", nil), ok)

	cases := []struct {
		method, user string
		want         int
	}{
		{http.MethodPatch, "owner", http.StatusOK},
		{http.MethodPatch, "member", http.StatusForbidden},
		{http.MethodGet, "member", http.StatusOK},
		{http.MethodGet, "stranger", http.StatusForbidden},
		{http.MethodGet, "broken", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, "/projects/p1", nil)
		req.Header.Set("X-User", tc.user)
		assert.Equal(t, tc.want, serve(r, req).Code, "%s as %s", tc.method, tc.user)
	}
}

func TestRateLimit_LocalFallback(t *testing.T) {
	r := gin.New()
	r.Use(RealIP(false))
	r.GET("/x", RateLimit(nil, 2, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_AllowBypass(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimit(nil, 1, time.Minute, KeyByIP(), func(*gin.Context) bool { return true }), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
	}
}

func TestAllowPrivateIP(t *testing.T) {
	allow := AllowPrivateIP()
	for ip, want := range map[string]bool{
		"127.0.0.1":          true,
		"10.1.2.3":           true,
		"::ffff:192.168.1.4": true,
		"203.0.113.7":        false,
		"unknown":            false,
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("real_ip", ip)
		assert.Equal(t, want, allow(c), ip)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "3f9a4c52-0a43-4c6e-8a55-6a1de0b6a8f1")
	assert.Equal(t, "3f9a4c52-0a43-4c6e-8a55-6a1de0b6a8f1", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	assert.NotEqual(t, "<script>", serve(r, req).Body.String())
}

func TestRealIP(t *testing.T) {
	handler := func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) }
	trusted := gin.New()
	trusted.GET("/x", RealIP(true), handler)
	untrusted := gin.New()
	require.NoError(t, untrusted.SetTrustedProxies(nil))
	untrusted.GET("/x", RealIP(false), handler)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	assert.Equal(t, "203.0.113.7", serve(trusted, req).Body.String())
	assert.Equal(t, "10.0.0.9", serve(untrusted, req).Body.String())
}
