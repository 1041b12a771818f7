package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/projecthub/config"
	"github.com/oksasatya/projecthub/internal/container"
	"github.com/oksasatya/projecthub/internal/infrastructure/memory"
	"github.com/oksasatya/projecthub/pkg/helpers"
	"github.com/oksasatya/projecthub/pkg/validation"
)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger, _ := logtest.NewNullLogger()
	jwt, err := helpers.NewJWTManager("router-secret", "projecthub")
	require.NoError(t, err)
	hasher, err := helpers.NewPasswordHasher(bcrypt.MinCost)
	require.NoError(t, err)

	container.SetConfig(&config.Config{
		StoreDriver:         config.StoreDriverMemory,
		FrontendURL:         "https://app.example.com",
		SignInTTL:           time.Hour,
		ConfirmTTL:          24 * time.Hour,
		DebugMetricsEnabled: true,
	})
	container.SetLogger(logger)
	container.SetStore(memory.NewStore())
	container.SetJWT(jwt)
	container.SetHasher(hasher)

	r := gin.New()
	reg := NewRegistry(r)
	InitModules(reg)
	reg.RegisterAll()
	return r
}

func call(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutesWired(t *testing.T) {
	r := newEngine(t)

	w := call(r, http.MethodPost, "/api/users", "", `{"email":"alice@example.com","name":"Alice","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(r, http.MethodPost, "/api/auth/signin", "", `{"email":"alice@example.com","password":"s3cret-pass"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var signIn struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &signIn))
	token := signIn.Data.Token

	w = call(r, http.MethodPost, "/api/projects", token, `{"name":"Launch Plan"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/projects/"+created.Data.ID, token, "").Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/projects/"+created.Data.ID+"/invites", token, "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "/api/projects/"+created.Data.ID, "", "").Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/profile/projects", token, "").Code)

	// no directory configured: search is empty, not an error
	w = call(r, http.MethodGet, "/api/users/search?q=alice", token, "")
	assert.Equal(t, http.StatusOK, w.Code)

	// no mailer configured
	w = call(r, http.MethodPost, "/api/auth/confirm/resend", token, "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"disabled":true`)

	w = call(r, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"store":"memory"`)
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/api/debug/vars", "", "").Code)
}

func TestSignInRateLimited(t *testing.T) {
	r := newEngine(t)
	var last int
	for i := 0; i < 11; i++ {
		last = call(r, http.MethodPost, "/api/auth/signin", "", `{"email":"nobody@example.com","password":"whatever1"}`).Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

type pingModule struct{}

func (pingModule) Register(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("tag")) })
}

func TestRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := NewRegistry(gin.New())
	reg.Use(func(c *gin.Context) { c.Set("tag", "api"); c.Next() })
	reg.Add(pingModule{})
	reg.RegisterAll()
	reg.RegisterAll()

	w := call(reg.Engine, http.MethodGet, "/api/ping", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "api", w.Body.String())

	w = call(reg.Engine, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "route not found")

	w = call(reg.Engine, http.MethodDelete, "/api/ping", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
