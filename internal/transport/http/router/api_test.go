package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"theme-catalog/internal/core/auth"
	"theme-catalog/internal/core/config"
	"theme-catalog/internal/core/throttle"
	"theme-catalog/internal/domain"
	"theme-catalog/internal/service"
	"theme-catalog/internal/transport/http/handler"
	mdw "theme-catalog/internal/transport/http/middleware"
)

func init() { gin.SetMode(gin.TestMode) }

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type testAPI struct {
	t      *testing.T
	engine *gin.Engine
	themes *memThemes
	redis  *miniredis.Miniredis
}

func newTestAPI(t *testing.T, loginAttempts int) *testAPI {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	users := &memUsers{rows: map[string]domain.User{}}
	themes := &memThemes{rows: map[string]domain.Theme{}}

	userSvc := service.NewUserService(users, nil)
	authSvc := service.NewAuthService(userSvc, jwter, nil)
	themeSvc := service.NewThemeService(themes, nil)
	limiter := throttle.NewFixedWindow(rdb, "login:", loginAttempts, time.Minute)

	engine := NewAPIEngine(Deps{
		JWT: jwter,
		Limits: config.Limits{
			MaxBodyBytes: 1 << 16,
			TimeoutSec:   5,
		},
		Modules: []APIModule{
			handler.NewThemeHandler(themeSvc),
			handler.NewAuthHandler(authSvc, mdw.LoginThrottle(limiter, zap.NewNop())),
			handler.NewUserHandler(userSvc),
		},
	})
	return &testAPI{t: t, engine: engine, themes: themes, redis: mr}
}

func (a *testAPI) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(a.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

// register 返回 token 与用户 id
func (a *testAPI) register(email string) (string, string) {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": email, "password": "secret123", "firstName": "Ada", "lastName": "Lovelace",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &out))
	return out.AccessToken, out.User.ID
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t, 0)
	w, env := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
	assert.NotEmpty(t, w.Header().Get(mdw.HeaderRequestID))
}

func TestAuthFlow(t *testing.T) {
	a := newTestAPI(t, 0)
	token, uid := a.register("ada@x.com")
	assert.NotEmpty(t, token)

	w, env := a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ada@x.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "access_token")

	w, env = a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ada@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", env.Msg)

	w, env = a.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), uid)
	assert.NotContains(t, string(env.Data), "password")

	w, env = a.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "ada@x.com", "password": "secret123", "firstName": "A", "lastName": "B",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email already registered", env.Msg)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	a := newTestAPI(t, 0)

	w, env := a.do(http.MethodGet, "/api/v1/themes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 401, env.Code)

	w, _ = a.do(http.MethodGet, "/api/v1/users", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other := &auth.JWTer{Secret: []byte("other"), Issuer: "test", TTL: time.Hour}
	forged, err := other.Issue("u-1", "x@x.com")
	require.NoError(t, err)
	w, _ = a.do(http.MethodGet, "/api/v1/auth/me", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidationErrors(t *testing.T) {
	a := newTestAPI(t, 0)

	w, env := a.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "bad", "password": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var data struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Errors)

	w, _ = a.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token, _ := a.register("ada@x.com")
	w, _ = a.do(http.MethodGet, "/api/v1/themes?sortBy=password", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(http.MethodGet, "/api/v1/themes/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = a.do(http.MethodPost, "/api/v1/themes", token, gin.H{"name": "x", "themeConfig": []int{1}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserRoutes(t *testing.T) {
	a := newTestAPI(t, 0)
	token, uid := a.register("ada@x.com")
	_, otherID := a.register("bob@x.com")

	w, env := a.do(http.MethodGet, "/api/v1/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []domain.User
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 2)

	w, _ = a.do(http.MethodGet, "/api/v1/users/"+otherID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(http.MethodGet, "/api/v1/users/8c1c3c8e-6a38-4c5e-9a4f-1f1c2d3e4f50", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = a.do(http.MethodPatch, "/api/v1/users/"+uid, token, gin.H{"firstName": "Augusta"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "Augusta")

	w, _ = a.do(http.MethodPatch, "/api/v1/users/"+otherID, token, gin.H{"firstName": "Mallory"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = a.do(http.MethodPost, "/api/v1/users/register", "", gin.H{
		"email": "cy@x.com", "password": "secret123", "firstName": "C", "lastName": "Y",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestThemeLifecycle(t *testing.T) {
	a := newTestAPI(t, 0)
	token, uid := a.register("ada@x.com")

	w, env := a.do(http.MethodPost, "/api/v1/themes", token, gin.H{
		"name":        "Dark Purple",
		"themeConfig": gin.H{"palette": gin.H{"mode": "dark", "primary": gin.H{"main": "#9c27b0"}}},
		"tags":        []string{"dark", "purple"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var th domain.Theme
	require.NoError(t, json.Unmarshal(env.Data, &th))
	assert.Equal(t, uid, th.CreatedByID)
	assert.Equal(t, uid, th.UpdatedByID)

	w, env = a.do(http.MethodPost, "/api/v1/themes", token, gin.H{"name": "Dark Purple", "themeConfig": gin.H{}})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "theme name already exists", env.Msg)

	w, env = a.do(http.MethodGet, "/api/v1/themes?page=1&limit=5&search=purple", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page domain.ThemePage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 5, page.Limit)

	w, env = a.do(http.MethodPatch, "/api/v1/themes/"+th.ID, token, gin.H{"description": "purple accents"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "purple accents")

	w, _ = a.do(http.MethodDelete, "/api/v1/themes/"+th.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, a.themes.rows[th.ID].IsActive)

	w, _ = a.do(http.MethodGet, "/api/v1/themes/"+th.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = a.do(http.MethodDelete, "/api/v1/themes/"+th.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginThrottle(t *testing.T) {
	a := newTestAPI(t, 3)
	a.register("ada@x.com")

	creds := gin.H{"email": "ada@x.com", "password": "wrong"}
	for i := 0; i < 3; i++ {
		w, _ := a.do(http.MethodPost, "/api/v1/auth/login", "", creds)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w, env := a.do(http.MethodPost, "/api/v1/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 429, env.Code)
	retry, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Positive(t, retry)

	// 另一个邮箱不受影响
	w, _ = a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "bob@x.com", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	a.redis.FastForward(2 * time.Minute)
	w, _ = a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ada@x.com", "password": "secret123"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginThrottle_FailsOpen(t *testing.T) {
	a := newTestAPI(t, 1)
	a.register("ada@x.com")
	a.redis.Close()

	for i := 0; i < 3; i++ {
		w, _ := a.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ada@x.com", "password": "secret123"})
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestNoRoute(t *testing.T) {
	a := newTestAPI(t, 0)
	w, env := a.do(http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 404, env.Code)
}

func TestPasswordOverBcryptLimit(t *testing.T) {
	a := newTestAPI(t, 0)
	long := strings.Repeat("€", 30)

	w, env := a.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": "ada@x.com", "password": long, "firstName": "Ada", "lastName": "Lovelace",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Data), `"field":"password"`)

	token, uid := a.register("bob@x.com")
	w, env = a.do(http.MethodPatch, "/api/v1/users/"+uid, token, gin.H{"password": long})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(env.Data), "72 bytes")
}

func TestThemeListPaging(t *testing.T) {
	a := newTestAPI(t, 0)
	token, _ := a.register("ada@x.com")

	w, env := a.do(http.MethodGet, "/api/v1/themes?limit=500", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page domain.ThemePage
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, domain.MaxLimit, page.Limit)

	w, _ = a.do(http.MethodGet, "/api/v1/themes?page=184467440737095516&limit=100", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
