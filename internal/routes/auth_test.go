package routes

import (
	"net/http"
	"testing"

	"bidnest/internal/auth"
	"bidnest/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthAndMetrics(t *testing.T) {
	api := newAPI(t)

	w := api.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = api.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bidnest_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	api := newAPI(t)

	req := newRequest(http.MethodOptions, "/api/members", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := serve(api.router, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = newRequest(http.MethodOptions, "/api/members", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = serve(api.router, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRegisterLoginLogout(t *testing.T) {
	api := newAPI(t)

	id := api.register("asha")
	assert.NotZero(t, id)
	require.NotNil(t, api.cookie(auth.SessionCookie))

	w := api.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var me struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Name     struct {
			Value string `json:"value"`
		} `json:"name"`
	}
	decode(t, w, &me)
	assert.Equal(t, id, me.ID)
	assert.Equal(t, "Test asha", me.Name.Value)
	assert.NotContains(t, w.Body.String(), "password")

	stolen := *api.cookie(auth.SessionCookie)

	w = api.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, api.cookie(auth.SessionCookie))

	// the old token is revoked, not just forgotten by the client
	api.cookies = append(api.cookies, &stolen)
	w = api.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	api.cookies = nil

	w = api.do(http.MethodPost, "/api/auth/login", gin.H{"login": "ASHA@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Username string `json:"username"`
		Name     string `json:"name"`
	}
	decode(t, w, &login)
	assert.Equal(t, "asha", login.Username)
	assert.Equal(t, "Test asha", login.Name)

	w = api.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var actions []string
	require.NoError(t, api.db.Model(&models.AuditLog{}).Order("id ASC").Pluck("action_type", &actions).Error)
	assert.Equal(t, []string{models.ActionCreate, models.ActionLogout, models.ActionLogin}, actions)
}

func TestRegisterConflicts(t *testing.T) {
	api := newAPI(t)
	api.register("ravi")

	tests := []struct {
		name  string
		body  gin.H
		error string
	}{
		{"username", gin.H{"username": "ravi", "email": "other@example.com", "phone": "9111111111"}, "Username already exists"},
		{"email", gin.H{"username": "ravi2", "email": "ravi@example.com", "phone": "9111111111"}, "Email already exists"},
		{"phone", gin.H{"username": "ravi3", "email": "ravi3@example.com", "phone": "9800000001"}, "Phone number already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.body["name"] = "Ravi"
			tt.body["password"] = "secret123"
			w := api.do(http.MethodPost, "/api/auth/register", tt.body)
			assert.Equal(t, http.StatusConflict, w.Code)
			assert.Equal(t, tt.error, errorOf(t, w))
		})
	}
}

func TestRegisterValidation(t *testing.T) {
	api := newAPI(t)

	w := api.do(http.MethodPost, "/api/auth/register", gin.H{
		"name": "Short", "username": "ab", "email": "ab@example.com", "phone": "9222222222", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/auth/register", gin.H{
		"name": "Weak", "username": "weakling", "email": "weak@example.com", "phone": "9222222222", "password": "12345",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, auth.ErrWeakPassword.Error(), errorOf(t, w))
}

func TestLoginFailures(t *testing.T) {
	api := newAPI(t)
	id := api.register("meena")
	api.cookies = nil

	w := api.do(http.MethodPost, "/api/auth/login", gin.H{"login": "meena", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/api/auth/login", gin.H{"login": "nobody", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	require.NoError(t, api.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", false).Error)
	w = api.do(http.MethodPost, "/api/auth/login", gin.H{"login": "meena", "password": "secret123"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Nil(t, api.cookie(auth.SessionCookie))
}

func TestChangePassword(t *testing.T) {
	api := newAPI(t)
	api.register("kiran")

	w := api.do(http.MethodPost, "/api/auth/change-password", gin.H{"password": "abc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/auth/change-password", gin.H{"password": "new-secret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	api.cookies = nil
	w = api.do(http.MethodPost, "/api/auth/login", gin.H{"login": "kiran", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = api.do(http.MethodPost, "/api/auth/login", gin.H{"login": "kiran", "password": "new-secret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	api := newAPI(t)

	for _, path := range []string{"/api/members", "/api/chit-groups", "/api/auctions", "/api/payments", "/api/audit-logs", "/api/users"} {
		w := api.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestBearerTokenIsAccepted(t *testing.T) {
	api := newAPI(t)
	api.register("dev")
	token := api.cookie(auth.SessionCookie).Value
	api.cookies = nil

	req := newRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(api.router, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateUserBootstrap(t *testing.T) {
	api := newAPI(t)

	w := api.do(http.MethodPost, "/api/users", gin.H{
		"name": "Owner", "username": "owner", "email": "owner@example.com", "phone": "9333333333", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Nil(t, api.cookie(auth.SessionCookie))

	api.register("second")
	w = api.do(http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []struct {
		Username string `json:"username"`
	}
	decode(t, w, &users)
	require.Len(t, users, 2)
	assert.Equal(t, "second", users[0].Username)
}
