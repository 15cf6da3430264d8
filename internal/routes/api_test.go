package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"bidnest/internal/auth"
	"bidnest/internal/testutil"
	dbconfig "bidnest/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testAdminPassword = "letmein-admin"

type apiClient struct {
	t       *testing.T
	router  *gin.Engine
	db      *gorm.DB
	cookies []*http.Cookie
	phones  int
}

// newAPI builds the full router on a fresh in-memory database.
func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	saved := *dbconfig.App
	dbconfig.App.JWTSecret = "routes-test-secret"
	dbconfig.App.AdminPassword = testAdminPassword
	dbconfig.App.AdminPageSlug = "admin"
	dbconfig.App.RateLimitRPS = 100
	dbconfig.App.RateLimitBurst = 100
	dbconfig.App.AllowedOrigins = []string{"http://localhost:3000"}

	revocations := auth.Revocations
	auth.Revocations = auth.NewMemoryRevoker()
	t.Cleanup(func() {
		*dbconfig.App = saved
		auth.Revocations = revocations
	})

	db := testutil.SetupDB(t)
	return &apiClient{t: t, router: SetupRouter(), db: db}
}

// do sends a JSON request carrying the client's cookies and keeps any
// cookies the response sets.
func (a *apiClient) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()

	req := newRequest(method, path, body)
	for _, cookie := range a.cookies {
		req.AddCookie(cookie)
	}

	w := serve(a.router, req)

	for _, cookie := range w.Result().Cookies() {
		a.setCookie(cookie)
	}
	return w
}

func newRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func (a *apiClient) setCookie(cookie *http.Cookie) {
	kept := a.cookies[:0]
	for _, existing := range a.cookies {
		if existing.Name != cookie.Name {
			kept = append(kept, existing)
		}
	}
	if cookie.MaxAge >= 0 && cookie.Value != "" {
		kept = append(kept, cookie)
	}
	a.cookies = kept
}

func (a *apiClient) cookie(name string) *http.Cookie {
	for _, c := range a.cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// register creates an account and keeps its session cookie.
func (a *apiClient) register(username string) uint {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/register", gin.H{
		"name":     "Test " + username,
		"username": username,
		"email":    username + "@example.com",
		"phone":    a.nextPhone(),
		"password": "secret123",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		ID uint `json:"id"`
	}
	decode(a.t, w, &body)
	return body.ID
}

func (a *apiClient) nextPhone() string {
	a.phones++
	return fmt.Sprintf("98%08d", a.phones)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	return body.Error
}
