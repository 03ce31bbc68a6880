package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmanager/internal/app"
	"docmanager/internal/model"
	"docmanager/internal/transport/http/middleware"
	"docmanager/internal/transport/http/response"
)

type memoryUserStore struct {
	nextID uint
	users  map[uint]model.User
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: map[uint]model.User{}}
}

func (m *memoryUserStore) Create(user *model.User) error {
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUserStore) GetByEmail(email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memoryUserStore) GetByID(id uint) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memoryUserStore) List() ([]model.User, error) { return nil, nil }
func (m *memoryUserStore) UpdateRole(id uint, role model.Role) (*model.User, error) {
	return nil, nil
}

const handlerTestSecret = "handler-test-secret"

func newAuthTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService := app.NewAuthService(newMemoryUserStore(), handlerTestSecret, time.Hour)
	policy := app.NewPolicy(handlerTestSecret)
	h := NewAuthHandler(authService)

	router := gin.New()
	router.POST("/register", h.Register)
	router.POST("/login", h.Login)
	router.GET("/me", middleware.Authorize(policy, app.ActionAuthMe), h.Me)
	router.GET("/admin-only", middleware.Authorize(policy, app.ActionUserList), func(c *gin.Context) {
		response.OK(c, gin.H{"reached": true})
	})
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Token)
	return body.Data.Token
}

func TestRegisterLoginMeFlow(t *testing.T) {
	router := newAuthTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/register", "", gin.H{
		"email":    "editor@example.com",
		"password": "editor123",
		"role":     "editor",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password", "hash must never leave the API")

	token := loginToken(t, router, "editor@example.com", "editor123")

	w = doJSON(t, router, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "editor@example.com")
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	router := newAuthTestRouter(t)

	payload := gin.H{"email": "dup@example.com", "password": "pw123456", "role": "viewer"}
	w := doJSON(t, router, http.MethodPost, "/register", "", payload)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/register", "", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	router := newAuthTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/register", "", gin.H{
		"email": "known@example.com", "password": "rightpass", "role": "viewer",
	})
	require.Equal(t, http.StatusOK, w.Code)

	unknown := doJSON(t, router, http.MethodPost, "/login", "", gin.H{
		"email": "unknown@example.com", "password": "whatever1",
	})
	wrongPass := doJSON(t, router, http.MethodPost, "/login", "", gin.H{
		"email": "known@example.com", "password": "wrongpass",
	})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.JSONEq(t, unknown.Body.String(), wrongPass.Body.String())
}

func TestRoleGateDistinguishesForbiddenFromUnauthenticated(t *testing.T) {
	router := newAuthTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/register", "", gin.H{
		"email": "viewer@example.com", "password": "viewer123", "role": "viewer",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := loginToken(t, router, "viewer@example.com", "viewer123")

	// Valid identity, wrong role.
	w = doJSON(t, router, http.MethodGet, "/admin-only", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// No identity at all.
	w = doJSON(t, router, http.MethodGet, "/admin-only", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token.
	w = doJSON(t, router, http.MethodGet, "/admin-only", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
