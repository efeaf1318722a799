package user_controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joy095/gowafly/models/user_models"
	"github.com/joy095/gowafly/utils"
	"github.com/joy095/gowafly/utils/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user_models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[uuid.UUID]*user_models.User{}}
}

func (m *memoryUsers) Create(_ context.Context, u *user_models.User) (*user_models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = user_models.NormalizeEmail(u.Email)
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, utils.NewError(utils.KindConflict, "email is already registered", nil)
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	stored := *u
	m.users[u.ID] = &stored
	return u, nil
}

func (m *memoryUsers) GetByID(_ context.Context, id uuid.UUID) (*user_models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, utils.NewError(utils.KindNotFound, "user not found", nil)
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*user_models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user_models.NormalizeEmail(email) {
			out := *u
			return &out, nil
		}
	}
	return nil, utils.NewError(utils.KindNotFound, "user not found", nil)
}

func (m *memoryUsers) List(context.Context) ([]user_models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []user_models.User{}
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memoryUsers) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func (m *memoryUsers) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) (*user_models.User, error) {
	m.mu.Lock()
	u, ok := m.users[id]
	if !ok {
		m.mu.Unlock()
		return nil, utils.NewError(utils.KindNotFound, "user not found", nil)
	}
	for k, v := range updates {
		s := v.(string)
		switch k {
		case "first_name":
			u.FirstName = s
		case "last_name":
			u.LastName = s
		case "email":
			u.Email = s
		case "phone_number":
			u.PhoneNumber = s
		case "role":
			u.Role = s
		}
	}
	m.mu.Unlock()
	return m.GetByID(ctx, id)
}

func (m *memoryUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return utils.NewError(utils.KindNotFound, "user not found", nil)
	}
	u.PasswordHash = hash
	u.TokenVersion++
	return nil
}

func (m *memoryUsers) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func setupRouter(users UserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Setup()
	uc := NewUserController(users, time.Hour)
	r := gin.New()
	r.POST("/register", uc.Register)
	r.POST("/login", uc.Login)
	authed := func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader("X-Test-User"))
		if err == nil {
			c.Set(utils.ContextUserID, id)
		}
	}
	r.GET("/me", authed, uc.GetMyProfile)
	r.PATCH("/me", authed, uc.UpdateProfile)
	r.PUT("/me/password", authed, uc.ChangePassword)
	return r
}

func do(r *gin.Engine, method, path string, body any, userID string) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestRegisterAndLogin(t *testing.T) {
	users := newMemoryUsers()
	r := setupRouter(users)

	w, body := do(r, http.MethodPost, "/register", gin.H{
		"firstName": "Somchai", "lastName": "Jaidee", "email": "Somchai@Example.com", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "somchai@example.com", user["email"])
	assert.Equal(t, utils.RoleUser, user["role"])
	assert.NotContains(t, w.Body.String(), "secret1")

	w, body = do(r, http.MethodPost, "/register", gin.H{
		"firstName": "A", "lastName": "B", "email": "somchai@example.com", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, string(utils.KindConflict), body["code"])

	w, body = do(r, http.MethodPost, "/register", gin.H{"firstName": "A", "lastName": "B", "password": "secret1"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(utils.KindMissingRequiredField), body["code"])

	w, _ = do(r, http.MethodPost, "/register", gin.H{"firstName": "A", "lastName": "B", "email": "x@y.co", "password": "123"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = do(r, http.MethodPost, "/login", gin.H{"email": "SOMCHAI@example.com", "password": "secret1"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["token"])

	w, body = do(r, http.MethodPost, "/login", gin.H{"email": "somchai@example.com", "password": "wrong!"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid email or password", body["error"])

	w, _ = do(r, http.MethodPost, "/login", gin.H{"email": "nobody@example.com", "password": "secret1"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileAndPassword(t *testing.T) {
	users := newMemoryUsers()
	r := setupRouter(users)

	hash, err := user_models.HashPassword("secret1")
	require.NoError(t, err)
	u, err := users.Create(context.Background(), &user_models.User{FirstName: "Nok", LastName: "Sun", Email: "nok@example.com", PasswordHash: hash, Role: utils.RoleUser})
	require.NoError(t, err)
	id := u.ID.String()

	w, _ := do(r, http.MethodGet, "/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := do(r, http.MethodGet, "/me", nil, id)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Nok", body["data"].(map[string]any)["firstName"])

	w, body = do(r, http.MethodPatch, "/me", gin.H{"firstName": "Noknoi", "phoneNumber": "0812345678"}, id)
	assert.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Noknoi", data["firstName"])
	assert.Equal(t, "0812345678", data["phoneNumber"])

	w, body = do(r, http.MethodPatch, "/me", gin.H{"firstName": "Noknoi"}, id)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No changes detected for profile update", body["message"])

	w, _ = do(r, http.MethodPut, "/me/password", gin.H{"currentPassword": "nope", "newPassword": "secret2"}, id)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = do(r, http.MethodPut, "/me/password", gin.H{"currentPassword": "secret1", "newPassword": "secret2"}, id)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["token"])

	stored, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TokenVersion)
	ok, err := user_models.VerifyPassword("secret2", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}
