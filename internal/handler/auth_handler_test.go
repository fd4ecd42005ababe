package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-erp/internal/middleware"
	"smart-erp/internal/model"
	"smart-erp/internal/service"
)

type memUserStore struct {
	users map[string]model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]model.User{}}
}

func (s *memUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (s *memUserStore) Create(_ context.Context, u model.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return model.ErrUserAlreadyExists
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *memUserStore) UpdateLastLogin(_ context.Context, userID string, at time.Time) error {
	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.LastLogin = &at
	s.users[userID] = u
	return nil
}

func (s *memUserStore) UpdatePassword(_ context.Context, userID string, passwordHash string) error {
	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	s.users[userID] = u
	return nil
}

func (s *memUserStore) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

type nullNotifier struct{}

func (nullNotifier) Notify(_ context.Context, userID string, kind string, title string, message string) (model.Notification, error) {
	return model.Notification{UserID: userID, Kind: kind, Title: title, Message: message}, nil
}

type captureMailer struct {
	links []string
}

func (m *captureMailer) SendPasswordReset(_ string, _ string, resetLink string) error {
	m.links = append(m.links, resetLink)
	return nil
}

func newAuthTestRouter(t *testing.T) (http.Handler, *captureMailer) {
	t.Helper()

	mailer := &captureMailer{}
	authService, err := service.NewAuthService(
		"test-secret", time.Hour, 15*time.Minute, "http://localhost:5173",
		newMemUserStore(), nullNotifier{}, mailer,
	)
	require.NoError(t, err)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	h := NewAuthHandler(authService)

	r := chi.NewRouter()
	r.Route("/api/auth", func(auth chi.Router) {
		auth.Post("/register", h.Register)
		auth.Post("/login", h.Login)
		auth.Post("/forgot-password", h.ForgotPassword)
		auth.Post("/reset-password/{token}", h.ResetPassword)
		auth.With(authMiddleware.RequireAuth).Get("/user", h.Me)
		auth.With(authMiddleware.RequireAuth).Delete("/delete", h.DeleteAccount)
	})
	return r, mailer
}

func postJSON(t *testing.T, h http.Handler, path string, body any, token string) (*httptest.ResponseRecorder, model.APIResponse) {
	t.Helper()
	return requestJSON(t, h, http.MethodPost, path, body, token)
}

func requestJSON(t *testing.T, h http.Handler, method string, path string, body any, token string) (*httptest.ResponseRecorder, model.APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var parsed model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	return rec, parsed
}

func registerTestUser(t *testing.T, h http.Handler, email string, password string) string {
	t.Helper()

	rec, resp := postJSON(t, h, "/api/auth/register", model.RegisterRequest{
		Name: "Ada", Email: email, Password: password,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterEndpoint(t *testing.T) {
	h, _ := newAuthTestRouter(t)

	rec, resp := postJSON(t, h, "/api/auth/register", model.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "Abc123!@",
	}, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "Bearer", data["token_type"])

	user := data["user"].(map[string]any)
	assert.Equal(t, "admin", user["role"])
	assert.Nil(t, user["password"])
}

func TestRegisterDuplicateEndpoint(t *testing.T) {
	h, _ := newAuthTestRouter(t)
	registerTestUser(t, h, "ada@example.com", "Abc123!@")

	rec, resp := postJSON(t, h, "/api/auth/register", model.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "Abc123!@",
	}, "")

	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ALREADY_EXISTS", resp.Error.Code)
}

func TestLoginEndpoint(t *testing.T) {
	h, _ := newAuthTestRouter(t)
	registerTestUser(t, h, "ada@example.com", "Abc123!@")

	rec, resp := postJSON(t, h, "/api/auth/login", model.LoginRequest{
		Email: "ada@example.com", Password: "Abc123!@",
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	rec, resp = postJSON(t, h, "/api/auth/login", model.LoginRequest{
		Email: "ada@example.com", Password: "Wrong123!@",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestMeEndpoint(t *testing.T) {
	h, _ := newAuthTestRouter(t)
	token := registerTestUser(t, h, "ada@example.com", "Abc123!@")

	rec, resp := requestJSON(t, h, http.MethodGet, "/api/auth/user", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)

	account := resp.Data.(map[string]any)
	assert.Equal(t, "ada@example.com", account["email"])

	rec, _ = requestJSON(t, h, http.MethodGet, "/api/auth/user", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	h, mailer := newAuthTestRouter(t)
	registerTestUser(t, h, "ada@example.com", "Abc123!@")

	rec, resp := postJSON(t, h, "/api/auth/forgot-password", model.ForgotPasswordRequest{
		Email: "ada@example.com",
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)

	require.Len(t, mailer.links, 1)
	token := strings.TrimPrefix(mailer.links[0], "http://localhost:5173/reset-password/")
	require.NotEmpty(t, token)

	rec, _ = postJSON(t, h, "/api/auth/reset-password/"+token, model.ResetPasswordRequest{
		Password: "New123!@",
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Old credentials stop working, new ones take over.
	rec, _ = postJSON(t, h, "/api/auth/login", model.LoginRequest{Email: "ada@example.com", Password: "Abc123!@"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = postJSON(t, h, "/api/auth/login", model.LoginRequest{Email: "ada@example.com", Password: "New123!@"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestForgotPasswordUnknownEmailLooksTheSame(t *testing.T) {
	h, mailer := newAuthTestRouter(t)

	rec, resp := postJSON(t, h, "/api/auth/forgot-password", model.ForgotPasswordRequest{
		Email: "nobody@example.com",
	}, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Empty(t, mailer.links)
}

func TestResetPasswordGarbageToken(t *testing.T) {
	h, _ := newAuthTestRouter(t)

	rec, resp := postJSON(t, h, "/api/auth/reset-password/garbage", model.ResetPasswordRequest{
		Password: "New123!@",
	}, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", resp.Error.Code)
}

func TestDeleteAccountEndpoint(t *testing.T) {
	h, _ := newAuthTestRouter(t)
	token := registerTestUser(t, h, "ada@example.com", "Abc123!@")

	rec, _ := requestJSON(t, h, http.MethodDelete, "/api/auth/delete", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The token still parses, but the account behind it is gone.
	rec, resp := requestJSON(t, h, http.MethodGet, "/api/auth/user", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}
