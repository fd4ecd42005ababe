package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"smart-erp/internal/model"
	"smart-erp/pkg/apierror"
)

type fakeUserStore struct {
	users map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]model.User{}}
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *fakeUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) Create(_ context.Context, u model.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return model.ErrUserAlreadyExists
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *fakeUserStore) UpdateLastLogin(_ context.Context, userID string, at time.Time) error {
	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.LastLogin = &at
	s.users[userID] = u
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, userID string, passwordHash string) error {
	u, ok := s.users[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	s.users[userID] = u
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

type notifyCall struct {
	userID  string
	kind    string
	title   string
	message string
}

type fakeNotifier struct {
	calls []notifyCall
}

func (n *fakeNotifier) Notify(_ context.Context, userID string, kind string, title string, message string) (model.Notification, error) {
	n.calls = append(n.calls, notifyCall{userID: userID, kind: kind, title: title, message: message})
	return model.Notification{ID: "n1", UserID: userID, Kind: kind, Title: title, Message: message}, nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendPasswordReset(_ string, _ string, resetLink string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, resetLink)
	return nil
}

func newTestAuthService(t *testing.T, store *fakeUserStore, notifier *fakeNotifier, mailer *fakeMailer) *AuthService {
	t.Helper()

	svc, err := NewAuthService("test-secret", 24*time.Hour, 15*time.Minute, "http://localhost:5173/", store, notifier, mailer)
	require.NoError(t, err)
	svc.sleep = func(time.Duration) {}
	return svc
}

func seedUser(t *testing.T, store *fakeUserStore, id string, email string, password string, lastLogin *time.Time) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	u := model.User{
		ID:           id,
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         "admin",
		LastLogin:    lastLogin,
	}
	store.users[id] = u
	return u
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	_, err := NewAuthService("  ", time.Hour, time.Minute, "", newFakeUserStore(), &fakeNotifier{}, &fakeMailer{})
	assert.Error(t, err)
}

func TestRegisterIssuesSessionAndWelcomes(t *testing.T) {
	store := newFakeUserStore()
	notifier := &fakeNotifier{}
	svc := newTestAuthService(t, store, notifier, &fakeMailer{})

	resp, err := svc.Register(context.Background(), "Ada", "ada@example.com", "Abc123!@", "")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "admin", resp.User.Role)
	assert.Equal(t, "ada@example.com", resp.User.Email)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "Welcome to Smart ERP! 🎉", notifier.calls[0].title)
	assert.Equal(t, model.NotificationInfo, notifier.calls[0].kind)
	assert.Equal(t, resp.User.ID, notifier.calls[0].userID)
}

func TestRegisterMissingFields(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserStore(), &fakeNotifier{}, &fakeMailer{})

	_, err := svc.Register(context.Background(), "", "ada@example.com", "Abc123!@", "")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "BAD_REQUEST", apiErr.Code)
}

func TestRegisterConflictBeforePasswordPolicy(t *testing.T) {
	store := newFakeUserStore()
	seedUser(t, store, "u1", "ada@example.com", "Abc123!@", nil)
	svc := newTestAuthService(t, store, &fakeNotifier{}, &fakeMailer{})

	// The password here is too weak, but the duplicate email wins.
	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "short", "")

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "ALREADY_EXISTS", apiErr.Code)
}

func TestRegisterPasswordPolicy(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantOK   bool
	}{
		{"valid", "Abc123!@", true},
		{"too short", "Ab1!", false},
		{"missing uppercase and symbol", "abc12345", false},
		{"missing digit", "Abcdefg!", false},
		{"missing symbol", "Abcdefg1", false},
		{"disallowed character", "Abc123!#", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestAuthService(t, newFakeUserStore(), &fakeNotifier{}, &fakeMailer{})

			_, err := svc.Register(context.Background(), "Ada", "ada@example.com", tc.password, "")
			if tc.wantOK {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierror.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "BAD_REQUEST", apiErr.Code)
			assert.Equal(t, weakPasswordMessage, apiErr.Message)
		})
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	store := newFakeUserStore()
	seedUser(t, store, "u1", "ada@example.com", "Abc123!@", nil)
	svc := newTestAuthService(t, store, &fakeNotifier{}, &fakeMailer{})

	_, unknownErr := svc.Login(context.Background(), "nobody@example.com", "Abc123!@")
	_, wrongErr := svc.Login(context.Background(), "ada@example.com", "Wrong123!@")

	var unknownAPI, wrongAPI *apierror.APIError
	require.ErrorAs(t, unknownErr, &unknownAPI)
	require.ErrorAs(t, wrongErr, &wrongAPI)

	assert.Equal(t, unknownAPI.Code, wrongAPI.Code)
	assert.Equal(t, unknownAPI.Message, wrongAPI.Message)
	assert.Equal(t, unknownAPI.HTTPStatus, wrongAPI.HTTPStatus)
}

func TestLoginWelcomeBack(t *testing.T) {
	recent := time.Now().UTC().Add(-time.Hour)
	stale := time.Now().UTC().Add(-4 * 24 * time.Hour)

	cases := []struct {
		name        string
		lastLogin   *time.Time
		wantNotify  bool
		wantMessage string
	}{
		{"first login after registration", nil, true, "Good to see you again, Test User."},
		{"recent login", &recent, false, ""},
		{"stale login", &stale, true, "It's been a while. Good to see you again, Test User."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeUserStore()
			seedUser(t, store, "u1", "ada@example.com", "Abc123!@", tc.lastLogin)
			notifier := &fakeNotifier{}
			svc := newTestAuthService(t, store, notifier, &fakeMailer{})

			resp, err := svc.Login(context.Background(), "ada@example.com", "Abc123!@")
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Token)

			if !tc.wantNotify {
				assert.Empty(t, notifier.calls)
			} else {
				require.Len(t, notifier.calls, 1)
				assert.Equal(t, "Welcome Back! 👋", notifier.calls[0].title)
				assert.Equal(t, tc.wantMessage, notifier.calls[0].message)
			}

			// Login always stamps the moment, so the stale branch fires once.
			require.NotNil(t, store.users["u1"].LastLogin)
			assert.WithinDuration(t, time.Now().UTC(), *store.users["u1"].LastLogin, time.Minute)
		})
	}
}

func TestGetCurrentAccountGone(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserStore(), &fakeNotifier{}, &fakeMailer{})

	_, err := svc.GetCurrentAccount(context.Background(), "missing")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestAuthService(t, newFakeUserStore(), &fakeNotifier{}, mailer)

	var slept time.Duration
	svc.sleep = func(d time.Duration) { slept = d }

	err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Equal(t, time.Second, slept)
	assert.Empty(t, mailer.sent)
}

func TestRequestPasswordResetSendsLink(t *testing.T) {
	store := newFakeUserStore()
	seedUser(t, store, "u1", "ada@example.com", "Abc123!@", nil)
	mailer := &fakeMailer{}
	svc := newTestAuthService(t, store, &fakeNotifier{}, mailer)

	err := svc.RequestPasswordReset(context.Background(), "ada@example.com")
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0], "http://localhost:5173/reset-password/")

	token := mailer.sent[0][len("http://localhost:5173/reset-password/"):]
	claims, err := svc.parseToken(token, tokenTypeReset)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestRequestPasswordResetMailFailure(t *testing.T) {
	store := newFakeUserStore()
	seedUser(t, store, "u1", "ada@example.com", "Abc123!@", nil)
	mailer := &fakeMailer{err: assert.AnError}
	svc := newTestAuthService(t, store, &fakeNotifier{}, mailer)

	err := svc.RequestPasswordReset(context.Background(), "ada@example.com")
	assert.Error(t, err)
}

func TestResetPassword(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(t, store, "u1", "ada@example.com", "Abc123!@", nil)
	svc := newTestAuthService(t, store, &fakeNotifier{}, &fakeMailer{})

	token := signTestToken(t, svc.jwtSecret, jwt.MapClaims{
		"sub": "u1",
		"typ": tokenTypeReset,
		"exp": time.Now().Add(10 * time.Minute).Unix(),
	})

	require.NoError(t, svc.ResetPassword(context.Background(), token, "New123!@"))

	updated := store.users["u1"]
	assert.NotEqual(t, user.PasswordHash, updated.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("New123!@")))
}

func TestResetPasswordExpiredToken(t *testing.T) {
	store := newFakeUserStore()
	seedUser(t, store, "u1", "ada@example.com", "Abc123!@", nil)
	svc := newTestAuthService(t, store, &fakeNotifier{}, &fakeMailer{})

	token := signTestToken(t, svc.jwtSecret, jwt.MapClaims{
		"sub": "u1",
		"typ": tokenTypeReset,
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	err := svc.ResetPassword(context.Background(), token, "New123!@")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "TOKEN_EXPIRED", apiErr.Code)
}

func TestResetPasswordTamperedToken(t *testing.T) {
	store := newFakeUserStore()
	seedUser(t, store, "u1", "ada@example.com", "Abc123!@", nil)
	svc := newTestAuthService(t, store, &fakeNotifier{}, &fakeMailer{})

	token := signTestToken(t, []byte("other-secret"), jwt.MapClaims{
		"sub": "u1",
		"typ": tokenTypeReset,
		"exp": time.Now().Add(10 * time.Minute).Unix(),
	})

	err := svc.ResetPassword(context.Background(), token, "New123!@")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_TOKEN", apiErr.Code)
}

func TestResetPasswordRejectsSessionToken(t *testing.T) {
	store := newFakeUserStore()
	seedUser(t, store, "u1", "ada@example.com", "Abc123!@", nil)
	svc := newTestAuthService(t, store, &fakeNotifier{}, &fakeMailer{})

	token := signTestToken(t, svc.jwtSecret, jwt.MapClaims{
		"sub": "u1",
		"typ": tokenTypeSession,
		"exp": time.Now().Add(10 * time.Minute).Unix(),
	})

	err := svc.ResetPassword(context.Background(), token, "New123!@")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_TOKEN", apiErr.Code)
}

func TestDeleteAccountIsNotIdempotent(t *testing.T) {
	store := newFakeUserStore()
	seedUser(t, store, "u1", "ada@example.com", "Abc123!@", nil)
	svc := newTestAuthService(t, store, &fakeNotifier{}, &fakeMailer{})

	require.NoError(t, svc.DeleteAccount(context.Background(), "u1"))

	err := svc.DeleteAccount(context.Background(), "u1")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
}

func TestValidateToken(t *testing.T) {
	store := newFakeUserStore()
	user := seedUser(t, store, "u1", "ada@example.com", "Abc123!@", nil)
	svc := newTestAuthService(t, store, &fakeNotifier{}, &fakeMailer{})

	resp, err := svc.issueSession(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.Token, tokenTypeSession)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.TokenID)

	// A session token must not pass where a reset token is expected.
	_, err = svc.ValidateToken(resp.Token, tokenTypeReset)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-token", tokenTypeSession)
	assert.Error(t, err)
}

func signTestToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}
