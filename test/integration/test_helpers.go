//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"smart-erp/internal/config"
	"smart-erp/internal/database"
	"smart-erp/internal/event"
	"smart-erp/internal/handler"
	"smart-erp/internal/middleware"
	"smart-erp/internal/model"
	"smart-erp/internal/repository"
	"smart-erp/internal/router"
	"smart-erp/internal/service"
	"smart-erp/internal/websocket"
)

type recordedMail struct {
	To   string
	Link string
}

type testMailer struct {
	mails []recordedMail
}

func (m *testMailer) SendPasswordReset(to string, _ string, resetLink string) error {
	m.mails = append(m.mails, recordedMail{To: to, Link: resetLink})
	return nil
}

type testEnv struct {
	server *httptest.Server
	mailer *testMailer
	db     *database.DB
}

// newTestEnv wires the full stack against the database named by
// TEST_DATABASE_URL and truncates all tables so each test starts clean.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, dsn, 5, 1)
	require.NoError(t, err)
	require.NoError(t, db.EnsureSchema(ctx))

	_, err = db.Pool.Exec(ctx, `TRUNCATE users, notifications, inventory_items, orders,
		job_applications, complaints, procurements, incidents, vendors, trainings,
		evaluations, leads`)
	require.NoError(t, err)

	cfg := &config.Config{
		ServerPort:       "0",
		RequestTimeout:   30 * time.Second,
		JWTSecret:        "integration-secret",
		SessionTTL:       time.Hour,
		ResetTokenTTL:    15 * time.Minute,
		FrontendOrigin:   "http://localhost:5173",
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
	}

	pool := db.Pool
	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	go hub.Run()

	notificationService := service.NewNotificationService(repository.NewNotificationRepository(pool), bus)
	mailer := &testMailer{}

	authService, err := service.NewAuthService(
		cfg.JWTSecret, cfg.SessionTTL, cfg.ResetTokenTTL, cfg.FrontendOrigin,
		repository.NewUserRepository(pool), notificationService, mailer,
	)
	require.NoError(t, err)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)
	notificationHandler := handler.NewNotificationHandler(notificationService, hub)

	resources := []router.Resource{
		{Path: "/inventory", Routes: handler.NewResourceHandler[model.InventoryItem, *model.InventoryItem](
			"inventory", repository.NewInventoryRepository(pool)).Routes},
		{Path: "/orders", Routes: handler.NewResourceHandler[model.Order, *model.Order](
			"orders", repository.NewOrderRepository(pool)).Routes},
		{Path: "/crm", Routes: handler.NewResourceHandler[model.Lead, *model.Lead](
			"crm", repository.NewLeadRepository(pool)).Routes},
	}

	server := httptest.NewServer(router.New(cfg, authMiddleware, authHandler, notificationHandler, resources))

	t.Cleanup(func() {
		server.Close()
		db.Close()
	})

	return &testEnv{server: server, mailer: mailer, db: db}
}

func (e *testEnv) request(t *testing.T, method string, path string, body any, token string) (*http.Response, model.APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed model.APIResponse
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	}
	return resp, parsed
}

func (e *testEnv) register(t *testing.T, email string, password string) string {
	t.Helper()

	resp, parsed := e.request(t, http.MethodPost, "/api/auth/register", model.RegisterRequest{
		Name: "Integration User", Email: email, Password: password,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data, ok := parsed.Data.(map[string]any)
	require.True(t, ok)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
