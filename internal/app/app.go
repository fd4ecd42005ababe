package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart-erp/internal/config"
	"smart-erp/internal/database"
	"smart-erp/internal/event"
	"smart-erp/internal/handler"
	"smart-erp/internal/mailer"
	"smart-erp/internal/middleware"
	"smart-erp/internal/model"
	"smart-erp/internal/repository"
	"smart-erp/internal/router"
	"smart-erp/internal/service"
	"smart-erp/internal/websocket"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	slog.Info("database ready")

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	go hub.Run()

	notificationService := service.NewNotificationService(notificationRepo, bus)
	resetMailer := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)

	authService, err := service.NewAuthService(
		cfg.JWTSecret,
		cfg.SessionTTL,
		cfg.ResetTokenTTL,
		cfg.FrontendOrigin,
		userRepo,
		notificationService,
		resetMailer,
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)
	notificationHandler := handler.NewNotificationHandler(notificationService, hub)

	inventoryHandler := handler.NewResourceHandler[model.InventoryItem, *model.InventoryItem](
		"inventory", repository.NewInventoryRepository(pool)).
		WithAfterCreate(func(ctx context.Context, claims *model.AuthClaims, created model.InventoryItem) {
			message := fmt.Sprintf("%s has been added to inventory.", created.ItemName)
			if _, err := notificationService.Notify(ctx, claims.UserID, model.NotificationInfo, "New Inventory Added", message); err != nil {
				slog.Error("inventory notification failed", "error", err)
			}
		})

	resources := []router.Resource{
		{Path: "/inventory", Routes: inventoryHandler.Routes},
		{Path: "/orders", Routes: handler.NewResourceHandler[model.Order, *model.Order](
			"orders", repository.NewOrderRepository(pool)).Routes},
		{Path: "/jobs", Routes: handler.NewResourceHandler[model.JobApplication, *model.JobApplication](
			"jobs", repository.NewJobApplicationRepository(pool)).Routes},
		{Path: "/complaints", Routes: handler.NewResourceHandler[model.Complaint, *model.Complaint](
			"complaints", repository.NewComplaintRepository(pool)).Routes},
		{Path: "/procurement", Routes: handler.NewResourceHandler[model.Procurement, *model.Procurement](
			"procurement", repository.NewProcurementRepository(pool)).Routes},
		{Path: "/incidents", Routes: handler.NewResourceHandler[model.Incident, *model.Incident](
			"incidents", repository.NewIncidentRepository(pool)).Routes},
		{Path: "/vendors", Routes: handler.NewResourceHandler[model.Vendor, *model.Vendor](
			"vendors", repository.NewVendorRepository(pool)).Routes},
		{Path: "/training", Routes: handler.NewResourceHandler[model.Training, *model.Training](
			"training", repository.NewTrainingRepository(pool)).Routes},
		{Path: "/evaluations", Routes: handler.NewResourceHandler[model.Evaluation, *model.Evaluation](
			"evaluations", repository.NewEvaluationRepository(pool)).Routes},
		{Path: "/crm", Routes: handler.NewResourceHandler[model.Lead, *model.Lead](
			"crm", repository.NewLeadRepository(pool)).Routes},
	}

	appRouter := router.New(cfg, authMiddleware, authHandler, notificationHandler, resources)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
