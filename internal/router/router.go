package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"smart-erp/internal/config"
	"smart-erp/internal/handler"
	"smart-erp/internal/middleware"
)

// Resource pairs a mount path with the CRUD handler serving it.
type Resource struct {
	Path   string
	Routes func() chi.Router
}

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	notificationHandler *handler.NotificationHandler,
	resources []Resource,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// The websocket stream lives outside the timeout group; http.TimeoutHandler
	// buffers responses and breaks connection hijacking.
	r.With(authMiddleware.RequireAuth).Get("/api/notifications/stream", notificationHandler.Stream)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", authHandler.Register)
			auth.Post("/login", authHandler.Login)
			auth.Post("/forgot-password", authHandler.ForgotPassword)
			auth.Post("/reset-password/{token}", authHandler.ResetPassword)
			auth.With(authMiddleware.RequireAuth).Get("/user", authHandler.Me)
			auth.With(authMiddleware.RequireAuth).Delete("/delete", authHandler.DeleteAccount)
		})

		api.Route("/notifications", func(n chi.Router) {
			n.Use(authMiddleware.RequireAuth)
			n.Get("/", notificationHandler.List)
			n.Post("/", notificationHandler.Create)
			n.Put("/{id}/read", notificationHandler.MarkRead)
			n.Put("/mark-all-read", notificationHandler.MarkAllRead)
		})

		for _, resource := range resources {
			api.With(authMiddleware.RequireAuth).Mount(resource.Path, resource.Routes())
		}
	})

	if cfg.StaticDir != "" {
		r.NotFound(spaHandler(cfg.StaticDir))
	}

	return r
}

// spaHandler serves the built frontend, falling back to index.html for any
// path without a matching file so client-side routing keeps working.
func spaHandler(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))

	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}

		requested := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(requested); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	}
}
