package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"devtrack-backend/internal/handlers"
	"devtrack-backend/internal/middleware"
	"devtrack-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	githubHandler *handlers.GitHubHandler,
	projectHandler *handlers.ProjectHandler,
	goalHandler *handlers.GoalHandler,
	noteHandler *handlers.NoteHandler,
	courseHandler *handlers.CourseHandler,
	sessionHandler *handlers.SessionHandler,
	dashboardHandler *handlers.DashboardHandler,
	wsHub *websocket.Hub,
	frontendURL string,
	authRateLimit int,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (per IP, requests per minute from config)
	authLimiter := middleware.NewRateLimiter(authRateLimit, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/github/login", authHandler.Login)
			r.Post("/github/callback", authHandler.Callback)
			r.Post("/refresh", authHandler.Refresh)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── User Routes ────
		r.Route("/user", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", userHandler.Me)
			r.Get("/profile", userHandler.Profile)
			r.Delete("/me", userHandler.Delete)
		})

		// ──── GitHub Routes ────
		r.Route("/github", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/repos", githubHandler.Repos)
		})

		// ──── Project Routes ────
		r.Route("/projects", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", projectHandler.List)
			r.Post("/", projectHandler.Import)
			r.Get("/{id}", projectHandler.Get)
			r.Delete("/{id}", projectHandler.Delete)
			r.Put("/{id}/status", projectHandler.SetStatus)
			r.Post("/{id}/sync", projectHandler.Sync)
			r.Get("/{id}/goals", goalHandler.List)
			r.Post("/{id}/goals", goalHandler.Create)
			r.Get("/{id}/notes", noteHandler.List)
			r.Post("/{id}/notes", noteHandler.Create)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Put("/{id}", goalHandler.Update)
			r.Delete("/{id}", goalHandler.Delete)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Put("/{id}", noteHandler.Update)
			r.Delete("/{id}", noteHandler.Delete)
		})

		// ──── Course Routes ────
		r.Route("/courses", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", courseHandler.List)
			r.Post("/", courseHandler.Create)
			r.Get("/{id}", courseHandler.Get)
			r.Put("/{id}", courseHandler.Update)
			r.Delete("/{id}", courseHandler.Delete)
		})

		// ──── Session Routes ────
		r.Route("/sessions", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/start", sessionHandler.Start)
			r.Post("/{id}/stop", sessionHandler.Stop)
			r.Put("/{id}/context", sessionHandler.UpdateContext)
			r.Get("/active", sessionHandler.Active)
			r.Get("/recent", sessionHandler.Recent)
			r.Get("/all", sessionHandler.All)
			r.Get("/context-options", sessionHandler.ContextOptions)
			r.Get("/stats", sessionHandler.Stats)
		})

		// ──── Dashboard Routes ────
		r.Route("/dashboard", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", dashboardHandler.Get)
			r.Get("/graph", dashboardHandler.Graph)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
