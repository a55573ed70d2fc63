package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devtrack-backend/internal/config"
	"devtrack-backend/internal/database"
	"devtrack-backend/internal/handlers"
	"devtrack-backend/internal/middleware"
	"devtrack-backend/internal/repository"
	"devtrack-backend/internal/router"
	"devtrack-backend/internal/services"
	"devtrack-backend/internal/websocket"
	"devtrack-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting DevTrack Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	projectRepo := repository.NewProjectRepo(pool)
	courseRepo := repository.NewCourseRepo(pool)
	sessionRepo := repository.NewSessionRepo(pool)
	goalRepo := repository.NewGoalRepo(pool)
	noteRepo := repository.NewNoteRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	githubService := services.NewGitHubService(redisClients.Cache)
	authService := services.NewAuthService(userRepo, redisClients.Cache, jwtAuth, githubService, cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubRedirectURL)
	userService := services.NewUserService(userRepo, projectRepo, courseRepo, sessionRepo)
	projectService := services.NewProjectService(projectRepo, userRepo, githubService, redisClients.Cache)
	courseService := services.NewCourseService(courseRepo)
	goalService := services.NewGoalService(goalRepo, projectRepo)
	noteService := services.NewNoteService(noteRepo, projectRepo)
	sessionEvents := services.NewSessionEvents(redisClients.Cache)
	sessionService := services.NewSessionService(sessionRepo, projectRepo, courseRepo, sessionEvents)
	dashboardService := services.NewDashboardService(userRepo, projectRepo, courseRepo, sessionRepo)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	githubHandler := handlers.NewGitHubHandler(projectService)
	projectHandler := handlers.NewProjectHandler(projectService)
	goalHandler := handlers.NewGoalHandler(goalService)
	noteHandler := handlers.NewNoteHandler(noteService)
	courseHandler := handlers.NewCourseHandler(courseService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// ──── Step 5: Start Sync Worker Pool ────
	workerPool := worker.NewPool(redisClients.Cache, projectService, cfg.SyncWorkers)
	workerPool.Start()
	log.Printf("✓ Sync worker pool started (%d goroutines)", cfg.SyncWorkers)

	syncScheduler := services.NewSyncScheduler(cfg, projectRepo, projectService)
	if err := syncScheduler.Start(); err != nil {
		log.Fatalf("✗ Sync scheduler failed to start: %v", err)
	}

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		userHandler,
		githubHandler,
		projectHandler,
		goalHandler,
		noteHandler,
		courseHandler,
		sessionHandler,
		dashboardHandler,
		wsHub,
		cfg.FrontendURL,
		cfg.AuthRateLimit,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()
		syncScheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ DevTrack Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
