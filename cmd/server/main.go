package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"strokeclash/internal/config"
	"strokeclash/internal/database"
	"strokeclash/internal/handlers"
	"strokeclash/internal/repository"
	"strokeclash/internal/security"
	"strokeclash/internal/service"
)

// staleSessionAge is how long an unfinished session can sit idle before the
// cleanup job marks it abandoned
const staleSessionAge = 24 * time.Hour

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Seed reference characters on first run
	if err := db.SeedCharacters(cfg.SeedPath); err != nil {
		log.Fatalf("Failed to seed characters: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	exerciseRepo := repository.NewExerciseRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	// Initialize services
	practiceService := service.NewPracticeService(userRepo, sessionRepo, attemptRepo, progressRepo, characterRepo, exerciseRepo)
	progressService := service.NewProgressService(userRepo, attemptRepo, progressRepo)
	exerciseService := service.NewExerciseService(exerciseRepo)
	endlessService := service.NewEndlessService(userRepo, characterRepo, exerciseRepo, progressRepo, nil)

	reminderService, err := service.NewReminderService(userRepo, progressRepo,
		cfg.AWSRegion, cfg.FromEmail, cfg.FromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize reminder service: %v", err)
	}

	// Initialize handlers
	tokens := security.NewTokenIssuer(cfg.SessionSecret, cfg.SessionDuration)
	limiter := security.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	middleware := handlers.NewMiddleware(tokens, limiter, cfg.AdminKeyHash)

	sessionHandler := handlers.NewSessionHandler(practiceService, tokens)
	attemptHandler := handlers.NewAttemptHandler(practiceService)
	exerciseHandler := handlers.NewExerciseHandler(exerciseService)
	endlessHandler := handlers.NewEndlessHandler(endlessService)
	progressHandler := handlers.NewProgressHandler(progressService)
	adminHandler := handlers.NewAdminHandler(db, cfg.SeedPath)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/sessions", middleware.RateLimit(sessionHandler.Start))
	mux.HandleFunc("GET /api/sessions/{id}", middleware.RequireSession(sessionHandler.Results))
	mux.HandleFunc("POST /api/sessions/{id}/complete", middleware.RateLimit(middleware.RequireSession(sessionHandler.Complete)))
	mux.HandleFunc("POST /api/attempts", middleware.RateLimit(middleware.RequireSession(attemptHandler.Submit)))

	mux.HandleFunc("GET /api/exercises", exerciseHandler.List)
	mux.HandleFunc("GET /api/exercises/{id}", exerciseHandler.Get)

	mux.HandleFunc("POST /api/endless/generate", middleware.RateLimit(endlessHandler.Generate))
	mux.HandleFunc("POST /api/endless/complete", middleware.RateLimit(endlessHandler.Complete))

	mux.HandleFunc("GET /api/users/{username}/progress", progressHandler.GetProgress)
	mux.HandleFunc("GET /api/users/{username}/struggling", progressHandler.GetStruggling)

	mux.HandleFunc("POST /api/admin/reseed", middleware.RequireAdmin(adminHandler.Reseed))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background jobs
	stop := make(chan struct{})
	go cleanupStaleSessions(practiceService, stop)
	go sendReviewReminders(reminderService, stop)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// cleanupStaleSessions periodically closes out sessions the learner walked
// away from
func cleanupStaleSessions(practiceService *service.PracticeService, stop <-chan struct{}) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			closed, err := practiceService.AbandonStaleSessions(time.Now().Add(-staleSessionAge))
			if err != nil {
				log.Printf("Error cleaning up stale sessions: %v", err)
			} else if closed > 0 {
				log.Printf("Closed %d stale practice sessions", closed)
			}
		}
	}
}

// sendReviewReminders periodically emails learners with due reviews
func sendReviewReminders(reminderService *service.ReminderService, stop <-chan struct{}) {
	if !reminderService.IsEnabled() {
		return
	}

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			sent, err := reminderService.SendDueReminders(context.Background(), time.Now())
			if err != nil {
				log.Printf("Error sending review reminders: %v", err)
			} else if sent > 0 {
				log.Printf("Sent %d review reminders", sent)
			}
		}
	}
}
