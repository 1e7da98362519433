package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storynest/internal/config"
	"storynest/internal/database"
	"storynest/internal/handlers"
	"storynest/internal/repository"
	"storynest/internal/security"
	"storynest/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.AuthTokenSecret == "" {
		log.Fatal("AUTH_TOKEN_SECRET must be set")
	}

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

	// Initialize repositories
	parentRepo := repository.NewParentRepository(db)
	childRepo := repository.NewChildRepository(db)
	policyRepo := repository.NewPolicyRepository(db)
	bookRepo := repository.NewBookRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// Seed starter categories and age groups
	if err := taxonomyRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed taxonomy: %v", err)
	}

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	clock := service.RealClock{}
	accessService := service.NewAccessService(childRepo, policyRepo, bookRepo, sessionRepo, clock)
	policyService := service.NewPolicyService(childRepo, policyRepo, taxonomyRepo)
	readingService := service.NewReadingService(accessService, sessionRepo, parentRepo, childRepo, emailService, clock)
	libraryService := service.NewLibraryService(accessService, bookRepo, taxonomyRepo)

	// Initialize handlers
	verifier := security.NewTokenVerifier(cfg.AuthTokenSecret)
	limiter := security.NewRateLimiter(120, time.Minute)
	middleware := handlers.NewMiddleware(verifier, limiter)
	libraryHandler := handlers.NewLibraryHandler(libraryService)
	readingHandler := handlers.NewReadingHandler(readingService)
	policyHandler := handlers.NewPolicyHandler(policyService)

	// Setup routes
	mux := http.NewServeMux()

	// Child routes
	mux.HandleFunc("GET /api/child/library", middleware.RequireChildAuth(libraryHandler.GetLibrary))
	mux.HandleFunc("GET /api/child/books/{bookId}", middleware.RequireChildAuth(libraryHandler.GetBook))
	mux.HandleFunc("GET /api/child/books/{bookId}/pages", middleware.RequireChildAuth(libraryHandler.GetPages))
	mux.HandleFunc("GET /api/child/books/{bookId}/resume", middleware.RequireChildAuth(readingHandler.GetResume))
	mux.HandleFunc("POST /api/child/reading/start/{bookId}", middleware.RequireChildAuth(readingHandler.StartReading))
	mux.HandleFunc("POST /api/child/reading/{sessionId}/progress", middleware.RequireChildAuth(readingHandler.TrackProgress))
	mux.HandleFunc("POST /api/child/reading/{sessionId}/end", middleware.RequireChildAuth(readingHandler.EndReading))

	// Parent routes
	mux.HandleFunc("GET /api/parent/children/{childId}/policy", middleware.RequireParentAuth(policyHandler.GetPolicy))
	mux.HandleFunc("PUT /api/parent/children/{childId}/policy", middleware.RequireParentAuth(policyHandler.UpdatePolicy))

	// Wrap with rate limiting and logging middleware
	handler := handlers.Logging(middleware.RateLimit(mux))

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background sweep of abandoned sessions
	go sweepAbandonedSessions(readingService, cfg.SessionIdleTimeout)

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
}

// sweepAbandonedSessions periodically finalizes open sessions that went idle,
// so a closed tablet doesn't hold a session open forever
func sweepAbandonedSessions(readingService *service.ReadingService, idleTimeout time.Duration) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		closed, err := readingService.CloseAbandonedSessions(idleTimeout)
		if err != nil {
			log.Printf("Error sweeping abandoned sessions: %v", err)
			continue
		}
		if closed > 0 {
			log.Printf("Closed %d abandoned reading sessions", closed)
		}
	}
}
