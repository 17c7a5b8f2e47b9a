package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"learnloop/internal/config"
	"learnloop/internal/database"
	"learnloop/internal/handlers"
	"learnloop/internal/repository"
	"learnloop/internal/service"
	"learnloop/internal/srs"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.Initialize(cfg)
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
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.SessionDuration)
	itemService := service.NewItemService(itemRepo, userRepo, srs.DefaultConfig())
	reminderService, err := service.NewReminderService(itemRepo, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.TokenSecret)
	if err != nil {
		log.Fatalf("Failed to initialize reminder service: %v", err)
	}

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name: "google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
	}

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService, cfg.AllowedOrigin)
	userHandler := handlers.NewUserHandler(authService)
	authHandler := handlers.NewAuthHandler(authService, oauthProviders, cfg.OAuthRedirectBaseURL)
	itemHandler := handlers.NewItemHandler(itemService)
	reviewHandler := handlers.NewReviewHandler(itemService, cfg.TokenSecret)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", userHandler.Home)
	mux.HandleFunc("POST /users", middleware.RateLimit(userHandler.CreateUser))
	mux.HandleFunc("GET /users/test", userHandler.CreateTestUser)

	mux.HandleFunc("POST /auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	mux.HandleFunc("POST /calculate-reviews", itemHandler.CalculateReviews)
	mux.HandleFunc("POST /learning-items", itemHandler.CreateLearningItem)
	mux.HandleFunc("GET /learning-items/{userID}", itemHandler.ListLearningItems)
	mux.HandleFunc("DELETE /learning-items/{itemID}", itemHandler.DeleteLearningItem)
	mux.HandleFunc("GET /analytics/{userID}", itemHandler.GetAnalytics)

	mux.HandleFunc("GET /review-schedules/{itemID}", reviewHandler.ListSchedules)
	mux.HandleFunc("POST /review-complete/{scheduleID}", reviewHandler.CompleteReview)
	mux.HandleFunc("POST /review-delete/{scheduleID}", reviewHandler.DeleteReview)
	mux.HandleFunc("GET /reviews/complete", reviewHandler.CompleteFromLink)

	// Wrap with CORS and logging middleware
	handler := handlers.Logging(middleware.CORS(mux))

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Background maintenance: reminder dispatch and session cleanup
	go runMaintenance(cfg.ReminderInterval, authService, reminderService)

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// runMaintenance periodically dispatches due review reminders and removes
// expired sessions.
func runMaintenance(interval time.Duration, authService *service.AuthService, reminderService *service.ReminderService) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		}

		if reminderService.IsEnabled() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			sent, err := reminderService.DispatchDueReminders(ctx)
			cancel()
			if err != nil {
				log.Printf("Error dispatching reminders: %v", err)
			} else if sent > 0 {
				log.Printf("Dispatched %d review reminders", sent)
			}
		}
	}
}
