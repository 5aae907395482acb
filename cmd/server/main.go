package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"vocabgems/internal/config"
	"vocabgems/internal/database"
	"vocabgems/internal/handlers"
	"vocabgems/internal/repository"
	"vocabgems/internal/security"
	"vocabgems/internal/service"
)

// analyticsStore joins the gem and session repositories into the read surface
// the analytics service consumes.
type analyticsStore struct {
	*repository.GemRepository
	*repository.SessionRepository
}

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Repositories
	studentRepo := repository.NewStudentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	gemRepo := repository.NewGemRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	// Services
	tokenIssuer := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenDuration)
	authService := service.NewAuthService(studentRepo, tokenIssuer)
	gate := service.NewProgressionGate(progressRepo)
	sessionService := service.NewSessionService(sessionRepo, gemRepo, progressRepo, studentRepo, gate,
		time.Duration(cfg.MaxSessionDurationSeconds)*time.Second)
	analyticsService := service.NewAnalyticsService(analyticsStore{gemRepo, sessionRepo})

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail,
		cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Handlers
	var googleOAuth *oauth2.Config
	if cfg.GoogleClientID != "" {
		googleOAuth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	authHandler := handlers.NewAuthHandler(authService, googleOAuth)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, emailService, studentRepo)
	progressHandler := handlers.NewProgressHandler(progressRepo)

	limiter := security.NewRateLimiter(300, time.Minute)
	mw := handlers.NewMiddleware(authService, limiter)

	// Router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/google/login", authHandler.StartGoogleOAuth).Methods("GET")
	api.HandleFunc("/auth/google/callback", authHandler.GoogleOAuthCallback).Methods("GET")
	api.HandleFunc("/auth/me", mw.RequireAuth(authHandler.Me)).Methods("GET")

	api.HandleFunc("/sessions", mw.RequireAuth(sessionHandler.StartSession)).Methods("POST")
	api.HandleFunc("/sessions/{id}/attempts", mw.RequireAuth(sessionHandler.RecordAttempt)).Methods("POST")
	api.HandleFunc("/sessions/{id}/end", mw.RequireAuth(sessionHandler.EndSession)).Methods("POST")
	api.HandleFunc("/sessions/{id}/bonus", mw.RequireAuth(sessionHandler.AwardBonus)).Methods("POST")
	api.HandleFunc("/sessions/{id}/gems", mw.RequireAuth(sessionHandler.SessionGems)).Methods("GET")

	api.HandleFunc("/students/{id}/sessions", mw.RequireAuth(sessionHandler.StudentSessions)).Methods("GET")
	api.HandleFunc("/students/{id}/analytics", mw.RequireAuth(analyticsHandler.Summary)).Methods("GET")
	api.HandleFunc("/students/{id}/analytics/daily", mw.RequireAuth(analyticsHandler.Daily)).Methods("GET")
	api.HandleFunc("/students/{id}/report", mw.RequireTeacher(analyticsHandler.SendReport)).Methods("POST")
	api.HandleFunc("/students/{id}/progress", mw.RequireAuth(progressHandler.List)).Methods("GET")
	api.HandleFunc("/students/{id}/progress/{vocabId}/schedule", mw.RequireTeacher(progressHandler.SetSchedule)).Methods("PUT")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	handler := handlers.Logging(mw.RateLimit(c.Handler(r)))

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}
